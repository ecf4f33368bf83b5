package leaverequest

import (
	"time"

	"github.com/dapphari007/leavemon-sub001/internal/workflow"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

// ApprovalDecision records one acted-on (or skipped) level of a request.
type ApprovalDecision struct {
	Level     int        `json:"level"`
	ActorID   *uuid.UUID `json:"actor_id,omitempty"`
	Decision  string     `json:"decision"` // approved, rejected, skipped
	Comment   string     `json:"comment,omitempty"`
	DecidedAt time.Time  `json:"decided_at"`
}

// LeaveRequest snapshots its resolved approval levels at submission time.
// Levels is a copy of the workflow template as it existed when the request
// was submitted; later template edits never change an in-flight request.
type LeaveRequest struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null;index"`
	StartDate   time.Time `gorm:"type:date;not null"`
	EndDate     time.Time `gorm:"type:date;not null"`
	Days        float64   `gorm:"not null"`
	Reason      string    `gorm:"type:text"`
	Status      string    `gorm:"size:20;not null;default:'pending';index"`

	WorkflowID     *uuid.UUID `gorm:"type:uuid"`
	WorkflowSource string     `gorm:"size:20"`

	CurrentApprovalLevel int                      `gorm:"not null;default:0"`
	Levels               []workflow.ApprovalLevel `gorm:"serializer:json;type:jsonb;not null"`
	Decisions            []ApprovalDecision       `gorm:"serializer:json;type:jsonb"`

	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// LeaveBalance tracks per-user per-type per-year day accounting.
// Remaining = Balance + CarryForward - Used - PendingDays.
type LeaveBalance struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balances_scope"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_balances_scope"`
	Year        int       `gorm:"not null;uniqueIndex:uq_leave_balances_scope"`

	Balance      float64 `gorm:"not null;default:0"`
	CarryForward float64 `gorm:"not null;default:0"`
	Used         float64 `gorm:"not null;default:0"`
	PendingDays  float64 `gorm:"not null;default:0"`

	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (b LeaveBalance) Remaining() float64 {
	return b.Balance + b.CarryForward - b.Used - b.PendingDays
}
