package workflow

import (
	"time"

	"github.com/dapphari007/leavemon-sub001/internal/user"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApprovalLevel is one stage of a sequential sign-off. Levels are evaluated
// in ascending order; any user holding one of Roles (or matching ApproverID
// when set) may act on the level. A level with Required=false may be skipped
// when no eligible approver exists in the organization.
type ApprovalLevel struct {
	Level              int        `json:"level"`
	Roles              []string   `json:"roles"`
	ApproverID         *uuid.UUID `json:"approver_id,omitempty"`
	ApproverType       string     `json:"approver_type,omitempty"`
	DepartmentSpecific bool       `json:"department_specific,omitempty"`
	Required           bool       `json:"required"`
}

// ApprovalWorkflow is the legacy global workflow table: day-range keyed with
// no department/position scoping. It is the resolution fallback when no
// custom workflow matches.
type ApprovalWorkflow struct {
	ID      uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name    string          `gorm:"size:255;not null;uniqueIndex"`
	MinDays float64         `gorm:"not null"`
	MaxDays float64         `gorm:"not null"`
	Levels  []ApprovalLevel `gorm:"serializer:json;type:jsonb;not null"`

	IsActive  bool           `gorm:"not null;default:true"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// CustomApprovalWorkflow adds scoping by department, position and leave
// category. A NULL scope field is a wildcard.
//
// Invariant: among active rows sharing the exact same
// (category, department_id, position_id) tuple, day ranges must not overlap.
// The overlap check runs inside the write transaction (repo bound via
// WithTx), so a writer validates against the snapshot it inserts into.
type CustomApprovalWorkflow struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name        string          `gorm:"size:255;not null"`
	Description string          `gorm:"type:text"`
	MinDays     float64         `gorm:"not null"`
	MaxDays     float64         `gorm:"not null"`
	Levels      []ApprovalLevel `gorm:"serializer:json;type:jsonb;not null"`

	DepartmentID    *uuid.UUID `gorm:"type:uuid;index"`
	PositionID      *uuid.UUID `gorm:"type:uuid;index"`
	LeaveCategoryID *uuid.UUID `gorm:"type:uuid;index"`
	// Category is the legacy free-form enum kept for backward compatibility
	// with rows created before leave categories became first-class.
	Category *string `gorm:"size:50"`

	IsDefault bool           `gorm:"not null;default:false"`
	IsActive  bool           `gorm:"not null;default:true"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// DefaultWorkflows is the canonical three-tier set restored by
// initialize-defaults: Short/Medium/Long Leave with 1/2/3 required levels.
func DefaultWorkflows() []CustomApprovalWorkflow {
	return []CustomApprovalWorkflow{
		{
			ID:      uuid.New(),
			Name:    "Short Leave",
			MinDays: 0.5,
			MaxDays: 2,
			Levels: []ApprovalLevel{
				{Level: 1, Roles: []string{user.RoleTeamLead, user.RoleManager}, Required: true},
			},
			IsDefault: true,
			IsActive:  true,
		},
		{
			ID:      uuid.New(),
			Name:    "Medium Leave",
			MinDays: 3,
			MaxDays: 6,
			Levels: []ApprovalLevel{
				{Level: 1, Roles: []string{user.RoleTeamLead}, Required: true},
				{Level: 2, Roles: []string{user.RoleManager}, Required: true},
			},
			IsDefault: true,
			IsActive:  true,
		},
		{
			ID:      uuid.New(),
			Name:    "Long Leave",
			MinDays: 7,
			MaxDays: 30,
			Levels: []ApprovalLevel{
				{Level: 1, Roles: []string{user.RoleTeamLead}, Required: true},
				{Level: 2, Roles: []string{user.RoleManager}, Required: true},
				{Level: 3, Roles: []string{user.RoleHR}, Required: true},
			},
			IsDefault: true,
			IsActive:  true,
		},
	}
}

// DefaultLegacyWorkflows is the canonical legacy pair repaired by the
// reconciliation engine.
func DefaultLegacyWorkflows() []ApprovalWorkflow {
	return []ApprovalWorkflow{
		{
			ID:      uuid.New(),
			Name:    "Default Approval Workflow",
			MinDays: 0.5,
			MaxDays: 30,
			Levels: []ApprovalLevel{
				{Level: 1, Roles: []string{user.RoleTeamLead}, Required: true},
				{Level: 2, Roles: []string{user.RoleManager}, Required: true},
				{Level: 3, Roles: []string{user.RoleHR}, Required: true},
			},
			IsActive: true,
		},
		{
			ID:      uuid.New(),
			Name:    "Department-Based Approval Workflow",
			MinDays: 0.5,
			MaxDays: 30,
			Levels: []ApprovalLevel{
				{Level: 1, Roles: []string{user.RoleTeamLead}, DepartmentSpecific: true, Required: true},
				{Level: 2, Roles: []string{user.RoleManager}, DepartmentSpecific: true, Required: true},
				{Level: 3, Roles: []string{user.RoleHR}, Required: true},
			},
			IsActive: true,
		},
	}
}
