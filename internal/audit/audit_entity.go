package audit

import (
	"time"

	"github.com/google/uuid"
)

// LeaveAuditRecord is one row of the leave request audit trail, written by
// the status-event consumer. Rows are append-only.
type LeaveAuditRecord struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`
	// EventID is the producer's outbox event id; the unique index turns a
	// redelivered message into a 23505 the consumer skips.
	EventID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_audit_records_event"`
	LeaveRequestID uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index"`
	ActorID        uuid.UUID `gorm:"type:uuid;not null"`
	EventType      string    `gorm:"size:64;not null"`
	Status         string    `gorm:"size:20;not null"`
	Level          int       `gorm:"not null;default:0"`
	Days           float64   `gorm:"not null"`
	Payload        []byte    `gorm:"type:jsonb"`
	OccurredAt     time.Time `gorm:"not null"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

func (LeaveAuditRecord) TableName() string {
	return "leave_audit_records"
}
