package audit

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, rec *LeaveAuditRecord) error
	FindByLeaveRequest(ctx context.Context, leaveRequestID uuid.UUID) ([]LeaveAuditRecord, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, rec *LeaveAuditRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *repository) FindByLeaveRequest(ctx context.Context, leaveRequestID uuid.UUID) ([]LeaveAuditRecord, error) {
	var records []LeaveAuditRecord
	err := r.db.WithContext(ctx).
		Where("leave_request_id = ?", leaveRequestID).
		Order("occurred_at ASC").
		Find(&records).Error
	return records, err
}
