package workflow

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListFilter struct {
	IsActive     *bool
	Category     *string
	DepartmentID *uuid.UUID
	PositionID   *uuid.UUID
}

type Repository interface {
	WithTx(tx *sql.Tx) Repository

	CreateCustom(ctx context.Context, w *CustomApprovalWorkflow) error
	FindAllCustom(ctx context.Context, filter ListFilter) ([]CustomApprovalWorkflow, error)
	FindCustomByID(ctx context.Context, id string) (*CustomApprovalWorkflow, error)
	FindActiveCustomInScope(ctx context.Context, scope Scope) ([]CustomApprovalWorkflow, error)
	FindActiveCustomByDays(ctx context.Context, days float64) ([]CustomApprovalWorkflow, error)
	UpdateCustom(ctx context.Context, w *CustomApprovalWorkflow) error
	DeleteCustom(ctx context.Context, id string) error
	DeleteDefaultCustom(ctx context.Context) (int64, error)

	FindAllLegacy(ctx context.Context) ([]ApprovalWorkflow, error)
	FindActiveLegacyByDays(ctx context.Context, days float64) ([]ApprovalWorkflow, error)

	DepartmentExists(ctx context.Context, id uuid.UUID) (bool, error)
	PositionExists(ctx context.Context, id uuid.UUID) (bool, error)
	LeaveCategoryExists(ctx context.Context, id uuid.UUID) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx routes every query through the caller's transaction, so the
// overlap check and the insert see the same snapshot.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	db := r.db.Session(&gorm.Session{Context: context.Background(), NewDB: true})
	db.Statement.ConnPool = tx
	return &repository{db: db}
}

func (r *repository) CreateCustom(ctx context.Context, w *CustomApprovalWorkflow) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *repository) FindAllCustom(ctx context.Context, filter ListFilter) ([]CustomApprovalWorkflow, error) {
	db := r.db.WithContext(ctx).Order("min_days ASC, created_at ASC")

	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}
	if filter.Category != nil {
		db = db.Where("category = ?", *filter.Category)
	}
	if filter.DepartmentID != nil {
		db = db.Where("department_id = ?", *filter.DepartmentID)
	}
	if filter.PositionID != nil {
		db = db.Where("position_id = ?", *filter.PositionID)
	}

	var workflows []CustomApprovalWorkflow
	err := db.Find(&workflows).Error
	return workflows, err
}

func (r *repository) FindCustomByID(ctx context.Context, id string) (*CustomApprovalWorkflow, error) {
	var w CustomApprovalWorkflow
	err := r.db.WithContext(ctx).First(&w, "id = ?", id).Error
	return &w, err
}

func (r *repository) FindActiveCustomInScope(ctx context.Context, scope Scope) ([]CustomApprovalWorkflow, error) {
	db := r.db.WithContext(ctx).Where("is_active = ?", true)

	db = whereNullable(db, "category", scope.Category)
	db = whereNullableUUID(db, "department_id", scope.DepartmentID)
	db = whereNullableUUID(db, "position_id", scope.PositionID)
	db = whereNullableUUID(db, "leave_category_id", scope.LeaveCategoryID)

	var workflows []CustomApprovalWorkflow
	err := db.Find(&workflows).Error
	return workflows, err
}

func (r *repository) FindActiveCustomByDays(ctx context.Context, days float64) ([]CustomApprovalWorkflow, error) {
	var workflows []CustomApprovalWorkflow
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("min_days <= ?", days).
		Where("max_days >= ?", days).
		Find(&workflows).Error
	return workflows, err
}

func (r *repository) UpdateCustom(ctx context.Context, w *CustomApprovalWorkflow) error {
	return r.db.WithContext(ctx).Save(w).Error
}

func (r *repository) DeleteCustom(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&CustomApprovalWorkflow{}, "id = ?", id).Error
}

func (r *repository) DeleteDefaultCustom(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("is_default = ?", true).
		Delete(&CustomApprovalWorkflow{})
	return res.RowsAffected, res.Error
}

func (r *repository) FindAllLegacy(ctx context.Context) ([]ApprovalWorkflow, error) {
	var workflows []ApprovalWorkflow
	err := r.db.WithContext(ctx).
		Order("min_days ASC").
		Find(&workflows).Error
	return workflows, err
}

func (r *repository) FindActiveLegacyByDays(ctx context.Context, days float64) ([]ApprovalWorkflow, error) {
	var workflows []ApprovalWorkflow
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("min_days <= ?", days).
		Where("max_days >= ?", days).
		Find(&workflows).Error
	return workflows, err
}

func (r *repository) DepartmentExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.existsIn(ctx, "departments", id)
}

func (r *repository) PositionExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.existsIn(ctx, "positions", id)
}

func (r *repository) LeaveCategoryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.existsIn(ctx, "leave_categories", id)
}

func (r *repository) existsIn(ctx context.Context, table string, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table(table).
		Where("id = ?", id).
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count > 0, err
}

func whereNullable(db *gorm.DB, column string, v *string) *gorm.DB {
	if v == nil {
		return db.Where(column + " IS NULL")
	}
	return db.Where(column+" = ?", *v)
}

func whereNullableUUID(db *gorm.DB, column string, v *uuid.UUID) *gorm.DB {
	if v == nil {
		return db.Where(column + " IS NULL")
	}
	return db.Where(column+" = ?", *v)
}
