package leavecategory

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, cat *LeaveCategory) error
	FindAll(ctx context.Context, activeOnly bool) ([]LeaveCategory, error)
	FindByID(ctx context.Context, id string) (*LeaveCategory, error)
	FindByName(ctx context.Context, name string) (*LeaveCategory, error)
	Update(ctx context.Context, cat *LeaveCategory) error
	Delete(ctx context.Context, id string) error
	DeleteDefaults(ctx context.Context) (int64, error)
	CountWorkflowReferences(ctx context.Context, id string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx routes every query through the caller's transaction.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	db := r.db.Session(&gorm.Session{Context: context.Background(), NewDB: true})
	db.Statement.ConnPool = tx
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, cat *LeaveCategory) error {
	return r.db.WithContext(ctx).Create(cat).Error
}

func (r *repository) FindAll(ctx context.Context, activeOnly bool) ([]LeaveCategory, error) {
	db := r.db.WithContext(ctx).Order("default_min_days ASC")
	if activeOnly {
		db = db.Where("is_active = ?", true)
	}

	var cats []LeaveCategory
	err := db.Find(&cats).Error
	return cats, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveCategory, error) {
	var cat LeaveCategory
	err := r.db.WithContext(ctx).First(&cat, "id = ?", id).Error
	return &cat, err
}

func (r *repository) FindByName(ctx context.Context, name string) (*LeaveCategory, error) {
	var cat LeaveCategory
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", name).
		First(&cat).Error
	return &cat, err
}

func (r *repository) Update(ctx context.Context, cat *LeaveCategory) error {
	return r.db.WithContext(ctx).Save(cat).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&LeaveCategory{}, "id = ?", id).Error
}

func (r *repository) DeleteDefaults(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("is_default = ?", true).
		Delete(&LeaveCategory{})
	return res.RowsAffected, res.Error
}

func (r *repository) CountWorkflowReferences(ctx context.Context, id string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("custom_approval_workflows").
		Where("leave_category_id = ?", id).
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count, err
}
