package user

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	FindAll(ctx context.Context) ([]User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
	CountEligibleApprovers(ctx context.Context, roles []string, approverID *uuid.UUID) (int64, error)
	FindFirstByDepartmentAndRole(ctx context.Context, departmentID uuid.UUID, role string) (*User, error)
	FindFirstByRole(ctx context.Context, role string) (*User, error)
	UpdateOrgAssignment(ctx context.Context, id uuid.UUID, fields map[string]any) error
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

func (r *repository) FindAll(ctx context.Context) ([]User, error) {
	var users []User
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&users).Error
	return users, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	return &u, err
}

func (r *repository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) CountEligibleApprovers(ctx context.Context, roles []string, approverID *uuid.UUID) (int64, error) {
	db := r.db.WithContext(ctx).
		Model(&User{}).
		Where("is_active = ?", true)

	if approverID != nil {
		db = db.Where("role IN ? OR id = ?", roles, *approverID)
	} else {
		db = db.Where("role IN ?", roles)
	}

	var count int64
	err := db.Count(&count).Error
	return count, err
}

func (r *repository) FindFirstByDepartmentAndRole(ctx context.Context, departmentID uuid.UUID, role string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).
		Where("department_id = ?", departmentID).
		Where("role = ?", role).
		Where("is_active = ?", true).
		Order("created_at ASC").
		First(&u).Error
	return &u, err
}

func (r *repository) FindFirstByRole(ctx context.Context, role string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).
		Where("role = ?", role).
		Where("is_active = ?", true).
		Order("created_at ASC").
		First(&u).Error
	return &u, err
}

func (r *repository) UpdateOrgAssignment(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&User{}).
		Where("id = ?", id).
		Updates(fields).Error
}
