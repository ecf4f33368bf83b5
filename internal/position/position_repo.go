package position

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, pos *Position) error
	FindAll(ctx context.Context) ([]Position, error)
	FindByID(ctx context.Context, id string) (*Position, error)
	FindByNameAndDepartment(ctx context.Context, name string, departmentID *uuid.UUID) (*Position, error)
	FindByNameInsensitive(ctx context.Context, name string) (*Position, error)
	Update(ctx context.Context, pos *Position) error
	Delete(ctx context.Context, id string) error
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

func (r *repository) Create(ctx context.Context, pos *Position) error {
	return r.db.WithContext(ctx).Create(pos).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Position, error) {
	var positions []Position
	err := r.db.WithContext(ctx).
		Order("level DESC, name ASC").
		Find(&positions).Error
	return positions, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Position, error) {
	var pos Position
	err := r.db.WithContext(ctx).First(&pos, "id = ?", id).Error
	return &pos, err
}

func (r *repository) FindByNameAndDepartment(ctx context.Context, name string, departmentID *uuid.UUID) (*Position, error) {
	db := r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name)
	if departmentID == nil {
		db = db.Where("department_id IS NULL")
	} else {
		db = db.Where("department_id = ?", *departmentID)
	}

	var pos Position
	err := db.First(&pos).Error
	return &pos, err
}

func (r *repository) FindByNameInsensitive(ctx context.Context, name string) (*Position, error) {
	var pos Position
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", name).
		Order("department_id ASC NULLS FIRST").
		First(&pos).Error
	return &pos, err
}

func (r *repository) Update(ctx context.Context, pos *Position) error {
	return r.db.WithContext(ctx).Save(pos).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Position{}, "id = ?", id).Error
}
