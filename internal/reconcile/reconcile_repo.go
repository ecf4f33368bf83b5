package reconcile

import (
	"context"
	"database/sql"
	"strings"

	"github.com/dapphari007/leavemon-sub001/internal/department"
	"github.com/dapphari007/leavemon-sub001/internal/position"
	"github.com/dapphari007/leavemon-sub001/internal/user"
	"github.com/dapphari007/leavemon-sub001/internal/workflow"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository is the cross-entity surface the repair passes run on. The
// passes read and write users, departments, positions and workflows in one
// place because every pass spans at least two of them.
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	ListDepartments(ctx context.Context) ([]department.Department, error)
	CreateDepartment(ctx context.Context, d *department.Department) error
	FindDepartmentByNameInsensitive(ctx context.Context, name string) (*department.Department, error)
	FindDepartmentByID(ctx context.Context, id uuid.UUID) (*department.Department, error)
	UpdateDepartmentManager(ctx context.Context, id, managerID uuid.UUID) error

	PositionExists(ctx context.Context, name string, departmentID *uuid.UUID) (bool, error)
	CreatePosition(ctx context.Context, p *position.Position) error
	FindPositionByNameAndDepartment(ctx context.Context, name string, departmentID *uuid.UUID) (*position.Position, error)
	FindPositionByNameInsensitive(ctx context.Context, name string) (*position.Position, error)
	FindPositionByID(ctx context.Context, id uuid.UUID) (*position.Position, error)

	ListUsers(ctx context.Context) ([]user.User, error)
	UserExists(ctx context.Context, id uuid.UUID) (bool, error)
	FindFirstUserByDepartmentAndRole(ctx context.Context, departmentID uuid.UUID, role string) (*user.User, error)
	FindFirstUserByRole(ctx context.Context, role string) (*user.User, error)
	UpdateUserOrg(ctx context.Context, id uuid.UUID, fields map[string]any) error

	FindLegacyWorkflowByName(ctx context.Context, name string) (*workflow.ApprovalWorkflow, error)
	CreateLegacyWorkflow(ctx context.Context, w *workflow.ApprovalWorkflow) error
	UpdateLegacyWorkflowLevels(ctx context.Context, id uuid.UUID, levels []workflow.ApprovalLevel) error
	ListCustomWorkflowsWithEmptyLevels(ctx context.Context) ([]workflow.CustomApprovalWorkflow, error)
	UpdateCustomWorkflowLevels(ctx context.Context, id uuid.UUID, levels []workflow.ApprovalLevel) error
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

func (r *repository) ListDepartments(ctx context.Context) ([]department.Department, error) {
	var departments []department.Department
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&departments).Error
	return departments, err
}

func (r *repository) CreateDepartment(ctx context.Context, d *department.Department) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *repository) FindDepartmentByNameInsensitive(ctx context.Context, name string) (*department.Department, error) {
	var d department.Department
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(name)).
		First(&d).Error
	return &d, err
}

func (r *repository) FindDepartmentByID(ctx context.Context, id uuid.UUID) (*department.Department, error) {
	var d department.Department
	err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error
	return &d, err
}

func (r *repository) UpdateDepartmentManager(ctx context.Context, id, managerID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&department.Department{}).
		Where("id = ?", id).
		Update("manager_id", managerID).Error
}

func (r *repository) PositionExists(ctx context.Context, name string, departmentID *uuid.UUID) (bool, error) {
	db := r.db.WithContext(ctx).
		Model(&position.Position{}).
		Where("name = ?", name)
	if departmentID == nil {
		db = db.Where("department_id IS NULL")
	} else {
		db = db.Where("department_id = ?", *departmentID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}

func (r *repository) CreatePosition(ctx context.Context, p *position.Position) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) FindPositionByNameAndDepartment(ctx context.Context, name string, departmentID *uuid.UUID) (*position.Position, error) {
	db := r.db.WithContext(ctx).Where("LOWER(name) = ?", strings.ToLower(name))
	if departmentID == nil {
		db = db.Where("department_id IS NULL")
	} else {
		db = db.Where("department_id = ?", *departmentID)
	}

	var p position.Position
	err := db.First(&p).Error
	return &p, err
}

func (r *repository) FindPositionByNameInsensitive(ctx context.Context, name string) (*position.Position, error) {
	var p position.Position
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(name)).
		Order("department_id ASC NULLS FIRST").
		First(&p).Error
	return &p, err
}

func (r *repository) FindPositionByID(ctx context.Context, id uuid.UUID) (*position.Position, error) {
	var p position.Position
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *repository) ListUsers(ctx context.Context) ([]user.User, error) {
	var users []user.User
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&users).Error
	return users, err
}

func (r *repository) UserExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&user.User{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) FindFirstUserByDepartmentAndRole(ctx context.Context, departmentID uuid.UUID, role string) (*user.User, error) {
	var u user.User
	err := r.db.WithContext(ctx).
		Where("department_id = ?", departmentID).
		Where("role = ?", role).
		Where("is_active = ?", true).
		Order("created_at ASC").
		First(&u).Error
	return &u, err
}

func (r *repository) FindFirstUserByRole(ctx context.Context, role string) (*user.User, error) {
	var u user.User
	err := r.db.WithContext(ctx).
		Where("role = ?", role).
		Where("is_active = ?", true).
		Order("created_at ASC").
		First(&u).Error
	return &u, err
}

func (r *repository) UpdateUserOrg(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&user.User{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *repository) FindLegacyWorkflowByName(ctx context.Context, name string) (*workflow.ApprovalWorkflow, error) {
	var w workflow.ApprovalWorkflow
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&w).Error
	return &w, err
}

func (r *repository) CreateLegacyWorkflow(ctx context.Context, w *workflow.ApprovalWorkflow) error {
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *repository) UpdateLegacyWorkflowLevels(ctx context.Context, id uuid.UUID, levels []workflow.ApprovalLevel) error {
	return r.db.WithContext(ctx).
		Model(&workflow.ApprovalWorkflow{}).
		Where("id = ?", id).
		Update("levels", levels).Error
}

func (r *repository) ListCustomWorkflowsWithEmptyLevels(ctx context.Context) ([]workflow.CustomApprovalWorkflow, error) {
	var workflows []workflow.CustomApprovalWorkflow
	err := r.db.WithContext(ctx).
		Where("levels IS NULL OR levels::text IN ('[]', 'null')").
		Find(&workflows).Error
	return workflows, err
}

func (r *repository) UpdateCustomWorkflowLevels(ctx context.Context, id uuid.UUID, levels []workflow.ApprovalLevel) error {
	return r.db.WithContext(ctx).
		Model(&workflow.CustomApprovalWorkflow{}).
		Where("id = ?", id).
		Update("levels", levels).Error
}
