package leaverequest

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository

	CreateRequest(ctx context.Context, req *LeaveRequest) error
	FindRequestByID(ctx context.Context, id string) (*LeaveRequest, error)
	FindRequestByIDForUpdate(ctx context.Context, id string) (*LeaveRequest, error)
	FindRequestsByUser(ctx context.Context, userID uuid.UUID) ([]LeaveRequest, error)
	FindAllRequests(ctx context.Context) ([]LeaveRequest, error)
	FindPendingRequests(ctx context.Context) ([]LeaveRequest, error)
	UpdateRequest(ctx context.Context, req *LeaveRequest) error

	CreateBalance(ctx context.Context, b *LeaveBalance) error
	FindBalance(ctx context.Context, userID, leaveTypeID uuid.UUID, year int) (*LeaveBalance, error)
	FindBalanceForUpdate(ctx context.Context, userID, leaveTypeID uuid.UUID, year int) (*LeaveBalance, error)
	FindBalancesByUser(ctx context.Context, userID uuid.UUID, year int) ([]LeaveBalance, error)
	UpdateBalance(ctx context.Context, b *LeaveBalance) error

	LeaveTypeExists(ctx context.Context, id uuid.UUID) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx routes every query through the caller's transaction. The FOR
// UPDATE locks taken by FindRequestByIDForUpdate/FindBalanceForUpdate
// are only held for the life of that transaction.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	db := r.db.Session(&gorm.Session{Context: context.Background(), NewDB: true})
	db.Statement.ConnPool = tx
	return &repository{db: db}
}

func (r *repository) CreateRequest(ctx context.Context, req *LeaveRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *repository) FindRequestByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var req LeaveRequest
	err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error
	return &req, err
}

func (r *repository) FindRequestByIDForUpdate(ctx context.Context, id string) (*LeaveRequest, error) {
	var req LeaveRequest
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&req, "id = ?", id).Error
	return &req, err
}

func (r *repository) FindRequestsByUser(ctx context.Context, userID uuid.UUID) ([]LeaveRequest, error) {
	var reqs []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *repository) FindAllRequests(ctx context.Context) ([]LeaveRequest, error) {
	var reqs []LeaveRequest
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *repository) FindPendingRequests(ctx context.Context) ([]LeaveRequest, error) {
	var reqs []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("status = ?", StatusPending).
		Order("created_at ASC").
		Find(&reqs).Error
	return reqs, err
}

func (r *repository) UpdateRequest(ctx context.Context, req *LeaveRequest) error {
	return r.db.WithContext(ctx).Save(req).Error
}

func (r *repository) CreateBalance(ctx context.Context, b *LeaveBalance) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *repository) FindBalance(ctx context.Context, userID, leaveTypeID uuid.UUID, year int) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Where("leave_type_id = ?", leaveTypeID).
		Where("year = ?", year).
		First(&b).Error
	return &b, err
}

func (r *repository) FindBalanceForUpdate(ctx context.Context, userID, leaveTypeID uuid.UUID, year int) (*LeaveBalance, error) {
	var b LeaveBalance
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		Where("leave_type_id = ?", leaveTypeID).
		Where("year = ?", year).
		First(&b).Error
	return &b, err
}

func (r *repository) FindBalancesByUser(ctx context.Context, userID uuid.UUID, year int) ([]LeaveBalance, error) {
	db := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if year > 0 {
		db = db.Where("year = ?", year)
	}

	var balances []LeaveBalance
	err := db.Order("year DESC").Find(&balances).Error
	return balances, err
}

func (r *repository) UpdateBalance(ctx context.Context, b *LeaveBalance) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *repository) LeaveTypeExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("leave_categories").
		Where("id = ?", id).
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count > 0, err
}
