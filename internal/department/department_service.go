package department

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/dapphari007/leavemon-sub001/internal/shared/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrDepartmentNotFound = apperror.New(
		apperror.CodeNotFound,
		"department not found",
		http.StatusNotFound,
	)
	ErrInvalidManagerID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid manager id",
		http.StatusBadRequest,
	)
	ErrDepartmentHasUsers = apperror.New(
		apperror.CodeConflict,
		"department still has assigned users",
		http.StatusConflict,
	)
)

type Service interface {
	Create(ctx context.Context, req CreateDepartmentRequest) (DepartmentResponse, error)
	GetAll(ctx context.Context) ([]DepartmentResponse, error)
	GetByID(ctx context.Context, id string) (DepartmentResponse, error)
	Update(ctx context.Context, id string, req UpdateDepartmentRequest) (DepartmentResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db   *sql.DB
	repo Repository
}

func NewService(db *sql.DB, repo Repository) Service {
	return &service{db: db, repo: repo}
}

func (s *service) Create(
	ctx context.Context,
	req CreateDepartmentRequest,
) (DepartmentResponse, error) {

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return DepartmentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	managerID, err := parseOptionalUUID(req.ManagerID)
	if err != nil {
		return DepartmentResponse{}, ErrInvalidManagerID
	}

	dept := &Department{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		ManagerID:   managerID,
		IsActive:    true,
	}

	if err := qtx.Create(ctx, dept); err != nil {
		return DepartmentResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return DepartmentResponse{}, err
	}

	return mapToResponse(*dept), nil
}

func (s *service) GetAll(ctx context.Context) ([]DepartmentResponse, error) {
	depts, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(depts), nil
}

func (s *service) GetByID(ctx context.Context, id string) (DepartmentResponse, error) {
	dept, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DepartmentResponse{}, ErrDepartmentNotFound
		}
		return DepartmentResponse{}, err
	}
	return mapToResponse(*dept), nil
}

func (s *service) Update(
	ctx context.Context,
	id string,
	req UpdateDepartmentRequest,
) (DepartmentResponse, error) {

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return DepartmentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	dept, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DepartmentResponse{}, ErrDepartmentNotFound
		}
		return DepartmentResponse{}, err
	}

	managerID, err := parseOptionalUUID(req.ManagerID)
	if err != nil {
		return DepartmentResponse{}, ErrInvalidManagerID
	}

	dept.Name = req.Name
	dept.Description = req.Description
	if req.ManagerID != nil {
		dept.ManagerID = managerID
	}
	if req.IsActive != nil {
		dept.IsActive = *req.IsActive
	}

	if err := qtx.Update(ctx, dept); err != nil {
		return DepartmentResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return DepartmentResponse{}, err
	}

	return mapToResponse(*dept), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	count, err := qtx.CountUsersByDepartment(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrDepartmentHasUsers
	}

	if err := qtx.Delete(ctx, id); err != nil {
		return err
	}

	return tx.Commit()
}

func parseOptionalUUID(v *string) (*uuid.UUID, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*v)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func mapToResponse(dept Department) DepartmentResponse {
	resp := DepartmentResponse{
		ID:          dept.ID.String(),
		Name:        dept.Name,
		Description: dept.Description,
		IsActive:    dept.IsActive,
		CreatedAt:   dept.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   dept.UpdatedAt.Format(time.RFC3339),
	}
	if dept.ManagerID != nil {
		v := dept.ManagerID.String()
		resp.ManagerID = &v
	}
	return resp
}

func mapToListResponse(depts []Department) []DepartmentResponse {
	res := make([]DepartmentResponse, len(depts))
	for i, d := range depts {
		res[i] = mapToResponse(d)
	}
	return res
}
