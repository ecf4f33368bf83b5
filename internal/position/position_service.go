package position

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
	ErrPositionNotFound = apperror.New(
		apperror.CodeNotFound,
		"position not found",
		http.StatusNotFound,
	)
	ErrInvalidDepartmentID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid department id",
		http.StatusBadRequest,
	)
	ErrPositionNameTaken = apperror.New(
		apperror.CodeConflict,
		"a position with this name already exists in the department",
		http.StatusConflict,
	)
)

type Service interface {
	Create(ctx context.Context, req CreatePositionRequest) (PositionResponse, error)
	GetAll(ctx context.Context) ([]PositionResponse, error)
	GetByID(ctx context.Context, id string) (PositionResponse, error)
	Update(ctx context.Context, id string, req UpdatePositionRequest) (PositionResponse, error)
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
	req CreatePositionRequest,
) (PositionResponse, error) {

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PositionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	departmentID, err := parseOptionalUUID(req.DepartmentID)
	if err != nil {
		return PositionResponse{}, ErrInvalidDepartmentID
	}

	if _, err := qtx.FindByNameAndDepartment(ctx, req.Name, departmentID); err == nil {
		return PositionResponse{}, ErrPositionNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return PositionResponse{}, err
	}

	pos := &Position{
		ID:           uuid.New(),
		Name:         req.Name,
		Description:  req.Description,
		Level:        req.Level,
		DepartmentID: departmentID,
		IsActive:     true,
	}

	if err := qtx.Create(ctx, pos); err != nil {
		return PositionResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PositionResponse{}, err
	}

	return mapToResponse(*pos), nil
}

func (s *service) GetAll(ctx context.Context) ([]PositionResponse, error) {
	positions, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]PositionResponse, len(positions))
	for i, p := range positions {
		res[i] = mapToResponse(p)
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, id string) (PositionResponse, error) {
	pos, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PositionResponse{}, ErrPositionNotFound
		}
		return PositionResponse{}, err
	}
	return mapToResponse(*pos), nil
}

func (s *service) Update(
	ctx context.Context,
	id string,
	req UpdatePositionRequest,
) (PositionResponse, error) {

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PositionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	pos, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PositionResponse{}, ErrPositionNotFound
		}
		return PositionResponse{}, err
	}

	departmentID, err := parseOptionalUUID(req.DepartmentID)
	if err != nil {
		return PositionResponse{}, ErrInvalidDepartmentID
	}

	if existing, err := qtx.FindByNameAndDepartment(ctx, req.Name, departmentID); err == nil {
		if existing.ID != pos.ID {
			return PositionResponse{}, ErrPositionNameTaken
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return PositionResponse{}, err
	}

	pos.Name = req.Name
	pos.Description = req.Description
	pos.Level = req.Level
	pos.DepartmentID = departmentID
	if req.IsActive != nil {
		pos.IsActive = *req.IsActive
	}

	if err := qtx.Update(ctx, pos); err != nil {
		return PositionResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return PositionResponse{}, err
	}

	return mapToResponse(*pos), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
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

func mapToResponse(pos Position) PositionResponse {
	resp := PositionResponse{
		ID:          pos.ID.String(),
		Name:        pos.Name,
		Description: pos.Description,
		Level:       pos.Level,
		IsActive:    pos.IsActive,
		CreatedAt:   pos.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   pos.UpdatedAt.Format(time.RFC3339),
	}
	if pos.DepartmentID != nil {
		v := pos.DepartmentID.String()
		resp.DepartmentID = &v
	}
	return resp
}
