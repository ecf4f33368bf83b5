package leavecategory

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	leavecategoryerrors "github.com/dapphari007/leavemon-sub001/internal/leavecategory/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	Create(ctx context.Context, req CreateLeaveCategoryRequest) (LeaveCategoryResponse, error)
	GetAll(ctx context.Context, activeOnly bool) ([]LeaveCategoryResponse, error)
	GetByID(ctx context.Context, id string) (LeaveCategoryResponse, error)
	Update(ctx context.Context, id string, req UpdateLeaveCategoryRequest) (LeaveCategoryResponse, error)
	Delete(ctx context.Context, id string) error
	InitializeDefaults(ctx context.Context) (InitializeDefaultsResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leavecategory.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavecategory.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func isHalfStep(v float64) bool {
	scaled := v * 2
	return math.Abs(scaled-math.Round(scaled)) < 1e-9
}

func validateBand(minDays, maxDays float64) error {
	if minDays > maxDays {
		return leavecategoryerrors.ErrInvalidDayRange
	}
	if !isHalfStep(minDays) || !isHalfStep(maxDays) {
		return leavecategoryerrors.ErrInvalidHalfStep
	}
	return nil
}

func (s *service) Create(ctx context.Context, req CreateLeaveCategoryRequest) (LeaveCategoryResponse, error) {
	if err := validateBand(req.DefaultMinDays, req.DefaultMaxDays); err != nil {
		return LeaveCategoryResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveCategoryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindByName(ctx, req.Name); err == nil {
		return LeaveCategoryResponse{}, leavecategoryerrors.ErrCategoryNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return LeaveCategoryResponse{}, err
	}

	cat := &LeaveCategory{
		ID:                uuid.New(),
		Name:              req.Name,
		Description:       req.Description,
		DefaultMinDays:    req.DefaultMinDays,
		DefaultMaxDays:    req.DefaultMaxDays,
		MaxApprovalLevels: req.MaxApprovalLevels,
		IsActive:          true,
	}

	if err := qtx.Create(ctx, cat); err != nil {
		return LeaveCategoryResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return LeaveCategoryResponse{}, err
	}

	s.logger.Info("leave category created",
		zap.String("category_id", cat.ID.String()),
		zap.String("name", cat.Name),
	)

	return mapToResponse(*cat), nil
}

func (s *service) GetAll(ctx context.Context, activeOnly bool) ([]LeaveCategoryResponse, error) {
	cats, err := s.repo.FindAll(ctx, activeOnly)
	if err != nil {
		return nil, err
	}

	res := make([]LeaveCategoryResponse, len(cats))
	for i, c := range cats {
		res[i] = mapToResponse(c)
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, id string) (LeaveCategoryResponse, error) {
	cat, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveCategoryResponse{}, leavecategoryerrors.ErrCategoryNotFound
		}
		return LeaveCategoryResponse{}, err
	}
	return mapToResponse(*cat), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateLeaveCategoryRequest) (LeaveCategoryResponse, error) {
	if err := validateBand(req.DefaultMinDays, req.DefaultMaxDays); err != nil {
		return LeaveCategoryResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveCategoryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	cat, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveCategoryResponse{}, leavecategoryerrors.ErrCategoryNotFound
		}
		return LeaveCategoryResponse{}, err
	}

	cat.Name = req.Name
	cat.Description = req.Description
	cat.DefaultMinDays = req.DefaultMinDays
	cat.DefaultMaxDays = req.DefaultMaxDays
	cat.MaxApprovalLevels = req.MaxApprovalLevels
	if req.IsActive != nil {
		cat.IsActive = *req.IsActive
	}

	if err := qtx.Update(ctx, cat); err != nil {
		return LeaveCategoryResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return LeaveCategoryResponse{}, err
	}

	return mapToResponse(*cat), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leavecategoryerrors.ErrCategoryNotFound
		}
		return err
	}

	refs, err := qtx.CountWorkflowReferences(ctx, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return leavecategoryerrors.ErrCategoryReferenced
	}

	if err := qtx.Delete(ctx, id); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *service) InitializeDefaults(ctx context.Context) (InitializeDefaultsResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return InitializeDefaultsResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	deleted, err := qtx.DeleteDefaults(ctx)
	if err != nil {
		return InitializeDefaultsResponse{}, err
	}

	defaults := DefaultCategories()
	for i := range defaults {
		if err := qtx.Create(ctx, &defaults[i]); err != nil {
			return InitializeDefaultsResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return InitializeDefaultsResponse{}, err
	}

	s.logger.Info("default leave categories initialized",
		zap.Int64("deleted", deleted),
		zap.Int("created", len(defaults)),
	)

	resp := InitializeDefaultsResponse{
		Deleted: int(deleted),
		Created: len(defaults),
	}
	for _, c := range defaults {
		resp.Categories = append(resp.Categories, mapToResponse(c))
	}
	return resp, nil
}

func mapToResponse(cat LeaveCategory) LeaveCategoryResponse {
	return LeaveCategoryResponse{
		ID:                cat.ID.String(),
		Name:              cat.Name,
		Description:       cat.Description,
		DefaultMinDays:    cat.DefaultMinDays,
		DefaultMaxDays:    cat.DefaultMaxDays,
		MaxApprovalLevels: cat.MaxApprovalLevels,
		IsActive:          cat.IsActive,
		IsDefault:         cat.IsDefault,
		CreatedAt:         cat.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         cat.UpdatedAt.Format(time.RFC3339),
	}
}
