package workflow

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	workflowerrors "github.com/dapphari007/leavemon-sub001/internal/workflow/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Resolved is the outcome of workflow resolution: the selected workflow id,
// which table it came from and the ordered approval levels to snapshot onto
// the request.
type Resolved struct {
	WorkflowID uuid.UUID
	Source     string // "custom" or "legacy"
	Levels     []ApprovalLevel
}

type Service interface {
	Create(ctx context.Context, req CreateWorkflowRequest) (WorkflowResponse, error)
	GetAll(ctx context.Context, filter ListFilter) ([]WorkflowResponse, error)
	GetByID(ctx context.Context, id string) (WorkflowResponse, error)
	Update(ctx context.Context, id string, req UpdateWorkflowRequest) (WorkflowResponse, error)
	Delete(ctx context.Context, id string) error
	InitializeDefaults(ctx context.Context) (InitializeDefaultsResponse, error)
	GetAllLegacy(ctx context.Context) ([]LegacyWorkflowResponse, error)
	Resolve(ctx context.Context, in ResolveInput) (Resolved, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("workflow.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("workflow.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateWorkflowRequest) (WorkflowResponse, error) {
	candidate, err := s.buildCandidate(ctx, req.Name, req.Description, req.MinDays, req.MaxDays,
		req.Levels, req.DepartmentID, req.PositionID, req.LeaveCategoryID, req.Category)
	if err != nil {
		return WorkflowResponse{}, err
	}
	candidate.ID = uuid.New()
	candidate.IsDefault = req.IsDefault
	candidate.IsActive = true

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return WorkflowResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	// Overlap check and insert share the transaction so two concurrent
	// writers cannot both validate against stale data.
	if err := s.validateNoOverlap(ctx, qtx, *candidate, nil); err != nil {
		return WorkflowResponse{}, err
	}

	if err := qtx.CreateCustom(ctx, candidate); err != nil {
		return WorkflowResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return WorkflowResponse{}, err
	}

	s.logger.Info("custom workflow created",
		zap.String("workflow_id", candidate.ID.String()),
		zap.String("name", candidate.Name),
		zap.Float64("min_days", candidate.MinDays),
		zap.Float64("max_days", candidate.MaxDays),
	)

	return mapToResponse(*candidate), nil
}

func (s *service) GetAll(ctx context.Context, filter ListFilter) ([]WorkflowResponse, error) {
	workflows, err := s.repo.FindAllCustom(ctx, filter)
	if err != nil {
		return nil, err
	}

	res := make([]WorkflowResponse, len(workflows))
	for i, w := range workflows {
		res[i] = mapToResponse(w)
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, id string) (WorkflowResponse, error) {
	w, err := s.repo.FindCustomByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return WorkflowResponse{}, workflowerrors.ErrWorkflowNotFound
		}
		return WorkflowResponse{}, err
	}
	return mapToResponse(*w), nil
}

func (s *service) Update(ctx context.Context, id string, req UpdateWorkflowRequest) (WorkflowResponse, error) {
	candidate, err := s.buildCandidate(ctx, req.Name, req.Description, req.MinDays, req.MaxDays,
		req.Levels, req.DepartmentID, req.PositionID, req.LeaveCategoryID, req.Category)
	if err != nil {
		return WorkflowResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return WorkflowResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	existing, err := qtx.FindCustomByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return WorkflowResponse{}, workflowerrors.ErrWorkflowNotFound
		}
		return WorkflowResponse{}, err
	}

	if err := s.validateNoOverlap(ctx, qtx, *candidate, &existing.ID); err != nil {
		return WorkflowResponse{}, err
	}

	existing.Name = candidate.Name
	existing.Description = candidate.Description
	existing.MinDays = candidate.MinDays
	existing.MaxDays = candidate.MaxDays
	existing.Levels = candidate.Levels
	existing.DepartmentID = candidate.DepartmentID
	existing.PositionID = candidate.PositionID
	existing.LeaveCategoryID = candidate.LeaveCategoryID
	existing.Category = candidate.Category
	if req.IsDefault != nil {
		existing.IsDefault = *req.IsDefault
	}
	if req.IsActive != nil {
		existing.IsActive = *req.IsActive
	}

	if err := qtx.UpdateCustom(ctx, existing); err != nil {
		return WorkflowResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return WorkflowResponse{}, err
	}

	s.logger.Info("custom workflow updated", zap.String("workflow_id", id))

	return mapToResponse(*existing), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if _, err := qtx.FindCustomByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return workflowerrors.ErrWorkflowNotFound
		}
		return err
	}

	if err := qtx.DeleteCustom(ctx, id); err != nil {
		return err
	}

	return tx.Commit()
}

// InitializeDefaults resets the canonical three-tier set. Only rows flagged
// is_default are removed; custom workflows are never touched. This is an
// explicit admin action, never run implicitly at startup.
func (s *service) InitializeDefaults(ctx context.Context) (InitializeDefaultsResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return InitializeDefaultsResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	deleted, err := qtx.DeleteDefaultCustom(ctx)
	if err != nil {
		return InitializeDefaultsResponse{}, err
	}

	defaults := DefaultWorkflows()
	for i := range defaults {
		if err := qtx.CreateCustom(ctx, &defaults[i]); err != nil {
			return InitializeDefaultsResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return InitializeDefaultsResponse{}, err
	}

	s.logger.Info("default workflows initialized",
		zap.Int64("deleted", deleted),
		zap.Int("created", len(defaults)),
	)

	resp := InitializeDefaultsResponse{
		Deleted: int(deleted),
		Created: len(defaults),
	}
	for _, w := range defaults {
		resp.Workflows = append(resp.Workflows, mapToResponse(w))
	}
	return resp, nil
}

func (s *service) GetAllLegacy(ctx context.Context) ([]LegacyWorkflowResponse, error) {
	workflows, err := s.repo.FindAllLegacy(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]LegacyWorkflowResponse, len(workflows))
	for i, w := range workflows {
		res[i] = mapToLegacyResponse(w)
	}
	return res, nil
}

// Resolve picks the single applicable workflow for a candidate request:
// scoped custom workflows by specificity, then the legacy table by day
// containment. A miss is an error; the caller must never treat it as
// "approved without sign-off".
func (s *service) Resolve(ctx context.Context, in ResolveInput) (Resolved, error) {
	custom, err := s.repo.FindActiveCustomByDays(ctx, in.Days)
	if err != nil {
		return Resolved{}, err
	}

	if best := PickBest(custom, in); best != nil {
		s.logger.Debug("workflow resolved",
			zap.String("workflow_id", best.ID.String()),
			zap.String("source", "custom"),
			zap.Float64("days", in.Days),
		)
		return Resolved{WorkflowID: best.ID, Source: "custom", Levels: best.Levels}, nil
	}

	legacy, err := s.repo.FindActiveLegacyByDays(ctx, in.Days)
	if err != nil {
		return Resolved{}, err
	}

	if best := PickLegacy(legacy, in.Days); best != nil {
		s.logger.Debug("workflow resolved",
			zap.String("workflow_id", best.ID.String()),
			zap.String("source", "legacy"),
			zap.Float64("days", in.Days),
		)
		return Resolved{WorkflowID: best.ID, Source: "legacy", Levels: best.Levels}, nil
	}

	s.logger.Warn("workflow resolution miss",
		zap.Float64("days", in.Days),
	)
	return Resolved{}, workflowerrors.ErrNoWorkflowResolved
}

func (s *service) validateNoOverlap(
	ctx context.Context,
	repo Repository,
	candidate CustomApprovalWorkflow,
	excludeID *uuid.UUID,
) error {
	existing, err := repo.FindActiveCustomInScope(ctx, scopeOf(candidate))
	if err != nil {
		return err
	}

	conflicts := FindConflicts(candidate, existing, excludeID)
	if len(conflicts) == 0 {
		return nil
	}

	ids := make([]string, len(conflicts))
	for i, id := range conflicts {
		ids[i] = id.String()
	}

	s.logger.Warn("workflow range overlap rejected",
		zap.Float64("min_days", candidate.MinDays),
		zap.Float64("max_days", candidate.MaxDays),
		zap.Strings("conflict_ids", ids),
	)

	return workflowerrors.NewRangeOverlap(describeScope(scopeOf(candidate)), ids)
}

func (s *service) buildCandidate(
	ctx context.Context,
	name, description string,
	minDays, maxDays float64,
	levels []ApprovalLevelRequest,
	departmentID, positionID, leaveCategoryID *string,
	category *string,
) (*CustomApprovalWorkflow, error) {
	if minDays > maxDays {
		return nil, workflowerrors.ErrInvalidDayRange
	}
	if !IsHalfStep(minDays) || !IsHalfStep(maxDays) {
		return nil, workflowerrors.ErrInvalidHalfStep
	}
	if len(levels) == 0 {
		return nil, workflowerrors.ErrEmptyApprovalLevels
	}

	parsedLevels, err := parseLevels(levels)
	if err != nil {
		return nil, err
	}

	deptID, err := parseOptionalUUID(departmentID)
	if err != nil {
		return nil, workflowerrors.ErrInvalidDepartmentID
	}
	posID, err := parseOptionalUUID(positionID)
	if err != nil {
		return nil, workflowerrors.ErrInvalidPositionID
	}
	catID, err := parseOptionalUUID(leaveCategoryID)
	if err != nil {
		return nil, workflowerrors.ErrInvalidLeaveCategoryID
	}

	if deptID != nil {
		ok, err := s.repo.DepartmentExists(ctx, *deptID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, workflowerrors.ErrDepartmentNotFound
		}
	}
	if posID != nil {
		ok, err := s.repo.PositionExists(ctx, *posID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, workflowerrors.ErrPositionNotFound
		}
	}
	if catID != nil {
		ok, err := s.repo.LeaveCategoryExists(ctx, *catID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, workflowerrors.ErrLeaveCategoryNotFound
		}
	}

	return &CustomApprovalWorkflow{
		Name:            name,
		Description:     description,
		MinDays:         minDays,
		MaxDays:         maxDays,
		Levels:          parsedLevels,
		DepartmentID:    deptID,
		PositionID:      posID,
		LeaveCategoryID: catID,
		Category:        category,
	}, nil
}

func parseLevels(reqs []ApprovalLevelRequest) ([]ApprovalLevel, error) {
	levels := make([]ApprovalLevel, len(reqs))
	prev := 0
	for i, lr := range reqs {
		if lr.Level <= prev {
			return nil, workflowerrors.ErrInvalidApprovalLevels
		}
		prev = lr.Level

		if len(lr.Roles) == 0 && lr.ApproverID == nil {
			return nil, workflowerrors.ErrInvalidApprovalLevels
		}

		approverID, err := parseOptionalUUID(lr.ApproverID)
		if err != nil {
			return nil, workflowerrors.ErrInvalidApprovalLevels
		}

		required := true
		if lr.Required != nil {
			required = *lr.Required
		}

		levels[i] = ApprovalLevel{
			Level:              lr.Level,
			Roles:              lr.Roles,
			ApproverID:         approverID,
			ApproverType:       lr.ApproverType,
			DepartmentSpecific: lr.DepartmentSpecific,
			Required:           required,
		}
	}
	return levels, nil
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

func describeScope(scope Scope) string {
	str := func(id *uuid.UUID) string {
		if id == nil {
			return "*"
		}
		return id.String()
	}
	cat := "*"
	if scope.LeaveCategoryID != nil {
		cat = scope.LeaveCategoryID.String()
	} else if scope.Category != nil {
		cat = *scope.Category
	}
	return fmt.Sprintf("(category=%s, department=%s, position=%s)", cat, str(scope.DepartmentID), str(scope.PositionID))
}

func mapToResponse(w CustomApprovalWorkflow) WorkflowResponse {
	resp := WorkflowResponse{
		ID:          w.ID.String(),
		Name:        w.Name,
		Description: w.Description,
		MinDays:     w.MinDays,
		MaxDays:     w.MaxDays,
		Levels:      mapLevels(w.Levels),
		Category:    w.Category,
		IsDefault:   w.IsDefault,
		IsActive:    w.IsActive,
		CreatedAt:   w.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   w.UpdatedAt.Format(time.RFC3339),
	}
	resp.DepartmentID = uuidToString(w.DepartmentID)
	resp.PositionID = uuidToString(w.PositionID)
	resp.LeaveCategoryID = uuidToString(w.LeaveCategoryID)
	return resp
}

func mapToLegacyResponse(w ApprovalWorkflow) LegacyWorkflowResponse {
	return LegacyWorkflowResponse{
		ID:        w.ID.String(),
		Name:      w.Name,
		MinDays:   w.MinDays,
		MaxDays:   w.MaxDays,
		Levels:    mapLevels(w.Levels),
		IsActive:  w.IsActive,
		CreatedAt: w.CreatedAt.Format(time.RFC3339),
		UpdatedAt: w.UpdatedAt.Format(time.RFC3339),
	}
}

func mapLevels(levels []ApprovalLevel) []ApprovalLevelResponse {
	res := make([]ApprovalLevelResponse, len(levels))
	for i, l := range levels {
		res[i] = ApprovalLevelResponse{
			Level:              l.Level,
			Roles:              l.Roles,
			ApproverType:       l.ApproverType,
			DepartmentSpecific: l.DepartmentSpecific,
			Required:           l.Required,
		}
		res[i].ApproverID = uuidToString(l.ApproverID)
	}
	return res
}

func uuidToString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	v := id.String()
	return &v
}
