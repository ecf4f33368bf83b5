package workflow_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/dapphari007/leavemon-sub001/internal/shared/apperror"
	"github.com/dapphari007/leavemon-sub001/internal/workflow"
	workflowerrors "github.com/dapphari007/leavemon-sub001/internal/workflow/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeRepo struct {
	withTxFn                  func(tx *sql.Tx) workflow.Repository
	createCustomFn            func(ctx context.Context, w *workflow.CustomApprovalWorkflow) error
	findAllCustomFn           func(ctx context.Context, filter workflow.ListFilter) ([]workflow.CustomApprovalWorkflow, error)
	findCustomByIDFn          func(ctx context.Context, id string) (*workflow.CustomApprovalWorkflow, error)
	findActiveCustomInScopeFn func(ctx context.Context, scope workflow.Scope) ([]workflow.CustomApprovalWorkflow, error)
	findActiveCustomByDaysFn  func(ctx context.Context, days float64) ([]workflow.CustomApprovalWorkflow, error)
	updateCustomFn            func(ctx context.Context, w *workflow.CustomApprovalWorkflow) error
	deleteCustomFn            func(ctx context.Context, id string) error
	deleteDefaultCustomFn     func(ctx context.Context) (int64, error)
	findAllLegacyFn           func(ctx context.Context) ([]workflow.ApprovalWorkflow, error)
	findActiveLegacyByDaysFn  func(ctx context.Context, days float64) ([]workflow.ApprovalWorkflow, error)
	departmentExistsFn        func(ctx context.Context, id uuid.UUID) (bool, error)
	positionExistsFn          func(ctx context.Context, id uuid.UUID) (bool, error)
	leaveCategoryExistsFn     func(ctx context.Context, id uuid.UUID) (bool, error)
}

func (f *fakeRepo) WithTx(tx *sql.Tx) workflow.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}
func (f *fakeRepo) CreateCustom(ctx context.Context, w *workflow.CustomApprovalWorkflow) error {
	return f.createCustomFn(ctx, w)
}
func (f *fakeRepo) FindAllCustom(ctx context.Context, filter workflow.ListFilter) ([]workflow.CustomApprovalWorkflow, error) {
	return f.findAllCustomFn(ctx, filter)
}
func (f *fakeRepo) FindCustomByID(ctx context.Context, id string) (*workflow.CustomApprovalWorkflow, error) {
	return f.findCustomByIDFn(ctx, id)
}
func (f *fakeRepo) FindActiveCustomInScope(ctx context.Context, scope workflow.Scope) ([]workflow.CustomApprovalWorkflow, error) {
	return f.findActiveCustomInScopeFn(ctx, scope)
}
func (f *fakeRepo) FindActiveCustomByDays(ctx context.Context, days float64) ([]workflow.CustomApprovalWorkflow, error) {
	return f.findActiveCustomByDaysFn(ctx, days)
}
func (f *fakeRepo) UpdateCustom(ctx context.Context, w *workflow.CustomApprovalWorkflow) error {
	return f.updateCustomFn(ctx, w)
}
func (f *fakeRepo) DeleteCustom(ctx context.Context, id string) error {
	return f.deleteCustomFn(ctx, id)
}
func (f *fakeRepo) DeleteDefaultCustom(ctx context.Context) (int64, error) {
	return f.deleteDefaultCustomFn(ctx)
}
func (f *fakeRepo) FindAllLegacy(ctx context.Context) ([]workflow.ApprovalWorkflow, error) {
	return f.findAllLegacyFn(ctx)
}
func (f *fakeRepo) FindActiveLegacyByDays(ctx context.Context, days float64) ([]workflow.ApprovalWorkflow, error) {
	return f.findActiveLegacyByDaysFn(ctx, days)
}
func (f *fakeRepo) DepartmentExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return f.departmentExistsFn(ctx, id)
}
func (f *fakeRepo) PositionExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return f.positionExistsFn(ctx, id)
}
func (f *fakeRepo) LeaveCategoryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return f.leaveCategoryExistsFn(ctx, id)
}

func validCreateReq() workflow.CreateWorkflowRequest {
	return workflow.CreateWorkflowRequest{
		Name:    "Standard",
		MinDays: 0.5,
		MaxDays: 2,
		Levels: []workflow.ApprovalLevelRequest{
			{Level: 1, Roles: []string{"team_lead"}},
		},
	}
}

func TestService_Create_HalfStepValidation(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	ctx := context.Background()

	repo := &fakeRepo{
		findActiveCustomInScopeFn: func(ctx context.Context, scope workflow.Scope) ([]workflow.CustomApprovalWorkflow, error) {
			return nil, nil
		},
		createCustomFn: func(ctx context.Context, w *workflow.CustomApprovalWorkflow) error { return nil },
	}
	svc := workflow.NewService(db, repo)

	req := validCreateReq()
	req.MinDays = 1.3
	req.MaxDays = 3
	_, err := svc.Create(ctx, req)
	assert.ErrorIs(t, err, workflowerrors.ErrInvalidHalfStep)

	mock.ExpectBegin()
	mock.ExpectCommit()
	_, err = svc.Create(ctx, validCreateReq())
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Create_InvalidDayRange(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	svc := workflow.NewService(db, &fakeRepo{})

	req := validCreateReq()
	req.MinDays = 5
	req.MaxDays = 2
	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, workflowerrors.ErrInvalidDayRange)
}

func TestService_Create_EmptyLevelsRejected(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	svc := workflow.NewService(db, &fakeRepo{})

	req := validCreateReq()
	req.Levels = nil
	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, workflowerrors.ErrEmptyApprovalLevels)
}

func TestService_Create_OverlapConflict(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	ctx := context.Background()

	existing := workflow.CustomApprovalWorkflow{
		ID:       uuid.New(),
		Name:     "A",
		MinDays:  1,
		MaxDays:  3,
		IsActive: true,
		Levels: []workflow.ApprovalLevel{
			{Level: 1, Roles: []string{"manager"}, Required: true},
		},
	}
	repo := &fakeRepo{
		findActiveCustomInScopeFn: func(ctx context.Context, scope workflow.Scope) ([]workflow.CustomApprovalWorkflow, error) {
			return []workflow.CustomApprovalWorkflow{existing}, nil
		},
		createCustomFn: func(ctx context.Context, w *workflow.CustomApprovalWorkflow) error {
			t.Fatal("conflicting workflow must not be persisted")
			return nil
		},
	}
	svc := workflow.NewService(db, repo)

	req := validCreateReq()
	req.MinDays = 2
	req.MaxDays = 4

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Create(ctx, req)
	assert.Error(t, err)

	var appErr *apperror.AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeConflict, appErr.Code)
	assert.Contains(t, appErr.Message, existing.ID.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Resolve_CustomThenLegacyFallback(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()
	ctx := context.Background()

	legacy := workflow.ApprovalWorkflow{
		ID:       uuid.New(),
		Name:     "Default Approval Workflow",
		MinDays:  0.5,
		MaxDays:  2,
		IsActive: true,
		Levels:   []workflow.ApprovalLevel{{Level: 1, Roles: []string{"team_lead"}, Required: true}},
	}
	repo := &fakeRepo{
		findActiveCustomByDaysFn: func(ctx context.Context, days float64) ([]workflow.CustomApprovalWorkflow, error) {
			return nil, nil
		},
		findActiveLegacyByDaysFn: func(ctx context.Context, days float64) ([]workflow.ApprovalWorkflow, error) {
			return []workflow.ApprovalWorkflow{legacy}, nil
		},
	}
	svc := workflow.NewService(db, repo)

	resolved, err := svc.Resolve(ctx, workflow.ResolveInput{Days: 0.5})
	assert.NoError(t, err)
	assert.Equal(t, legacy.ID, resolved.WorkflowID)
	assert.Equal(t, "legacy", resolved.Source)
	assert.Len(t, resolved.Levels, 1)
}

func TestService_Resolve_MissIsAnError(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{
		findActiveCustomByDaysFn: func(ctx context.Context, days float64) ([]workflow.CustomApprovalWorkflow, error) {
			return nil, nil
		},
		findActiveLegacyByDaysFn: func(ctx context.Context, days float64) ([]workflow.ApprovalWorkflow, error) {
			return nil, nil
		},
	}
	svc := workflow.NewService(db, repo)

	_, err := svc.Resolve(context.Background(), workflow.ResolveInput{Days: 99})
	assert.ErrorIs(t, err, workflowerrors.ErrNoWorkflowResolved)
}

func TestService_InitializeDefaults(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	ctx := context.Background()

	var created []workflow.CustomApprovalWorkflow
	repo := &fakeRepo{
		deleteDefaultCustomFn: func(ctx context.Context) (int64, error) { return 3, nil },
		createCustomFn: func(ctx context.Context, w *workflow.CustomApprovalWorkflow) error {
			created = append(created, *w)
			return nil
		},
	}
	svc := workflow.NewService(db, repo)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.InitializeDefaults(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 3, resp.Deleted)
	assert.Equal(t, 3, resp.Created)
	assert.Len(t, created, 3)

	for _, w := range created {
		assert.True(t, w.IsDefault)
		assert.True(t, w.IsActive)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}
