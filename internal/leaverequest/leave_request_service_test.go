package leaverequest_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/dapphari007/leavemon-sub001/internal/events"
	"github.com/dapphari007/leavemon-sub001/internal/leaverequest"
	leaverequesterrors "github.com/dapphari007/leavemon-sub001/internal/leaverequest/errors"
	"github.com/dapphari007/leavemon-sub001/internal/messaging/kafka"
	"github.com/dapphari007/leavemon-sub001/internal/user"
	"github.com/dapphari007/leavemon-sub001/internal/workflow"
	workflowerrors "github.com/dapphari007/leavemon-sub001/internal/workflow/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeRepo struct {
	requests map[uuid.UUID]*leaverequest.LeaveRequest
	balances map[uuid.UUID]*leaverequest.LeaveBalance
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		requests: map[uuid.UUID]*leaverequest.LeaveRequest{},
		balances: map[uuid.UUID]*leaverequest.LeaveBalance{},
	}
}

func (f *fakeRepo) WithTx(tx *sql.Tx) leaverequest.Repository { return f }
func (f *fakeRepo) CreateRequest(ctx context.Context, req *leaverequest.LeaveRequest) error {
	cp := *req
	f.requests[req.ID] = &cp
	return nil
}
func (f *fakeRepo) FindRequestByID(ctx context.Context, id string) (*leaverequest.LeaveRequest, error) {
	return f.findRequest(id)
}
func (f *fakeRepo) FindRequestByIDForUpdate(ctx context.Context, id string) (*leaverequest.LeaveRequest, error) {
	return f.findRequest(id)
}
func (f *fakeRepo) findRequest(id string) (*leaverequest.LeaveRequest, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, sql.ErrNoRows
	}
	req, ok := f.requests[parsed]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *req
	return &cp, nil
}
func (f *fakeRepo) FindRequestsByUser(ctx context.Context, userID uuid.UUID) ([]leaverequest.LeaveRequest, error) {
	var out []leaverequest.LeaveRequest
	for _, r := range f.requests {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}
func (f *fakeRepo) FindAllRequests(ctx context.Context) ([]leaverequest.LeaveRequest, error) {
	var out []leaverequest.LeaveRequest
	for _, r := range f.requests {
		out = append(out, *r)
	}
	return out, nil
}
func (f *fakeRepo) FindPendingRequests(ctx context.Context) ([]leaverequest.LeaveRequest, error) {
	var out []leaverequest.LeaveRequest
	for _, r := range f.requests {
		if r.Status == leaverequest.StatusPending {
			out = append(out, *r)
		}
	}
	return out, nil
}
func (f *fakeRepo) UpdateRequest(ctx context.Context, req *leaverequest.LeaveRequest) error {
	cp := *req
	f.requests[req.ID] = &cp
	return nil
}
func (f *fakeRepo) CreateBalance(ctx context.Context, b *leaverequest.LeaveBalance) error {
	cp := *b
	f.balances[b.ID] = &cp
	return nil
}
func (f *fakeRepo) FindBalance(ctx context.Context, userID, leaveTypeID uuid.UUID, year int) (*leaverequest.LeaveBalance, error) {
	for _, b := range f.balances {
		if b.UserID == userID && b.LeaveTypeID == leaveTypeID && b.Year == year {
			cp := *b
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}
func (f *fakeRepo) FindBalanceForUpdate(ctx context.Context, userID, leaveTypeID uuid.UUID, year int) (*leaverequest.LeaveBalance, error) {
	return f.FindBalance(ctx, userID, leaveTypeID, year)
}
func (f *fakeRepo) FindBalancesByUser(ctx context.Context, userID uuid.UUID, year int) ([]leaverequest.LeaveBalance, error) {
	var out []leaverequest.LeaveBalance
	for _, b := range f.balances {
		if b.UserID == userID && (year == 0 || b.Year == year) {
			out = append(out, *b)
		}
	}
	return out, nil
}
func (f *fakeRepo) UpdateBalance(ctx context.Context, b *leaverequest.LeaveBalance) error {
	cp := *b
	f.balances[b.ID] = &cp
	return nil
}
func (f *fakeRepo) LeaveTypeExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return true, nil
}

func (f *fakeRepo) balance(id uuid.UUID) *leaverequest.LeaveBalance { return f.balances[id] }

type fakeUserRepo struct {
	users map[uuid.UUID]*user.User
}

func (f *fakeUserRepo) WithTx(tx *sql.Tx) user.Repository { return f }
func (f *fakeUserRepo) FindAll(ctx context.Context) ([]user.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*user.User, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, sql.ErrNoRows
	}
	u, ok := f.users[parsed]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}
func (f *fakeUserRepo) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	_, ok := f.users[id]
	return ok, nil
}
func (f *fakeUserRepo) CountEligibleApprovers(ctx context.Context, roles []string, approverID *uuid.UUID) (int64, error) {
	return 1, nil
}
func (f *fakeUserRepo) FindFirstByDepartmentAndRole(ctx context.Context, departmentID uuid.UUID, role string) (*user.User, error) {
	return nil, sql.ErrNoRows
}
func (f *fakeUserRepo) FindFirstByRole(ctx context.Context, role string) (*user.User, error) {
	return nil, sql.ErrNoRows
}
func (f *fakeUserRepo) UpdateOrgAssignment(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	return nil
}

type fakeWorkflowService struct {
	resolveFn func(ctx context.Context, in workflow.ResolveInput) (workflow.Resolved, error)
}

func (f *fakeWorkflowService) Create(ctx context.Context, req workflow.CreateWorkflowRequest) (workflow.WorkflowResponse, error) {
	return workflow.WorkflowResponse{}, nil
}
func (f *fakeWorkflowService) GetAll(ctx context.Context, filter workflow.ListFilter) ([]workflow.WorkflowResponse, error) {
	return nil, nil
}
func (f *fakeWorkflowService) GetByID(ctx context.Context, id string) (workflow.WorkflowResponse, error) {
	return workflow.WorkflowResponse{}, nil
}
func (f *fakeWorkflowService) Update(ctx context.Context, id string, req workflow.UpdateWorkflowRequest) (workflow.WorkflowResponse, error) {
	return workflow.WorkflowResponse{}, nil
}
func (f *fakeWorkflowService) Delete(ctx context.Context, id string) error { return nil }
func (f *fakeWorkflowService) InitializeDefaults(ctx context.Context) (workflow.InitializeDefaultsResponse, error) {
	return workflow.InitializeDefaultsResponse{}, nil
}
func (f *fakeWorkflowService) GetAllLegacy(ctx context.Context) ([]workflow.LegacyWorkflowResponse, error) {
	return nil, nil
}
func (f *fakeWorkflowService) Resolve(ctx context.Context, in workflow.ResolveInput) (workflow.Resolved, error) {
	return f.resolveFn(ctx, in)
}

type fakeOutbox struct {
	events []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }
func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.events = append(f.events, event)
	return nil
}
func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error           { return nil }
func (f *fakeOutbox) MarkFailed(ctx context.Context, id, reason string) error { return nil }

func twoLevelResolved() workflow.Resolved {
	return workflow.Resolved{
		WorkflowID: uuid.New(),
		Source:     "custom",
		Levels: []workflow.ApprovalLevel{
			{Level: 1, Roles: []string{"team_lead"}, Required: true},
			{Level: 2, Roles: []string{"manager"}, Required: true},
		},
	}
}

func seedSubmitFixture(t *testing.T) (*fakeRepo, *fakeUserRepo, uuid.UUID, uuid.UUID, uuid.UUID) {
	t.Helper()

	userID := uuid.New()
	leaveTypeID := uuid.New()
	balanceID := uuid.New()

	repo := newFakeRepo()
	repo.balances[balanceID] = &leaverequest.LeaveBalance{
		ID:          balanceID,
		UserID:      userID,
		LeaveTypeID: leaveTypeID,
		Year:        2026,
		Balance:     12,
	}

	users := &fakeUserRepo{users: map[uuid.UUID]*user.User{
		userID: {ID: userID, Role: user.RoleEmployee},
	}}

	return repo, users, userID, leaveTypeID, balanceID
}

func TestService_Submit_HoldsBalanceAndSnapshotsLevels(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	ctx := context.Background()

	repo, users, userID, leaveTypeID, balanceID := seedSubmitFixture(t)
	resolved := twoLevelResolved()
	wf := &fakeWorkflowService{resolveFn: func(ctx context.Context, in workflow.ResolveInput) (workflow.Resolved, error) {
		assert.Equal(t, 3.0, in.Days)
		return resolved, nil
	}}
	outbox := &fakeOutbox{}

	svc := leaverequest.NewService(db, repo, users, wf, outbox)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Submit(ctx, userID, leaverequest.CreateLeaveRequestRequest{
		LeaveTypeID: leaveTypeID.String(),
		StartDate:   "2026-03-02",
		EndDate:     "2026-03-04",
		Days:        3,
	})
	assert.NoError(t, err)
	assert.Equal(t, leaverequest.StatusPending, resp.Status)
	assert.Equal(t, 1, resp.CurrentApprovalLevel)
	assert.Len(t, resp.Levels, 2)

	assert.Equal(t, 3.0, repo.balance(balanceID).PendingDays)
	assert.Equal(t, 0.0, repo.balance(balanceID).Used)

	assert.Len(t, outbox.events, 1)
	assert.Equal(t, "leave_request.submitted", outbox.events[0].EventType)

	// The payload carries the outbox event id, so the audit consumer can
	// dedup redeliveries on it.
	var payload events.LeaveRequestStatusChanged
	assert.NoError(t, json.Unmarshal(outbox.events[0].Payload, &payload))
	assert.NotEmpty(t, payload.EventID)
	assert.Equal(t, outbox.events[0].ID, payload.EventID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Submit_ResolutionMissBlocks(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo, users, userID, leaveTypeID, balanceID := seedSubmitFixture(t)
	wf := &fakeWorkflowService{resolveFn: func(ctx context.Context, in workflow.ResolveInput) (workflow.Resolved, error) {
		return workflow.Resolved{}, workflowerrors.ErrNoWorkflowResolved
	}}

	svc := leaverequest.NewService(db, repo, users, wf, &fakeOutbox{})

	_, err := svc.Submit(context.Background(), userID, leaverequest.CreateLeaveRequestRequest{
		LeaveTypeID: leaveTypeID.String(),
		StartDate:   "2026-03-02",
		EndDate:     "2026-03-04",
		Days:        3,
	})
	assert.ErrorIs(t, err, workflowerrors.ErrNoWorkflowResolved)

	// Nothing was held and nothing persisted.
	assert.Equal(t, 0.0, repo.balance(balanceID).PendingDays)
	assert.Empty(t, repo.requests)
}

func TestService_Submit_InsufficientBalance(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo, users, userID, leaveTypeID, _ := seedSubmitFixture(t)
	wf := &fakeWorkflowService{resolveFn: func(ctx context.Context, in workflow.ResolveInput) (workflow.Resolved, error) {
		return twoLevelResolved(), nil
	}}

	svc := leaverequest.NewService(db, repo, users, wf, &fakeOutbox{})

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Submit(context.Background(), userID, leaverequest.CreateLeaveRequestRequest{
		LeaveTypeID: leaveTypeID.String(),
		StartDate:   "2026-03-02",
		EndDate:     "2026-03-20",
		Days:        14,
	})
	assert.ErrorIs(t, err, leaverequesterrors.ErrInsufficientBalance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Submit_RejectsNonHalfStepDays(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	repo, users, userID, leaveTypeID, _ := seedSubmitFixture(t)
	svc := leaverequest.NewService(db, repo, users, &fakeWorkflowService{}, &fakeOutbox{})

	_, err := svc.Submit(context.Background(), userID, leaverequest.CreateLeaveRequestRequest{
		LeaveTypeID: leaveTypeID.String(),
		StartDate:   "2026-03-02",
		EndDate:     "2026-03-04",
		Days:        1.3,
	})
	assert.ErrorIs(t, err, leaverequesterrors.ErrInvalidDays)
}

func TestService_GetRequests_ScopesByRole(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()
	ctx := context.Background()

	repo := newFakeRepo()
	owner := uuid.New()
	other := uuid.New()
	for _, userID := range []uuid.UUID{owner, other} {
		id := uuid.New()
		repo.requests[id] = &leaverequest.LeaveRequest{
			ID:     id,
			UserID: userID,
			Status: leaverequest.StatusPending,
		}
	}

	svc := leaverequest.NewService(db, repo, &fakeUserRepo{}, &fakeWorkflowService{}, &fakeOutbox{})

	own, err := svc.GetRequests(ctx, owner, user.RoleEmployee)
	assert.NoError(t, err)
	assert.Len(t, own, 1)
	assert.Equal(t, owner.String(), own[0].UserID)

	all, err := svc.GetRequests(ctx, owner, user.RoleHR)
	assert.NoError(t, err)
	assert.Len(t, all, 2)

	allAdmin, err := svc.GetRequests(ctx, uuid.New(), user.RoleAdmin)
	assert.NoError(t, err)
	assert.Len(t, allAdmin, 2)
}

func TestService_Decide_FinalApproveDebitsBalance(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	ctx := context.Background()

	repo, users, userID, leaveTypeID, balanceID := seedSubmitFixture(t)
	wf := &fakeWorkflowService{resolveFn: func(ctx context.Context, in workflow.ResolveInput) (workflow.Resolved, error) {
		return twoLevelResolved(), nil
	}}
	outbox := &fakeOutbox{}
	svc := leaverequest.NewService(db, repo, users, wf, outbox)

	mock.ExpectBegin()
	mock.ExpectCommit()
	submitted, err := svc.Submit(ctx, userID, leaverequest.CreateLeaveRequestRequest{
		LeaveTypeID: leaveTypeID.String(),
		StartDate:   "2026-03-02",
		EndDate:     "2026-03-04",
		Days:        3,
	})
	assert.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectCommit()
	mid, err := svc.Decide(ctx, submitted.ID, uuid.New(), "team_lead", leaverequest.DecisionApprove, "")
	assert.NoError(t, err)
	assert.Equal(t, leaverequest.StatusPending, mid.Status)
	assert.Equal(t, 2, mid.CurrentApprovalLevel)
	// Hold untouched until the final level.
	assert.Equal(t, 3.0, repo.balance(balanceID).PendingDays)

	mock.ExpectBegin()
	mock.ExpectCommit()
	final, err := svc.Decide(ctx, submitted.ID, uuid.New(), "manager", leaverequest.DecisionApprove, "")
	assert.NoError(t, err)
	assert.Equal(t, leaverequest.StatusApproved, final.Status)

	assert.Equal(t, 0.0, repo.balance(balanceID).PendingDays)
	assert.Equal(t, 3.0, repo.balance(balanceID).Used)
	assert.Equal(t, "leave_request.approved", outbox.events[len(outbox.events)-1].EventType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Decide_RejectReleasesHold(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	ctx := context.Background()

	repo, users, userID, leaveTypeID, balanceID := seedSubmitFixture(t)
	wf := &fakeWorkflowService{resolveFn: func(ctx context.Context, in workflow.ResolveInput) (workflow.Resolved, error) {
		return twoLevelResolved(), nil
	}}
	svc := leaverequest.NewService(db, repo, users, wf, &fakeOutbox{})

	mock.ExpectBegin()
	mock.ExpectCommit()
	submitted, err := svc.Submit(ctx, userID, leaverequest.CreateLeaveRequestRequest{
		LeaveTypeID: leaveTypeID.String(),
		StartDate:   "2026-03-02",
		EndDate:     "2026-03-04",
		Days:        3,
	})
	assert.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectCommit()
	rejected, err := svc.Decide(ctx, submitted.ID, uuid.New(), "team_lead", leaverequest.DecisionReject, "coverage")
	assert.NoError(t, err)
	assert.Equal(t, leaverequest.StatusRejected, rejected.Status)

	assert.Equal(t, 0.0, repo.balance(balanceID).PendingDays)
	assert.Equal(t, 0.0, repo.balance(balanceID).Used)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Cancel_OnlyOwnerWhilePending(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	ctx := context.Background()

	repo, users, userID, leaveTypeID, balanceID := seedSubmitFixture(t)
	wf := &fakeWorkflowService{resolveFn: func(ctx context.Context, in workflow.ResolveInput) (workflow.Resolved, error) {
		return twoLevelResolved(), nil
	}}
	svc := leaverequest.NewService(db, repo, users, wf, &fakeOutbox{})

	mock.ExpectBegin()
	mock.ExpectCommit()
	submitted, err := svc.Submit(ctx, userID, leaverequest.CreateLeaveRequestRequest{
		LeaveTypeID: leaveTypeID.String(),
		StartDate:   "2026-03-02",
		EndDate:     "2026-03-04",
		Days:        3,
	})
	assert.NoError(t, err)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err = svc.Cancel(ctx, submitted.ID, uuid.New())
	assert.ErrorIs(t, err, leaverequesterrors.ErrNotRequestOwner)

	mock.ExpectBegin()
	mock.ExpectCommit()
	cancelled, err := svc.Cancel(ctx, submitted.ID, userID)
	assert.NoError(t, err)
	assert.Equal(t, leaverequest.StatusCancelled, cancelled.Status)
	assert.Equal(t, 0.0, repo.balance(balanceID).PendingDays)
	assert.NoError(t, mock.ExpectationsWereMet())
}
