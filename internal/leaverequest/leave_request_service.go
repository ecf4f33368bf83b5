package leaverequest

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/dapphari007/leavemon-sub001/internal/events"
	leaverequesterrors "github.com/dapphari007/leavemon-sub001/internal/leaverequest/errors"
	"github.com/dapphari007/leavemon-sub001/internal/messaging/kafka"
	"github.com/dapphari007/leavemon-sub001/internal/shared/contextutil"
	"github.com/dapphari007/leavemon-sub001/internal/user"
	"github.com/dapphari007/leavemon-sub001/internal/workflow"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type Service interface {
	Submit(ctx context.Context, userID uuid.UUID, req CreateLeaveRequestRequest) (LeaveRequestResponse, error)
	Decide(ctx context.Context, requestID string, actorID uuid.UUID, actorRole, decision, comment string) (LeaveRequestResponse, error)
	Cancel(ctx context.Context, requestID string, userID uuid.UUID) (LeaveRequestResponse, error)
	GetByID(ctx context.Context, requestID string, actorID uuid.UUID, actorRole string) (LeaveRequestResponse, error)
	GetRequests(ctx context.Context, actorID uuid.UUID, actorRole string) ([]LeaveRequestResponse, error)
	GetPendingApprovals(ctx context.Context, actorID uuid.UUID, actorRole string) ([]LeaveRequestResponse, error)
	UpsertBalance(ctx context.Context, req UpsertBalanceRequest) (LeaveBalanceResponse, error)
	GetBalances(ctx context.Context, userID uuid.UUID, year int) ([]LeaveBalanceResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	users     user.Repository
	workflows workflow.Service
	outbox    kafka.OutboxRepository
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	users user.Repository,
	workflows workflow.Service,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leaverequest.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leaverequest.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		users:     users,
		workflows: workflows,
		outbox:    outbox,
		logger:    l,
	}
}

func (s *service) Submit(ctx context.Context, userID uuid.UUID, req CreateLeaveRequestRequest) (LeaveRequestResponse, error) {
	if req.Days <= 0 || !workflow.IsHalfStep(req.Days) {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidDays
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidDateRange
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidDateRange
	}
	if endDate.Before(startDate) {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidDateRange
	}

	leaveTypeID, err := uuid.Parse(req.LeaveTypeID)
	if err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrLeaveTypeNotFound
	}

	exists, err := s.repo.LeaveTypeExists(ctx, leaveTypeID)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	if !exists {
		return LeaveRequestResponse{}, leaverequesterrors.ErrLeaveTypeNotFound
	}

	requester, err := s.users.FindByID(ctx, userID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaverequesterrors.ErrRequestNotFound
		}
		return LeaveRequestResponse{}, err
	}

	// Resolution happens once, here. The level list is copied onto the
	// request; a miss blocks submission rather than approving unchecked.
	resolved, err := s.workflows.Resolve(ctx, workflow.ResolveInput{
		Days:            req.Days,
		DepartmentID:    requester.DepartmentID,
		PositionID:      requester.PositionID,
		LeaveCategoryID: &leaveTypeID,
	})
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	request := &LeaveRequest{
		ID:             uuid.New(),
		UserID:         userID,
		LeaveTypeID:    leaveTypeID,
		StartDate:      startDate,
		EndDate:        endDate,
		Days:           req.Days,
		Reason:         req.Reason,
		Status:         StatusPending,
		WorkflowID:     &resolved.WorkflowID,
		WorkflowSource: resolved.Source,
		Levels:         resolved.Levels,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	balance, err := qtx.FindBalanceForUpdate(ctx, userID, leaveTypeID, startDate.Year())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaverequesterrors.ErrBalanceNotFound
		}
		return LeaveRequestResponse{}, err
	}
	if balance.Remaining() < req.Days {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInsufficientBalance
	}

	first, skipped, err := nextActionableLevel(ctx, request, 0, s.users.CountEligibleApprovers, s.logger)
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	eventType := events.LeaveRequestSubmitted
	if first < 0 {
		// Every level was optional and unstaffed. The request completes
		// without sign-off; the skip trail stays on the request.
		request.Status = StatusApproved
		balance.Used += req.Days
		eventType = events.LeaveRequestApproved
		s.logger.Warn("leave request auto-approved: all levels skipped",
			zap.String("request_id", request.ID.String()),
			zap.Ints("skipped_levels", skipped),
		)
	} else {
		request.CurrentApprovalLevel = request.Levels[first].Level
		balance.PendingDays += req.Days
	}

	if err := qtx.UpdateBalance(ctx, balance); err != nil {
		return LeaveRequestResponse{}, err
	}
	if err := qtx.CreateRequest(ctx, request); err != nil {
		return LeaveRequestResponse{}, err
	}
	if err := s.writeStatusEvent(ctx, tx, request, userID, eventType, skipped); err != nil {
		return LeaveRequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return LeaveRequestResponse{}, err
	}

	s.logger.Info("leave request submitted",
		zap.String("request_id", request.ID.String()),
		zap.String("user_id", userID.String()),
		zap.Float64("days", req.Days),
		zap.String("workflow_id", resolved.WorkflowID.String()),
		zap.String("workflow_source", resolved.Source),
	)

	return mapRequestToResponse(*request), nil
}

func (s *service) Decide(ctx context.Context, requestID string, actorID uuid.UUID, actorRole, decision, comment string) (LeaveRequestResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	request, err := qtx.FindRequestByIDForUpdate(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaverequesterrors.ErrRequestNotFound
		}
		return LeaveRequestResponse{}, err
	}

	outcome, err := advanceApproval(ctx, request, actorID, actorRole, decision, comment, s.users.CountEligibleApprovers, s.logger)
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	eventType := events.LeaveRequestApproved
	switch outcome.Status {
	case StatusApproved:
		if err := s.settleBalance(ctx, qtx, request, func(b *LeaveBalance) {
			b.PendingDays -= request.Days
			b.Used += request.Days
		}); err != nil {
			return LeaveRequestResponse{}, err
		}
	case StatusRejected:
		eventType = events.LeaveRequestRejected
		if err := s.settleBalance(ctx, qtx, request, func(b *LeaveBalance) {
			b.PendingDays -= request.Days
		}); err != nil {
			return LeaveRequestResponse{}, err
		}
	default:
		// Non-final approve: the hold stays until the last level decides.
	}

	if err := qtx.UpdateRequest(ctx, request); err != nil {
		return LeaveRequestResponse{}, err
	}

	if outcome.Status != StatusPending || len(outcome.SkippedLevels) > 0 {
		if err := s.writeStatusEvent(ctx, tx, request, actorID, eventType, outcome.SkippedLevels); err != nil {
			return LeaveRequestResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return LeaveRequestResponse{}, err
	}

	s.logger.Info("leave request decision recorded",
		zap.String("request_id", request.ID.String()),
		zap.String("actor_id", actorID.String()),
		zap.String("decision", decision),
		zap.String("status", request.Status),
		zap.Int("current_level", request.CurrentApprovalLevel),
	)

	return mapRequestToResponse(*request), nil
}

func (s *service) Cancel(ctx context.Context, requestID string, userID uuid.UUID) (LeaveRequestResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	request, err := qtx.FindRequestByIDForUpdate(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaverequesterrors.ErrRequestNotFound
		}
		return LeaveRequestResponse{}, err
	}

	if request.UserID != userID {
		return LeaveRequestResponse{}, leaverequesterrors.ErrNotRequestOwner
	}
	if request.Status != StatusPending {
		return LeaveRequestResponse{}, leaverequesterrors.ErrRequestNotPending
	}

	request.Status = StatusCancelled
	if err := s.settleBalance(ctx, qtx, request, func(b *LeaveBalance) {
		b.PendingDays -= request.Days
	}); err != nil {
		return LeaveRequestResponse{}, err
	}

	if err := qtx.UpdateRequest(ctx, request); err != nil {
		return LeaveRequestResponse{}, err
	}
	if err := s.writeStatusEvent(ctx, tx, request, userID, events.LeaveRequestCancelled, nil); err != nil {
		return LeaveRequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return LeaveRequestResponse{}, err
	}

	return mapRequestToResponse(*request), nil
}

func (s *service) GetByID(ctx context.Context, requestID string, actorID uuid.UUID, actorRole string) (LeaveRequestResponse, error) {
	request, err := s.repo.FindRequestByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaverequesterrors.ErrRequestNotFound
		}
		return LeaveRequestResponse{}, err
	}

	if request.UserID != actorID && !isReadAllRole(actorRole) {
		return LeaveRequestResponse{}, leaverequesterrors.ErrRequestNotFound
	}

	return mapRequestToResponse(*request), nil
}

// GetRequests lists the actor's own requests; approver and admin roles see
// every request.
func (s *service) GetRequests(ctx context.Context, actorID uuid.UUID, actorRole string) ([]LeaveRequestResponse, error) {
	var (
		requests []LeaveRequest
		err      error
	)
	if isReadAllRole(actorRole) {
		requests, err = s.repo.FindAllRequests(ctx)
	} else {
		requests, err = s.repo.FindRequestsByUser(ctx, actorID)
	}
	if err != nil {
		return nil, err
	}

	res := make([]LeaveRequestResponse, len(requests))
	for i, r := range requests {
		res[i] = mapRequestToResponse(r)
	}
	return res, nil
}

// GetPendingApprovals lists pending requests whose current level the actor
// may decide. Own requests are excluded.
func (s *service) GetPendingApprovals(ctx context.Context, actorID uuid.UUID, actorRole string) ([]LeaveRequestResponse, error) {
	requests, err := s.repo.FindPendingRequests(ctx)
	if err != nil {
		return nil, err
	}

	var res []LeaveRequestResponse
	for _, r := range requests {
		if r.UserID == actorID {
			continue
		}
		idx := levelIndex(r.Levels, r.CurrentApprovalLevel)
		if idx < 0 {
			continue
		}
		if canAct(r.Levels[idx], actorID, actorRole) {
			res = append(res, mapRequestToResponse(r))
		}
	}
	return res, nil
}

func (s *service) UpsertBalance(ctx context.Context, req UpsertBalanceRequest) (LeaveBalanceResponse, error) {
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return LeaveBalanceResponse{}, leaverequesterrors.ErrRequestNotFound
	}
	leaveTypeID, err := uuid.Parse(req.LeaveTypeID)
	if err != nil {
		return LeaveBalanceResponse{}, leaverequesterrors.ErrLeaveTypeNotFound
	}

	exists, err := s.users.ExistsByID(ctx, userID)
	if err != nil {
		return LeaveBalanceResponse{}, err
	}
	if !exists {
		return LeaveBalanceResponse{}, leaverequesterrors.ErrRequestNotFound
	}
	typeExists, err := s.repo.LeaveTypeExists(ctx, leaveTypeID)
	if err != nil {
		return LeaveBalanceResponse{}, err
	}
	if !typeExists {
		return LeaveBalanceResponse{}, leaverequesterrors.ErrLeaveTypeNotFound
	}

	balance, err := s.repo.FindBalance(ctx, userID, leaveTypeID, req.Year)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveBalanceResponse{}, err
		}
		balance = &LeaveBalance{
			ID:          uuid.New(),
			UserID:      userID,
			LeaveTypeID: leaveTypeID,
			Year:        req.Year,
		}
		balance.Balance = req.Balance
		balance.CarryForward = req.CarryForward
		if err := s.repo.CreateBalance(ctx, balance); err != nil {
			return LeaveBalanceResponse{}, err
		}
		return mapBalanceToResponse(*balance), nil
	}

	balance.Balance = req.Balance
	balance.CarryForward = req.CarryForward
	if err := s.repo.UpdateBalance(ctx, balance); err != nil {
		return LeaveBalanceResponse{}, err
	}
	return mapBalanceToResponse(*balance), nil
}

func (s *service) GetBalances(ctx context.Context, userID uuid.UUID, year int) ([]LeaveBalanceResponse, error) {
	balances, err := s.repo.FindBalancesByUser(ctx, userID, year)
	if err != nil {
		return nil, err
	}

	res := make([]LeaveBalanceResponse, len(balances))
	for i, b := range balances {
		res[i] = mapBalanceToResponse(b)
	}
	return res, nil
}

func (s *service) settleBalance(ctx context.Context, repo Repository, request *LeaveRequest, apply func(*LeaveBalance)) error {
	balance, err := repo.FindBalanceForUpdate(ctx, request.UserID, request.LeaveTypeID, request.StartDate.Year())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leaverequesterrors.ErrBalanceNotFound
		}
		return err
	}

	apply(balance)
	if balance.PendingDays < 0 {
		balance.PendingDays = 0
	}

	return repo.UpdateBalance(ctx, balance)
}

func (s *service) writeStatusEvent(
	ctx context.Context,
	tx *sql.Tx,
	request *LeaveRequest,
	actorID uuid.UUID,
	eventType string,
	skippedLevels []int,
) error {
	// The outbox id doubles as the event id, so redelivered messages hit
	// the audit trail's unique index instead of inserting twice.
	eventID := uuid.NewString()

	payload := events.LeaveRequestStatusChanged{
		EventID:       eventID,
		EventType:     eventType,
		RequestID:     request.ID.String(),
		UserID:        request.UserID.String(),
		ActorID:       actorID.String(),
		Status:        request.Status,
		Level:         request.CurrentApprovalLevel,
		Days:          request.Days,
		SkippedLevels: skippedLevels,
		OccurredAt:    time.Now().UTC(),
	}
	if request.WorkflowID != nil {
		payload.WorkflowID = request.WorkflowID.String()
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            eventID,
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_request",
		AggregateID:   request.ID.String(),
		EventType:     eventType,
		Topic:         events.TopicLeaveRequestStatus,
		Payload:       body,
		Status:        kafka.OutboxStatusPending,
	})
}

func isReadAllRole(role string) bool {
	switch role {
	case user.RoleHR, user.RoleAdmin, user.RoleSuperAdmin, user.RoleManager, user.RoleTeamLead:
		return true
	}
	return false
}

func mapRequestToResponse(r LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:                   r.ID.String(),
		UserID:               r.UserID.String(),
		LeaveTypeID:          r.LeaveTypeID.String(),
		StartDate:            r.StartDate.Format(dateLayout),
		EndDate:              r.EndDate.Format(dateLayout),
		Days:                 r.Days,
		Reason:               r.Reason,
		Status:               r.Status,
		WorkflowSource:       r.WorkflowSource,
		CurrentApprovalLevel: r.CurrentApprovalLevel,
		CreatedAt:            r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:            r.UpdatedAt.Format(time.RFC3339),
	}
	if r.WorkflowID != nil {
		id := r.WorkflowID.String()
		resp.WorkflowID = &id
	}

	for _, l := range r.Levels {
		resp.Levels = append(resp.Levels, ApprovalLevelStateResponse{
			Level:    l.Level,
			Roles:    l.Roles,
			Required: l.Required,
			Current:  r.Status == StatusPending && l.Level == r.CurrentApprovalLevel,
		})
	}
	for _, d := range r.Decisions {
		dr := ApprovalDecisionResponse{
			Level:     d.Level,
			Decision:  d.Decision,
			Comment:   d.Comment,
			DecidedAt: d.DecidedAt.Format(time.RFC3339),
		}
		if d.ActorID != nil {
			id := d.ActorID.String()
			dr.ActorID = &id
		}
		resp.Decisions = append(resp.Decisions, dr)
	}
	return resp
}

func mapBalanceToResponse(b LeaveBalance) LeaveBalanceResponse {
	return LeaveBalanceResponse{
		ID:           b.ID.String(),
		UserID:       b.UserID.String(),
		LeaveTypeID:  b.LeaveTypeID.String(),
		Year:         b.Year,
		Balance:      b.Balance,
		CarryForward: b.CarryForward,
		Used:         b.Used,
		PendingDays:  b.PendingDays,
		Remaining:    b.Remaining(),
	}
}
