package leaverequest

import (
	"context"
	"testing"

	leaverequesterrors "github.com/dapphari007/leavemon-sub001/internal/leaverequest/errors"
	"github.com/dapphari007/leavemon-sub001/internal/workflow"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func allStaffed(ctx context.Context, roles []string, approverID *uuid.UUID) (int64, error) {
	return 1, nil
}

func threeLevelRequest() *LeaveRequest {
	return &LeaveRequest{
		ID:                   uuid.New(),
		UserID:               uuid.New(),
		Status:               StatusPending,
		Days:                 5,
		CurrentApprovalLevel: 1,
		Levels: []workflow.ApprovalLevel{
			{Level: 1, Roles: []string{"team_lead"}, Required: true},
			{Level: 2, Roles: []string{"manager"}, Required: true},
			{Level: 3, Roles: []string{"hr"}, Required: true},
		},
	}
}

func TestAdvanceApproval_ApproveAdvancesLevel(t *testing.T) {
	req := threeLevelRequest()
	actor := uuid.New()

	outcome, err := advanceApproval(context.Background(), req, actor, "team_lead", DecisionApprove, "", allStaffed, zap.NewNop())
	assert.NoError(t, err)
	assert.Equal(t, StatusPending, outcome.Status)
	assert.Equal(t, 2, req.CurrentApprovalLevel)
	assert.False(t, outcome.FinalApproval)
	assert.Len(t, req.Decisions, 1)
	assert.Equal(t, "approved", req.Decisions[0].Decision)
}

func TestAdvanceApproval_RejectAtMidLevelIsTerminal(t *testing.T) {
	req := threeLevelRequest()
	req.CurrentApprovalLevel = 2

	outcome, err := advanceApproval(context.Background(), req, uuid.New(), "manager", DecisionReject, "workload", allStaffed, zap.NewNop())
	assert.NoError(t, err)
	assert.Equal(t, StatusRejected, outcome.Status)
	assert.Equal(t, StatusRejected, req.Status)

	// Level 3 was never consulted.
	assert.Len(t, req.Decisions, 1)
	assert.Equal(t, 2, req.Decisions[0].Level)

	// No further decision is possible.
	_, err = advanceApproval(context.Background(), req, uuid.New(), "hr", DecisionApprove, "", allStaffed, zap.NewNop())
	assert.ErrorIs(t, err, leaverequesterrors.ErrRequestNotPending)
}

func TestAdvanceApproval_FinalLevelApproves(t *testing.T) {
	req := threeLevelRequest()
	req.CurrentApprovalLevel = 3

	outcome, err := advanceApproval(context.Background(), req, uuid.New(), "hr", DecisionApprove, "", allStaffed, zap.NewNop())
	assert.NoError(t, err)
	assert.Equal(t, StatusApproved, outcome.Status)
	assert.True(t, outcome.FinalApproval)
}

func TestAdvanceApproval_OnlyCurrentLevelActionable(t *testing.T) {
	req := threeLevelRequest()

	// HR sits at level 3; the request is still at level 1.
	_, err := advanceApproval(context.Background(), req, uuid.New(), "hr", DecisionApprove, "", allStaffed, zap.NewNop())
	assert.ErrorIs(t, err, leaverequesterrors.ErrNotEligibleApprover)
}

func TestAdvanceApproval_SpecificApproverOverride(t *testing.T) {
	approver := uuid.New()
	req := threeLevelRequest()
	req.Levels[0].ApproverID = &approver
	req.Levels[0].Roles = nil

	_, err := advanceApproval(context.Background(), req, uuid.New(), "team_lead", DecisionApprove, "", allStaffed, zap.NewNop())
	assert.ErrorIs(t, err, leaverequesterrors.ErrNotEligibleApprover)

	outcome, err := advanceApproval(context.Background(), req, approver, "employee", DecisionApprove, "", allStaffed, zap.NewNop())
	assert.NoError(t, err)
	assert.Equal(t, 2, outcome.CurrentLevel)
}

func TestAdvanceApproval_SelfApprovalForbidden(t *testing.T) {
	req := threeLevelRequest()

	_, err := advanceApproval(context.Background(), req, req.UserID, "team_lead", DecisionApprove, "", allStaffed, zap.NewNop())
	assert.ErrorIs(t, err, leaverequesterrors.ErrSelfApproval)
}

func TestAdvanceApproval_OptionalUnstaffedLevelSkipped(t *testing.T) {
	req := threeLevelRequest()
	req.Levels[1].Required = false
	req.Levels[1].Roles = []string{"manager"}

	noManagers := func(ctx context.Context, roles []string, approverID *uuid.UUID) (int64, error) {
		for _, r := range roles {
			if r == "manager" {
				return 0, nil
			}
		}
		return 1, nil
	}

	outcome, err := advanceApproval(context.Background(), req, uuid.New(), "team_lead", DecisionApprove, "", noManagers, zap.NewNop())
	assert.NoError(t, err)
	assert.Equal(t, StatusPending, outcome.Status)
	assert.Equal(t, 3, req.CurrentApprovalLevel)
	assert.Equal(t, []int{2}, outcome.SkippedLevels)

	// The skip leaves an explicit trail.
	assert.Len(t, req.Decisions, 2)
	assert.Equal(t, "skipped", req.Decisions[1].Decision)
}

func TestAdvanceApproval_RequiredLevelNeverSkipped(t *testing.T) {
	req := threeLevelRequest()

	nobody := func(ctx context.Context, roles []string, approverID *uuid.UUID) (int64, error) {
		return 0, nil
	}

	outcome, err := advanceApproval(context.Background(), req, uuid.New(), "team_lead", DecisionApprove, "", nobody, zap.NewNop())
	assert.NoError(t, err)
	assert.Equal(t, StatusPending, outcome.Status)
	assert.Equal(t, 2, req.CurrentApprovalLevel)
	assert.Empty(t, outcome.SkippedLevels)
}

func TestAdvanceApproval_InvalidDecision(t *testing.T) {
	req := threeLevelRequest()

	_, err := advanceApproval(context.Background(), req, uuid.New(), "team_lead", "defer", "", allStaffed, zap.NewNop())
	assert.ErrorIs(t, err, leaverequesterrors.ErrInvalidDecision)
}

// The request carries its own level snapshot: mutating the slice the
// template originally provided must not leak into the request.
func TestSnapshotIndependentOfTemplate(t *testing.T) {
	template := []workflow.ApprovalLevel{
		{Level: 1, Roles: []string{"team_lead"}, Required: true},
		{Level: 2, Roles: []string{"manager"}, Required: true},
	}

	snapshot := make([]workflow.ApprovalLevel, len(template))
	copy(snapshot, template)
	req := &LeaveRequest{
		ID:                   uuid.New(),
		UserID:               uuid.New(),
		Status:               StatusPending,
		CurrentApprovalLevel: 1,
		Levels:               snapshot,
	}

	template[1].Roles = []string{"hr"}
	template[1].Level = 9

	outcome, err := advanceApproval(context.Background(), req, uuid.New(), "team_lead", DecisionApprove, "", allStaffed, zap.NewNop())
	assert.NoError(t, err)
	assert.Equal(t, 2, outcome.CurrentLevel)
	assert.Equal(t, []string{"manager"}, req.Levels[1].Roles)
}
