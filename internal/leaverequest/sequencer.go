package leaverequest

import (
	"context"
	"time"

	leaverequesterrors "github.com/dapphari007/leavemon-sub001/internal/leaverequest/errors"
	"github.com/dapphari007/leavemon-sub001/internal/workflow"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

// ApproverCounter reports how many active users could act on a level
// (role membership or the level's specific approver id).
type ApproverCounter func(ctx context.Context, roles []string, approverID *uuid.UUID) (int64, error)

// advanceOutcome is the result of applying one decision to a request.
type advanceOutcome struct {
	Status        string
	CurrentLevel  int
	SkippedLevels []int
	FinalApproval bool
}

// canAct reports whether the actor may decide a level: role membership in
// the level's role set, or an exact approver-id match.
func canAct(level workflow.ApprovalLevel, actorID uuid.UUID, actorRole string) bool {
	if level.ApproverID != nil && *level.ApproverID == actorID {
		return true
	}
	for _, role := range level.Roles {
		if role == actorRole {
			return true
		}
	}
	return false
}

func levelIndex(levels []workflow.ApprovalLevel, level int) int {
	for i, l := range levels {
		if l.Level == level {
			return i
		}
	}
	return -1
}

// nextActionableLevel walks the snapshot from index `from`, skipping
// non-required levels that have no eligible approver in the organization.
// Every skip is recorded on the request and logged; a required level is
// never skipped, staffed or not. Returns -1 when no level remains.
func nextActionableLevel(
	ctx context.Context,
	req *LeaveRequest,
	from int,
	counter ApproverCounter,
	logger *zap.Logger,
) (int, []int, error) {
	var skipped []int

	for i := from; i < len(req.Levels); i++ {
		level := req.Levels[i]
		if level.Required {
			return i, skipped, nil
		}

		count, err := counter(ctx, level.Roles, level.ApproverID)
		if err != nil {
			return -1, nil, err
		}
		if count > 0 {
			return i, skipped, nil
		}

		logger.Warn("approval level skipped: no eligible approver",
			zap.String("request_id", req.ID.String()),
			zap.Int("level", level.Level),
			zap.Strings("roles", level.Roles),
		)
		skipped = append(skipped, level.Level)
		req.Decisions = append(req.Decisions, ApprovalDecision{
			Level:     level.Level,
			Decision:  "skipped",
			DecidedAt: time.Now().UTC(),
		})
	}

	return -1, skipped, nil
}

// advanceApproval applies one approve/reject against the request's level
// snapshot. Only the current level is actionable; a reject at any level is
// terminal and never consults the remaining levels.
func advanceApproval(
	ctx context.Context,
	req *LeaveRequest,
	actorID uuid.UUID,
	actorRole string,
	decision string,
	comment string,
	counter ApproverCounter,
	logger *zap.Logger,
) (advanceOutcome, error) {
	if req.Status != StatusPending {
		return advanceOutcome{}, leaverequesterrors.ErrRequestNotPending
	}
	if actorID == req.UserID {
		return advanceOutcome{}, leaverequesterrors.ErrSelfApproval
	}

	idx := levelIndex(req.Levels, req.CurrentApprovalLevel)
	if idx < 0 {
		return advanceOutcome{}, leaverequesterrors.ErrRequestNotPending
	}
	if !canAct(req.Levels[idx], actorID, actorRole) {
		return advanceOutcome{}, leaverequesterrors.ErrNotEligibleApprover
	}

	now := time.Now().UTC()

	switch decision {
	case DecisionReject:
		req.Decisions = append(req.Decisions, ApprovalDecision{
			Level:     req.CurrentApprovalLevel,
			ActorID:   &actorID,
			Decision:  "rejected",
			Comment:   comment,
			DecidedAt: now,
		})
		req.Status = StatusRejected
		return advanceOutcome{Status: StatusRejected, CurrentLevel: req.CurrentApprovalLevel}, nil

	case DecisionApprove:
		req.Decisions = append(req.Decisions, ApprovalDecision{
			Level:     req.CurrentApprovalLevel,
			ActorID:   &actorID,
			Decision:  "approved",
			Comment:   comment,
			DecidedAt: now,
		})

		next, skipped, err := nextActionableLevel(ctx, req, idx+1, counter, logger)
		if err != nil {
			return advanceOutcome{}, err
		}
		if next < 0 {
			req.Status = StatusApproved
			return advanceOutcome{
				Status:        StatusApproved,
				CurrentLevel:  req.CurrentApprovalLevel,
				SkippedLevels: skipped,
				FinalApproval: true,
			}, nil
		}

		req.CurrentApprovalLevel = req.Levels[next].Level
		return advanceOutcome{
			Status:        StatusPending,
			CurrentLevel:  req.CurrentApprovalLevel,
			SkippedLevels: skipped,
		}, nil

	default:
		return advanceOutcome{}, leaverequesterrors.ErrInvalidDecision
	}
}
