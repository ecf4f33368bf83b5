package reconcile

import (
	"context"

	"go.uber.org/zap"
)

// PassResult is the structured outcome every repair pass returns. A pass
// never panics or returns a Go error past its own boundary; failures are
// folded into Success=false so the orchestrator can decide sequencing.
type PassResult struct {
	Name    string         `json:"name"`
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Error   string         `json:"error,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// Engine runs the relationship repair passes. Every pass is idempotent:
// re-running against a consistent state performs zero writes. Passes only
// fill nulls and fix dangling references; they never delete user-authored
// data.
type Engine struct {
	repo   Repository
	logger *zap.Logger
}

func NewEngine(repo Repository, logger ...*zap.Logger) *Engine {
	l := zap.L().Named("reconcile.engine")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("reconcile.engine")
	}
	return &Engine{repo: repo, logger: l}
}

// FixAllRelationships runs the passes in dependency order: positions must
// exist before users can be linked to them, and user role/department data
// must be sound before workflow repair is meaningful. The orchestrator
// halts at the first failed pass and does not roll back earlier ones;
// partially applied repair is safe because each pass is idempotent.
func (e *Engine) FixAllRelationships(ctx context.Context) ([]PassResult, bool) {
	passes := []func(context.Context) PassResult{
		e.SyncPositions,
		e.FixDepartmentHierarchies,
		e.FixUserPositions,
		e.FixApprovalWorkflows,
	}

	results := make([]PassResult, 0, len(passes))
	for _, pass := range passes {
		result := pass(ctx)
		results = append(results, result)

		if !result.Success {
			e.logger.Error("reconciliation halted",
				zap.String("pass", result.Name),
				zap.String("error", result.Error),
			)
			return results, false
		}
	}

	e.logger.Info("all reconciliation passes completed", zap.Int("passes", len(results)))
	return results, true
}
