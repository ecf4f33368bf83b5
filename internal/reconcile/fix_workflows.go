package reconcile

import (
	"context"
	"errors"

	"github.com/dapphari007/leavemon-sub001/internal/user"
	"github.com/dapphari007/leavemon-sub001/internal/workflow"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// genericRepairLevels is the template written into any custom workflow found
// with an empty level list: two required levels, team lead then manager.
func genericRepairLevels() []workflow.ApprovalLevel {
	return []workflow.ApprovalLevel{
		{Level: 1, Roles: []string{user.RoleTeamLead, user.RoleManager}, Required: true},
		{Level: 2, Roles: []string{user.RoleManager, user.RoleHR}, Required: true},
	}
}

// FixApprovalWorkflows ensures the two canonical legacy workflows exist with
// non-empty levels and repairs any custom workflow whose level list is
// empty. A workflow with no levels would resolve but then approve nothing,
// which the sequencer must never see.
func (e *Engine) FixApprovalWorkflows(ctx context.Context) PassResult {
	const passName = "fix_approval_workflows"
	log := e.logger.Named(passName)

	createdLegacy := 0
	repairedLegacy := 0
	failed := 0

	for _, canonical := range workflow.DefaultLegacyWorkflows() {
		existing, err := e.repo.FindLegacyWorkflowByName(ctx, canonical.Name)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				failed++
				log.Error("legacy workflow lookup failed",
					zap.String("workflow", canonical.Name),
					zap.Error(err),
				)
				continue
			}

			w := canonical
			if err := e.repo.CreateLegacyWorkflow(ctx, &w); err != nil {
				failed++
				log.Error("legacy workflow create failed",
					zap.String("workflow", canonical.Name),
					zap.Error(err),
				)
				continue
			}
			createdLegacy++
			log.Info("legacy workflow created", zap.String("workflow", canonical.Name))
			continue
		}

		if len(existing.Levels) == 0 {
			if err := e.repo.UpdateLegacyWorkflowLevels(ctx, existing.ID, canonical.Levels); err != nil {
				failed++
				log.Error("legacy workflow repair failed",
					zap.String("workflow", canonical.Name),
					zap.Error(err),
				)
				continue
			}
			repairedLegacy++
			log.Info("legacy workflow levels restored", zap.String("workflow", canonical.Name))
		}
	}

	emptyCustom, err := e.repo.ListCustomWorkflowsWithEmptyLevels(ctx)
	if err != nil {
		return PassResult{
			Name:    passName,
			Success: false,
			Message: "failed to list custom workflows",
			Error:   err.Error(),
		}
	}

	repairedCustom := 0
	for _, w := range emptyCustom {
		if err := e.repo.UpdateCustomWorkflowLevels(ctx, w.ID, genericRepairLevels()); err != nil {
			failed++
			log.Error("custom workflow repair failed",
				zap.String("workflow_id", w.ID.String()),
				zap.Error(err),
			)
			continue
		}
		repairedCustom++
		log.Info("custom workflow levels restored",
			zap.String("workflow_id", w.ID.String()),
			zap.String("name", w.Name),
		)
	}

	return PassResult{
		Name:    passName,
		Success: true,
		Message: "approval workflows repaired",
		Details: map[string]any{
			"legacy_created":  createdLegacy,
			"legacy_repaired": repairedLegacy,
			"custom_repaired": repairedCustom,
			"failed":          failed,
		},
	}
}
