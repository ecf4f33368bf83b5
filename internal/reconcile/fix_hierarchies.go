package reconcile

import (
	"context"
	"errors"

	"github.com/dapphari007/leavemon-sub001/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// FixDepartmentHierarchies assigns a manager to every department whose
// manager_id is null or points at a user that no longer exists. Candidate
// order: an in-department manager, an in-department team lead, then any
// manager in the system. A department with no candidate at all is logged
// and left as-is; that alone never fails the pass.
func (e *Engine) FixDepartmentHierarchies(ctx context.Context) PassResult {
	const passName = "fix_department_hierarchies"
	log := e.logger.Named(passName)

	departments, err := e.repo.ListDepartments(ctx)
	if err != nil {
		return PassResult{
			Name:    passName,
			Success: false,
			Message: "failed to list departments",
			Error:   err.Error(),
		}
	}

	assigned := 0
	unassignable := 0
	failed := 0

	for _, dept := range departments {
		valid, err := e.managerIsValid(ctx, dept.ManagerID)
		if err != nil {
			failed++
			log.Error("manager check failed",
				zap.String("department", dept.Name),
				zap.Error(err),
			)
			continue
		}
		if valid {
			continue
		}

		candidate, err := e.findManagerCandidate(ctx, dept.ID)
		if err != nil {
			failed++
			log.Error("manager lookup failed",
				zap.String("department", dept.Name),
				zap.Error(err),
			)
			continue
		}
		if candidate == nil {
			unassignable++
			log.Warn("no manager candidate for department",
				zap.String("department", dept.Name),
				zap.String("department_id", dept.ID.String()),
			)
			continue
		}

		if err := e.repo.UpdateDepartmentManager(ctx, dept.ID, candidate.ID); err != nil {
			failed++
			log.Error("manager assignment failed",
				zap.String("department", dept.Name),
				zap.Error(err),
			)
			continue
		}

		assigned++
		log.Info("department manager assigned",
			zap.String("department", dept.Name),
			zap.String("manager_id", candidate.ID.String()),
			zap.String("manager_role", candidate.Role),
		)
	}

	return PassResult{
		Name:    passName,
		Success: true,
		Message: "department hierarchies repaired",
		Details: map[string]any{
			"departments":  len(departments),
			"assigned":     assigned,
			"unassignable": unassignable,
			"failed":       failed,
		},
	}
}

func (e *Engine) managerIsValid(ctx context.Context, managerID *uuid.UUID) (bool, error) {
	if managerID == nil {
		return false, nil
	}
	return e.repo.UserExists(ctx, *managerID)
}

func (e *Engine) findManagerCandidate(ctx context.Context, departmentID uuid.UUID) (*user.User, error) {
	lookups := []func() (*user.User, error){
		func() (*user.User, error) {
			return e.repo.FindFirstUserByDepartmentAndRole(ctx, departmentID, user.RoleManager)
		},
		func() (*user.User, error) {
			return e.repo.FindFirstUserByDepartmentAndRole(ctx, departmentID, user.RoleTeamLead)
		},
		func() (*user.User, error) {
			return e.repo.FindFirstUserByRole(ctx, user.RoleManager)
		},
	}

	for _, lookup := range lookups {
		u, err := lookup()
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		return u, nil
	}
	return nil, nil
}
