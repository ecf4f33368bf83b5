package reconcile

import (
	"context"
	"errors"

	"github.com/dapphari007/leavemon-sub001/internal/department"
	"github.com/dapphari007/leavemon-sub001/internal/position"
	"github.com/dapphari007/leavemon-sub001/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const fallbackDepartmentName = "General"

// roleTitle maps a role to the canonical position title used when a user's
// position cannot be resolved from their own data.
func roleTitle(role string) string {
	switch role {
	case user.RoleSuperAdmin:
		return "CEO"
	case user.RoleManager:
		return "Manager"
	case user.RoleHR:
		return "HR Specialist"
	case user.RoleTeamLead:
		return "Team Lead"
	default:
		return "Employee"
	}
}

// FixUserPositions reconciles each user's denormalized department and
// position pairs. The id is authoritative when present and valid; otherwise
// the string resolves by case-insensitive name match, falling back to the
// default department. Both sides of each pair are written back together so
// a half-written pair cannot survive the pass.
func (e *Engine) FixUserPositions(ctx context.Context) PassResult {
	const passName = "fix_user_positions"
	log := e.logger.Named(passName)

	users, err := e.repo.ListUsers(ctx)
	if err != nil {
		return PassResult{
			Name:    passName,
			Success: false,
			Message: "failed to list users",
			Error:   err.Error(),
		}
	}

	updated := 0
	failed := 0

	for _, u := range users {
		changed, err := e.fixOneUser(ctx, u, log)
		if err != nil {
			failed++
			log.Error("user reconcile failed",
				zap.String("user_id", u.ID.String()),
				zap.Error(err),
			)
			continue
		}
		if changed {
			updated++
		}
	}

	return PassResult{
		Name:    passName,
		Success: true,
		Message: "user department and position links repaired",
		Details: map[string]any{
			"users":   len(users),
			"updated": updated,
			"failed":  failed,
		},
	}
}

func (e *Engine) fixOneUser(ctx context.Context, u user.User, log *zap.Logger) (bool, error) {
	fields := map[string]any{}

	dept, err := e.resolveDepartment(ctx, u)
	if err != nil {
		return false, err
	}

	if u.DepartmentID == nil || *u.DepartmentID != dept.ID {
		fields["department_id"] = dept.ID
	}
	if u.Department == nil || *u.Department != dept.Name {
		fields["department"] = dept.Name
	}

	pos, err := e.resolvePosition(ctx, u, dept.ID)
	if err != nil {
		return false, err
	}
	if pos != nil {
		if u.PositionID == nil || *u.PositionID != pos.ID {
			fields["position_id"] = pos.ID
		}
		if u.Position == nil || *u.Position != pos.Name {
			fields["position"] = pos.Name
		}
	}

	if len(fields) == 0 {
		return false, nil
	}

	if err := e.repo.UpdateUserOrg(ctx, u.ID, fields); err != nil {
		return false, err
	}

	log.Info("user organization links repaired",
		zap.String("user_id", u.ID.String()),
		zap.String("department", dept.Name),
		zap.Any("fields", fieldNames(fields)),
	)
	return true, nil
}

// resolveDepartment: a valid id wins; then the denormalized name; then the
// default department, created on first use.
func (e *Engine) resolveDepartment(ctx context.Context, u user.User) (*department.Department, error) {
	if u.DepartmentID != nil {
		d, err := e.repo.FindDepartmentByID(ctx, *u.DepartmentID)
		if err == nil {
			return d, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		// Dangling id: fall through to name resolution.
	}

	if u.Department != nil && *u.Department != "" {
		d, err := e.repo.FindDepartmentByNameInsensitive(ctx, *u.Department)
		if err == nil {
			return d, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	return e.ensureFallbackDepartment(ctx)
}

func (e *Engine) ensureFallbackDepartment(ctx context.Context) (*department.Department, error) {
	d, err := e.repo.FindDepartmentByNameInsensitive(ctx, fallbackDepartmentName)
	if err == nil {
		return d, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	d = &department.Department{
		ID:          uuid.New(),
		Name:        fallbackDepartmentName,
		Description: "Default department for unassigned users",
		IsActive:    true,
	}
	if err := e.repo.CreateDepartment(ctx, d); err != nil {
		return nil, err
	}

	e.logger.Info("fallback department created", zap.String("department_id", d.ID.String()))
	return d, nil
}

// resolvePosition tries, in order: the user's own position name within their
// department, the same name anywhere, then the role-inferred canonical
// title. The canonical title is created when absent so the pass converges.
func (e *Engine) resolvePosition(ctx context.Context, u user.User, departmentID uuid.UUID) (*position.Position, error) {
	if u.PositionID != nil {
		p, err := e.repo.FindPositionByID(ctx, *u.PositionID)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	if u.Position != nil && *u.Position != "" {
		p, err := e.repo.FindPositionByNameAndDepartment(ctx, *u.Position, &departmentID)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		p, err = e.repo.FindPositionByNameInsensitive(ctx, *u.Position)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	title := roleTitle(u.Role)

	p, err := e.repo.FindPositionByNameAndDepartment(ctx, title, &departmentID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	p, err = e.repo.FindPositionByNameInsensitive(ctx, title)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created := &position.Position{
		ID:           uuid.New(),
		Name:         title,
		Level:        1,
		DepartmentID: &departmentID,
		IsActive:     true,
	}
	if err := e.repo.CreatePosition(ctx, created); err != nil {
		return nil, err
	}

	e.logger.Info("canonical position created",
		zap.String("position", title),
		zap.String("department_id", departmentID.String()),
	)
	return created, nil
}

func fieldNames(fields map[string]any) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	return names
}
