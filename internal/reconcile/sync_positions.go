package reconcile

import (
	"context"

	"github.com/dapphari007/leavemon-sub001/internal/position"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ladderEntry struct {
	Name  string
	Level int
}

// departmentLadder is the default seven-position ladder every department
// gets, levels 4 (head) down to 1 (intern).
var departmentLadder = []ladderEntry{
	{Name: "Department Head", Level: 4},
	{Name: "Manager", Level: 4},
	{Name: "Assistant Manager", Level: 3},
	{Name: "Team Lead", Level: 3},
	{Name: "Senior Staff", Level: 2},
	{Name: "Staff", Level: 1},
	{Name: "Intern", Level: 1},
}

// globalLadder holds the department-independent positions (department_id
// NULL).
var globalLadder = []ladderEntry{
	{Name: "CEO", Level: 5},
	{Name: "CTO", Level: 5},
	{Name: "CFO", Level: 5},
	{Name: "COO", Level: 5},
	{Name: "HR Director", Level: 4},
	{Name: "HR Manager", Level: 3},
	{Name: "HR Specialist", Level: 2},
}

// SyncPositions inserts any missing ladder position, keyed by the
// (name, department_id) uniqueness pair. Existing positions are never
// touched or deleted, so re-running on a complete ladder is a no-op.
func (e *Engine) SyncPositions(ctx context.Context) PassResult {
	const passName = "sync_positions"
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

	created := 0
	checked := 0
	failed := 0

	for _, dept := range departments {
		deptID := dept.ID
		for _, entry := range departmentLadder {
			checked++
			ok, err := e.ensurePosition(ctx, entry, &deptID)
			if err != nil {
				// One bad department must not abort the whole pass.
				failed++
				log.Error("ensure position failed",
					zap.String("department", dept.Name),
					zap.String("position", entry.Name),
					zap.Error(err),
				)
				continue
			}
			if ok {
				created++
				log.Info("position created",
					zap.String("department", dept.Name),
					zap.String("position", entry.Name),
					zap.Int("level", entry.Level),
				)
			}
		}
	}

	for _, entry := range globalLadder {
		checked++
		ok, err := e.ensurePosition(ctx, entry, nil)
		if err != nil {
			failed++
			log.Error("ensure global position failed",
				zap.String("position", entry.Name),
				zap.Error(err),
			)
			continue
		}
		if ok {
			created++
			log.Info("global position created",
				zap.String("position", entry.Name),
				zap.Int("level", entry.Level),
			)
		}
	}

	return PassResult{
		Name:    passName,
		Success: true,
		Message: "position ladders synchronized",
		Details: map[string]any{
			"departments": len(departments),
			"checked":     checked,
			"created":     created,
			"failed":      failed,
		},
	}
}

// ensurePosition inserts the ladder entry when no position with the same
// (name, department_id) exists. Returns true when a row was created.
func (e *Engine) ensurePosition(ctx context.Context, entry ladderEntry, departmentID *uuid.UUID) (bool, error) {
	exists, err := e.repo.PositionExists(ctx, entry.Name, departmentID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	p := &position.Position{
		ID:           uuid.New(),
		Name:         entry.Name,
		Level:        entry.Level,
		DepartmentID: departmentID,
		IsActive:     true,
	}
	if err := e.repo.CreatePosition(ctx, p); err != nil {
		return false, err
	}
	return true, nil
}
