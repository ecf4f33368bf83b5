package workflow

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func customWF(name string, minDays, maxDays float64, deptID, posID *uuid.UUID) CustomApprovalWorkflow {
	return CustomApprovalWorkflow{
		ID:           uuid.New(),
		Name:         name,
		MinDays:      minDays,
		MaxDays:      maxDays,
		DepartmentID: deptID,
		PositionID:   posID,
		IsActive:     true,
		Levels: []ApprovalLevel{
			{Level: 1, Roles: []string{"manager"}, Required: true},
		},
	}
}

func TestPickBest_SpecificityOrdering(t *testing.T) {
	deptID := uuid.New()

	unscoped := customWF("W1", 1, 5, nil, nil)
	scoped := customWF("W2", 1, 5, &deptID, nil)

	best := PickBest([]CustomApprovalWorkflow{unscoped, scoped}, ResolveInput{
		Days:         3,
		DepartmentID: &deptID,
	})

	assert.NotNil(t, best)
	assert.Equal(t, scoped.ID, best.ID)
}

func TestPickBest_WildcardMatchesAnyValue(t *testing.T) {
	deptID := uuid.New()
	unscoped := customWF("W1", 1, 5, nil, nil)

	// A NULL scope field matches requests that do carry a value.
	best := PickBest([]CustomApprovalWorkflow{unscoped}, ResolveInput{
		Days:         2,
		DepartmentID: &deptID,
	})
	assert.NotNil(t, best)
	assert.Equal(t, unscoped.ID, best.ID)
}

func TestPickBest_MismatchedScopeDisqualifies(t *testing.T) {
	deptA := uuid.New()
	deptB := uuid.New()
	scoped := customWF("W", 1, 5, &deptA, nil)

	best := PickBest([]CustomApprovalWorkflow{scoped}, ResolveInput{
		Days:         2,
		DepartmentID: &deptB,
	})
	assert.Nil(t, best)

	// A scoped workflow also never matches a request without that field.
	best = PickBest([]CustomApprovalWorkflow{scoped}, ResolveInput{Days: 2})
	assert.Nil(t, best)
}

func TestPickBest_DayContainmentInclusive(t *testing.T) {
	w := customWF("W", 0.5, 2, nil, nil)

	assert.NotNil(t, PickBest([]CustomApprovalWorkflow{w}, ResolveInput{Days: 0.5}))
	assert.NotNil(t, PickBest([]CustomApprovalWorkflow{w}, ResolveInput{Days: 2}))
	assert.Nil(t, PickBest([]CustomApprovalWorkflow{w}, ResolveInput{Days: 2.5}))
}

func TestPickBest_PositionOutranksCategory(t *testing.T) {
	posID := uuid.New()
	catID := uuid.New()

	byPosition := customWF("pos", 1, 5, nil, &posID)
	byCategory := customWF("cat", 1, 5, nil, nil)
	byCategory.LeaveCategoryID = &catID

	best := PickBest([]CustomApprovalWorkflow{byCategory, byPosition}, ResolveInput{
		Days:            3,
		PositionID:      &posID,
		LeaveCategoryID: &catID,
	})

	assert.NotNil(t, best)
	assert.Equal(t, byPosition.ID, best.ID)
}

func TestPickBest_TieBreakPrefersDefaultThenRecency(t *testing.T) {
	older := customWF("older", 1, 5, nil, nil)
	older.UpdatedAt = time.Now().Add(-time.Hour)
	newer := customWF("newer", 1, 5, nil, nil)
	newer.UpdatedAt = time.Now()

	best := PickBest([]CustomApprovalWorkflow{older, newer}, ResolveInput{Days: 3})
	assert.Equal(t, newer.ID, best.ID)

	older.IsDefault = true
	best = PickBest([]CustomApprovalWorkflow{older, newer}, ResolveInput{Days: 3})
	assert.Equal(t, older.ID, best.ID)
}

func TestPickBest_Deterministic(t *testing.T) {
	deptID := uuid.New()
	candidates := []CustomApprovalWorkflow{
		customWF("a", 1, 5, nil, nil),
		customWF("b", 1, 5, &deptID, nil),
		customWF("c", 0.5, 10, nil, nil),
	}
	in := ResolveInput{Days: 3, DepartmentID: &deptID}

	first := PickBest(candidates, in)
	for i := 0; i < 20; i++ {
		again := PickBest(candidates, in)
		assert.Equal(t, first.ID, again.ID)
	}
}

func TestPickBest_InactiveNeverMatches(t *testing.T) {
	w := customWF("W", 1, 5, nil, nil)
	w.IsActive = false

	assert.Nil(t, PickBest([]CustomApprovalWorkflow{w}, ResolveInput{Days: 3}))
}

func TestPickLegacy_DayContainmentOnly(t *testing.T) {
	legacy := ApprovalWorkflow{
		ID:       uuid.New(),
		Name:     "Default Approval Workflow",
		MinDays:  0.5,
		MaxDays:  2,
		IsActive: true,
		Levels: []ApprovalLevel{
			{Level: 1, Roles: []string{"team_lead"}, Required: true},
		},
	}

	best := PickLegacy([]ApprovalWorkflow{legacy}, 0.5)
	assert.NotNil(t, best)
	assert.Equal(t, legacy.ID, best.ID)

	assert.Nil(t, PickLegacy([]ApprovalWorkflow{legacy}, 3))
}
