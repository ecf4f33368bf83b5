package workflow

import (
	"math"

	"github.com/google/uuid"
)

// RangesOverlap reports whether inclusive day ranges [aMin,aMax] and
// [bMin,bMax] intersect.
func RangesOverlap(aMin, aMax, bMin, bMax float64) bool {
	return aMin <= bMax && aMax >= bMin
}

// IsHalfStep reports whether v lands on a 0.5-day step.
func IsHalfStep(v float64) bool {
	scaled := v * 2
	return math.Abs(scaled-math.Round(scaled)) < 1e-9
}

// Scope is the (category, department, position) tuple two workflows must
// share to be compared for range overlap. NULL equals NULL.
type Scope struct {
	Category        *string
	DepartmentID    *uuid.UUID
	PositionID      *uuid.UUID
	LeaveCategoryID *uuid.UUID
}

func scopeOf(w CustomApprovalWorkflow) Scope {
	return Scope{
		Category:        w.Category,
		DepartmentID:    w.DepartmentID,
		PositionID:      w.PositionID,
		LeaveCategoryID: w.LeaveCategoryID,
	}
}

func (s Scope) Equal(other Scope) bool {
	return equalStringPtr(s.Category, other.Category) &&
		equalUUIDPtr(s.DepartmentID, other.DepartmentID) &&
		equalUUIDPtr(s.PositionID, other.PositionID) &&
		equalUUIDPtr(s.LeaveCategoryID, other.LeaveCategoryID)
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func equalUUIDPtr(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// FindConflicts returns the ids of active workflows whose range overlaps the
// candidate within the same scope tuple. excludeID skips the row being
// updated.
func FindConflicts(
	candidate CustomApprovalWorkflow,
	existing []CustomApprovalWorkflow,
	excludeID *uuid.UUID,
) []uuid.UUID {
	scope := scopeOf(candidate)

	var conflicts []uuid.UUID
	for _, w := range existing {
		if excludeID != nil && w.ID == *excludeID {
			continue
		}
		if !w.IsActive {
			continue
		}
		if !scope.Equal(scopeOf(w)) {
			continue
		}
		if RangesOverlap(candidate.MinDays, candidate.MaxDays, w.MinDays, w.MaxDays) {
			conflicts = append(conflicts, w.ID)
		}
	}
	return conflicts
}
