package workflow

import (
	"sort"

	"github.com/google/uuid"
)

// ResolveInput carries the request-side values a workflow is matched
// against. Nil fields mean the requester has no value for that dimension.
type ResolveInput struct {
	Days            float64
	DepartmentID    *uuid.UUID
	PositionID      *uuid.UUID
	LeaveCategoryID *uuid.UUID
	Category        *string
}

const (
	scorePosition   = 2
	scoreDepartment = 2
	scoreCategory   = 1
)

// matchCustom scores a custom workflow against the input. A NULL workflow
// scope field is a wildcard: it matches any request value and contributes 0.
// A non-NULL scope field must match the request value exactly or the
// workflow is disqualified.
func matchCustom(w CustomApprovalWorkflow, in ResolveInput) (int, bool) {
	if !w.IsActive {
		return 0, false
	}
	if in.Days < w.MinDays || in.Days > w.MaxDays {
		return 0, false
	}

	score := 0

	if w.PositionID != nil {
		if in.PositionID == nil || *in.PositionID != *w.PositionID {
			return 0, false
		}
		score += scorePosition
	}

	if w.DepartmentID != nil {
		if in.DepartmentID == nil || *in.DepartmentID != *w.DepartmentID {
			return 0, false
		}
		score += scoreDepartment
	}

	if w.LeaveCategoryID != nil || w.Category != nil {
		if !categoryMatches(w, in) {
			return 0, false
		}
		score += scoreCategory
	}

	return score, true
}

func categoryMatches(w CustomApprovalWorkflow, in ResolveInput) bool {
	if w.LeaveCategoryID != nil && in.LeaveCategoryID != nil && *w.LeaveCategoryID == *in.LeaveCategoryID {
		return true
	}
	if w.Category != nil && in.Category != nil && *w.Category == *in.Category {
		return true
	}
	return false
}

// PickBest selects the single applicable workflow: highest specificity score
// first, then is_default, then most recently updated, then id. The full
// ordering makes resolution deterministic for identical inputs.
func PickBest(candidates []CustomApprovalWorkflow, in ResolveInput) *CustomApprovalWorkflow {
	type scored struct {
		w     CustomApprovalWorkflow
		score int
	}

	var matches []scored
	for _, w := range candidates {
		if score, ok := matchCustom(w, in); ok {
			matches = append(matches, scored{w: w, score: score})
		}
	}
	if len(matches) == 0 {
		return nil
	}

	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.w.IsDefault != b.w.IsDefault {
			return a.w.IsDefault
		}
		if !a.w.UpdatedAt.Equal(b.w.UpdatedAt) {
			return a.w.UpdatedAt.After(b.w.UpdatedAt)
		}
		return a.w.ID.String() < b.w.ID.String()
	})

	best := matches[0].w
	return &best
}

// PickLegacy selects the legacy fallback by day containment only.
func PickLegacy(candidates []ApprovalWorkflow, days float64) *ApprovalWorkflow {
	var matches []ApprovalWorkflow
	for _, w := range candidates {
		if w.IsActive && days >= w.MinDays && days <= w.MaxDays {
			matches = append(matches, w)
		}
	}
	if len(matches) == 0 {
		return nil
	}

	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if !a.UpdatedAt.Equal(b.UpdatedAt) {
			return a.UpdatedAt.After(b.UpdatedAt)
		}
		return a.ID.String() < b.ID.String()
	})

	best := matches[0]
	return &best
}
