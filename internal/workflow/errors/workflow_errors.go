package workflowerrors

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dapphari007/leavemon-sub001/internal/shared/apperror"
)

var (
	ErrWorkflowNotFound = apperror.New(
		apperror.CodeNotFound,
		"approval workflow not found",
		http.StatusNotFound,
	)
	ErrNoWorkflowResolved = apperror.New(
		apperror.CodeInvalidState,
		"no approval workflow matches the requested days and scope",
		http.StatusBadRequest,
	)
	ErrInvalidDayRange = apperror.New(
		apperror.CodeInvalidInput,
		"min_days must be less than or equal max_days",
		http.StatusBadRequest,
	)
	ErrInvalidHalfStep = apperror.New(
		apperror.CodeInvalidInput,
		"min_days and max_days must be in half-day steps",
		http.StatusBadRequest,
	)
	ErrEmptyApprovalLevels = apperror.New(
		apperror.CodeInvalidInput,
		"at least one approval level is required",
		http.StatusBadRequest,
	)
	ErrInvalidApprovalLevels = apperror.New(
		apperror.CodeInvalidInput,
		"approval levels must be positive, unique and ascending",
		http.StatusBadRequest,
	)
	ErrInvalidDepartmentID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid department id",
		http.StatusBadRequest,
	)
	ErrInvalidPositionID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid position id",
		http.StatusBadRequest,
	)
	ErrInvalidLeaveCategoryID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave category id",
		http.StatusBadRequest,
	)
	ErrDepartmentNotFound = apperror.New(
		apperror.CodeNotFound,
		"referenced department does not exist",
		http.StatusNotFound,
	)
	ErrPositionNotFound = apperror.New(
		apperror.CodeNotFound,
		"referenced position does not exist",
		http.StatusNotFound,
	)
	ErrLeaveCategoryNotFound = apperror.New(
		apperror.CodeNotFound,
		"referenced leave category does not exist",
		http.StatusNotFound,
	)
)

// NewRangeOverlap builds the 409 returned when a candidate range collides
// with existing workflows in the same scope tuple; the conflicting ids are
// part of the message so the caller can fix the right rows.
func NewRangeOverlap(scope string, conflictIDs []string) *apperror.AppError {
	return apperror.New(
		apperror.CodeConflict,
		fmt.Sprintf(
			"day range overlaps workflow(s) [%s] in scope %s",
			strings.Join(conflictIDs, ", "),
			scope,
		),
		http.StatusConflict,
	)
}
