package leavecategoryerrors

import (
	"net/http"

	"github.com/dapphari007/leavemon-sub001/internal/shared/apperror"
)

var (
	ErrCategoryNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave category not found",
		http.StatusNotFound,
	)
	ErrCategoryNameTaken = apperror.New(
		apperror.CodeConflict,
		"a leave category with this name already exists",
		http.StatusConflict,
	)
	ErrCategoryReferenced = apperror.New(
		apperror.CodeConflict,
		"leave category is referenced by approval workflows and cannot be deleted",
		http.StatusConflict,
	)
	ErrInvalidDayRange = apperror.New(
		apperror.CodeInvalidInput,
		"default_min_days must be less than or equal default_max_days",
		http.StatusBadRequest,
	)
	ErrInvalidHalfStep = apperror.New(
		apperror.CodeInvalidInput,
		"day values must be in half-day steps",
		http.StatusBadRequest,
	)
)
