package leaverequesterrors

import (
	"net/http"

	"github.com/dapphari007/leavemon-sub001/internal/shared/apperror"
)

var (
	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrBalanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave balance not found for the requested year",
		http.StatusNotFound,
	)
	ErrLeaveTypeNotFound = apperror.New(
		apperror.CodeNotFound,
		"referenced leave type does not exist",
		http.StatusNotFound,
	)
	ErrInvalidDays = apperror.New(
		apperror.CodeInvalidInput,
		"days must be positive and in half-day steps",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"end_date must not be before start_date",
		http.StatusBadRequest,
	)
	ErrInsufficientBalance = apperror.New(
		apperror.CodeInvalidState,
		"remaining leave balance is not enough for the requested days",
		http.StatusBadRequest,
	)
	ErrRequestNotPending = apperror.New(
		apperror.CodeInvalidState,
		"leave request is no longer pending",
		http.StatusConflict,
	)
	ErrNotEligibleApprover = apperror.New(
		apperror.CodeForbidden,
		"acting user may not decide the current approval level",
		http.StatusForbidden,
	)
	ErrNotRequestOwner = apperror.New(
		apperror.CodeForbidden,
		"only the requester may cancel a leave request",
		http.StatusForbidden,
	)
	ErrSelfApproval = apperror.New(
		apperror.CodeForbidden,
		"requester may not approve their own leave request",
		http.StatusForbidden,
	)
	ErrInvalidDecision = apperror.New(
		apperror.CodeInvalidInput,
		"decision must be approve or reject",
		http.StatusBadRequest,
	)
)
