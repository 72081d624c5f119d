package leaveerrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrInvalidLeaveID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid leave request id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.NewField(
		"employee_id",
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrEmployeeIDRequired = apperror.NewField(
		"employee_id",
		"employee_id is required for accounts without an employee profile",
		http.StatusBadRequest,
	)
	ErrInvalidStartDate = apperror.NewField(
		"start_date",
		"invalid start_date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidEndDate = apperror.NewField(
		"end_date",
		"invalid end_date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrEndBeforeStart = apperror.NewField(
		"end_date",
		"End date must be after start date",
		http.StatusBadRequest,
	)
	ErrInvalidStatusFilter = apperror.NewField(
		"status",
		"status must be one of pending, approved, rejected",
		http.StatusBadRequest,
	)
	ErrNotPending = apperror.New(
		apperror.CodeInvalidState,
		"only pending leave requests can be edited",
		http.StatusConflict,
	)
	ErrInsufficientBalance = apperror.New(
		apperror.CodeInvalidState,
		"insufficient leave balance to approve this request",
		http.StatusConflict,
	)
	ErrExceedsAllowance = apperror.New(
		apperror.CodeInvalidState,
		"request exceeds the allowance of this leave type",
		http.StatusConflict,
	)
	ErrAlreadyDeducted = apperror.New(
		apperror.CodeConsistency,
		"leave balance already deducted for this request",
		http.StatusInternalServerError,
	)
	ErrNoHistory = apperror.New(
		apperror.CodeNotFound,
		"leave request has no history yet",
		http.StatusNotFound,
	)
)
