package balanceerrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrBalanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"Leave balance not found",
		http.StatusNotFound,
	)
	ErrBalanceAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Leave balance already exists for this employee and leave type",
		http.StatusConflict,
	)
	ErrInvalidBalanceID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid balance ID",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.NewField(
		"employee_id",
		"Invalid employee ID",
		http.StatusBadRequest,
	)
	ErrUsedExceedsTotal = apperror.NewField(
		"used_days",
		"used_days cannot exceed total_days",
		http.StatusBadRequest,
	)
	ErrInvalidResetDate = apperror.NewField(
		"reset_date",
		"invalid reset_date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrConcurrentUpdate = apperror.New(
		apperror.CodeConflict,
		"Leave balance was modified concurrently, retry the operation",
		http.StatusConflict,
	)
)
