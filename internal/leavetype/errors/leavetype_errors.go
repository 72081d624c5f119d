package leavetypeerrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrLeaveTypeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Leave type not found",
		http.StatusNotFound,
	)
	ErrInvalidKind = apperror.NewField(
		"leave_type",
		"Unknown leave type",
		http.StatusBadRequest,
	)
)
