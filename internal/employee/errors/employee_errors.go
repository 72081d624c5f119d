package employeeerrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	ErrEmployeeAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"Employee profile already exists for this user",
		http.StatusConflict,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee ID",
		http.StatusBadRequest,
	)
	ErrInvalidUserID = apperror.NewField(
		"user_id",
		"Invalid user ID",
		http.StatusBadRequest,
	)
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"User not found",
		http.StatusNotFound,
	)
	ErrInvalidDepartment = apperror.NewField(
		"department",
		"Unknown department code",
		http.StatusBadRequest,
	)
	ErrInvalidRole = apperror.NewField(
		"role",
		"role must be admin or employee",
		http.StatusBadRequest,
	)
	ErrInvalidHireDate = apperror.NewField(
		"hire_date",
		"invalid hire_date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
)
