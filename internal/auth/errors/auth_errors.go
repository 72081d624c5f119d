package autherrors

import (
	"net/http"

	"go-leave/internal/shared/apperror"
)

var (
	ErrTokenMissing = apperror.New(
		apperror.CodeUnauthorized,
		"Authorization token is required",
		http.StatusUnauthorized,
	)
	ErrTokenExpired = apperror.New(
		apperror.CodeUnauthorized,
		"Token has expired",
		http.StatusUnauthorized,
	)
	ErrInvalidToken = apperror.New(
		apperror.CodeUnauthorized,
		"Invalid token",
		http.StatusUnauthorized,
	)
	ErrInvalidCredentials = apperror.New(
		apperror.CodeUnauthorized,
		"Invalid username or password",
		http.StatusUnauthorized,
	)
	ErrUsernameTaken = &apperror.AppError{
		Code:       apperror.CodeConflict,
		Message:    "Username is already taken",
		HTTPStatus: http.StatusConflict,
		Details:    map[string]string{"username": "Username is already taken"},
	}
	ErrUserNotFound = apperror.New(
		apperror.CodeNotFound,
		"User not found",
		http.StatusNotFound,
	)
	ErrInvalidUserID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid user ID",
		http.StatusBadRequest,
	)
)
