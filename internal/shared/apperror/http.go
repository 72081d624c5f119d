package apperror

import (
	"errors"
	"net/http"
)

type HTTPError struct {
	Status  int
	Code    string
	Message string
	Details any
}

// ToHTTP converts any error into the response shape used by handlers.
// Errors that are not AppErrors never leak their text to the caller.
func ToHTTP(err error) HTTPError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		out := HTTPError{
			Status:  appErr.HTTPStatus,
			Code:    appErr.Code,
			Message: appErr.Message,
		}
		if len(appErr.Details) > 0 {
			out.Details = appErr.Details
		}
		if out.Status >= http.StatusInternalServerError {
			out.Message = "Internal server error"
		}
		return out
	}

	return HTTPError{
		Status:  http.StatusInternalServerError,
		Code:    CodeInternalError,
		Message: "Internal server error",
	}
}
