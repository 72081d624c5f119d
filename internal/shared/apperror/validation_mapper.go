package apperror

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func formatFieldName(s string) string {
	s = strings.ReplaceAll(s, "_", " ")

	caser := cases.Title(language.English)
	return caser.String(s)
}

// MapValidationError turns gin binding errors into a 400 AppError whose
// details carry one message per offending json field.
func MapValidationError(err error) error {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		details := make(map[string]string, len(errs))
		for _, e := range errs {
			human := formatFieldName(e.Field())
			switch e.Tag() {
			case "required":
				details[e.Field()] = RequiredField(human).Message
			default:
				details[e.Field()] = InvalidField(human).Message
			}
		}

		first := errs[0]
		var out *AppError
		if first.Tag() == "required" {
			out = RequiredField(formatFieldName(first.Field()))
		} else {
			out = InvalidField(formatFieldName(first.Field()))
		}
		out.Details = details
		return out
	}

	return &AppError{
		Code:       CodeValidation,
		Message:    "Invalid input",
		HTTPStatus: http.StatusBadRequest,
		Err:        err,
	}
}
