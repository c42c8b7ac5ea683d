package validation

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrorBody is the payload returned for failed request validation. It keeps
// the same top-level "error" key the controllers use for every other failure.
type ErrorBody struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// ErrorResponse turns a validator error into a response body with one
// human-readable reason per offending field.
func ErrorResponse(err error) ErrorBody {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return ErrorBody{Error: "invalid request data"}
	}
	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[fe.Field()] = reason(fe)
	}
	return ErrorBody{Error: "validation_failed", Details: details}
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "uuid":
		return fmt.Sprintf("%s must be a valid UUID", fe.Field())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
