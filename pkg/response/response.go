package response

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse is the wire format for every error body: a single detail
// field describing what went wrong.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

var URLNotFoundResponse = ErrorResponse{
	Detail: "URL not found",
}

var MalformedRequestBodyResponse = ErrorResponse{
	Detail: "Request body must be a JSON object with a url field.",
}

var CodeExhaustedResponse = ErrorResponse{
	Detail: "Failed to generate unique code",
}

var ServerErrorResponse = ErrorResponse{
	Detail: "Internal server error",
}

// ValidationErrorResponse maps validator errors to an ErrorResponse whose
// detail names each failing field and its issue.
func ValidationErrorResponse(err error) ErrorResponse {
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return MalformedRequestBodyResponse
	}

	issues := make([]string, 0, len(vErrs))
	for _, fe := range vErrs {
		issues = append(issues, fmt.Sprintf("%s: %s", fe.Field(), issueForError(fe)))
	}

	return ErrorResponse{Detail: strings.Join(issues, " ")}
}

func issueForError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Must be at most %s characters.", fe.Param())
	case "target_url":
		return "Must be an http:// or https:// URL without whitespace."
	default:
		return "Invalid value."
	}
}
