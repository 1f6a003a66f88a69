package response

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Response is the envelope shared by every endpoint. Callers branch on the
// ok flag, not on the HTTP status code alone.
type Response struct {
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

func OK() Response {
	return Response{IsOK: true}
}

func Error(msg string) Response {
	return Response{IsOK: false, Error: msg}
}

func ValidationError(errs validator.ValidationErrors) Response {
	var errMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s is required", err.Field()))
		case "email":
			errMsgs = append(errMsgs, fmt.Sprintf("field %s is not a valid email", err.Field()))
		default:
			errMsgs = append(errMsgs, fmt.Sprintf("field %s is not valid", err.Field()))
		}
	}

	return Error(strings.Join(errMsgs, ", "))
}
