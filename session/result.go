package session

import (
	"github.com/jrsteele09/go-skillgap-client/transport"
	"github.com/pkg/errors"
)

// Result is the uniform outcome of every mutating session operation. On
// failure it carries either a user-facing message or field-level validation
// errors, so a caller can map failures onto inputs without this package
// knowing anything about forms.
type Result struct {
	OK      bool
	Message string
	Fields  []transport.FieldError
}

func succeeded() Result {
	return Result{OK: true}
}

// resultFromError maps the transport taxonomy onto a Result.
func resultFromError(err error) Result {
	var validationErr *transport.ValidationError
	if errors.As(err, &validationErr) {
		return Result{Message: "validation failed", Fields: validationErr.Fields}
	}

	if errors.Is(err, transport.ErrConnectivity) {
		return Result{Message: "cannot reach the server, check your connection"}
	}

	if errors.Is(err, transport.ErrServer) {
		return Result{Message: "server error, try again later"}
	}

	var apiErr *transport.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return Result{Message: apiErr.Detail}
	}

	if errors.Is(err, transport.ErrAuthentication) {
		return Result{Message: "authentication failed"}
	}

	return Result{Message: err.Error()}
}
