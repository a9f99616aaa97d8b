package transport

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Sentinel errors for the transport taxonomy. Callers classify outcomes
// with errors.Is rather than inspecting status codes themselves.
var (
	// ErrConnectivity marks failures where no response was received at all.
	// The transport never retries these.
	ErrConnectivity = errors.New("network unreachable")

	// ErrAuthentication marks a final 401: either no refresh token existed
	// or the retried request failed again after a successful refresh.
	ErrAuthentication = errors.New("authentication failed")

	// ErrServer marks >=500 responses. Not retried by the transport.
	ErrServer = errors.New("server error")
)

// SessionExpiredError is returned when the refresh handshake itself failed
// and the credential store has been cleared. A collaborator observing this
// must route the user to the unauthenticated entry point exactly once.
type SessionExpiredError struct {
	Cause error
}

func (e *SessionExpiredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("session expired: %s", e.Cause.Error())
	}
	return "session expired"
}

// Unwrap makes a SessionExpiredError match ErrAuthentication.
func (e *SessionExpiredError) Unwrap() error {
	return ErrAuthentication
}

// IsSessionExpired reports whether err carries a SessionExpiredError.
func IsSessionExpired(err error) bool {
	var expired *SessionExpiredError
	return errors.As(err, &expired)
}

// FieldError is one entry of a 422 validation response, mapped to the
// input field it concerns.
type FieldError struct {
	Loc string `json:"loc"`
	Msg string `json:"msg"`
}

// ValidationError is a structured 422 response. Propagated unchanged so a
// caller can route each message to its input field.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		if f.Loc != "" {
			msgs = append(msgs, fmt.Sprintf("%s: %s", f.Loc, f.Msg))
			continue
		}
		msgs = append(msgs, f.Msg)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// APIError is any other non-2xx response. Detail holds the backend's
// human-readable detail string; RawDetail keeps the detail payload
// verbatim for callers that expect a structured object (the gap-analysis
// "not enough data" detail carries message/suggestions/alternatives).
type APIError struct {
	StatusCode int
	Detail     string
	RawDetail  json.RawMessage
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("api error (%d)", e.StatusCode)
}

// Unwrap classifies the error under the taxonomy sentinel for its status.
func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == 401:
		return ErrAuthentication
	case e.StatusCode >= 500:
		return ErrServer
	}
	return nil
}

// errorBody is the FastAPI error envelope. Detail is a bare string, a
// structured object, or (for 422) an array of field errors.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

// fastAPIFieldError matches FastAPI's 422 entries, whose loc is a path
// like ["body", "password"].
type fastAPIFieldError struct {
	Loc []json.RawMessage `json:"loc"`
	Msg string            `json:"msg"`
}

// decodeError turns a non-2xx body into the taxonomy error for its status.
func decodeError(statusCode int, body []byte) error {
	var envelope errorBody
	_ = json.Unmarshal(body, &envelope)

	if statusCode == 422 {
		if validationErr := decodeValidationDetail(envelope.Detail); validationErr != nil {
			return validationErr
		}
	}

	apiErr := &APIError{
		StatusCode: statusCode,
		Detail:     detailMessage(envelope.Detail),
		RawDetail:  envelope.Detail,
	}
	if statusCode >= 500 && apiErr.Detail == "" {
		apiErr.Detail = "server error, try again later"
	}
	return apiErr
}

func decodeValidationDetail(detail json.RawMessage) *ValidationError {
	var raw []fastAPIFieldError
	if err := json.Unmarshal(detail, &raw); err != nil || len(raw) == 0 {
		return nil
	}

	fields := make([]FieldError, 0, len(raw))
	for _, entry := range raw {
		fields = append(fields, FieldError{Loc: fieldLoc(entry.Loc), Msg: entry.Msg})
	}
	return &ValidationError{Fields: fields}
}

// fieldLoc flattens a FastAPI loc path to its final string segment, the
// field name the caller's form knows about.
func fieldLoc(loc []json.RawMessage) string {
	for i := len(loc) - 1; i >= 0; i-- {
		var segment string
		if err := json.Unmarshal(loc[i], &segment); err == nil && segment != "body" {
			return segment
		}
	}
	return ""
}

// detailMessage extracts a display string from a detail payload that may be
// a bare string or an object with a message field.
func detailMessage(detail json.RawMessage) string {
	if len(detail) == 0 {
		return ""
	}

	var message string
	if err := json.Unmarshal(detail, &message); err == nil {
		return message
	}

	var structured struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(detail, &structured); err == nil && structured.Message != "" {
		return structured.Message
	}
	return ""
}
