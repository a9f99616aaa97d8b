package gapanalysis

import (
	"encoding/json"
	"fmt"

	"github.com/jrsteele09/go-skillgap-client/transport"
	"github.com/pkg/errors"
)

// AnalysisError is a campaign's consolidated failure after every round was
// exhausted. When the backend supplied a structured "not enough data"
// detail, its suggestions and alternative roles are carried along.
type AnalysisError struct {
	Role         string
	Message      string
	Suggestions  []string
	Alternatives []string
	cause        error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("gap analysis for %q failed: %s", e.Role, e.Message)
}

func (e *AnalysisError) Unwrap() error {
	return e.cause
}

// structuredDetail is the backend's detail object on a 404 "no job data"
// response.
type structuredDetail struct {
	Message      string   `json:"message"`
	Suggestions  []string `json:"suggestions"`
	Alternatives []string `json:"alternatives"`
}

// newAnalysisError builds a campaign failure from one target's error,
// preferring a structured detail payload over a bare message.
func newAnalysisError(role string, err error) *AnalysisError {
	analysisErr := &AnalysisError{Role: role, Message: err.Error(), cause: err}

	var apiErr *transport.APIError
	if !errors.As(err, &apiErr) {
		return analysisErr
	}
	if apiErr.Detail != "" {
		analysisErr.Message = apiErr.Detail
	}

	var detail structuredDetail
	if jsonErr := json.Unmarshal(apiErr.RawDetail, &detail); jsonErr == nil && detail.Message != "" {
		analysisErr.Message = detail.Message
		analysisErr.Suggestions = detail.Suggestions
		analysisErr.Alternatives = detail.Alternatives
	}
	return analysisErr
}
