// Package response renders the JSON envelopes used by every API endpoint.
package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/newthinker/elite/internal/core"
	"github.com/newthinker/elite/internal/metrics"
)

// Meta contains response metadata.
type Meta struct {
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"requestId,omitempty"`
}

// SuccessResponse is the standard success response format.
type SuccessResponse struct {
	Data any  `json:"data"`
	Meta Meta `json:"meta"`
}

// FieldError describes one invalid request parameter.
type FieldError struct {
	Code    string `json:"code"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Cause   string       `json:"cause,omitempty"`
	Fields  []FieldError `json:"fields,omitempty"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
	Meta  Meta        `json:"meta"`
}

// ValidationError carries per-field failures as the cause of an
// ErrInvalidRequest.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	return e.Fields[0].Message
}

func meta(r *http.Request) Meta {
	m := Meta{Timestamp: time.Now().UTC()}
	if r != nil {
		m.RequestID = metrics.RequestID(r.Context())
	}
	return m
}

// JSON writes a success response with data.
func JSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	write(w, status, SuccessResponse{Data: data, Meta: meta(r)})
}

// Error writes an error response. Non-core errors are reported as
// INTERNAL_ERROR without their message.
func Error(w http.ResponseWriter, r *http.Request, status int, err error) {
	detail := ErrorDetail{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
	}

	var coreErr *core.Error
	if errors.As(err, &coreErr) {
		detail.Code = coreErr.Code
		detail.Message = coreErr.Message
		if coreErr.Cause != nil {
			detail.Cause = coreErr.Cause.Error()
		}
	}
	var verr *ValidationError
	if errors.As(err, &verr) {
		detail.Fields = verr.Fields
	}

	write(w, status, ErrorResponse{Error: detail, Meta: meta(r)})
}

func write(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
