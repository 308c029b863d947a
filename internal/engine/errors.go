package engine

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorKind classifies tool failures.
type ErrorKind string

const (
	KindUsage       ErrorKind = "usage"
	KindCredentials ErrorKind = "credentials"
	KindNetwork     ErrorKind = "network"
	KindHTTP        ErrorKind = "http"
	KindDecode      ErrorKind = "decode"
	KindNotFound    ErrorKind = "not_found"
	KindUnavailable ErrorKind = "unavailable"
	KindInternal    ErrorKind = "internal"
)

// ToolError is the failure variant of a tool result. It marshals to
// {"error": "<message>"}, the shape every tool prints on failure.
type ToolError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ToolError) Error() string { return e.Message }

func (e *ToolError) Unwrap() error { return e.Err }

// MarshalJSON renders the boundary shape; Kind stays internal.
func (e *ToolError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Error string `json:"error"`
	}{e.Message})
}

// NewToolError builds a ToolError with a formatted message.
func NewToolError(kind ErrorKind, err error, format string, args ...any) *ToolError {
	return &ToolError{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// AsToolError converts any error into a ToolError, defaulting to KindInternal.
func AsToolError(err error) *ToolError {
	var te *ToolError
	if errors.As(err, &te) {
		return te
	}
	return &ToolError{Kind: KindInternal, Message: err.Error(), Err: err}
}

// ErrorKindOf reports the kind of err, or "" when err is nil.
func ErrorKindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	return AsToolError(err).Kind
}
