package adapter

import (
	"errors"
	"fmt"
)

// Machine codes reported by the portal or synthesized by the adapter.
const (
	CodeTokenExpired = "TOKEN_EXPIRED"
	CodeUnknown      = "UNKNOWN"
	CodeNetwork      = "NETWORK_ERROR"
	CodeDownload     = "DOWNLOAD_FAILED"

	DefaultFailureMessage = "Request failed"
)

var (
	// ErrTokenExpired matches any *APIError whose code is TOKEN_EXPIRED.
	ErrTokenExpired = errors.New("access token expired")
	// ErrNetwork matches any *APIError produced by a transport failure.
	ErrNetwork = errors.New("network error")
)

// APIError is a failed portal call.
type APIError struct {
	// StatusCode is the HTTP status, zero when no response was received.
	StatusCode int
	// Code is the machine code from the "error" field, or one of the Code
	// constants of this package.
	Code string
	// Message is the human readable description.
	Message string
	// RequestID is the X-Request-ID the request was sent with.
	RequestID string
	// Err is the underlying transport error, if any.
	Err error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match the package sentinels by code.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrTokenExpired:
		return e.Code == CodeTokenExpired
	case ErrNetwork:
		return e.Code == CodeNetwork
	}
	return false
}

// CodeOf returns the machine code carried by err, or CodeUnknown.
func CodeOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Code != "" {
		return apiErr.Code
	}
	return CodeUnknown
}
