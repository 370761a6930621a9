package llm

import (
	"errors"
	"fmt"
)

// Kind classifies why a question could not be answered.
type Kind string

const (
	KindMissingCredential Kind = "missing_credential"
	KindBackend           Kind = "backend_error"
	KindEmptyResponse     Kind = "empty_response"
	KindMalformedRequest  Kind = "malformed_request"
	KindUnknown           Kind = "unknown_error"
)

// Error is the only error type the surfaces ever receive from Ask.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindMissingCredential:
		return "API key is not configured"
	case KindBackend:
		return "backend error: " + e.Message
	case KindEmptyResponse:
		return "model returned an empty response"
	case KindMalformedRequest:
		return "malformed request: " + e.Message
	default:
		return "request failed: " + e.Message
	}
}

func (e *Error) Unwrap() error { return e.Err }

func MissingCredential() *Error {
	return &Error{Kind: KindMissingCredential}
}

func EmptyResponse() *Error {
	return &Error{Kind: KindEmptyResponse}
}

func MalformedRequest(msg string) *Error {
	return &Error{Kind: KindMalformedRequest, Message: msg}
}

// KindOf returns the kind of err, or "" when err carries no *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// ServiceError is a failure reported by the model service itself
// (bad key, quota, invalid request). Backends translate their SDK errors
// into it so the client can classify them without knowing the SDK.
type ServiceError struct {
	Code    int
	Status  string
	Message string
}

func (e *ServiceError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("%d %s: %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

// classify turns whatever the backend returned into an *Error.
func classify(err error) *Error {
	var done *Error
	if errors.As(err, &done) {
		return done
	}
	var svc *ServiceError
	if errors.As(err, &svc) {
		return &Error{Kind: KindBackend, Message: svc.Message, Err: err}
	}
	return &Error{Kind: KindUnknown, Message: err.Error(), Err: err}
}
