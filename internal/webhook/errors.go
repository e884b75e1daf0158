package webhook

import (
	"errors"
	"fmt"
)

// Kind classifies a failed send.
type Kind string

const (
	KindInvalidInput   Kind = "invalid_input"
	KindConfiguration  Kind = "configuration"
	KindAuthentication Kind = "authentication"
	KindValidation     Kind = "validation"
	KindHTTP           Kind = "http"
	KindNetwork        Kind = "network"
)

// Error is returned for every failed send. Status and Body are set only when the
// webhook answered.
type Error struct {
	Kind    Kind
	Message string
	Status  int
	Body    string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind, so errors.Is(err, ErrNetwork) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Sentinels for errors.Is.
var (
	ErrInvalidInput   = &Error{Kind: KindInvalidInput, Message: "invalid input"}
	ErrConfiguration  = &Error{Kind: KindConfiguration, Message: "webhook URL is not configured"}
	ErrAuthentication = &Error{Kind: KindAuthentication, Message: "webhook authentication failed"}
	ErrValidation     = &Error{Kind: KindValidation, Message: "webhook rejected the payload"}
	ErrHTTP           = &Error{Kind: KindHTTP, Message: "webhook request failed"}
	ErrNetwork        = &Error{Kind: KindNetwork, Message: "unable to connect to webhook URL"}
)

// KindOf returns the Kind of err, or "" if err is not a send error.
func KindOf(err error) Kind {
	var we *Error
	if errors.As(err, &we) {
		return we.Kind
	}
	return ""
}

const maxErrorBody = 512

func statusError(kind Kind, status int, body string) *Error {
	var msg string
	switch kind {
	case KindAuthentication:
		msg = fmt.Sprintf("webhook rejected the credentials (HTTP %d)", status)
	case KindValidation:
		msg = fmt.Sprintf("webhook rejected the payload (HTTP %d)", status)
	default:
		msg = fmt.Sprintf("webhook returned HTTP %d", status)
		if body != "" {
			msg += ": " + truncate(body, maxErrorBody)
		}
	}
	return &Error{Kind: kind, Message: msg, Status: status, Body: body}
}

func networkError(err error) *Error {
	return &Error{Kind: KindNetwork, Message: ErrNetwork.Message, Err: err}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "...[truncated]"
}
