// Package apierr models failures of calls to the commerce API.
//
// Every failure is one of three kinds: the request never produced a response
// (Network), the server answered with a non-2xx status (Server), or the input
// was rejected before any call was made (Validation). Containers collapse all
// three into a single display string with Message.
package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindNetwork Kind = iota + 1
	KindServer
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindServer:
		return "server"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

var (
	ErrNetwork    = errors.New("network failure")
	ErrServer     = errors.New("server error")
	ErrValidation = errors.New("validation")
)

type Error struct {
	Kind Kind
	// Status is the HTTP status for KindServer.
	Status int
	// Message is the server's message field, or the validation message.
	Message string
	// Field names the offending input for KindValidation.
	Field string
	Err   error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindServer:
		if e.Message != "" {
			return fmt.Sprintf("server responded %d: %s", e.Status, e.Message)
		}
		return fmt.Sprintf("server responded %d", e.Status)
	case KindValidation:
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	default:
		if e.Err != nil {
			return "network failure: " + e.Err.Error()
		}
		return "network failure"
	}
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	switch target {
	case ErrNetwork:
		return e.Kind == KindNetwork
	case ErrServer:
		return e.Kind == KindServer
	case ErrValidation:
		return e.Kind == KindValidation
	}
	return false
}

func Network(err error) *Error {
	return &Error{Kind: KindNetwork, Err: err}
}

func Server(status int, message string) *Error {
	return &Error{Kind: KindServer, Status: status, Message: message}
}

func Validation(field, message string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

// Message returns the text shown to the user: the server's (or validator's)
// message when there is one, the fallback otherwise.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}

// Unauthorized reports whether the server denied authentication.
func Unauthorized(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindServer &&
		(e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden)
}
