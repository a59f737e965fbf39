package vlb

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an Error.
type Kind int

const (
	// KindUnknown is the zero Kind
	KindUnknown Kind = iota
	// KindArgument indicates caller misuse such as an invalid enum value
	KindArgument
	// KindArgumentCount indicates a placeholder/argument count mismatch
	KindArgumentCount
	// KindProtocol indicates the API answered with an error status code
	KindProtocol
	// KindAPI indicates an error descriptor in a successful response, or a
	// response whose shape does not match the endpoint contract
	KindAPI
	// KindExhausted indicates pagination past the last page
	KindExhausted
	// KindTemplate indicates a malformed query template
	KindTemplate
	// KindTransport indicates the request never produced a response: rate
	// limiter, connection or body read failures
	KindTransport
)

// String returns the string representation of a Kind
func (k Kind) String() string {
	switch k {
	case KindArgument:
		return "argument"
	case KindArgumentCount:
		return "argument count"
	case KindProtocol:
		return "protocol"
	case KindAPI:
		return "api"
	case KindExhausted:
		return "exhausted"
	case KindTemplate:
		return "template"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// Sentinels for use with errors.Is.
var (
	ErrArgument      = errors.New("invalid argument")
	ErrArgumentCount = errors.New("placeholder and argument count differ")
	ErrProtocol      = errors.New("vlb protocol error")
	ErrAPI           = errors.New("vlb api error")
	ErrExhausted     = errors.New("no more pages")
	ErrTemplate      = errors.New("malformed query template")
	ErrTransport     = errors.New("vlb transport error")
)

// Error is returned by every operation in this package. Transport failures
// keep their cause in Err, so errors.Is(err, context.Canceled) still works.
type Error struct {
	Kind       Kind
	Op         string
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Message
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg += ": " + e.Err.Error()
		}
	}
	prefix := "vlb " + e.Kind.String() + " error"
	if e.Op != "" {
		prefix = "vlb " + e.Op + ": " + e.Kind.String() + " error"
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %s", prefix, e.StatusCode, msg)
	}
	return fmt.Sprintf("%s: %s", prefix, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the package sentinels by kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrArgument:
		return e.Kind == KindArgument || e.Kind == KindArgumentCount
	case ErrArgumentCount:
		return e.Kind == KindArgumentCount
	case ErrProtocol:
		return e.Kind == KindProtocol
	case ErrAPI:
		return e.Kind == KindAPI
	case ErrExhausted:
		return e.Kind == KindExhausted
	case ErrTemplate:
		return e.Kind == KindTemplate
	case ErrTransport:
		return e.Kind == KindTransport
	}
	return false
}

// IsNotFound checks if the error indicates a not found response
func (e *Error) IsNotFound() bool {
	return e.Kind == KindProtocol && e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *Error) IsUnauthorized() bool {
	return e.Kind == KindProtocol &&
		(e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden)
}

// IsNotFound reports whether err is a VLB 404.
func IsNotFound(err error) bool {
	var vErr *Error
	return errors.As(err, &vErr) && vErr.IsNotFound()
}

// IsUnauthorized reports whether err is a VLB 401 or 403.
func IsUnauthorized(err error) bool {
	var vErr *Error
	return errors.As(err, &vErr) && vErr.IsUnauthorized()
}

func argumentError(op, format string, args ...any) *Error {
	return &Error{Kind: KindArgument, Op: op, Message: fmt.Sprintf(format, args...)}
}

// isProtocolStatus reports whether a status code is a protocol error. VLB
// documents 400, 401, 403, 404 and 500; other 4xx/5xx codes are treated alike.
func isProtocolStatus(code int) bool {
	return code >= http.StatusBadRequest
}
