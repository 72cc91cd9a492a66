package jsonrpcclient

import "errors"

// Sentinel failure categories. Every error returned by Session.Send,
// Session.Notify and Session.Call matches exactly one of these via errors.Is;
// use errors.As with *SessionError to reach the message and wrapped cause.
var (
	// ErrNetwork covers connection, write, read and timeout failures, and
	// cookie-merge failures.
	ErrNetwork = errors.New("network error")

	// ErrUnexpectedContentType reports a response Content-Type that is
	// missing or outside the configured allow-list.
	ErrUnexpectedContentType = errors.New("unexpected content type")

	// ErrBadResponse reports a response body that failed to parse as
	// JSON-RPC 2.0 or that failed the identifier matching rule.
	ErrBadResponse = errors.New("bad response")
)

// ErrorKind discriminates the failure categories of a SessionError.
type ErrorKind int

const (
	// KindNetwork tags network-level failures.
	KindNetwork ErrorKind = iota + 1
	// KindUnexpectedContentType tags content-type enforcement failures.
	KindUnexpectedContentType
	// KindBadResponse tags invalid JSON-RPC 2.0 responses.
	KindBadResponse
)

// SessionError is the single error type surfaced by the session. It carries
// a human-readable message, the failure category and, where applicable, the
// wrapped underlying cause.
type SessionError struct {
	Kind  ErrorKind
	msg   string
	cause error
}

func newNetworkError(msg string, cause error) *SessionError {
	return &SessionError{Kind: KindNetwork, msg: msg, cause: cause}
}

func newContentTypeError(msg string) *SessionError {
	return &SessionError{Kind: KindUnexpectedContentType, msg: msg}
}

func newBadResponseError(msg string, cause error) *SessionError {
	return &SessionError{Kind: KindBadResponse, msg: msg, cause: cause}
}

// Error implements the error interface.
func (e *SessionError) Error() string {
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

// Unwrap returns the underlying cause, if any.
func (e *SessionError) Unwrap() error {
	return e.cause
}

// Is maps the error's kind onto the exported sentinel values so callers can
// branch with errors.Is without reaching into the struct.
func (e *SessionError) Is(target error) bool {
	switch target {
	case ErrNetwork:
		return e.Kind == KindNetwork
	case ErrUnexpectedContentType:
		return e.Kind == KindUnexpectedContentType
	case ErrBadResponse:
		return e.Kind == KindBadResponse
	}
	return false
}
