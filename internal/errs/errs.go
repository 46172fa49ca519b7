// Package errs defines the typed error kinds a load run can fail with.
//
// Every kind carries a human-readable reason and wraps an optional
// underlying cause so callers can still errors.Is/errors.As through to the
// original network or parse error.
package errs

import "fmt"

// Kind identifies which layer produced an error.
type Kind string

const (
	ConfigNotFound       Kind = "config_not_found"
	ConfigParseError     Kind = "config_parse_error"
	InvalidDuration      Kind = "invalid_duration"
	UrlParseError        Kind = "url_parse_error"
	DnsFailure           Kind = "dns_failure"
	ConnectFailure       Kind = "connect_failure"
	TlsHandshakeFailure  Kind = "tls_handshake_failure"
	SendFailure          Kind = "send_failure"
	ReadFailure          Kind = "read_failure"
	ResponseParseFailure Kind = "response_parse_failure"
	MissingLocation      Kind = "missing_location"
)

// Error is the single error type every layer of the load generator returns.
type Error struct {
	Kind   Kind
	Reason string
	Cause  error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s", e.Reason, e.Cause)
	}
	return e.Reason
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an Error with no underlying cause.
func New(kind Kind, reason string) *Error {
	return &Error{Kind: kind, Reason: reason}
}

// Wrap builds an Error around an underlying cause.
func Wrap(kind Kind, reason string, cause error) *Error {
	return &Error{Kind: kind, Reason: reason, Cause: cause}
}

// Is reports whether err is an *Error of the given kind.
func Is(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}
