package domain

import "fmt"

// ErrorKind classifies a resolve failure so the resolver core can decide
// retry vs terminal without string-matching underlying errors.
type ErrorKind int

const (
	// ErrKindValidation covers a bad domain name, bad IP, or unsupported
	// record type. Surfaced immediately: no retry, no stats increment,
	// no cache interaction.
	ErrKindValidation ErrorKind = iota
	// ErrKindTransport covers send/receive/socket failures and non-2xx
	// HTTP responses. Retriable; marks the server failed.
	ErrKindTransport
	// ErrKindTimeout covers a per-attempt deadline elapsing. Retriable.
	ErrKindTimeout
	// ErrKindProtocol covers a response RCODE indicating failure
	// (SERVFAIL is retriable; NXDOMAIN and others are terminal).
	ErrKindProtocol
	// ErrKindParse covers a malformed wire response: bad framing, buffer
	// overrun, or a compression loop. Terminal for that attempt.
	ErrKindParse
	// ErrKindConfig covers configuration errors surfaced at construction
	// time: an invalid server address or an invalid option value.
	ErrKindConfig
)

func (k ErrorKind) String() string {
	switch k {
	case ErrKindValidation:
		return "validation"
	case ErrKindTransport:
		return "transport"
	case ErrKindTimeout:
		return "timeout"
	case ErrKindProtocol:
		return "protocol"
	case ErrKindParse:
		return "parse"
	case ErrKindConfig:
		return "config"
	default:
		return "unknown"
	}
}

// ResolveError is the single failure value returned from a resolve call.
// It carries the error kind and the context needed to act on it.
type ResolveError struct {
	Kind   ErrorKind
	Name   string // domain name in question, when known
	Server string // offending server, when known
	RCode  RCode  // populated for ErrKindProtocol
	Err    error  // underlying cause, if any
}

func (e *ResolveError) Error() string {
	msg := fmt.Sprintf("dns: %s error", e.Kind)
	if e.Name != "" {
		msg += fmt.Sprintf(" for %q", e.Name)
	}
	if e.Server != "" {
		msg += fmt.Sprintf(" (server %s)", e.Server)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// Retriable reports whether the resolver core should attempt another
// server/backoff cycle for this error.
func (e *ResolveError) Retriable() bool {
	switch e.Kind {
	case ErrKindTransport, ErrKindTimeout:
		return true
	case ErrKindProtocol:
		return e.RCode == RCodeServFail
	default:
		return false
	}
}

// NewResolveError constructs a ResolveError of the given kind wrapping err.
func NewResolveError(kind ErrorKind, name, server string, err error) *ResolveError {
	return &ResolveError{Kind: kind, Name: name, Server: server, Err: err}
}
