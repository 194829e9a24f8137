package startgg

import (
	"errors"
	"fmt"

	crerr "github.com/cockroachdb/errors"
)

var errStartGGTransient = crerr.New("startgg transient failure")

// ErrTournamentNotFound is returned when a slug lookup yields a null tournament.
var ErrTournamentNotFound = errors.New("tournament not found")

// TransportError means the request never produced an HTTP response (DNS,
// connect, timeout, open circuit). Callers may retry it.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("start.gg transport error: %v", e.Err)
	}
	return fmt.Sprintf("start.gg transport error: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ProtocolError covers a non-200 status, an unparseable body, or a GraphQL
// errors array. Message carries the upstream text.
type ProtocolError struct {
	StatusCode int
	Message    string
}

func (e *ProtocolError) Error() string {
	return e.Message
}

func newTransportError(op string, err error, token string) *TransportError {
	cause := crerr.Mark(crerr.New(sanitizeSensitiveText(err.Error(), token)), errStartGGTransient)
	return &TransportError{Op: op, Err: cause}
}

// IsTransport reports whether err is (or wraps) a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsProtocol reports whether err is (or wraps) a ProtocolError.
func IsProtocol(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe)
}

func isTransient(err error) bool {
	return crerr.Is(err, errStartGGTransient)
}
