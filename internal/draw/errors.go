package draw

import (
	"errors"
	"fmt"
)

// User-visible messages.
const (
	MsgInsufficientTickets = "NOT ENOUGH TICKETS"
	MsgConnectionLost      = "CONNECTION LOST. TRY AGAIN"
	MsgSummonFailed        = "SUMMON FAILED. TRY AGAIN"
	MsgNoSession           = "PLEASE LOG IN FIRST"
)

var (
	// ErrBusy means a draw cycle is already in flight. The request was dropped.
	ErrBusy = errors.New("draw cycle in flight")

	// ErrInsufficientTickets is the local balance guard. The service was not contacted.
	ErrInsufficientTickets = errors.New("insufficient tickets")

	// ErrStaleCycle means a step was applied to a cycle that is no longer in flight.
	ErrStaleCycle = errors.New("stale draw cycle")
)

// RemoteError is a business failure reported by the service.
type RemoteError struct {
	Message string
	Err     error
}

func (e *RemoteError) Error() string { return "draw rejected: " + e.Message }
func (e *RemoteError) Unwrap() error { return e.Err }

// TransportError means the remote call itself failed (network, timeout, bad body).
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "draw transport: " + e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolMismatchError is a response that violates the draw contract.
type ProtocolMismatchError struct {
	Reason string
}

func (e *ProtocolMismatchError) Error() string { return "draw protocol mismatch: " + e.Reason }

func batchMismatch(want, got int) *ProtocolMismatchError {
	return &ProtocolMismatchError{Reason: fmt.Sprintf("expected %d results, got %d", want, got)}
}
