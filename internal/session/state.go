package session

import (
	"errors"
	"time"
)

// State is the lifecycle position of a Session.
type State int

const (
	// StateIdle is a session that has not been opened.
	StateIdle State = iota
	// StateConnecting is dialing the endpoint.
	StateConnecting
	// StateOpen has completed the websocket handshake.
	StateOpen
	// StateReconnecting waits out a backoff before dialing again.
	StateReconnecting
	// StateClosed is terminal.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateReconnecting:
		return "reconnecting"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Sentinel errors returned by Open.
var (
	ErrAlreadyOpened = errors.New("session already opened")
	ErrClosed        = errors.New("session closed")
)

// Reconnect backoff bounds.
const (
	DefaultBackoff = time.Second
	maxBackoff     = 30 * time.Second
)

// calculateBackoff returns the delay before reconnect attempt number
// failures+1: base doubled per consecutive failure, capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if base <= 0 {
		base = DefaultBackoff
	}
	if failures <= 0 {
		return min(base, maxBackoff)
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}
