package usecase

import (
	"context"
	"sync/atomic"
)

// State is the lifecycle state of a Connection.
type State int32

const (
	// StateOpen is the initial state; every verb is accepted.
	StateOpen State = iota
	// StateKilled is terminal; every verb is rejected.
	StateKilled
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateKilled:
		return "killed"
	default:
		return "unknown"
	}
}

// StateReader exposes the current lifecycle state to the gate.
type StateReader interface {
	State() State
}

// Disconnector closes the underlying store client.
type Disconnector interface {
	Disconnect(ctx context.Context, force bool) error
}

// Lifecycle tracks the Open -> Killed transition of one store handle.
type Lifecycle struct {
	state    atomic.Int32
	closer   Disconnector
	done     chan struct{}
	closeErr error
}

// NewLifecycle returns an open lifecycle that closes closer on Kill.
func NewLifecycle(closer Disconnector) *Lifecycle {
	return &Lifecycle{
		closer: closer,
		done:   make(chan struct{}),
	}
}

// State returns the current state.
func (l *Lifecycle) State() State {
	return State(l.state.Load())
}

// Kill marks the lifecycle killed before closing the store client. The close
// runs once; later calls wait for it and return the same result, or ctx.Err().
func (l *Lifecycle) Kill(ctx context.Context, force bool) error {
	if l.state.CompareAndSwap(int32(StateOpen), int32(StateKilled)) {
		defer close(l.done)
		l.closeErr = l.closer.Disconnect(ctx, force)
		return l.closeErr
	}

	select {
	case <-l.done:
		return l.closeErr
	case <-ctx.Done():
		return ctx.Err()
	}
}
