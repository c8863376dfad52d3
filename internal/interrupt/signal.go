package interrupt

import (
	"context"
	"errors"
)

// errReleased is the cancel cause used when a scope exits normally, so a
// released signal is not mistaken for an aborted one.
var errReleased = errors.New("scope released")

// Signal is a one-way cancellation token. A signal is aborted when it is
// aborted directly or when any of its ancestors is. It never resets.
type Signal struct {
	ctx    context.Context
	cancel context.CancelCauseFunc
}

func newSignal(parent *Signal) *Signal {
	base := context.Background()
	if parent != nil {
		base = parent.ctx
	}
	ctx, cancel := context.WithCancelCause(base)
	return &Signal{ctx: ctx, cancel: cancel}
}

// Aborted reports whether the signal has been canceled.
func (s *Signal) Aborted() bool {
	return errors.Is(context.Cause(s.ctx), ErrCanceled)
}

// Done is closed once the signal is aborted or its scope has exited.
func (s *Signal) Done() <-chan struct{} {
	return s.ctx.Done()
}

// Err returns ErrCanceled once the signal is aborted, nil otherwise.
func (s *Signal) Err() error {
	if s.Aborted() {
		return ErrCanceled
	}
	return nil
}

// Context exposes the signal to blocking calls (network, subprocess) that
// already understand context cancellation.
func (s *Signal) Context() context.Context {
	return s.ctx
}

func (s *Signal) abort() {
	s.cancel(ErrCanceled)
}

// release frees the context. The first cause wins, so an aborted signal
// stays aborted.
func (s *Signal) release() {
	s.cancel(errReleased)
}
