// Package interrupt implements nested cooperative cancellation scopes.
//
// A Handler owns a stack of scopes. Each scope carries a Signal derived from
// the scope below it. A raw interrupt (SIGINT, or Ctrl-C read by the prompt)
// aborts every non-permanent scope and runs the abort hooks innermost-first.
// Permanent scopes form the root of the stack for the whole session and only
// observe interrupts through their hook.
package interrupt

import (
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"
)

// Options configures a scope.
type Options struct {
	// Permanent scopes are never popped and are never aborted.
	Permanent bool
	// ThrowOnCancel makes Enter return ErrCanceled when the scope was
	// aborted. Nil means true.
	ThrowOnCancel *bool
	// OnAbort runs after the scope's signal is aborted by an interrupt.
	OnAbort func()
}

// WithThrowOnCancel returns a copy of o with ThrowOnCancel set to v.
func (o Options) WithThrowOnCancel(v bool) Options {
	o.ThrowOnCancel = &v
	return o
}

func (o Options) throws() bool {
	return o.ThrowOnCancel == nil || *o.ThrowOnCancel
}

type scope struct {
	signal *Signal
	opts   Options
}

// Handler owns the scope stack for a session.
type Handler struct {
	mu     sync.Mutex
	stack  []*scope
	logger *zap.Logger
}

// NewHandler creates an empty handler.
func NewHandler(logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{logger: logger}
}

// Enter pushes a scope whose signal derives from the current top, runs fn
// with that signal and pops the scope on every exit path.
//
// When the scope throws on cancel and its signal is aborted by the time fn
// returns, Enter returns ErrCanceled (joined with fn's error, if any).
// Otherwise fn's results are returned unchanged.
func Enter[T any](h *Handler, fn func(*Signal) (T, error), opts Options) (T, error) {
	s := h.push(opts)
	defer h.pop(s)

	v, err := fn(s.signal)
	if opts.throws() && s.signal.Aborted() {
		var zero T
		if err != nil && !IsCanceled(err) {
			return zero, fmt.Errorf("%w: %w", ErrCanceled, err)
		}
		return zero, ErrCanceled
	}
	return v, err
}

// Interrupt delivers a raw interrupt to every scope, innermost first.
func (h *Handler) Interrupt() {
	h.mu.Lock()
	scopes := slices.Clone(h.stack)
	h.mu.Unlock()

	h.logger.Debug("interrupt", zap.Int("depth", len(scopes)))

	for _, s := range slices.Backward(scopes) {
		if !s.opts.Permanent {
			s.signal.abort()
		}
		if s.opts.OnAbort != nil {
			s.opts.OnAbort()
		}
	}
}

// Depth returns the number of scopes on the stack.
func (h *Handler) Depth() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.stack)
}

// Top returns the innermost scope's signal, or nil when the stack is empty.
func (h *Handler) Top() *Signal {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.stack) == 0 {
		return nil
	}
	return h.stack[len(h.stack)-1].signal
}

func (h *Handler) push(opts Options) *scope {
	h.mu.Lock()
	defer h.mu.Unlock()

	var parent *Signal
	if len(h.stack) > 0 {
		parent = h.stack[len(h.stack)-1].signal
	}
	s := &scope{signal: newSignal(parent), opts: opts}
	h.stack = append(h.stack, s)
	h.logger.Debug("scope entered",
		zap.Int("depth", len(h.stack)),
		zap.Bool("permanent", opts.Permanent),
	)
	return s
}

func (h *Handler) pop(s *scope) {
	if s.opts.Permanent {
		return
	}

	h.mu.Lock()
	if i := slices.Index(h.stack, s); i >= 0 {
		h.stack = slices.Delete(h.stack, i, i+1)
	}
	depth := len(h.stack)
	h.mu.Unlock()

	s.signal.release()
	h.logger.Debug("scope exited", zap.Int("depth", depth))
}
