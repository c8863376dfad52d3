// Package progress runs cancelable operations that report partial
// snapshots, and turns their outcome into a Result value instead of an
// error so partial output survives a failure or an interrupt.
package progress

import (
	"fmt"
	"sync"

	"github.com/Cyclone1070/aiterm/internal/interrupt"
)

// Result is the outcome of Run. Snapshot holds the latest update reported
// before a failure; it is the zero value when nothing was reported.
type Result[T, S any] struct {
	OK       bool
	Response T
	Error    string
	Snapshot S
}

// Updater reports a new snapshot. It is safe to call from any goroutine.
type Updater[S any] func(S)

// Formatters turn snapshots and outcomes into display text.
type Formatters[T, S any] struct {
	Progress func(S) string
	Success  func(T) string
	Failure  func(S, string) string
}

func (f Formatters[T, S]) progress(s S) string {
	if f.Progress == nil {
		return fmt.Sprint(s)
	}
	return f.Progress(s)
}

func (f Formatters[T, S]) success(v T) string {
	if f.Success == nil {
		return fmt.Sprint(v)
	}
	return f.Success(v)
}

func (f Formatters[T, S]) failure(s S, msg string) string {
	if f.Failure == nil {
		return msg
	}
	return f.Failure(s, msg)
}

// Options configures Run.
type Options struct {
	// OnAbort runs when the operation's scope is interrupted, e.g. to kill
	// a subprocess.
	OnAbort func()
}

// Run executes op inside a scope of h that does not throw on cancel.
// Updates are applied and rendered in call order. Updates arriving after op
// returned are dropped.
func Run[T, S any](
	h *interrupt.Handler,
	op func(*interrupt.Signal, Updater[S]) (T, error),
	fmts Formatters[T, S],
	r Renderer,
	opts Options,
) Result[T, S] {
	if r == nil {
		r = discard{}
	}

	var (
		mu       sync.Mutex
		latest   S
		finished bool
	)
	update := func(s S) {
		mu.Lock()
		defer mu.Unlock()
		if finished {
			return
		}
		latest = s
		r.Update(fmts.progress(s))
	}

	resp, err := interrupt.Enter(h, func(sig *interrupt.Signal) (T, error) {
		v, err := op(sig, update)
		if err == nil && sig.Aborted() {
			err = interrupt.ErrCanceled
		}
		return v, err
	}, interrupt.Options{OnAbort: opts.OnAbort}.WithThrowOnCancel(false))

	mu.Lock()
	finished = true
	snapshot := latest
	mu.Unlock()

	if err != nil {
		msg := err.Error()
		if interrupt.IsCanceled(err) {
			msg = interrupt.ErrCanceled.Error()
		}
		r.Done(fmts.failure(snapshot, msg))
		return Result[T, S]{Error: msg, Snapshot: snapshot}
	}

	r.Done(fmts.success(resp))
	return Result[T, S]{OK: true, Response: resp}
}
