package interrupt

import (
	"sync"
	"time"
)

// DefaultEscalationThreshold is the window in which a second interrupt exits.
const DefaultEscalationThreshold = 1000 * time.Millisecond

// EscalationAction is the outcome of observing an interrupt.
type EscalationAction int

const (
	// ActionReset is the first interrupt: reset the input line.
	ActionReset EscalationAction = iota
	// ActionExit is a repeated interrupt inside the window: leave the process.
	ActionExit
)

func (a EscalationAction) String() string {
	switch a {
	case ActionReset:
		return "reset"
	case ActionExit:
		return "exit"
	default:
		return "unknown"
	}
}

// ShouldExit reports whether an interrupt at now, following one at last,
// falls within threshold. A zero last means there was no prior interrupt.
func ShouldExit(now, last time.Time, threshold time.Duration) bool {
	if last.IsZero() {
		return false
	}
	return now.Sub(last) <= threshold
}

// Escalation tracks the last interrupt timestamp for the root scope.
type Escalation struct {
	Threshold time.Duration
	Now       func() time.Time

	mu   sync.Mutex
	last time.Time
}

// NewEscalation creates a policy using the wall clock.
func NewEscalation(threshold time.Duration) *Escalation {
	if threshold <= 0 {
		threshold = DefaultEscalationThreshold
	}
	return &Escalation{Threshold: threshold, Now: time.Now}
}

// Observe records an interrupt at now and decides what to do with it.
// Outside the window the timestamp is replaced and the interrupt counts as
// a first one again.
func (e *Escalation) Observe(now time.Time) EscalationAction {
	e.mu.Lock()
	defer e.mu.Unlock()

	if ShouldExit(now, e.last, e.Threshold) {
		e.last = time.Time{}
		return ActionExit
	}
	e.last = now
	return ActionReset
}

func (e *Escalation) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

// RootOptions builds the permanent root scope: it never throws, and each
// interrupt it observes is routed through esc to onReset or onExit.
func RootOptions(esc *Escalation, onReset, onExit func()) Options {
	return Options{
		Permanent: true,
		OnAbort: func() {
			switch esc.Observe(esc.now()) {
			case ActionExit:
				if onExit != nil {
					onExit()
				}
			default:
				if onReset != nil {
					onReset()
				}
			}
		},
	}.WithThrowOnCancel(false)
}
