package interrupt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShouldExit(t *testing.T) {
	base := time.Unix(1_700_000_000, 0)
	threshold := time.Second

	tests := []struct {
		name string
		now  time.Time
		last time.Time
		want bool
	}{
		{"No previous interrupt", base, time.Time{}, false},
		{"Second within window", base.Add(500 * time.Millisecond), base, true},
		{"Second after window", base.Add(1500 * time.Millisecond), base, false},
		{"Exactly at threshold", base.Add(time.Second), base, true},
		{"Just past threshold", base.Add(time.Second + time.Nanosecond), base, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldExit(tt.now, tt.last, threshold))
		})
	}
}

func TestEscalation_Observe(t *testing.T) {
	base := time.Unix(1_700_000_000, 0)

	t.Run("Double interrupt exits", func(t *testing.T) {
		e := NewEscalation(time.Second)
		assert.Equal(t, ActionReset, e.Observe(base))
		assert.Equal(t, ActionExit, e.Observe(base.Add(500*time.Millisecond)))
	})

	t.Run("Second interrupt at the threshold exits", func(t *testing.T) {
		e := NewEscalation(time.Second)
		assert.Equal(t, ActionReset, e.Observe(base))
		assert.Equal(t, ActionExit, e.Observe(base.Add(time.Second)))
	})

	t.Run("Slow second interrupt resets again", func(t *testing.T) {
		e := NewEscalation(time.Second)
		assert.Equal(t, ActionReset, e.Observe(base))
		assert.Equal(t, ActionReset, e.Observe(base.Add(1500*time.Millisecond)))
		// The window restarts from the latest interrupt.
		assert.Equal(t, ActionExit, e.Observe(base.Add(2000*time.Millisecond)))
	})

	t.Run("Zero threshold uses default", func(t *testing.T) {
		e := NewEscalation(0)
		assert.Equal(t, DefaultEscalationThreshold, e.Threshold)
	})
}

func TestRootOptions_RoutesThroughEscalation(t *testing.T) {
	base := time.Unix(1_700_000_000, 0)
	clock := base
	e := NewEscalation(time.Second)
	e.Now = func() time.Time { return clock }

	var events []string
	opts := RootOptions(e,
		func() { events = append(events, "reset") },
		func() { events = append(events, "exit") },
	)
	assert.True(t, opts.Permanent)
	assert.False(t, opts.throws())

	h := NewHandler(nil)
	_, _ = Enter(h, func(*Signal) (struct{}, error) { return struct{}{}, nil }, opts)

	h.Interrupt()
	clock = base.Add(200 * time.Millisecond)
	h.Interrupt()

	assert.Equal(t, []string{"reset", "exit"}, events)
}

func TestEscalationAction_String(t *testing.T) {
	assert.Equal(t, "reset", ActionReset.String())
	assert.Equal(t, "exit", ActionExit.String())
}
