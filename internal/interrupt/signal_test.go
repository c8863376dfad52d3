package interrupt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignal_ParentAbortPropagates(t *testing.T) {
	parent := newSignal(nil)
	child := newSignal(parent)
	defer child.release()

	assert.False(t, child.Aborted())

	parent.abort()

	<-child.Done()
	assert.True(t, child.Aborted())
	assert.ErrorIs(t, child.Err(), ErrCanceled)
	assert.ErrorIs(t, context.Cause(child.Context()), ErrCanceled)
}

func TestSignal_ChildAbortDoesNotReachParent(t *testing.T) {
	parent := newSignal(nil)
	defer parent.release()
	child := newSignal(parent)

	child.abort()

	assert.True(t, child.Aborted())
	assert.False(t, parent.Aborted())
}

func TestSignal_AbortIsMonotonic(t *testing.T) {
	s := newSignal(nil)

	s.abort()
	s.release()
	s.abort()

	assert.True(t, s.Aborted())
}

func TestSignal_ReleaseIsNotAbort(t *testing.T) {
	s := newSignal(nil)

	s.release()

	assert.False(t, s.Aborted())
	assert.NoError(t, s.Err())
	select {
	case <-s.Done():
	default:
		t.Fatal("released signal should be done")
	}
}
