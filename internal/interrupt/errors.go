package interrupt

import (
	"context"
	"errors"
)

// ErrCanceled is returned by Enter when a scope that throws on cancel was
// aborted before its function returned.
var ErrCanceled = errors.New("canceled")

// IsCanceled reports whether err represents a cooperative cancellation,
// either from a scope or from a context derived from a scope signal.
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled) || errors.Is(err, context.Canceled)
}
