package interrupt

import (
	"context"
	"os"
	"os/signal"
)

// Listen forwards OS signals to h.Interrupt until ctx is done. With no
// signals given it listens for os.Interrupt.
func Listen(ctx context.Context, h *Handler, sigs ...os.Signal) {
	if len(sigs) == 0 {
		sigs = []os.Signal{os.Interrupt}
	}
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, sigs...)
	defer signal.Stop(ch)

	forward(ctx, h, ch)
}

func forward(ctx context.Context, h *Handler, ch <-chan os.Signal) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-ch:
			h.Interrupt()
		}
	}
}
