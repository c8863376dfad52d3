// Package editor follows the files open in the user's editor through a
// websocket served by the editor extension.
package editor

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/Cyclone1070/aiterm/internal/contextstate"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// contextStore is the part of the context store the bridge updates.
type contextStore interface {
	AddFile(path string, reason contextstate.InclusionReason) contextstate.ContextFile
}

// message is what the extension sends whenever the set of open files changes.
type message struct {
	OpenFiles []string `json:"openFiles"`
}

// URL returns the extension's websocket address for port.
func URL(port int) string {
	return fmt.Sprintf("ws://127.0.0.1:%d", port)
}

// Bridge keeps the context store in sync with the editor's open files.
type Bridge struct {
	url       string
	reconnect time.Duration
	store     contextStore
	dialer    *websocket.Dialer
	logger    *zap.Logger

	mu        sync.Mutex
	openFiles []string
	changes   chan []string
}

// New creates a bridge to url. It does nothing until Run is called.
func New(url string, reconnect time.Duration, store contextStore, logger *zap.Logger) *Bridge {
	if store == nil {
		panic("store is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bridge{
		url:       url,
		reconnect: reconnect,
		store:     store,
		dialer:    websocket.DefaultDialer,
		logger:    logger,
		changes:   make(chan []string, 1),
	}
}

// OpenFiles returns the files currently open in the editor.
func (b *Bridge) OpenFiles() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return slices.Clone(b.openFiles)
}

// Changes delivers the open files after every change. Only the latest
// unread set is kept.
func (b *Bridge) Changes() <-chan []string {
	return b.changes
}

// Run connects to the editor and applies updates until ctx is done,
// reconnecting after failures.
func (b *Bridge) Run(ctx context.Context) error {
	for {
		if err := b.session(ctx); err != nil && ctx.Err() == nil {
			b.logger.Debug("editor connection ended", zap.String("url", b.url), zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(b.reconnect):
		}
	}
}

// session reads updates from one connection until it fails.
func (b *Bridge) session(ctx context.Context) error {
	conn, _, err := b.dialer.DialContext(ctx, b.url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	b.logger.Info("editor connected", zap.String("url", b.url))
	for {
		var msg message
		if err := conn.ReadJSON(&msg); err != nil {
			return err
		}
		b.apply(msg.OpenFiles)
	}
}

// apply tracks newly opened files as open and files that were closed as
// no longer open, then publishes the new set.
func (b *Bridge) apply(open []string) {
	b.mu.Lock()
	previous := b.openFiles
	b.openFiles = slices.Clone(open)
	b.mu.Unlock()

	for _, path := range previous {
		if !slices.Contains(open, path) {
			b.store.AddFile(path, contextstate.Editor(false))
		}
	}
	for _, path := range open {
		b.store.AddFile(path, contextstate.Editor(true))
	}
	b.logger.Debug("editor files changed", zap.Strings("open_files", open))

	// Replace an unread set with the latest one.
	select {
	case <-b.changes:
	default:
	}
	select {
	case b.changes <- slices.Clone(open):
	default:
	}
}
