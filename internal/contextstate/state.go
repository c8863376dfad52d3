// Package contextstate keeps a set of files and directories live against
// the filesystem. Each tracked entity carries the reasons it was included;
// whether it is shown to the model is decided by ShouldInclude at prompt
// time.
package contextstate

import (
	"cmp"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/Cyclone1070/aiterm/internal/config"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// fileSystem is the read side of the OS filesystem used by the store.
type fileSystem interface {
	ReadFile(path string, maxSize int64) ([]byte, error)
	ReadDir(path string) ([]os.DirEntry, error)
}

// subscriber queues change events for one consumer. The queue is drained
// by its own pump so a slow consumer never holds up the watcher.
type subscriber struct {
	ch   chan string
	done chan struct{}
	once sync.Once

	mu    sync.Mutex
	queue []string
	wake  chan struct{}
}

func (sub *subscriber) push(path string) {
	sub.mu.Lock()
	sub.queue = append(sub.queue, path)
	sub.mu.Unlock()

	select {
	case sub.wake <- struct{}{}:
	default:
	}
}

// next pops the oldest queued path.
func (sub *subscriber) next() (string, bool) {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if len(sub.queue) == 0 {
		return "", false
	}
	path := sub.queue[0]
	sub.queue[0] = ""
	sub.queue = sub.queue[1:]
	return path, true
}

// State is the context store. All mutation goes through AddFile and
// AddDirectory; the watcher goroutine replaces entity values whole.
type State struct {
	fs          fileSystem
	maxFileSize int64
	eventBuffer int
	logger      *zap.Logger
	watcher     *fsnotify.Watcher

	mu          sync.RWMutex
	files       map[string]ContextFile
	directories map[string]ContextDirectory
	watched     map[string]struct{}
	// pending holds directories whose watch could not be added yet.
	pending map[string]struct{}

	subsMu  sync.Mutex
	subs    map[int]*subscriber
	nextSub int
	pumps   sync.WaitGroup

	closeOnce sync.Once
	done      chan struct{}
	loopDone  chan struct{}
}

// New creates a store and starts its watcher.
func New(cfg config.ContextConfig, fs fileSystem, logger *zap.Logger) (*State, error) {
	if fs == nil {
		panic("fs is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	s := &State{
		fs:          fs,
		maxFileSize: cfg.MaxFileSize,
		eventBuffer: cfg.EventBuffer,
		logger:      logger,
		watcher:     w,
		files:       make(map[string]ContextFile),
		directories: make(map[string]ContextDirectory),
		watched:     make(map[string]struct{}),
		pending:     make(map[string]struct{}),
		subs:        make(map[int]*subscriber),
		done:        make(chan struct{}),
		loopDone:    make(chan struct{}),
	}
	go s.watch()
	return s, nil
}

// AddFile tracks path with reason and returns the current snapshot. The
// first call reads the file and starts watching it; later calls only merge
// the reason.
func (s *State) AddFile(path string, reason InclusionReason) ContextFile {
	path = normalize(path)

	s.mu.Lock()
	defer s.mu.Unlock()

	// Watch before reading so no change can slip in between. Re-adding
	// retries a watch that failed earlier.
	s.watchLocked(filepath.Dir(path))
	f, ok := s.files[path]
	if !ok {
		f = ContextFile{Path: path, Content: s.readFile(path)}
		s.logger.Debug("tracking file", zap.String("path", path))
	}
	f.InclusionReasons = mergeReason(f.InclusionReasons, reason)
	s.files[path] = f
	return f
}

// AddDirectory tracks path with reason and returns the current snapshot.
func (s *State) AddDirectory(path string, reason InclusionReason) ContextDirectory {
	path = normalize(path)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.watchLocked(filepath.Dir(path))
	s.watchLocked(path)
	d, ok := s.directories[path]
	if !ok {
		d = ContextDirectory{Path: path, Entries: s.readDirectory(path)}
		s.logger.Debug("tracking directory", zap.String("path", path))
	}
	d.InclusionReasons = mergeReason(d.InclusionReasons, reason)
	s.directories[path] = d
	return d
}

// File returns the tracked file at path.
func (s *State) File(path string) (ContextFile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.files[normalize(path)]
	return f, ok
}

// Directory returns the tracked directory at path.
func (s *State) Directory(path string) (ContextDirectory, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.directories[normalize(path)]
	return d, ok
}

// Files returns all tracked files sorted by path.
func (s *State) Files() []ContextFile {
	s.mu.RLock()
	files := slices.Collect(maps.Values(s.files))
	s.mu.RUnlock()

	slices.SortFunc(files, func(a, b ContextFile) int { return cmp.Compare(a.Path, b.Path) })
	return files
}

// Directories returns all tracked directories sorted by path.
func (s *State) Directories() []ContextDirectory {
	s.mu.RLock()
	dirs := slices.Collect(maps.Values(s.directories))
	s.mu.RUnlock()

	slices.SortFunc(dirs, func(a, b ContextDirectory) int { return cmp.Compare(a.Path, b.Path) })
	return dirs
}

// Subscribe returns a channel receiving the path of every refreshed entity,
// in order, and a function that ends the subscription. The channel is
// closed by Dispose. Events queue without limit until they are received.
func (s *State) Subscribe() (<-chan string, func()) {
	sub := &subscriber{
		ch:   make(chan string, s.eventBuffer),
		done: make(chan struct{}),
		wake: make(chan struct{}, 1),
	}

	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	select {
	case <-s.done:
		close(sub.ch)
		return sub.ch, func() {}
	default:
	}

	id := s.nextSub
	s.nextSub++
	s.subs[id] = sub
	s.pumps.Add(1)
	go s.pump(sub)

	return sub.ch, func() {
		sub.once.Do(func() {
			s.subsMu.Lock()
			delete(s.subs, id)
			s.subsMu.Unlock()
			close(sub.done)
		})
	}
}

// Dispose stops the watcher and closes all subscriptions. It is safe to
// call more than once.
func (s *State) Dispose() error {
	var err error
	s.closeOnce.Do(func() {
		s.subsMu.Lock()
		close(s.done)
		s.subsMu.Unlock()

		err = s.watcher.Close()
		<-s.loopDone
		s.pumps.Wait()

		s.subsMu.Lock()
		for id, sub := range s.subs {
			close(sub.ch)
			delete(s.subs, id)
		}
		s.subsMu.Unlock()
	})
	return err
}

// pump delivers queued events to sub until it unsubscribes or the store is
// disposed.
func (s *State) pump(sub *subscriber) {
	defer s.pumps.Done()

	for {
		path, ok := sub.next()
		if !ok {
			select {
			case <-sub.wake:
				continue
			case <-sub.done:
				return
			case <-s.done:
				return
			}
		}
		select {
		case sub.ch <- path:
		case <-sub.done:
			return
		case <-s.done:
			return
		}
	}
}

// watchLocked must be called with mu held. A directory that does not exist
// yet is kept pending and its nearest existing ancestor is watched instead,
// so its creation can be noticed.
func (s *State) watchLocked(dir string) {
	if _, ok := s.watched[dir]; ok {
		return
	}
	if err := s.watcher.Add(dir); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("failed to watch path", zap.String("path", dir), zap.Error(err))
			return
		}
		s.pending[dir] = struct{}{}
		if parent := filepath.Dir(dir); parent != dir {
			s.watchLocked(parent)
		}
		return
	}
	delete(s.pending, dir)
	s.watched[dir] = struct{}{}
}

func normalize(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}
