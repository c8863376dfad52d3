package contextstate

import (
	"maps"
	"path/filepath"
	"slices"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const refreshOps = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename

func (s *State) watch() {
	defer close(s.loopDone)

	for {
		select {
		case <-s.done:
			return
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			s.handle(ev)
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("watcher error", zap.Error(err))
		}
	}
}

func (s *State) handle(ev fsnotify.Event) {
	if ev.Op&refreshOps == 0 {
		return
	}

	path := filepath.Clean(ev.Name)
	var changed []string

	s.mu.Lock()
	if f, ok := s.files[path]; ok {
		f.Content = s.readFile(path)
		s.files[path] = f
		changed = append(changed, path)
	}
	if d, ok := s.directories[path]; ok {
		if ev.Op.Has(fsnotify.Create) {
			// Recreated directories need a fresh watch.
			delete(s.watched, path)
			s.watchLocked(path)
		}
		d.Entries = s.readDirectory(path)
		s.directories[path] = d
		changed = append(changed, path)
	}
	parent := filepath.Dir(path)
	if d, ok := s.directories[parent]; ok && !ev.Op.Has(fsnotify.Write) {
		d.Entries = s.readDirectory(parent)
		s.directories[parent] = d
		changed = append(changed, parent)
	}
	if ev.Op.Has(fsnotify.Create) && len(s.pending) > 0 {
		for _, p := range s.retryPendingLocked() {
			if !slices.Contains(changed, p) {
				changed = append(changed, p)
			}
		}
	}
	s.mu.Unlock()

	for _, p := range changed {
		s.logger.Debug("context refreshed", zap.String("path", p), zap.String("op", ev.Op.String()))
		s.emit(p)
	}
}

// retryPendingLocked adds the watches that failed earlier and re-reads the
// entities under every directory that is now watched. It must be called
// with mu held.
func (s *State) retryPendingLocked() []string {
	var changed []string
	for _, dir := range slices.Sorted(maps.Keys(s.pending)) {
		s.watchLocked(dir)
		if _, ok := s.watched[dir]; !ok {
			continue
		}
		s.logger.Debug("watch added", zap.String("path", dir))

		for path, f := range s.files {
			if filepath.Dir(path) == dir {
				f.Content = s.readFile(path)
				s.files[path] = f
				changed = append(changed, path)
			}
		}
		for path, d := range s.directories {
			if path == dir || filepath.Dir(path) == dir {
				d.Entries = s.readDirectory(path)
				s.directories[path] = d
				changed = append(changed, path)
			}
		}
	}
	return changed
}

// emit queues path for every subscriber. It never blocks.
func (s *State) emit(path string) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	for _, sub := range s.subs {
		sub.push(path)
	}
}
