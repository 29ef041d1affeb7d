package index

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/folio/internal/storage"
)

// Event kinds passed to EventCallback.
const (
	EventCreated    = "created"
	EventUpdated    = "updated"
	EventDeleted    = "deleted"
	EventReconciled = "reconciled"
)

const reconcileDelay = 200 * time.Millisecond

// Event describes one watcher-driven index change. Key is zero for
// EventReconciled.
type Event struct {
	Kind string `json:"kind"`
	Key  Key    `json:"key"`
}

// EventCallback is called after a watcher-driven index change.
type EventCallback func(Event)

// Watch starts an fsnotify watcher on the content root and processes file
// change events until ctx is cancelled. It calls cb (if non-nil) after
// each successful index mutation.
//
// New directories (including new versions and locales) are added to the
// watch list and picked up by a debounced full sync. Renames delete the old
// entry and schedule the same sync.
func (s *Syncer) Watch(ctx context.Context, root string, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		return err
	}
	if cb == nil {
		cb = func(Event) {}
	}

	s.logger.Info("watcher: started", slog.String("root", root))

	var reconcileTimer *time.Timer
	var reconcileCh <-chan time.Time
	scheduleReconcile := func() {
		if reconcileTimer == nil {
			reconcileTimer = time.NewTimer(reconcileDelay)
			reconcileCh = reconcileTimer.C
		} else {
			reconcileTimer.Reset(reconcileDelay)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reconcileTimer != nil {
				reconcileTimer.Stop()
			}
			s.logger.Info("watcher: stopped")
			return nil

		case <-reconcileCh:
			if _, err := s.Sync(ctx); err != nil {
				s.logger.Warn("watcher: reconcile failed", slog.String("error", err.Error()))
				continue
			}
			cb(Event{Kind: EventReconciled})

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						s.logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					} else {
						s.logger.Debug("watcher: watching new dir", slog.String("path", ev.Name))
					}
					scheduleReconcile()
					continue
				}
			}

			k, ok := keyFor(root, ev.Name)
			if !ok {
				continue
			}

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				kind, idxErr := s.IndexPage(k)
				if idxErr != nil {
					s.logger.Warn("watcher: index failed", slog.String("path", k.Path), slog.String("error", idxErr.Error()))
					continue
				}
				if kind == "" {
					continue
				}
				s.logger.Debug("watcher: indexed", slog.String("path", k.Path), slog.String("op", kind))
				cb(Event{Kind: kind, Key: k})

			case ev.Op&fsnotify.Remove != 0:
				s.remove(k, cb)

			case ev.Op&fsnotify.Rename != 0:
				// fsnotify reports the old name only; the new one arrives
				// as a Create if it stays inside a watched directory.
				s.remove(k, cb)
				scheduleReconcile()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

func (s *Syncer) remove(k Key, cb EventCallback) {
	if err := s.db.DeletePage(k); err != nil {
		s.logger.Warn("watcher: delete failed", slog.String("path", k.Path), slog.String("error", err.Error()))
		return
	}
	s.logger.Debug("watcher: deleted", slog.String("path", k.Path))
	cb(Event{Kind: EventDeleted, Key: k})
}

// keyFor maps an absolute document path under root to its index key.
// Paths that are not documents inside a version/locale scope are ignored.
func keyFor(root, abs string) (Key, bool) {
	if !storage.IsDocument(abs) {
		return Key{}, false
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return Key{}, false
	}
	rel = filepath.ToSlash(rel)
	for _, seg := range strings.Split(rel, "/") {
		if strings.HasPrefix(seg, ".") {
			return Key{}, false
		}
	}
	parts := strings.SplitN(rel, "/", 3)
	if len(parts) != 3 {
		return Key{}, false
	}
	return Key{Version: parts[0], Locale: parts[1], Path: parts[2]}, true
}

// addDirsRecursive adds root and all its visible subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.Add(path)
	})
}
