package index

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/eunoia-app/eunoia/internal/store"
)

// EventCallback is called after a watcher-driven resync with the names of
// the collections whose files changed.
type EventCallback func(collections []string)

// Watch starts an fsnotify watcher on the data directory and resyncs the
// index whenever a collection file changes on disk (external edits, another
// process, a restored backup). Change bursts are debounced before a single
// reconciliation pass runs. It blocks until ctx is cancelled.
func Watch(ctx context.Context, db *DB, st *store.Store, dataDir string, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dataDir); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", dataDir))

	const debounce = 200 * time.Millisecond
	var syncTimer *time.Timer
	var syncCh <-chan time.Time
	pending := make(map[string]struct{})

	scheduleSync := func() {
		if syncTimer == nil {
			syncTimer = time.NewTimer(debounce)
			syncCh = syncTimer.C
		} else {
			syncTimer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if syncTimer != nil {
				syncTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-syncCh:
			changed := make([]string, 0, len(pending))
			for name := range pending {
				changed = append(changed, name)
				delete(pending, name)
			}
			if err := Sync(db, st, logger); err != nil {
				logger.Warn("watcher: resync failed", slog.String("error", err.Error()))
				continue
			}
			logger.Debug("watcher: resynced", slog.Any("collections", changed))
			if cb != nil {
				cb(changed)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			name := filepath.Base(ev.Name)
			if !strings.HasSuffix(name, ".json") {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			pending[strings.TrimSuffix(name, ".json")] = struct{}{}
			scheduleSync()

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher: error", slog.String("error", err.Error()))
		}
	}
}
