package events

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/filedock/service/internal/logger"
)

// Watcher publishes created/removed events for the files directory.
type Watcher struct {
	fsw *fsnotify.Watcher
	pub Publisher
	log *logger.Logger
}

// NewWatcher starts watching dir. Run must be called to deliver events.
func NewWatcher(dir string, pub Publisher, log *logger.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	return &Watcher{fsw: fsw, pub: pub, log: log}, nil
}

// Run forwards filesystem events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if e, ok := translate(ev); ok {
				w.pub.Publish(e)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.With().Err(err).Logger().Warn("storage watcher error")
		}
	}
}

// Close stops the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// translate maps an fsnotify event to an object event. Writes and chmods are
// dropped; a rename reports the old name as removed.
func translate(ev fsnotify.Event) (Event, bool) {
	key := filepath.Base(ev.Name)
	if strings.HasPrefix(key, ".") {
		return Event{}, false
	}

	switch {
	case ev.Has(fsnotify.Create):
		return Event{Type: TypeCreated, Key: key, Source: SourceFS}, true
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		return Event{Type: TypeRemoved, Key: key, Source: SourceFS}, true
	}
	return Event{}, false
}
