package events

import (
	"context"
	"path/filepath"

	"github.com/dmitrijs2005/chatdesk/internal/logging"
	"github.com/fsnotify/fsnotify"
)

// FileWatcher turns changes of a file-backed store into notifications, so
// consoles sharing the file resync after each other's writes. The
// directory is watched rather than the file because atomic writes replace
// the file by rename.
type FileWatcher struct {
	path   string
	bus    Bus
	topics []Topic
	log    logging.Logger
}

func NewFileWatcher(path string, bus Bus, log logging.Logger, topics ...Topic) *FileWatcher {
	if len(topics) == 0 {
		topics = []Topic{TopicRosterChanged, TopicSessionChanged}
	}
	return &FileWatcher{path: path, bus: bus, topics: topics, log: log}
}

// Run watches until ctx is cancelled. It returns an error only when the
// watch cannot be set up.
func (w *FileWatcher) Run(ctx context.Context, ready chan<- struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	if ready != nil {
		close(ready)
	}

	name := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != name {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			for _, t := range w.topics {
				w.bus.Publish(ctx, t)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn(ctx, "store watcher error", "path", w.path, "error", err)
		}
	}
}
