package events

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/chatdesk/internal/filex"
	"github.com/dmitrijs2005/chatdesk/internal/logging"
	"github.com/stretchr/testify/require"
)

func TestFileWatcher_PublishesOnAtomicReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "store.json")

	bus := NewLocalBus()
	ch, unsub := bus.Subscribe(TopicRosterChanged)
	defer unsub()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ready := make(chan struct{})
	errCh := make(chan error, 1)
	go func() { errCh <- NewFileWatcher(path, bus, logging.Nop()).Run(ctx, ready) }()

	select {
	case <-ready:
	case err := <-errCh:
		t.Fatalf("watcher failed: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher not ready")
	}

	require.NoError(t, filex.WriteFileAtomic(path, []byte(`{"chats":"[]"}`), 0o600))
	receive(t, ch)

	cancel()
	require.NoError(t, <-errCh)
}

func TestFileWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "store.json")

	bus := NewLocalBus()
	ch, unsub := bus.Subscribe(TopicRosterChanged)
	defer unsub()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ready := make(chan struct{})
	go func() { _ = NewFileWatcher(path, bus, logging.Nop()).Run(ctx, ready) }()
	<-ready

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte("x"), 0o600))
	assertQuiet(t, ch)
}

func TestFileWatcher_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "store.json")
	err := NewFileWatcher(path, NewLocalBus(), logging.Nop()).Run(context.Background(), nil)
	require.Error(t, err)
}
