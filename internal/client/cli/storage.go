package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/chatdesk/internal/client/config"
	"github.com/dmitrijs2005/chatdesk/internal/client/events"
	"github.com/dmitrijs2005/chatdesk/internal/client/repositories/kv"
	"github.com/dmitrijs2005/chatdesk/internal/filex"
	"github.com/dmitrijs2005/chatdesk/internal/logging"
	"github.com/redis/go-redis/v9"
)

// storage is the shared state of the console: the key/value store and the
// bus that tells views when it changed.
type storage struct {
	store   kv.Store
	bus     events.Bus
	closers []func() error
}

func (s *storage) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	return errors.Join(errs...)
}

// openStorage builds the store and bus for cfg.StoreBackend. Background
// workers (Redis relay, file watcher) live until ctx is done or the storage
// is closed.
func openStorage(ctx context.Context, cfg *config.Config, log logging.Logger) (*storage, error) {
	switch cfg.StoreBackend {
	case config.StoreSQLite:
		if err := filex.EnsureParentDir(cfg.StorePath); err != nil {
			return nil, err
		}
		db, err := kv.InitDatabase(ctx, cfg.StorePath)
		if err != nil {
			return nil, fmt.Errorf("error initializing database: %w", err)
		}
		return &storage{
			store:   kv.NewSQLiteStore(db),
			bus:     events.NewLocalBus(),
			closers: []func() error{db.Close},
		}, nil

	case config.StoreFile:
		if err := filex.EnsureParentDir(cfg.StorePath); err != nil {
			return nil, err
		}
		bus := events.NewLocalBus()
		ctx, cancel := context.WithCancel(ctx)
		ready := make(chan struct{})
		done := make(chan error, 1)
		go func() {
			done <- events.NewFileWatcher(cfg.StorePath, bus, log).Run(ctx, ready)
		}()
		select {
		case <-ready:
		case err := <-done:
			cancel()
			return nil, fmt.Errorf("error watching %s: %w", cfg.StorePath, err)
		}
		return &storage{
			store: kv.NewFileStore(cfg.StorePath),
			bus:   bus,
			closers: []func() error{func() error {
				cancel()
				return <-done
			}},
		}, nil

	case config.StoreRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("error connecting to redis at %s: %w", cfg.RedisAddr, err)
		}
		bus := events.NewRedisBus(rdb, "", log)
		if err := bus.Start(ctx); err != nil {
			_ = rdb.Close()
			return nil, err
		}
		return &storage{
			store:   kv.NewRedisStore(rdb, ""),
			bus:     bus,
			closers: []func() error{rdb.Close, bus.Close},
		}, nil

	case config.StoreMemory:
		return &storage{store: kv.NewMemoryStore(), bus: events.NewLocalBus()}, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}
