package app

import (
	"context"
	"fmt"
	"time"

	"github.com/samvad-hq/oceanic/internal/config"
	"github.com/samvad-hq/oceanic/internal/logger"
	"github.com/samvad-hq/oceanic/internal/storage"
	"github.com/samvad-hq/oceanic/internal/watch"
	"github.com/samvad-hq/oceanic/pkg/httpclient"
	"github.com/samvad-hq/oceanic/pkg/publishers"
)

// Watcher represents the droplet watcher runtime. It runs the watch loop,
// owns the publishers and the seen-droplet store, and releases both on exit.
type Watcher struct {
	cfg      *config.Config
	fanout   *publishers.Fanout
	service  *watch.Service
	interval time.Duration
	log      logger.Logger
	store    storage.Store
}

// NewWatcher builds a watcher runtime from config. A nil transport selects
// the default resty client.
func NewWatcher(ctx context.Context, cfg *config.Config, log logger.Logger, transport httpclient.Client) (*Watcher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if cfg.WatchInterval <= 0 {
		return nil, fmt.Errorf("watch interval must be positive")
	}

	clients, err := NewClients(cfg, log, transport)
	if err != nil {
		return nil, err
	}

	fanout, err := LoadPublishers(ctx, cfg.PublishersFile, log)
	if err != nil {
		return nil, err
	}
	if fanout.Size() == 0 {
		return nil, fmt.Errorf("no publishers configured")
	}

	storeOpts := storage.Options{
		DropletTTL:      cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	}
	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storeOpts)
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"droplet_ttl_seconds":      int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	return &Watcher{
		cfg:      cfg,
		fanout:   fanout,
		service:  watch.NewService(clients.Droplets, fanout, log, store),
		interval: cfg.WatchInterval,
		log:      log,
		store:    store,
	}, nil
}

// Run starts the watch loop until the context is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if w == nil || w.service == nil {
		return fmt.Errorf("watcher is not initialized")
	}
	defer w.close()

	w.log.InfoObj("watcher loop starting", "watcher_state", map[string]any{
		"publishers_count": w.fanout.Size(),
		"watch_interval":   w.interval.String(),
	})

	if err := w.runOnce(ctx); err != nil {
		w.log.ErrorObj("initial watch pass failed", "error", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.InfoObj("watcher loop exiting", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			if err := w.runOnce(ctx); err != nil {
				w.log.ErrorObj("scheduled watch pass failed", "error", err)
			}
		}
	}
}

// runOnce performs a single watch pass.
func (w *Watcher) runOnce(ctx context.Context) error {
	start := time.Now()
	summary, err := w.service.Run(ctx)
	w.log.InfoObj("watch pass finished", "watch_meta", map[string]any{
		"listed":     summary.Listed,
		"discovered": summary.Discovered,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	return err
}

// close releases the store and publishers, logging any errors encountered.
func (w *Watcher) close() {
	if w.store != nil {
		if err := w.store.Close(); err != nil {
			w.log.ErrorObj("storage close failed", "error", err)
		}
	}
	if err := w.fanout.Close(); err != nil {
		w.log.ErrorObj("publishers close failed", "error", err)
	}
}
