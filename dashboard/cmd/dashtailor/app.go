package main

import (
	"context"
	"fmt"
	"io"

	"github.com/bryantinsley/dashtailor/dashboard/pkg/config"
	"github.com/bryantinsley/dashtailor/dashboard/pkg/layout"
	"github.com/bryantinsley/dashtailor/dashboard/pkg/logging"
	"github.com/bryantinsley/dashtailor/dashboard/pkg/notify"
	"github.com/bryantinsley/dashtailor/dashboard/pkg/remote"
	"github.com/bryantinsley/dashtailor/dashboard/pkg/session"
	"github.com/bryantinsley/dashtailor/dashboard/pkg/store"
	"go.uber.org/zap"
)

// app holds everything a command needs, built from the loaded config.
type app struct {
	cfg       *config.Config
	log       *zap.Logger
	store     *store.LayoutStore
	notifier  *notify.Notifier
	assistant session.Assistant

	watch    *notify.WatchBus
	closers  []func()
	kvCloser io.Closer
}

// newApp loads config and opens storage. With watch set and a file backend,
// layout changes written by other processes are delivered to listeners.
func newApp(ctx context.Context, watch bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if storageFlag != "" {
		cfg.Storage.Backend = storageFlag
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	log, closeLog, err := logging.New(logging.Options{
		LogsDir: cfg.LogsDir(),
		Level:   cfg.Log.Level,
		Console: verbose,
	})
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	a := &app{cfg: cfg, log: log, closers: []func(){closeLog}}

	kv, kvCloser, err := store.Open(cfg)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("open storage: %w", err)
	}
	a.kvCloser = kvCloser
	a.store = store.NewLayoutStore(kv, log)
	if err := a.store.InitializeDefaults(ctx); err != nil {
		a.close()
		return nil, fmt.Errorf("initialize layouts: %w", err)
	}

	var bus notify.Bus = notify.NewStoreBus(kv)
	if fkv, ok := kv.(*store.FileKV); ok {
		wb, err := notify.NewWatchBus(fkv, cfg.Notify.Debounce.Duration(), log)
		if err != nil {
			a.close()
			return nil, err
		}
		a.watch = wb
		bus = wb
		if watch {
			if err := wb.Start(ctx); err != nil {
				a.close()
				return nil, err
			}
		}
	}
	a.notifier = notify.NewNotifier(bus, log)

	if cfg.Assistant.URL != "" {
		a.assistant = remote.NewClient(cfg.Assistant.URL, cfg.Assistant.Timeout.Duration(), log)
	}

	log.Debug("app ready",
		zap.String("dir", cfg.Dir),
		zap.String("storage", cfg.Storage.Backend),
		zap.String("assistant", cfg.Assistant.URL))
	return a, nil
}

func (a *app) session(p string) (*session.Session, error) {
	profile, err := layout.ParseProfile(p)
	if err != nil {
		return nil, err
	}
	return session.New(session.Options{
		Profile:   profile,
		Store:     a.store,
		Notifier:  a.notifier,
		Assistant: a.assistant,
		Logger:    a.log,
	}), nil
}

func (a *app) close() {
	if a.watch != nil {
		a.watch.Stop()
	}
	if a.kvCloser != nil {
		if err := a.kvCloser.Close(); err != nil {
			a.log.Warn("closing storage", zap.Error(err))
		}
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
