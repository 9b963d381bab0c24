// SPDX-License-Identifier: Apache-2.0

// Package client assembles the targetcache daemon: it selects the
// catalog source and the persistence backend from configuration, wires
// the sync engine together, and runs it until shutdown.
package client

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/uasys/targetcache/internal/cache"
	"github.com/uasys/targetcache/internal/config"
	"github.com/uasys/targetcache/internal/logger"
	"github.com/uasys/targetcache/internal/service"
	"github.com/uasys/targetcache/internal/source"
	"github.com/uasys/targetcache/internal/store"
	"github.com/uasys/targetcache/models"
)

// shutdownGrace bounds how long Run waits for in-flight work after a
// termination signal.
const shutdownGrace = 10 * time.Second

// App is the assembled daemon.
type App struct {
	cfg       *config.StructuredConfig
	logger    *logger.Logger
	source    source.Source
	store     store.Store
	index     *cache.Index
	notifier  *service.Notifier
	mirror    *service.Mirror
	scheduler *service.Scheduler
}

// NewApp constructs every component from cfg. The persistence backend
// is opened but the index is not rehydrated yet; that happens in Run.
func NewApp(ctx context.Context, cfg *config.StructuredConfig, log *logger.Logger) (*App, error) {
	st, err := store.NewStore(ctx, cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("create store: %w", err)
	}

	var src source.Source
	if cfg.Source.Offline {
		src, err = source.NewOfflineSource(cfg.Source, log)
	} else {
		src, err = source.NewRemoteSource(cfg.Source, log)
	}
	if err != nil {
		return nil, fmt.Errorf("create source: %w", err)
	}

	index := cache.NewIndex()
	notifier := service.NewNotifier(cfg.Poller.SubscriberBuffer, log)
	mirror := service.NewMirror(src, st, index, notifier, cfg.Poller, log)
	scheduler := service.NewScheduler(mirror, cfg.Poller, log)

	return &App{
		cfg:       cfg,
		logger:    log,
		source:    src,
		store:     st,
		index:     index,
		notifier:  notifier,
		mirror:    mirror,
		scheduler: scheduler,
	}, nil
}

// Subscribe registers a consumer on the notification stream.
func (a *App) Subscribe() (<-chan models.Event, func()) {
	return a.notifier.Subscribe()
}

// Run rehydrates the index from the store, starts the poll loop, and
// blocks until ctx is cancelled or a termination signal arrives. On
// shutdown the scheduler is stopped and subscriber channels are closed.
func (a *App) Run(ctx context.Context) error {
	if err := a.index.Rehydrate(ctx, a.store); err != nil {
		return fmt.Errorf("rehydrate index: %w", err)
	}
	a.logger.Info().Int("targets", a.index.Len()).Msg("index rehydrated")

	a.greetSource(ctx)
	a.logSubscription()

	runCtx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a.scheduler.Start(runCtx)
	<-runCtx.Done()
	a.logger.Info().Msg("shutting down")

	done := make(chan struct{})
	go func() {
		a.scheduler.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(shutdownGrace):
		a.logger.Error().Dur("grace", shutdownGrace).Msg("shutdown grace period exceeded")
	}

	a.notifier.Close()
	return nil
}

// greetSource fetches and logs the source greeting block. Failures are
// logged and ignored; the greeting is informational only.
func (a *App) greetSource(ctx context.Context) {
	info, err := a.source.FetchServerInfo(ctx)
	if err != nil {
		a.logger.Warn().Err(err).Msg("fetch server info")
		return
	}
	a.logger.Info().
		Str("message", info.Message).
		Time("server_time", info.ServerTime).
		Msg("connected to catalog source")
}

// logSubscription attaches a debug subscriber that mirrors the event
// stream into the log, giving operators visibility without an external
// consumer.
func (a *App) logSubscription() {
	events, _ := a.notifier.Subscribe()
	go func() {
		for event := range events {
			a.logger.Debug().
				Str("event", string(event.Type)).
				Uint64("id", event.ID).
				Msg("event emitted")
		}
	}()
}
