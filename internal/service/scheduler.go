// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/uasys/targetcache/internal/config"
	"github.com/uasys/targetcache/internal/logger"
)

// Scheduler drives the Syncer on a fixed period, stretching the interval
// with capped exponential backoff while the source is unavailable. After
// StalenessThreshold consecutive failures it clears the cache exactly
// once; a successful poll resets both the failure count and the backoff.
type Scheduler struct {
	syncer Syncer
	cfg    config.Poller
	logger *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates a Scheduler that is idle until Start is called.
func NewScheduler(syncer Syncer, cfg config.Poller, log *logger.Logger) *Scheduler {
	return &Scheduler{syncer: syncer, cfg: cfg, logger: log}
}

// Start stops any previously running loop, then launches a background
// goroutine that polls immediately and thereafter every period. The
// goroutine exits when ctx is cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) {
	s.Stop()

	s.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		s.run(jobCtx)
	}()
}

func (s *Scheduler) run(ctx context.Context) {
	backoff := s.newBackoff()
	failures := 0

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		err := s.syncer.Poll(ctx)
		if ctx.Err() != nil {
			return
		}

		delay := s.cfg.Period
		if err != nil {
			failures++
			s.logger.Error().Err(err).
				Int("consecutive_failures", failures).
				Msg("poll cycle failed")

			if failures == s.cfg.StalenessThreshold {
				s.logger.Warn().
					Int("threshold", s.cfg.StalenessThreshold).
					Msg("cache considered stale, clearing")
				if err := s.syncer.ClearAll(ctx); err != nil {
					s.logger.Error().Err(err).Msg("clear stale cache")
				}
			}

			delay, _ = backoff.Next()
		} else {
			if failures > 0 {
				s.logger.Info().Msg("source recovered, resuming normal period")
				backoff = s.newBackoff()
			}
			failures = 0
		}

		timer.Reset(delay)
	}
}

func (s *Scheduler) newBackoff() retry.Backoff {
	return retry.WithCappedDuration(s.cfg.BackoffCap, retry.NewExponential(s.cfg.Period))
}

// Stop cancels the loop and blocks until the goroutine has exited. Safe
// to call when the scheduler is not running.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
}
