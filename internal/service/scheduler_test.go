// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uasys/targetcache/internal/config"
	"github.com/uasys/targetcache/internal/logger"
)

// stubSyncer is a hand-rolled Syncer double that counts calls and lets
// tests flip the poll outcome mid-run.
type stubSyncer struct {
	mu        sync.Mutex
	pollErr   error
	polls     int
	clearAlls int
}

func (s *stubSyncer) Poll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.polls++
	return s.pollErr
}

func (s *stubSyncer) ClearAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearAlls++
	return nil
}

func (s *stubSyncer) setPollErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pollErr = err
}

func (s *stubSyncer) counts() (polls, clearAlls int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.polls, s.clearAlls
}

func fastPollerConfig() config.Poller {
	return config.Poller{
		Period:             time.Millisecond,
		StalenessThreshold: 3,
		BackoffCap:         2 * time.Millisecond,
		ImageConcurrency:   1,
		RefetchPolicy:      config.RefetchAlways,
		SubscriberBuffer:   8,
	}
}

func TestScheduler_PollsImmediatelyAndPeriodically(t *testing.T) {
	syncer := &stubSyncer{}
	s := NewScheduler(syncer, fastPollerConfig(), logger.Nop())

	s.Start(context.Background())
	defer s.Stop()

	require.Eventually(t, func() bool {
		polls, _ := syncer.counts()
		return polls >= 3
	}, 2*time.Second, time.Millisecond)

	_, clearAlls := syncer.counts()
	assert.Zero(t, clearAlls)
}

func TestScheduler_StopHaltsPolling(t *testing.T) {
	syncer := &stubSyncer{}
	s := NewScheduler(syncer, fastPollerConfig(), logger.Nop())

	s.Start(context.Background())
	require.Eventually(t, func() bool {
		polls, _ := syncer.counts()
		return polls >= 1
	}, 2*time.Second, time.Millisecond)

	s.Stop()
	polls, _ := syncer.counts()
	time.Sleep(20 * time.Millisecond)
	after, _ := syncer.counts()
	assert.Equal(t, polls, after)

	s.Stop() // safe when already stopped
}

func TestScheduler_StalenessClearsExactlyOnce(t *testing.T) {
	syncer := &stubSyncer{pollErr: assert.AnError}
	s := NewScheduler(syncer, fastPollerConfig(), logger.Nop())

	s.Start(context.Background())
	defer s.Stop()

	require.Eventually(t, func() bool {
		_, clearAlls := syncer.counts()
		return clearAlls == 1
	}, 2*time.Second, time.Millisecond)

	// Failures keep accruing past the threshold without further clears.
	require.Eventually(t, func() bool {
		polls, _ := syncer.counts()
		return polls >= 10
	}, 2*time.Second, time.Millisecond)

	_, clearAlls := syncer.counts()
	assert.Equal(t, 1, clearAlls)
}

func TestScheduler_RecoveryResetsFailureCount(t *testing.T) {
	syncer := &stubSyncer{pollErr: assert.AnError}
	s := NewScheduler(syncer, fastPollerConfig(), logger.Nop())

	s.Start(context.Background())
	defer s.Stop()

	// First outage clears once.
	require.Eventually(t, func() bool {
		_, clearAlls := syncer.counts()
		return clearAlls == 1
	}, 2*time.Second, time.Millisecond)

	// Recovery, then a second outage clears again from a clean count.
	syncer.setPollErr(nil)
	polls, _ := syncer.counts()
	require.Eventually(t, func() bool {
		after, _ := syncer.counts()
		return after > polls+1
	}, 2*time.Second, time.Millisecond)

	syncer.setPollErr(assert.AnError)
	require.Eventually(t, func() bool {
		_, clearAlls := syncer.counts()
		return clearAlls == 2
	}, 2*time.Second, time.Millisecond)
}

func TestScheduler_ContextCancellationStopsLoop(t *testing.T) {
	syncer := &stubSyncer{}
	s := NewScheduler(syncer, fastPollerConfig(), logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)

	require.Eventually(t, func() bool {
		polls, _ := syncer.counts()
		return polls >= 1
	}, 2*time.Second, time.Millisecond)

	cancel()
	time.Sleep(20 * time.Millisecond)
	polls, _ := syncer.counts()
	time.Sleep(20 * time.Millisecond)
	after, _ := syncer.counts()
	assert.Equal(t, polls, after)

	s.Stop()
}
