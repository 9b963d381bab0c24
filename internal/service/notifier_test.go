// SPDX-License-Identifier: Apache-2.0

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uasys/targetcache/internal/logger"
	"github.com/uasys/targetcache/models"
)

func TestNotifier_DeliversInOrder(t *testing.T) {
	n := NewNotifier(8, logger.Nop())
	events, cancel := n.Subscribe()
	defer cancel()

	n.Publish(models.AddedEvent(models.Target{ID: 1}))
	n.Publish(models.UpdatedEvent(models.Target{ID: 1}))
	n.Publish(models.DeletedEvent(1))

	assert.Equal(t, models.EventAddedTarget, (<-events).Type)
	assert.Equal(t, models.EventUpdatedTarget, (<-events).Type)
	assert.Equal(t, models.EventDeletedTarget, (<-events).Type)
}

func TestNotifier_IndependentSubscribers(t *testing.T) {
	n := NewNotifier(8, logger.Nop())
	first, cancelFirst := n.Subscribe()
	second, cancelSecond := n.Subscribe()
	defer cancelSecond()

	n.Publish(models.DeletedEvent(1))
	assert.Equal(t, uint64(1), (<-first).ID)
	assert.Equal(t, uint64(1), (<-second).ID)

	cancelFirst()
	n.Publish(models.DeletedEvent(2))

	_, open := <-first
	assert.False(t, open)
	assert.Equal(t, uint64(2), (<-second).ID)
}

func TestNotifier_CancelIsIdempotent(t *testing.T) {
	n := NewNotifier(1, logger.Nop())
	_, cancel := n.Subscribe()

	cancel()
	cancel() // must not panic or close twice
}

func TestNotifier_OverflowReplacesBacklogWithReloadAll(t *testing.T) {
	n := NewNotifier(2, logger.Nop())
	events, cancel := n.Subscribe()
	defer cancel()

	// Nobody reads; the third publish overflows the queue.
	n.Publish(models.AddedEvent(models.Target{ID: 1}))
	n.Publish(models.AddedEvent(models.Target{ID: 2}))
	n.Publish(models.AddedEvent(models.Target{ID: 3}))

	ev := <-events
	assert.Equal(t, models.EventReloadAll, ev.Type)

	// The backlog was discarded along with the overflowing event.
	select {
	case ev := <-events:
		t.Fatalf("unexpected queued event: %v", ev.Type)
	default:
	}

	// Delivery resumes normally afterwards.
	n.Publish(models.DeletedEvent(4))
	assert.Equal(t, models.EventDeletedTarget, (<-events).Type)
}

func TestNotifier_Close(t *testing.T) {
	n := NewNotifier(4, logger.Nop())
	events, cancel := n.Subscribe()
	defer cancel()

	n.Publish(models.DeletedEvent(1))
	n.Close()
	n.Close() // idempotent
	n.Publish(models.DeletedEvent(2))

	// The event published before Close is still readable, then the
	// channel reports closed.
	ev, open := <-events
	require.True(t, open)
	assert.Equal(t, uint64(1), ev.ID)

	_, open = <-events
	assert.False(t, open)
}

func TestNotifier_SubscribeAfterClose(t *testing.T) {
	n := NewNotifier(4, logger.Nop())
	n.Close()

	events, cancel := n.Subscribe()
	defer cancel()

	_, open := <-events
	assert.False(t, open)
}
