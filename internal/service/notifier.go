// SPDX-License-Identifier: Apache-2.0

package service

import (
	"sync"

	"github.com/uasys/targetcache/internal/logger"
	"github.com/uasys/targetcache/models"
)

// Notifier fans events out to subscribers over buffered channels.
//
// Publish never blocks the poll loop. When a subscriber's queue is full
// the queue is drained and a single reload_all is enqueued in its place,
// telling that subscriber its view is no longer contiguous and must be
// rebuilt from the store.
type Notifier struct {
	logger *logger.Logger
	buffer int

	mu     sync.Mutex
	nextID uint64
	subs   map[uint64]chan models.Event
	closed bool
}

// NewNotifier constructs a Notifier whose subscriber queues hold buffer
// events each.
func NewNotifier(buffer int, log *logger.Logger) *Notifier {
	return &Notifier{
		logger: log,
		buffer: buffer,
		subs:   make(map[uint64]chan models.Event),
	}
}

// Subscribe registers a new subscriber and returns its event channel
// together with a cancel function. Cancel is idempotent and closes the
// channel. Subscribing to a closed notifier returns a closed channel.
func (n *Notifier) Subscribe() (<-chan models.Event, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	ch := make(chan models.Event, n.buffer)
	if n.closed {
		close(ch)
		return ch, func() {}
	}

	id := n.nextID
	n.nextID++
	n.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			if _, ok := n.subs[id]; ok {
				delete(n.subs, id)
				close(ch)
			}
		})
	}
	return ch, cancel
}

// Publish delivers event to every subscriber without blocking.
func (n *Notifier) Publish(event models.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return
	}

	for id, ch := range n.subs {
		select {
		case ch <- event:
			continue
		default:
		}

		// Queue overflow. Drop everything queued for this subscriber
		// and replace it with a reload_all marker.
		n.logger.Warn().
			Uint64("subscriber", id).
			Str("event", string(event.Type)).
			Msg("subscriber queue overflow, replacing backlog with reload_all")
	drain:
		for {
			select {
			case <-ch:
			default:
				break drain
			}
		}
		select {
		case ch <- models.ReloadAllEvent():
		default:
		}
	}
}

// Close closes every subscriber channel and rejects further publishes.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.closed {
		return
	}
	n.closed = true
	for id, ch := range n.subs {
		delete(n.subs, id)
		close(ch)
	}
}
