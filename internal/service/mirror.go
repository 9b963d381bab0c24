// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"fmt"

	"github.com/uasys/targetcache/internal/cache"
	"github.com/uasys/targetcache/internal/config"
	"github.com/uasys/targetcache/internal/logger"
	"github.com/uasys/targetcache/internal/source"
	"github.com/uasys/targetcache/internal/store"
	"github.com/uasys/targetcache/models"
)

// Mirror keeps the cache index, the persistence store, and the
// notification stream in lockstep with the catalog source.
//
// Mirror is not safe for concurrent use: Poll, ClearAll, and ForceResync
// must all be called from the goroutine that owns the index. In
// production that goroutine is the scheduler loop.
type Mirror struct {
	source   source.Source
	store    store.Store
	index    *cache.Index
	notifier *Notifier
	cfg      config.Poller
	logger   *logger.Logger
}

// NewMirror wires the sync engine together.
func NewMirror(src source.Source, st store.Store, idx *cache.Index, n *Notifier, cfg config.Poller, log *logger.Logger) *Mirror {
	return &Mirror{
		source:   src,
		store:    st,
		index:    idx,
		notifier: n,
		cfg:      cfg,
		logger:   log,
	}
}

// Poll runs one synchronization cycle: fetch a snapshot, diff it against
// the index, persist and announce every change, then propagate thumbnail
// bytes for the targets that need them.
//
// Only a failed snapshot fetch is reported to the caller. A persistence
// failure for one target skips that target and leaves index and store
// untouched for it, so the next cycle retries; a thumbnail failure never
// disturbs the metadata already committed.
func (m *Mirror) Poll(ctx context.Context) error {
	snapshot, err := m.source.FetchSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("fetch snapshot: %w", err)
	}

	// An empty index facing a populated catalog means subscribers have
	// no usable baseline: after a cold start with an empty store, or
	// after a forced resync. Everything below arrives as added events.
	if m.index.Len() == 0 && len(snapshot) > 0 {
		m.logger.Info().Int("targets", len(snapshot)).Msg("empty index, announcing full reload")
		m.notifier.Publish(models.ReloadAllEvent())
	}

	changes := BuildChangeSet(m.index.Targets(), snapshot)
	if len(changes) == 0 {
		return nil
	}
	m.logger.Debug().Int("changes", len(changes)).Msg("applying change set")

	candidates := make([]imageCandidate, 0, len(changes))
	for _, change := range changes {
		switch change.Op {
		case models.ChangeDeleted:
			entry, _ := m.index.Get(change.ID)
			if err := m.store.Delete(ctx, change.ID); err != nil {
				m.logger.Error().Err(err).Uint64("id", change.ID).Msg("delete target")
				continue
			}
			m.index.Delete(change.ID)
			if entry.Thumbnail.Present() {
				m.notifier.Publish(models.DeletedImageEvent(change.ID))
			}
			m.notifier.Publish(models.DeletedEvent(change.ID))

		case models.ChangeAdded:
			if err := m.store.SaveTarget(ctx, change.Target); err != nil {
				m.logger.Error().Err(err).Uint64("id", change.ID).Msg("save target")
				continue
			}
			m.index.PutTarget(change.Target)
			m.notifier.Publish(models.AddedEvent(change.Target))
			candidates = append(candidates, imageCandidate{target: change.Target})

		case models.ChangeUpdated:
			previous, _ := m.index.Get(change.ID)
			if err := m.store.SaveTarget(ctx, change.Target); err != nil {
				m.logger.Error().Err(err).Uint64("id", change.ID).Msg("save target")
				continue
			}
			m.index.PutTarget(change.Target)
			m.notifier.Publish(models.UpdatedEvent(change.Target))
			if m.shouldRefetch(previous.Thumbnail, change.Target) {
				candidates = append(candidates, imageCandidate{
					target:       change.Target,
					hadThumbnail: previous.Thumbnail.Present(),
				})
			}
		}
	}

	m.propagateImages(ctx, candidates)
	return nil
}

// shouldRefetch decides whether an updated target's thumbnail must be
// fetched again. Added targets always fetch; this applies to updates
// only.
func (m *Mirror) shouldRefetch(cached models.Thumbnail, target models.Target) bool {
	switch m.cfg.RefetchPolicy {
	case config.RefetchNever:
		return false
	case config.RefetchOnChange:
		return !cached.Present() || cached.Mark != target.ImageMark
	default:
		return true
	}
}

// ClearAll wipes the store and the index and tells subscribers to drop
// all cached state. The store is cleared first so that a crash between
// the two steps leaves the durable side already empty.
func (m *Mirror) ClearAll(ctx context.Context) error {
	if err := m.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear store: %w", err)
	}
	m.index.Clear()
	m.notifier.Publish(models.ClearAllEvent())
	return nil
}

// ForceResync silently discards all cached state without notifying
// subscribers. The next poll finds an empty index, announces reload_all,
// and replays the whole catalog as added events.
func (m *Mirror) ForceResync(ctx context.Context) error {
	if err := m.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear store: %w", err)
	}
	m.index.Clear()
	m.logger.Info().Msg("forced resync, cache discarded")
	return nil
}
