// SPDX-License-Identifier: Apache-2.0

// Package cache holds the in-memory index of the mirrored catalog.
//
// The index is deliberately lock-free: all mutation is confined to the
// single poll loop that owns it, which is handed the index explicitly
// rather than reaching for shared global state. Tests construct their
// own index and inject it the same way.
package cache

import (
	"context"

	"github.com/uasys/targetcache/internal/store"
	"github.com/uasys/targetcache/models"
)

// Index maps target IDs to their last-known record and thumbnail state.
// It is the "previous" side of every diff and is kept in lockstep with
// the persistence store.
type Index struct {
	entries map[uint64]models.Entry
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{entries: make(map[uint64]models.Entry)}
}

// Rehydrate replaces the index content with everything persisted in s.
// Called once at startup, before the first poll, so that targets known
// from a prior run do not fire spurious added events.
func (i *Index) Rehydrate(ctx context.Context, s store.Store) error {
	entries, err := s.LoadAll(ctx)
	if err != nil {
		return err
	}

	i.entries = entries
	return nil
}

// Targets returns a snapshot copy of the indexed records for diffing.
func (i *Index) Targets() models.Snapshot {
	snapshot := make(models.Snapshot, len(i.entries))
	for id, entry := range i.entries {
		snapshot[id] = entry.Target
	}
	return snapshot
}

// Get returns the entry for id.
func (i *Index) Get(id uint64) (models.Entry, bool) {
	entry, ok := i.entries[id]
	return entry, ok
}

// PutTarget upserts the metadata record for target.ID, preserving the
// thumbnail state of an existing entry.
func (i *Index) PutTarget(target models.Target) {
	entry := i.entries[target.ID]
	entry.Target = target
	i.entries[target.ID] = entry
}

// SetThumbnail records the thumbnail state for id. No-op when the entry
// does not exist (the target was deleted mid-cycle).
func (i *Index) SetThumbnail(id uint64, thumbnail models.Thumbnail) {
	entry, ok := i.entries[id]
	if !ok {
		return
	}
	entry.Thumbnail = thumbnail
	i.entries[id] = entry
}

// Delete removes the entry for id.
func (i *Index) Delete(id uint64) {
	delete(i.entries, id)
}

// Clear removes every entry.
func (i *Index) Clear() {
	i.entries = make(map[uint64]models.Entry)
}

// Len returns the number of indexed targets.
func (i *Index) Len() int {
	return len(i.entries)
}
