// SPDX-License-Identifier: Apache-2.0

// Package store provides the durable persistence layer that backs the
// in-memory cache index across restarts.
//
// Two backends implement [Store]: a directory layout with one
// sub-directory per target ID ([NewDirStore], the default) and a SQLite
// database ([NewSQLiteRepository]). The backend is selected from the
// storage configuration by [NewStore].
//
// Both backends share the write-ordering contract the sync engine relies
// on: a mutation is durable before the corresponding notification is
// emitted, so the store may lag the notification stream but never lead
// it.
package store

import (
	"context"

	"github.com/uasys/targetcache/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// Store is the durable mirror of the cache index, keyed by target ID.
type Store interface {
	// LoadAll returns every persisted entry, keyed by target ID. Used
	// once at startup to rehydrate the cache index. Thumbnail bytes are
	// not loaded; only the descriptor is.
	LoadAll(ctx context.Context) (map[uint64]models.Entry, error)

	// SaveTarget upserts the metadata record for target.ID, preserving
	// any stored thumbnail.
	SaveTarget(ctx context.Context, target models.Target) error

	// SaveImage stores thumbnail bytes for id under the given revision
	// mark, replacing any previous thumbnail regardless of format.
	// Returns [ErrNotFound] if no entry exists for id.
	SaveImage(ctx context.Context, id uint64, img models.Image, mark string) error

	// DeleteImage removes the stored thumbnail for id, if any. Removing
	// an absent thumbnail is not an error.
	DeleteImage(ctx context.Context, id uint64) error

	// Delete removes the entry for id entirely, including thumbnail
	// bytes. Deleting an absent entry is not an error.
	Delete(ctx context.Context, id uint64) error

	// Clear removes every entry. Used on clear_all and forced resyncs.
	Clear(ctx context.Context) error
}
