// SPDX-License-Identifier: Apache-2.0

// Package service implements the synchronization engine: diffing fresh
// snapshots against the cache index, persisting the result, propagating
// thumbnails, and fanning typed events out to subscribers.
package service

import "context"

// Syncer is the surface the scheduler drives. Mirror is the production
// implementation.
type Syncer interface {
	// Poll runs one full synchronization cycle against the source.
	// Returns an error only when the snapshot fetch itself fails;
	// per-target persistence and thumbnail failures are logged and
	// isolated inside the cycle.
	Poll(ctx context.Context) error

	// ClearAll wipes the cache index and the persistence store and
	// notifies subscribers that all cached state is invalid.
	ClearAll(ctx context.Context) error
}
