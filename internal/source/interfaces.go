// SPDX-License-Identifier: Apache-2.0

// Package source provides the catalog-source abstraction for targetcache.
//
// The primary abstraction is [Source], which decouples the sync engine
// from where snapshots and thumbnails come from. The package ships two
// implementations selected at startup: an HTTP/REST one backed by the
// interop server ([NewRemoteSource]) and a static directory one for
// offline operation ([NewOfflineSource]).
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for source-agnostic
// error handling ([ErrImageNotFound] for a missing thumbnail,
// [ErrUnavailable] for everything retryable).
package source

import (
	"context"

	"github.com/uasys/targetcache/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/source_mock.go -package=mock

// Source produces complete catalog snapshots and, on demand, the
// thumbnail bytes for a given target ID. Implementations perform no
// cache mutation; their only side effect is the network or filesystem
// read itself.
type Source interface {
	// FetchSnapshot returns the complete set of targets currently known
	// to the source. All failures are reported as [ErrUnavailable]
	// (wrapped); the engine treats them uniformly as retryable.
	FetchSnapshot(ctx context.Context) (models.Snapshot, error)

	// FetchImage returns the thumbnail bytes and format for the given
	// target ID. Returns [ErrImageNotFound] (wrapped) when the source has
	// no thumbnail for the target, and [ErrUnavailable] (wrapped) for
	// retryable failures.
	FetchImage(ctx context.Context, id uint64) (models.Image, error)

	// FetchServerInfo returns the server greeting block. Offline sources
	// return a static stub. Informational only; never consulted by the
	// sync loop.
	FetchServerInfo(ctx context.Context) (models.ServerInfo, error)
}
