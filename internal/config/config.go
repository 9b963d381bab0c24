// SPDX-License-Identifier: Apache-2.0

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for
// targetcache. It aggregates all sub-configurations and is populated by
// merging values from environment variables, command-line flags, and an
// optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Source holds settings for the catalog source: either the remote
	// interop endpoint or an offline directory snapshot.
	Source Source `envPrefix:"SOURCE_"`

	// Storage holds settings for the durable cache backend.
	Storage Storage `envPrefix:"STORAGE_"`

	// Poller holds poll-loop, backoff, and notification settings.
	Poller Poller `envPrefix:"POLLER_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged after env and flags.
	// Populated via the CONFIG environment variable or the -c / -config
	// flag.
	JSONFilePath string `env:"CONFIG"`
}

// Source configures where catalog snapshots and thumbnails come from.
type Source struct {
	// BaseURL is the interop server address used in online mode
	// (e.g. "http://interop.local:8000"). Ignored when Offline is set.
	// Env: SOURCE_BASE_URL
	BaseURL string `env:"BASE_URL"`

	// RequestTimeout bounds every outbound request (e.g. "10s").
	// Env: SOURCE_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// InsecureSkipVerify disables TLS certificate verification for the
	// remote source. Intended for competition networks with self-signed
	// certificates.
	// Env: SOURCE_INSECURE_SKIP_VERIFY
	InsecureSkipVerify bool `env:"INSECURE_SKIP_VERIFY"`

	// Offline switches the source to a static directory snapshot.
	// Env: SOURCE_OFFLINE
	Offline bool `env:"OFFLINE"`

	// OfflineRoot is the directory holding targets.json and thumbnail
	// files when Offline is set.
	// Env: SOURCE_OFFLINE_ROOT
	OfflineRoot string `env:"OFFLINE_ROOT"`

	// SuppressMoving drops moving targets from offline snapshots.
	// Env: SOURCE_SUPPRESS_MOVING
	SuppressMoving bool `env:"SUPPRESS_MOVING"`
}

// Storage configures the persistence store. Exactly one backend must be
// selected: a directory root (file-per-target layout) or a SQLite DSN.
type Storage struct {
	// Root is the directory under which one sub-directory per target ID
	// stores metadata and thumbnail bytes.
	// Env: STORAGE_ROOT
	Root string `env:"ROOT"`

	// DSN is the SQLite database path used instead of Root when set.
	// Env: STORAGE_DSN
	DSN string `env:"DSN"`
}

// Poller configures the synchronization loop.
type Poller struct {
	// Period is the base poll interval (e.g. "5s").
	// Env: POLLER_PERIOD
	Period time.Duration `env:"PERIOD"`

	// StalenessThreshold is the number of consecutive failed polls after
	// which the cache is treated as invalid and a clear_all is emitted.
	// Env: POLLER_STALENESS_THRESHOLD
	StalenessThreshold int `env:"STALENESS_THRESHOLD"`

	// BackoffCap limits the exponential backoff delay between retries
	// after failed polls.
	// Env: POLLER_BACKOFF_CAP
	BackoffCap time.Duration `env:"BACKOFF_CAP"`

	// ImageConcurrency bounds how many thumbnail fetches run in parallel
	// within one poll cycle.
	// Env: POLLER_IMAGE_CONCURRENCY
	ImageConcurrency int `env:"IMAGE_CONCURRENCY"`

	// RefetchPolicy decides when a metadata update triggers a thumbnail
	// refetch: "always", "on-change" (only when the server-side image
	// mark differs), or "never".
	// Env: POLLER_REFETCH_POLICY
	RefetchPolicy string `env:"REFETCH_POLICY"`

	// SubscriberBuffer is the per-subscriber notification queue size.
	// Env: POLLER_SUBSCRIBER_BUFFER
	SubscriberBuffer int `env:"SUBSCRIBER_BUFFER"`
}

// GetConfig loads, merges, and validates the application configuration
// from all available sources in the following priority order (first
// non-zero value wins):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}
