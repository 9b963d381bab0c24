// SPDX-License-Identifier: Apache-2.0

package config

// Thumbnail refetch policies accepted by Poller.RefetchPolicy.
const (
	// RefetchAlways refetches the thumbnail on every metadata update.
	RefetchAlways = "always"

	// RefetchOnChange refetches only when the server-side image mark
	// differs from the cached one. Falls back to no refetch when the
	// server does not report marks.
	RefetchOnChange = "on-change"

	// RefetchNever never refetches on metadata updates; thumbnails are
	// fetched once when the target is first added.
	RefetchNever = "never"
)

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or a sentinel error from
// errors.go otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.Source.Offline {
		if cfg.Source.OfflineRoot == "" {
			return ErrInvalidSourceConfigs
		}
	} else if cfg.Source.BaseURL == "" || cfg.Source.RequestTimeout <= 0 {
		return ErrInvalidSourceConfigs
	}

	if (cfg.Storage.Root == "") == (cfg.Storage.DSN == "") {
		return ErrInvalidStorageConfigs
	}

	if cfg.Poller.Period <= 0 || cfg.Poller.StalenessThreshold <= 0 {
		return ErrInvalidPollerConfigs
	}
	if cfg.Poller.BackoffCap < cfg.Poller.Period {
		return ErrInvalidPollerConfigs
	}
	if cfg.Poller.ImageConcurrency <= 0 || cfg.Poller.SubscriberBuffer <= 0 {
		return ErrInvalidPollerConfigs
	}

	switch cfg.Poller.RefetchPolicy {
	case RefetchAlways, RefetchOnChange, RefetchNever:
	default:
		return ErrInvalidPollerConfigs
	}

	return nil
}
