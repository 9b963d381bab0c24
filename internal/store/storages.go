package store

import (
	"context"

	"github.com/uasys/targetcache/internal/config"
	"github.com/uasys/targetcache/internal/logger"
)

// NewStore selects and constructs the persistence backend from the
// storage configuration: the SQLite repository when a DSN is set, the
// directory store otherwise. Config validation guarantees exactly one
// of the two is configured.
func NewStore(ctx context.Context, storageCfg config.Storage, log *logger.Logger) (Store, error) {
	if storageCfg.DSN != "" {
		return NewSQLiteRepository(ctx, storageCfg, log)
	}
	return NewDirStore(storageCfg, log)
}
