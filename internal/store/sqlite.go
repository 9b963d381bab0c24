package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/uasys/targetcache/internal/config"
	"github.com/uasys/targetcache/internal/logger"
	"github.com/uasys/targetcache/models"
)

type sqliteRepository struct {
	db *sql.DB

	logger *logger.Logger
}

// NewSQLiteRepository constructs the SQLite-backed [Store]. The database
// file is created when missing and the schema is applied at open. One
// row per target holds the JSON metadata payload, the thumbnail blob,
// its format tag, and the revision mark.
func NewSQLiteRepository(ctx context.Context, storageCfg config.Storage, log *logger.Logger) (Store, error) {
	if err := createLocalDBFileIfNotExists(storageCfg.DSN); err != nil {
		log.Err(err).Str("func", "NewSQLiteRepository").Msg("error creating database file")
		return nil, fmt.Errorf("error creating database file: %w", err)
	}

	conn, err := sql.Open("sqlite3", storageCfg.DSN)
	if err != nil {
		log.Err(err).Str("func", "NewSQLiteRepository").Msg("error connecting database")
		return nil, fmt.Errorf("error opening connection to DB: %w", err)
	}

	if err = conn.PingContext(ctx); err != nil {
		log.Err(err).Str("func", "NewSQLiteRepository").Msg("error connecting database (ping)")
		return nil, err
	}

	if _, err = conn.ExecContext(ctx, createTargetsTable); err != nil {
		log.Err(err).Str("func", "NewSQLiteRepository").Msg("error applying schema")
		return nil, fmt.Errorf("error applying schema: %w", err)
	}

	return &sqliteRepository{db: conn, logger: log}, nil
}

func createLocalDBFileIfNotExists(dbFile string) error {
	if _, err := os.Stat(dbFile); os.IsNotExist(err) {
		f, err := os.Create(dbFile)
		if err != nil {
			return fmt.Errorf("error creating DB file: %w", err)
		}
		f.Close()
	}

	return nil
}

// LoadAll implements [Store].
func (s *sqliteRepository) LoadAll(ctx context.Context) (map[uint64]models.Entry, error) {
	rows, err := s.db.QueryContext(ctx, loadAllEntries)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	entries := make(map[uint64]models.Entry)
	for rows.Next() {
		var (
			id      uint64
			payload []byte
			format  string
			mark    string
		)
		if err = rows.Scan(&id, &payload, &format, &mark); err != nil {
			return nil, fmt.Errorf("failed to scan entry row: %w", err)
		}

		var target models.Target
		if err = json.Unmarshal(payload, &target); err != nil {
			s.logger.Warn().Err(err).Uint64("id", id).Msg("skipping undecodable cache entry")
			continue
		}

		entries[id] = models.Entry{
			Target:    target,
			Thumbnail: models.Thumbnail{Format: models.ImageFormat(format), Mark: mark},
		}
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry rows: %w", err)
	}

	return entries, nil
}

// SaveTarget implements [Store].
func (s *sqliteRepository) SaveTarget(ctx context.Context, target models.Target) error {
	payload, err := json.Marshal(target)
	if err != nil {
		return fmt.Errorf("failed to encode target %d: %w", target.ID, err)
	}

	if _, err = s.db.ExecContext(ctx, upsertTarget, target.ID, payload); err != nil {
		return fmt.Errorf("failed to save target %d: %w", target.ID, err)
	}
	return nil
}

// SaveImage implements [Store].
func (s *sqliteRepository) SaveImage(ctx context.Context, id uint64, img models.Image, mark string) error {
	result, err := s.db.ExecContext(ctx, saveImage, img.Bytes, string(img.Format), mark, id)
	if err != nil {
		return fmt.Errorf("failed to save image %d: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for image %d: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("image %d: %w", id, ErrNotFound)
	}

	return nil
}

// DeleteImage implements [Store].
func (s *sqliteRepository) DeleteImage(ctx context.Context, id uint64) error {
	if _, err := s.db.ExecContext(ctx, deleteImage, id); err != nil {
		return fmt.Errorf("failed to delete image %d: %w", id, err)
	}
	return nil
}

// Delete implements [Store].
func (s *sqliteRepository) Delete(ctx context.Context, id uint64) error {
	if _, err := s.db.ExecContext(ctx, deleteTarget, id); err != nil {
		return fmt.Errorf("failed to delete entry %d: %w", id, err)
	}
	return nil
}

// Clear implements [Store].
func (s *sqliteRepository) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, clearTargets); err != nil {
		return fmt.Errorf("failed to clear entries: %w", err)
	}
	return nil
}
