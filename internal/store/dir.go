package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/uasys/targetcache/internal/config"
	"github.com/uasys/targetcache/internal/logger"
	"github.com/uasys/targetcache/models"
)

const (
	entryFileName   = "target.json"
	rawImageName    = "thumbnail.png"
	jpegImageName   = "thumbnail.jpg"
	entryFileMode   = 0o600
	entryDirMode    = 0o755
	tempFilePattern = ".tmp-*"
)

type dirStore struct {
	root string

	logger *logger.Logger
}

// NewDirStore constructs the directory-backed [Store]. Each target
// occupies one sub-directory of the configured root:
//
//	<root>/<id>/target.json    metadata record + thumbnail descriptor
//	<root>/<id>/thumbnail.png  raw thumbnail bytes (when present)
//	<root>/<id>/thumbnail.jpg  compressed thumbnail bytes (when present)
//
// All writes go through a temp file and rename so a crash mid-write
// never leaves a torn entry behind.
func NewDirStore(storageCfg config.Storage, logger *logger.Logger) (Store, error) {
	if err := os.MkdirAll(storageCfg.Root, entryDirMode); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}

	return &dirStore{root: storageCfg.Root, logger: logger}, nil
}

// LoadAll implements [Store]. Sub-directories with unreadable or
// malformed entry files are skipped with a warning rather than failing
// the whole rehydration: one corrupt entry must not take down the cache.
func (d *dirStore) LoadAll(ctx context.Context) (map[uint64]models.Entry, error) {
	dirs, err := os.ReadDir(d.root)
	if err != nil {
		return nil, fmt.Errorf("read storage root: %w", err)
	}

	entries := make(map[uint64]models.Entry, len(dirs))
	for _, dir := range dirs {
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		if !dir.IsDir() {
			continue
		}

		id, parseErr := strconv.ParseUint(dir.Name(), 10, 64)
		if parseErr != nil || id == 0 {
			continue
		}

		entry, loadErr := d.loadEntry(id)
		if loadErr != nil {
			d.logger.Warn().Err(loadErr).Uint64("id", id).Msg("skipping unreadable cache entry")
			continue
		}

		entries[id] = entry
	}

	return entries, nil
}

// SaveTarget implements [Store].
func (d *dirStore) SaveTarget(ctx context.Context, target models.Target) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entry, err := d.loadEntry(target.ID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}

	entry.Target = target
	return d.writeEntry(target.ID, entry)
}

// SaveImage implements [Store]. The bytes file matching the new format
// is written first, then the descriptor, then the stale bytes file of
// the other format is removed.
func (d *dirStore) SaveImage(ctx context.Context, id uint64, img models.Image, mark string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entry, err := d.loadEntry(id)
	if err != nil {
		return err
	}

	name, stale := rawImageName, jpegImageName
	if img.Format == models.FormatCompressed {
		name, stale = jpegImageName, rawImageName
	}

	if err = d.writeFile(filepath.Join(d.entryDir(id), name), img.Bytes); err != nil {
		return fmt.Errorf("write thumbnail %d: %w", id, err)
	}

	entry.Thumbnail = models.Thumbnail{Format: img.Format, Mark: mark}
	if err = d.writeEntry(id, entry); err != nil {
		return err
	}

	if err = os.Remove(filepath.Join(d.entryDir(id), stale)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove stale thumbnail %d: %w", id, err)
	}

	return nil
}

// DeleteImage implements [Store].
func (d *dirStore) DeleteImage(ctx context.Context, id uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entry, err := d.loadEntry(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}

	entry.Thumbnail = models.Thumbnail{}
	if err = d.writeEntry(id, entry); err != nil {
		return err
	}

	for _, name := range []string{rawImageName, jpegImageName} {
		if err = os.Remove(filepath.Join(d.entryDir(id), name)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove thumbnail %d: %w", id, err)
		}
	}

	return nil
}

// Delete implements [Store].
func (d *dirStore) Delete(ctx context.Context, id uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.RemoveAll(d.entryDir(id)); err != nil {
		return fmt.Errorf("delete entry %d: %w", id, err)
	}
	return nil
}

// Clear implements [Store].
func (d *dirStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.RemoveAll(d.root); err != nil {
		return fmt.Errorf("clear storage root: %w", err)
	}
	if err := os.MkdirAll(d.root, entryDirMode); err != nil {
		return fmt.Errorf("recreate storage root: %w", err)
	}
	return nil
}

func (d *dirStore) entryDir(id uint64) string {
	return filepath.Join(d.root, strconv.FormatUint(id, 10))
}

func (d *dirStore) loadEntry(id uint64) (models.Entry, error) {
	data, err := os.ReadFile(filepath.Join(d.entryDir(id), entryFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return models.Entry{}, fmt.Errorf("entry %d: %w", id, ErrNotFound)
		}
		return models.Entry{}, fmt.Errorf("read entry %d: %w", id, err)
	}

	var entry models.Entry
	if err = json.Unmarshal(data, &entry); err != nil {
		return models.Entry{}, fmt.Errorf("decode entry %d: %w", id, err)
	}

	return entry, nil
}

func (d *dirStore) writeEntry(id uint64, entry models.Entry) error {
	payload, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("encode entry %d: %w", id, err)
	}

	if err = os.MkdirAll(d.entryDir(id), entryDirMode); err != nil {
		return fmt.Errorf("create entry dir %d: %w", id, err)
	}

	if err = d.writeFile(filepath.Join(d.entryDir(id), entryFileName), payload); err != nil {
		return fmt.Errorf("write entry %d: %w", id, err)
	}
	return nil
}

// writeFile writes data to path atomically via a temp file and rename.
func (d *dirStore) writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), tempFilePattern)
	if err != nil {
		return err
	}

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err = tmp.Chmod(entryFileMode); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err = tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), path)
}
