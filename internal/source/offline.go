package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/uasys/targetcache/internal/config"
	"github.com/uasys/targetcache/internal/logger"
	"github.com/uasys/targetcache/models"
)

// snapshotFileName is the catalog file expected under the offline root.
const snapshotFileName = "targets.json"

type offlineSource struct {
	root           string
	suppressMoving bool

	logger *logger.Logger
}

// NewOfflineSource constructs a [Source] backed by a static directory
// tree: <root>/targets.json holds the catalog array, and thumbnails live
// next to it as <id>.png (raw) or <id>.jpg (compressed). The tree may be
// edited between polls; a target removed from targets.json shows up as a
// deletion in the next diff, never as an error.
//
// With sourceCfg.SuppressMoving set, records flagged as moving are
// dropped from every snapshot.
func NewOfflineSource(sourceCfg config.Source, logger *logger.Logger) (Source, error) {
	info, err := os.Stat(sourceCfg.OfflineRoot)
	if err != nil {
		return nil, fmt.Errorf("offline root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("offline root %s is not a directory", sourceCfg.OfflineRoot)
	}

	return &offlineSource{
		root:           sourceCfg.OfflineRoot,
		suppressMoving: sourceCfg.SuppressMoving,
		logger:         logger,
	}, nil
}

// FetchSnapshot implements [Source]. It reads <root>/targets.json and
// keys the records by ID. When a record carries no image mark but a
// thumbnail file exists, the file's modification time is used as the
// mark so that on-change refetching works offline too.
func (o *offlineSource) FetchSnapshot(ctx context.Context) (models.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(o.root, snapshotFileName))
	if err != nil {
		return nil, fmt.Errorf("read offline snapshot: %w: %v", ErrUnavailable, err)
	}

	var targets []models.Target
	if err = json.Unmarshal(data, &targets); err != nil {
		return nil, fmt.Errorf("decode offline snapshot: %w: %v", ErrUnavailable, err)
	}

	snapshot := make(models.Snapshot, len(targets))
	for _, t := range targets {
		if t.ID == 0 {
			o.logger.Warn().Msg("dropping offline record without id")
			continue
		}
		if o.suppressMoving && t.Moving {
			continue
		}
		if t.ImageMark == "" {
			if path, _, ok := o.imagePath(t.ID); ok {
				if info, statErr := os.Stat(path); statErr == nil {
					t.ImageMark = info.ModTime().UTC().Format(time.RFC3339Nano)
				}
			}
		}
		snapshot[t.ID] = t
	}

	return snapshot, nil
}

// FetchImage implements [Source]. A missing thumbnail file is
// [ErrImageNotFound]; an unreadable one is [ErrUnavailable].
func (o *offlineSource) FetchImage(ctx context.Context, id uint64) (models.Image, error) {
	if err := ctx.Err(); err != nil {
		return models.Image{}, err
	}

	path, format, ok := o.imagePath(id)
	if !ok {
		return models.Image{}, fmt.Errorf("offline image %d: %w", id, ErrImageNotFound)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return models.Image{}, fmt.Errorf("read offline image %d: %w: %v", id, ErrUnavailable, err)
	}

	return models.Image{Bytes: data, Format: format}, nil
}

// FetchServerInfo implements [Source] with a static stub.
func (o *offlineSource) FetchServerInfo(ctx context.Context) (models.ServerInfo, error) {
	if err := ctx.Err(); err != nil {
		return models.ServerInfo{}, err
	}

	now := time.Now().UTC()
	return models.ServerInfo{
		Message:          "offline snapshot: " + o.root,
		MessageTimestamp: now,
		ServerTime:       now,
	}, nil
}

// imagePath resolves the thumbnail file for id, preferring the raw PNG
// over the compressed JPEG when both are present.
func (o *offlineSource) imagePath(id uint64) (string, models.ImageFormat, bool) {
	candidates := []struct {
		ext    string
		format models.ImageFormat
	}{
		{".png", models.FormatRaw},
		{".jpg", models.FormatCompressed},
		{".jpeg", models.FormatCompressed},
	}

	for _, c := range candidates {
		path := filepath.Join(o.root, fmt.Sprintf("%d%s", id, c.ext))
		if _, err := os.Stat(path); err == nil {
			return path, c.format, true
		}
	}

	return "", models.FormatNone, false
}
