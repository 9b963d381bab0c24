// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/uasys/targetcache/internal/source"
	"github.com/uasys/targetcache/models"
)

// imageCandidate is one thumbnail fetch scheduled within a poll cycle.
// hadThumbnail is captured before the fetch so that a not-found answer
// can be told apart from a target that never had a thumbnail.
type imageCandidate struct {
	target       models.Target
	hadThumbnail bool
}

// thumbnailUpdate is the index mutation produced by one fetch. A zero
// thumbnail records an upstream removal.
type thumbnailUpdate struct {
	id        uint64
	thumbnail models.Thumbnail
}

// propagateImages fetches, persists, and announces thumbnails for the
// given candidates, at most cfg.ImageConcurrency fetches in flight.
//
// Each candidate fails independently. Index mutations are collected by
// the workers and applied only after all of them have finished, keeping
// index writes on the poll goroutine.
func (m *Mirror) propagateImages(ctx context.Context, candidates []imageCandidate) {
	if len(candidates) == 0 {
		return
	}

	var (
		mu      sync.Mutex
		updates []thumbnailUpdate
	)
	record := func(u thumbnailUpdate) {
		mu.Lock()
		updates = append(updates, u)
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.cfg.ImageConcurrency)

	for _, candidate := range candidates {
		candidate := candidate
		g.Go(func() error {
			id := candidate.target.ID

			img, err := m.source.FetchImage(gctx, id)
			switch {
			case errors.Is(err, source.ErrImageNotFound):
				if !candidate.hadThumbnail {
					return nil
				}
				// Cached thumbnail no longer exists upstream.
				if err := m.store.DeleteImage(gctx, id); err != nil {
					m.logger.Error().Err(err).Uint64("id", id).Msg("delete stale thumbnail")
					return nil
				}
				m.notifier.Publish(models.DeletedImageEvent(id))
				record(thumbnailUpdate{id: id})
				return nil

			case err != nil:
				m.logger.Warn().Err(err).Uint64("id", id).Msg("fetch thumbnail")
				return nil
			}

			if err := m.store.SaveImage(gctx, id, img, candidate.target.ImageMark); err != nil {
				m.logger.Error().Err(err).Uint64("id", id).Msg("save thumbnail")
				return nil
			}
			m.notifier.Publish(models.ImageEvent(id, img))
			record(thumbnailUpdate{
				id:        id,
				thumbnail: models.Thumbnail{Format: img.Format, Mark: candidate.target.ImageMark},
			})
			return nil
		})
	}
	_ = g.Wait()

	for _, update := range updates {
		m.index.SetThumbnail(update.id, update.thumbnail)
	}
}
