package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uasys/targetcache/internal/config"
	"github.com/uasys/targetcache/internal/logger"
	"github.com/uasys/targetcache/internal/store"
	"github.com/uasys/targetcache/models"
)

func TestIndex_PutTargetPreservesThumbnail(t *testing.T) {
	idx := NewIndex()

	idx.PutTarget(models.Target{ID: 1, Shape: "circle"})
	idx.SetThumbnail(1, models.Thumbnail{Format: models.FormatRaw, Mark: "r1"})

	idx.PutTarget(models.Target{ID: 1, Shape: "square"})

	entry, ok := idx.Get(1)
	require.True(t, ok)
	assert.Equal(t, "square", entry.Target.Shape)
	assert.Equal(t, models.FormatRaw, entry.Thumbnail.Format)
}

func TestIndex_SetThumbnail_MissingEntryIsNoop(t *testing.T) {
	idx := NewIndex()

	idx.SetThumbnail(42, models.Thumbnail{Format: models.FormatRaw})

	_, ok := idx.Get(42)
	assert.False(t, ok)
	assert.Zero(t, idx.Len())
}

func TestIndex_DeleteAndClear(t *testing.T) {
	idx := NewIndex()
	idx.PutTarget(models.Target{ID: 1})
	idx.PutTarget(models.Target{ID: 2})

	idx.Delete(1)
	assert.Equal(t, 1, idx.Len())

	idx.Clear()
	assert.Zero(t, idx.Len())
}

func TestIndex_TargetsIsACopy(t *testing.T) {
	idx := NewIndex()
	idx.PutTarget(models.Target{ID: 1, Shape: "circle"})

	snapshot := idx.Targets()
	snapshot[1] = models.Target{ID: 1, Shape: "mutated"}

	entry, _ := idx.Get(1)
	assert.Equal(t, "circle", entry.Target.Shape)
}

func TestIndex_Rehydrate(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()

	s, err := store.NewDirStore(config.Storage{Root: root}, logger.Nop())
	require.NoError(t, err)
	require.NoError(t, s.SaveTarget(ctx, models.Target{ID: 7, Shape: "cross"}))
	require.NoError(t, s.SaveImage(ctx, 7, models.Image{Bytes: []byte("png"), Format: models.FormatRaw}, "r7"))

	idx := NewIndex()
	require.NoError(t, idx.Rehydrate(ctx, s))

	require.Equal(t, 1, idx.Len())
	entry, ok := idx.Get(7)
	require.True(t, ok)
	assert.Equal(t, "cross", entry.Target.Shape)
	assert.Equal(t, models.FormatRaw, entry.Thumbnail.Format)
	assert.Equal(t, "r7", entry.Thumbnail.Mark)
}
