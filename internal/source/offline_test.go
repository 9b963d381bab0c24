package source

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uasys/targetcache/internal/config"
	"github.com/uasys/targetcache/internal/logger"
	"github.com/uasys/targetcache/models"
)

func writeOfflineTree(t *testing.T, snapshot string, images map[uint64]string) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, snapshotFileName), []byte(snapshot), 0o600))
	for id, name := range images {
		require.NoError(t, os.WriteFile(filepath.Join(root, strconv.FormatUint(id, 10)+name), []byte("img-"+name), 0o600))
	}
	return root
}

func newTestOffline(t *testing.T, root string, suppressMoving bool) Source {
	t.Helper()
	cfg := config.Source{Offline: true, OfflineRoot: root, SuppressMoving: suppressMoving}
	s, err := NewOfflineSource(cfg, logger.Nop())
	require.NoError(t, err)
	return s
}

func TestOfflineFetchSnapshot_Success(t *testing.T) {
	root := writeOfflineTree(t, `[
		{"id": 1, "type": "standard", "shape": "square"},
		{"id": 2, "type": "standard", "moving": true}
	]`, nil)

	s := newTestOffline(t, root, false)
	got, err := s.FetchSnapshot(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "square", got[1].Shape)
	assert.True(t, got[2].Moving)
}

func TestOfflineFetchSnapshot_SuppressMoving(t *testing.T) {
	root := writeOfflineTree(t, `[
		{"id": 1, "type": "standard"},
		{"id": 2, "type": "standard", "moving": true}
	]`, nil)

	s := newTestOffline(t, root, true)
	got, err := s.FetchSnapshot(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Contains(t, got, uint64(1))
	assert.NotContains(t, got, uint64(2))
}

func TestOfflineFetchSnapshot_ImageMarkFromModTime(t *testing.T) {
	root := writeOfflineTree(t, `[{"id": 5, "type": "standard"}]`, map[uint64]string{5: ".png"})

	s := newTestOffline(t, root, false)
	got, err := s.FetchSnapshot(context.Background())

	require.NoError(t, err)
	assert.NotEmpty(t, got[5].ImageMark)
}

func TestOfflineFetchSnapshot_MissingCatalogFile(t *testing.T) {
	root := t.TempDir()

	s := newTestOffline(t, root, false)
	_, err := s.FetchSnapshot(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestOfflineFetchImage_PNGPreferredOverJPEG(t *testing.T) {
	root := writeOfflineTree(t, `[]`, map[uint64]string{3: ".png"})
	require.NoError(t, os.WriteFile(filepath.Join(root, "3.jpg"), []byte("img-.jpg"), 0o600))

	s := newTestOffline(t, root, false)
	img, err := s.FetchImage(context.Background(), 3)

	require.NoError(t, err)
	assert.Equal(t, models.FormatRaw, img.Format)
	assert.Equal(t, []byte("img-.png"), img.Bytes)
}

func TestOfflineFetchImage_CompressedJPEG(t *testing.T) {
	root := writeOfflineTree(t, `[]`, map[uint64]string{4: ".jpg"})

	s := newTestOffline(t, root, false)
	img, err := s.FetchImage(context.Background(), 4)

	require.NoError(t, err)
	assert.Equal(t, models.FormatCompressed, img.Format)
}

func TestOfflineFetchImage_NotFound(t *testing.T) {
	root := writeOfflineTree(t, `[]`, nil)

	s := newTestOffline(t, root, false)
	_, err := s.FetchImage(context.Background(), 9)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrImageNotFound)
}

func TestOfflineFetchServerInfo_Stub(t *testing.T) {
	root := writeOfflineTree(t, `[]`, nil)

	s := newTestOffline(t, root, false)
	info, err := s.FetchServerInfo(context.Background())

	require.NoError(t, err)
	assert.Contains(t, info.Message, root)
}

func TestNewOfflineSource_MissingRoot(t *testing.T) {
	cfg := config.Source{Offline: true, OfflineRoot: "/nonexistent/dir"}
	_, err := NewOfflineSource(cfg, logger.Nop())
	require.Error(t, err)
}
