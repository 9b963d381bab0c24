// SPDX-License-Identifier: Apache-2.0

package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseServerTime(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
		fails bool
	}{
		{
			name:  "rfc3339 with zone",
			input: "2026-08-23T10:11:12.5+03:00",
			want:  time.Date(2026, 8, 23, 7, 11, 12, 500000000, time.UTC),
		},
		{
			name:  "space separated with offset",
			input: "2026-08-23 10:11:12.5-07:00",
			want:  time.Date(2026, 8, 23, 17, 11, 12, 500000000, time.UTC),
		},
		{
			name:  "no offset assumes utc",
			input: "2026-08-23 10:11:12",
			want:  time.Date(2026, 8, 23, 10, 11, 12, 0, time.UTC),
		},
		{
			name:  "surrounding whitespace",
			input: "  2026-08-23T10:11:12Z ",
			want:  time.Date(2026, 8, 23, 10, 11, 12, 0, time.UTC),
		},
		{
			name:  "garbage",
			input: "yesterday",
			fails: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseServerTime(tt.input)
			if tt.fails {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %v, got %v", tt.want, got)
		})
	}
}

func TestImageEvent_FormatSelectsType(t *testing.T) {
	raw := ImageEvent(1, Image{Bytes: []byte("png"), Format: FormatRaw})
	assert.Equal(t, EventSetImage, raw.Type)

	compressed := ImageEvent(1, Image{Bytes: []byte("jpg"), Format: FormatCompressed})
	assert.Equal(t, EventSetCompressedImage, compressed.Type)
}

func TestEvent_String(t *testing.T) {
	assert.Equal(t, "deleted_image(7)", DeletedImageEvent(7).String())
	assert.Equal(t, "reload_all", ReloadAllEvent().String())
}

func TestThumbnail_Present(t *testing.T) {
	assert.False(t, Thumbnail{}.Present())
	assert.True(t, Thumbnail{Format: FormatCompressed}.Present())
}
