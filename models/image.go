package models

// ImageFormat tags thumbnail bytes as raw (lossless) or compressed.
// The two formats are mutually exclusive for a target at any instant;
// setting one clears the other.
type ImageFormat string

const (
	// FormatNone means no thumbnail is present.
	FormatNone ImageFormat = ""

	// FormatRaw is a lossless thumbnail (PNG on the wire).
	FormatRaw ImageFormat = "raw"

	// FormatCompressed is a lossy thumbnail (JPEG on the wire).
	FormatCompressed ImageFormat = "compressed"
)

// Image is a fetched thumbnail payload together with its format tag.
type Image struct {
	Bytes  []byte
	Format ImageFormat
}

// Thumbnail describes the cached thumbnail state of a target without
// carrying the bytes themselves. Format == FormatNone means absent.
// Mark records the server-side revision marker the bytes were fetched
// under, so an unchanged mark on a metadata update skips the refetch.
type Thumbnail struct {
	Format ImageFormat `json:"format,omitempty"`
	Mark   string      `json:"mark,omitempty"`
}

// Present reports whether a thumbnail is cached at all.
func (t Thumbnail) Present() bool {
	return t.Format != FormatNone
}

// Entry is the unit held by the cache index and mirrored to the
// persistence store: the last-known target record plus its thumbnail
// descriptor. An entry always carries complete metadata; only the
// thumbnail is optional.
type Entry struct {
	Target    Target    `json:"target"`
	Thumbnail Thumbnail `json:"thumbnail,omitempty"`
}
