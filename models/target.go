package models

// Target is a single catalog record reported by the interop server.
// Targets are uniquely identified by a positive server-assigned ID.
// The struct is comparable: two targets are considered equal when every
// metadata field matches, which is what the diff engine relies on to
// detect updates.
type Target struct {
	// ID is the server-assigned identifier. Always positive.
	ID uint64 `json:"id"`

	// Type is the target category reported by the server
	// (e.g. "standard", "emergent", "off_axis").
	Type string `json:"type"`

	// Latitude and Longitude are the target position in decimal degrees.
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	// Orientation is the cardinal orientation of the target ("N", "NE", ...).
	Orientation string `json:"orientation,omitempty"`

	// Shape is the geometric shape of a standard target.
	Shape string `json:"shape,omitempty"`

	// BackgroundColor is the dominant color of the target body.
	BackgroundColor string `json:"background_color,omitempty"`

	// Alphanumeric is the character printed on a standard target.
	Alphanumeric string `json:"alphanumeric,omitempty"`

	// AlphanumericColor is the color of the printed character.
	AlphanumericColor string `json:"alphanumeric_color,omitempty"`

	// Description is free-form text for emergent targets.
	Description string `json:"description,omitempty"`

	// Autonomous marks targets submitted by the autonomous pipeline.
	Autonomous bool `json:"autonomous,omitempty"`

	// Moving marks targets that change position between polls. Offline
	// snapshots can be configured to suppress these entirely.
	Moving bool `json:"moving,omitempty"`

	// ImageMark is an opaque revision marker for the target thumbnail
	// (the server reports it as image_updated_at). An empty mark means the
	// server does not signal image revisions for this target.
	ImageMark string `json:"image_updated_at,omitempty"`
}

// Snapshot is the complete set of targets reported by a source in one
// fetch, keyed by target ID. A snapshot replaces the prior cache state:
// any cached ID absent from the snapshot is a deletion.
type Snapshot map[uint64]Target
