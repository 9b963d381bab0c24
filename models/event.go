package models

import "fmt"

// EventType enumerates the notification variants emitted to subscribers.
type EventType string

const (
	// EventAddedTarget announces a target never seen before. Target is set.
	EventAddedTarget EventType = "added_target"

	// EventUpdatedTarget announces changed metadata for a known target.
	// Target carries the new record.
	EventUpdatedTarget EventType = "updated_target"

	// EventDeletedTarget announces that a target left the catalog.
	EventDeletedTarget EventType = "deleted_target"

	// EventSetImage delivers fresh raw thumbnail bytes for a target.
	EventSetImage EventType = "set_image"

	// EventSetCompressedImage delivers fresh compressed thumbnail bytes.
	EventSetCompressedImage EventType = "set_compressed_image"

	// EventDeletedImage announces that a previously delivered thumbnail
	// is no longer valid.
	EventDeletedImage EventType = "deleted_image"

	// EventReloadAll instructs subscribers to discard partial state and
	// expect a fresh full stream of added_target events.
	EventReloadAll EventType = "reload_all"

	// EventClearAll instructs subscribers to discard all cached state.
	EventClearAll EventType = "clear_all"
)

// Event is the unit handed to notification subscribers. ID is zero only
// for ReloadAll/ClearAll. Target is non-nil only for added/updated
// events. Image and Format are set only for set_image and
// set_compressed_image events.
type Event struct {
	Type   EventType   `json:"type"`
	ID     uint64      `json:"id,omitempty"`
	Target *Target     `json:"target,omitempty"`
	Image  []byte      `json:"image,omitempty"`
	Format ImageFormat `json:"format,omitempty"`
}

// AddedEvent builds an added_target event for t.
func AddedEvent(t Target) Event {
	target := t
	return Event{Type: EventAddedTarget, ID: t.ID, Target: &target}
}

// UpdatedEvent builds an updated_target event for t.
func UpdatedEvent(t Target) Event {
	target := t
	return Event{Type: EventUpdatedTarget, ID: t.ID, Target: &target}
}

// DeletedEvent builds a deleted_target event for id.
func DeletedEvent(id uint64) Event {
	return Event{Type: EventDeletedTarget, ID: id}
}

// ImageEvent builds the image event matching img.Format.
func ImageEvent(id uint64, img Image) Event {
	typ := EventSetImage
	if img.Format == FormatCompressed {
		typ = EventSetCompressedImage
	}
	return Event{Type: typ, ID: id, Image: img.Bytes, Format: img.Format}
}

// DeletedImageEvent builds a deleted_image event for id.
func DeletedImageEvent(id uint64) Event {
	return Event{Type: EventDeletedImage, ID: id}
}

// String renders a compact form for logs, e.g. "set_image(7)".
func (e Event) String() string {
	if e.ID == 0 {
		return string(e.Type)
	}
	return fmt.Sprintf("%s(%d)", e.Type, e.ID)
}

// ReloadAllEvent builds a reload_all event.
func ReloadAllEvent() Event {
	return Event{Type: EventReloadAll}
}

// ClearAllEvent builds a clear_all event.
func ClearAllEvent() Event {
	return Event{Type: EventClearAll}
}
