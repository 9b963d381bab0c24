package models

// ChangeOp classifies a single entry of a ChangeSet.
type ChangeOp int

const (
	// ChangeDeleted marks an ID that was cached but is absent from the
	// incoming snapshot.
	ChangeDeleted ChangeOp = iota

	// ChangeAdded marks an ID present in the incoming snapshot that was
	// not cached before.
	ChangeAdded

	// ChangeUpdated marks an ID present on both sides whose metadata
	// payload differs.
	ChangeUpdated
)

// String returns the lowercase name of the operation for logs.
func (op ChangeOp) String() string {
	switch op {
	case ChangeDeleted:
		return "deleted"
	case ChangeAdded:
		return "added"
	case ChangeUpdated:
		return "updated"
	default:
		return "unknown"
	}
}

// Change is one element of a ChangeSet. Target is the zero value for
// ChangeDeleted entries.
type Change struct {
	Op     ChangeOp
	ID     uint64
	Target Target
}

// ChangeSet is the per-cycle diff between the cache index and a freshly
// fetched snapshot. It is ephemeral: produced once per poll cycle,
// consumed immediately, never persisted. Deletions always come before
// additions and updates so that an ID disappearing and reappearing in
// one cycle is treated as delete-then-add.
type ChangeSet []Change
