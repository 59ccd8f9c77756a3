package vfs

import (
	"time"

	"github.com/google/uuid"
)

// Entry is a single affected path of a structural operation.
// OldPath is nil for creations and NewPath is nil for deletions.
type Entry struct {
	Kind    NodeKind
	OldPath *Path
	NewPath *Path
}

// Change is the record of one completed structural operation, carrying the
// full before/after path set so a history log can undo or redo it.
type Change struct {
	ID   uuid.UUID
	Op   string // One of OpCreate, OpDelete, OpMove, OpRename
	Kind NodeKind
	// Target of the operation: the created/deleted path, or the moved/renamed
	// path before the change
	Path *Path
	// NewPath is the target after a move or rename
	NewPath *Path
	// Entries lists every affected path, deepest-first for subtree operations
	Entries []Entry
	At      time.Time
}

// NewChange creates a Change stamped with a fresh ID and the current time
func NewChange(op string, kind NodeKind, path, newPath *Path, entries []Entry) Change {
	return Change{
		ID:      uuid.New(),
		Op:      op,
		Kind:    kind,
		Path:    path,
		NewPath: newPath,
		Entries: entries,
		At:      time.Now(),
	}
}

// Recorder receives one Change per completed structural operation
type Recorder interface {
	Record(c Change)
}
