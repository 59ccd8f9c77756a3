// Package history keeps an undo/redo log of structural changes made to a
// namespace. A [Log] is installed as the namespace's recorder and replays
// inverse operations through the same mutators callers use.
package history

import (
	"errors"
	"fmt"
	"slices"

	"github.com/brettbedarf/vfs"
	"github.com/brettbedarf/vfs/filesystem"
	"github.com/brettbedarf/vfs/internal/util"
)

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Mutator is the set of namespace operations a Log replays through
type Mutator interface {
	CreateNode(kind vfs.NodeKind, p *vfs.Path) (filesystem.Node, error)
	DeleteNode(kind vfs.NodeKind, p *vfs.Path) error
	MoveNode(kind vfs.NodeKind, src, dst *vfs.Path) error
	RenameNode(kind vfs.NodeKind, p *vfs.Path, newName string) error
}

// Log records completed changes and can revert or reapply them in order.
// Recording a new change discards everything that could be redone.
//
// Undoing a delete recreates the removed paths; the recreated nodes get new
// IDs and timestamps.
type Log struct {
	fs        Mutator
	limit     int // max undo depth; <= 0 keeps everything
	undo      []vfs.Change
	redo      []vfs.Change
	replaying bool
}

func NewLog(fs Mutator, limit int) *Log {
	return &Log{fs: fs, limit: limit}
}

// Record implements [vfs.Recorder]. Changes caused by Undo or Redo themselves
// are ignored.
func (l *Log) Record(c vfs.Change) {
	if l.replaying {
		return
	}
	l.undo = append(l.undo, c)
	if l.limit > 0 && len(l.undo) > l.limit {
		l.undo = slices.Delete(l.undo, 0, len(l.undo)-l.limit)
	}
	l.redo = l.redo[:0]
}

func (l *Log) CanUndo() bool { return len(l.undo) > 0 }
func (l *Log) CanRedo() bool { return len(l.redo) > 0 }

// Changes returns the undoable changes, oldest first
func (l *Log) Changes() []vfs.Change {
	return slices.Clone(l.undo)
}

// Clear forgets all recorded changes
func (l *Log) Clear() {
	l.undo = nil
	l.redo = nil
}

// Undo reverts the most recent change and returns it. On failure the change
// stays on the undo stack.
func (l *Log) Undo() (vfs.Change, error) {
	logger := util.GetLogger("History.Undo")
	if !l.CanUndo() {
		return vfs.Change{}, ErrNothingToUndo
	}
	c := l.undo[len(l.undo)-1]
	if err := l.replay(c, revert); err != nil {
		logger.Error().Err(err).Str("op", c.Op).Str("path", c.Path.String()).Msg("Undo failed")
		return c, fmt.Errorf("undo %s %s: %w", c.Op, c.Path, err)
	}
	l.undo = l.undo[:len(l.undo)-1]
	l.redo = append(l.redo, c)
	logger.Debug().Str("op", c.Op).Str("path", c.Path.String()).Msg("Change undone")
	return c, nil
}

// Redo reapplies the most recently undone change and returns it
func (l *Log) Redo() (vfs.Change, error) {
	logger := util.GetLogger("History.Redo")
	if !l.CanRedo() {
		return vfs.Change{}, ErrNothingToRedo
	}
	c := l.redo[len(l.redo)-1]
	if err := l.replay(c, reapply); err != nil {
		logger.Error().Err(err).Str("op", c.Op).Str("path", c.Path.String()).Msg("Redo failed")
		return c, fmt.Errorf("redo %s %s: %w", c.Op, c.Path, err)
	}
	l.redo = l.redo[:len(l.redo)-1]
	l.undo = append(l.undo, c)
	logger.Debug().Str("op", c.Op).Str("path", c.Path.String()).Msg("Change redone")
	return c, nil
}

func (l *Log) replay(c vfs.Change, fn func(Mutator, vfs.Change) error) error {
	l.replaying = true
	defer func() { l.replaying = false }()
	return fn(l.fs, c)
}

func revert(fs Mutator, c vfs.Change) error {
	switch c.Op {
	case vfs.OpCreate:
		return fs.DeleteNode(c.Kind, c.Path)
	case vfs.OpDelete:
		// entries are deepest-first; recreate parents before children
		for _, e := range slices.Backward(c.Entries) {
			if _, err := fs.CreateNode(e.Kind, e.OldPath); err != nil {
				return err
			}
		}
		return nil
	case vfs.OpMove:
		return fs.MoveNode(c.Kind, c.NewPath, c.Path)
	case vfs.OpRename:
		return fs.RenameNode(c.Kind, c.NewPath, c.Path.Name())
	default:
		return fmt.Errorf("unknown change op %q", c.Op)
	}
}

func reapply(fs Mutator, c vfs.Change) error {
	switch c.Op {
	case vfs.OpCreate:
		_, err := fs.CreateNode(c.Kind, c.Path)
		return err
	case vfs.OpDelete:
		return fs.DeleteNode(c.Kind, c.Path)
	case vfs.OpMove:
		return fs.MoveNode(c.Kind, c.Path, c.NewPath)
	case vfs.OpRename:
		return fs.RenameNode(c.Kind, c.Path, c.NewPath.Name())
	default:
		return fmt.Errorf("unknown change op %q", c.Op)
	}
}
