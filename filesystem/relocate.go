package filesystem

import (
	"github.com/brettbedarf/vfs"
	"github.com/brettbedarf/vfs/internal/util"
)

// rewrite is one planned path replacement of a move or rename
type rewrite struct {
	node Node
	old  *vfs.Path
	new  *vfs.Path
}

// planSubtree computes the new path of every indexed path under src
// (src included), deepest-first, using newPath to map old to new.
func (fs *FileSystem) planSubtree(src *vfs.Path, newPath func(old *vfs.Path) (*vfs.Path, error)) ([]rewrite, error) {
	paths := fs.index.PathsStartingWith(src)
	plan := make([]rewrite, 0, len(paths))
	for _, old := range paths {
		n, ok := fs.index.Get(old)
		if !ok {
			continue
		}
		p, err := newPath(old)
		if err != nil {
			return nil, err
		}
		plan = append(plan, rewrite{node: n, old: old, new: p})
	}
	return plan, nil
}

// validatePlan rejects a plan whose new paths collide with an indexed node
// outside the set being rewritten
func (fs *FileSystem) validatePlan(op string, plan []rewrite) error {
	moving := make(map[string]struct{}, len(plan))
	for _, rw := range plan {
		moving[rw.old.Key()] = struct{}{}
	}
	for _, rw := range plan {
		if _, self := moving[rw.new.Key()]; self {
			continue
		}
		if fs.index.Contains(rw.new) {
			return vfs.NewError(op, rw.new.String(), vfs.ErrDuplicatePath)
		}
	}
	return nil
}

// applyPlan swaps every old path for its new one in the index and on the
// node, then links the subtree's top node (the last entry) under the parent
// of its new path. Old keys are all released before new ones are taken so
// that rewrites inside the same subtree never collide.
func (fs *FileSystem) applyPlan(plan []rewrite) {
	logger := util.GetLogger("FS.applyPlan")
	top := plan[len(plan)-1].node
	fs.detach(top)

	for _, rw := range plan {
		fs.index.Remove(rw.old)
	}
	for _, rw := range plan {
		rw.node.setPath(rw.new)
		if !fs.index.TryAdd(rw.new, rw.node) {
			// unreachable after validatePlan
			logger.Error().Str("path", rw.new.String()).Msg("Index key taken during rewrite")
		}
		logger.Trace().Str("from", rw.old.String()).Str("to", rw.new.String()).Msg("Path rewritten")
	}

	if _, err := fs.attach(top); err != nil {
		logger.Error().Err(err).Str("path", top.Path().String()).Msg("Failed to link rewritten node")
	}
}

// relocate validates and applies plan, publishes one event per rewritten
// path and records the change
func (fs *FileSystem) relocate(op string, kind vfs.NodeKind, event vfs.EventKind, plan []rewrite) error {
	if err := fs.validatePlan(op, plan); err != nil {
		return err
	}
	fs.applyPlan(plan)

	entries := make([]vfs.Entry, 0, len(plan))
	for _, rw := range plan {
		entries = append(entries, vfs.Entry{Kind: rw.node.Kind(), OldPath: rw.old, NewPath: rw.new})
		fs.publish(vfs.Event{Kind: event, NodeKind: rw.node.Kind(), Path: rw.old, NewPath: rw.new})
	}

	top := plan[len(plan)-1]
	fs.record(vfs.NewChange(op, kind, top.old, top.new, entries))
	return nil
}
