package server

import (
	"sync/atomic"

	"github.com/brettbedarf/vfs/filesystem"
	"github.com/google/uuid"
	"github.com/hanwen/go-fuse/v2/fuse"
	"github.com/puzpuzpuz/xsync/v4"
)

// nodeIDs maps FUSE node IDs to namespace nodes. IDs follow node identity,
// so a node keeps its ID across moves and renames.
type nodeIDs struct {
	last   atomic.Uint64
	byID   *xsync.Map[uint64, filesystem.Node]
	byNode *xsync.Map[uuid.UUID, uint64]
}

func newNodeIDs(root *filesystem.Directory) *nodeIDs {
	m := &nodeIDs{
		byID:   xsync.NewMap[uint64, filesystem.Node](),
		byNode: xsync.NewMap[uuid.UUID, uint64](),
	}
	m.last.Store(fuse.FUSE_ROOT_ID)
	m.byID.Store(fuse.FUSE_ROOT_ID, root)
	m.byNode.Store(root.ID(), fuse.FUSE_ROOT_ID)
	return m
}

// idFor returns the node's ID, allocating one on first use
func (m *nodeIDs) idFor(n filesystem.Node) uint64 {
	if id, ok := m.byNode.Load(n.ID()); ok {
		return id
	}
	id, loaded := m.byNode.LoadOrStore(n.ID(), m.last.Add(1))
	if !loaded {
		m.byID.Store(id, n)
	}
	return id
}

func (m *nodeIDs) lookup(id uint64) (filesystem.Node, bool) {
	return m.byID.Load(id)
}

// forget drops id. The root is never forgotten.
func (m *nodeIDs) forget(id uint64) {
	if id == fuse.FUSE_ROOT_ID {
		return
	}
	if n, ok := m.byID.LoadAndDelete(id); ok {
		m.byNode.Delete(n.ID())
	}
}

func (m *nodeIDs) len() int {
	return m.byID.Size()
}
