package filesystem

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/brettbedarf/vfs"
)

type indexEntry struct {
	path *vfs.Path
	node Node
}

// Index is the authoritative path -> node mapping of a namespace.
// Keys are unique ignoring case; iteration follows ordinal order of the
// canonical path. The root is not stored.
type Index struct {
	entries map[string]indexEntry // case-folded key -> entry
	order   []*vfs.Path           // stored paths sorted by Path.Compare
}

func NewIndex() *Index {
	return &Index{entries: make(map[string]indexEntry)}
}

// TryAdd inserts node under p. Returns false, leaving the index untouched,
// when the key already exists.
func (ix *Index) TryAdd(p *vfs.Path, n Node) bool {
	key := p.Key()
	if _, exists := ix.entries[key]; exists {
		return false
	}
	ix.entries[key] = indexEntry{path: p, node: n}
	i, _ := slices.BinarySearchFunc(ix.order, p, (*vfs.Path).Compare)
	ix.order = slices.Insert(ix.order, i, p)
	return true
}

// Remove deletes the entry for p, reporting whether it was present
func (ix *Index) Remove(p *vfs.Path) bool {
	key := p.Key()
	entry, exists := ix.entries[key]
	if !exists {
		return false
	}
	delete(ix.entries, key)
	if i, found := slices.BinarySearchFunc(ix.order, entry.path, (*vfs.Path).Compare); found {
		ix.order = slices.Delete(ix.order, i, i+1)
	}
	return true
}

// Get returns the node stored under p
func (ix *Index) Get(p *vfs.Path) (Node, bool) {
	entry, ok := ix.entries[p.Key()]
	return entry.node, ok
}

// GetDirectory returns the directory stored under p. A file stored under p
// reports false.
func (ix *Index) GetDirectory(p *vfs.Path) (*Directory, bool) {
	n, ok := ix.Get(p)
	if !ok {
		return nil, false
	}
	d, ok := n.(*Directory)
	return d, ok
}

// GetFile returns the file stored under p. A directory stored under p
// reports false.
func (ix *Index) GetFile(p *vfs.Path) (*File, bool) {
	n, ok := ix.Get(p)
	if !ok {
		return nil, false
	}
	f, ok := n.(*File)
	return f, ok
}

func (ix *Index) Contains(p *vfs.Path) bool {
	_, ok := ix.entries[p.Key()]
	return ok
}

func (ix *Index) Count() int {
	return len(ix.entries)
}

func (ix *Index) IsEmpty() bool {
	return ix.Count() == 0
}

func (ix *Index) DirectoriesCount() int {
	cnt := 0
	for _, e := range ix.entries {
		if e.node.IsDirectory() {
			cnt++
		}
	}
	return cnt
}

func (ix *Index) FilesCount() int {
	return ix.Count() - ix.DirectoriesCount()
}

// Keys returns the stored paths in ordinal order
func (ix *Index) Keys() []*vfs.Path {
	return slices.Clone(ix.order)
}

// Nodes returns the stored nodes in key order
func (ix *Index) Nodes() []Node {
	out := make([]Node, 0, len(ix.order))
	for _, p := range ix.order {
		out = append(out, ix.entries[p.Key()].node)
	}
	return out
}

// Directories returns the stored directories in key order
func (ix *Index) Directories() []*Directory {
	var out []*Directory
	for _, p := range ix.order {
		if d, ok := ix.entries[p.Key()].node.(*Directory); ok {
			out = append(out, d)
		}
	}
	return out
}

// Files returns the stored files in key order
func (ix *Index) Files() []*File {
	var out []*File
	for _, p := range ix.order {
		if f, ok := ix.entries[p.Key()].node.(*File); ok {
			out = append(out, f)
		}
	}
	return out
}

// PathsStartingWith returns every stored path equal to or nested under dir,
// deepest-first: ordered by descending depth so descendants always precede
// their ancestors and dir itself, when stored, comes last. Paths of equal
// depth keep key order.
func (ix *Index) PathsStartingWith(dir *vfs.Path) []*vfs.Path {
	var out []*vfs.Path
	for _, p := range ix.order {
		if p.StartsWith(dir) {
			out = append(out, p)
		}
	}
	slices.SortStableFunc(out, func(a, b *vfs.Path) int {
		return cmp.Compare(b.Depth(), a.Depth())
	})
	return out
}

func (ix *Index) String() string {
	return fmt.Sprintf("VFS: %d files, %d directories", ix.FilesCount(), ix.DirectoriesCount())
}
