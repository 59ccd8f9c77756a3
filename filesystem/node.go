package filesystem

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/brettbedarf/vfs"
	"github.com/google/uuid"
)

// Node is a namespace entry: a [*File] or a [*Directory].
// A Node's path is the one mutable field; it is replaced wholesale on move
// and rename, never edited in place.
type Node interface {
	// ID is stable for the node's lifetime, across moves and renames
	ID() uuid.UUID
	Path() *vfs.Path
	Name() string
	Kind() vfs.NodeKind
	IsDirectory() bool
	IsFile() bool
	CreatedAt() time.Time
	ModifiedAt() time.Time

	setPath(p *vfs.Path)
}

type node struct {
	id       uuid.UUID
	path     *vfs.Path
	created  time.Time
	modified time.Time
}

func newNode(p *vfs.Path) node {
	now := time.Now()
	return node{
		id:       uuid.New(),
		path:     p,
		created:  now,
		modified: now,
	}
}

func (n *node) ID() uuid.UUID         { return n.id }
func (n *node) Path() *vfs.Path       { return n.path }
func (n *node) Name() string          { return n.path.Name() }
func (n *node) CreatedAt() time.Time  { return n.created }
func (n *node) ModifiedAt() time.Time { return n.modified }

// setPath swaps in a new path and bumps the modification time
func (n *node) setPath(p *vfs.Path) {
	n.path = p
	n.modified = time.Now()
}

// File is a pure namespace entry; no content is modeled.
type File struct {
	node
}

func NewFile(p *vfs.Path) *File {
	return &File{node: newNode(p)}
}

func (f *File) Kind() vfs.NodeKind { return vfs.KindFile }
func (f *File) IsDirectory() bool  { return false }
func (f *File) IsFile() bool       { return true }
func (f *File) String() string     { return f.path.String() }

// Directory owns two ordered child collections, one for sub-directories and
// one for files. Children are ordered by their case-folded path and must be
// exactly the indexed nodes whose parent path is this directory's path.
type Directory struct {
	node
	dirs  children[*Directory]
	files children[*File]
}

func NewDirectory(p *vfs.Path) *Directory {
	return &Directory{node: newNode(p)}
}

func (d *Directory) Kind() vfs.NodeKind { return vfs.KindDirectory }
func (d *Directory) IsDirectory() bool  { return true }
func (d *Directory) IsFile() bool       { return false }
func (d *Directory) IsRoot() bool       { return d.path.IsRoot() }
func (d *Directory) String() string     { return d.path.String() }

// AddChild links node as a direct child.
// Returns an error if a child with the same path is already linked.
func (d *Directory) AddChild(n Node) error {
	var ok bool
	switch child := n.(type) {
	case *Directory:
		ok = d.dirs.add(child)
	case *File:
		ok = d.files.add(child)
	default:
		return fmt.Errorf("cannot add a node that is neither a file nor a directory: %T", n)
	}
	if !ok {
		return vfs.NewError(vfs.OpCreate, n.Path().String(), fmt.Errorf("%w: already linked under %s", vfs.ErrDuplicatePath, d.path))
	}
	return nil
}

// RemoveChild unlinks node. Removing a node that is not linked is a no-op.
func (d *Directory) RemoveChild(n Node) error {
	switch child := n.(type) {
	case *Directory:
		d.dirs.remove(child)
	case *File:
		d.files.remove(child)
	default:
		return fmt.Errorf("cannot remove a node that is neither a file nor a directory: %T", n)
	}
	return nil
}

// Directories returns a snapshot of the sub-directories in order
func (d *Directory) Directories() []*Directory {
	return d.dirs.values()
}

// Files returns a snapshot of the files in order
func (d *Directory) Files() []*File {
	return d.files.values()
}

// Children returns sub-directories followed by files
func (d *Directory) Children() []Node {
	out := make([]Node, 0, d.dirs.len()+d.files.len())
	for _, c := range d.dirs.items {
		out = append(out, c)
	}
	for _, c := range d.files.items {
		out = append(out, c)
	}
	return out
}

// Child finds a direct child by name, ignoring case
func (d *Directory) Child(name string) (Node, bool) {
	key := vfs.Fold(name)
	for _, c := range d.dirs.items {
		if vfs.Fold(c.Name()) == key {
			return c, true
		}
	}
	for _, c := range d.files.items {
		if vfs.Fold(c.Name()) == key {
			return c, true
		}
	}
	return nil, false
}

func (d *Directory) Empty() bool {
	return d.dirs.len() == 0 && d.files.len() == 0
}

func (d *Directory) HasSubdirectories() bool {
	return d.dirs.len() > 0
}

// children is a slice kept sorted by each node's current path key.
// Keys are read live from the nodes: a subtree rewrite replaces the same
// prefix on every sibling, so relative order survives without re-sorting.
type children[T Node] struct {
	items []T
}

func (c *children[T]) search(key string) (int, bool) {
	return slices.BinarySearchFunc(c.items, key, func(item T, k string) int {
		return strings.Compare(item.Path().Key(), k)
	})
}

func (c *children[T]) add(n T) bool {
	i, found := c.search(n.Path().Key())
	if found {
		return false
	}
	c.items = slices.Insert(c.items, i, n)
	return true
}

func (c *children[T]) remove(n T) {
	i, found := c.search(n.Path().Key())
	if found && Node(c.items[i]) == Node(n) {
		c.items = slices.Delete(c.items, i, i+1)
		return
	}
	// fall back to identity in case the key drifted
	for i, item := range c.items {
		if Node(item) == Node(n) {
			c.items = slices.Delete(c.items, i, i+1)
			return
		}
	}
}

func (c *children[T]) values() []T {
	return slices.Clone(c.items)
}

func (c *children[T]) len() int {
	return len(c.items)
}
