package filesystem

import (
	"fmt"

	"github.com/brettbedarf/vfs"
	"github.com/brettbedarf/vfs/config"
	"github.com/brettbedarf/vfs/internal/util"
)

// FileSystem is an in-memory namespace: a root directory, the tree of
// nodes reachable from it and an Index mirroring the same nodes by path.
// Every mutator updates both in the same step and then notifies observers.
//
// FileSystem is not safe for concurrent use; callers must serialize access.
type FileSystem struct {
	cfg      *config.Config
	root     *Directory // Root of node tree; never indexed, moved or deleted
	index    *Index     // Authoritative existence and lookup by path
	notifier *Notifier
	recorder vfs.Recorder // Optional change history sink
}

// NewFS creates an empty namespace. A nil cfg uses the defaults.
func NewFS(cfg *config.Config) *FileSystem {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	return &FileSystem{
		cfg:      cfg,
		root:     NewDirectory(vfs.Root()),
		index:    NewIndex(),
		notifier: NewNotifier(),
	}
}

func (fs *FileSystem) Config() *config.Config {
	return fs.cfg
}

func (fs *FileSystem) Root() *Directory {
	return fs.root
}

// Index exposes the lookup index. Mutate the namespace only through the
// FileSystem methods.
func (fs *FileSystem) Index() *Index {
	return fs.index
}

// Subscribe registers an observer for structural change events
func (fs *FileSystem) Subscribe(o vfs.Observer) (unsubscribe func()) {
	return fs.notifier.Subscribe(o)
}

// SetRecorder installs the sink receiving one [vfs.Change] per completed
// operation. nil disables recording.
func (fs *FileSystem) SetRecorder(r vfs.Recorder) {
	fs.recorder = r
}

// GetEntry resolves p to a node, including the root
func (fs *FileSystem) GetEntry(p *vfs.Path) (Node, bool) {
	if p == nil {
		return nil, false
	}
	if p.IsRoot() {
		return fs.root, true
	}
	return fs.index.Get(p)
}

// Exists reports whether p resolves to any node
func (fs *FileSystem) Exists(p *vfs.Path) bool {
	_, ok := fs.GetEntry(p)
	return ok
}

func (fs *FileSystem) TryGetDirectory(p *vfs.Path) (*Directory, bool) {
	n, ok := fs.GetEntry(p)
	if !ok {
		return nil, false
	}
	d, ok := n.(*Directory)
	return d, ok
}

// GetDirectory returns the directory at p or an [vfs.ErrNotFound] error
func (fs *FileSystem) GetDirectory(p *vfs.Path) (*Directory, error) {
	if d, ok := fs.TryGetDirectory(p); ok {
		return d, nil
	}
	return nil, notFound(vfs.OpGet, vfs.KindDirectory, p)
}

func (fs *FileSystem) TryGetFile(p *vfs.Path) (*File, bool) {
	if p == nil {
		return nil, false
	}
	return fs.index.GetFile(p)
}

// GetFile returns the file at p or an [vfs.ErrNotFound] error
func (fs *FileSystem) GetFile(p *vfs.Path) (*File, error) {
	if f, ok := fs.TryGetFile(p); ok {
		return f, nil
	}
	return nil, notFound(vfs.OpGet, vfs.KindFile, p)
}

func (fs *FileSystem) String() string {
	return fs.index.String()
}

// attach links n under the directory at its current parent path.
// A missing parent leaves n indexed but unattached and returns false.
func (fs *FileSystem) attach(n Node) (bool, error) {
	parent, ok := fs.TryGetDirectory(n.Path().Parent())
	if !ok {
		logger := util.GetLogger("FS.attach")
		logger.Warn().Str("path", n.Path().String()).Msg("Parent directory not indexed; node left unattached")
		return false, nil
	}
	return true, parent.AddChild(n)
}

// detach unlinks n from the directory at its current parent path, if any
func (fs *FileSystem) detach(n Node) {
	if parent, ok := fs.TryGetDirectory(n.Path().Parent()); ok {
		parent.RemoveChild(n) // nolint:errcheck // only fails for foreign Node types
	}
}

// requireParent enforces StrictParents for a node about to live at p
func (fs *FileSystem) requireParent(op string, p *vfs.Path) error {
	parent := p.Parent()
	if parent == nil {
		return vfs.NewError(op, p.String(), vfs.ErrMissingParent)
	}
	if !fs.cfg.StrictParents {
		return nil
	}
	if _, ok := fs.TryGetDirectory(parent); !ok {
		return vfs.NewError(op, p.String(), fmt.Errorf("%w: directory %q is not indexed", vfs.ErrMissingParent, parent))
	}
	return nil
}

func (fs *FileSystem) publish(e vfs.Event) {
	fs.notifier.Publish(e)
}

func (fs *FileSystem) record(c vfs.Change) {
	if fs.recorder != nil {
		fs.recorder.Record(c)
	}
}

func notFound(op string, kind vfs.NodeKind, p *vfs.Path) error {
	return vfs.NewError(op, p.String(), fmt.Errorf("%w: no %s at this path", vfs.ErrNotFound, kind))
}
