package server

import (
	"os"
	"syscall"

	"github.com/brettbedarf/vfs/filesystem"
	"github.com/brettbedarf/vfs/internal/util"
	"github.com/hanwen/go-fuse/v2/fuse"
)

const (
	dirMode  = fuse.S_IFDIR | 0o555
	fileMode = fuse.S_IFREG | 0o444
	blkSize  = 4096
)

// FuseRaw implements the low-level FUSE wire protocol on top of a [VFS].
// The mount is read-only: files have no content and every mutating request
// falls through to the default ENOSYS handlers.
// See https://www.man7.org/linux//man-pages/man4/fuse.4.html
type FuseRaw struct {
	fuse.RawFileSystem
	vfs    *VFS
	server *fuse.Server
}

func NewFuseRaw(v *VFS) *FuseRaw {
	return &FuseRaw{
		RawFileSystem: fuse.NewDefaultRawFileSystem(),
		vfs:           v,
	}
}

func (r *FuseRaw) Init(s *fuse.Server) {
	logger := util.GetLogger("Fuse.Init")
	logger.Debug().Msg("FUSE initialized")
	r.server = s
}

func (r *FuseRaw) OnUnmount() {
	logger := util.GetLogger("Fuse.OnUnmount")
	logger.Info().Msg("FUSE unmounted")
}

func (r *FuseRaw) String() string {
	return "FuseRaw"
}

// Access allows read access to every node
func (r *FuseRaw) Access(cancel <-chan struct{}, input *fuse.AccessIn) fuse.Status {
	return fuse.OK
}

// resolve maps a node ID to a node that is still present in the namespace.
// Caller must hold the VFS read lock.
func (r *FuseRaw) resolve(id uint64) (filesystem.Node, bool) {
	n, ok := r.vfs.ids.lookup(id)
	if !ok {
		return nil, false
	}
	live, ok := r.vfs.GetEntry(n.Path())
	if !ok || live != n {
		return nil, false
	}
	return n, true
}

// Lookup retrieves a child node by name, ignoring case
func (r *FuseRaw) Lookup(cancel <-chan struct{}, header *fuse.InHeader, name string, out *fuse.EntryOut) fuse.Status {
	logger := util.GetLogger("Fuse.Lookup")
	logger.Trace().Uint64("parent", header.NodeId).Str("name", name).Msg("Lookup called")

	r.vfs.mu.RLock()
	defer r.vfs.mu.RUnlock()

	parent, ok := r.resolve(header.NodeId)
	if !ok {
		return fuse.ENOENT
	}
	dir, ok := parent.(*filesystem.Directory)
	if !ok {
		return fuse.ENOTDIR
	}
	child, ok := dir.Child(name)
	if !ok {
		return fuse.ENOENT
	}

	id := r.vfs.ids.idFor(child)
	out.NodeId = id
	fillAttr(&out.Attr, id, child)
	out.SetAttrTimeout(r.vfs.attrTimeout())
	out.SetEntryTimeout(r.vfs.entryTimeout())
	return fuse.OK
}

// Forget is called when the kernel discards entries from its dentry cache
func (r *FuseRaw) Forget(nodeID, nlookup uint64) {
	r.vfs.ids.forget(nodeID)
}

func (r *FuseRaw) GetAttr(cancel <-chan struct{}, input *fuse.GetAttrIn, out *fuse.AttrOut) fuse.Status {
	r.vfs.mu.RLock()
	defer r.vfs.mu.RUnlock()

	n, ok := r.resolve(input.NodeId)
	if !ok {
		return fuse.ENOENT
	}
	fillAttr(&out.Attr, input.NodeId, n)
	out.SetTimeout(r.vfs.attrTimeout())
	return fuse.OK
}

func (r *FuseRaw) OpenDir(cancel <-chan struct{}, input *fuse.OpenIn, out *fuse.OpenOut) fuse.Status {
	r.vfs.mu.RLock()
	defer r.vfs.mu.RUnlock()

	n, ok := r.resolve(input.NodeId)
	if !ok {
		return fuse.ENOENT
	}
	if !n.IsDirectory() {
		return fuse.ENOTDIR
	}
	return fuse.OK
}

func (r *FuseRaw) ReadDir(cancel <-chan struct{}, input *fuse.ReadIn, out *fuse.DirEntryList) fuse.Status {
	entries, status := r.dirEntries(input.NodeId)
	if !status.Ok() {
		return status
	}
	for i := input.Offset; i < uint64(len(entries)); i++ {
		if !out.AddDirEntry(entries[i]) {
			// buffer full; the kernel calls again with a new offset
			break
		}
	}
	return fuse.OK
}

func (r *FuseRaw) ReadDirPlus(cancel <-chan struct{}, input *fuse.ReadIn, out *fuse.DirEntryList) fuse.Status {
	entries, status := r.dirEntries(input.NodeId)
	if !status.Ok() {
		return status
	}

	r.vfs.mu.RLock()
	defer r.vfs.mu.RUnlock()
	for i := input.Offset; i < uint64(len(entries)); i++ {
		e := entries[i]
		entryOut := out.AddDirLookupEntry(e)
		if entryOut == nil {
			break
		}
		if e.Name == "." || e.Name == ".." {
			continue
		}
		n, ok := r.resolve(e.Ino)
		if !ok {
			continue
		}
		entryOut.NodeId = e.Ino
		fillAttr(&entryOut.Attr, e.Ino, n)
		entryOut.SetAttrTimeout(r.vfs.attrTimeout())
		entryOut.SetEntryTimeout(r.vfs.entryTimeout())
	}
	return fuse.OK
}

// dirEntries lists "." and ".." followed by the directory's children
func (r *FuseRaw) dirEntries(id uint64) ([]fuse.DirEntry, fuse.Status) {
	r.vfs.mu.RLock()
	defer r.vfs.mu.RUnlock()

	n, ok := r.resolve(id)
	if !ok {
		return nil, fuse.ENOENT
	}
	dir, ok := n.(*filesystem.Directory)
	if !ok {
		return nil, fuse.ENOTDIR
	}

	parentID := uint64(fuse.FUSE_ROOT_ID)
	if p := dir.Path().Parent(); p != nil {
		if parent, ok := r.vfs.GetEntry(p); ok {
			parentID = r.vfs.ids.idFor(parent)
		}
	}

	children := dir.Children()
	entries := make([]fuse.DirEntry, 0, len(children)+2)
	entries = append(entries,
		fuse.DirEntry{Name: ".", Mode: dirMode, Ino: id},
		fuse.DirEntry{Name: "..", Mode: dirMode, Ino: parentID},
	)
	for _, c := range children {
		mode := uint32(fileMode)
		if c.IsDirectory() {
			mode = dirMode
		}
		entries = append(entries, fuse.DirEntry{Name: c.Name(), Mode: mode, Ino: r.vfs.ids.idFor(c)})
	}
	return entries, fuse.OK
}

// Open allows read-only opens of files
func (r *FuseRaw) Open(cancel <-chan struct{}, input *fuse.OpenIn, out *fuse.OpenOut) fuse.Status {
	r.vfs.mu.RLock()
	defer r.vfs.mu.RUnlock()

	n, ok := r.resolve(input.NodeId)
	if !ok {
		return fuse.ENOENT
	}
	if n.IsDirectory() {
		return fuse.Status(syscall.EISDIR)
	}
	if input.Flags&(syscall.O_WRONLY|syscall.O_RDWR) != 0 {
		return fuse.Status(syscall.EROFS)
	}
	return fuse.OK
}

// Read returns no data; files carry no content
func (r *FuseRaw) Read(cancel <-chan struct{}, input *fuse.ReadIn, buf []byte) (fuse.ReadResult, fuse.Status) {
	return fuse.ReadResultData(nil), fuse.OK
}

func (r *FuseRaw) StatFs(cancel <-chan struct{}, input *fuse.InHeader, out *fuse.StatfsOut) fuse.Status {
	r.vfs.mu.RLock()
	defer r.vfs.mu.RUnlock()

	out.Files = uint64(r.vfs.Index().Count() + 1)
	out.Bsize = blkSize
	out.NameLen = 255
	return fuse.OK
}

func fillAttr(attr *fuse.Attr, id uint64, n filesystem.Node) {
	attr.Ino = id
	attr.Blksize = blkSize
	attr.Owner = fuse.Owner{Uid: uint32(os.Getuid()), Gid: uint32(os.Getgid())}
	if d, ok := n.(*filesystem.Directory); ok {
		attr.Mode = dirMode
		attr.Nlink = uint32(2 + len(d.Directories()))
		attr.Size = blkSize
	} else {
		attr.Mode = fileMode
		attr.Nlink = 1
		attr.Size = 0
	}
	mtime, ctime := n.ModifiedAt(), n.CreatedAt()
	attr.SetTimes(&mtime, &mtime, &ctime)
}
