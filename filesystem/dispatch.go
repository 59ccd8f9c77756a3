package filesystem

import (
	"fmt"

	"github.com/brettbedarf/vfs"
)

// CreateNode creates a directory or file at p depending on kind
func (fs *FileSystem) CreateNode(kind vfs.NodeKind, p *vfs.Path) (Node, error) {
	var (
		n   Node
		err error
	)
	switch kind {
	case vfs.KindDirectory:
		var d *Directory
		if d, err = fs.CreateDirectory(p); err == nil {
			n = d
		}
	case vfs.KindFile:
		var f *File
		if f, err = fs.CreateFile(p); err == nil {
			n = f
		}
	default:
		err = unknownKind(vfs.OpCreate, kind, p)
	}
	return n, err
}

// DeleteNode deletes the directory or file at p depending on kind
func (fs *FileSystem) DeleteNode(kind vfs.NodeKind, p *vfs.Path) error {
	switch kind {
	case vfs.KindDirectory:
		return fs.DeleteDirectory(p)
	case vfs.KindFile:
		return fs.DeleteFile(p)
	default:
		return unknownKind(vfs.OpDelete, kind, p)
	}
}

// MoveNode moves the directory or file at src to dst depending on kind
func (fs *FileSystem) MoveNode(kind vfs.NodeKind, src, dst *vfs.Path) error {
	switch kind {
	case vfs.KindDirectory:
		return fs.MoveDirectory(src, dst)
	case vfs.KindFile:
		return fs.MoveFile(src, dst)
	default:
		return unknownKind(vfs.OpMove, kind, src)
	}
}

// RenameNode renames the directory or file at p depending on kind
func (fs *FileSystem) RenameNode(kind vfs.NodeKind, p *vfs.Path, newName string) error {
	switch kind {
	case vfs.KindDirectory:
		return fs.RenameDirectory(p, newName)
	case vfs.KindFile:
		return fs.RenameFile(p, newName)
	default:
		return unknownKind(vfs.OpRename, kind, p)
	}
}

func unknownKind(op string, kind vfs.NodeKind, p *vfs.Path) error {
	return vfs.NewError(op, p.String(), fmt.Errorf("%w: unsupported node kind %s", vfs.ErrInvalidPath, kind))
}
