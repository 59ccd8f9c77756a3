package filesystem

import (
	"fmt"

	"github.com/brettbedarf/vfs"
	"github.com/brettbedarf/vfs/internal/util"
)

// CreateDirectory adds an empty directory at p.
//
// The parent is expected to exist. Without StrictParents a missing parent
// leaves the new directory indexed but unreachable from the root.
func (fs *FileSystem) CreateDirectory(p *vfs.Path) (*Directory, error) {
	logger := util.GetLogger("FS.CreateDirectory")
	if p.IsRoot() {
		return nil, vfs.NewError(vfs.OpCreate, p.String(), vfs.ErrRootViolation)
	}
	if err := fs.requireParent(vfs.OpCreate, p); err != nil {
		logger.Error().Err(err).Msg("Parent check failed")
		return nil, err
	}

	dir := NewDirectory(p)
	if err := fs.insert(vfs.OpCreate, dir); err != nil {
		return nil, err
	}
	logger.Debug().Str("path", p.String()).Msg("Directory created")

	fs.publish(vfs.Event{Kind: vfs.EventCreated, NodeKind: vfs.KindDirectory, Path: p})
	fs.record(vfs.NewChange(vfs.OpCreate, vfs.KindDirectory, p, nil,
		[]vfs.Entry{{Kind: vfs.KindDirectory, NewPath: p}}))
	return dir, nil
}

// CreateFile adds a file at p. Parent handling matches [FileSystem.CreateDirectory].
func (fs *FileSystem) CreateFile(p *vfs.Path) (*File, error) {
	logger := util.GetLogger("FS.CreateFile")
	if p.IsRoot() {
		return nil, vfs.NewError(vfs.OpCreate, p.String(), vfs.ErrRootViolation)
	}
	if err := fs.requireParent(vfs.OpCreate, p); err != nil {
		logger.Error().Err(err).Msg("Parent check failed")
		return nil, err
	}

	file := NewFile(p)
	if err := fs.insert(vfs.OpCreate, file); err != nil {
		return nil, err
	}
	logger.Debug().Str("path", p.String()).Msg("File created")

	fs.publish(vfs.Event{Kind: vfs.EventCreated, NodeKind: vfs.KindFile, Path: p})
	fs.record(vfs.NewChange(vfs.OpCreate, vfs.KindFile, p, nil,
		[]vfs.Entry{{Kind: vfs.KindFile, NewPath: p}}))
	return file, nil
}

// CreateDirectoryAll creates the directory at p along with any missing
// ancestors, like mkdir -p. Existing directories are kept; an ancestor that
// exists as a file is an [vfs.ErrDuplicatePath] error.
// Returns the directory at p, existing or new.
func (fs *FileSystem) CreateDirectoryAll(p *vfs.Path) (*Directory, error) {
	if p.IsRoot() {
		return fs.root, nil
	}
	if d, ok := fs.TryGetDirectory(p); ok {
		return d, nil
	}
	if fs.index.Contains(p) {
		return nil, vfs.NewError(vfs.OpCreate, p.String(), fmt.Errorf("%w: a file exists at this path", vfs.ErrDuplicatePath))
	}
	if _, err := fs.CreateDirectoryAll(p.Parent()); err != nil {
		return nil, err
	}
	return fs.CreateDirectory(p)
}

// insert indexes n and links it under its parent
func (fs *FileSystem) insert(op string, n Node) error {
	if !fs.index.TryAdd(n.Path(), n) {
		err := vfs.NewError(op, n.Path().String(), vfs.ErrDuplicatePath)
		logger := util.GetLogger("FS.insert")
		logger.Error().Err(err).Send()
		return err
	}
	if _, err := fs.attach(n); err != nil {
		fs.index.Remove(n.Path())
		return err
	}
	return nil
}
