package filesystem

import (
	"github.com/brettbedarf/vfs"
	"github.com/brettbedarf/vfs/internal/util"
)

// DeleteDirectory removes the directory at p together with its whole subtree.
// Paths are removed deepest-first and one Deleted event is published for each.
// A path an observer removes while the delete is in progress is skipped.
func (fs *FileSystem) DeleteDirectory(p *vfs.Path) error {
	logger := util.GetLogger("FS.DeleteDirectory")
	if p.IsRoot() {
		return vfs.NewError(vfs.OpDelete, p.String(), vfs.ErrRootViolation)
	}
	dir, ok := fs.index.GetDirectory(p)
	if !ok {
		err := notFound(vfs.OpDelete, vfs.KindDirectory, p)
		logger.Error().Err(err).Send()
		return err
	}

	paths := fs.index.PathsStartingWith(dir.Path())
	entries := make([]vfs.Entry, 0, len(paths))
	for _, old := range paths {
		// an observer may already have removed it
		n, ok := fs.index.Get(old)
		if !ok {
			continue
		}
		fs.detach(n)
		fs.index.Remove(old)
		logger.Trace().Str("path", old.String()).Msg("Removed")

		entries = append(entries, vfs.Entry{Kind: n.Kind(), OldPath: old})
		fs.publish(vfs.Event{Kind: vfs.EventDeleted, NodeKind: n.Kind(), Path: old})
	}
	logger.Debug().Str("path", dir.Path().String()).Int("removed", len(paths)).Msg("Directory deleted")

	fs.record(vfs.NewChange(vfs.OpDelete, vfs.KindDirectory, dir.Path(), nil, entries))
	return nil
}

// DeleteFile removes the file at p
func (fs *FileSystem) DeleteFile(p *vfs.Path) error {
	logger := util.GetLogger("FS.DeleteFile")
	file, ok := fs.TryGetFile(p)
	if !ok {
		err := notFound(vfs.OpDelete, vfs.KindFile, p)
		logger.Error().Err(err).Send()
		return err
	}

	old := file.Path()
	fs.detach(file)
	fs.index.Remove(old)
	logger.Debug().Str("path", old.String()).Msg("File deleted")

	fs.publish(vfs.Event{Kind: vfs.EventDeleted, NodeKind: vfs.KindFile, Path: old})
	fs.record(vfs.NewChange(vfs.OpDelete, vfs.KindFile, old, nil,
		[]vfs.Entry{{Kind: vfs.KindFile, OldPath: old}}))
	return nil
}
