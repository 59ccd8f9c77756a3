package filesystem

import (
	"github.com/brettbedarf/vfs"
	"github.com/brettbedarf/vfs/internal/util"
)

// RenameDirectory changes the last segment of the directory at p to newName.
// The directory stays under the same parent; every descendant path has the
// old segment replaced at the same offset. Publishes one Renamed event per
// rewritten path.
func (fs *FileSystem) RenameDirectory(p *vfs.Path, newName string) error {
	logger := util.GetLogger("FS.RenameDirectory")
	if p.IsRoot() {
		return vfs.NewError(vfs.OpRename, p.String(), vfs.ErrRootViolation)
	}
	if err := vfs.ValidateName(newName); err != nil {
		return err
	}
	dir, ok := fs.index.GetDirectory(p)
	if !ok {
		err := notFound(vfs.OpRename, vfs.KindDirectory, p)
		logger.Error().Err(err).Send()
		return err
	}
	from := dir.Path()
	if from.Name() == newName {
		return nil
	}

	to, err := from.Parent().Join(newName, vfs.KindDirectory)
	if err != nil {
		return err
	}
	plan, err := fs.planSubtree(from, func(old *vfs.Path) (*vfs.Path, error) {
		return old.Rebase(from, to)
	})
	if err != nil {
		return vfs.NewError(vfs.OpRename, p.String(), err)
	}
	if err := fs.relocate(vfs.OpRename, vfs.KindDirectory, vfs.EventRenamed, plan); err != nil {
		logger.Error().Err(err).Send()
		return err
	}
	logger.Debug().Str("path", from.String()).Str("name", newName).Int("paths", len(plan)).Msg("Directory renamed")
	return nil
}

// RenameFile changes the name of the file at p to newName
func (fs *FileSystem) RenameFile(p *vfs.Path, newName string) error {
	logger := util.GetLogger("FS.RenameFile")
	if err := vfs.ValidateName(newName); err != nil {
		return err
	}
	file, ok := fs.TryGetFile(p)
	if !ok {
		err := notFound(vfs.OpRename, vfs.KindFile, p)
		logger.Error().Err(err).Send()
		return err
	}
	from := file.Path()
	if from.Name() == newName {
		return nil
	}
	to, err := from.Parent().Join(newName, vfs.KindFile)
	if err != nil {
		return err
	}

	plan := []rewrite{{node: file, old: from, new: to}}
	if err := fs.relocate(vfs.OpRename, vfs.KindFile, vfs.EventRenamed, plan); err != nil {
		logger.Error().Err(err).Send()
		return err
	}
	logger.Debug().Str("path", from.String()).Str("name", newName).Msg("File renamed")
	return nil
}
