package filesystem

import (
	"fmt"

	"github.com/brettbedarf/vfs"
	"github.com/brettbedarf/vfs/internal/util"
)

// MoveDirectory relocates the directory at src, with its whole subtree, to
// dst. Every descendant keeps its path suffix below the moved directory.
// One Moved event per rewritten path is published once all rewrites are done.
//
// All new paths are validated before anything changes: a collision with an
// existing node fails with [vfs.ErrDuplicatePath] and leaves the namespace
// untouched. dst must not lie inside src.
func (fs *FileSystem) MoveDirectory(src, dst *vfs.Path) error {
	logger := util.GetLogger("FS.MoveDirectory")
	if src.IsRoot() || dst.IsRoot() {
		return vfs.NewError(vfs.OpMove, src.String(), vfs.ErrRootViolation)
	}
	dir, ok := fs.index.GetDirectory(src)
	if !ok {
		err := notFound(vfs.OpMove, vfs.KindDirectory, src)
		logger.Error().Err(err).Send()
		return err
	}
	from := dir.Path()
	if from.Value() == dst.Value() {
		return nil
	}
	if dst.StartsWith(from) && !dst.Equal(from) {
		return vfs.NewError(vfs.OpMove, dst.String(), fmt.Errorf("%w: cannot move %q into itself", vfs.ErrInvalidPath, from))
	}
	if err := fs.requireParent(vfs.OpMove, dst); err != nil {
		logger.Error().Err(err).Msg("Parent check failed")
		return err
	}

	plan, err := fs.planSubtree(from, func(old *vfs.Path) (*vfs.Path, error) {
		return old.Rebase(from, dst)
	})
	if err != nil {
		return vfs.NewError(vfs.OpMove, dst.String(), err)
	}
	if err := fs.relocate(vfs.OpMove, vfs.KindDirectory, vfs.EventMoved, plan); err != nil {
		logger.Error().Err(err).Send()
		return err
	}
	logger.Debug().Str("from", from.String()).Str("to", dst.String()).Int("paths", len(plan)).Msg("Directory moved")
	return nil
}

// MoveFile relocates the file at src to dst
func (fs *FileSystem) MoveFile(src, dst *vfs.Path) error {
	logger := util.GetLogger("FS.MoveFile")
	if dst.IsRoot() {
		return vfs.NewError(vfs.OpMove, dst.String(), vfs.ErrRootViolation)
	}
	file, ok := fs.TryGetFile(src)
	if !ok {
		err := notFound(vfs.OpMove, vfs.KindFile, src)
		logger.Error().Err(err).Send()
		return err
	}
	from := file.Path()
	if from.Value() == dst.Value() {
		return nil
	}
	if err := fs.requireParent(vfs.OpMove, dst); err != nil {
		logger.Error().Err(err).Msg("Parent check failed")
		return err
	}
	to, err := dst.As(vfs.KindFile)
	if err != nil {
		return err
	}

	plan := []rewrite{{node: file, old: from, new: to}}
	if err := fs.relocate(vfs.OpMove, vfs.KindFile, vfs.EventMoved, plan); err != nil {
		logger.Error().Err(err).Send()
		return err
	}
	logger.Debug().Str("from", from.String()).Str("to", to.String()).Msg("File moved")
	return nil
}
