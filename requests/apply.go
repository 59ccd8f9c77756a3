package requests

import (
	"fmt"

	"github.com/brettbedarf/vfs/filesystem"
	"github.com/brettbedarf/vfs/internal/util"
)

// Apply creates the requested nodes in order. It stops at the first
// failure and returns how many requests were applied before it.
func Apply(fs *filesystem.FileSystem, reqs []*NodeRequest) (int, error) {
	logger := util.GetLogger("Requests.Apply")
	for i, req := range reqs {
		if err := applyOne(fs, req); err != nil {
			logger.Error().Err(err).Str("path", req.Path.String()).Msg("Failed to apply node definition")
			return i, fmt.Errorf("node %d (%s): %w", i, req.Path, err)
		}
	}
	logger.Debug().Int("nodes", len(reqs)).Msg("Applied node definitions")
	return len(reqs), nil
}

func applyOne(fs *filesystem.FileSystem, req *NodeRequest) error {
	if req.Parents {
		if _, err := fs.CreateDirectoryAll(req.Path.Parent()); err != nil {
			return err
		}
		if req.Path.IsDirectory() {
			_, err := fs.CreateDirectoryAll(req.Path)
			return err
		}
	}
	_, err := fs.CreateNode(req.Kind, req.Path)
	return err
}
