// Package server exposes a live namespace as a read-only FUSE mount.
package server

import (
	"sync"
	"time"

	"github.com/brettbedarf/vfs/config"
	"github.com/brettbedarf/vfs/filesystem"
	"github.com/brettbedarf/vfs/internal/util"
	"github.com/hanwen/go-fuse/v2/fuse"
)

// VFS contains the namespace with serialized access for the FUSE server.
// While mounted, mutate only through [VFS.Apply]; the embedded
// FileSystem methods take no lock themselves.
type VFS struct {
	*filesystem.FileSystem
	cfg    *config.Config
	mu     sync.RWMutex
	ids    *nodeIDs
	server *fuse.Server
}

// New creates a VFS instance given your config. A nil cfg uses the defaults.
func New(cfg *config.Config) *VFS {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	fs := filesystem.NewFS(cfg)
	return &VFS{
		FileSystem: fs,
		cfg:        cfg,
		ids:        newNodeIDs(fs.Root()),
	}
}

// Apply runs fn with exclusive access to the namespace
func (v *VFS) Apply(fn func(fs *filesystem.FileSystem) error) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return fn(v.FileSystem)
}

// View runs fn with shared read access to the namespace
func (v *VFS) View(fn func(fs *filesystem.FileSystem) error) error {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return fn(v.FileSystem)
}

// Serve mounts and serves the namespace at the given mountPoint.
func (v *VFS) Serve(mountPoint string) error {
	raw := NewFuseRaw(v)
	opts := v.cfg.MountOptions
	srv, err := fuse.NewServer(raw, mountPoint, &fuse.MountOptions{
		Name:    opts.Name,
		FsName:  opts.FsName,
		Debug:   opts.Debug || v.cfg.LogLvl == util.TraceLevel,
		Logger:  util.NewLogLogger("FuseServer"),
		Options: []string{"ro"},
	})
	if err != nil {
		return err
	}
	v.server = srv

	go srv.Serve()
	return srv.WaitMount()
}

func (v *VFS) ServeAsync(mountPoint string) <-chan error {
	done := make(chan error, 1)

	go func() {
		done <- v.Serve(mountPoint)
		close(done)
	}()

	return done
}

// Unmount cleanly unmounts the namespace.
func (v *VFS) Unmount() error {
	if v.server == nil {
		return nil
	}
	return v.server.Unmount()
}

func (v *VFS) attrTimeout() time.Duration {
	return time.Duration(v.cfg.AttrTimeout * float64(time.Second))
}

func (v *VFS) entryTimeout() time.Duration {
	return time.Duration(v.cfg.EntryTimeout * float64(time.Second))
}
