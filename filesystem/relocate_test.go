package filesystem

import (
	"errors"
	"strings"
	"testing"

	"github.com/brettbedarf/vfs"
	"github.com/brettbedarf/vfs/config"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func indexValues(fs *FileSystem) []string {
	return values(fs.Index().Keys())
}

func TestMoveDirectory(t *testing.T) {
	t.Parallel()
	fs, obs, rec := newTestFS(t, nil)
	seed(t, fs, []string{"a", "a/b", "a/b/c", "x"}, []string{"a/b/c/f.txt"})
	b, _ := fs.TryGetDirectory(vfs.MustDirectoryPath("a/b"))
	id := b.ID()
	resetCalls(obs, rec)

	require.NoError(t, fs.MoveDirectory(vfs.MustDirectoryPath("A/b"), vfs.MustDirectoryPath("x/b2")))

	want := []string{"vfs://a", "vfs://x", "vfs://x/b2", "vfs://x/b2/c", "vfs://x/b2/c/f.txt"}
	if diff := cmp.Diff(want, indexValues(fs)); diff != "" {
		t.Errorf("index mismatch (-want +got):\n%s", diff)
	}

	moved, err := fs.GetDirectory(vfs.MustDirectoryPath("x/b2"))
	require.NoError(t, err)
	assert.Same(t, b, moved)
	assert.Equal(t, id, moved.ID())

	a, _ := fs.TryGetDirectory(vfs.MustDirectoryPath("a"))
	x, _ := fs.TryGetDirectory(vfs.MustDirectoryPath("x"))
	assert.True(t, a.Empty())
	assert.Equal(t, []string{"b2"}, childNames(x))
	require.Len(t, moved.Directories(), 1)
	c := moved.Directories()[0]
	assert.Equal(t, "vfs://x/b2/c", c.Path().Value())
	assert.Equal(t, "vfs://x/b2/c/f.txt", c.Files()[0].Path().Value())

	events := obs.Events()
	require.Len(t, events, 3)
	assert.Equal(t, []string{"vfs://a/b/c/f.txt", "vfs://a/b/c", "vfs://a/b"}, eventPaths(events))
	for _, e := range events {
		assert.Equal(t, vfs.EventMoved, e.Kind)
	}
	assert.Equal(t, "vfs://x/b2", events[2].NewPath.Value())

	changes := rec.Changes()
	require.Len(t, changes, 1)
	assert.Equal(t, vfs.OpMove, changes[0].Op)
	assert.Equal(t, "vfs://a/b", changes[0].Path.Value())
	assert.Equal(t, "vfs://x/b2", changes[0].NewPath.Value())
	assert.Len(t, changes[0].Entries, 3)
}

func TestMoveDirectory_ToTopLevel(t *testing.T) {
	t.Parallel()
	fs, _, _ := newTestFS(t, nil)
	seed(t, fs, []string{"a", "a/b"}, []string{"a/b/f"})

	require.NoError(t, fs.MoveDirectory(vfs.MustDirectoryPath("a/b"), vfs.MustDirectoryPath("top")))

	assert.Equal(t, []string{"vfs://a", "vfs://top", "vfs://top/f"}, indexValues(fs))
	assert.Equal(t, []string{"a", "top"}, childNames(fs.Root()))
}

func TestMoveDirectory_SegmentBoundary(t *testing.T) {
	t.Parallel()
	fs, _, _ := newTestFS(t, nil)
	seed(t, fs, []string{"dir1", "dir1/a", "dir10"}, nil)

	require.NoError(t, fs.MoveDirectory(vfs.MustDirectoryPath("dir1"), vfs.MustDirectoryPath("z")))

	assert.Equal(t, []string{"vfs://dir10", "vfs://z", "vfs://z/a"}, indexValues(fs))
}

func TestMoveDirectory_Errors(t *testing.T) {
	t.Parallel()
	fs, obs, rec := newTestFS(t, nil)
	seed(t, fs, []string{"a", "a/b", "c", "c/b"}, []string{"f"})
	before := indexValues(fs)
	resetCalls(obs, rec)

	tests := []struct {
		name string
		src  string
		dst  string
		want error
	}{
		{"into own subtree", "a", "a/b/new", vfs.ErrInvalidPath},
		{"collision", "a/b", "c/B", vfs.ErrDuplicatePath},
		{"missing source", "nope", "x", vfs.ErrNotFound},
		{"file source", "f", "x", vfs.ErrNotFound},
		{"root source", "vfs://", "x", vfs.ErrRootViolation},
		{"root destination", "a", "/", vfs.ErrRootViolation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fs.MoveDirectory(vfs.MustDirectoryPath(tt.src), vfs.MustDirectoryPath(tt.dst))
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}

	assert.Equal(t, before, indexValues(fs))
	assert.Empty(t, obs.Events())
	assert.Empty(t, rec.Changes())
}

func TestMoveDirectory_StrictParents(t *testing.T) {
	t.Parallel()
	cfg := config.NewDefaultConfig()
	cfg.StrictParents = true
	fs, _, _ := newTestFS(t, cfg)
	seed(t, fs, []string{"a"}, nil)

	err := fs.MoveDirectory(vfs.MustDirectoryPath("a"), vfs.MustDirectoryPath("missing/a"))
	assert.True(t, errors.Is(err, vfs.ErrMissingParent))
	assert.True(t, fs.Exists(vfs.MustDirectoryPath("a")))
}

func TestMoveDirectory_OrphanedDestination(t *testing.T) {
	t.Parallel()
	fs, _, _ := newTestFS(t, nil)
	seed(t, fs, []string{"a"}, nil)

	require.NoError(t, fs.MoveDirectory(vfs.MustDirectoryPath("a"), vfs.MustDirectoryPath("missing/a")))
	assert.True(t, fs.Exists(vfs.MustDirectoryPath("missing/a")))
	assert.True(t, fs.Root().Empty())
}

func TestMoveFile(t *testing.T) {
	t.Parallel()
	fs, obs, rec := newTestFS(t, nil)
	seed(t, fs, []string{"a", "x"}, []string{"a/f.txt", "x/taken"})
	resetCalls(obs, rec)

	require.NoError(t, fs.MoveFile(vfs.MustFilePath("a/f.txt"), vfs.MustDirectoryPath("x/g.txt")))

	g, err := fs.GetFile(vfs.MustFilePath("x/g.txt"))
	require.NoError(t, err)
	assert.True(t, g.Path().IsFile())
	a, _ := fs.TryGetDirectory(vfs.MustDirectoryPath("a"))
	x, _ := fs.TryGetDirectory(vfs.MustDirectoryPath("x"))
	assert.True(t, a.Empty())
	assert.Equal(t, []string{"g.txt", "taken"}, childNames(x))

	events := obs.Events()
	require.Len(t, events, 1)
	assert.Equal(t, vfs.EventMoved, events[0].Kind)
	assert.Equal(t, "vfs://a/f.txt", events[0].Path.Value())
	assert.Equal(t, "vfs://x/g.txt", events[0].NewPath.Value())
	assert.Len(t, rec.Changes(), 1)

	err = fs.MoveFile(vfs.MustFilePath("x/g.txt"), vfs.MustFilePath("x/TAKEN"))
	assert.True(t, errors.Is(err, vfs.ErrDuplicatePath))
	err = fs.MoveFile(vfs.MustFilePath("a/f.txt"), vfs.MustFilePath("x/h"))
	assert.True(t, errors.Is(err, vfs.ErrNotFound))
	err = fs.MoveFile(vfs.MustFilePath("x/g.txt"), vfs.Root())
	assert.True(t, errors.Is(err, vfs.ErrRootViolation))
}

func TestRenameDirectory_PreservesShape(t *testing.T) {
	t.Parallel()
	fs, obs, rec := newTestFS(t, nil)
	seed(t, fs, []string{"dir1", "dir1/dir2", "dir1/dir2/dir3"}, []string{"dir1/dir2/dir3/f"})
	count := fs.Index().Count()
	resetCalls(obs, rec)

	require.NoError(t, fs.RenameDirectory(vfs.MustDirectoryPath("dir1/dir2/dir3"), "new_dir"))

	assert.Equal(t, count, fs.Index().Count())
	assert.True(t, fs.Exists(vfs.MustDirectoryPath("dir1/dir2/new_dir")))
	assert.True(t, fs.Exists(vfs.MustFilePath("dir1/dir2/new_dir/f")))
	for _, v := range indexValues(fs) {
		assert.NotContains(t, v, "dir3")
	}

	dir2, _ := fs.TryGetDirectory(vfs.MustDirectoryPath("dir1/dir2"))
	assert.Equal(t, []string{"new_dir"}, childNames(dir2))

	events := obs.Events()
	require.Len(t, events, 2)
	assert.Equal(t, vfs.EventRenamed, events[1].Kind)
	assert.Equal(t, "File 'vfs://dir1/dir2/dir3/f' was renamed to 'f'.", events[0].Message())
	assert.Equal(t, "vfs://dir1/dir2/new_dir", events[1].NewPath.Value())

	changes := rec.Changes()
	require.Len(t, changes, 1)
	assert.Equal(t, vfs.OpRename, changes[0].Op)
}

func TestRenameDirectory_TopLevel(t *testing.T) {
	t.Parallel()
	fs, _, _ := newTestFS(t, nil)
	seed(t, fs, []string{"docs", "docs/sub", "other"}, []string{"docs/sub/a.txt"})

	require.NoError(t, fs.RenameDirectory(vfs.MustDirectoryPath("docs"), "notes"))

	want := []string{"vfs://notes", "vfs://notes/sub", "vfs://notes/sub/a.txt", "vfs://other"}
	assert.Equal(t, want, indexValues(fs))
	assert.Equal(t, []string{"notes", "other"}, childNames(fs.Root()))
}

func TestRenameDirectory_CaseOnly(t *testing.T) {
	t.Parallel()
	fs, obs, rec := newTestFS(t, nil)
	seed(t, fs, []string{"docs", "docs/sub"}, nil)
	resetCalls(obs, rec)

	require.NoError(t, fs.RenameDirectory(vfs.MustDirectoryPath("docs"), "Docs"))

	assert.Equal(t, []string{"vfs://Docs", "vfs://Docs/sub"}, indexValues(fs))
	assert.Equal(t, []string{"Docs"}, childNames(fs.Root()))
	assert.Len(t, obs.Events(), 2)

	// same name is a no-op
	resetCalls(obs, rec)
	require.NoError(t, fs.RenameDirectory(vfs.MustDirectoryPath("docs"), "Docs"))
	assert.Empty(t, obs.Events())
	assert.Empty(t, rec.Changes())
}

func TestRenameDirectory_Errors(t *testing.T) {
	t.Parallel()
	fs, obs, _ := newTestFS(t, nil)
	seed(t, fs, []string{"a", "a/c", "b"}, []string{"f"})
	before := indexValues(fs)
	obs.Calls = nil

	assert.True(t, errors.Is(fs.RenameDirectory(vfs.MustDirectoryPath("a"), "B"), vfs.ErrDuplicatePath))
	assert.True(t, errors.Is(fs.RenameDirectory(vfs.MustDirectoryPath("a"), "x/y"), vfs.ErrInvalidPath))
	assert.True(t, errors.Is(fs.RenameDirectory(vfs.MustDirectoryPath("a"), ".."), vfs.ErrInvalidPath))
	assert.True(t, errors.Is(fs.RenameDirectory(vfs.MustDirectoryPath("a"), " "), vfs.ErrInvalidPath))
	assert.True(t, errors.Is(fs.RenameDirectory(vfs.MustDirectoryPath("a"), "x "), vfs.ErrInvalidPath))
	assert.True(t, errors.Is(fs.RenameDirectory(vfs.MustDirectoryPath("a"), " x"), vfs.ErrInvalidPath))
	assert.True(t, errors.Is(fs.RenameDirectory(vfs.MustDirectoryPath("f"), "g"), vfs.ErrNotFound))
	assert.True(t, errors.Is(fs.RenameDirectory(vfs.Root(), "g"), vfs.ErrRootViolation))

	assert.Equal(t, before, indexValues(fs))
	assert.Empty(t, obs.Events())
}

func TestRenameFile(t *testing.T) {
	t.Parallel()
	fs, obs, rec := newTestFS(t, nil)
	seed(t, fs, []string{"a"}, []string{"a/f.txt", "a/h.txt", "top.txt"})
	resetCalls(obs, rec)

	require.NoError(t, fs.RenameFile(vfs.MustFilePath("a/f.txt"), "g.txt"))
	require.NoError(t, fs.RenameFile(vfs.MustFilePath("top.txt"), "root.txt"))

	a, _ := fs.TryGetDirectory(vfs.MustDirectoryPath("a"))
	assert.Equal(t, []string{"g.txt", "h.txt"}, childNames(a))
	assert.Equal(t, []string{"a", "root.txt"}, childNames(fs.Root()))

	events := obs.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "File 'vfs://a/f.txt' was renamed to 'g.txt'.", events[0].Message())
	assert.Len(t, rec.Changes(), 2)

	err := fs.RenameFile(vfs.MustFilePath("a/g.txt"), "H.TXT")
	assert.True(t, errors.Is(err, vfs.ErrDuplicatePath))
	err = fs.RenameFile(vfs.MustFilePath("a/missing"), "x")
	assert.True(t, errors.Is(err, vfs.ErrNotFound))
	err = fs.RenameFile(vfs.MustFilePath("a/g.txt"), "g2.txt ")
	assert.True(t, errors.Is(err, vfs.ErrInvalidPath))
	assert.True(t, fs.Exists(vfs.MustFilePath("a/g.txt")))
}

func TestRelocate_FoldedNamesStayLinked(t *testing.T) {
	t.Parallel()
	fs, _, _ := newTestFS(t, nil)
	// the Kelvin sign folds to "k", which is shorter in bytes
	seed(t, fs, []string{"\u212A", "k/sub"}, []string{"k/sub/f"})

	kelvin, ok := fs.TryGetDirectory(vfs.MustDirectoryPath("K"))
	require.True(t, ok)
	assert.Equal(t, []string{"sub"}, childNames(kelvin))

	require.NoError(t, fs.RenameDirectory(vfs.MustDirectoryPath("\u212A"), "m"))
	assert.Equal(t, []string{"vfs://m", "vfs://m/sub", "vfs://m/sub/f"}, indexValues(fs))

	require.NoError(t, fs.MoveDirectory(vfs.MustDirectoryPath("m"), vfs.MustDirectoryPath("\u212A")))
	assert.Equal(t, []string{"vfs://\u212A", "vfs://\u212A/sub", "vfs://\u212A/sub/f"}, indexValues(fs))

	require.NoError(t, fs.DeleteDirectory(vfs.MustDirectoryPath("k")))
	assert.True(t, fs.Index().IsEmpty())
	assert.True(t, fs.Root().Empty())
}

func TestRelocate_KeepsTreeAndIndexInSync(t *testing.T) {
	t.Parallel()
	fs, _, _ := newTestFS(t, nil)
	seed(t, fs, []string{"p", "p/q", "p/q/r", "p/s", "t"}, []string{"p/q/r/1", "p/s/2", "t/3"})

	require.NoError(t, fs.MoveDirectory(vfs.MustDirectoryPath("p/q"), vfs.MustDirectoryPath("t/q")))
	require.NoError(t, fs.RenameDirectory(vfs.MustDirectoryPath("t"), "u"))
	require.NoError(t, fs.MoveFile(vfs.MustFilePath("p/s/2"), vfs.MustFilePath("u/q/r/2")))
	require.NoError(t, fs.DeleteDirectory(vfs.MustDirectoryPath("p")))

	// every indexed node is reachable from the root and vice versa
	var walked []string
	var walk func(d *Directory)
	walk = func(d *Directory) {
		for _, c := range d.Children() {
			walked = append(walked, c.Path().Value())
			if sub, ok := c.(*Directory); ok {
				walk(sub)
			}
		}
	}
	walk(fs.Root())

	indexed := indexValues(fs)
	assert.ElementsMatch(t, indexed, walked)
	for _, v := range indexed {
		assert.True(t, strings.HasPrefix(v, "vfs://u"), v)
	}
	assert.Len(t, indexed, 6)
}
