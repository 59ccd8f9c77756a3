package filesystem

import (
	"errors"
	"testing"

	"github.com/brettbedarf/vfs"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFile(t *testing.T) {
	t.Parallel()
	f := NewFile(vfs.MustFilePath("docs/readme.md"))

	assert.NotEqual(t, uuid.Nil, f.ID())
	assert.Equal(t, "readme.md", f.Name())
	assert.Equal(t, vfs.KindFile, f.Kind())
	assert.True(t, f.IsFile())
	assert.False(t, f.IsDirectory())
	assert.Equal(t, f.CreatedAt(), f.ModifiedAt())
	assert.Equal(t, "vfs://docs/readme.md", f.String())
}

func TestNewDirectory(t *testing.T) {
	t.Parallel()
	d := NewDirectory(vfs.MustDirectoryPath("docs"))

	assert.Equal(t, vfs.KindDirectory, d.Kind())
	assert.True(t, d.IsDirectory())
	assert.False(t, d.IsRoot())
	assert.True(t, d.Empty())
	assert.True(t, NewDirectory(vfs.Root()).IsRoot())
}

func TestNode_SetPathKeepsIdentity(t *testing.T) {
	t.Parallel()
	f := NewFile(vfs.MustFilePath("a.txt"))
	id, created := f.ID(), f.CreatedAt()

	f.setPath(vfs.MustFilePath("b.txt"))

	assert.Equal(t, id, f.ID())
	assert.Equal(t, created, f.CreatedAt())
	assert.False(t, f.ModifiedAt().Before(created))
	assert.Equal(t, "b.txt", f.Name())
}

func TestDirectory_AddChild(t *testing.T) {
	t.Parallel()

	t.Run("orders by case-folded path, directories first", func(t *testing.T) {
		t.Parallel()
		d := NewDirectory(vfs.MustDirectoryPath("d"))
		require.NoError(t, d.AddChild(NewFile(vfs.MustFilePath("d/z.txt"))))
		require.NoError(t, d.AddChild(NewDirectory(vfs.MustDirectoryPath("d/b"))))
		require.NoError(t, d.AddChild(NewDirectory(vfs.MustDirectoryPath("d/A"))))
		require.NoError(t, d.AddChild(NewFile(vfs.MustFilePath("d/a.txt"))))

		var names []string
		for _, c := range d.Children() {
			names = append(names, c.Name())
		}
		assert.Equal(t, []string{"A", "b", "a.txt", "z.txt"}, names)
		assert.Len(t, d.Directories(), 2)
		assert.Len(t, d.Files(), 2)
		assert.True(t, d.HasSubdirectories())
		assert.False(t, d.Empty())
	})

	t.Run("duplicate path", func(t *testing.T) {
		t.Parallel()
		d := NewDirectory(vfs.MustDirectoryPath("d"))
		require.NoError(t, d.AddChild(NewDirectory(vfs.MustDirectoryPath("d/sub"))))

		err := d.AddChild(NewDirectory(vfs.MustDirectoryPath("d/SUB")))
		assert.True(t, errors.Is(err, vfs.ErrDuplicatePath))
		assert.Len(t, d.Directories(), 1)
	})
}

func TestDirectory_RemoveChild(t *testing.T) {
	t.Parallel()
	d := NewDirectory(vfs.MustDirectoryPath("d"))
	f := NewFile(vfs.MustFilePath("d/f"))
	other := NewFile(vfs.MustFilePath("d/f"))
	require.NoError(t, d.AddChild(f))

	// same path, different node
	require.NoError(t, d.RemoveChild(other))
	assert.Len(t, d.Files(), 1)

	require.NoError(t, d.RemoveChild(f))
	assert.True(t, d.Empty())

	// absent is a no-op
	assert.NoError(t, d.RemoveChild(f))
}

func TestDirectory_Child(t *testing.T) {
	t.Parallel()
	d := NewDirectory(vfs.MustDirectoryPath("d"))
	require.NoError(t, d.AddChild(NewFile(vfs.MustFilePath("d/Notes.TXT"))))

	c, ok := d.Child("notes.txt")
	require.True(t, ok)
	assert.Equal(t, "Notes.TXT", c.Name())

	_, ok = d.Child("missing")
	assert.False(t, ok)
}
