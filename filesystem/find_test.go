package filesystem

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileNames(files []*File) []string {
	var out []string
	for _, f := range files {
		out = append(out, f.Path().Value())
	}
	return out
}

func dirNames(dirs []*Directory) []string {
	var out []string
	for _, d := range dirs {
		out = append(out, d.Path().Value())
	}
	return out
}

func newFindFS(t *testing.T) *FileSystem {
	t.Helper()
	fs, _, _ := newTestFS(t, nil)
	seed(t, fs,
		[]string{"a", "a/b", "docs"},
		[]string{"a/f.txt", "a/b/g.txt", "docs/readme.md", "top.txt"},
	)
	return fs
}

func TestFind_Predicate(t *testing.T) {
	t.Parallel()
	fs := newFindFS(t)

	files := fs.FindFiles(func(f *File) bool { return f.Path().Depth() == 1 })
	assert.Equal(t, []string{"vfs://top.txt"}, fileNames(files))

	dirs := fs.FindDirectories(func(d *Directory) bool { return !d.Empty() })
	assert.Equal(t, []string{"vfs://a", "vfs://a/b", "vfs://docs"}, dirNames(dirs))
}

func TestFind_Matching(t *testing.T) {
	t.Parallel()
	fs := newFindFS(t)

	files := fs.FindFilesMatching(regexp.MustCompile(`^vfs://a/.*\.txt$`))
	assert.Equal(t, []string{"vfs://a/b/g.txt", "vfs://a/f.txt"}, fileNames(files))

	dirs := fs.FindDirectoriesMatching(regexp.MustCompile(`(?i)DOCS`))
	assert.Equal(t, []string{"vfs://docs"}, dirNames(dirs))
}

func TestFind_Expr(t *testing.T) {
	t.Parallel()
	fs := newFindFS(t)

	files, err := fs.FindFilesExpr(`Ext == ".txt" && Depth > 1`)
	require.NoError(t, err)
	assert.Equal(t, []string{"vfs://a/b/g.txt", "vfs://a/f.txt"}, fileNames(files))

	files, err = fs.FindFilesExpr(`Parent == "vfs://docs"`)
	require.NoError(t, err)
	assert.Equal(t, []string{"vfs://docs/readme.md"}, fileNames(files))

	dirs, err := fs.FindDirectoriesExpr(`IsDir && Name startsWith "d"`)
	require.NoError(t, err)
	assert.Equal(t, []string{"vfs://docs"}, dirNames(dirs))

	_, err = fs.FindDirectoriesExpr(`Depth +`)
	assert.Error(t, err)
	_, err = fs.FindFilesExpr(`Name`)
	assert.Error(t, err, "non-boolean expressions are rejected")
}

func TestTree(t *testing.T) {
	t.Parallel()
	fs := newFindFS(t)

	want := "vfs://\n" +
		"├── a\n" +
		"│   ├── b\n" +
		"│   │   └── g.txt\n" +
		"│   └── f.txt\n" +
		"├── docs\n" +
		"│   └── readme.md\n" +
		"└── top.txt\n"
	assert.Equal(t, want, fs.Tree())

	empty, _, _ := newTestFS(t, nil)
	assert.Equal(t, "vfs://\n", empty.Tree())
}
