package filesystem

import (
	"fmt"
	"path"
	"regexp"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// FindFiles returns every indexed file matching pred, in path order
func (fs *FileSystem) FindFiles(pred func(*File) bool) []*File {
	var out []*File
	for _, f := range fs.index.Files() {
		if pred(f) {
			out = append(out, f)
		}
	}
	return out
}

// FindDirectories returns every indexed directory matching pred, in path order.
// The root is never included.
func (fs *FileSystem) FindDirectories(pred func(*Directory) bool) []*Directory {
	var out []*Directory
	for _, d := range fs.index.Directories() {
		if pred(d) {
			out = append(out, d)
		}
	}
	return out
}

// FindFilesMatching returns files whose canonical path matches re
func (fs *FileSystem) FindFilesMatching(re *regexp.Regexp) []*File {
	return fs.FindFiles(func(f *File) bool { return f.Path().IsMatch(re) })
}

// FindDirectoriesMatching returns directories whose canonical path matches re
func (fs *FileSystem) FindDirectoriesMatching(re *regexp.Regexp) []*Directory {
	return fs.FindDirectories(func(d *Directory) bool { return d.Path().IsMatch(re) })
}

// QueryEnv is the environment a find expression is evaluated against, once
// per node. Example: `Depth > 1 && Ext == ".txt"`.
type QueryEnv struct {
	Path   string // canonical path
	Name   string
	Parent string // canonical parent path
	Depth  int
	IsDir  bool
	IsFile bool
	Ext    string // file extension including the dot, empty for none
}

func newQueryEnv(n Node) QueryEnv {
	p := n.Path()
	env := QueryEnv{
		Path:   p.Value(),
		Name:   p.Name(),
		Depth:  p.Depth(),
		IsDir:  n.IsDirectory(),
		IsFile: n.IsFile(),
		Ext:    path.Ext(p.Name()),
	}
	if parent := p.Parent(); parent != nil {
		env.Parent = parent.Value()
	}
	return env
}

// CompileQuery compiles a boolean find expression over [QueryEnv]
func CompileQuery(src string) (*vm.Program, error) {
	prg, err := expr.Compile(src, expr.Env(QueryEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("invalid query %q: %w", src, err)
	}
	return prg, nil
}

func matchQuery(prg *vm.Program, n Node) (bool, error) {
	out, err := expr.Run(prg, newQueryEnv(n))
	if err != nil {
		return false, fmt.Errorf("query failed on %s: %w", n.Path(), err)
	}
	return out.(bool), nil
}

// FindFilesExpr returns the files for which the expression src is true
func (fs *FileSystem) FindFilesExpr(src string) ([]*File, error) {
	prg, err := CompileQuery(src)
	if err != nil {
		return nil, err
	}
	var out []*File
	for _, f := range fs.index.Files() {
		ok, err := matchQuery(prg, f)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, f)
		}
	}
	return out, nil
}

// FindDirectoriesExpr returns the directories for which the expression src is true
func (fs *FileSystem) FindDirectoriesExpr(src string) ([]*Directory, error) {
	prg, err := CompileQuery(src)
	if err != nil {
		return nil, err
	}
	var out []*Directory
	for _, d := range fs.index.Directories() {
		ok, err := matchQuery(prg, d)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, d)
		}
	}
	return out, nil
}
