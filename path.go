// Package vfs contains the core domain types of the in-memory virtual namespace:
// canonical paths, the error family, node kinds and change notifications.
package vfs

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

const (
	// Scheme prefixes every canonical path. The root path is the scheme alone.
	Scheme = "vfs://"

	// Separator delimits path segments
	Separator = "/"

	// schemeDelim may occur exactly once in a canonical path
	schemeDelim = "//"
)

// NodeKind distinguishes directories from files. The root is a directory.
type NodeKind int

const (
	KindDirectory NodeKind = iota
	KindFile
)

func (k NodeKind) String() string {
	switch k {
	case KindDirectory:
		return "directory"
	case KindFile:
		return "file"
	default:
		return fmt.Sprintf("NodeKind(%d)", int(k))
	}
}

// Path is an immutable, canonical namespace path such as "vfs://dir/file.txt".
// Paths compare case-insensitively but keep the case they were created with.
// A structural change never mutates a Path; it produces a new one.
//
// Always handle paths as *Path; the zero value is not usable.
type Path struct {
	value       string
	withoutRoot string
	name        string
	depth       int
	kind        NodeKind

	parentOnce sync.Once
	parent     *Path
}

var rootPath = &Path{
	value: Scheme,
	name:  Scheme,
	depth: -1,
	kind:  KindDirectory,
}

// Root returns the root path singleton
func Root() *Path {
	return rootPath
}

// NewDirectoryPath parses raw into a canonical directory path.
// Root input ("vfs://", "/") returns [Root].
func NewDirectoryPath(raw string) (*Path, error) {
	return parse(raw, KindDirectory)
}

// NewFilePath parses raw into a canonical file path. Files cannot be root.
func NewFilePath(raw string) (*Path, error) {
	return parse(raw, KindFile)
}

// NewPath parses raw into a canonical path of the given kind
func NewPath(raw string, kind NodeKind) (*Path, error) {
	return parse(raw, kind)
}

// MustDirectoryPath is like [NewDirectoryPath] but panics on invalid input.
// Intended for literals and tests.
func MustDirectoryPath(raw string) *Path {
	p, err := NewDirectoryPath(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// MustFilePath is like [NewFilePath] but panics on invalid input.
func MustFilePath(raw string) *Path {
	p, err := NewFilePath(raw)
	if err != nil {
		panic(err)
	}
	return p
}

func parse(raw string, kind NodeKind) (*Path, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, NewError(OpParse, raw, fmt.Errorf("%w: empty path", ErrInvalidPath))
	}

	clean := cleanInput(raw)
	if clean == Scheme {
		if kind == KindFile {
			return nil, NewError(OpParse, raw, fmt.Errorf("%w: a file path cannot be the root", ErrInvalidPath))
		}
		return rootPath, nil
	}

	rest := clean[len(Scheme):]
	for _, seg := range strings.Split(rest, Separator) {
		if seg == "." || seg == ".." {
			return nil, NewError(OpParse, clean, fmt.Errorf("%w: contains a relative path segment", ErrInvalidPath))
		}
		if seg != strings.TrimSpace(seg) {
			return nil, NewError(OpParse, clean, fmt.Errorf("%w: segment %q has surrounding whitespace", ErrInvalidPath, seg))
		}
	}
	if strings.Count(clean, schemeDelim) > 1 {
		return nil, NewError(OpParse, clean, fmt.Errorf("%w: malformed path", ErrInvalidPath))
	}

	return newCanonical(rest, kind), nil
}

// newCanonical builds a Path from an already validated scheme-less string
func newCanonical(rest string, kind NodeKind) *Path {
	name := rest
	if idx := strings.LastIndex(rest, Separator); idx >= 0 {
		name = rest[idx+1:]
	}
	return &Path{
		value:       Scheme + rest,
		withoutRoot: rest,
		name:        name,
		depth:       strings.Count(rest, Separator) + 1,
		kind:        kind,
	}
}

// cleanInput trims whitespace and slashes, converts backslashes and
// (re)applies the lower-case scheme prefix
func cleanInput(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, `\`, Separator)
	if hasScheme(s) {
		s = s[len(Scheme):]
	}
	s = strings.Trim(s, Separator)
	return Scheme + s
}

func hasScheme(s string) bool {
	return len(s) >= len(Scheme) && strings.EqualFold(s[:len(Scheme)], Scheme)
}

// String returns the canonical value
func (p *Path) String() string {
	return p.value
}

// Value returns the canonical, scheme-prefixed form
func (p *Path) Value() string {
	return p.value
}

// WithoutRoot returns the canonical form with the scheme stripped
func (p *Path) WithoutRoot() string {
	return p.withoutRoot
}

// Key returns the case-folded form used for index and child lookups.
// Equal and StartsWith compare keys too.
func (p *Path) Key() string {
	return Fold(p.value)
}

// Fold is the case folding applied to path keys and child names
func Fold(s string) string {
	return strings.ToLower(s)
}

func (p *Path) Kind() NodeKind {
	return p.kind
}

func (p *Path) IsRoot() bool {
	return p == rootPath || p.value == Scheme
}

func (p *Path) IsDirectory() bool {
	return p.kind == KindDirectory
}

func (p *Path) IsFile() bool {
	return p.kind == KindFile
}

// Name returns the final segment. The root's name is the scheme itself.
func (p *Path) Name() string {
	return p.name
}

// Depth returns -1 for the root and the number of segments otherwise
func (p *Path) Depth() int {
	return p.depth
}

// Parent returns the parent directory path, or nil for the root.
// Computed once on first access.
func (p *Path) Parent() *Path {
	if p.IsRoot() {
		return nil
	}
	p.parentOnce.Do(func() {
		idx := strings.LastIndex(p.withoutRoot, Separator)
		if idx < 0 {
			p.parent = rootPath
			return
		}
		p.parent = newCanonical(p.withoutRoot[:idx], KindDirectory)
	})
	return p.parent
}

func (p *Path) HasParent() bool {
	return p.Parent() != nil
}

// Equal reports whether both paths have the same canonical value, ignoring case
func (p *Path) Equal(other *Path) bool {
	if p == nil || other == nil {
		return p == other
	}
	return p.Key() == other.Key()
}

// Compare orders paths by ordinal comparison of their canonical values
func (p *Path) Compare(other *Path) int {
	return strings.Compare(p.value, other.value)
}

// StartsWith reports whether p equals other or is nested beneath it.
// The match must end on a segment boundary so "vfs://dir10" does not start
// with "vfs://dir1".
func (p *Path) StartsWith(other *Path) bool {
	key, prefix := p.Key(), other.Key()
	if !strings.HasPrefix(key, prefix) {
		return false
	}
	if len(key) == len(prefix) {
		return true
	}
	// the root value already ends with the separator
	if other.IsRoot() {
		return true
	}
	return key[len(prefix)] == Separator[0]
}

// Rebase returns p with its from prefix replaced by to, keeping p's kind.
// p must equal from or lie beneath it.
func (p *Path) Rebase(from, to *Path) (*Path, error) {
	if !p.StartsWith(from) {
		return nil, NewError(OpParse, p.value, fmt.Errorf("%w: not beneath %q", ErrInvalidPath, from.value))
	}
	if p.depth == from.depth {
		return to.As(p.kind)
	}

	// split by segment count; the raw prefix may differ in length from from
	suffix := p.withoutRoot
	if !from.IsRoot() {
		suffix = strings.SplitN(p.withoutRoot, Separator, from.depth+1)[from.depth]
	}
	if to.IsRoot() {
		return newCanonical(suffix, p.kind), nil
	}
	return newCanonical(to.withoutRoot+Separator+suffix, p.kind), nil
}

// AncestorAt returns the ancestor directory whose depth is at most depth.
// The root returns itself.
func (p *Path) AncestorAt(depth int) (*Path, error) {
	if depth < 0 {
		return nil, NewError(OpDepth, p.value, fmt.Errorf("%w: got %d", ErrInvalidDepth, depth))
	}
	if p.IsRoot() {
		return p, nil
	}
	cur := p
	for cur.Depth() > depth {
		cur = cur.Parent()
	}
	if cur.IsFile() {
		return nil, NewError(OpDepth, p.value, fmt.Errorf("%w: ancestor at depth %d is not a directory", ErrInvalidDepth, depth))
	}
	return cur, nil
}

// Join returns the child of directory p called name
func (p *Path) Join(name string, kind NodeKind) (*Path, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if p.IsRoot() {
		return parse(Scheme+name, kind)
	}
	return parse(p.value+Separator+name, kind)
}

// As returns p reinterpreted as the given kind
func (p *Path) As(kind NodeKind) (*Path, error) {
	if p.kind == kind {
		return p, nil
	}
	return parse(p.value, kind)
}

// IsMatch reports whether re matches the canonical value
func (p *Path) IsMatch(re *regexp.Regexp) bool {
	return re.MatchString(p.value)
}

// ValidateName checks that name is usable as a single path segment
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return NewError(OpParse, name, fmt.Errorf("%w: empty name", ErrInvalidPath))
	case name != strings.TrimSpace(name):
		return NewError(OpParse, name, fmt.Errorf("%w: name has surrounding whitespace", ErrInvalidPath))
	case strings.ContainsAny(name, `/\`):
		return NewError(OpParse, name, fmt.Errorf("%w: name contains a separator", ErrInvalidPath))
	case name == "." || name == "..":
		return NewError(OpParse, name, fmt.Errorf("%w: contains a relative path segment", ErrInvalidPath))
	}
	return nil
}
