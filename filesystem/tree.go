package filesystem

import "strings"

// Tree renders the namespace reachable from the root, one node per line,
// directories before files. Orphaned nodes are not shown.
//
//	vfs://
//	├── docs
//	│   └── readme.md
//	└── notes.txt
func (fs *FileSystem) Tree() string {
	var b strings.Builder
	b.WriteString(fs.root.Path().String())
	b.WriteByte('\n')
	writeTree(&b, fs.root, "")
	return b.String()
}

func writeTree(b *strings.Builder, d *Directory, prefix string) {
	kids := d.Children()
	for i, c := range kids {
		branch, indent := "├── ", "│   "
		if i == len(kids)-1 {
			branch, indent = "└── ", "    "
		}
		b.WriteString(prefix)
		b.WriteString(branch)
		b.WriteString(c.Name())
		b.WriteByte('\n')
		if sub, ok := c.(*Directory); ok {
			writeTree(b, sub, prefix+indent)
		}
	}
}
