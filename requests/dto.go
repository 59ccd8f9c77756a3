package requests

import (
	"fmt"

	"github.com/brettbedarf/vfs"
)

// NodeType is the serialized kind of a node definition
type NodeType string

const (
	NodeTypeDir  NodeType = "dir"
	NodeTypeFile NodeType = "file"
)

// Kind maps the serialized type onto a [vfs.NodeKind]
func (t NodeType) Kind() (vfs.NodeKind, error) {
	switch t {
	case NodeTypeDir, "directory":
		return vfs.KindDirectory, nil
	case NodeTypeFile:
		return vfs.KindFile, nil
	default:
		return 0, fmt.Errorf("unknown node type %q", string(t))
	}
}

// NodeRequestDTO is the JSON/YAML representation of [NodeRequest]
type NodeRequestDTO struct {
	Path string   `json:"path" yaml:"path"`
	Type NodeType `json:"type" yaml:"type"`
	// Parents creates missing ancestor directories first (Default false)
	Parents *bool `json:"parents,omitempty" yaml:"parents,omitempty"`
}

// DefinitionDTO is the top-level document of a definition file.
// A bare list of nodes is accepted as well.
type DefinitionDTO struct {
	Nodes []NodeRequestDTO `json:"nodes" yaml:"nodes"`
}

// NodeRequest asks for one node to be created
type NodeRequest struct {
	Path    *vfs.Path
	Kind    vfs.NodeKind
	Parents bool
}
