package requests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/brettbedarf/vfs"
	"github.com/brettbedarf/vfs/internal/util"
	"gopkg.in/yaml.v3"
)

// Format of a definition document
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

// FormatFromPath picks the format by file extension
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("unknown definition file extension: %s", path)
	}
}

// GetNodeType extracts the node type from JSON without full unmarshaling
func GetNodeType(data []byte) (NodeType, error) {
	var meta struct {
		Type NodeType `json:"type"`
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return "", err
	}
	return meta.Type, nil
}

// UnmarshalNodeRequest decodes a single JSON node definition
func UnmarshalNodeRequest(data []byte) (*NodeRequest, error) {
	var dto NodeRequestDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, err
	}
	return convertNodeDTO(dto)
}

// UnmarshalNodeRequests decodes a definition document: either an object
// with a "nodes" list or a bare list of nodes
func UnmarshalNodeRequests(data []byte, format Format) ([]*NodeRequest, error) {
	var dtos []NodeRequestDTO
	switch format {
	case FormatJSON:
		if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
			if err := json.Unmarshal(trimmed, &dtos); err != nil {
				return nil, fmt.Errorf("failed to unmarshal definitions: %w", err)
			}
			break
		}
		var def DefinitionDTO
		if err := json.Unmarshal(data, &def); err != nil {
			return nil, fmt.Errorf("failed to unmarshal definitions: %w", err)
		}
		dtos = def.Nodes
	case FormatYAML:
		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal definitions: %w", err)
		}
		if len(doc.Content) == 0 {
			break
		}
		if doc.Content[0].Kind == yaml.SequenceNode {
			if err := doc.Content[0].Decode(&dtos); err != nil {
				return nil, fmt.Errorf("failed to decode definitions: %w", err)
			}
			break
		}
		var def DefinitionDTO
		if err := doc.Decode(&def); err != nil {
			return nil, fmt.Errorf("failed to decode definitions: %w", err)
		}
		dtos = def.Nodes
	default:
		return nil, fmt.Errorf("unsupported definition format %d", format)
	}

	reqs := make([]*NodeRequest, 0, len(dtos))
	for i, dto := range dtos {
		req, err := convertNodeDTO(dto)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

// LoadFile reads node definitions from a .json, .yaml or .yml file
func LoadFile(path string) ([]*NodeRequest, error) {
	logger := util.GetLogger("Requests.LoadFile")
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	reqs, err := UnmarshalNodeRequests(data, format)
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("file", path).Int("nodes", len(reqs)).Msg("Loaded node definitions")
	return reqs, nil
}

func convertNodeDTO(dto NodeRequestDTO) (*NodeRequest, error) {
	kind, err := dto.Type.Kind()
	if err != nil {
		return nil, err
	}
	p, err := vfs.NewPath(dto.Path, kind)
	if err != nil {
		return nil, err
	}
	return &NodeRequest{
		Path:    p,
		Kind:    kind,
		Parents: util.ValueOrDefault(dto.Parents, false),
	}, nil
}
