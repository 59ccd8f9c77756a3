package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/brettbedarf/vfs/internal/util"
	"gopkg.in/yaml.v3"
)

// CLI verbosity values accepted by [ConfigOverride.LogLvl].
// Values outside the range are clamped.
const (
	ErrorVerbose = iota + 1
	WarnVerbose
	InfoVerbose
	DebugVerbose
	TraceVerbose
)

// Color output modes for console presentation
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Default configuration constants. See [Config] for field descriptions.
const (
	DefaultLogLvl = util.InfoLevel

	// DefaultStrictParents keeps the lenient behavior: nodes whose parent
	// directory is missing are indexed but left unattached
	DefaultStrictParents = false

	// DefaultHistoryLimit of 0 keeps every change
	DefaultHistoryLimit = 0

	DefaultColor = ColorAuto

	DefaultFsName = "vfs"
	DefaultName   = "vfs"

	// DefaultAttrTimeout is the attribute cache timeout in seconds for mounts
	DefaultAttrTimeout = 1.0

	// DefaultEntryTimeout is the directory entry cache timeout in seconds for mounts
	DefaultEntryTimeout = 1.0
)

// Config contains runtime configuration values for the namespace and its tooling.
type Config struct {
	MountOptions
	LogLvl        util.LogLevel // Internal log level (Default info)
	StrictParents bool          // Fail create/move/rename when the parent directory is not indexed (Default false)
	HistoryLimit  int           // Maximum number of undoable changes kept; 0 = unbounded (Default 0)
	Color         string        // Console color mode: auto, always or never (Default auto)

	AttrTimeout  float64 // Mount attribute cache timeout in seconds (Default 1.0)
	EntryTimeout float64 // Mount directory entry cache timeout in seconds (Default 1.0)
}

// ConfigOverride uses pointer fields to distinguish between unset and zero values
// when loading partial configuration. See [Config] for field descriptions.
type ConfigOverride struct {
	LogLvl        *int     `yaml:"verbose,omitempty" json:"verbose,omitempty"` // CLI verbosity 1 (error) to 5 (trace)
	StrictParents *bool    `yaml:"strict_parents,omitempty" json:"strict_parents,omitempty"`
	HistoryLimit  *int     `yaml:"history_limit,omitempty" json:"history_limit,omitempty"`
	Color         *string  `yaml:"color,omitempty" json:"color,omitempty"`
	Debug         *bool    `yaml:"debug,omitempty" json:"debug,omitempty"`
	FsName        *string  `yaml:"fs_name,omitempty" json:"fs_name,omitempty"`
	Name          *string  `yaml:"name,omitempty" json:"name,omitempty"`
	AttrTimeout   *float64 `yaml:"attr_timeout,omitempty" json:"attr_timeout,omitempty"`
	EntryTimeout  *float64 `yaml:"entry_timeout,omitempty" json:"entry_timeout,omitempty"`
}

// NewDefaultConfig creates a new Config with all default values.
func NewDefaultConfig() *Config {
	return &Config{
		MountOptions: MountOptions{
			FsName: DefaultFsName,
			Name:   DefaultName,
		},
		LogLvl:        DefaultLogLvl,
		StrictParents: DefaultStrictParents,
		HistoryLimit:  DefaultHistoryLimit,
		Color:         DefaultColor,
		AttrTimeout:   DefaultAttrTimeout,
		EntryTimeout:  DefaultEntryTimeout,
	}
}

// NewConfig creates a Config from defaults with override applied. A nil
// override yields the defaults.
func NewConfig(override *ConfigOverride) *Config {
	cfg := NewDefaultConfig()
	if override != nil {
		cfg.Merge(override)
	}
	return cfg
}

// Merge applies non-nil values from override onto this Config.
// This allows partial configuration updates while preserving existing values.
func (c *Config) Merge(override *ConfigOverride) {
	if override.LogLvl != nil {
		c.LogLvl = VerboseToLogLevel(*override.LogLvl)
	}
	if override.StrictParents != nil {
		c.StrictParents = *override.StrictParents
	}
	if override.HistoryLimit != nil {
		c.HistoryLimit = *override.HistoryLimit
	}
	if override.Color != nil {
		c.Color = *override.Color
	}
	if override.Debug != nil {
		c.Debug = *override.Debug
	}
	if override.FsName != nil {
		c.FsName = *override.FsName
	}
	if override.Name != nil {
		c.Name = *override.Name
	}
	if override.AttrTimeout != nil {
		c.AttrTimeout = *override.AttrTimeout
	}
	if override.EntryTimeout != nil {
		c.EntryTimeout = *override.EntryTimeout
	}
}

// Validate reports configuration values that cannot be honored
func (c *Config) Validate() error {
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("invalid color mode %q: must be one of %s, %s, %s", c.Color, ColorAuto, ColorAlways, ColorNever)
	}
	if c.HistoryLimit < 0 {
		return fmt.Errorf("invalid history limit %d: must be >= 0", c.HistoryLimit)
	}
	return nil
}

// VerboseToLogLevel maps CLI verbosity (1 = error ... 5 = trace) onto a
// [util.LogLevel], clamping out of range values
func VerboseToLogLevel(verbose int) util.LogLevel {
	lvls := [5]util.LogLevel{util.ErrorLevel, util.WarnLevel, util.InfoLevel, util.DebugLevel, util.TraceLevel}
	return lvls[util.Clamp(verbose, ErrorVerbose, TraceVerbose)-1]
}

// LoadConfigOverrideFile loads configuration overrides from a file without merging.
// Supports both YAML (.yaml, .yml) and JSON (.json) formats.
func LoadConfigOverrideFile(path string) (*ConfigOverride, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var override ConfigOverride

	// Determine format by file extension
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown config file extension: %s", path)
	}

	return &override, nil
}

// NewConfigFromFile creates a new Config by merging file overrides with defaults.
// This is a convenience function that combines NewDefaultConfig, LoadConfigOverrideFile, and Merge.
func NewConfigFromFile(path string) (*Config, error) {
	override, err := LoadConfigOverrideFile(path)
	if err != nil {
		return nil, err
	}
	cfg := NewConfig(override)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
