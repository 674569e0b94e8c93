package discovery

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/testweaver/sitegraph/internal/auth"
	"github.com/testweaver/sitegraph/internal/browser"
	"github.com/testweaver/sitegraph/pkg/graph"
)

// Config holds all discovery configuration.
type Config struct {
	// Application name, used to slug output files
	AppName string `json:"app_name" yaml:"app_name"`

	// Known app family, skips detection when set
	AppType graph.AppType `json:"app_type,omitempty" yaml:"app_type,omitempty"`

	// URLs where exploration starts
	EntryPoints []string `json:"entry_points" yaml:"entry_points"`

	// Maximum link-following depth from an entry point
	MaxDepth int `json:"max_depth" yaml:"max_depth"`

	// Maximum number of graph nodes to discover
	MaxNodes int `json:"max_nodes" yaml:"max_nodes"`

	// Maximum interactive elements recorded per page
	MaxElementsPerPage int `json:"max_elements_per_page" yaml:"max_elements_per_page"`

	// Wall-clock budget for the whole run
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// Extra hosts treated as in scope besides the entry host
	ScopeWhitelist []string `json:"scope_whitelist" yaml:"scope_whitelist"`

	// Directory for graphs and screenshots
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Optional bbolt file for an append-only graph archive
	ArchivePath string `json:"archive_path" yaml:"archive_path"`

	// Capture a screenshot per node
	Screenshots bool `json:"screenshots" yaml:"screenshots"`

	// Pause between page actions
	SlowMo time.Duration `json:"slow_mo" yaml:"slow_mo"`

	// Login credentials, optional
	Credentials auth.Credentials `json:"credentials" yaml:"credentials"`

	// Browser configuration
	Browser browser.Config `json:"browser" yaml:"browser"`

	// Verbose logging
	Verbose bool `json:"verbose" yaml:"verbose"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxDepth:           4,
		MaxNodes:           50,
		MaxElementsPerPage: 30,
		Timeout:            5 * time.Minute,
		OutputDir:          "test-results",
		Screenshots:        true,
		Browser:            browser.DefaultConfig(),
	}
}

// LoadFromFile loads configuration from a file (YAML or JSON).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()

	// Try YAML first, then JSON
	if err := yaml.Unmarshal(data, config); err != nil {
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	return config, nil
}

// SaveToFile saves configuration to a file.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if len(path) > 5 && path[len(path)-5:] == ".json" {
		data, err = json.MarshalIndent(c, "", "  ")
	} else {
		data, err = yaml.Marshal(c)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.AppName == "" {
		return fmt.Errorf("app name is required")
	}

	if len(c.EntryPoints) == 0 {
		return fmt.Errorf("at least one entry point is required")
	}

	if c.MaxDepth < 0 {
		return fmt.Errorf("max depth must not be negative")
	}

	if c.MaxNodes < 1 {
		return fmt.Errorf("max nodes must be at least 1")
	}

	if c.MaxElementsPerPage < 1 {
		return fmt.Errorf("max elements per page must be at least 1")
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}

	if c.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}

	return nil
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	data, _ := json.Marshal(c)
	clone := &Config{}
	json.Unmarshal(data, clone)
	return clone
}
