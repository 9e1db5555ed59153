package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the hitexpect configuration
type Config struct {
	DefaultEnvironment string                    `json:"defaultEnvironment,omitempty"`
	Environments       map[string]map[string]any `json:"environments,omitempty"`
	Vars               map[string]any            `json:"vars,omitempty"`          // Variables visible to every check file
	Timeout            int                       `json:"timeout,omitempty"`       // milliseconds per check, 0 for none
	Reporters          []string                  `json:"reporters,omitempty"`     // Output reporters
	OutputDir          string                    `json:"outputDir,omitempty"`     // Directory for output files
	SnapshotStore      string                    `json:"snapshotStore,omitempty"` // "" for per-file JSON, or sqlite://path
	UpdateSnapshots    *bool                     `json:"updateSnapshots,omitempty"`
	StrictSnapshots    *bool                     `json:"strictSnapshots,omitempty"`
	Parallel           *bool                     `json:"parallel,omitempty"`
	Concurrency        int                       `json:"concurrency,omitempty"` // Number of checks evaluated at once
	Bail               *bool                     `json:"bail,omitempty"`
	Verbose            *bool                     `json:"verbose,omitempty"`
	NoColor            *bool                     `json:"noColor,omitempty"`
}

// BoolPtr returns a pointer to b, for building configs in code
func BoolPtr(b bool) *bool {
	return &b
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetUpdateSnapshots returns the update snapshots setting, defaulting to false
func (c *Config) GetUpdateSnapshots() bool {
	return getBool(c.UpdateSnapshots, false)
}

// GetStrictSnapshots returns the strict snapshots setting, defaulting to false
func (c *Config) GetStrictSnapshots() bool {
	return getBool(c.StrictSnapshots, false)
}

// GetParallel returns the parallel setting, defaulting to false
func (c *Config) GetParallel() bool {
	return getBool(c.Parallel, false)
}

// GetBail returns the bail setting, defaulting to false
func (c *Config) GetBail() bool {
	return getBool(c.Bail, false)
}

// GetVerbose returns the verbose setting, defaulting to false
func (c *Config) GetVerbose() bool {
	return getBool(c.Verbose, false)
}

// GetNoColor returns the no color setting, defaulting to false
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// EnvironmentVars returns the variables of the named environment, or of the
// default environment when name is empty.
func (c *Config) EnvironmentVars(name string) map[string]any {
	if name == "" {
		name = c.DefaultEnvironment
	}
	return c.Environments[name]
}

// ConfigFilenames contains the possible config file names
var ConfigFilenames = []string{
	".hitexpect.config.json",
	"hitexpect.config.json",
	".hitexpectrc",
	".hitexpectrc.json",
}

// LoadConfig loads configuration from the specified path or searches for config files
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}

	// Search for config file in current directory
	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}

	// Return defaults if no config file found
	return DefaultConfig(), nil
}

// loadConfigFromFile loads configuration from a specific file
func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if config.Concurrency < 0 {
		return nil, fmt.Errorf("parsing %s: concurrency must not be negative", path)
	}

	return config, nil
}

// Merge merges another config into this one, with other taking precedence
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c // Copy

	if other.DefaultEnvironment != "" {
		result.DefaultEnvironment = other.DefaultEnvironment
	}
	if other.Timeout > 0 {
		result.Timeout = other.Timeout
	}
	if other.OutputDir != "" {
		result.OutputDir = other.OutputDir
	}
	if other.SnapshotStore != "" {
		result.SnapshotStore = other.SnapshotStore
	}
	if other.Concurrency > 0 {
		result.Concurrency = other.Concurrency
	}

	// Boolean flags - only override if explicitly set in other config
	if other.UpdateSnapshots != nil {
		result.UpdateSnapshots = other.UpdateSnapshots
	}
	if other.StrictSnapshots != nil {
		result.StrictSnapshots = other.StrictSnapshots
	}
	if other.Parallel != nil {
		result.Parallel = other.Parallel
	}
	if other.Bail != nil {
		result.Bail = other.Bail
	}
	if other.Verbose != nil {
		result.Verbose = other.Verbose
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}

	if len(other.Vars) > 0 {
		vars := make(map[string]any, len(result.Vars)+len(other.Vars))
		for k, v := range result.Vars {
			vars[k] = v
		}
		for k, v := range other.Vars {
			vars[k] = v
		}
		result.Vars = vars
	}

	if len(other.Environments) > 0 {
		envs := make(map[string]map[string]any, len(result.Environments)+len(other.Environments))
		for name, vars := range result.Environments {
			envs[name] = vars
		}
		for name, vars := range other.Environments {
			envs[name] = vars
		}
		result.Environments = envs
	}

	if len(other.Reporters) > 0 {
		result.Reporters = other.Reporters
	}

	return &result
}

// SaveConfig saves the configuration to a file
func (c *Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
