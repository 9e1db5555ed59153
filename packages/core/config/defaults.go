package config

// DefaultConcurrency is the number of checks evaluated at once in parallel mode
const DefaultConcurrency = 4

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		DefaultEnvironment: "dev",
		Timeout:            5000, // 5 seconds
		Reporters:          []string{"console"},
		Concurrency:        DefaultConcurrency,
		UpdateSnapshots:    BoolPtr(false),
		StrictSnapshots:    BoolPtr(false),
		Parallel:           BoolPtr(false),
		Bail:               BoolPtr(false),
		Verbose:            BoolPtr(false),
		NoColor:            BoolPtr(false),
	}
}

// IsDefault returns true if the config matches defaults
func (c *Config) IsDefault() bool {
	defaults := DefaultConfig()
	return c.DefaultEnvironment == defaults.DefaultEnvironment &&
		c.Timeout == defaults.Timeout &&
		len(c.Environments) == 0 &&
		len(c.Vars) == 0 &&
		c.OutputDir == defaults.OutputDir &&
		c.SnapshotStore == defaults.SnapshotStore &&
		c.Concurrency == defaults.Concurrency &&
		c.GetUpdateSnapshots() == defaults.GetUpdateSnapshots() &&
		c.GetStrictSnapshots() == defaults.GetStrictSnapshots() &&
		c.GetParallel() == defaults.GetParallel() &&
		c.GetBail() == defaults.GetBail() &&
		c.GetVerbose() == defaults.GetVerbose() &&
		c.GetNoColor() == defaults.GetNoColor()
}
