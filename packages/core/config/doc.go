// Package config handles configuration loading and management for hitexpect.
//
// It provides functionality for:
//   - Loading configuration from .hitexpect.config.json or .hitexpectrc files
//   - Default configuration values
//   - Environment-specific variables
package config
