// Package cmd implements the hitexpect CLI commands using Cobra.
//
// Available commands:
//   - check: Evaluate check files, optionally watching them for changes
//   - validate: Check file syntax and matcher names without evaluating
//   - list: Display the checks in files, or the available matchers
//   - diff: Print the unified diff of two files
//   - compare: Compare two JSON reports from different runs
//   - init: Create a new hitexpect project with example files
//   - version: Show hitexpect version information
//
// Flags fall back to HITEXPECT_* environment variables, which in turn
// override the config file.
package cmd
