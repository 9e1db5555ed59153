// Package runner executes hitexpect check files.
//
// For each file it loads the environment, resolves variables, runs the
// before hooks, and evaluates every selected check by extracting its
// subject from a source document and dispatching the named matcher.
// Checks run in dependency order, or concurrently when none depends on
// another. Values captured by a passing check are available to later
// checks as {{check.name}} placeholders.
package runner
