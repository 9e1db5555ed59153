// Package env handles environment variables and variable resolution for
// hitexpect check files.
//
// It provides functionality for:
//   - Loading environment files (.env, .env.<name>)
//   - Variable interpolation using {{variable}} syntax, typed when a
//     placeholder is a whole value
//   - Built-in function evaluation (uuid, timestamp, random, etc.)
//   - Resolving subjects captured by earlier checks
//   - Environment-specific variable loading
package env
