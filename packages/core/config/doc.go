// Package config handles configuration loading and management for codex.
//
// It provides functionality for:
//   - Loading tier and combination definitions from codex.yaml
//   - Default runner settings
//   - Structural schema validation
//   - Cross-reference validation of tier and combination names
package config
