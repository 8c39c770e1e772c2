// Package runner executes a resolved tier plan against an external
// test runner.
//
// It provides functionality for:
//   - Building the test-runner invocation from a tier's discovery rules
//   - Running tiers strictly sequentially, streaming child output through
//   - Skipping tiers disabled by default
//   - Stopping early when a critical tier fails
//   - Folding per-tier outcomes into an aggregate result
//
// Command execution goes through the CommandRunner interface so tests
// can substitute a fake for os/exec.
package runner
