package cmd

// Exit codes for the codex CLI
const (
	// ExitSuccess indicates every executed tier passed
	ExitSuccess = 0

	// ExitFailure indicates a configuration error, an unresolvable
	// combination or tier, a dependency cycle, or a failed tier
	ExitFailure = 1
)
