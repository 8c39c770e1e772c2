package config

// DefaultConfigFile is the config file name looked up when --config is
// not given.
const DefaultConfigFile = "codex.yaml"

// DefaultCombination is the combination run when --combo is not given.
const DefaultCombination = "standard"

// DefaultConfig returns a configuration with default runner settings
func DefaultConfig() *Config {
	return &Config{
		Runner: RunnerSettings{
			Command:   []string{"python3", "-m", "pytest"},
			SourceDir: "src",
		},
	}
}

// StarterConfig returns the configuration written by `codex init`.
func StarterConfig() *Config {
	return &Config{
		Runner: RunnerSettings{
			Command:   []string{"python3", "-m", "pytest"},
			SourceDir: "src",
		},
		TestTiers: map[string]*Tier{
			"unit": {
				Discovery: Discovery{Paths: []string{"tests/unit"}},
				Critical:  true,
			},
			"integration": {
				DependsOn: []string{"unit"},
				Discovery: Discovery{
					Paths:      []string{"tests/integration"},
					MarkersAny: []string{"integration"},
				},
			},
			"scenario": {
				DependsOn: []string{"integration"},
				Discovery: Discovery{
					Paths:      []string{"tests"},
					MarkersAny: []string{"scenario", "e2e"},
				},
			},
			"stress": {
				DependsOn:      []string{"unit"},
				Discovery:      Discovery{Paths: []string{"tests/stress"}},
				DefaultEnabled: BoolPtr(false),
			},
		},
		Combinations: map[string]*Combination{
			"smoke":    {Tiers: []string{"unit"}},
			"standard": {Tiers: []string{"unit", "integration"}},
			"full":     {Tiers: []string{"unit", "integration", "scenario"}},
			"nightly":  {Tiers: []string{"scenario", "stress"}},
		},
	}
}
