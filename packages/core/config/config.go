package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the codex configuration
type Config struct {
	Runner       RunnerSettings          `yaml:"runner,omitempty" json:"runner,omitempty"`
	TestTiers    map[string]*Tier        `yaml:"test_tiers" json:"test_tiers"`
	Combinations map[string]*Combination `yaml:"combinations" json:"combinations"`
}

// Tier defines a named group of tests with discovery rules and
// dependency relationships.
type Tier struct {
	DependsOn      []string  `yaml:"depends_on,omitempty" json:"depends_on,omitempty"`
	Discovery      Discovery `yaml:"discovery" json:"discovery"`
	DefaultEnabled *bool     `yaml:"default_enabled,omitempty" json:"default_enabled,omitempty"`
	Critical       bool      `yaml:"critical,omitempty" json:"critical,omitempty"`
}

// Discovery tells the executor which test locations and filter markers
// to pass to the external test runner.
type Discovery struct {
	Paths      []string `yaml:"paths" json:"paths"`
	MarkersAny []string `yaml:"markers_any,omitempty" json:"markers_any,omitempty"`
}

// Combination is a named, ordered list of tier names a caller can
// request by name.
type Combination struct {
	Tiers []string `yaml:"tiers" json:"tiers"`
}

// RunnerSettings controls how the external test runner is invoked.
type RunnerSettings struct {
	Command   []string `yaml:"command,omitempty" json:"command,omitempty"`
	SourceDir string   `yaml:"source_dir,omitempty" json:"source_dir,omitempty"`
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// BoolPtr returns a pointer to a bool value
func BoolPtr(b bool) *bool {
	return &b
}

// Enabled reports whether the tier should run, defaulting to true.
func (t *Tier) Enabled() bool {
	return getBool(t.DefaultEnabled, true)
}

// Load reads and parses the configuration file at path.
// The parser is YAML; a JSON-formatted file parses as well since YAML
// accepts JSON input.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("missing config file at %s", path)
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults fills in runner settings left empty by the config file
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if len(c.Runner.Command) == 0 {
		c.Runner.Command = defaults.Runner.Command
	}
	if c.Runner.SourceDir == "" {
		c.Runner.SourceDir = defaults.Runner.SourceDir
	}
}

// CombinationTiers resolves a combination name to its requested tier list.
func (c *Config) CombinationTiers(name string) ([]string, error) {
	combo, ok := c.Combinations[name]
	if !ok {
		return nil, fmt.Errorf("unknown combination %q (available: %s)", name, strings.Join(c.CombinationNames(), ", "))
	}
	return combo.Tiers, nil
}

// CombinationNames returns all combination names in sorted order.
func (c *Config) CombinationNames() []string {
	names := make([]string, 0, len(c.Combinations))
	for name := range c.Combinations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TierNames returns all tier names in sorted order.
func (c *Config) TierNames() []string {
	names := make([]string, 0, len(c.TestTiers))
	for name := range c.TestTiers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks cross-references between combinations and tiers.
// Every tier name referenced by a combination or a depends_on list must
// be defined in test_tiers, and every tier must declare at least one
// discovery path.
func (c *Config) Validate() error {
	if len(c.TestTiers) == 0 {
		return fmt.Errorf("config defines no test_tiers")
	}
	if len(c.Combinations) == 0 {
		return fmt.Errorf("config defines no combinations")
	}

	for name, tier := range c.TestTiers {
		if tier == nil {
			return fmt.Errorf("tier %q has no definition", name)
		}
		if len(tier.Discovery.Paths) == 0 {
			return fmt.Errorf("tier %q has no discovery paths", name)
		}
		for _, dep := range tier.DependsOn {
			if _, ok := c.TestTiers[dep]; !ok {
				return fmt.Errorf("tier %q depends on %q which is not defined in test_tiers", name, dep)
			}
		}
	}

	for name, combo := range c.Combinations {
		if combo == nil || len(combo.Tiers) == 0 {
			return fmt.Errorf("combination %q lists no tiers", name)
		}
		for _, tier := range combo.Tiers {
			if _, ok := c.TestTiers[tier]; !ok {
				return fmt.Errorf("combination %q references tier %q which is not defined in test_tiers", name, tier)
			}
		}
	}

	return nil
}
