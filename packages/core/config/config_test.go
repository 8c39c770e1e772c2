package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "codex.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const sampleYAML = `
test_tiers:
  unit:
    discovery:
      paths: [tests/unit]
    critical: true
  integration:
    depends_on: [unit]
    discovery:
      paths: [tests/integration]
      markers_any: [integration, scenario]
  stress:
    depends_on: [unit]
    discovery:
      paths: [tests/stress]
    default_enabled: false

combinations:
  smoke:
    tiers: [unit]
  standard:
    tiers: [unit, integration]
`

func TestLoad(t *testing.T) {
	t.Run("parses YAML", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, sampleYAML))
		require.NoError(t, err)

		require.Contains(t, cfg.TestTiers, "unit")
		assert.True(t, cfg.TestTiers["unit"].Critical)
		assert.Equal(t, []string{"unit"}, cfg.TestTiers["integration"].DependsOn)
		assert.Equal(t, []string{"integration", "scenario"}, cfg.TestTiers["integration"].Discovery.MarkersAny)
		assert.Equal(t, []string{"unit", "integration"}, cfg.Combinations["standard"].Tiers)
	})

	t.Run("parses JSON-formatted input", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, `{
  "test_tiers": {"unit": {"discovery": {"paths": ["tests"]}}},
  "combinations": {"smoke": {"tiers": ["unit"]}}
}`))
		require.NoError(t, err)
		assert.Contains(t, cfg.TestTiers, "unit")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing config file")
	})

	t.Run("unparseable file", func(t *testing.T) {
		_, err := Load(writeConfig(t, "test_tiers: ["))
		require.Error(t, err)
	})

	t.Run("fills runner defaults", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, sampleYAML))
		require.NoError(t, err)
		assert.Equal(t, []string{"python3", "-m", "pytest"}, cfg.Runner.Command)
		assert.Equal(t, "src", cfg.Runner.SourceDir)
	})

	t.Run("keeps configured runner settings", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, sampleYAML+`
runner:
  command: [pytest]
  source_dir: lib
`))
		require.NoError(t, err)
		assert.Equal(t, []string{"pytest"}, cfg.Runner.Command)
		assert.Equal(t, "lib", cfg.Runner.SourceDir)
	})
}

func TestTier_Enabled(t *testing.T) {
	assert.True(t, (&Tier{}).Enabled())
	assert.True(t, (&Tier{DefaultEnabled: BoolPtr(true)}).Enabled())
	assert.False(t, (&Tier{DefaultEnabled: BoolPtr(false)}).Enabled())
}

func TestConfig_CombinationTiers(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	t.Run("resolves by name", func(t *testing.T) {
		tiers, err := cfg.CombinationTiers("smoke")
		require.NoError(t, err)
		assert.Equal(t, []string{"unit"}, tiers)
	})

	t.Run("unknown combination lists available", func(t *testing.T) {
		_, err := cfg.CombinationTiers("nightly")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown combination "nightly"`)
		assert.Contains(t, err.Error(), "smoke")
		assert.Contains(t, err.Error(), "standard")
	})
}

func TestConfig_Validate(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, sampleYAML))
		require.NoError(t, err)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("combination referencing undefined tier", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, `
test_tiers:
  unit:
    discovery:
      paths: [tests]
combinations:
  smoke:
    tiers: [unit, ghost]
`))
		require.NoError(t, err)
		err = cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"ghost"`)
	})

	t.Run("dependency on undefined tier", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, `
test_tiers:
  unit:
    depends_on: [missing]
    discovery:
      paths: [tests]
combinations:
  smoke:
    tiers: [unit]
`))
		require.NoError(t, err)
		err = cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"missing"`)
	})

	t.Run("tier without discovery paths", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, `
test_tiers:
  unit:
    discovery:
      paths: []
combinations:
  smoke:
    tiers: [unit]
`))
		require.NoError(t, err)
		assert.Error(t, cfg.Validate())
	})

	t.Run("no tiers", func(t *testing.T) {
		cfg := &Config{Combinations: map[string]*Combination{"smoke": {Tiers: []string{"unit"}}}}
		assert.Error(t, cfg.Validate())
	})
}

func TestValidateSchema(t *testing.T) {
	t.Run("valid document", func(t *testing.T) {
		assert.NoError(t, ValidateSchema([]byte(sampleYAML)))
	})

	t.Run("missing combinations", func(t *testing.T) {
		err := ValidateSchema([]byte(`
test_tiers:
  unit:
    discovery:
      paths: [tests]
`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "combinations")
	})

	t.Run("tier missing discovery", func(t *testing.T) {
		err := ValidateSchema([]byte(`
test_tiers:
  unit: {}
combinations:
  smoke:
    tiers: [unit]
`))
		assert.Error(t, err)
	})

	t.Run("unknown top-level key", func(t *testing.T) {
		err := ValidateSchema([]byte(sampleYAML + "\nextra: true\n"))
		assert.Error(t, err)
	})
}

func TestStarterConfig(t *testing.T) {
	starter := StarterConfig()
	require.NoError(t, starter.Validate())

	// the starter config must round-trip through YAML and still validate
	data, err := yaml.Marshal(starter)
	require.NoError(t, err)
	require.NoError(t, ValidateSchema(data))

	path := filepath.Join(t.TempDir(), "codex.yaml")
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.False(t, cfg.TestTiers["stress"].Enabled())
}
