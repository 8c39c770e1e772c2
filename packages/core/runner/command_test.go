package runner

import (
	"path/filepath"
	"testing"

	"github.com/abdul-hamid-achik/codex/packages/core/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCommand(t *testing.T) {
	settings := config.RunnerSettings{Command: []string{"python3", "-m", "pytest"}}

	t.Run("paths become positional arguments", func(t *testing.T) {
		tier := &config.Tier{
			Discovery: config.Discovery{Paths: []string{"tests/unit", "tests/shared"}},
		}

		name, args := BuildCommand(settings, tier)

		assert.Equal(t, "python3", name)
		assert.Equal(t, []string{"-m", "pytest", "tests/unit", "tests/shared"}, args)
	})

	t.Run("markers join with or", func(t *testing.T) {
		tier := &config.Tier{
			Discovery: config.Discovery{
				Paths:      []string{"tests"},
				MarkersAny: []string{"integration", "scenario"},
			},
		}

		_, args := BuildCommand(settings, tier)

		assert.Equal(t, []string{"-m", "pytest", "tests", "-m", "integration or scenario"}, args)
	})

	t.Run("no marker flag without markers", func(t *testing.T) {
		tier := &config.Tier{Discovery: config.Discovery{Paths: []string{"tests"}}}

		_, args := BuildCommand(settings, tier)

		assert.Equal(t, []string{"-m", "pytest", "tests"}, args)
	})

	t.Run("missing paths default to tests", func(t *testing.T) {
		tier := &config.Tier{}

		_, args := BuildCommand(settings, tier)

		assert.Equal(t, []string{"-m", "pytest", "tests"}, args)
	})

	t.Run("empty command falls back to default", func(t *testing.T) {
		tier := &config.Tier{Discovery: config.Discovery{Paths: []string{"tests"}}}

		name, args := BuildCommand(config.RunnerSettings{}, tier)

		assert.Equal(t, "python3", name)
		assert.Equal(t, []string{"-m", "pytest", "tests"}, args)
	})

	t.Run("single-element command", func(t *testing.T) {
		tier := &config.Tier{Discovery: config.Discovery{Paths: []string{"spec"}}}

		name, args := BuildCommand(config.RunnerSettings{Command: []string{"pytest"}}, tier)

		assert.Equal(t, "pytest", name)
		assert.Equal(t, []string{"spec"}, args)
	})
}

func TestBuildEnv(t *testing.T) {
	abs, err := filepath.Abs("src")
	require.NoError(t, err)

	t.Run("adds PYTHONPATH when absent", func(t *testing.T) {
		env := BuildEnv([]string{"HOME=/home/dev"}, "src")

		assert.Contains(t, env, "HOME=/home/dev")
		assert.Contains(t, env, "PYTHONPATH="+abs)
	})

	t.Run("prepends to existing PYTHONPATH", func(t *testing.T) {
		env := BuildEnv([]string{"PYTHONPATH=/opt/lib"}, "src")

		require.Len(t, env, 1)
		assert.Equal(t, "PYTHONPATH="+abs+string(filepath.ListSeparator)+"/opt/lib", env[0])
	})

	t.Run("does not mutate the input", func(t *testing.T) {
		environ := []string{"PYTHONPATH=/opt/lib"}
		BuildEnv(environ, "src")

		assert.Equal(t, []string{"PYTHONPATH=/opt/lib"}, environ)
	})
}
