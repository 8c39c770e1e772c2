package runner

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/abdul-hamid-achik/codex/packages/core/config"
)

// pythonPathVar is the search-path variable the source dir is made
// visible through for the invoked test runner.
const pythonPathVar = "PYTHONPATH"

// BuildCommand constructs the test-runner invocation for a tier: the
// configured runner command, the tier's discovery paths as positional
// arguments, and an "or"-joined marker expression when markers_any is
// set.
func BuildCommand(settings config.RunnerSettings, tier *config.Tier) (name string, args []string) {
	base := settings.Command
	if len(base) == 0 {
		base = config.DefaultConfig().Runner.Command
	}
	name = base[0]
	args = append(args, base[1:]...)

	paths := tier.Discovery.Paths
	if len(paths) == 0 {
		paths = []string{"tests"}
	}
	args = append(args, paths...)

	if len(tier.Discovery.MarkersAny) > 0 {
		args = append(args, "-m", strings.Join(tier.Discovery.MarkersAny, " or "))
	}

	return name, args
}

// BuildEnv returns the parent environment with the resolved source dir
// prepended to PYTHONPATH, so locally developed packages are importable
// by the invoked test runner.
func BuildEnv(environ []string, sourceDir string) []string {
	abs, err := filepath.Abs(sourceDir)
	if err != nil {
		abs = sourceDir
	}

	env := append([]string{}, environ...)
	prefix := pythonPathVar + "="
	for i, kv := range env {
		if strings.HasPrefix(kv, prefix) {
			env[i] = prefix + abs + string(os.PathListSeparator) + kv[len(prefix):]
			return env
		}
	}
	return append(env, prefix+abs)
}
