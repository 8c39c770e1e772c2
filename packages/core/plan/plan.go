package plan

import (
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/codex/packages/core/config"
)

// UnknownTierError reports a requested or depended-on tier that is not
// defined in test_tiers.
type UnknownTierError struct {
	Name string
}

func (e *UnknownTierError) Error() string {
	return fmt.Sprintf("tier %q is not defined in test_tiers", e.Name)
}

// CycleError reports a dependency cycle between tiers.
type CycleError struct {
	Cycle []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle between tiers: %s", strings.Join(e.Cycle, " -> "))
}

// mark is the visit state of a tier during expansion
type mark int

const (
	unvisited mark = iota
	visiting
	done
)

// Expand resolves the requested tiers and their transitive dependencies
// into a deduplicated, dependency-ordered plan.
//
// Every dependency appears strictly before its dependent and each tier
// appears exactly once, regardless of duplicate requests or diamond
// dependencies. Tiers without dependency relationships keep the order
// in which the depth-first walk first reaches them, seeded by the
// request order.
func Expand(requested []string, tiers map[string]*config.Tier) ([]string, error) {
	marks := make(map[string]mark, len(tiers))
	ordered := make([]string, 0, len(requested))
	var path []string // current DFS path, used to name cycles

	var visit func(name string) error
	visit = func(name string) error {
		switch marks[name] {
		case done:
			return nil
		case visiting:
			return &CycleError{Cycle: closeCycle(path, name)}
		}

		tier, ok := tiers[name]
		if !ok {
			return &UnknownTierError{Name: name}
		}

		marks[name] = visiting
		path = append(path, name)
		for _, dep := range tier.DependsOn {
			if err := visit(dep); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		marks[name] = done

		ordered = append(ordered, name)
		return nil
	}

	for _, name := range requested {
		if err := visit(name); err != nil {
			return nil, err
		}
	}

	return ordered, nil
}

// closeCycle trims the DFS path to the segment that closes the cycle at
// name and appends name again so the report reads a -> b -> a.
func closeCycle(path []string, name string) []string {
	for i, n := range path {
		if n == name {
			cycle := append([]string{}, path[i:]...)
			return append(cycle, name)
		}
	}
	return []string{name, name}
}
