// Package plan resolves requested tiers into a dependency-ordered
// execution plan.
//
// Expansion is a depth-first walk over the tier dependency graph,
// restricted to the transitive closure of the requested tiers. The
// resulting plan lists every dependency before its dependent, contains
// each tier exactly once, and fails fast on undefined tiers and
// dependency cycles.
package plan
