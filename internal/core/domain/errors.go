package domain

import (
	"fmt"

	"go.trai.ch/zerr"
)

var (
	// ErrNoRule is returned when a target has no rule and no source file.
	ErrNoRule = zerr.New("no rule to run target")

	// ErrRuleRedefined is returned when two body rules compete for the same
	// concrete target at equal specificity.
	ErrRuleRedefined = zerr.New("redefinition of rule")

	// ErrNoTargets is returned when the build file produced an empty rule table.
	ErrNoTargets = zerr.New("no targets")

	// ErrCycleDetected is returned when a target is re-entered while it is
	// still being resolved.
	ErrCycleDetected = zerr.New("dependency cycle detected")

	// ErrStemUnbound is returned when a dep of a literally matched rule
	// contains '%' and there is no stem to substitute.
	ErrStemUnbound = zerr.New("no stem to substitute in dependency")
)

// NoRuleError builds the user-facing resolution error for a target that has
// no rule and no source file. from names the target that required it, if any.
func NoRuleError(target, from string) error {
	if from == "" {
		return zerr.With(zerr.Wrap(ErrNoRule, fmt.Sprintf("no rule to run target '%s'", target)), "target", target)
	}
	return zerr.With(zerr.With(zerr.Wrap(ErrNoRule,
		fmt.Sprintf("no rule to run target '%s' (needed by '%s')", target, from)),
		"target", target), "needed_by", from)
}

// RedefinitionError builds the user-facing error for an ambiguous body rule.
func RedefinitionError(target string) error {
	return zerr.With(zerr.Wrap(ErrRuleRedefined,
		fmt.Sprintf("redefinition of rule '%s'", target)), "target", target)
}

// StemUnboundError builds the user-facing error for a '%' dep on a rule
// that matched its target literally.
func StemUnboundError(dep, target string) error {
	return zerr.With(zerr.With(zerr.Wrap(ErrStemUnbound,
		fmt.Sprintf("no stem to substitute in dependency '%s' of target '%s'", dep, target)),
		"dependency", dep), "target", target)
}

// CycleError builds the user-facing error for a cyclic rule graph.
func CycleError(target string) error {
	return zerr.With(zerr.Wrap(ErrCycleDetected,
		fmt.Sprintf("dependency cycle detected at '%s'", target)), "target", target)
}
