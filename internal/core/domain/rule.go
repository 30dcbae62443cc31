// Package domain contains the core domain models for the rule engine.
package domain

import "context"

// Body is an opaque handle to a rule's recipe. It is produced by the script
// host and invoked by the engine with the alias bindings for one concrete
// target. A nil Body marks a pure dependency edge.
type Body func(ctx context.Context, b Bindings) error

// Bindings carries the script aliases visible while a rule body runs.
type Bindings struct {
	// Target is the concrete target name the body is building.
	Target string
	// Source is the first resolved dependency. Valid only if HasSources.
	Source string
	// Sources is every resolved dependency joined by single spaces.
	// Valid only if HasSources.
	Sources string
	// HasSources reports whether the rule resolved any dependencies.
	HasSources bool
}

// Rule is one registration in the rule table. Target is either a literal
// name or a pattern with exactly one '%' wildcard. Deps may each contain at
// most one '%', substituted with the matched stem when the rule fires.
type Rule struct {
	Target string
	Deps   []string
	Body   Body
	Action bool
}

// SubRule pairs a matched rule with the stem that matched its '%', or the
// empty string for an exact match. It is local to the resolution of one
// concrete target.
type SubRule struct {
	Rule *Rule
	Stem string
}
