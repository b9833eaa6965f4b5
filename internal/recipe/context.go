package recipe

import (
	"path"
	"slices"
)

// Immutable snapshot of one build invocation.
//
// Constructed from CLI input at startup and passed explicitly to every
// enablement check and hook. Recipes never read process-global state.
type Context struct {
	Target  string   // Target platform (e.g. "win64", "linux64", "linuxarm64").
	Variant string   // License/link variant (e.g. "gpl", "lgpl-shared").
	Addins  []string // Selected addin recipe names.
	Version string   // FFmpeg version or branch being built.
}

// Reports whether the named addin is selected.
func (c Context) Addin(name string) bool {
	return slices.Contains(c.Addins, name)
}

// Returns the recipe names requested for resolution: the variant aggregator
// followed by the selected addins.
func (c Context) Requested() []string {
	return append([]string{c.Variant}, c.Addins...)
}

// Reports whether the recipe applies to the given build context.
//
// Any constraint mismatch disables the recipe, and a malformed target
// pattern counts as a mismatch. Anything other than a clean match means
// disabled.
func (r *Recipe) Enabled(ctx Context) bool {
	if len(r.Targets) > 0 && !matchAny(r.Targets, ctx.Target) {
		return false
	}
	if len(r.Variants) > 0 && !slices.Contains(r.Variants, ctx.Variant) {
		return false
	}
	if r.Addin && !ctx.Addin(r.Name) {
		return false
	}
	return true
}

// Reports whether any glob pattern in the list matches the name.
func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		if ok, err := path.Match(p, name); err == nil && ok {
			return true
		}
	}
	return false
}
