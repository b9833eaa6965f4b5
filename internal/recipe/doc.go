// Package recipe defines the declarative build units and their registry.
//
// A recipe describes one FFmpeg dependency: where its pinned source lives,
// which targets and variants it applies to, what it depends on, and the
// shell fragments that download and build it inside a container. Variants
// are skip-marked aggregator recipes whose dependency list names the
// libraries the variant ships.
//
// Recipes are declared as YAML files in numbered search directories, one
// recipe per file. Load reads them in lexical file order, which becomes the
// declaration order the resolver uses for deterministic tie breaking.
//
// Example usage:
//
//	reg, err := recipe.Load("recipes", "variants")
//	if err != nil {
//	    return err
//	}
//
//	r, ok := reg.Get("libx264")
//	if ok && r.Enabled(ctx) {
//	    // include in the plan
//	}
package recipe
