package build

import "github.com/ffbuild/ffbuild/internal/recipe"

// Accumulates the FFmpeg configure and linker flags for a resolved plan.
//
// Recipes in the plan contribute their configure and linker flags; every
// other buildable recipe in the registry contributes its unconfigure flags,
// so features backed by absent libraries are switched off explicitly. The
// selected variant aggregator contributes the flags shared by the whole
// variant, such as license and link mode. Registry declaration order keeps
// the flag lists deterministic.
func Flags(reg *recipe.Registry, ctx recipe.Context, plan []*recipe.Recipe) (configure, ldflags []string) {
	inPlan := make(map[string]bool, len(plan))
	for _, rec := range plan {
		inPlan[rec.Name] = true
	}

	for _, rec := range reg.All() {
		if rec.Skip {
			if rec.Name == ctx.Variant {
				configure = append(configure, rec.Configure...)
				ldflags = append(ldflags, rec.Ldflags...)
			}
			continue
		}
		if inPlan[rec.Name] {
			configure = append(configure, rec.Configure...)
			ldflags = append(ldflags, rec.Ldflags...)
		} else {
			configure = append(configure, rec.Unconfigure...)
		}
	}

	return configure, ldflags
}
