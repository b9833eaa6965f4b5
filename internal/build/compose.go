package build

import "github.com/ffbuild/ffbuild/internal/recipe"

// A group of recipes executed as one container build stage.
//
// Stages exist to keep container layer churn down: a run of plain recipes
// shares one container, while a recipe with a layer or stage hook gets a
// boundary of its own so its content caches independently.
type Stage struct {
	Name    string // Name of the stage's first recipe.
	Recipes []*recipe.Recipe
}

// Groups an ordered plan into container build stages.
//
// A recipe with a layer or stage hook starts a new stage; consecutive
// hook-less recipes merge into the current one. The grouping only affects
// cache reuse; plan order is preserved exactly.
func Compose(plan []*recipe.Recipe) []Stage {
	var stages []Stage

	for _, rec := range plan {
		if rec.Hooked() || len(stages) == 0 {
			stages = append(stages, Stage{Name: rec.Name, Recipes: []*recipe.Recipe{rec}})
			continue
		}
		last := &stages[len(stages)-1]
		last.Recipes = append(last.Recipes, rec)
	}

	return stages
}
