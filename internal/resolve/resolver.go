package resolve

import (
	"fmt"
	"strings"

	"github.com/ffbuild/ffbuild/internal/recipe"
)

// Traversal states for a recipe during resolution.
const (
	stateVisiting = 1 // On the current traversal path.
	stateDone     = 2 // Fully resolved (or disabled).
)

// Computes the ordered build plan for the requested recipes.
//
// The traversal is a post-order depth-first walk: a recipe's dependencies
// are emitted before the recipe itself, in their declared order, so the
// output is stable across runs for a fixed registry and context. Disabled
// recipes are treated as satisfied-but-absent: they contribute nothing to
// the plan and their own dependencies are not pulled in, but dependents
// resolve normally. Skip-marked aggregators order their dependencies
// without appearing in the plan themselves.
//
// Fails with [ErrCycle] when a recipe is revisited while still on the
// current traversal path, and with [ErrUnknownDependency] when a declared
// dependency (or requested name) is absent from the registry. Both are
// detected before any container work starts.
func Plan(reg *recipe.Registry, ctx recipe.Context, requested []string) ([]*recipe.Recipe, error) {
	r := &resolver{
		reg:   reg,
		ctx:   ctx,
		state: make(map[string]int, reg.Len()),
	}

	for _, name := range requested {
		if err := r.visit(name, nil); err != nil {
			return nil, err
		}
	}

	return r.plan, nil
}

// Carries traversal state for one resolution run.
type resolver struct {
	reg   *recipe.Registry
	ctx   recipe.Context
	state map[string]int
	plan  []*recipe.Recipe
}

// Visits a recipe and, recursively, its dependencies.
//
// path holds the names on the current traversal path, used for cycle
// reporting and for naming the dependent of a missing recipe.
func (r *resolver) visit(name string, path []string) error {
	switch r.state[name] {
	case stateDone:
		return nil
	case stateVisiting:
		return fmt.Errorf("%w: %s", ErrCycle, strings.Join(append(path, name), " -> "))
	}

	rec, ok := r.reg.Get(name)
	if !ok {
		if len(path) == 0 {
			return fmt.Errorf("%w: requested recipe %q", ErrUnknownDependency, name)
		}
		return fmt.Errorf("%w: %q (required by %q)",
			ErrUnknownDependency, name, path[len(path)-1])
	}

	if !rec.Enabled(r.ctx) {
		r.state[name] = stateDone
		return nil
	}

	r.state[name] = stateVisiting
	for _, dep := range rec.Dependencies {
		if err := r.visit(dep, append(path, name)); err != nil {
			return err
		}
	}
	r.state[name] = stateDone

	if !rec.Skip {
		r.plan = append(r.plan, rec)
	}
	return nil
}
