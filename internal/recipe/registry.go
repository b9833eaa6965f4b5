package recipe

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// The set of all known recipes, keyed by name.
//
// Declaration order is the lexical order of recipe files across the search
// paths (the numbered file prefixes fix it), and is what the resolver uses
// to break ordering ties. The registry performs no I/O after loading and
// never evaluates enablement.
type Registry struct {
	byName map[string]*Recipe
	order  []*Recipe
}

// Loads all recipe declarations found under the given search paths.
//
// Each path is read non-recursively; files ending in .yaml or .yml are
// parsed as one recipe each. Fails with [ErrDuplicateRecipe] when two files
// declare the same name, and with [ErrInvalidRecipe] for unparseable or
// unnamed declarations.
func Load(searchPaths ...string) (*Registry, error) {
	reg := &Registry{byName: make(map[string]*Recipe)}

	for _, dir := range searchPaths {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("reading recipe path: %w", err)
		}

		for _, entry := range entries {
			if entry.IsDir() || !isRecipeFile(entry.Name()) {
				continue
			}
			if err := reg.loadFile(filepath.Join(dir, entry.Name())); err != nil {
				return nil, err
			}
		}
	}

	return reg, nil
}

// Parses a single recipe file and adds it to the registry.
func (reg *Registry) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecipe, err)
	}

	var r Recipe
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	if err := dec.Decode(&r); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidRecipe, path, err)
	}

	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: %s: missing name", ErrInvalidRecipe, path)
	}

	if existing, ok := reg.byName[r.Name]; ok {
		return fmt.Errorf("%w: %q declared in both %s and %s",
			ErrDuplicateRecipe, r.Name, existing.path, path)
	}

	r.path = path
	r.order = len(reg.order)
	reg.byName[r.Name] = &r
	reg.order = append(reg.order, &r)
	return nil
}

// Looks up a recipe by name.
func (reg *Registry) Get(name string) (*Recipe, bool) {
	r, ok := reg.byName[name]
	return r, ok
}

// Returns all recipes in declaration order.
//
// The returned slice is a copy; the registry itself is immutable after Load.
func (reg *Registry) All() []*Recipe {
	out := make([]*Recipe, len(reg.order))
	copy(out, reg.order)
	return out
}

// Returns the number of registered recipes.
func (reg *Registry) Len() int {
	return len(reg.order)
}

// Reports whether the file name looks like a recipe declaration.
func isRecipeFile(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}
