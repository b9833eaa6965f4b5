package cli

import (
	"context"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/ffbuild/ffbuild/internal/recipe"
)

// Represents the 'ffbuild list' command.
type ListCmd struct {
	Target  string   `default:"win64" help:"Target platform to evaluate enablement for."`
	Variant string   `default:"gpl" help:"Variant to evaluate enablement for."`
	Addins  []string `short:"a" help:"Addins to evaluate enablement for." placeholder:"NAME"`

	RecipeDir  string `default:"recipes" help:"Recipe declaration directory." type:"existingdir"`
	VariantDir string `default:"variants" help:"Variant declaration directory." type:"existingdir"`
}

// Executes the list command.
//
// Prints every registered recipe with its pin, dependencies, and whether it
// is enabled for the given context.
func (c *ListCmd) Run(ctx context.Context) error {
	reg, err := recipe.Load(c.RecipeDir, c.VariantDir)
	if err != nil {
		return err
	}

	bctx := recipe.Context{
		Target:  c.Target,
		Variant: c.Variant,
		Addins:  c.Addins,
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Recipe", "Pin", "Dependencies", "Enabled"})

	for _, rec := range reg.All() {
		t.AppendRow(table.Row{
			rec.Name,
			pinLabel(rec),
			strings.Join(rec.Dependencies, ", "),
			rec.Enabled(bctx),
		})
	}

	t.Render()
	return nil
}

// Returns a short label for a recipe's primary pin.
func pinLabel(rec *recipe.Recipe) string {
	if len(rec.Sources) == 0 {
		return "-"
	}
	pin := rec.Sources[0].Pin()
	if pin == "" {
		return "-"
	}
	if len(pin) > 12 {
		pin = pin[:12]
	}
	return pin
}
