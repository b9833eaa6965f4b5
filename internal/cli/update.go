package cli

import (
	"context"
	"fmt"

	"github.com/ffbuild/ffbuild/internal/update"
)

// Represents the 'ffbuild update' command.
type UpdateCmd struct {
	RecipeDir  string `default:"recipes" help:"Recipe declaration directory." type:"existingdir"`
	VariantDir string `default:"variants" help:"Variant declaration directory." type:"existingdir"`
}

// Executes the update command.
//
// Rewrites stale pins in place and prints each change.
func (c *UpdateCmd) Run(ctx context.Context) error {
	changes, err := update.New(c.RecipeDir, c.VariantDir).Run(ctx)
	if err != nil {
		return err
	}

	if len(changes) == 0 {
		fmt.Println("all pins up to date")
		return nil
	}

	for _, ch := range changes {
		fmt.Printf("%s: %s -> %s\n", ch.Recipe, ch.Old, ch.New)
	}
	return nil
}
