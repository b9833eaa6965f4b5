package cli

import (
	"context"

	"github.com/ffbuild/ffbuild/internal/build"
	"github.com/ffbuild/ffbuild/internal/recipe"
)

// Represents the 'ffbuild build' command.
type BuildCmd struct {
	Target  string   `arg:"" help:"Target platform (win64, winarm64, linux64, linuxarm64)."`
	Variant string   `arg:"" help:"License/link variant (gpl, lgpl, gpl-shared, lgpl-shared)."`
	Addins  []string `short:"a" help:"Addin recipes to enable for this build." placeholder:"NAME"`

	Output        string `short:"o" default:"artifacts" help:"Output directory for the prefix and archive."`
	Jobs          int    `short:"j" default:"4" help:"Concurrent source downloads."`
	FFmpegVersion string `name:"ffmpeg-version" default:"master" help:"FFmpeg version or branch being built."`
	NoPackage     bool   `help:"Build the prefix but skip archive packaging."`

	RecipeDir  string `default:"recipes" help:"Recipe declaration directory." type:"existingdir"`
	VariantDir string `default:"variants" help:"Variant declaration directory." type:"existingdir"`

	Image               string `default:"ghcr.io/ffbuild/builder:latest" help:"Builder image reference."`
	ContainerdAddress   string `default:"/run/containerd/containerd.sock" help:"Containerd socket address." placeholder:"PATH"`
	ContainerdNamespace string `default:"ffbuild" help:"Containerd namespace."`
}

// Executes the build command.
//
// Assembles the immutable build context from the flags and hands the rest
// to the driver. Resolution failures surface before any container starts; a
// failed stage aborts immediately with its exit code preserved.
func (c *BuildCmd) Run(ctx context.Context) error {
	return build.Run(ctx, build.Options{
		Context: recipe.Context{
			Target:  c.Target,
			Variant: c.Variant,
			Addins:  c.Addins,
			Version: c.FFmpegVersion,
		},
		RecipeDirs:          []string{c.RecipeDir, c.VariantDir},
		Output:              c.Output,
		Jobs:                c.Jobs,
		Image:               c.Image,
		ContainerdAddress:   c.ContainerdAddress,
		ContainerdNamespace: c.ContainerdNamespace,
		SkipPackage:         c.NoPackage,
	})
}
