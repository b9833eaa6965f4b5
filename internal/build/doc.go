// Package build orchestrates recipe execution against the container runtime.
//
// A build starts from a resolved plan: the dependency-ordered list of
// enabled recipes for one target/variant/addin selection. The composer
// groups the plan into container stages, the script renderer turns each
// stage into a linear shell script of checkout and build commands, and the
// driver executes the stages sequentially in containerd-backed containers
// that share an installation prefix via bind mount. Configure and linker
// flags accumulate across the registry and reach the finalize recipe (the
// FFmpeg build itself) through the stage environment. The packaged archive
// is produced by the pack package once the last stage succeeds.
//
// Stage execution is fail-fast: the first non-zero exit aborts the plan and
// surfaces as a StageError carrying the stage's exit code.
//
// Example usage:
//
//	err := build.Run(ctx, build.Options{
//	    Context:    recipe.Context{Target: "win64", Variant: "gpl"},
//	    RecipeDirs: []string{"recipes", "variants"},
//	    Output:     "artifacts",
//	    Image:      "ghcr.io/ffbuild/builder:latest",
//	})
package build
