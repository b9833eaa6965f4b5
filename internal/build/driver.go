package build

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	goruntime "runtime"

	"github.com/ffbuild/ffbuild/internal"
	"github.com/ffbuild/ffbuild/internal/pack"
	"github.com/ffbuild/ffbuild/internal/paths"
	"github.com/ffbuild/ffbuild/internal/recipe"
	"github.com/ffbuild/ffbuild/internal/resolve"
	"github.com/ffbuild/ffbuild/internal/runtime"
	"github.com/ffbuild/ffbuild/internal/source"
)

// Name of the aggregator recipe that performs the final FFmpeg build. It is
// always appended to the requested set so every plan ends with it.
const finalizeRecipe = "ffmpeg"

// Controls one build invocation.
type Options struct {
	Context    recipe.Context // Target, variant, addins, FFmpeg version.
	RecipeDirs []string       // Recipe declaration search paths.
	Output     string         // Directory for the prefix and packaged archive.
	Jobs       int            // Concurrent source downloads.

	Image               string // Builder image reference.
	ContainerdAddress   string // Containerd socket address.
	ContainerdNamespace string // Containerd namespace.

	SourceCache string // Source cache override. Empty uses the XDG default.
	SkipPackage bool   // Build the prefix but skip archiving.
}

// Runs a complete build: resolve, prefetch, execute stages, package.
//
// Resolution errors (duplicates, unknown dependencies, cycles) surface
// before any container is touched. Stage execution is fail-fast: the first
// non-zero stage aborts the remaining plan with a [StageError] carrying its
// exit code. Packaging failures are distinct from build failures.
func Run(ctx context.Context, opts Options) error {
	reg, err := recipe.Load(opts.RecipeDirs...)
	if err != nil {
		return err
	}

	requested := append(opts.Context.Requested(), finalizeRecipe)
	plan, err := resolve.Plan(reg, opts.Context, requested)
	if err != nil {
		return err
	}
	if len(plan) == 0 {
		return fmt.Errorf("%w: nothing to build for %s/%s",
			ErrBuild, opts.Context.Target, opts.Context.Variant)
	}

	stages := Compose(plan)
	configure, ldflags := Flags(reg, opts.Context, plan)
	env := Environ(opts.Context, configure, ldflags)

	slog.Info("resolved build plan",
		"target", opts.Context.Target,
		"variant", opts.Context.Variant,
		"recipes", len(plan),
		"stages", len(stages),
	)

	cache := opts.SourceCache
	if cache == "" {
		cache = paths.Sources()
	}
	fetcher := source.NewFetcher(cache)
	if err := fetcher.Prefetch(ctx, plan, opts.Jobs); err != nil {
		return err
	}

	prefix := filepath.Join(opts.Output, "prefix")
	if err := os.MkdirAll(prefix, paths.DefaultDirMode); err != nil {
		return fmt.Errorf("%w: %w", ErrFileSystem, err)
	}

	rt, err := runtime.New(opts.ContainerdAddress, opts.ContainerdNamespace)
	if err != nil {
		return err
	}
	defer rt.Close()

	image, err := rt.PullImage(ctx, opts.Image, hostPlatform())
	if err != nil {
		return err
	}

	ex := &containerExecutor{
		rt:    rt,
		image: image,
		mounts: []runtime.Mount{
			{Source: prefix, Target: PrefixMount},
			{Source: cache, Target: SourcesMount, ReadOnly: true},
		},
		resource: fmt.Sprintf("%s-%s-%s", internal.Name, opts.Context.Target, opts.Context.Variant),
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
	defer ex.destroy(context.WithoutCancel(ctx))

	if err := executeStages(ctx, ex, stages, env); err != nil {
		return err
	}

	if opts.SkipPackage {
		slog.Info("build complete", "prefix", prefix)
		return nil
	}

	archive, err := pack.Package(pack.Options{
		Prefix:  prefix,
		Dest:    opts.Output,
		Target:  opts.Context.Target,
		Variant: opts.Context.Variant,
		Version: opts.Context.Version,
	})
	if err != nil {
		return err
	}

	slog.Info("build complete", "archive", archive)
	return nil
}

// Executes composed stages in order, aborting on the first failure.
//
// Later stages assume earlier stages' artifacts are already installed into
// the shared prefix, so execution is strictly sequential and there is no
// partial continuation past a failed stage.
func executeStages(ctx context.Context, ex Executor, stages []Stage, env []string) error {
	for i, stage := range stages {
		slog.Info("executing stage",
			"stage", i+1,
			"of", len(stages),
			"name", stage.Name,
			"recipes", len(stage.Recipes),
		)

		if err := ex.ExecuteStage(ctx, i, stage, Script(stage), env); err != nil {
			return err
		}
	}
	return nil
}

// Returns the OCI platform build containers run on.
//
// Cross-compilation happens inside the builder image's toolchain; the
// container itself always runs on the host architecture.
func hostPlatform() string {
	return "linux/" + goruntime.GOARCH
}
