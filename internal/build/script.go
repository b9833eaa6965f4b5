package build

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/ffbuild/ffbuild/internal/recipe"
	"github.com/ffbuild/ffbuild/internal/source"
)

// Mount points and directories every build container agrees on. The prefix
// is the shared read/write installation tree stages communicate through;
// sources enter read-only.
const (
	PrefixMount  = "/opt/ffbuild/prefix"
	SourcesMount = "/opt/ffbuild/sources"

	// Scratch directory inside the container snapshot; discarded with it.
	workDir = "/opt/ffbuild/work"
)

// Renders the shell script for one stage.
//
// Each recipe gets a fresh work directory, its default source checkout (or
// its download override), then its hook bodies in lifecycle order: layer,
// stage, build. The script runs under "set -e" so the first failing command
// aborts the stage.
func Script(stage Stage) string {
	var b strings.Builder
	b.WriteString("set -e\n")

	for _, rec := range stage.Recipes {
		fmt.Fprintf(&b, "\necho \"==> %s\"\n", rec.Name)

		wd := path.Join(workDir, rec.Name)
		fmt.Fprintf(&b, "mkdir -p %q && cd %q\n", wd, wd)

		writeDownload(&b, rec)

		for _, hook := range []string{rec.Layer, rec.Stage, rec.Build} {
			if hook != "" {
				b.WriteString(strings.TrimSpace(hook))
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}

// Emits the commands that place a recipe's sources in its work directory.
//
// The default checkout copies the cached primary source into the work
// directory root and any additional sources into subdirectories named after
// their repository. A download override replaces all of it.
func writeDownload(b *strings.Builder, rec *recipe.Recipe) {
	if rec.Download != "" {
		b.WriteString(strings.TrimSpace(rec.Download))
		b.WriteString("\n")
		return
	}

	for idx, src := range rec.Sources {
		cached := path.Join(SourcesMount, filepath.ToSlash(source.Subdir(rec, idx)))
		if idx == 0 {
			fmt.Fprintf(b, "cp -a %q/. .\n", cached)
		} else {
			fmt.Fprintf(b, "cp -a %q %q\n", cached, sourceBase(src))
		}
	}
}

// Returns the directory name an additional source is checked out under.
func sourceBase(src recipe.Source) string {
	ref := src.Repo
	if ref == "" {
		ref = src.URL
	}
	return strings.TrimSuffix(path.Base(ref), ".git")
}

// Builds the environment shared by every stage of one build.
//
// The accumulated configure and linker flags ride along so the finalize
// recipe can splice them into the FFmpeg configure invocation.
func Environ(ctx recipe.Context, configure, ldflags []string) []string {
	return []string{
		"FFBUILD_TARGET=" + ctx.Target,
		"FFBUILD_VARIANT=" + ctx.Variant,
		"FFBUILD_VERSION=" + ctx.Version,
		"FFBUILD_PREFIX=" + PrefixMount,
		"FFBUILD_SOURCES=" + SourcesMount,
		"FFBUILD_WORK=" + workDir,
		"FFBUILD_CONFIGURE=" + strings.Join(configure, " "),
		"FFBUILD_LDFLAGS=" + strings.Join(ldflags, " "),
		"PKG_CONFIG_PATH=" + PrefixMount + "/lib/pkgconfig",
	}
}
