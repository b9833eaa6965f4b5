package internal

import (
	"fmt"
	"runtime"
	"strings"
)

// Tool name used for CLI naming, directories, and log grouping.
const Name = "ffbuild"

// Placeholder for build metadata a local (non-pipeline) build lacks.
const undefined = "(undefined)"

var (
	version   = "" // Version number (e.g., "1.2.3"), set via ldflags.
	gitCommit = "" // Git commit hash, set via ldflags.

	rawQuiet = "false" // Default for quiet mode, set via ldflags.
	rawDebug = "false" // Default for debug mode, set via ldflags.
)

// Returns the version number.
//
// A "v" or "V" prefix (e.g., "v1.0.0") is stripped. If the version is not
// set, returns "(undefined)".
func Version() string {
	v := strings.ToLower(strings.TrimSpace(version))
	if v == "" {
		return undefined
	}
	return strings.TrimPrefix(v, "v")
}

// Returns the git commit hash the binary was built from.
func GitCommit() string {
	c := strings.TrimSpace(gitCommit)
	if c == "" {
		return undefined
	}
	return c
}

// Returns true if this is a local (non-pipeline) build.
//
// Pipeline builds set both the version and the git commit via linker flags;
// a build missing either is considered local.
func IsLocal() bool {
	return strings.TrimSpace(version) == "" || strings.TrimSpace(gitCommit) == ""
}

// Returns the version string shown by the CLI.
//
// Local builds show "(local)". Pipeline builds show the version, commit,
// and architecture, formatted as "<version> <git-commit> [<arch>]".
func VersionString() string {
	if IsLocal() {
		return "(local)"
	}
	return fmt.Sprintf("%s %s [%s]", Version(), GitCommit(), runtime.GOARCH)
}
