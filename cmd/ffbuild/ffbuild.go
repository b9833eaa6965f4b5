package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/ffbuild/ffbuild/internal"
	"github.com/ffbuild/ffbuild/internal/build"
	"github.com/ffbuild/ffbuild/internal/cli"
	"github.com/ffbuild/ffbuild/internal/logging"
)

// The entry point for the ffbuild CLI.
//
// Initializes logging, displays startup information, and executes the root
// command. A failed build stage exits with that stage's own exit code;
// every other error exits with 1.
func main() {
	slog.SetDefault(logger())

	slog.Debug("build", "version", internal.VersionString())

	slog.Debug("ffbuild is running",
		"pid", os.Getpid(),
		"cwd", cwd(),
		"args", os.Args,
	)

	if err := cli.Execute(); err != nil {
		slog.Error(err.Error())

		var stageErr *build.StageError
		if errors.As(err, &stageErr) && stageErr.ExitCode != 0 {
			os.Exit(stageErr.ExitCode)
		}
		os.Exit(1)
	}
}

// Creates a logger seeded from build-time linker flags.
//
// The logger is reconfigured after flag parsing via cli.Execute.
func logger() *slog.Logger {
	handler := logging.NewHandler(os.Stderr)
	handler.SetLevel(logLevel())
	return slog.New(handler)
}

// Returns the log level derived from build-time linker flags.
func logLevel() slog.Level {
	if internal.IsDebug() {
		return slog.LevelDebug
	}
	if internal.IsQuiet() {
		return slog.LevelWarn
	}
	return slog.LevelInfo
}

// Returns the current working directory or "(unknown)".
func cwd() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "(unknown)"
	}
	return cwd
}
