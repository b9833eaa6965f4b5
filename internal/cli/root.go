package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ffbuild/ffbuild/internal"
	"github.com/ffbuild/ffbuild/internal/logging"
)

// Represents the root command for the ffbuild CLI.
var RootCmd struct {
	Quiet bool `short:"q" help:"Suppress informational output."`
	Debug bool `short:"d" help:"Enable debug output."`

	Build   BuildCmd   `cmd:"" help:"Build FFmpeg and its dependencies for a target."`
	List    ListCmd    `cmd:"" help:"List recipes and their enablement for a context."`
	Update  UpdateCmd  `cmd:"" help:"Check upstream repositories and refresh recipe pins."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// Parses arguments, configures logging, and runs the selected subcommand.
func Execute() error {

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kongCtx := kong.Parse(&RootCmd,
		kong.Name(internal.Name),
		kong.Description("Containerized cross-compilation builds of FFmpeg and its dependencies."),
		kong.UsageOnError(),
		kong.Vars{
			"version": internal.VersionString(),
		},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	configureLogger()

	return kongCtx.Run()
}

// Configures the global logger based on CLI flags.
func configureLogger() {
	handler, ok := slog.Default().Handler().(*logging.Handler)
	if !ok {
		return // Not the terminal handler, nothing to configure
	}

	debug := RootCmd.Debug || internal.IsDebug()
	quiet := RootCmd.Quiet || internal.IsQuiet()

	if debug {
		handler.SetLevel(slog.LevelDebug)
	} else if quiet {
		handler.SetLevel(slog.LevelWarn)
	} else {
		handler.SetLevel(slog.LevelInfo)
	}

	handler.SetColor(isatty(os.Stderr))
}

// Whether the given file is an interactive terminal.
func isatty(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
