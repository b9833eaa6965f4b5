// Parses flags and dispatches subcommands for the ffbuild CLI.
//
// The CLI exposes four commands:
//
//	build     Build FFmpeg and its dependencies for a target/variant.
//	list      List recipes and their enablement for a context.
//	update    Refresh recipe pins from their upstreams.
//	version   Show version information.
//
// Global flags select quiet or debug logging; they override build-time
// defaults set via linker flags. After parsing, the global logger is
// reconfigured to reflect the final level before any command runs.
package cli
