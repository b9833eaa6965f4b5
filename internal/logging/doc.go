// Package logging provides the terminal slog handler for the CLI.
//
// The handler favors short, readable lines over machine-parseable output;
// level labels are colored when the destination is an interactive terminal.
// Its level is mutable so flag parsing can tighten or loosen output after
// the default logger is already installed.
package logging
