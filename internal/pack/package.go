package pack

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Subdirectories of the installation prefix that belong in the published
// artifact. pkgconfig ships inside lib. Missing optional directories (doc)
// are simply absent from the archive.
var layoutDirs = []string{"bin", "lib", "include", "doc"}

// Controls packaging of a completed installation prefix.
type Options struct {
	Prefix  string // Installation prefix produced by the build stages.
	Dest    string // Directory the archive is written into.
	Target  string // Target platform, selects the archive format.
	Variant string // Variant, part of the archive name.
	Version string // FFmpeg version, part of the archive name.
}

// Packages the installation prefix into the target's archive format.
//
// Windows targets get a zip, everything else tar.xz. The expected FFmpeg
// binary must exist in the prefix before anything is written; a missing
// binary is a packaging error, reported distinctly from build failures.
// Returns the path of the written archive.
func Package(opts Options) (string, error) {
	binary := filepath.Join(opts.Prefix, "bin", binaryName(opts.Target))
	if _, err := os.Stat(binary); err != nil {
		return "", fmt.Errorf("%w: expected output %s: %w", ErrPackaging, binary, err)
	}

	if err := os.MkdirAll(opts.Dest, 0755); err != nil {
		return "", fmt.Errorf("%w: %w", ErrPackaging, err)
	}

	name := archiveName(opts)
	if isWindows(opts.Target) {
		return writeZip(opts, name)
	}
	return writeTarXz(opts, name)
}

// Returns the archive base name, without extension.
func archiveName(opts Options) string {
	version := opts.Version
	if version == "" {
		version = "master"
	}
	return fmt.Sprintf("ffmpeg-%s-%s-%s", version, opts.Target, opts.Variant)
}

// Returns the name of the FFmpeg binary for a target.
func binaryName(target string) string {
	if isWindows(target) {
		return "ffmpeg.exe"
	}
	return "ffmpeg"
}

// Reports whether the target is a Windows platform.
func isWindows(target string) bool {
	return strings.HasPrefix(target, "win")
}

// Walks the layout directories of a prefix in a fixed order.
//
// fn receives the path on disk, the archive-relative path (forward
// slashes), and the entry. Layout directories missing from the prefix are
// skipped.
func walkLayout(prefix string, fn func(path, rel string, d fs.DirEntry) error) error {
	for _, dir := range layoutDirs {
		root := filepath.Join(prefix, dir)
		if _, err := os.Stat(root); os.IsNotExist(err) {
			continue
		}

		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel, err := filepath.Rel(prefix, path)
			if err != nil {
				return err
			}
			return fn(path, filepath.ToSlash(rel), d)
		})
		if err != nil {
			return err
		}
	}
	return nil
}
