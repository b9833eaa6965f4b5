package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const (

	// Name used for directory naming under the XDG base paths.
	toolName = "ffbuild"

	// Default permission mode for directories.
	DefaultDirMode os.FileMode = 0755

	// Default permission mode for files.
	DefaultFileMode os.FileMode = 0644
)

// Path to the source checkout cache.
//
//	Linux:   ~/.cache/ffbuild/sources
//	macOS:   ~/Library/Caches/ffbuild/sources
func Sources() string {
	return filepath.Join(xdg.CacheHome, toolName, "sources")
}

// Path to the scratch directory for per-build state (prefix and work trees
// before they are bind-mounted into build containers).
//
//	Linux:   ~/.local/state/ffbuild
//	macOS:   ~/Library/Application Support/ffbuild/state
func State() string {
	if xdg.StateHome != "" {
		return filepath.Join(xdg.StateHome, toolName)
	}
	return filepath.Join(xdg.DataHome, toolName, "state")
}
