package source

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"

	"github.com/ffbuild/ffbuild/internal/recipe"
)

// Length of the pin fragment used in cache directory names.
const pinDirLen = 12

// Returns the cache-relative directory for one source of a recipe.
//
// The layout is <recipe>/<index>-<pin>, where the pin fragment is the first
// twelve characters of the commit (or a hash of the URL for plain
// downloads). The same function names the path on the host cache and inside
// the container's source mount, so the script renderer and the fetcher
// always agree.
func Subdir(rec *recipe.Recipe, idx int) string {
	src := rec.Sources[idx]

	pin := src.Pin()
	if pin == "" && src.URL != "" {
		sum := sha256.Sum256([]byte(src.URL))
		pin = hex.EncodeToString(sum[:])
	}
	if pin == "" {
		pin = "head"
	}
	pin = shorten(pin)

	return filepath.Join(rec.Name, fmt.Sprintf("%d-%s", idx, pin))
}

// Truncates a pin to the cache directory fragment length.
func shorten(pin string) string {
	if len(pin) > pinDirLen {
		return pin[:pinDirLen]
	}
	return pin
}
