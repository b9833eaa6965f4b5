package pack

import (
	"archive/tar"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ulikunitz/xz"
)

// Writes the prefix layout as a tar.xz archive.
//
// Directories, regular files, and symlinks are preserved; shared library
// version links (libfoo.so -> libfoo.so.1) must survive packaging.
func writeTarXz(opts Options, name string) (string, error) {
	out := filepath.Join(opts.Dest, name+".tar.xz")

	f, err := os.Create(out)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrPackaging, err)
	}
	defer f.Close()

	xw, err := xz.NewWriter(f)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrPackaging, err)
	}
	tw := tar.NewWriter(xw)

	err = walkLayout(opts.Prefix, func(path, rel string, d fs.DirEntry) error {
		info, err := d.Info()
		if err != nil {
			return err
		}

		var link string
		if info.Mode()&os.ModeSymlink != 0 {
			if link, err = os.Readlink(path); err != nil {
				return err
			}
		}

		hdr, err := tar.FileInfoHeader(info, link)
		if err != nil {
			return err
		}
		hdr.Name = name + "/" + rel
		if d.IsDir() {
			hdr.Name += "/"
		}

		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()

		_, err = io.Copy(tw, src)
		return err
	})
	if err != nil {
		tw.Close()
		xw.Close()
		return "", fmt.Errorf("%w: %w", ErrPackaging, err)
	}

	if err := tw.Close(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrPackaging, err)
	}
	if err := xw.Close(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrPackaging, err)
	}
	return out, nil
}
