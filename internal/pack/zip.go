package pack

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Writes the prefix layout as a zip archive.
//
// All entries live under a single top-level directory named after the
// archive. Only regular files are written; zip has no useful directory or
// symlink story and the Windows prefixes do not rely on either.
func writeZip(opts Options, name string) (string, error) {
	out := filepath.Join(opts.Dest, name+".zip")

	f, err := os.Create(out)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrPackaging, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)

	err = walkLayout(opts.Prefix, func(path, rel string, d fs.DirEntry) error {
		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		hdr, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		hdr.Name = name + "/" + rel
		hdr.Method = zip.Deflate

		w, err := zw.CreateHeader(hdr)
		if err != nil {
			return err
		}

		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()

		_, err = io.Copy(w, src)
		return err
	})
	if err != nil {
		zw.Close()
		return "", fmt.Errorf("%w: %w", ErrPackaging, err)
	}

	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrPackaging, err)
	}
	return out, nil
}
