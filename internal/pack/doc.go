// Package pack turns a finished installation prefix into a publishable
// archive.
//
// The canonical layout (bin/, lib/, lib/pkgconfig/, include/, doc/) is
// archived under a single versioned top-level directory: zip for Windows
// targets, tar.xz for everything else. A prefix missing the expected FFmpeg
// binary fails before any archive is written, keeping packaging errors
// clearly separate from build errors.
package pack
