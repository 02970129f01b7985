package bundle

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/CalebQ42/squashfs"
	"github.com/klauspost/compress/zstd"
	"github.com/klauspost/pgzip"
	"github.com/ulikunitz/xz"
)

// Payload magic bytes at the located offset.
var (
	magicSquashfs = []byte{'h', 's', 'q', 's'}
	magicGzip     = []byte{0x1f, 0x8b}
	magicXz       = []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}
	magicZstd     = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// extractPayload unpacks the appended image beginning at offset into dest.
// Squashfs is the normal AppImage payload; compressed tar streams are
// accepted as well since some self-extracting bundles ship those.
// An unrecognized payload is a format error, not an extraction error.
func extractPayload(f *os.File, offset, size int64, dest string) error {
	magic := make([]byte, 6)
	n, err := f.ReadAt(magic, offset)
	if n < 4 {
		if err == nil || err == io.EOF {
			err = fmt.Errorf("payload truncated at offset %d", offset)
		}
		return fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	switch {
	case hasPrefix(magic, magicSquashfs):
		return extractSquashfs(f, offset, size-offset, dest)
	case hasPrefix(magic, magicGzip), hasPrefix(magic, magicXz), hasPrefix(magic, magicZstd):
		return extractTar(f, offset, magic, dest)
	default:
		return fmt.Errorf("%w: unrecognized payload at offset %d", ErrInvalidFormat, offset)
	}
}

func hasPrefix(b, prefix []byte) bool {
	if len(b) < len(prefix) {
		return false
	}
	for i, p := range prefix {
		if b[i] != p {
			return false
		}
	}
	return true
}

func extractSquashfs(f *os.File, offset, length int64, dest string) error {
	rdr, err := squashfs.NewReader(io.NewSectionReader(f, offset, length))
	if err != nil {
		return fmt.Errorf("%w: opening squashfs image: %v", ErrExtraction, err)
	}
	if err := rdr.Extract(dest); err != nil {
		return fmt.Errorf("%w: unpacking squashfs image: %v", ErrExtraction, err)
	}
	return nil
}

func extractTar(f *os.File, offset int64, magic []byte, dest string) error {
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return fmt.Errorf("%w: seeking to payload: %v", ErrExtraction, err)
	}

	var (
		decomp io.Reader
		err    error
	)
	switch {
	case hasPrefix(magic, magicGzip):
		var gz *pgzip.Reader
		gz, err = pgzip.NewReader(f)
		if err == nil {
			defer gz.Close()
			decomp = gz
		}
	case hasPrefix(magic, magicXz):
		decomp, err = xz.NewReader(f)
	default:
		var zr *zstd.Decoder
		zr, err = zstd.NewReader(f)
		if err == nil {
			defer zr.Close()
			decomp = zr
		}
	}
	if err != nil {
		return fmt.Errorf("%w: opening compressed payload: %v", ErrExtraction, err)
	}

	return untar(decomp, dest)
}

// untar writes a tar stream below dest, refusing entries that would
// escape it (the usual path traversal guard).
func untar(r io.Reader, dest string) error {
	absDest, err := filepath.Abs(dest)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: reading tar stream: %v", ErrExtraction, err)
		}

		target := filepath.Join(absDest, hdr.Name)
		if target != absDest && !strings.HasPrefix(target, absDest+string(os.PathSeparator)) {
			return fmt.Errorf("%w: illegal path in image: %s", ErrExtraction, hdr.Name)
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, os.FileMode(hdr.Mode)|0o700); err != nil {
				return fmt.Errorf("%w: %v", ErrExtraction, err)
			}
		case tar.TypeSymlink:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("%w: %v", ErrExtraction, err)
			}
			if err := os.Symlink(hdr.Linkname, target); err != nil && !os.IsExist(err) {
				return fmt.Errorf("%w: %v", ErrExtraction, err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("%w: %v", ErrExtraction, err)
			}
			out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, os.FileMode(hdr.Mode))
			if err != nil {
				return fmt.Errorf("%w: %v", ErrExtraction, err)
			}
			_, err = io.Copy(out, tr)
			out.Close()
			if err != nil {
				return fmt.Errorf("%w: writing %s: %v", ErrExtraction, hdr.Name, err)
			}
		default:
			// Hard links, devices and the rest have no business in an
			// application image; skip them.
		}
	}
}
