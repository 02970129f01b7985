// Package bundle reads AppImage files without ever executing them.
//
// An AppImage is an ELF stub with a read-only filesystem image appended
// after the last section header. Read locates that image, unpacks it into
// a private temporary directory and recovers the desktop entry and icon
// that describe the application. The payload is treated as untrusted data
// throughout: classification and metadata extraction work purely on the
// unpacked tree.
package bundle

import (
	"errors"
	"os"
	"time"
)

// Sentinel errors returned by Read. Wrapped causes are preserved, so
// callers should test with errors.Is.
var (
	// ErrInvalidFormat means the file is not an AppImage: the ELF or
	// AppImage markers are missing, the payload offset points past the
	// end of the file, or the appended image is in no recognized format.
	ErrInvalidFormat = errors.New("not a valid AppImage bundle")

	// ErrExtraction means the appended image was located but could not
	// be fully unpacked (truncated image, bad compression stream, I/O).
	ErrExtraction = errors.New("bundle extraction failed")

	// ErrMissingMetadata means the unpacked tree carries no usable
	// desktop entry (none found, or Name/Exec missing).
	ErrMissingMetadata = errors.New("bundle has no usable desktop entry")
)

// Bundle is the read-only result of parsing an AppImage. It owns the
// temporary directory the image was unpacked into; callers must call
// Release exactly once when done with it, on every exit path.
type Bundle struct {
	// SourcePath is the absolute path of the original bundle file.
	SourcePath string

	// ExtractedRoot is the unpacked filesystem tree. Owned by the
	// Bundle; gone after Release.
	ExtractedRoot string

	// Entry is the desktop entry found inside the image.
	Entry *Entry

	// IconPath points at the icon inside ExtractedRoot, or is empty
	// when the Icon key did not resolve to a file.
	IconPath string

	// EmbeddedRuntime is true when the unpacked tree carries the
	// markers of an embedded browser runtime (Electron and friends),
	// which tend to start slowly. Determined statically, never by
	// running the bundle.
	EmbeddedRuntime bool

	// ReadAt records when the bundle was parsed.
	ReadAt time.Time

	released bool
}

// Name returns the application name from the desktop entry.
func (b *Bundle) Name() string { return b.Entry.Name }

// Version returns the desktop entry version, possibly empty.
func (b *Bundle) Version() string { return b.Entry.Version }

// Release removes the temporary extraction directory. It is idempotent;
// only the first call does work.
func (b *Bundle) Release() {
	if b.released {
		return
	}
	b.released = true
	if b.ExtractedRoot != "" {
		os.RemoveAll(b.ExtractedRoot)
	}
}
