package bundle

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Read parses the AppImage at path into a Bundle. The file is validated,
// its appended filesystem image is unpacked into a fresh temporary
// directory, and the desktop entry and icon are located inside the
// unpacked tree. The bundle file itself is never executed and never
// made executable.
//
// On success the returned Bundle owns the temporary directory; the
// caller must Release it. On failure nothing is left on disk.
func Read(path string) (*Bundle, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	f, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("opening bundle: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("opening bundle: %w", err)
	}

	// Validate before touching the filesystem.
	offset, err := payloadOffset(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if offset <= 0 || offset >= info.Size() {
		return nil, fmt.Errorf("%w: no appended image after ELF stub", ErrInvalidFormat)
	}

	// A fresh directory per call; concurrent reads of different
	// bundles never share an extraction root.
	root, err := os.MkdirTemp("", "appdrop-*")
	if err != nil {
		return nil, fmt.Errorf("%w: creating extraction directory: %v", ErrExtraction, err)
	}

	if err := extractPayload(f, offset, info.Size(), root); err != nil {
		os.RemoveAll(root)
		return nil, err
	}

	// Every AppImage ships an AppRun entry point at the image root;
	// its absence means the image is not an application bundle.
	if _, err := os.Lstat(filepath.Join(root, "AppRun")); err != nil {
		os.RemoveAll(root)
		return nil, fmt.Errorf("%w: image has no AppRun entry point", ErrInvalidFormat)
	}

	entry, err := findDesktopEntry(root)
	if err != nil {
		os.RemoveAll(root)
		return nil, err
	}
	if entry.Version == "" {
		// AppImage convention carries the application version in an
		// X- extension key, not the standard Version field.
		entry.Version = entry.Fields["X-AppImage-Version"]
	}

	return &Bundle{
		SourcePath:      abs,
		ExtractedRoot:   root,
		Entry:           entry,
		IconPath:        findIcon(root, entry.Icon),
		EmbeddedRuntime: classifyRuntime(root),
		ReadAt:          time.Now(),
	}, nil
}
