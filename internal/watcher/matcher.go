package watcher

import (
	"path/filepath"
	"strings"
)

// Suffixes browsers append to files still being downloaded. A bundle
// only becomes a candidate once the real name appears.
var inProgressSuffixes = []string{".part", ".crdownload", ".download", ".tmp"}

// IsBundlePath reports whether path names a complete AppImage file the
// watcher should pick up. The extension match is case-insensitive
// (Foo.appimage and Foo.AppImage both occur in the wild); hidden files
// and in-progress download names are skipped.
func IsBundlePath(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}

	lower := strings.ToLower(base)
	for _, suffix := range inProgressSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return false
		}
	}

	return strings.HasSuffix(lower, ".appimage")
}
