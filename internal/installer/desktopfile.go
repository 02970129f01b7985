package installer

import (
	"fmt"
	"os"
	"strings"

	"github.com/appdrop/appdrop/internal/bundle"
)

// writeDesktopEntry writes the installed application's desktop entry.
// Exec points at the installed bundle copy, never the drop location
// (which may be a Downloads folder or removable media), and Icon at the
// installed icon's absolute path. Descriptive fields the upstream
// author wrote are carried over.
func writeDesktopEntry(path string, entry *bundle.Entry, execPath, iconPath string) error {
	lines := []string{
		"[Desktop Entry]",
		"Type=Application",
		"Name=" + entry.Name,
		fmt.Sprintf("Exec=%q", execPath),
		"Icon=" + iconPath,
	}

	if entry.Terminal {
		lines = append(lines, "Terminal=true")
	} else {
		lines = append(lines, "Terminal=false")
	}
	if entry.Comment != "" {
		lines = append(lines, "Comment="+entry.Comment)
	}
	if len(entry.Categories) > 0 {
		lines = append(lines, "Categories="+strings.Join(entry.Categories, ";")+";")
	}
	if entry.Version != "" {
		lines = append(lines, "X-AppImage-Version="+entry.Version)
	}
	lines = append(lines, "")

	return os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644)
}
