package bundle

import (
	"os"
	"path/filepath"
)

// findIcon resolves the desktop entry's Icon name to a file inside the
// unpacked tree. AppImages usually place the icon (or a symlink to it)
// at the tree root; the hicolor theme directories and pixmaps are the
// fallbacks. An unresolved icon is not an error; the installer
// substitutes a generic one.
func findIcon(root, iconName string) string {
	if iconName == "" {
		return ""
	}

	candidates := []string{
		filepath.Join(root, iconName+".png"),
		filepath.Join(root, iconName+".svg"),
		filepath.Join(root, iconName),
		filepath.Join(root, "usr", "share", "icons", "hicolor", "256x256", "apps", iconName+".png"),
		filepath.Join(root, "usr", "share", "icons", "hicolor", "128x128", "apps", iconName+".png"),
		filepath.Join(root, "usr", "share", "icons", "hicolor", "64x64", "apps", iconName+".png"),
		filepath.Join(root, "usr", "share", "icons", "hicolor", "scalable", "apps", iconName+".svg"),
		filepath.Join(root, "usr", "share", "pixmaps", iconName+".png"),
		filepath.Join(root, "usr", "share", "pixmaps", iconName+".svg"),
	}

	for _, path := range candidates {
		// Stat follows symlinks, so the common root-level icon symlink
		// resolves to its target's existence.
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path
		}
	}
	return ""
}
