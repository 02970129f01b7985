package installer

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Generic icon installed when a bundle ships none the reader could
// resolve. The desktop still gets something clickable.
//
//go:embed fallback.svg
var fallbackIcon []byte

// installIcon places the bundle's icon under the hicolor theme root and
// returns the installed path. SVGs land in scalable/apps, raster icons
// in 128x128/apps (the size the original bundle advertised is unknown
// by the time it is a lone file, so one well-supported size is used).
// An empty srcPath installs the embedded fallback.
func installIcon(srcPath, iconsDir, iconName string) (string, error) {
	var (
		data []byte
		ext  string
		err  error
	)

	if srcPath == "" {
		data = fallbackIcon
		ext = ".svg"
	} else {
		data, err = os.ReadFile(srcPath)
		if err != nil {
			return "", fmt.Errorf("reading bundle icon: %w", err)
		}
		ext = strings.ToLower(filepath.Ext(srcPath))
		if ext != ".svg" && ext != ".png" {
			ext = ".png"
		}
	}

	sizeDir := "128x128"
	if ext == ".svg" {
		sizeDir = "scalable"
	}

	targetDir := filepath.Join(iconsDir, sizeDir, "apps")
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return "", fmt.Errorf("creating icon directory: %w", err)
	}

	target := filepath.Join(targetDir, iconName+ext)
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("writing icon: %w", err)
	}
	return target, nil
}
