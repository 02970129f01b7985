package bundle

import (
	"os"
	"path/filepath"
)

// Paths checked inside the unpacked tree to recognize an embedded
// browser runtime. Electron ships a setuid sandbox helper next to the
// binary and packs the application into resources/app.asar; either one
// is a reliable marker.
var runtimeMarkers = []string{
	"chrome-sandbox",
	filepath.Join("usr", "bin", "chrome-sandbox"),
	filepath.Join("resources", "app.asar"),
	filepath.Join("usr", "lib", "resources", "app.asar"),
}

// classifyRuntime reports whether the unpacked tree at root belongs to
// an embedded-browser-runtime application. It is a pure function of the
// tree: the bundle is never executed to find out, and absence of every
// marker simply means false.
func classifyRuntime(root string) bool {
	for _, marker := range runtimeMarkers {
		if _, err := os.Stat(filepath.Join(root, marker)); err == nil {
			return true
		}
	}
	return false
}
