package registry

import (
	"strings"
	"time"
)

// App is one installed application. At most one App per IdentityKey
// exists in the registry at any time.
type App struct {
	IdentityKey      string
	Name             string
	Version          string
	SourcePath       string // where the bundle was installed from
	InstallPath      string // installed bundle copy
	IconPath         string // installed icon, empty if the fallback failed to land
	DesktopEntryPath string
	EmbeddedRuntime  bool
	InstalledAt      time.Time
}

// IdentityFor derives the stable identity key for an application name.
// Two bundles mapping to the same key are the same application no matter
// their file names or versions: case and runs of whitespace are
// irrelevant.
func IdentityFor(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
