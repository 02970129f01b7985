// Package config provides the per-user filesystem layout and the
// settings file for appdrop. Nothing here needs elevated privileges:
// every path lives under the invoking user's home.
package config

import (
	"os"
	"path/filepath"
)

// Paths is the per-user directory layout installs operate on. All
// fields are absolute.
type Paths struct {
	AppsDir    string // installed bundle copies, ~/Applications
	IconsDir   string // hicolor icon theme root, ~/.local/share/icons/hicolor
	EntriesDir string // desktop entries, ~/.local/share/applications
	DataDir    string // appdrop's own state, ~/.local/share/appdrop
}

// DefaultPaths resolves the standard layout, honoring XDG_DATA_HOME for
// the share directories.
func DefaultPaths() (*Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	share := os.Getenv("XDG_DATA_HOME")
	if share == "" {
		share = filepath.Join(home, ".local", "share")
	}

	return &Paths{
		AppsDir:    filepath.Join(home, "Applications"),
		IconsDir:   filepath.Join(share, "icons", "hicolor"),
		EntriesDir: filepath.Join(share, "applications"),
		DataDir:    filepath.Join(share, "appdrop"),
	}, nil
}

// RegistryPath returns the location of the installed-apps database,
// creating the data directory if needed.
func (p *Paths) RegistryPath() (string, error) {
	if err := os.MkdirAll(p.DataDir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(p.DataDir, "appdrop.db"), nil
}

// Dir returns the appdrop config directory, respecting XDG_CONFIG_HOME.
// Defaults to ~/.config/appdrop.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "appdrop"), nil
}
