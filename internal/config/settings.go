package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// Settings are the externally configured defaults the installer treats
// purely as inputs: whether installed bundles are marked executable and
// how a conflicting install is resolved when the caller expresses no
// preference.
type Settings struct {
	// MakeExecutable marks the installed copy executable at commit.
	MakeExecutable bool

	// OnConflict is "cancel" or "overwrite".
	OnConflict string

	// DropDir is the directory the watch command observes.
	DropDir string

	// AppsDir overrides the default install directory when non-empty.
	AppsDir string
}

// DefaultSettings returns the settings used when no config file exists.
func DefaultSettings() *Settings {
	return &Settings{
		MakeExecutable: true,
		OnConflict:     "cancel",
	}
}

// LoadSettings reads {dir}/config and returns the parsed settings. A
// missing file yields the defaults without an error. Unknown keys and
// malformed lines are silently skipped.
func LoadSettings(dir string) (*Settings, error) {
	s := DefaultSettings()

	f, err := os.Open(filepath.Join(dir, "config"))
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		idx := strings.IndexByte(line, '=')
		if idx <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])

		switch key {
		case "make_executable":
			s.MakeExecutable = value == "true" || value == "yes" || value == "1"
		case "on_conflict":
			if value == "cancel" || value == "overwrite" {
				s.OnConflict = value
			}
		case "drop_dir":
			s.DropDir = value
		case "apps_dir":
			s.AppsDir = value
		}
	}
	if err := scanner.Err(); err != nil {
		return s, err
	}

	return s, nil
}
