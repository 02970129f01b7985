package bundle

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Entry is a parsed desktop entry. Fields keeps the full key/value set of
// the [Desktop Entry] group so nothing the upstream author wrote is lost
// when the entry is rewritten at install time.
type Entry struct {
	Path       string
	Name       string
	Exec       string
	Icon       string
	Version    string
	Comment    string
	Terminal   bool
	Categories []string
	Fields     map[string]string
}

// findDesktopEntry locates the bundle's desktop entry inside root. When
// several .desktop files exist the shallowest wins, ties broken by path
// order, so the choice is stable across runs.
func findDesktopEntry(root string) (*Entry, error) {
	var candidates []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable subtree, keep looking elsewhere
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".desktop") {
			candidates = append(candidates, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: scanning for desktop entry: %v", ErrMissingMetadata, err)
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: no .desktop file in image", ErrMissingMetadata)
	}

	sort.Slice(candidates, func(i, j int) bool {
		di := strings.Count(candidates[i], string(os.PathSeparator))
		dj := strings.Count(candidates[j], string(os.PathSeparator))
		if di != dj {
			return di < dj
		}
		return candidates[i] < candidates[j]
	})

	entry, err := parseDesktopFile(candidates[0])
	if err != nil {
		return nil, err
	}
	if entry.Name == "" || entry.Exec == "" {
		return nil, fmt.Errorf("%w: %s lacks Name or Exec", ErrMissingMetadata, filepath.Base(candidates[0]))
	}
	return entry, nil
}

// parseDesktopFile reads a freedesktop key/value file, keeping only the
// [Desktop Entry] group. Localized keys (Name[de]=...) and malformed
// lines are skipped rather than rejected.
func parseDesktopFile(path string) (*Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingMetadata, err)
	}
	defer f.Close()

	entry := &Entry{
		Path:   path,
		Fields: make(map[string]string),
	}

	inGroup := false
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			inGroup = line == "[Desktop Entry]"
			continue
		}
		if !inGroup {
			continue
		}

		idx := strings.IndexByte(line, '=')
		if idx <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])
		if key == "" || strings.ContainsRune(key, '[') {
			continue
		}

		entry.Fields[key] = value
		switch key {
		case "Name":
			entry.Name = value
		case "Exec":
			entry.Exec = value
		case "Icon":
			entry.Icon = value
		case "Version":
			entry.Version = value
		case "Comment":
			entry.Comment = value
		case "Terminal":
			entry.Terminal = value == "true"
		case "Categories":
			for _, c := range strings.Split(value, ";") {
				if c = strings.TrimSpace(c); c != "" {
					entry.Categories = append(entry.Categories, c)
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrMissingMetadata, path, err)
	}

	return entry, nil
}
