// Package output provides terminal output utilities for appdrop:
// the installed-apps table and a spinner for the slow extraction and
// copy phases. Color and animation degrade to plain text on non-TTY
// writers so piped output stays clean.
package output

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/appdrop/appdrop/internal/registry"
)

const (
	colorReset = "\033[0m"
	colorCyan  = "\033[36m"
	colorGray  = "\033[90m"
)

// IsColorEnabled returns true if ANSI color codes should be emitted.
// It checks that os.Stdout is a TTY and that NO_COLOR is not set.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

// RenderAppTable renders the installed applications in registry order
// (oldest install first; the caller does not re-sort).
func RenderAppTable(apps []*registry.App) string {
	if len(apps) == 0 {
		return "No applications installed.\n"
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%-24s %-12s %-14s %s\n",
		"Application", "Version", "Installed", "Location"))
	sb.WriteString(strings.Repeat("─", 84))
	sb.WriteString("\n")

	for _, app := range apps {
		name := truncate(app.Name, 24)
		if app.EmbeddedRuntime {
			// Flagged so users know why this one takes a while to start.
			name = truncate(app.Name, 22) + " ◷"
		}

		version := app.Version
		if version == "" {
			version = "—"
		}

		sb.WriteString(fmt.Sprintf("%-24s %-12s %-14s %s\n",
			name,
			truncate(version, 12),
			formatRelativeTime(app.InstalledAt),
			colorize(colorGray, app.InstallPath)))
	}

	if hasEmbeddedRuntime(apps) {
		sb.WriteString("\n◷ embedded browser runtime; first launch may be slow\n")
	}

	return sb.String()
}

func hasEmbeddedRuntime(apps []*registry.App) bool {
	for _, app := range apps {
		if app.EmbeddedRuntime {
			return true
		}
	}
	return false
}

// colorize wraps text in the given ANSI color code if color is
// enabled, otherwise returns the plain text.
func colorize(color, text string) string {
	if IsColorEnabled() {
		return color + text + colorReset
	}
	return text
}

// truncate shortens s to max runes, ellipsizing when needed.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}

// formatRelativeTime converts a timestamp to relative time, e.g.
// "2 days ago".
func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}

	diff := time.Since(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return plural(int(diff.Minutes()), "minute")
	case diff < 24*time.Hour:
		return plural(int(diff.Hours()), "hour")
	case diff < 30*24*time.Hour:
		return plural(int(diff.Hours()/24), "day")
	case diff < 365*24*time.Hour:
		return plural(int(diff.Hours()/(24*30)), "month")
	default:
		return plural(int(diff.Hours()/(24*365)), "year")
	}
}

func plural(n int, unit string) string {
	if n <= 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
