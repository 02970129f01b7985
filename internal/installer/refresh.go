package installer

import (
	"fmt"
	"os/exec"
)

// Refresher asks the desktop shell to reindex installed applications.
// It is idempotent and advisory: a failing refresh only delays when the
// shell notices the change, so callers downgrade its error to a warning.
type Refresher interface {
	Refresh(entriesDir, iconsDir string) error
}

// ExecRefresher shells out to the standard freedesktop tools. Either
// tool being absent is not an error worth failing an install over.
type ExecRefresher struct{}

func (ExecRefresher) Refresh(entriesDir, iconsDir string) error {
	var firstErr error

	cmd := exec.Command("update-desktop-database", entriesDir)
	if output, err := cmd.CombinedOutput(); err != nil {
		firstErr = fmt.Errorf("update-desktop-database failed: %w (output: %s)", err, string(output))
	}

	cmd = exec.Command("gtk-update-icon-cache", "-f", "-t", iconsDir)
	if output, err := cmd.CombinedOutput(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("gtk-update-icon-cache failed: %w (output: %s)", err, string(output))
	}

	return firstErr
}
