package installer

import (
	"errors"
	"fmt"

	"github.com/appdrop/appdrop/internal/registry"
)

var (
	// ErrInstallWrite wraps filesystem failures during an install
	// transaction. Whenever it is returned, rollback has already
	// removed everything the transaction created.
	ErrInstallWrite = errors.New("install write failed")

	// ErrNotInstalled is returned by Uninstall for an unknown identity
	// key. No deletions happen in that case.
	ErrNotInstalled = errors.New("application is not installed")
)

// AlreadyInstalledError reports a conflicting install under the cancel
// policy. It carries the existing record so a caller can show the user
// what is there and offer the overwrite choice; it is a decision point,
// not a terminal failure, and no filesystem change precedes it.
type AlreadyInstalledError struct {
	Existing *registry.App
}

func (e *AlreadyInstalledError) Error() string {
	if e.Existing.Version != "" {
		return fmt.Sprintf("%s %s is already installed at %s",
			e.Existing.Name, e.Existing.Version, e.Existing.InstallPath)
	}
	return fmt.Sprintf("%s is already installed at %s", e.Existing.Name, e.Existing.InstallPath)
}
