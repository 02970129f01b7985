// Package installer turns a parsed bundle into an installed desktop
// application as an all-or-nothing transaction: bundle copy, icon,
// desktop entry, shell refresh, registry record. Any step failing walks
// back every path the transaction created. Installing never launches
// anything; the only subprocess surface is the injected Refresher.
package installer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/appdrop/appdrop/internal/bundle"
	"github.com/appdrop/appdrop/internal/config"
	"github.com/appdrop/appdrop/internal/registry"
)

// OverwritePolicy resolves a detected install conflict.
type OverwritePolicy int

const (
	// PolicyCancel fails a conflicting install with
	// AlreadyInstalledError and changes nothing.
	PolicyCancel OverwritePolicy = iota

	// PolicyOverwrite replaces the existing install in the same
	// transaction.
	PolicyOverwrite
)

// Options are the caller-supplied install inputs. Defaults normally
// come from the settings collaborator.
type Options struct {
	Overwrite      OverwritePolicy
	MakeExecutable bool
}

// Result reports a committed install or uninstall. Warnings carry
// non-fatal trouble (currently only desktop-database refresh failures).
type Result struct {
	App      *registry.App
	Warnings []string
}

// Store is the slice of the registry the installer needs. All conflict
// detection and every commit goes through it.
type Store interface {
	Find(identityKey string) (*registry.App, bool, error)
	Upsert(app *registry.App) error
	Remove(identityKey string) error
}

// Installer orchestrates install and uninstall against one directory
// layout and one registry.
type Installer struct {
	paths     *config.Paths
	reg       Store
	refresher Refresher
}

// New creates an Installer using the standard desktop-shell refresher.
func New(paths *config.Paths, reg Store) *Installer {
	return &Installer{paths: paths, reg: reg, refresher: ExecRefresher{}}
}

// SetRefresher replaces the desktop-shell collaborator (tests inject a
// recording fake here).
func (i *Installer) SetRefresher(r Refresher) { i.refresher = r }

// Install runs the install transaction for a parsed bundle.
//
// On a conflicting identity under PolicyCancel it returns
// AlreadyInstalledError before touching the filesystem. Under
// PolicyOverwrite the old install's files are removed inside the same
// transaction. The installed copy becomes executable only when
// opts.MakeExecutable is set and every prior step succeeded. The
// registry write commits the transaction; its failure rolls everything
// back, so files never exist without a record.
func (i *Installer) Install(b *bundle.Bundle, opts Options) (*Result, error) {
	key := registry.IdentityFor(b.Name())

	existing, found, err := i.reg.Find(key)
	if err != nil {
		return nil, fmt.Errorf("checking for existing install: %w", err)
	}
	if found && opts.Overwrite != PolicyOverwrite {
		return nil, &AlreadyInstalledError{Existing: existing}
	}

	for _, dir := range []string{i.paths.AppsDir, i.paths.EntriesDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: creating %s: %v", ErrInstallWrite, dir, err)
		}
	}

	tx := &transaction{state: StatePending}

	// Replacing an install removes the old files first, inside this
	// transaction, so a partial failure never leaves old and new
	// artifacts side by side unmanaged.
	if found {
		removeAppFiles(existing)
	}

	target := i.targetPath(b)
	if err := copyFile(b.SourcePath, target); err != nil {
		return nil, tx.fail(fmt.Errorf("%w: copying bundle: %v", ErrInstallWrite, err))
	}
	tx.record(target)
	tx.state = StateFilesCopied

	iconName := b.Entry.Icon
	if iconName == "" {
		iconName = sanitizeName(b.Name())
	}
	iconPath, err := installIcon(b.IconPath, i.paths.IconsDir, iconName)
	if err != nil {
		return nil, tx.fail(fmt.Errorf("%w: %v", ErrInstallWrite, err))
	}
	tx.record(iconPath)
	tx.state = StateIconInstalled

	entryPath := filepath.Join(i.paths.EntriesDir, sanitizeName(b.Name())+".desktop")
	if err := writeDesktopEntry(entryPath, b.Entry, target, iconPath); err != nil {
		return nil, tx.fail(fmt.Errorf("%w: writing desktop entry: %v", ErrInstallWrite, err))
	}
	tx.record(entryPath)
	tx.state = StateEntryWritten

	// Executability is granted late, just ahead of commit, never as a
	// side effect of inspection or of a failed install.
	if opts.MakeExecutable {
		if err := os.Chmod(target, 0o755); err != nil {
			return nil, tx.fail(fmt.Errorf("%w: marking bundle executable: %v", ErrInstallWrite, err))
		}
	}

	result := &Result{}
	if err := i.refresher.Refresh(i.paths.EntriesDir, i.paths.IconsDir); err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("desktop database refresh failed (install unaffected): %v", err))
	}

	app := &registry.App{
		IdentityKey:      key,
		Name:             b.Name(),
		Version:          b.Version(),
		SourcePath:       b.SourcePath,
		InstallPath:      target,
		IconPath:         iconPath,
		DesktopEntryPath: entryPath,
		EmbeddedRuntime:  b.EmbeddedRuntime,
		InstalledAt:      time.Now(),
	}
	if err := i.reg.Upsert(app); err != nil {
		// The registry is the source of truth; files without a record
		// must not survive.
		return nil, tx.fail(err)
	}
	tx.state = StateCommitted

	result.App = app
	return result, nil
}

// Uninstall removes the installed files and registry record for an
// identity key. File deletions are best-effort: the user or another
// tool may already have removed them, which is not worth failing over.
func (i *Installer) Uninstall(identityKey string) (*Result, error) {
	app, found, err := i.reg.Find(identityKey)
	if err != nil {
		return nil, fmt.Errorf("looking up install: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrNotInstalled, identityKey)
	}

	removeAppFiles(app)

	if err := i.reg.Remove(identityKey); err != nil {
		return nil, err
	}

	result := &Result{App: app}
	if err := i.refresher.Refresh(i.paths.EntriesDir, i.paths.IconsDir); err != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("desktop database refresh failed: %v", err))
	}
	return result, nil
}

// targetPath picks a collision-free destination for the bundle copy. A
// foreign file already holding the preferred name gets left alone; the
// new copy takes a uuid-suffixed name instead.
func (i *Installer) targetPath(b *bundle.Bundle) string {
	base := sanitizeName(b.Name())
	target := filepath.Join(i.paths.AppsDir, base+".AppImage")
	if _, err := os.Lstat(target); err == nil {
		target = filepath.Join(i.paths.AppsDir,
			fmt.Sprintf("%s-%s.AppImage", base, uuid.NewString()[:8]))
	}
	return target
}

// sanitizeName strips characters that are unsafe in file names.
func sanitizeName(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`<>:"/\|?*`, r) {
			return -1
		}
		return r
	}, name)
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return "Application"
	}
	return cleaned
}

// copyFile copies src to dst without carrying over src's mode: the copy
// starts out non-executable regardless of the original.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	// The operation must be durable before it reports success.
	if err := out.Sync(); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}

// removeAppFiles deletes an installed app's files, ignoring paths that
// are already gone.
func removeAppFiles(app *registry.App) {
	for _, path := range []string{app.InstallPath, app.IconPath, app.DesktopEntryPath} {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "warning: could not remove %s: %v\n", path, err)
		}
	}
}
