package registry

import (
	"database/sql"
	"fmt"
	"os"
	"time"
)

const appColumns = `identity_key, name, version, source_path, install_path,
	icon_path, desktop_entry_path, embedded_runtime, installed_at`

// List returns every installed app ordered by install time, oldest
// first. Listing is informational, so a broken store is logged and
// reported as empty rather than raised.
func (r *Registry) List() []*App {
	rows, err := r.db.Query(`
		SELECT ` + appColumns + `
		FROM installed_apps
		ORDER BY installed_at ASC, identity_key ASC
	`)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: registry unreadable, listing as empty: %v\n", err)
		return nil
	}
	defer rows.Close()

	var apps []*App
	for rows.Next() {
		app, err := scanApp(rows.Scan)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: skipping unreadable registry row: %v\n", err)
			continue
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: registry read interrupted: %v\n", err)
	}
	return apps
}

// Find returns the record for the given identity key, or found=false.
func (r *Registry) Find(identityKey string) (*App, bool, error) {
	row := r.db.QueryRow(`
		SELECT `+appColumns+`
		FROM installed_apps
		WHERE identity_key = ?
	`, identityKey)

	app, err := scanApp(row.Scan)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to look up %q: %w", identityKey, err)
	}
	return app, true, nil
}

// Upsert inserts or replaces the record for app.IdentityKey. A failed
// write leaves the prior state untouched and is reported as
// ErrWriteFailed.
func (r *Registry) Upsert(app *App) error {
	_, err := r.db.Exec(`
		INSERT OR REPLACE INTO installed_apps
		(`+appColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		app.IdentityKey,
		app.Name,
		app.Version,
		app.SourcePath,
		app.InstallPath,
		app.IconPath,
		app.DesktopEntryPath,
		app.EmbeddedRuntime,
		app.InstalledAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("%w: upserting %q: %v", ErrWriteFailed, app.IdentityKey, err)
	}
	return nil
}

// Remove deletes the record for the identity key. Removing an absent
// key is a no-op, not an error.
func (r *Registry) Remove(identityKey string) error {
	_, err := r.db.Exec(`DELETE FROM installed_apps WHERE identity_key = ?`, identityKey)
	if err != nil {
		return fmt.Errorf("%w: removing %q: %v", ErrWriteFailed, identityKey, err)
	}
	return nil
}

// Count returns the number of installed apps.
func (r *Registry) Count() (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM installed_apps`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count installed apps: %w", err)
	}
	return n, nil
}

func scanApp(scan func(...any) error) (*App, error) {
	var app App
	var installedAt string

	err := scan(
		&app.IdentityKey,
		&app.Name,
		&app.Version,
		&app.SourcePath,
		&app.InstallPath,
		&app.IconPath,
		&app.DesktopEntryPath,
		&app.EmbeddedRuntime,
		&installedAt,
	)
	if err != nil {
		return nil, err
	}

	app.InstalledAt, err = time.Parse(time.RFC3339, installedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse installed_at for %s: %w", app.IdentityKey, err)
	}
	return &app, nil
}
