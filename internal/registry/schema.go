package registry

const schema = `
CREATE TABLE IF NOT EXISTS installed_apps (
    identity_key TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    version TEXT,
    source_path TEXT,
    install_path TEXT NOT NULL,
    icon_path TEXT,
    desktop_entry_path TEXT,
    embedded_runtime BOOLEAN NOT NULL DEFAULT 0,
    installed_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_apps_installed_at ON installed_apps(installed_at);
`
