package db

const (
	// VersionsTable records the schema version per component.
	VersionsTable = "daybook_versions"

	versionsTableSQL = `
CREATE TABLE IF NOT EXISTS daybook_versions (
    component TEXT PRIMARY KEY,
    version INTEGER NOT NULL,
    created_at REAL DEFAULT (unixepoch())
);`

	foldersTableSQL = `
CREATE TABLE IF NOT EXISTS folders (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    icon TEXT
);`

	journalsV2Columns = `(
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    content TEXT NOT NULL,
    folder_id INTEGER,
    date_added DATETIME DEFAULT CURRENT_TIMESTAMP,
    date_modified DATETIME DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY(folder_id) REFERENCES folders(id)
);`

	// journalsV2TableSQL has no IF NOT EXISTS: the migration relies on it
	// failing loudly if journals was not renamed away first.
	journalsV2TableSQL = `
CREATE TABLE journals ` + journalsV2Columns

	// SchemaV1 is the legacy layout: one timestamp per journal and no mood.
	// It is only created by tests and by stores written before version 2.
	SchemaV1 = versionsTableSQL + foldersTableSQL + `
CREATE TABLE IF NOT EXISTS journals (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    content TEXT NOT NULL,
    folder_id INTEGER,
    timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY(folder_id) REFERENCES folders(id)
);`

	// SchemaV2 is the current layout. mood is added separately by EnsureMoodColumn.
	SchemaV2 = versionsTableSQL + foldersTableSQL + `
CREATE TABLE IF NOT EXISTS journals ` + journalsV2Columns
)
