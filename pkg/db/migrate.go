package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/unowned-ai/daybook/pkg/contextutil"
)

const (
	// TargetSchemaVersion is the schema version this build reads and writes.
	TargetSchemaVersion int64 = 2
	// JournalDBComponent is the versions-table key for the journal store.
	JournalDBComponent = "journaldb"
)

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// GetComponentSchemaVersion retrieves the schema version for a given component.
// Stores without a versions table report their PRAGMA user_version, which is
// 0 for a brand new file.
func GetComponentSchemaVersion(ctx context.Context, db *sql.DB, componentName string) (int64, error) {
	return componentVersion(ctx, db, componentName)
}

func componentVersion(ctx context.Context, q execer, componentName string) (int64, error) {
	var version int64
	err := q.QueryRowContext(ctx, `SELECT version FROM daybook_versions WHERE component = ?;`, componentName).Scan(&version)
	if err == nil {
		return version, nil
	}
	if !errors.Is(err, sql.ErrNoRows) && !isNoSuchTable(err, VersionsTable) {
		return 0, fmt.Errorf("failed to scan version for component '%s': %w", componentName, err)
	}

	if err := q.QueryRowContext(ctx, `PRAGMA user_version;`).Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to read user_version: %w", err)
	}
	return version, nil
}

func isNoSuchTable(err error, table string) bool {
	return strings.Contains(err.Error(), "no such table") && strings.Contains(err.Error(), table)
}

// setComponentVersion records version both in the versions table and in
// PRAGMA user_version.
func setComponentVersion(ctx context.Context, q execer, componentName string, version int64) error {
	if _, err := q.ExecContext(ctx, versionsTableSQL); err != nil {
		return fmt.Errorf("failed to create versions table: %w", err)
	}

	insertVersionSQL := `
INSERT INTO daybook_versions (component, version) VALUES (?, ?)
ON CONFLICT(component) DO UPDATE SET version = excluded.version, created_at = unixepoch();`
	if _, err := q.ExecContext(ctx, insertVersionSQL, componentName, version); err != nil {
		return fmt.Errorf("failed to insert/update version for component %s to %d: %w", componentName, version, err)
	}

	// PRAGMA does not take bound parameters.
	if _, err := q.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d;", version)); err != nil {
		return fmt.Errorf("failed to set user_version to %d: %w", version, err)
	}
	return nil
}

// InitializeSchema creates the current tables if they are missing and records
// schemaVersionToSet for the journal component. Safe to call repeatedly.
func InitializeSchema(ctx context.Context, db *sql.DB, schemaVersionToSet int64) error {
	if _, err := db.ExecContext(ctx, SchemaV2); err != nil {
		return fmt.Errorf("failed to execute schema v2 SQL: %w", err)
	}

	if err := setComponentVersion(ctx, db, JournalDBComponent, schemaVersionToSet); err != nil {
		return err
	}

	contextutil.LoggerFromContext(ctx).Info("storage: schema initialized",
		"component", JournalDBComponent, "version", schemaVersionToSet)
	return nil
}

// Migrate upgrades the journal store from one schema version to another in a
// single transaction. It does nothing when from >= to. On any failure the
// store is left exactly as it was.
func Migrate(ctx context.Context, db *sql.DB, from, to int64) (err error) {
	if from >= to {
		return nil
	}

	logger := contextutil.LoggerFromContext(ctx)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Error("storage: rollback failed", "error", rbErr)
			}
		}
	}()

	if from < 2 && to >= 2 {
		logger.Info("storage: migrating journals to v2", "from", from)
		if err = migrateToV2(ctx, tx); err != nil {
			return err
		}
	}

	if err = setComponentVersion(ctx, tx, JournalDBComponent, to); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration to version %d: %w", to, err)
	}
	logger.Info("storage: migration complete", "from", from, "to", to)
	return nil
}

// migrateToV2 splits the legacy timestamp column into date_added and
// date_modified. ids, titles, contents and folder ids are carried over.
func migrateToV2(ctx context.Context, tx *sql.Tx) error {
	steps := []struct {
		name string
		sql  string
	}{
		{"ensure folders table", foldersTableSQL},
		{"rename journals", `ALTER TABLE journals RENAME TO journals_old;`},
		{"create journals", journalsV2TableSQL},
		{"copy journals", `
INSERT INTO journals (id, title, content, folder_id, date_added, date_modified)
SELECT id, title, content, folder_id, timestamp, timestamp FROM journals_old;`},
		{"drop journals_old", `DROP TABLE journals_old;`},
	}

	for _, step := range steps {
		if _, err := tx.ExecContext(ctx, step.sql); err != nil {
			return fmt.Errorf("migration to v2 failed at %s: %w", step.name, err)
		}
	}
	return nil
}

// UpgradeDB brings the journal store behind db to appTargetSchemaVersion.
// dbIdentifierForLog is used for logging and error messages only.
func UpgradeDB(ctx context.Context, db *sql.DB, dbIdentifierForLog string, appTargetSchemaVersion int64) error {
	logger := contextutil.LoggerFromContext(ctx)

	currentDBVersion, err := GetComponentSchemaVersion(ctx, db, JournalDBComponent)
	if err != nil {
		return err
	}

	if currentDBVersion == 0 {
		// Stores written before versions were recorded still carry the v1 layout.
		legacy, err := hasColumn(ctx, db, "journals", "timestamp")
		if err != nil {
			return err
		}
		if legacy {
			currentDBVersion = 1
		}
	}

	switch {
	case currentDBVersion == 0:
		logger.Info("storage: database is uninitialized",
			"db", dbIdentifierForLog, "target", appTargetSchemaVersion)
		if err := InitializeSchema(ctx, db, appTargetSchemaVersion); err != nil {
			return fmt.Errorf("failed to initialize component %s in database '%s': %w", JournalDBComponent, dbIdentifierForLog, err)
		}
		return nil
	case currentDBVersion == appTargetSchemaVersion:
		logger.Debug("storage: schema is up to date",
			"db", dbIdentifierForLog, "version", currentDBVersion)
		return nil
	case currentDBVersion < appTargetSchemaVersion:
		if err := Migrate(ctx, db, currentDBVersion, appTargetSchemaVersion); err != nil {
			return fmt.Errorf("failed to migrate component %s in database '%s' from %d to %d: %w", JournalDBComponent, dbIdentifierForLog, currentDBVersion, appTargetSchemaVersion, err)
		}
		return nil
	default:
		return fmt.Errorf("component %s in database '%s' has schema version %d, which is newer than application's target schema version %d. Please upgrade the application", JournalDBComponent, dbIdentifierForLog, currentDBVersion, appTargetSchemaVersion)
	}
}
