package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
)

// checkTableExists is a test helper to verify if a table exists in the database.
func checkTableExists(t *testing.T, db *sql.DB, tableName string) {
	t.Helper()
	query := fmt.Sprintf("SELECT name FROM sqlite_master WHERE type='table' AND name='%s';", tableName)
	var name string
	err := db.QueryRow(query).Scan(&name)
	if err != nil {
		if err == sql.ErrNoRows {
			t.Errorf("Table '%s' does not exist, but it should.", tableName)
			return
		}
		t.Fatalf("Error checking if table '%s' exists: %v", tableName, err)
	}
	if name != tableName {
		t.Errorf("Table check query returned '%s' but expected '%s'", name, tableName)
	}
}

func checkTableMissing(t *testing.T, db *sql.DB, tableName string) {
	t.Helper()
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?;", tableName).Scan(&count)
	if err != nil {
		t.Fatalf("Error checking if table '%s' exists: %v", tableName, err)
	}
	if count != 0 {
		t.Errorf("Table '%s' exists, but it should not.", tableName)
	}
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDBConnection(":memory:", true, "NORMAL")
	if err != nil {
		t.Fatalf("OpenDBConnection failed for in-memory DB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// seedLegacyStore creates the v1 layout with one folder and the given journal timestamps.
func seedLegacyStore(t *testing.T, db *sql.DB, userVersion int, timestamps ...string) {
	t.Helper()
	if _, err := db.Exec(SchemaV1); err != nil {
		t.Fatalf("Failed to create legacy schema: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO folders (name, icon) VALUES ('Work', '#F28BA8');`); err != nil {
		t.Fatalf("Failed to seed folder: %v", err)
	}
	for i, ts := range timestamps {
		_, err := db.Exec(`INSERT INTO journals (title, content, folder_id, timestamp) VALUES (?, ?, 1, ?);`,
			fmt.Sprintf("title %d", i), fmt.Sprintf("content %d", i), ts)
		if err != nil {
			t.Fatalf("Failed to seed legacy journal %d: %v", i, err)
		}
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d;", userVersion)); err != nil {
		t.Fatalf("Failed to set user_version: %v", err)
	}
}

func columnNames(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s);", table))
	if err != nil {
		t.Fatalf("table_info(%s) failed: %v", table, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var (
			cid, notNull, pk int
			name, colType    string
			dflt             sql.NullString
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			t.Fatalf("Failed to scan table_info row: %v", err)
		}
		names = append(names, name)
	}
	return names
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestUpgradeDB_NewDatabase(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	if err := UpgradeDB(ctx, db, ":memory:", TargetSchemaVersion); err != nil {
		t.Fatalf("UpgradeDB failed on a new in-memory database: %v", err)
	}

	for _, tableName := range []string{VersionsTable, "folders", "journals"} {
		checkTableExists(t, db, tableName)
	}

	version, err := GetComponentSchemaVersion(ctx, db, JournalDBComponent)
	if err != nil {
		t.Fatalf("GetComponentSchemaVersion failed after UpgradeDB: %v", err)
	}
	if version != TargetSchemaVersion {
		t.Errorf("Expected component '%s' to be at version %d, but got %d", JournalDBComponent, TargetSchemaVersion, version)
	}

	var userVersion int64
	if err := db.QueryRow("PRAGMA user_version;").Scan(&userVersion); err != nil {
		t.Fatalf("Failed to read user_version: %v", err)
	}
	if userVersion != TargetSchemaVersion {
		t.Errorf("Expected user_version %d, got %d", TargetSchemaVersion, userVersion)
	}

	cols := columnNames(t, db, "journals")
	for _, want := range []string{"id", "title", "content", "folder_id", "date_added", "date_modified"} {
		if !contains(cols, want) {
			t.Errorf("Expected journals to have column %s, got %v", want, cols)
		}
	}
}

func TestUpgradeDB_AlreadyUpToDate(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	if err := InitializeSchema(ctx, db, TargetSchemaVersion); err != nil {
		t.Fatalf("InitializeSchema failed: %v", err)
	}
	if err := UpgradeDB(ctx, db, ":memory:", TargetSchemaVersion); err != nil {
		t.Fatalf("UpgradeDB failed on an up-to-date database: %v", err)
	}

	version, err := GetComponentSchemaVersion(ctx, db, JournalDBComponent)
	if err != nil {
		t.Fatalf("GetComponentSchemaVersion failed: %v", err)
	}
	if version != TargetSchemaVersion {
		t.Errorf("Expected component '%s' to be at version %d, but got %d", JournalDBComponent, TargetSchemaVersion, version)
	}
}

func TestUpgradeDB_MigratesLegacyStore(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	timestamps := []string{"2025-07-29 09:00:00", "July 28, 2025 18:30", "2024-12-31 23:59:59"}
	seedLegacyStore(t, db, 1, timestamps...)

	if err := UpgradeDB(ctx, db, ":memory:", TargetSchemaVersion); err != nil {
		t.Fatalf("UpgradeDB failed on a legacy database: %v", err)
	}

	checkTableMissing(t, db, "journals_old")

	cols := columnNames(t, db, "journals")
	if contains(cols, "timestamp") {
		t.Errorf("Expected timestamp column to be gone, got %v", cols)
	}

	// CAST keeps the driver from coercing DATETIME text into time.Time.
	rows, err := db.Query("SELECT id, title, content, folder_id, CAST(date_added AS TEXT), CAST(date_modified AS TEXT) FROM journals ORDER BY id;")
	if err != nil {
		t.Fatalf("Failed to query migrated journals: %v", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var (
			id                      int64
			title, content          string
			folderID                int64
			dateAdded, dateModified string
		)
		if err := rows.Scan(&id, &title, &content, &folderID, &dateAdded, &dateModified); err != nil {
			t.Fatalf("Failed to scan migrated journal: %v", err)
		}
		want := timestamps[count]
		if dateAdded != want || dateModified != want {
			t.Errorf("Journal %d: expected both dates %q, got added=%q modified=%q", id, want, dateAdded, dateModified)
		}
		if title != fmt.Sprintf("title %d", count) || content != fmt.Sprintf("content %d", count) {
			t.Errorf("Journal %d: title/content not preserved, got %q / %q", id, title, content)
		}
		if folderID != 1 {
			t.Errorf("Journal %d: expected folder_id 1, got %d", id, folderID)
		}
		count++
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("Row iteration failed: %v", err)
	}
	if count != len(timestamps) {
		t.Errorf("Expected %d journals after migration, got %d", len(timestamps), count)
	}

	version, err := GetComponentSchemaVersion(ctx, db, JournalDBComponent)
	if err != nil {
		t.Fatalf("GetComponentSchemaVersion failed: %v", err)
	}
	if version != TargetSchemaVersion {
		t.Errorf("Expected version %d after migration, got %d", TargetSchemaVersion, version)
	}
}

func TestUpgradeDB_DetectsUnversionedLegacyStore(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	seedLegacyStore(t, db, 0, "2025-01-02 03:04:05")

	if err := UpgradeDB(ctx, db, ":memory:", TargetSchemaVersion); err != nil {
		t.Fatalf("UpgradeDB failed on an unversioned legacy database: %v", err)
	}

	var dateAdded string
	if err := db.QueryRow("SELECT CAST(date_added AS TEXT) FROM journals WHERE id = 1;").Scan(&dateAdded); err != nil {
		t.Fatalf("Failed to read migrated journal: %v", err)
	}
	if dateAdded != "2025-01-02 03:04:05" {
		t.Errorf("Expected date_added to carry the legacy timestamp, got %q", dateAdded)
	}
}

func TestMigrate_NoOpWhenNotOlder(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	if err := InitializeSchema(ctx, db, TargetSchemaVersion); err != nil {
		t.Fatalf("InitializeSchema failed: %v", err)
	}
	before := columnNames(t, db, "journals")

	if err := Migrate(ctx, db, 2, 2); err != nil {
		t.Errorf("Migrate(2, 2) returned error: %v", err)
	}
	if err := Migrate(ctx, db, 3, 2); err != nil {
		t.Errorf("Migrate(3, 2) returned error: %v", err)
	}

	after := columnNames(t, db, "journals")
	if strings.Join(before, ",") != strings.Join(after, ",") {
		t.Errorf("Expected schema untouched, before=%v after=%v", before, after)
	}
}

func TestMigrate_RollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	seedLegacyStore(t, db, 1, "2025-07-29 09:00:00", "2025-07-28 09:00:00")
	// A leftover journals_old makes the rename step fail.
	if _, err := db.Exec(`CREATE TABLE journals_old (id INTEGER);`); err != nil {
		t.Fatalf("Failed to create blocking table: %v", err)
	}

	if err := Migrate(ctx, db, 1, 2); err == nil {
		t.Fatalf("Expected Migrate to fail when journals_old already exists")
	}

	cols := columnNames(t, db, "journals")
	if !contains(cols, "timestamp") || contains(cols, "date_added") {
		t.Errorf("Expected legacy layout to be intact after rollback, got %v", cols)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM journals;").Scan(&count); err != nil {
		t.Fatalf("Failed to count journals: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 journals after rollback, got %d", count)
	}

	version, err := GetComponentSchemaVersion(ctx, db, JournalDBComponent)
	if err != nil {
		t.Fatalf("GetComponentSchemaVersion failed: %v", err)
	}
	if version != 1 {
		t.Errorf("Expected version to stay 1 after failed migration, got %d", version)
	}
}

func TestUpgradeDB_NewerVersionUnsupported(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	const dbInitialSchemaVersion int64 = 3
	const appTargetsSchemaVersion int64 = 2

	if err := InitializeSchema(ctx, db, dbInitialSchemaVersion); err != nil {
		t.Fatalf("InitializeSchema to version %d failed: %v", dbInitialSchemaVersion, err)
	}

	err := UpgradeDB(ctx, db, ":memory:", appTargetsSchemaVersion)
	if err == nil {
		t.Fatalf("UpgradeDB should have failed for a newer DB version, but it did not")
	}

	expectedErrorMsg := fmt.Sprintf("component %s in database ':memory:' has schema version %d, which is newer than application's target schema version %d", JournalDBComponent, dbInitialSchemaVersion, appTargetsSchemaVersion)
	if !strings.Contains(err.Error(), expectedErrorMsg) {
		t.Errorf("UpgradeDB error message mismatch.\nExpected to contain: %s\nGot: %s", expectedErrorMsg, err.Error())
	}

	currentVersion, getErr := GetComponentSchemaVersion(ctx, db, JournalDBComponent)
	if getErr != nil {
		t.Fatalf("GetComponentSchemaVersion failed after attempted upgrade: %v", getErr)
	}
	if currentVersion != dbInitialSchemaVersion {
		t.Errorf("Database schema version changed from %d to %d after a failed upgrade attempt that should have been a no-op.", dbInitialSchemaVersion, currentVersion)
	}
}

func TestOpenDBConnection_InvalidSyncPragma(t *testing.T) {
	_, err := OpenDBConnection(":memory:", false, "SOMETIMES")
	if err == nil {
		t.Fatalf("Expected error for invalid sync pragma")
	}
	if !strings.Contains(err.Error(), "invalid sync pragma value") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestOpenDBConnection_UnicodeLower(t *testing.T) {
	db := openTestDB(t)

	var folded string
	query := fmt.Sprintf("SELECT %s('ÉTÉ Café');", LowerFunc)
	if err := db.QueryRow(query).Scan(&folded); err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if folded != "été café" {
		t.Errorf("Expected %s to fold to 'été café', got '%s'", LowerFunc, folded)
	}
}

// tableLayout describes every column of table as "name type notnull default pk".
func tableLayout(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s);", table))
	if err != nil {
		t.Fatalf("table_info(%s) failed: %v", table, err)
	}
	defer rows.Close()

	var layout []string
	for rows.Next() {
		var (
			cid, notNull, pk int
			name, colType    string
			dflt             sql.NullString
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			t.Fatalf("Failed to scan table_info row: %v", err)
		}
		layout = append(layout, fmt.Sprintf("%s %s %d %s %d", name, colType, notNull, dflt.String, pk))
	}
	return layout
}

func TestUpgradeDB_MigratedLayoutMatchesFreshInstall(t *testing.T) {
	ctx := context.Background()

	fresh := openTestDB(t)
	if err := UpgradeDB(ctx, fresh, "fresh", TargetSchemaVersion); err != nil {
		t.Fatalf("UpgradeDB failed on a new database: %v", err)
	}

	migrated := openTestDB(t)
	seedLegacyStore(t, migrated, 1, "2025-07-29 09:00:00")
	if err := UpgradeDB(ctx, migrated, "migrated", TargetSchemaVersion); err != nil {
		t.Fatalf("UpgradeDB failed on a legacy database: %v", err)
	}

	want := tableLayout(t, fresh, "journals")
	got := tableLayout(t, migrated, "journals")
	if strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("Migrated journals layout differs from a fresh install.\nfresh:\n%s\nmigrated:\n%s",
			strings.Join(want, "\n"), strings.Join(got, "\n"))
	}
}
