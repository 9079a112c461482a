package db

import (
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// DriverName is the sqlite3 driver with daybook's SQL functions attached.
const DriverName = "sqlite3_daybook"

// LowerFunc lowercases its argument with Unicode rules. SQLite's built-in
// lower() only folds ASCII letters.
const LowerFunc = "unicode_lower"

func init() {
	sql.Register(DriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc(LowerFunc, unicodeLower, true)
		},
	})
}

func unicodeLower(s string) string {
	return strings.ToLower(s)
}

// validSyncModes lists the allowed values for the synchronous pragma.
var validSyncModes = map[string]bool{
	"OFF":    true,
	"NORMAL": true,
	"FULL":   true,
	"EXTRA":  true,
}

// OpenDBConnection opens the journal store.
// baseDSN is the file path (or ":memory:").
// enableWAL sets the journal_mode to WAL if true.
// syncPragma sets the synchronous pragma (OFF, NORMAL, FULL, EXTRA).
//
// The pool is pinned to a single connection: one writer at a time, and an
// in-memory store stays the same database across calls.
func OpenDBConnection(baseDSN string, enableWAL bool, syncPragma string) (*sql.DB, error) {
	params := url.Values{}

	if enableWAL {
		params.Add("_journal_mode", "WAL")
	}

	if syncPragma != "" {
		ucSyncPragma := strings.ToUpper(syncPragma)
		if !validSyncModes[ucSyncPragma] {
			return nil, fmt.Errorf("invalid sync pragma value: %s. Must be one of OFF, NORMAL, FULL, EXTRA", syncPragma)
		}
		params.Add("_synchronous", ucSyncPragma)
	}

	constructedDSN := baseDSN
	if len(params) > 0 {
		if strings.Contains(baseDSN, "?") {
			constructedDSN += "&" + params.Encode()
		} else {
			constructedDSN += "?" + params.Encode()
		}
	}

	db, err := sql.Open(DriverName, constructedDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database with DSN '%s': %w", constructedDSN, err)
	}
	db.SetMaxOpenConns(1)

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database with DSN '%s': %w", constructedDSN, err)
	}

	// folder_id is a weak reference. Foreign key enforcement stays off so that
	// legacy rows pointing at missing folders survive the v2 copy.
	if _, err = db.Exec("PRAGMA foreign_keys = OFF;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure foreign keys for DSN '%s': %w", constructedDSN, err)
	}

	return db, nil
}
