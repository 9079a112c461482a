package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/unowned-ai/daybook/pkg/contextutil"
)

// EnsureMoodColumn adds the optional mood column to journals if it is missing.
// It is additive and idempotent, and runs outside the version ladder: every
// session calls it after UpgradeDB. added reports whether the column was
// created by this call.
func EnsureMoodColumn(ctx context.Context, db *sql.DB) (added bool, err error) {
	present, err := hasColumn(ctx, db, "journals", "mood")
	if err != nil {
		return false, err
	}
	if present {
		return false, nil
	}

	if _, err := db.ExecContext(ctx, `ALTER TABLE journals ADD COLUMN mood TEXT;`); err != nil {
		if strings.Contains(err.Error(), "duplicate column name") {
			return false, nil
		}
		return false, fmt.Errorf("failed to add mood column: %w", err)
	}

	contextutil.LoggerFromContext(ctx).Info("storage: added mood column to journals")
	return true, nil
}

// HasMoodColumn reports whether journals already carries the mood column.
func HasMoodColumn(ctx context.Context, db *sql.DB) (bool, error) {
	return hasColumn(ctx, db, "journals", "mood")
}

func hasColumn(ctx context.Context, db *sql.DB, table, column string) (bool, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s);", table))
	if err != nil {
		return false, fmt.Errorf("failed to inspect table %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return false, fmt.Errorf("failed to scan column info for %s: %w", table, err)
		}
		if strings.EqualFold(name, column) {
			return true, nil
		}
	}
	return false, rows.Err()
}
