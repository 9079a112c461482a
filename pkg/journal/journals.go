package journal

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/unowned-ai/daybook/pkg/contextutil"
	"github.com/unowned-ai/daybook/pkg/datefilter"
)

// now is replaced in tests.
var now = time.Now

// Date columns are read through CAST so the sqlite driver hands back the raw
// text instead of coercing DATETIME values; stores hold two layouts.
const (
	journalColumns = `
	j.id, j.title, j.content, j.folder_id,
	CAST(j.date_added AS TEXT), CAST(j.date_modified AS TEXT), j.mood`

	createJournalStatement = `
	INSERT INTO journals (title, content, folder_id, date_added, date_modified, mood)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	getJournalStatement = `
	SELECT` + journalColumns + `
	FROM journals j
	WHERE j.id = ?
	`

	listJournalsByFolderStatement = `
	SELECT` + journalColumns + `
	FROM journals j
	WHERE j.folder_id = ?
	ORDER BY j.id DESC
	`

	listAllJournalsStatement = `
	SELECT` + journalColumns + `, f.name, f.icon
	FROM journals j
	LEFT JOIN folders f ON f.id = j.folder_id
	ORDER BY j.id DESC
	`

	updateJournalStatement = `
	UPDATE journals
	SET title = ?, content = ?, date_modified = ?,
	    mood = CASE WHEN ? THEN mood ELSE ? END
	WHERE id = ?
	`

	deleteJournalStatement = `
	DELETE FROM journals
	WHERE id = ?
	`
)

// journalRow is a journal as stored, before its dates are interpreted.
type journalRow struct {
	Journal
	dateAdded    sql.NullString
	dateModified sql.NullString
}

func scanJournalRow(s rowScanner, extra ...any) (journalRow, error) {
	var (
		row      journalRow
		folderID sql.NullInt64
		mood     sql.NullString
	)
	dest := append([]any{
		&row.ID,
		&row.Title,
		&row.Content,
		&folderID,
		&row.dateAdded,
		&row.dateModified,
		&mood,
	}, extra...)
	if err := s.Scan(dest...); err != nil {
		return journalRow{}, err
	}

	row.FolderID = folderID.Int64
	if mood.Valid && mood.String != "" {
		if m, err := ParseMood(mood.String); err == nil {
			row.Mood = &m
		}
	}
	return row, nil
}

// resolve fills the parsed dates. ok is false when date_modified is unparseable.
func (r *journalRow) resolve() (ok bool) {
	if t, parsed := datefilter.Parse(r.dateAdded.String); parsed {
		r.DateAdded = t
	}
	t, parsed := datefilter.Parse(r.dateModified.String)
	if parsed {
		r.DateModified = t
	}
	return parsed
}

func validateEntry(title, content string, mood *Mood) (string, string, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" {
		return "", "", invalid("title", "please enter both title and content")
	}
	if content == "" {
		return "", "", invalid("content", "please enter both title and content")
	}
	if mood != nil && *mood != "" {
		if _, err := ParseMood(string(*mood)); err != nil {
			return "", "", invalid("mood", err.Error())
		}
	}
	return title, content, nil
}

// moodValue is the column value for an optional mood. An empty mood is NULL.
func moodValue(mood *Mood) any {
	if mood == nil || *mood == "" {
		return nil
	}
	m, _ := ParseMood(string(*mood))
	return string(m)
}

// CreateJournal stores a new entry in an existing folder. Title and content
// are trimmed and must not be empty. Both dates are set to now.
func CreateJournal(ctx context.Context, db *sql.DB, folderID int64, title, content string, mood *Mood) (Journal, error) {
	title, content, err := validateEntry(title, content, mood)
	if err != nil {
		return Journal{}, err
	}

	if _, err := GetFolder(ctx, db, folderID); err != nil {
		return Journal{}, err
	}

	stamp := datefilter.Format(now())
	res, err := db.ExecContext(
		ctx,
		createJournalStatement,
		title,
		content,
		folderID,
		stamp,
		stamp,
		moodValue(mood),
	)
	if err != nil {
		return Journal{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return Journal{}, err
	}

	return GetJournal(ctx, db, id)
}

// GetJournal returns one entry. Dates that cannot be parsed are left zero.
func GetJournal(ctx context.Context, db *sql.DB, id int64) (Journal, error) {
	row, err := scanJournalRow(db.QueryRowContext(ctx, getJournalStatement, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Journal{}, ErrJournalNotFound
		}
		return Journal{}, err
	}

	if !row.resolve() {
		contextutil.LoggerFromContext(ctx).Debug("storage: journal has unparseable date_modified",
			"id", row.ID, "date_modified", row.dateModified.String)
	}
	return row.Journal, nil
}

// UpdateJournal replaces title and content and stamps date_modified with now.
// A nil mood keeps the stored one; a pointer to "" clears it.
// date_added is never touched.
func UpdateJournal(ctx context.Context, db *sql.DB, id int64, title, content string, mood *Mood) (Journal, error) {
	title, content, err := validateEntry(title, content, mood)
	if err != nil {
		return Journal{}, err
	}

	res, err := db.ExecContext(
		ctx,
		updateJournalStatement,
		title,
		content,
		datefilter.Format(now()),
		mood == nil,
		moodValue(mood),
		id,
	)
	if err != nil {
		return Journal{}, err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return Journal{}, err
	}

	if rowsAffected == 0 {
		return Journal{}, ErrJournalNotFound
	}

	return GetJournal(ctx, db, id)
}

func DeleteJournal(ctx context.Context, db *sql.DB, id int64) error {
	res, err := db.ExecContext(ctx, deleteJournalStatement, id)
	if err != nil {
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrJournalNotFound
	}

	return nil
}

// ListJournalsByFolder returns the entries of one folder that match filter,
// newest date_modified first. Entries whose date_modified cannot be parsed are
// left out.
func ListJournalsByFolder(ctx context.Context, db *sql.DB, folderID int64, filter datefilter.Filter) ([]Journal, error) {
	rows, err := db.QueryContext(ctx, listJournalsByFolderStatement, folderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logger := contextutil.LoggerFromContext(ctx)

	var journals []Journal
	for rows.Next() {
		row, err := scanJournalRow(rows)
		if err != nil {
			return nil, err
		}
		if !row.resolve() {
			logger.Debug("storage: skipping journal with unparseable date_modified",
				"id", row.ID, "date_modified", row.dateModified.String)
			continue
		}
		if filter.Matches(row.DateModified) {
			journals = append(journals, row.Journal)
		}
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(journals, func(i, k int) bool {
		return journals[i].DateModified.After(journals[k].DateModified)
	})
	return journals, nil
}

// ListAllJournals is ListJournalsByFolder across every folder, with each
// entry's folder name and color attached.
func ListAllJournals(ctx context.Context, db *sql.DB, filter datefilter.Filter) ([]Listed, error) {
	rows, err := db.QueryContext(ctx, listAllJournalsStatement)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logger := contextutil.LoggerFromContext(ctx)

	var journals []Listed
	for rows.Next() {
		var folderName, folderIcon sql.NullString
		row, err := scanJournalRow(rows, &folderName, &folderIcon)
		if err != nil {
			return nil, err
		}
		if !row.resolve() {
			logger.Debug("storage: skipping journal with unparseable date_modified",
				"id", row.ID, "date_modified", row.dateModified.String)
			continue
		}
		if !filter.Matches(row.DateModified) {
			continue
		}

		listed := Listed{Journal: row.Journal, FolderName: "others", FolderColor: DefaultColor}
		if folderName.Valid {
			listed.FolderName = folderName.String
		}
		if folderIcon.Valid && folderIcon.String != "" {
			listed.FolderColor = folderIcon.String
		}
		journals = append(journals, listed)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	sort.SliceStable(journals, func(i, k int) bool {
		return journals[i].DateModified.After(journals[k].DateModified)
	})
	return journals, nil
}

// YearOptions lists All followed by the years that have entries, newest
// first. A nil folderID covers every folder.
func YearOptions(ctx context.Context, db *sql.DB, folderID *int64) ([]string, error) {
	var times []time.Time
	if folderID != nil {
		journals, err := ListJournalsByFolder(ctx, db, *folderID, datefilter.Filter{})
		if err != nil {
			return nil, err
		}
		for _, j := range journals {
			times = append(times, j.DateModified)
		}
	} else {
		journals, err := ListAllJournals(ctx, db, datefilter.Filter{})
		if err != nil {
			return nil, err
		}
		for _, j := range journals {
			times = append(times, j.DateModified)
		}
	}
	return datefilter.YearOptions(times), nil
}
