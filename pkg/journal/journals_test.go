package journal

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/unowned-ai/daybook/pkg/datefilter"
)

func setNow(t *testing.T, ts time.Time) {
	t.Helper()
	old := now
	now = func() time.Time { return ts }
	t.Cleanup(func() { now = old })
}

func insertRawJournal(t *testing.T, testDB *sql.DB, folderID int64, title, added, modified string) int64 {
	t.Helper()
	res, err := testDB.Exec(
		`INSERT INTO journals (title, content, folder_id, date_added, date_modified) VALUES (?, 'body', ?, ?, ?)`,
		title, folderID, added, modified,
	)
	if err != nil {
		t.Fatalf("Failed to insert raw journal %s: %v", title, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("LastInsertId failed: %v", err)
	}
	return id
}

func mustFolder(t *testing.T, testDB *sql.DB, name string) Folder {
	t.Helper()
	folder, err := CreateFolder(context.Background(), testDB, name, "#80CBC4")
	if err != nil {
		t.Fatalf("CreateFolder failed: %v", err)
	}
	return folder
}

func TestCreateJournal(t *testing.T) {
	testDB := setupTestDB(t)
	defer testDB.Close()

	ctx := context.Background()
	folder := mustFolder(t, testDB, "Personal")
	stamp := time.Date(2025, time.July, 29, 14, 5, 0, 0, time.Local)
	setNow(t, stamp)

	journal, err := CreateJournal(ctx, testDB, folder.ID, "  Morning  ", "\tWoke up early\n", MoodPtr(MoodCalm))
	if err != nil {
		t.Fatalf("CreateJournal failed: %v", err)
	}

	if journal.ID == 0 {
		t.Errorf("Expected journal ID to be set")
	}
	if journal.Title != "Morning" || journal.Content != "Woke up early" {
		t.Errorf("Expected trimmed title/content, got %q / %q", journal.Title, journal.Content)
	}
	if journal.FolderID != folder.ID {
		t.Errorf("Expected folder ID %d, got %d", folder.ID, journal.FolderID)
	}
	if !journal.DateAdded.Equal(stamp) || !journal.DateModified.Equal(stamp) {
		t.Errorf("Expected both dates %v, got added=%v modified=%v", stamp, journal.DateAdded, journal.DateModified)
	}
	if journal.Mood == nil || *journal.Mood != MoodCalm {
		t.Errorf("Expected mood Calm, got %v", journal.Mood)
	}

	var storedAdded, storedMood string
	err = testDB.QueryRow("SELECT CAST(date_added AS TEXT), mood FROM journals WHERE id = ?", journal.ID).Scan(&storedAdded, &storedMood)
	if err != nil {
		t.Fatalf("Failed to query stored journal: %v", err)
	}
	if storedAdded != "2025-07-29 14:05:00" {
		t.Errorf("Expected storage layout, got %q", storedAdded)
	}
	if storedMood != "Calm" {
		t.Errorf("Expected plain mood label stored, got %q", storedMood)
	}
}

func TestCreateJournal_Validation(t *testing.T) {
	testDB := setupTestDB(t)
	defer testDB.Close()

	ctx := context.Background()
	folder := mustFolder(t, testDB, "Work")

	cases := []struct {
		name           string
		title, content string
		mood           *Mood
	}{
		{"blank title", "   ", "content", nil},
		{"blank content", "title", " \n\t", nil},
		{"both blank", "", "", nil},
		{"unknown mood", "title", "content", MoodPtr("Grumpy")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CreateJournal(ctx, testDB, folder.ID, tc.title, tc.content, tc.mood)
			if !errors.Is(err, ErrValidation) {
				t.Errorf("Expected ErrValidation, got %v", err)
			}
		})
	}

	if n := countJournals(t, testDB, folder.ID); n != 0 {
		t.Errorf("Expected no journals stored after rejected input, got %d", n)
	}
}

func TestCreateJournal_MissingFolder(t *testing.T) {
	testDB := setupTestDB(t)
	defer testDB.Close()

	_, err := CreateJournal(context.Background(), testDB, 7, "title", "content", nil)
	if !errors.Is(err, ErrFolderNotFound) {
		t.Fatalf("Expected ErrFolderNotFound, got %v", err)
	}
}

func TestUpdateJournal(t *testing.T) {
	testDB := setupTestDB(t)
	defer testDB.Close()

	ctx := context.Background()
	folder := mustFolder(t, testDB, "Creative")
	created := time.Date(2025, time.July, 28, 9, 0, 0, 0, time.Local)
	setNow(t, created)

	journal, err := CreateJournal(ctx, testDB, folder.ID, "Draft", "first", MoodPtr(MoodHappy))
	if err != nil {
		t.Fatalf("CreateJournal failed: %v", err)
	}

	edited := created.Add(26 * time.Hour)
	setNow(t, edited)

	updated, err := UpdateJournal(ctx, testDB, journal.ID, "Final", "second", nil)
	if err != nil {
		t.Fatalf("UpdateJournal failed: %v", err)
	}
	if updated.Title != "Final" || updated.Content != "second" {
		t.Errorf("Expected updated title/content, got %q / %q", updated.Title, updated.Content)
	}
	if !updated.DateAdded.Equal(created) {
		t.Errorf("Expected date_added to stay %v, got %v", created, updated.DateAdded)
	}
	if !updated.DateModified.Equal(edited) {
		t.Errorf("Expected date_modified %v, got %v", edited, updated.DateModified)
	}
	if updated.DateAdded.After(updated.DateModified) {
		t.Errorf("date_added %v is after date_modified %v", updated.DateAdded, updated.DateModified)
	}
	if updated.Mood == nil || *updated.Mood != MoodHappy {
		t.Errorf("Expected nil mood to keep Happy, got %v", updated.Mood)
	}

	updated, err = UpdateJournal(ctx, testDB, journal.ID, "Final", "second", MoodPtr(MoodTired))
	if err != nil {
		t.Fatalf("UpdateJournal with mood failed: %v", err)
	}
	if updated.Mood == nil || *updated.Mood != MoodTired {
		t.Errorf("Expected mood Tired, got %v", updated.Mood)
	}

	updated, err = UpdateJournal(ctx, testDB, journal.ID, "Final", "second", MoodPtr(""))
	if err != nil {
		t.Fatalf("UpdateJournal clearing mood failed: %v", err)
	}
	if updated.Mood != nil {
		t.Errorf("Expected mood cleared, got %v", *updated.Mood)
	}
}

func TestUpdateJournal_NotFound(t *testing.T) {
	testDB := setupTestDB(t)
	defer testDB.Close()

	_, err := UpdateJournal(context.Background(), testDB, 1234, "t", "c", nil)
	if !errors.Is(err, ErrJournalNotFound) {
		t.Errorf("Expected ErrJournalNotFound, got %v", err)
	}
}

func TestUpdateJournal_RejectsBlank(t *testing.T) {
	testDB := setupTestDB(t)
	defer testDB.Close()

	ctx := context.Background()
	folder := mustFolder(t, testDB, "Work")
	journal, err := CreateJournal(ctx, testDB, folder.ID, "keep", "me", nil)
	if err != nil {
		t.Fatalf("CreateJournal failed: %v", err)
	}

	if _, err := UpdateJournal(ctx, testDB, journal.ID, "keep", "  ", nil); !errors.Is(err, ErrValidation) {
		t.Fatalf("Expected ErrValidation, got %v", err)
	}

	got, err := GetJournal(ctx, testDB, journal.ID)
	if err != nil {
		t.Fatalf("GetJournal failed: %v", err)
	}
	if got.Content != "me" {
		t.Errorf("Expected content untouched, got %q", got.Content)
	}
}

func TestDeleteJournal(t *testing.T) {
	testDB := setupTestDB(t)
	defer testDB.Close()

	ctx := context.Background()
	folder := mustFolder(t, testDB, "Work")
	journal, err := CreateJournal(ctx, testDB, folder.ID, "gone", "soon", nil)
	if err != nil {
		t.Fatalf("CreateJournal failed: %v", err)
	}

	if err := DeleteJournal(ctx, testDB, journal.ID); err != nil {
		t.Fatalf("DeleteJournal failed: %v", err)
	}
	if _, err := GetJournal(ctx, testDB, journal.ID); !errors.Is(err, ErrJournalNotFound) {
		t.Errorf("Expected ErrJournalNotFound after delete, got %v", err)
	}
	if err := DeleteJournal(ctx, testDB, journal.ID); !errors.Is(err, ErrJournalNotFound) {
		t.Errorf("Expected ErrJournalNotFound deleting twice, got %v", err)
	}
}

// seedMixedFormats stores entries written by different app versions.
func seedMixedFormats(t *testing.T, testDB *sql.DB, folderID int64) map[string]int64 {
	t.Helper()
	return map[string]int64{
		"late-night": insertRawJournal(t, testDB, folderID, "late-night", "2025-07-28 23:00:00", "2025-07-28 23:00:00"),
		"edited":     insertRawJournal(t, testDB, folderID, "edited", "2025-07-20 08:00:00", "July 29, 2025 10:00"),
		"morning":    insertRawJournal(t, testDB, folderID, "morning", "2025-07-29 09:00:00", "2025-07-29 09:00:00"),
		"broken":     insertRawJournal(t, testDB, folderID, "broken", "2025-07-29 09:00:00", "not a date"),
		"new-year":   insertRawJournal(t, testDB, folderID, "new-year", "2024-12-31 08:00:00", "2024-12-31 08:00:00"),
	}
}

func titles(journals []Journal) []string {
	var out []string
	for _, j := range journals {
		out = append(out, j.Title)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestListJournalsByFolder_OrderAndSkip(t *testing.T) {
	testDB := setupTestDB(t)
	defer testDB.Close()

	ctx := context.Background()
	folder := mustFolder(t, testDB, "Personal")
	other := mustFolder(t, testDB, "Work")
	seedMixedFormats(t, testDB, folder.ID)
	insertRawJournal(t, testDB, other.ID, "elsewhere", "2025-07-30 09:00:00", "2025-07-30 09:00:00")

	journals, err := ListJournalsByFolder(ctx, testDB, folder.ID, datefilter.Filter{})
	if err != nil {
		t.Fatalf("ListJournalsByFolder failed: %v", err)
	}

	want := []string{"edited", "morning", "late-night", "new-year"}
	if got := titles(journals); !equalStrings(got, want) {
		t.Errorf("Expected order %v, got %v", want, got)
	}

	for i := 1; i < len(journals); i++ {
		if journals[i].DateModified.After(journals[i-1].DateModified) {
			t.Errorf("Entries %d and %d are out of order", i-1, i)
		}
	}
}

func TestListJournalsByFolder_Filter(t *testing.T) {
	testDB := setupTestDB(t)
	defer testDB.Close()

	ctx := context.Background()
	folder := mustFolder(t, testDB, "Personal")
	seedMixedFormats(t, testDB, folder.ID)

	cases := []struct {
		name   string
		filter datefilter.Filter
		want   []string
	}{
		{"all", datefilter.Filter{Year: datefilter.All, Month: datefilter.All}, []string{"edited", "morning", "late-night", "new-year"}},
		{"year 2025", datefilter.Filter{Year: "2025", Month: datefilter.All}, []string{"edited", "morning", "late-night"}},
		{"july", datefilter.Filter{Month: "July"}, []string{"edited", "morning", "late-night"}},
		{"december", datefilter.Filter{Month: "December"}, []string{"new-year"}},
		{"2024 july", datefilter.Filter{Year: "2024", Month: "July"}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			journals, err := ListJournalsByFolder(ctx, testDB, folder.ID, tc.filter)
			if err != nil {
				t.Fatalf("ListJournalsByFolder failed: %v", err)
			}
			if got := titles(journals); !equalStrings(got, tc.want) {
				t.Errorf("Expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestListJournalsByFolder_GroupsByDay(t *testing.T) {
	testDB := setupTestDB(t)
	defer testDB.Close()

	ctx := context.Background()
	folder := mustFolder(t, testDB, "Personal")
	seedMixedFormats(t, testDB, folder.ID)

	journals, err := ListJournalsByFolder(ctx, testDB, folder.ID, datefilter.Filter{Year: "2025"})
	if err != nil {
		t.Fatalf("ListJournalsByFolder failed: %v", err)
	}

	groups := datefilter.GroupByDay(journals, func(j Journal) time.Time { return j.DateModified })
	if len(groups) != 2 {
		t.Fatalf("Expected 2 day groups, got %d", len(groups))
	}
	if groups[0].Label != "July 29" || len(groups[0].Items) != 2 {
		t.Errorf("Expected July 29 with 2 entries, got %s with %d", groups[0].Label, len(groups[0].Items))
	}
	if groups[1].Label != "July 28" || len(groups[1].Items) != 1 {
		t.Errorf("Expected July 28 with 1 entry, got %s with %d", groups[1].Label, len(groups[1].Items))
	}
}

func TestGetJournal_UnparseableDateIsZero(t *testing.T) {
	testDB := setupTestDB(t)
	defer testDB.Close()

	ctx := context.Background()
	folder := mustFolder(t, testDB, "Personal")
	ids := seedMixedFormats(t, testDB, folder.ID)

	journal, err := GetJournal(ctx, testDB, ids["broken"])
	if err != nil {
		t.Fatalf("GetJournal failed: %v", err)
	}
	if !journal.DateModified.IsZero() {
		t.Errorf("Expected zero date_modified, got %v", journal.DateModified)
	}
	if journal.DateAdded.IsZero() {
		t.Errorf("Expected date_added to parse")
	}
}

func TestListAllJournals(t *testing.T) {
	testDB := setupTestDB(t)
	defer testDB.Close()

	ctx := context.Background()
	work := mustFolder(t, testDB, "Work")
	insertRawJournal(t, testDB, work.ID, "standup", "2025-07-29 09:00:00", "2025-07-29 09:00:00")
	insertRawJournal(t, testDB, 404, "orphan", "2025-07-30 09:00:00", "2025-07-30 09:00:00")

	journals, err := ListAllJournals(ctx, testDB, datefilter.Filter{})
	if err != nil {
		t.Fatalf("ListAllJournals failed: %v", err)
	}
	if len(journals) != 2 {
		t.Fatalf("Expected 2 journals, got %d", len(journals))
	}

	if journals[0].Title != "orphan" || journals[0].FolderName != "others" || journals[0].FolderColor != DefaultColor {
		t.Errorf("Expected orphan with fallback folder, got %+v", journals[0])
	}
	if journals[1].Title != "standup" || journals[1].FolderName != "Work" || journals[1].FolderColor != "#80CBC4" {
		t.Errorf("Expected standup in Work, got %+v", journals[1])
	}
}

func TestYearOptions(t *testing.T) {
	testDB := setupTestDB(t)
	defer testDB.Close()

	ctx := context.Background()
	folder := mustFolder(t, testDB, "Personal")
	seedMixedFormats(t, testDB, folder.ID)

	years, err := YearOptions(ctx, testDB, &folder.ID)
	if err != nil {
		t.Fatalf("YearOptions failed: %v", err)
	}
	want := []string{datefilter.All, "2025", "2024"}
	if !equalStrings(years, want) {
		t.Errorf("Expected %v, got %v", want, years)
	}

	all, err := YearOptions(ctx, testDB, nil)
	if err != nil {
		t.Fatalf("YearOptions(nil) failed: %v", err)
	}
	if !equalStrings(all, want) {
		t.Errorf("Expected %v across folders, got %v", want, all)
	}
}
