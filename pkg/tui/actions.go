package tui

import (
	"context"
	"database/sql"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/unowned-ai/daybook/pkg/datefilter"
	"github.com/unowned-ai/daybook/pkg/journal"
	"github.com/unowned-ai/daybook/pkg/speech"
)

type foldersMsg []journal.Folder

type journalsMsg struct {
	folderID int64
	journals []journal.Journal
	years    []string
}

type statusMsg string

type dictationMsg struct {
	content string
	err     error
}

// List folders from the database and return tea data
func listFolders(ctx context.Context, db *sql.DB) tea.Cmd {
	return func() tea.Msg {
		folders, err := journal.ListFolders(ctx, db)
		if err != nil {
			return err
		}
		return foldersMsg(folders)
	}
}

// List the filtered entries of a folder together with its year options
func listJournals(ctx context.Context, db *sql.DB, folderID int64, filter datefilter.Filter) tea.Cmd {
	return func() tea.Msg {
		years, err := journal.YearOptions(ctx, db, &folderID)
		if err != nil {
			return err
		}
		journals, err := journal.ListJournalsByFolder(ctx, db, folderID, filter)
		if err != nil {
			return err
		}
		return journalsMsg{folderID: folderID, journals: journals, years: years}
	}
}

func speak(ctx context.Context, s speech.Speaker, content string) tea.Cmd {
	return func() tea.Msg {
		err := speech.ReadAloud(ctx, s, content)
		switch {
		case errors.Is(err, speech.ErrNothingToRead):
			return statusMsg("Nothing to read.")
		case errors.Is(err, speech.ErrUnsupported):
			return statusMsg("Text to speech is not configured.")
		case err != nil:
			return statusMsg("Speech failed: " + err.Error())
		}
		return statusMsg("")
	}
}

func dictate(ctx context.Context, t speech.Transcriber, locale, content string) tea.Cmd {
	return func() tea.Msg {
		updated, err := speech.Dictate(ctx, t, locale, content)
		return dictationMsg{content: updated, err: err}
	}
}

// Get database file path
func getDbPragmaList(db *sql.DB) (string, string) {
	var name, file string
	err := db.QueryRow(`PRAGMA database_list`).Scan(new(int), &name, &file)
	if err != nil {
		return name, file
	}
	return name, file
}
