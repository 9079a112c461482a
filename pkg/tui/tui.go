package tui

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/unowned-ai/daybook/pkg/contextutil"
	"github.com/unowned-ai/daybook/pkg/journal"
	"github.com/unowned-ai/daybook/pkg/speech"
)

// Options configure the optional parts of the UI.
type Options struct {
	Greeting    string
	Speaker     speech.Speaker
	Transcriber speech.Transcriber
	Locale      string
}

type mode int

const (
	modeBrowse mode = iota
	modeFolderCreate
	modeFolderDelete
	modeJournalEdit
	modeJournalDelete
)

type model struct {
	ctx  context.Context
	db   *sql.DB
	opts Options

	folders  []journal.Folder
	journals []journal.Journal // filtered entries of the selected folder, newest first
	years    []string

	state viewState
	mode  mode

	folderForm folderForm
	editor     journalEditor
	confirmIdx int // 0 = "Yes" selected, 1 = "No"

	width  int
	height int
	err    error
	status string

	dbFilename string
	quitting   bool

	// Animation state
	marqueeOffset int
	marqueeTimer  int
}

// Initialize TUI model
func initModel(ctx context.Context, db *sql.DB, opts Options) model {
	_, file := getDbPragmaList(db)
	return model{
		ctx:        ctx,
		db:         db,
		opts:       opts,
		state:      newViewState(),
		dbFilename: filepath.Base(file),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		listFolders(m.ctx, m.db),
		tea.Tick(marqueeTickDuration, func(t time.Time) tea.Msg {
			return t
		}),
	)
}

func (m model) selectedFolder() (journal.Folder, bool) {
	if len(m.folders) == 0 {
		return journal.Folder{}, false
	}
	return m.folders[m.state.FolderCursor], true
}

func (m model) selectedJournal() (journal.Journal, bool) {
	if len(m.journals) == 0 {
		return journal.Journal{}, false
	}
	return m.journals[m.state.JournalCursor], true
}

// reloadJournals reloads the selected folder with the current filter.
func (m model) reloadJournals() tea.Cmd {
	f, ok := m.selectedFolder()
	if !ok {
		return nil
	}
	return listJournals(m.ctx, m.db, f.ID, m.state.Filter())
}

// Processes events like window resize, errors, loaded data, and key presses
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case error:
		m.err = msg
		return m, nil

	case foldersMsg:
		m.folders = msg
		m.state = m.state.withFolderCursor(m.state.FolderCursor, len(m.folders))
		if len(m.folders) == 0 {
			m.journals = nil
			m.years = nil
			m.state.Focus = focusFolders
			return m, nil
		}
		return m, m.reloadJournals()

	case journalsMsg:
		// Drop results for a folder that is no longer selected.
		if f, ok := m.selectedFolder(); !ok || f.ID != msg.folderID {
			return m, nil
		}
		m.journals = msg.journals
		m.years = msg.years
		m.state = m.state.withJournalCursor(m.state.JournalCursor, len(m.journals))
		if len(m.journals) == 0 && m.state.Focus != focusFolders {
			m.state.Focus = focusFolders
		}
		return m, nil

	case statusMsg:
		m.status = string(msg)
		return m, nil

	case dictationMsg:
		m.editor.busy = false
		switch {
		case errors.Is(msg.err, speech.ErrUnsupported):
			m.editor.err = "Dictation is not configured."
		case msg.err != nil:
			m.editor.err = "Dictation failed: " + msg.err.Error()
		default:
			m.editor.err = ""
			m.editor.content.SetValue(msg.content)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeFolderCreate:
			return m.updateFolderForm(msg)
		case modeJournalEdit:
			return m.updateEditor(msg)
		case modeFolderDelete, modeJournalDelete:
			return m.updateConfirm(msg)
		}
		return m.updateBrowse(msg)

	case time.Time:
		// Update marquee animation every x ticks (adjust for speed)
		m.marqueeTimer++
		if m.marqueeTimer >= 10 {
			m.marqueeTimer = 0
			m.marqueeOffset++
		}
		return m, tea.Tick(marqueeTickDuration, func(t time.Time) tea.Msg {
			return t
		})
	}

	if m.mode == modeJournalEdit {
		// cursor blink and other textarea internals
		var cmd tea.Cmd
		m.editor, cmd = m.editor.update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""

	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		// Exit alt screen before quitting so the goodbye message displays
		return m, tea.Sequence(tea.ExitAltScreen, tea.Quit)

	case "up", "k":
		if m.state.Focus == focusFolders && m.state.FolderCursor > 0 {
			m.state = m.state.withFolderCursor(m.state.FolderCursor-1, len(m.folders))
			return m, m.reloadJournals()
		}
		if m.state.Focus != focusFolders && m.state.JournalCursor > 0 {
			m.state = m.state.withJournalCursor(m.state.JournalCursor-1, len(m.journals))
		}

	case "down", "j":
		if m.state.Focus == focusFolders && m.state.FolderCursor < len(m.folders)-1 {
			m.state = m.state.withFolderCursor(m.state.FolderCursor+1, len(m.folders))
			return m, m.reloadJournals()
		}
		if m.state.Focus != focusFolders && m.state.JournalCursor < len(m.journals)-1 {
			m.state = m.state.withJournalCursor(m.state.JournalCursor+1, len(m.journals))
		}

	case "right", "l", "enter":
		if m.state.Focus < focusDetails && len(m.journals) > 0 {
			m.state.Focus++
		}

	case "left", "h", "esc":
		if m.state.Focus > focusFolders {
			m.state.Focus--
		}

	case "y":
		if _, ok := m.selectedFolder(); ok {
			m.state = m.state.nextYear(m.years)
			return m, m.reloadJournals()
		}

	case "m":
		if _, ok := m.selectedFolder(); ok {
			m.state = m.state.nextMonth()
			return m, m.reloadJournals()
		}

	case "n":
		m.folderForm = folderForm{}
		m.mode = modeFolderCreate

	case "a":
		if f, ok := m.selectedFolder(); ok {
			m.editor = newJournalEditor(f.ID, m.width)
			m.mode = modeJournalEdit
		}

	case "e":
		if j, ok := m.selectedJournal(); ok && m.state.Focus != focusFolders {
			m.editor = editJournalEditor(j, m.width)
			m.mode = modeJournalEdit
		}

	case "d":
		if m.state.Focus == focusFolders && len(m.folders) > 0 {
			m.confirmIdx = 1
			m.mode = modeFolderDelete
		} else if m.state.Focus != focusFolders && len(m.journals) > 0 {
			m.confirmIdx = 1
			m.mode = modeJournalDelete
		}

	case "s":
		if j, ok := m.selectedJournal(); ok && m.state.Focus != focusFolders {
			if m.opts.Speaker == nil {
				m.status = "Text to speech is not configured."
				return m, nil
			}
			m.status = "Speaking..."
			return m, speak(m.ctx, m.opts.Speaker, j.Content)
		}
	}
	return m, nil
}

func (m model) updateFolderForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		return m, nil
	case "enter":
		category, color := m.folderForm.selected()
		f, err := journal.AddFolder(m.ctx, m.db, string(category), color.Hex)
		if errors.Is(err, journal.ErrFolderExists) {
			m.folderForm.err = "Folder with this category already exists."
			return m, nil
		}
		if err != nil {
			m.err = err
			return m, nil
		}
		contextutil.LoggerFromContext(m.ctx).Debug("tui: folder created", "id", f.ID)
		m.mode = modeBrowse
		m.folders = append(m.folders, f)
		m.state = m.state.withFolderCursor(len(m.folders)-1, len(m.folders))
		m.status = fmt.Sprintf("Created folder %s.", f.Name)
		return m, m.reloadJournals()
	}
	m.folderForm = m.folderForm.update(msg)
	return m, nil
}

func (m model) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		return m, nil

	case "ctrl+r":
		if m.opts.Transcriber == nil {
			m.editor.err = "Dictation is not configured."
			return m, nil
		}
		m.editor.busy = true
		return m, dictate(m.ctx, m.opts.Transcriber, m.opts.Locale, m.editor.content.Value())

	case "ctrl+s":
		e := m.editor
		var err error
		if e.journalID == 0 {
			_, err = journal.CreateJournal(m.ctx, m.db, e.folderID, e.title.Value(), e.content.Value(), e.selectedMood())
		} else {
			_, err = journal.UpdateJournal(m.ctx, m.db, e.journalID, e.title.Value(), e.content.Value(), e.selectedMood())
		}
		if errors.Is(err, journal.ErrValidation) {
			m.editor.err = "Please enter both title and content."
			return m, nil
		}
		if err != nil {
			m.err = err
			return m, nil
		}
		m.mode = modeBrowse
		m.status = "Saved."
		if e.journalID == 0 {
			// the new entry is the most recent one
			m.state = m.state.withJournalCursor(0, 1)
		}
		return m, m.reloadJournals()
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.update(msg)
	return m, cmd
}

func (m model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.confirmIdx = 0
	case "down", "j":
		m.confirmIdx = 1
	case "esc":
		m.mode = modeBrowse
	case "enter":
		current := m.mode
		m.mode = modeBrowse
		if m.confirmIdx != 0 {
			return m, nil
		}
		if current == modeFolderDelete {
			return m.deleteFolder()
		}
		return m.deleteJournal()
	}
	return m, nil
}

func (m model) deleteFolder() (tea.Model, tea.Cmd) {
	f, ok := m.selectedFolder()
	if !ok {
		return m, nil
	}
	removed, err := journal.DeleteFolder(m.ctx, m.db, f.ID)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.status = fmt.Sprintf("Deleted folder %s and %d entries.", f.Name, removed)
	m.journals = nil
	m.state = m.state.withFolderCursor(m.state.FolderCursor-1, len(m.folders)-1)
	return m, listFolders(m.ctx, m.db)
}

func (m model) deleteJournal() (tea.Model, tea.Cmd) {
	j, ok := m.selectedJournal()
	if !ok {
		return m, nil
	}
	if err := journal.DeleteJournal(m.ctx, m.db, j.ID); err != nil {
		m.err = err
		return m, nil
	}
	m.status = "Entry deleted."
	if m.state.JournalCursor > 0 {
		m.state.JournalCursor--
	}
	return m, m.reloadJournals()
}

// ShowTUI creates and starts the Bubble Tea TUI.
func ShowTUI(ctx context.Context, db *sql.DB, opts Options) error {
	p := tea.NewProgram(initModel(ctx, db, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
