package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/unowned-ai/daybook/pkg/journal"
)

// folderForm picks a category and a palette color for a new folder.
type folderForm struct {
	field    int // 0 category, 1 color
	category int
	color    int
	err      string
}

func (f folderForm) selected() (journal.Category, journal.Color) {
	return journal.Categories[f.category], journal.Palette[f.color]
}

func (f folderForm) update(msg tea.KeyMsg) folderForm {
	switch msg.String() {
	case "tab", "down", "up", "shift+tab":
		f.field = 1 - f.field
	case "right", "l":
		f = f.shift(1)
	case "left", "h":
		f = f.shift(-1)
	}
	return f
}

func (f folderForm) shift(step int) folderForm {
	if f.field == 0 {
		n := len(journal.Categories)
		f.category = (f.category + step + n) % n
	} else {
		n := len(journal.Palette)
		f.color = (f.color + step + n) % n
	}
	f.err = ""
	return f
}

func (f folderForm) view() string {
	category, color := f.selected()
	var b strings.Builder
	b.WriteString(subtitleStyle.Render("New folder") + "\n\n")

	b.WriteString(formRow(f.field == 0, "Category", fmt.Sprintf("%s %s", category.Icon(), category)))
	b.WriteString(formRow(f.field == 1, "Color", fmt.Sprintf("%s %s", swatch(color.Hex), color.Name)))

	if f.err != "" {
		b.WriteString("\n" + errorStyle.Render(f.err) + "\n")
	}
	b.WriteString("\n" + footerStyle.Render("←/→ to change • tab to switch • enter to create • esc to cancel"))
	return b.String()
}

func formRow(active bool, label, value string) string {
	row := fmt.Sprintf("%-9s ‹ %s ›", label+":", value)
	if active {
		return linePointer(true) + selectedStyle.Render(row) + "\n"
	}
	return linePointer(false) + inactiveStyle.Render(row) + "\n"
}

const (
	editorTitle = iota
	editorContent
	editorMood
	editorFields
)

// journalEditor adds a new entry or edits an existing one.
type journalEditor struct {
	journalID int64 // 0 for a new entry
	folderID  int64
	title     textinput.Model
	content   textarea.Model
	mood      int // 0 no mood, otherwise index+1 into journal.Moods
	field     int
	err       string
	busy      bool
}

func newJournalEditor(folderID int64, width int) journalEditor {
	ti := textinput.New()
	ti.Placeholder = "Title"
	ti.CharLimit = 200
	ti.Focus()

	ta := textarea.New()
	ta.Placeholder = "Write your thoughts..."
	ta.ShowLineNumbers = false
	ta.SetHeight(8)
	if width > bordersAndPadding*4 {
		ti.Width = width - bordersAndPadding*4
		ta.SetWidth(width - bordersAndPadding*2)
	}

	return journalEditor{folderID: folderID, title: ti, content: ta}
}

func editJournalEditor(j journal.Journal, width int) journalEditor {
	e := newJournalEditor(j.FolderID, width)
	e.journalID = j.ID
	e.title.SetValue(j.Title)
	e.content.SetValue(j.Content)
	if j.Mood != nil {
		for i, m := range journal.Moods {
			if m == *j.Mood {
				e.mood = i + 1
			}
		}
	}
	return e
}

// selectedMood is the mood to save. A pointer to "" clears a stored mood.
func (e journalEditor) selectedMood() *journal.Mood {
	if e.mood == 0 {
		if e.journalID != 0 {
			return journal.MoodPtr("")
		}
		return nil
	}
	return journal.MoodPtr(journal.Moods[e.mood-1])
}

func (e journalEditor) moodLabel() string {
	if e.mood == 0 {
		return "Select mood"
	}
	return journal.Moods[e.mood-1].Label()
}

func (e journalEditor) focus(field int) journalEditor {
	e.field = field
	e.title.Blur()
	e.content.Blur()
	switch field {
	case editorTitle:
		e.title.Focus()
	case editorContent:
		e.content.Focus()
	}
	return e
}

func (e journalEditor) update(msg tea.Msg) (journalEditor, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab":
			return e.focus((e.field + 1) % editorFields), nil
		case "shift+tab":
			return e.focus((e.field + editorFields - 1) % editorFields), nil
		}
		if e.field == editorMood {
			n := len(journal.Moods) + 1
			switch key.String() {
			case "right", "l", " ":
				e.mood = (e.mood + 1) % n
			case "left", "h":
				e.mood = (e.mood + n - 1) % n
			}
			return e, nil
		}
	}

	var cmd tea.Cmd
	switch e.field {
	case editorTitle:
		e.title, cmd = e.title.Update(msg)
	case editorContent:
		e.content, cmd = e.content.Update(msg)
	}
	return e, cmd
}

func (e journalEditor) view(dictation bool) string {
	var b strings.Builder
	heading := "New entry"
	if e.journalID != 0 {
		heading = "Edit entry"
	}
	b.WriteString(subtitleStyle.Render(heading) + "\n\n")

	b.WriteString(labelStyle.Render("Title") + "\n")
	b.WriteString(e.title.View() + "\n\n")
	b.WriteString(labelStyle.Render("Content") + "\n")
	b.WriteString(e.content.View() + "\n\n")
	b.WriteString(formRow(e.field == editorMood, "Mood", e.moodLabel()))

	if e.busy {
		b.WriteString("\n" + statusStyle.Render("Listening...") + "\n")
	}
	if e.err != "" {
		b.WriteString("\n" + errorStyle.Render(e.err) + "\n")
	}

	help := "tab to switch • ctrl+s to save • esc to cancel"
	if dictation {
		help = "tab to switch • ctrl+r to dictate • ctrl+s to save • esc to cancel"
	}
	b.WriteString("\n" + footerStyle.Render(help))
	return b.String()
}
