package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/unowned-ai/daybook/pkg/datefilter"
	"github.com/unowned-ai/daybook/pkg/journal"
)

// Assembles the UI string for each frame
func (m model) View() string {
	if m.quitting {
		return "Closing the daybook... See you tomorrow.\n"
	}
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n", m.err)
	}

	titleText := "Daybook"
	if m.opts.Greeting != "" {
		titleText += " · " + strings.ReplaceAll(m.opts.Greeting, "\n", " ")
	}
	titleBar := titleStyle.Width(m.width).Render(titleText)

	leftWidth, middleWidth, rightWidth := columnWidths(m.width, m.state.Focus)
	panelHeight := m.height - 3

	left := renderFolders(m.state, m.folders, leftWidth, m.marqueeOffset)
	left += "\n\n" + fmt.Sprintf("Database file: %v\n", TextStatusColorize(m.dbFilename, statusOf(m.dbFilename != "")))

	middle := renderJournals(m.state, m.journals, middleWidth)

	var right string
	switch m.mode {
	case modeFolderCreate:
		right = m.folderForm.view()
	case modeJournalEdit:
		right = m.editor.view(m.opts.Transcriber != nil)
	case modeFolderDelete:
		f, _ := m.selectedFolder()
		right = renderConfirm("Delete Folder", "Name: "+f.Name,
			"Every entry in this folder is deleted too.", m.confirmIdx)
	case modeJournalDelete:
		j, _ := m.selectedJournal()
		right = renderConfirm("Delete Entry", "Title: "+j.Title, "", m.confirmIdx)
	default:
		j, ok := m.selectedJournal()
		right = renderDetails(m.state, j, ok, rightWidth)
	}

	leftPanel := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(lipgloss.Color(colorGray)).
		Padding(0, 2).
		Width(leftWidth).Height(panelHeight).
		Render(left)
	middlePanel := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(lipgloss.Color(colorGray)).
		Padding(0, 2).
		Width(middleWidth).Height(panelHeight).
		Render(middle)
	rightPanel := lipgloss.NewStyle().Padding(0, 2).
		Width(rightWidth).Height(panelHeight).
		Render(right)

	columns := lipgloss.JoinHorizontal(lipgloss.Top, leftPanel, middlePanel, rightPanel)

	footerText := "\n↑/↓ to navigate • n new folder • a add entry • e to edit • d to delete • y/m to filter • s to speak • q to quit"
	if m.status != "" {
		footerText = "\n" + statusStyle.Render(m.status) + footerText
	}
	footerBar := footerStyle.Width(m.width).Render(footerText)

	return titleBar + "\n\n" + columns + footerBar
}

func statusOf(ok bool) int {
	if ok {
		return 1
	}
	return 0
}

func renderFolders(s viewState, folders []journal.Folder, width, marqueeOffset int) string {
	var b strings.Builder
	b.WriteString(subtitleStyle.Render("  Folders") + "\n\n")

	if len(folders) == 0 {
		b.WriteString("No folders yet. Press 'n' to create one.\n")
		return b.String()
	}

	for i, f := range folders {
		// pointer, swatch, icon, and padding
		available := width - bordersAndPadding - 8
		name := f.Category().Icon() + " " + f.Name
		selected := i == s.FolderCursor

		itemStyle := inactiveStyle
		if selected {
			itemStyle = selectedStyle
			name = marqueeText(name, available, marqueeOffset)
		} else {
			name = truncate(name, available)
		}
		b.WriteString(linePointer(selected && s.Focus == focusFolders) + swatch(f.Color) + " " + itemStyle.Render(name) + "\n")
	}
	return b.String()
}

func renderJournals(s viewState, journals []journal.Journal, width int) string {
	var b strings.Builder
	b.WriteString(subtitleStyle.Render("  Entries") + "\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("  Year: %s  Month: %s", s.Year, s.Month)) + "\n\n")

	if len(journals) == 0 {
		b.WriteString("  " + s.Filter().EmptyMessage() + "\n")
		return b.String()
	}

	available := width - bordersAndPadding - 3
	index := 0
	groups := datefilter.GroupByDay(journals, func(j journal.Journal) time.Time { return j.DateModified })
	for _, g := range groups {
		b.WriteString(dayHeaderStyle.Render(g.Label) + "\n")
		for _, j := range g.Items {
			selected := index == s.JournalCursor && s.Focus != focusFolders
			itemStyle := inactiveStyle
			if selected {
				itemStyle = selectedStyle
			}
			title := j.Title
			if j.Mood != nil && *j.Mood != "" {
				title = j.Mood.Emoji() + " " + title
			}
			b.WriteString(linePointer(selected && s.Focus == focusJournals) + itemStyle.Render(truncate(title, available)) + "\n")
			index++
		}
		b.WriteString("\n")
	}
	return b.String()
}

func renderDetails(s viewState, j journal.Journal, ok bool, width int) string {
	var b strings.Builder
	b.WriteString(subtitleStyle.Render("Entry") + "\n\n")

	if !ok || s.Focus == focusFolders {
		b.WriteString("Select an entry to view details.")
		return b.String()
	}

	b.WriteString(lipgloss.NewStyle().Bold(true).Render(labelStyle.Render("Title: ")+inactiveStyle.Render(j.Title)) + "\n\n")

	mood := "-"
	if j.Mood != nil && *j.Mood != "" {
		mood = j.Mood.Label()
	}
	b.WriteString(labelStyle.Render("Mood: ") + moodStyle.Render(mood) + "\n")
	b.WriteString(labelStyle.Render("Added: ") + inactiveStyle.Render(datefilter.DisplayLabel(j.DateAdded)) + "\n")
	b.WriteString(labelStyle.Render("Modified: ") + inactiveStyle.Render(
		fmt.Sprintf("%s (%s)", datefilter.DisplayLabel(j.DateModified), humanize.Time(j.DateModified))) + "\n\n")

	content := j.Content
	if width > bordersAndPadding {
		content = lipgloss.NewStyle().Width(width - bordersAndPadding).Render(content)
	}
	b.WriteString(inactiveStyle.Render(content))
	return b.String()
}

func renderConfirm(title, subject, warning string, confirmIdx int) string {
	var b strings.Builder
	b.WriteString(subtitleStyle.Render(title) + "\n\n")
	b.WriteString(errorStyle.Render(subject) + "\n\n")
	if warning != "" {
		b.WriteString(warning + "\n\n")
	}

	yesOpt, noOpt := "Yes", "No"
	if confirmIdx == 0 {
		yesOpt = dangerSelectedStyle.Render(" >" + yesOpt)
		noOpt = inactiveStyle.Render("  " + noOpt)
	} else {
		yesOpt = inactiveStyle.Render("  " + yesOpt)
		noOpt = selectedStyle.Render(" >" + noOpt)
	}
	b.WriteString(fmt.Sprintf("%s\n%s\n\n", yesOpt, noOpt))
	b.WriteString("(enter to confirm, esc to cancel, up/down to switch)")
	return b.String()
}
