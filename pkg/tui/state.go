package tui

import (
	"github.com/unowned-ai/daybook/pkg/datefilter"
)

type column int

const (
	focusFolders column = iota
	focusJournals
	focusDetails
)

// viewState is everything the screen shows that is not data: which column is
// active, where the cursors are and which year and month are selected.
// Update replaces it wholesale; render functions only read it.
type viewState struct {
	Focus         column
	FolderCursor  int
	JournalCursor int
	Year          string
	Month         string
}

func newViewState() viewState {
	return viewState{Focus: focusFolders, Year: datefilter.All, Month: datefilter.All}
}

func (s viewState) Filter() datefilter.Filter {
	return datefilter.Filter{Year: s.Year, Month: s.Month}
}

// withFolderCursor moves the folder cursor and resets the entry cursor.
func (s viewState) withFolderCursor(i, count int) viewState {
	s.FolderCursor = clamp(i, count)
	s.JournalCursor = 0
	return s
}

func (s viewState) withJournalCursor(i, count int) viewState {
	s.JournalCursor = clamp(i, count)
	return s
}

// nextYear cycles through years, which starts with All.
func (s viewState) nextYear(years []string) viewState {
	s.Year = cycle(years, s.Year)
	s.JournalCursor = 0
	return s
}

func (s viewState) nextMonth() viewState {
	s.Month = cycle(datefilter.MonthOptions(), s.Month)
	s.JournalCursor = 0
	return s
}

func cycle(options []string, current string) string {
	if len(options) == 0 {
		return datefilter.All
	}
	for i, o := range options {
		if o == current {
			return options[(i+1)%len(options)]
		}
	}
	return options[0]
}

func clamp(i, count int) int {
	if count <= 0 || i < 0 {
		return 0
	}
	if i >= count {
		return count - 1
	}
	return i
}
