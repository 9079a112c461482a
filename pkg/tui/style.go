package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// UI styles and layout settings
// Color palette "Blue Moon" from https://gogh-co.github.io/Gogh/
const (
	colorGray     = "#353b52"
	colorDim      = "#8a91b0"
	colorWhite    = "#ffffff"
	colorGreen    = "#acfab4"
	colorGreenDim = "#b4c4b4"
	colorRed      = "#e61f44"
	colorRedDim   = "#d06178"
	colorPurple   = "#b9a3eb"
	colorBlue     = "#89ddff"

	marqueeTickDuration = time.Duration(time.Second / 20)
	bordersAndPadding   = 4
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color(colorBlue)).
			Background(lipgloss.Color(colorGray)).
			Padding(0, 2).Align(lipgloss.Center)
	subtitleStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color(colorBlue))
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorGray)).
			Background(lipgloss.Color(colorGreen))
	dangerSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(colorGray)).
				Background(lipgloss.Color(colorRed))
	inactiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorWhite))
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(colorBlue))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(colorRed))
	moodStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(colorPurple))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color(colorDim))

	dayHeaderStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color(colorPurple))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorGreenDim))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorGray))
)

// swatch renders a small block in a folder's color.
func swatch(hex string) string {
	if hex == "" {
		return "  "
	}
	return lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("  ")
}

// TextStatusColorize colors text by status: 1 green, 2 red, anything else gray.
func TextStatusColorize(text string, status int) string {
	switch status {
	case 1:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorGreenDim)).Render(text)
	case 2:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorRedDim)).Render(text)
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorGray)).Render(text)
	}
}

// linePointer is the cursor marker for a list row.
func linePointer(isPoint bool) string {
	if isPoint {
		return "> "
	}
	return "  "
}

// marqueeText scrolls text that does not fit into availableWidth.
func marqueeText(text string, availableWidth, offset int) string {
	if len(text) <= availableWidth || availableWidth <= 0 {
		return text
	}
	padded := text + "    " + text
	offset = offset % (len(text) + 4)
	return padded[offset : offset+availableWidth]
}

// truncate shortens text to width, marking the cut with two dots.
func truncate(text string, width int) string {
	if len(text) <= width || width <= 3 {
		return text
	}
	return strings.TrimRight(text[:width-2], " ") + ".."
}

// columnWidths splits the terminal width. The focused column gets the most room.
func columnWidths(total int, focus column) (int, int, int) {
	var left, middle int
	switch focus {
	case focusFolders:
		left, middle = total*30/100, total*40/100
	case focusJournals:
		left, middle = total*20/100, total*40/100
	default:
		left, middle = total*20/100, total*25/100
	}
	return left, middle, total - left - middle
}
