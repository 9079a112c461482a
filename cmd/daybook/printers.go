package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/unowned-ai/daybook/pkg/datefilter"
	"github.com/unowned-ai/daybook/pkg/journal"
)

var (
	bold   = color.New(color.Bold)
	header = color.New(color.Bold, color.Underline)
	faint  = color.New(color.Faint)
	accent = color.New(color.FgHiMagenta)
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printFolders(w io.Writer, folders []journal.Folder) {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("ID"), bold.Sprint("Folder"), bold.Sprint("Color"))
	for _, f := range folders {
		tbl.AddRow(f.ID, f.Category().Icon()+" "+f.Name, fmt.Sprintf("%s (%s)", journal.ColorName(f.Color), f.Color))
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(w, tbl)
}

func printPalette(w io.Writer) {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Color"), bold.Sprint("Hex"))
	for _, c := range journal.Palette {
		tbl.AddRow(c.Name, c.Hex)
	}
	_, _ = fmt.Fprintln(w, tbl)

	tbl = uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Category"), "")
	for _, c := range journal.Categories {
		tbl.AddRow(string(c), c.Icon())
	}
	_, _ = fmt.Fprintln(w, tbl)
}

func moodText(m *journal.Mood) string {
	if m == nil || *m == "" {
		return "-"
	}
	return m.Label()
}

func printJournal(w io.Writer, j journal.Journal, folder string) {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("ID:"), j.ID)
	tbl.AddRow(bold.Sprint("Folder:"), folder)
	tbl.AddRow(bold.Sprint("Title:"), j.Title)
	tbl.AddRow(bold.Sprint("Mood:"), moodText(j.Mood))
	tbl.AddRow(bold.Sprint("Added:"), datefilter.DisplayLabel(j.DateAdded))
	tbl.AddRow(bold.Sprint("Modified:"), fmt.Sprintf("%s (%s)", datefilter.DisplayLabel(j.DateModified), humanize.Time(j.DateModified)))
	_, _ = fmt.Fprintln(w, tbl)

	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, j.Content)
}

// printDayGroups prints entries under one header per day, newest first.
func printDayGroups(w io.Writer, groups []datefilter.DayGroup[journal.Listed]) {
	for i, g := range groups {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		_, _ = fmt.Fprintln(w, header.Sprint(g.Label))

		tbl := uitable.New()
		tbl.Separator = "  "
		tbl.MaxColWidth = 60
		for _, j := range g.Items {
			mood := ""
			if j.Mood != nil && *j.Mood != "" {
				mood = j.Mood.Emoji()
			}
			tbl.AddRow(
				faint.Sprintf("#%d", j.ID),
				mood,
				j.Title,
				accent.Sprint(j.FolderName),
				faint.Sprint(humanize.Time(j.DateModified)),
			)
		}
		tbl.RightAlign(0)
		_, _ = fmt.Fprintln(w, tbl)
	}
}

func printMatches(w io.Writer, matches []journal.Matched) {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	tbl.AddRow(bold.Sprint("ID"), bold.Sprint("Matches"), bold.Sprint("Title"), bold.Sprint("Folder"), bold.Sprint("Modified"))
	for _, m := range matches {
		tbl.AddRow(m.ID, m.MatchCount, m.Title, accent.Sprint(m.FolderName), datefilter.DisplayLabel(m.DateModified))
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(w, tbl)
}
