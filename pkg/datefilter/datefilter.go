// Package datefilter parses the timestamps found in the journal store and
// buckets entries by year, month and calendar day.
package datefilter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	// StorageLayout is the only layout written to the store.
	StorageLayout = "2006-01-02 15:04:05"
	// DisplayLayout is the long human form. Older stores wrote it to
	// date_modified on edit, so it is also accepted on read.
	DisplayLayout = "January 2, 2006 15:04"
	// HeaderLayout labels a day group.
	HeaderLayout = "January 2"

	// All bypasses a year or month filter.
	All = "All"
)

// Parser turns stored text into a time, reporting false when it does not apply.
type Parser func(text string) (time.Time, bool)

// LayoutParser returns a Parser for a fixed layout interpreted in local time.
func LayoutParser(layout string) Parser {
	return func(text string) (time.Time, bool) {
		t, err := time.ParseInLocation(layout, text, time.Local)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
}

// Parsers is tried in order by Parse. The first success wins.
var Parsers = []Parser{
	LayoutParser(DisplayLayout),
	LayoutParser(StorageLayout),
}

// Parse interprets a stored timestamp. It reports false when no parser accepts it.
func Parse(text string) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}
	for _, p := range Parsers {
		if t, ok := p(text); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// Format renders t in the storage layout.
func Format(t time.Time) string {
	return t.In(time.Local).Format(StorageLayout)
}

// HeaderLabel is the day-group label, e.g. "July 29".
func HeaderLabel(t time.Time) string {
	return t.Format(HeaderLayout)
}

// DisplayLabel is the long form shown next to an entry, e.g. "July 29, 2025 14:05".
func DisplayLabel(t time.Time) string {
	return t.Format(DisplayLayout)
}

// YearOf returns the four digit year of t.
func YearOf(t time.Time) string {
	return strconv.Itoa(t.Year())
}

// MonthNameOf returns the English month name of t.
func MonthNameOf(t time.Time) string {
	return t.Month().String()
}

// ParseMonth accepts an English month name in any case.
func ParseMonth(name string) (time.Month, bool) {
	for m := time.January; m <= time.December; m++ {
		if strings.EqualFold(m.String(), strings.TrimSpace(name)) {
			return m, true
		}
	}
	return 0, false
}

// MonthOptions lists the month filter choices: All, then January through December.
func MonthOptions() []string {
	opts := make([]string, 0, 13)
	opts = append(opts, All)
	for m := time.January; m <= time.December; m++ {
		opts = append(opts, m.String())
	}
	return opts
}

// YearOptions lists All followed by the distinct years of times, newest first.
func YearOptions(times []time.Time) []string {
	seen := make(map[int]bool)
	var years []int
	for _, t := range times {
		if !seen[t.Year()] {
			seen[t.Year()] = true
			years = append(years, t.Year())
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))

	opts := make([]string, 0, len(years)+1)
	opts = append(opts, All)
	for _, y := range years {
		opts = append(opts, strconv.Itoa(y))
	}
	return opts
}

func isAll(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || strings.EqualFold(v, All)
}

// Filter selects entries by year and month. Empty or All fields match everything.
type Filter struct {
	Year  string `json:"year,omitempty"`
	Month string `json:"month,omitempty"`
}

// Matches reports whether t falls inside the filter.
func (f Filter) Matches(t time.Time) bool {
	if !isAll(f.Year) && strings.TrimSpace(f.Year) != YearOf(t) {
		return false
	}
	if !isAll(f.Month) && !strings.EqualFold(strings.TrimSpace(f.Month), MonthNameOf(t)) {
		return false
	}
	return true
}

// Validate rejects years that are not four digits and unknown month names.
func (f Filter) Validate() error {
	if !isAll(f.Year) {
		y := strings.TrimSpace(f.Year)
		if _, err := strconv.Atoi(y); err != nil || len(y) != 4 {
			return fmt.Errorf("invalid year filter %q", f.Year)
		}
	}
	if !isAll(f.Month) {
		if _, ok := ParseMonth(f.Month); !ok {
			return fmt.Errorf("invalid month filter %q", f.Month)
		}
	}
	return nil
}

// EmptyMessage is shown when the filter selects nothing.
func (f Filter) EmptyMessage() string {
	if isAll(f.Month) {
		return "No journal entries"
	}
	m, _ := ParseMonth(f.Month)
	return "No journal entries in " + m.String()
}

// DayGroup is a run of consecutive items sharing a header label.
type DayGroup[T any] struct {
	Label string `json:"label"`
	Items []T    `json:"items"`
}

// GroupByDay walks items once, in order, and starts a new group whenever the
// header label of at(item) differs from the previous item's. Callers sort first.
func GroupByDay[T any](items []T, at func(T) time.Time) []DayGroup[T] {
	var groups []DayGroup[T]
	for _, item := range items {
		label := HeaderLabel(at(item))
		if n := len(groups); n > 0 && groups[n-1].Label == label {
			groups[n-1].Items = append(groups[n-1].Items, item)
			continue
		}
		groups = append(groups, DayGroup[T]{Label: label, Items: []T{item}})
	}
	return groups
}
