package journal

import (
	"fmt"
	"strings"
)

// Category is one of the fixed folder kinds.
type Category string

const (
	CategoryWork     Category = "Work"
	CategoryPersonal Category = "Personal"
	CategoryCreative Category = "Creative"
	CategoryFinance  Category = "Finance"
	CategoryFitness  Category = "Fitness"
	CategorySchool   Category = "School"
	CategoryTravel   Category = "Travel"
	CategoryOthers   Category = "Others"
)

// Categories in display order.
var Categories = []Category{
	CategoryWork,
	CategoryPersonal,
	CategoryCreative,
	CategoryFinance,
	CategoryFitness,
	CategorySchool,
	CategoryTravel,
	CategoryOthers,
}

var categoryIcons = map[Category]string{
	CategoryWork:     "💼",
	CategoryPersonal: "👤",
	CategoryCreative: "🎨",
	CategoryFinance:  "💰",
	CategoryFitness:  "🏋",
	CategorySchool:   "🎓",
	CategoryTravel:   "✈",
	CategoryOthers:   "📁",
}

// Icon returns the glyph for c. Unknown categories get the Others glyph.
func (c Category) Icon() string {
	if icon, ok := categoryIcons[c]; ok {
		return icon
	}
	return categoryIcons[CategoryOthers]
}

// CategoryOf maps a folder name onto a category, case-insensitively.
// Names outside the set are Others.
func CategoryOf(name string) Category {
	name = strings.TrimSpace(name)
	for _, c := range Categories {
		if strings.EqualFold(string(c), name) {
			return c
		}
	}
	return CategoryOthers
}

// ParseCategory is CategoryOf that rejects names outside the set.
func ParseCategory(name string) (Category, error) {
	c := CategoryOf(name)
	if c == CategoryOthers && !strings.EqualFold(strings.TrimSpace(name), string(CategoryOthers)) {
		return "", fmt.Errorf("unknown category %q", name)
	}
	return c, nil
}

// Color is a named palette entry.
type Color struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// DefaultColor is used for entries whose folder is gone.
const DefaultColor = "#CCCCCC"

// Palette lists the folder colors in display order.
var Palette = []Color{
	{"Rose", "#F28BA8"},
	{"Peach", "#FFD1A4"},
	{"Lavender", "#D3BCE3"},
	{"Sky", "#B2D7F3"},
	{"Mint", "#BFF0D6"},
	{"Lime", "#DFF28A"},
	{"Coral", "#FFAB9B"},
	{"Beige", "#F3E8D9"},
	{"Teal", "#80CBC4"},
	{"Indigo", "#7986CB"},
	{"Sunset", "#FFB74D"},
	{"Sage", "#C5E1A5"},
	{"Clay", "#A1887F"},
	{"Blush", "#F8BBD0"},
}

// LookupColor finds a palette color by name or by hex, case-insensitively.
func LookupColor(nameOrHex string) (Color, bool) {
	v := strings.TrimSpace(nameOrHex)
	for _, c := range Palette {
		if strings.EqualFold(c.Name, v) || strings.EqualFold(c.Hex, v) {
			return c, true
		}
	}
	return Color{}, false
}

// ColorName returns the palette name of hex, or hex itself when it is not in the palette.
func ColorName(hex string) string {
	if c, ok := LookupColor(hex); ok {
		return c.Name
	}
	return hex
}
