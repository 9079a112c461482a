package journal

import (
	"fmt"
	"strings"
)

// Mood is an optional tag on an entry. The plain label is what gets stored.
type Mood string

const (
	MoodHappy   Mood = "Happy"
	MoodCalm    Mood = "Calm"
	MoodNeutral Mood = "Neutral"
	MoodSad     Mood = "Sad"
	MoodAngry   Mood = "Angry"
	MoodTired   Mood = "Tired"
	MoodExcited Mood = "Excited"
)

// Moods in display order.
var Moods = []Mood{MoodHappy, MoodCalm, MoodNeutral, MoodSad, MoodAngry, MoodTired, MoodExcited}

var moodEmoji = map[Mood]string{
	MoodHappy:   "😀",
	MoodCalm:    "🙂",
	MoodNeutral: "😐",
	MoodSad:     "🙁",
	MoodAngry:   "😡",
	MoodTired:   "😴",
	MoodExcited: "✨",
}

func (m Mood) Emoji() string {
	return moodEmoji[m]
}

// Label is the emoji-prefixed form, e.g. "😀 Happy".
func (m Mood) Label() string {
	if e := m.Emoji(); e != "" {
		return e + " " + string(m)
	}
	return string(m)
}

// ParseMood accepts a plain label ("happy") or the emoji-prefixed form
// ("😀 Happy"). An empty string is not a mood.
func ParseMood(s string) (Mood, error) {
	v := strings.TrimSpace(s)
	for _, m := range Moods {
		if strings.EqualFold(v, string(m)) || strings.EqualFold(v, m.Label()) {
			return m, nil
		}
	}
	// tolerate any leading glyph before the label
	if i := strings.LastIndex(v, " "); i >= 0 {
		tail := v[i+1:]
		for _, m := range Moods {
			if strings.EqualFold(tail, string(m)) {
				return m, nil
			}
		}
	}
	return "", fmt.Errorf("unknown mood %q", s)
}

// MoodPtr returns a pointer to m, for the optional mood arguments.
func MoodPtr(m Mood) *Mood {
	return &m
}
