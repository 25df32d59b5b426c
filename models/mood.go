package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const (
	MoodMin Mood = 1
	MoodMax Mood = 5
)

// Mood is the 1..5 score attached to a journal entry.
type Mood int

var moodLabels = map[Mood]string{
	1: "Sad",
	2: "Down",
	3: "Relaxed",
	4: "Happy",
	5: "Excited",
}

// Valid reports whether m lies within MoodMin..MoodMax.
func (m Mood) Valid() bool {
	return m >= MoodMin && m <= MoodMax
}

// Label returns the display name for the score, or "" when out of range.
func (m Mood) Label() string {
	return moodLabels[m]
}

// Moods lists every valid score in ascending order.
func Moods() []Mood {
	out := make([]Mood, 0, MoodMax-MoodMin+1)
	for m := MoodMin; m <= MoodMax; m++ {
		out = append(out, m)
	}
	return out
}

// UnmarshalJSON accepts either a JSON integer (4) or a numeric string ("4").
func (m *Mood) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("invalid mood %s: %w", raw, err)
		}
		raw = strings.TrimSpace(s)
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid mood %q: must be an integer", raw)
	}
	*m = Mood(v)
	return nil
}
