package planner

import (
	"fmt"
	"strings"
)

// Mood is the user's self-reported state, used to bias workout intensity.
type Mood string

const (
	MoodEnergized Mood = "Energized"
	MoodNeutral   Mood = "Neutral"
	MoodTired     Mood = "Tired"
	MoodStressed  Mood = "Stressed"
)

// Moods lists every mood in display order.
var Moods = []Mood{MoodEnergized, MoodNeutral, MoodTired, MoodStressed}

// ParseMood matches s case-insensitively against the known moods.
func ParseMood(s string) (Mood, error) {
	for _, m := range Moods {
		if strings.EqualFold(strings.TrimSpace(s), string(m)) {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown mood %q", s)
}

func (m Mood) Valid() bool {
	switch m {
	case MoodEnergized, MoodNeutral, MoodTired, MoodStressed:
		return true
	}
	return false
}

// IntensityHint describes how the workout should change for the mood.
func (m Mood) IntensityHint() string {
	switch m {
	case MoodEnergized:
		return "They have plenty of energy, so you can suggest a more challenging session."
	case MoodNeutral:
		return "Keep the usual intensity for their fitness level."
	case MoodTired:
		return "They are low on energy, so suggest a lighter or shorter workout."
	case MoodStressed:
		return "Keep the intensity moderate and include mobility and breathing work to help them unwind."
	}
	return ""
}

// Adjustment is the prompt paragraph asking the model to adapt to the mood.
func (m Mood) Adjustment() string {
	if !m.Valid() {
		return ""
	}
	return fmt.Sprintf("The user is feeling %s today, so adjust the intensity accordingly. %s",
		strings.ToLower(string(m)), m.IntensityHint())
}
