// Package profile defines the user profile that personalises generated plans
// and persists it as a single record in a key-value store.
package profile

import (
	"errors"
	"fmt"
	"strings"
)

// ErrIncomplete is returned for a profile missing a required field.
var ErrIncomplete = errors.New("incomplete profile")

type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// Genders lists every gender in display order.
var Genders = []Gender{GenderMale, GenderFemale, GenderOther}

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

type FitnessLevel string

const (
	LevelBeginner     FitnessLevel = "Beginner"
	LevelIntermediate FitnessLevel = "Intermediate"
	LevelAdvanced     FitnessLevel = "Advanced"
)

// FitnessLevels lists every fitness level in display order.
var FitnessLevels = []FitnessLevel{LevelBeginner, LevelIntermediate, LevelAdvanced}

func (l FitnessLevel) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

type Goal string

const (
	GoalStrength    Goal = "Strength"
	GoalFlexibility Goal = "Flexibility"
	GoalEndurance   Goal = "Endurance"
	GoalWeightLoss  Goal = "Weight Loss"
	GoalMuscleGain  Goal = "Muscle Gain"
)

// Goals lists every fitness goal in display order.
var Goals = []Goal{GoalStrength, GoalFlexibility, GoalEndurance, GoalWeightLoss, GoalMuscleGain}

func (g Goal) Valid() bool {
	switch g {
	case GoalStrength, GoalFlexibility, GoalEndurance, GoalWeightLoss, GoalMuscleGain:
		return true
	}
	return false
}

type DietaryPreference string

const (
	DietNone       DietaryPreference = "None"
	DietVegan      DietaryPreference = "Vegan"
	DietVegetarian DietaryPreference = "Vegetarian"
	DietGlutenFree DietaryPreference = "Gluten-Free"
	DietKeto       DietaryPreference = "Keto"
)

// DietaryPreferences lists every dietary preference in display order.
var DietaryPreferences = []DietaryPreference{DietNone, DietVegan, DietVegetarian, DietGlutenFree, DietKeto}

func (d DietaryPreference) Valid() bool {
	switch d {
	case DietNone, DietVegan, DietVegetarian, DietGlutenFree, DietKeto:
		return true
	}
	return false
}

// UserProfile holds the attributes used to personalise plans.
// Weight is in kilograms, height in centimetres.
type UserProfile struct {
	Name               string              `json:"name"`
	Age                int                 `json:"age"`
	Gender             Gender              `json:"gender"`
	Weight             int                 `json:"weight"`
	Height             int                 `json:"height"`
	FitnessLevel       FitnessLevel        `json:"fitnessLevel"`
	Goals              []Goal              `json:"goals"`
	HealthConditions   string              `json:"healthConditions"`
	DietaryPreferences []DietaryPreference `json:"dietaryPreferences"`
}

// Default returns the starting values offered by the setup wizard.
func Default() UserProfile {
	return UserProfile{
		Age:                25,
		Gender:             GenderMale,
		Weight:             70,
		Height:             175,
		FitnessLevel:       LevelBeginner,
		Goals:              []Goal{},
		DietaryPreferences: []DietaryPreference{},
	}
}

// Validate reports whether every required field is populated with a legal value.
func (p UserProfile) Validate() error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return fmt.Errorf("%w: name is required", ErrIncomplete)
	case p.Age <= 0:
		return fmt.Errorf("%w: age must be greater than 0", ErrIncomplete)
	case !p.Gender.Valid():
		return fmt.Errorf("%w: unknown gender %q", ErrIncomplete, p.Gender)
	case p.Weight <= 0:
		return fmt.Errorf("%w: weight must be greater than 0", ErrIncomplete)
	case p.Height <= 0:
		return fmt.Errorf("%w: height must be greater than 0", ErrIncomplete)
	case !p.FitnessLevel.Valid():
		return fmt.Errorf("%w: unknown fitness level %q", ErrIncomplete, p.FitnessLevel)
	case len(p.Goals) == 0:
		return fmt.Errorf("%w: at least one goal is required", ErrIncomplete)
	}
	for _, g := range p.Goals {
		if !g.Valid() {
			return fmt.Errorf("%w: unknown goal %q", ErrIncomplete, g)
		}
	}
	for _, d := range p.DietaryPreferences {
		if !d.Valid() {
			return fmt.Errorf("%w: unknown dietary preference %q", ErrIncomplete, d)
		}
	}
	return nil
}

// GoalList joins the goals for display and prompts.
func (p UserProfile) GoalList() string {
	parts := make([]string, len(p.Goals))
	for i, g := range p.Goals {
		parts[i] = string(g)
	}
	return strings.Join(parts, ", ")
}

// DietList joins the dietary preferences, or returns "None" when there are none.
func (p UserProfile) DietList() string {
	if len(p.DietaryPreferences) == 0 {
		return "None"
	}
	parts := make([]string, len(p.DietaryPreferences))
	for i, d := range p.DietaryPreferences {
		parts[i] = string(d)
	}
	return strings.Join(parts, ", ")
}

// HealthConditionsOrNone returns the health conditions, or "None" when blank.
func (p UserProfile) HealthConditionsOrNone() string {
	if strings.TrimSpace(p.HealthConditions) == "" {
		return "None"
	}
	return strings.TrimSpace(p.HealthConditions)
}

// Clone returns a deep copy so callers can mutate slices safely.
func (p UserProfile) Clone() UserProfile {
	c := p
	c.Goals = append([]Goal(nil), p.Goals...)
	c.DietaryPreferences = append([]DietaryPreference(nil), p.DietaryPreferences...)
	return c
}
