package profile

import (
	"errors"
	"testing"
)

func validProfile() UserProfile {
	p := Default()
	p.Name = "Alex"
	p.Goals = []Goal{GoalStrength, GoalWeightLoss}
	return p
}

func TestValidate(t *testing.T) {
	if err := validProfile().Validate(); err != nil {
		t.Fatalf("Expected valid profile, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(p *UserProfile)
	}{
		{"BlankName", func(p *UserProfile) { p.Name = "   " }},
		{"ZeroAge", func(p *UserProfile) { p.Age = 0 }},
		{"UnknownGender", func(p *UserProfile) { p.Gender = "Robot" }},
		{"NegativeWeight", func(p *UserProfile) { p.Weight = -1 }},
		{"ZeroHeight", func(p *UserProfile) { p.Height = 0 }},
		{"UnknownLevel", func(p *UserProfile) { p.FitnessLevel = "Olympian" }},
		{"NoGoals", func(p *UserProfile) { p.Goals = nil }},
		{"UnknownGoal", func(p *UserProfile) { p.Goals = []Goal{"Fame"} }},
		{"UnknownDiet", func(p *UserProfile) { p.DietaryPreferences = []DietaryPreference{"Carnivore"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProfile()
			tt.mutate(&p)
			if err := p.Validate(); !errors.Is(err, ErrIncomplete) {
				t.Errorf("Expected ErrIncomplete, got %v", err)
			}
		})
	}
}

func TestDisplayHelpers(t *testing.T) {
	p := validProfile()
	if got := p.GoalList(); got != "Strength, Weight Loss" {
		t.Errorf("Unexpected goal list %q", got)
	}
	if got := p.DietList(); got != "None" {
		t.Errorf("Expected 'None' for empty diet list, got %q", got)
	}
	if got := p.HealthConditionsOrNone(); got != "None" {
		t.Errorf("Expected 'None' for blank health conditions, got %q", got)
	}

	p.DietaryPreferences = []DietaryPreference{DietVegan, DietGlutenFree}
	p.HealthConditions = " bad knee "
	if got := p.DietList(); got != "Vegan, Gluten-Free" {
		t.Errorf("Unexpected diet list %q", got)
	}
	if got := p.HealthConditionsOrNone(); got != "bad knee" {
		t.Errorf("Unexpected health conditions %q", got)
	}
}

func TestClone(t *testing.T) {
	p := validProfile()
	c := p.Clone()
	c.Goals[0] = GoalEndurance
	if p.Goals[0] != GoalStrength {
		t.Error("Clone shares the goals slice with the original")
	}
}
