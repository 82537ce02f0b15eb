// Package wizard implements the three-step profile setup flow.
package wizard

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"ai-fitness-coach/internal/profile"
)

// Step is a position in the setup flow.
type Step int

const (
	StepIdentity Step = iota + 1 // name, age, gender, weight, height
	StepFitness                  // fitness level and goals
	StepDiet                     // dietary preferences and health conditions
	StepComplete
)

// TotalSteps is the number of input steps shown to the user.
const TotalSteps = 3

// IncompleteMessage is shown when Submit rejects the profile.
const IncompleteMessage = "Please fill in your name and select at least one goal."

var (
	ErrNameRequired   = errors.New("name is required")
	ErrGoalRequired   = errors.New("at least one goal is required")
	ErrWizardComplete = errors.New("wizard is already complete")
	ErrInvalidStep    = errors.New("action not allowed on this step")
	ErrInvalidNumber  = errors.New("value must be a whole number greater than 0")
	ErrInvalidValue   = errors.New("unknown value")
)

func (s Step) String() string {
	switch s {
	case StepIdentity:
		return "Personal Info"
	case StepFitness:
		return "Fitness Goals"
	case StepDiet:
		return "Diet & Health"
	case StepComplete:
		return "Complete"
	}
	return fmt.Sprintf("Step(%d)", int(s))
}

// Wizard holds the draft profile while the user walks through the steps.
// It is not safe for concurrent use.
type Wizard struct {
	step  Step
	draft profile.UserProfile
}

// New starts a wizard on the first step with the default profile values.
func New() *Wizard {
	return &Wizard{step: StepIdentity, draft: profile.Default()}
}

// Step returns the current step.
func (w *Wizard) Step() Step { return w.step }

// Progress reports the current step and the total, e.g. 2 of 3.
func (w *Wizard) Progress() (int, int) {
	if w.step == StepComplete {
		return TotalSteps, TotalSteps
	}
	return int(w.step), TotalSteps
}

// Draft returns a copy of the profile being built.
func (w *Wizard) Draft() profile.UserProfile { return w.draft.Clone() }

// Complete reports whether the wizard has emitted its profile.
func (w *Wizard) Complete() bool { return w.step == StepComplete }

// Next advances one step. It is only legal before the last step.
func (w *Wizard) Next() error {
	if err := w.mutable(); err != nil {
		return err
	}
	if w.step >= StepDiet {
		return fmt.Errorf("%w: cannot advance from %s", ErrInvalidStep, w.step)
	}
	w.step++
	return nil
}

// Back returns to the previous step. It is not legal on the first step.
func (w *Wizard) Back() error {
	if err := w.mutable(); err != nil {
		return err
	}
	if w.step <= StepIdentity {
		return fmt.Errorf("%w: cannot go back from %s", ErrInvalidStep, w.step)
	}
	w.step--
	return nil
}

// Submit validates the draft on the last step. On success the wizard is
// complete and the finished profile is returned; on failure it stays put.
func (w *Wizard) Submit() (profile.UserProfile, error) {
	if err := w.mutable(); err != nil {
		return profile.UserProfile{}, err
	}
	if w.step != StepDiet {
		return profile.UserProfile{}, fmt.Errorf("%w: submit is only allowed on %s", ErrInvalidStep, StepDiet)
	}
	p := w.draft.Clone()
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return profile.UserProfile{}, ErrNameRequired
	}
	if len(p.Goals) == 0 {
		return profile.UserProfile{}, ErrGoalRequired
	}
	if err := p.Validate(); err != nil {
		return profile.UserProfile{}, err
	}
	w.draft = p
	w.step = StepComplete
	return p.Clone(), nil
}

// IsValidationError reports whether err should be shown to the user as
// IncompleteMessage.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrNameRequired) || errors.Is(err, ErrGoalRequired) || errors.Is(err, profile.ErrIncomplete)
}

func (w *Wizard) SetName(name string) error {
	if err := w.mutable(); err != nil {
		return err
	}
	w.draft.Name = name
	return nil
}

func (w *Wizard) SetAge(age int) error {
	return w.setPositive(&w.draft.Age, age)
}

func (w *Wizard) SetWeight(kg int) error {
	return w.setPositive(&w.draft.Weight, kg)
}

func (w *Wizard) SetHeight(cm int) error {
	return w.setPositive(&w.draft.Height, cm)
}

// SetAgeText parses a numeric input field. Malformed values are not stored.
func (w *Wizard) SetAgeText(s string) error {
	return w.setPositiveText(&w.draft.Age, s)
}

func (w *Wizard) SetWeightText(s string) error {
	return w.setPositiveText(&w.draft.Weight, s)
}

func (w *Wizard) SetHeightText(s string) error {
	return w.setPositiveText(&w.draft.Height, s)
}

func (w *Wizard) SetGender(g profile.Gender) error {
	if err := w.mutable(); err != nil {
		return err
	}
	if !g.Valid() {
		return fmt.Errorf("%w: gender %q", ErrInvalidValue, g)
	}
	w.draft.Gender = g
	return nil
}

func (w *Wizard) SetFitnessLevel(l profile.FitnessLevel) error {
	if err := w.mutable(); err != nil {
		return err
	}
	if !l.Valid() {
		return fmt.Errorf("%w: fitness level %q", ErrInvalidValue, l)
	}
	w.draft.FitnessLevel = l
	return nil
}

func (w *Wizard) SetHealthConditions(text string) error {
	if err := w.mutable(); err != nil {
		return err
	}
	w.draft.HealthConditions = text
	return nil
}

// ToggleGoal adds g when absent and removes it when present.
func (w *Wizard) ToggleGoal(g profile.Goal) error {
	if err := w.mutable(); err != nil {
		return err
	}
	if !g.Valid() {
		return fmt.Errorf("%w: goal %q", ErrInvalidValue, g)
	}
	w.draft.Goals = toggle(w.draft.Goals, g)
	return nil
}

// ToggleDietaryPreference adds d when absent and removes it when present.
func (w *Wizard) ToggleDietaryPreference(d profile.DietaryPreference) error {
	if err := w.mutable(); err != nil {
		return err
	}
	if !d.Valid() {
		return fmt.Errorf("%w: dietary preference %q", ErrInvalidValue, d)
	}
	w.draft.DietaryPreferences = toggle(w.draft.DietaryPreferences, d)
	return nil
}

// HasGoal reports whether g is selected.
func (w *Wizard) HasGoal(g profile.Goal) bool {
	return contains(w.draft.Goals, g)
}

// HasDietaryPreference reports whether d is selected.
func (w *Wizard) HasDietaryPreference(d profile.DietaryPreference) bool {
	return contains(w.draft.DietaryPreferences, d)
}

func (w *Wizard) mutable() error {
	if w.step == StepComplete {
		return ErrWizardComplete
	}
	return nil
}

func (w *Wizard) setPositive(field *int, v int) error {
	if err := w.mutable(); err != nil {
		return err
	}
	if v <= 0 {
		return ErrInvalidNumber
	}
	*field = v
	return nil
}

func (w *Wizard) setPositiveText(field *int, s string) error {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		if mErr := w.mutable(); mErr != nil {
			return mErr
		}
		return fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}
	return w.setPositive(field, v)
}

func toggle[T comparable](items []T, v T) []T {
	for i, item := range items {
		if item == v {
			return append(items[:i:i], items[i+1:]...)
		}
	}
	return append(items, v)
}

func contains[T comparable](items []T, v T) bool {
	for _, item := range items {
		if item == v {
			return true
		}
	}
	return false
}
