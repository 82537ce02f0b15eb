package wizard

import (
	"testing"

	"ai-fitness-coach/internal/profile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWizard_Navigation(t *testing.T) {
	w := New()
	assert.Equal(t, StepIdentity, w.Step())
	step, total := w.Progress()
	assert.Equal(t, 1, step)
	assert.Equal(t, 3, total)

	assert.ErrorIs(t, w.Back(), ErrInvalidStep)

	require.NoError(t, w.Next())
	assert.Equal(t, StepFitness, w.Step())
	require.NoError(t, w.Next())
	assert.Equal(t, StepDiet, w.Step())
	assert.ErrorIs(t, w.Next(), ErrInvalidStep)

	require.NoError(t, w.Back())
	assert.Equal(t, StepFitness, w.Step())
}

func TestWizard_SubmitOnlyFromLastStep(t *testing.T) {
	w := New()
	require.NoError(t, w.SetName("Alex"))
	require.NoError(t, w.ToggleGoal(profile.GoalStrength))

	_, err := w.Submit()
	assert.ErrorIs(t, err, ErrInvalidStep)
	assert.Equal(t, StepIdentity, w.Step())
}

func TestWizard_SubmitValidation(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(w *Wizard)
		wantErr error
	}{
		{
			name:    "MissingName",
			setup:   func(w *Wizard) { _ = w.ToggleGoal(profile.GoalEndurance) },
			wantErr: ErrNameRequired,
		},
		{
			name:    "BlankName",
			setup:   func(w *Wizard) { _ = w.SetName("   "); _ = w.ToggleGoal(profile.GoalEndurance) },
			wantErr: ErrNameRequired,
		},
		{
			name:    "NoGoals",
			setup:   func(w *Wizard) { _ = w.SetName("Alex") },
			wantErr: ErrGoalRequired,
		},
		{
			name:    "NameCheckedFirst",
			setup:   func(w *Wizard) {},
			wantErr: ErrNameRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := New()
			tt.setup(w)
			require.NoError(t, w.Next())
			require.NoError(t, w.Next())

			_, err := w.Submit()
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, IsValidationError(err))
			assert.Equal(t, StepDiet, w.Step())
			assert.False(t, w.Complete())
		})
	}
}

func TestWizard_RejectedSubmitKeepsDraft(t *testing.T) {
	w := New()
	require.NoError(t, w.SetName("  Alex "))
	require.NoError(t, w.Next())
	require.NoError(t, w.Next())

	_, err := w.Submit()
	assert.ErrorIs(t, err, ErrGoalRequired)
	assert.Equal(t, "  Alex ", w.Draft().Name)
}

func TestWizard_SubmitSuccess(t *testing.T) {
	w := New()
	require.NoError(t, w.SetName("  Alex "))
	require.NoError(t, w.SetAgeText("31"))
	require.NoError(t, w.SetGender(profile.GenderFemale))
	require.NoError(t, w.SetWeight(64))
	require.NoError(t, w.SetHeightText("168"))
	require.NoError(t, w.Next())
	require.NoError(t, w.SetFitnessLevel(profile.LevelIntermediate))
	require.NoError(t, w.ToggleGoal(profile.GoalFlexibility))
	require.NoError(t, w.ToggleGoal(profile.GoalMuscleGain))
	require.NoError(t, w.Next())
	require.NoError(t, w.ToggleDietaryPreference(profile.DietKeto))
	require.NoError(t, w.SetHealthConditions("knee injury"))

	p, err := w.Submit()
	require.NoError(t, err)
	assert.Equal(t, "Alex", p.Name)
	assert.Equal(t, 31, p.Age)
	assert.Equal(t, profile.GenderFemale, p.Gender)
	assert.Equal(t, 64, p.Weight)
	assert.Equal(t, 168, p.Height)
	assert.Equal(t, profile.LevelIntermediate, p.FitnessLevel)
	assert.Equal(t, []profile.Goal{profile.GoalFlexibility, profile.GoalMuscleGain}, p.Goals)
	assert.Equal(t, []profile.DietaryPreference{profile.DietKeto}, p.DietaryPreferences)
	assert.Equal(t, "knee injury", p.HealthConditions)
	assert.NoError(t, p.Validate())

	assert.True(t, w.Complete())
	assert.Equal(t, StepComplete, w.Step())

	// Complete is terminal.
	assert.ErrorIs(t, w.Back(), ErrWizardComplete)
	assert.ErrorIs(t, w.Next(), ErrWizardComplete)
	assert.ErrorIs(t, w.SetName("Other"), ErrWizardComplete)
	assert.ErrorIs(t, w.ToggleGoal(profile.GoalStrength), ErrWizardComplete)
	assert.ErrorIs(t, w.SetAgeText("abc"), ErrWizardComplete)
	_, err = w.Submit()
	assert.ErrorIs(t, err, ErrWizardComplete)
}

func TestWizard_ToggleKeepsOrder(t *testing.T) {
	w := New()
	require.NoError(t, w.ToggleGoal(profile.GoalStrength))
	require.NoError(t, w.ToggleGoal(profile.GoalEndurance))
	require.NoError(t, w.ToggleGoal(profile.GoalWeightLoss))
	require.NoError(t, w.ToggleGoal(profile.GoalEndurance))

	assert.Equal(t, []profile.Goal{profile.GoalStrength, profile.GoalWeightLoss}, w.Draft().Goals)
	assert.True(t, w.HasGoal(profile.GoalStrength))
	assert.False(t, w.HasGoal(profile.GoalEndurance))

	require.NoError(t, w.ToggleDietaryPreference(profile.DietVegan))
	require.NoError(t, w.ToggleDietaryPreference(profile.DietVegan))
	assert.Empty(t, w.Draft().DietaryPreferences)
	assert.False(t, w.HasDietaryPreference(profile.DietVegan))

	assert.ErrorIs(t, w.ToggleGoal(profile.Goal("Juggling")), ErrInvalidValue)
}

func TestWizard_NumericInput(t *testing.T) {
	w := New()

	for _, bad := range []string{"", "abc", "12.5", "0", "-3"} {
		assert.ErrorIs(t, w.SetAgeText(bad), ErrInvalidNumber, bad)
	}
	assert.Equal(t, 25, w.Draft().Age)

	require.NoError(t, w.SetWeightText(" 82 "))
	assert.Equal(t, 82, w.Draft().Weight)
	assert.ErrorIs(t, w.SetHeight(0), ErrInvalidNumber)
	assert.Equal(t, 175, w.Draft().Height)
}

func TestWizard_DraftIsCopy(t *testing.T) {
	w := New()
	require.NoError(t, w.ToggleGoal(profile.GoalStrength))

	d := w.Draft()
	d.Goals[0] = profile.GoalFlexibility
	assert.Equal(t, profile.GoalStrength, w.Draft().Goals[0])
}
