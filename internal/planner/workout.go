package planner

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"ai-fitness-coach/internal/llm"
	"ai-fitness-coach/internal/profile"
	"ai-fitness-coach/internal/shared"

	"go.uber.org/zap"
)

//go:embed workout_prompt.md
var workoutPrompt string

var workoutTemplate = template.Must(template.New("workout").Parse(workoutPrompt))

// ErrInvalidPlan is returned by Validate when a decoded plan breaks the schema.
var ErrInvalidPlan = errors.New("invalid plan")

// Exercise is a single movement in a workout. Reps is free-form
// ("10-12", "30 seconds"); Rest is in seconds.
type Exercise struct {
	Name        string `json:"name"`
	Sets        int    `json:"sets"`
	Reps        string `json:"reps"`
	Rest        int    `json:"rest"`
	Description string `json:"description"`
}

// WorkoutPlan is a one-day workout.
type WorkoutPlan struct {
	Day       string     `json:"day"`
	Focus     string     `json:"focus"`
	Exercises []Exercise `json:"exercises"`
	WarmUp    string     `json:"warmUp"`
	CoolDown  string     `json:"coolDown"`
}

// Validate checks the plan against the schema promised in the prompt.
func (w *WorkoutPlan) Validate() error {
	if len(w.Exercises) == 0 {
		return fmt.Errorf("%w: workout has no exercises", ErrInvalidPlan)
	}
	for i, ex := range w.Exercises {
		if strings.TrimSpace(ex.Name) == "" {
			return fmt.Errorf("%w: exercise %d has no name", ErrInvalidPlan, i)
		}
		if ex.Sets < 0 || ex.Rest < 0 {
			return fmt.Errorf("%w: exercise %q has negative sets or rest", ErrInvalidPlan, ex.Name)
		}
	}
	return nil
}

func (w *WorkoutPlan) sanitize() {
	w.Day = plainText(w.Day)
	w.Focus = plainText(w.Focus)
	w.WarmUp = plainText(w.WarmUp)
	w.CoolDown = plainText(w.CoolDown)
	for i := range w.Exercises {
		ex := &w.Exercises[i]
		ex.Name = plainText(ex.Name)
		ex.Reps = plainText(ex.Reps)
		ex.Description = plainText(ex.Description)
	}
}

type workoutPromptData struct {
	Profile        profile.UserProfile
	MoodAdjustment string
}

// GenerateWorkoutPlan asks the model for a one-day workout tailored to the
// profile and, when mood is non-nil, to the user's mood. It returns nil when
// the provider fails or the response is not a valid plan.
func (p *Planner) GenerateWorkoutPlan(ctx context.Context, prof profile.UserProfile, mood *Mood) *WorkoutPlan {
	data := workoutPromptData{Profile: prof}
	if mood != nil {
		data.MoodAdjustment = mood.Adjustment()
	}

	prompt, err := buildWorkoutPrompt(data)
	if err != nil {
		p.logger.Error("failed to build workout prompt", zap.Error(err))
		return nil
	}

	gen := p.generate(ctx, shared.AgentWorkoutPlanner, llm.Request{Prompt: prompt, JSON: true})

	plan := &WorkoutPlan{}
	if !p.decode(gen, plan, "workout plan") {
		return nil
	}
	plan.sanitize()
	return plan
}

func buildWorkoutPrompt(data workoutPromptData) (string, error) {
	var buf bytes.Buffer
	if err := workoutTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
