package tui

import (
	"fmt"
	"strings"

	"ai-fitness-coach/internal/dashboard"
	"ai-fitness-coach/internal/planner"
	"ai-fitness-coach/internal/posture"
	"ai-fitness-coach/internal/progress"

	"github.com/charmbracelet/lipgloss"
)

const (
	minCardWidth = 30
	maxCardWidth = 60
)

// dashboardView renders the dashboard from a snapshot so that views never
// touch state owned by background requests.
type dashboardView struct {
	st        Styles
	state     dashboard.State
	spinner   string
	cameraOn  bool
	analyzing bool
	feedback  string
	exercise  string
	width     int
}

func (v dashboardView) cardWidth() int {
	w := v.width/2 - 4
	if w < minCardWidth {
		return minCardWidth
	}
	if w > maxCardWidth {
		return maxCardWidth
	}
	return w
}

func (v dashboardView) render() string {
	var sb strings.Builder
	sb.WriteString(v.st.Title.Render(fmt.Sprintf("Welcome back, %s!", v.state.Profile.Name)))
	sb.WriteString("\n")
	sb.WriteString(v.st.Subtitle.Render("Here is your plan for today."))
	sb.WriteString("\n\n")
	sb.WriteString(v.moodBar())
	sb.WriteString("\n\n")

	w := v.cardWidth()
	top := lipgloss.JoinHorizontal(lipgloss.Top,
		v.st.RenderCard("Today's Workout", v.workoutBody(), w),
		" ",
		v.st.RenderCard("Meal Plan", v.mealBody(), w),
	)
	bottom := lipgloss.JoinHorizontal(lipgloss.Top,
		v.st.RenderCard("Posture Check", v.postureBody(), w),
		" ",
		v.st.RenderCard("Progress", progress.Render(progress.Sample()), w),
	)
	sb.WriteString(top + "\n" + bottom + "\n\n")
	sb.WriteString(v.st.Muted.Render("1-4 mood • c camera • a analyze form • r reload • e edit profile • q quit"))
	return sb.String()
}

func (v dashboardView) moodBar() string {
	parts := []string{v.st.Label.Render("How are you feeling?")}
	for i, m := range planner.Moods {
		label := fmt.Sprintf("%d %s", i+1, m)
		selected := v.state.Mood != nil && *v.state.Mood == m
		parts = append(parts, v.st.RenderButton(label, selected))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

func (v dashboardView) workoutBody() string {
	if v.state.WorkoutLoading {
		return v.spinner + " Generating your workout..."
	}
	plan := v.state.Workout
	if plan == nil {
		return v.st.Muted.Render("No workout yet. Press r to try again.")
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n%s\n", v.st.Label.Render(plan.Day), v.st.Subtitle.Render(plan.Focus))
	if plan.WarmUp != "" {
		fmt.Fprintf(&sb, "%s %s\n", v.st.Muted.Render("Warm-up:"), plan.WarmUp)
	}
	for _, ex := range plan.Exercises {
		fmt.Fprintf(&sb, "• %s  %dx%s, rest %ds\n", v.st.Label.Render(ex.Name), ex.Sets, ex.Reps, ex.Rest)
		if ex.Description != "" {
			fmt.Fprintf(&sb, "  %s\n", v.st.Muted.Render(ex.Description))
		}
	}
	if plan.CoolDown != "" {
		fmt.Fprintf(&sb, "%s %s", v.st.Muted.Render("Cool-down:"), plan.CoolDown)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (v dashboardView) mealBody() string {
	if v.state.MealLoading {
		return v.spinner + " Creating your meal plan..."
	}
	plan := v.state.Meal
	if plan == nil {
		return v.st.Muted.Render("No meal plan yet. Press r to try again.")
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %d kcal\n", v.st.Label.Render("Daily target:"), plan.DailyCalorieTarget)
	for _, m := range plan.Meals {
		fmt.Fprintf(&sb, "• %s  %d kcal\n", v.st.Label.Render(m.Name), m.Calories)
		if m.Description != "" {
			fmt.Fprintf(&sb, "  %s\n", m.Description)
		}
		fmt.Fprintf(&sb, "  %s\n", v.st.Muted.Render(fmt.Sprintf("P %dg  C %dg  F %dg", m.Protein, m.Carbs, m.Fats)))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (v dashboardView) postureBody() string {
	var sb strings.Builder
	if v.cameraOn {
		sb.WriteString(v.st.Success.Render("● Camera on"))
	} else {
		sb.WriteString(v.st.Muted.Render("○ Camera off"))
	}
	fmt.Fprintf(&sb, "\nExercise: %s\n", v.exercise)

	switch {
	case v.analyzing:
		sb.WriteString(v.spinner + " Analyzing your form...")
	case v.feedback == posture.CameraErrorMessage:
		sb.WriteString(v.st.Error.Render(v.feedback))
	case v.feedback != "":
		sb.WriteString(v.feedback)
	case v.cameraOn:
		sb.WriteString(v.st.Muted.Render("Press a to analyze your form."))
	default:
		sb.WriteString(v.st.Muted.Render("Press c to start the camera."))
	}
	return sb.String()
}
