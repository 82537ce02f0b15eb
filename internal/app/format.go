package app

import (
	"fmt"
	"strings"

	"ai-fitness-coach/internal/planner"
)

// FormatWorkout renders a workout for the terminal.
func FormatWorkout(plan *planner.WorkoutPlan) string {
	if plan == nil {
		return "Could not generate a workout plan. Try again, optionally with --mood.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== WORKOUT: %s (%s) ===\n", plan.Focus, plan.Day)
	if plan.WarmUp != "" {
		fmt.Fprintf(&sb, "Warm-up:   %s\n", plan.WarmUp)
	}
	for i, ex := range plan.Exercises {
		fmt.Fprintf(&sb, "%2d. %-24s %d x %-10s rest %ds\n", i+1, ex.Name, ex.Sets, ex.Reps, ex.Rest)
		if ex.Description != "" {
			fmt.Fprintf(&sb, "    %s\n", ex.Description)
		}
	}
	if plan.CoolDown != "" {
		fmt.Fprintf(&sb, "Cool-down: %s\n", plan.CoolDown)
	}
	return sb.String()
}

// FormatMeal renders a meal plan for the terminal.
func FormatMeal(plan *planner.MealPlan) string {
	if plan == nil {
		return "Could not generate a meal plan. Try again.\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== MEAL PLAN: %d kcal target ===\n", plan.DailyCalorieTarget)
	for _, m := range plan.Meals {
		fmt.Fprintf(&sb, "%-10s %s\n", m.Name+":", m.Description)
		fmt.Fprintf(&sb, "           %d kcal, protein %dg, carbs %dg, fats %dg\n", m.Calories, m.Protein, m.Carbs, m.Fats)
	}
	return sb.String()
}
