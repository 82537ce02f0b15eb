package telegram

import (
	"fmt"
	"strings"

	"ai-fitness-coach/internal/metrics"
	"ai-fitness-coach/internal/planner"
	"ai-fitness-coach/internal/profile"
	"ai-fitness-coach/internal/progress"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const helpText = `*Commands*
/plan - today's workout and meal plan
/mood - tell me how you feel to adjust the workout
/posture [exercise] - form tips for an exercise
/progress - your progress chart
/reset - delete your profile and start over`

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

// escapeMarkdown makes model or user text safe inside a Markdown message.
func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

var moodEmoji = map[planner.Mood]string{
	planner.MoodEnergized: "⚡",
	planner.MoodNeutral:   "😐",
	planner.MoodTired:     "😴",
	planner.MoodStressed:  "😣",
}

func moodKeyboard() *tgbotapi.InlineKeyboardMarkup {
	var row []tgbotapi.InlineKeyboardButton
	for _, m := range planner.Moods {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(moodEmoji[m]+" "+string(m), "mood|"+string(m)))
	}
	keyboard := tgbotapi.NewInlineKeyboardMarkup(row)
	return &keyboard
}

func formatWorkoutMarkdown(plan *planner.WorkoutPlan) string {
	if plan == nil {
		return "❌ Could not generate your workout plan. Pick a mood below to try again."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🏋️ *Today's Workout: %s*\n", escapeMarkdown(plan.Focus))
	if plan.Day != "" {
		fmt.Fprintf(&sb, "_%s_\n", escapeMarkdown(plan.Day))
	}
	if plan.WarmUp != "" {
		fmt.Fprintf(&sb, "\n🔥 *Warm-up:* %s\n", escapeMarkdown(plan.WarmUp))
	}
	sb.WriteString("\n")
	for i, ex := range plan.Exercises {
		fmt.Fprintf(&sb, "%d. *%s*: %d x %s, rest %ds\n", i+1, escapeMarkdown(ex.Name), ex.Sets, escapeMarkdown(ex.Reps), ex.Rest)
		if ex.Description != "" {
			fmt.Fprintf(&sb, "   %s\n", escapeMarkdown(ex.Description))
		}
	}
	if plan.CoolDown != "" {
		fmt.Fprintf(&sb, "\n🧊 *Cool-down:* %s\n", escapeMarkdown(plan.CoolDown))
	}
	return sb.String()
}

func formatMealMarkdown(plan *planner.MealPlan) string {
	if plan == nil {
		return "❌ Could not generate your meal plan. Send /plan to try again."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🥗 *Meal Plan* (target %d kcal)\n\n", plan.DailyCalorieTarget)
	for _, m := range plan.Meals {
		fmt.Fprintf(&sb, "*%s*: %s\n", escapeMarkdown(m.Name), escapeMarkdown(m.Description))
		fmt.Fprintf(&sb, "%d kcal | P %dg | C %dg | F %dg\n\n", m.Calories, m.Protein, m.Carbs, m.Fats)
	}
	fmt.Fprintf(&sb, "⏱ *Total:* %d kcal", plan.TotalCalories())
	return sb.String()
}

func formatPostureMarkdown(exercise, feedback string) string {
	return fmt.Sprintf("🎥 *Form check: %s*\n\n%s", escapeMarkdown(exercise), escapeMarkdown(feedback))
}

func formatProgressMarkdown(points []progress.Point) string {
	return "📈 *Your Progress*\n```\n" + progress.Render(points) + "\n```"
}

func formatProfileMarkdown(p profile.UserProfile) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "✅ *Profile saved, %s!*\n\n", escapeMarkdown(p.Name))
	fmt.Fprintf(&sb, "• %d years, %s, %d kg, %d cm\n", p.Age, p.Gender, p.Weight, p.Height)
	fmt.Fprintf(&sb, "• Level: %s\n", p.FitnessLevel)
	fmt.Fprintf(&sb, "• Goals: %s\n", p.GoalList())
	fmt.Fprintf(&sb, "• Diet: %s\n", p.DietList())
	fmt.Fprintf(&sb, "• Health: %s", escapeMarkdown(p.HealthConditionsOrNone()))
	return sb.String()
}

func formatMetricsMarkdown(usage []metrics.DailyUsage, health metrics.SysHealth) string {
	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🗓 *Recent AI Activity*\n")
	if len(usage) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range usage {
		fmt.Fprintf(&sb, "• *%s*: %d tokens (%d calls, %d failed)\n", d.Date, d.TotalPrompt+d.TotalCompletion, d.TotalExecution, d.Failed)
	}

	sb.WriteString("\n🧠 *System Health*\n")
	fmt.Fprintf(&sb, "• RAM: %dMB (Alloc) / %dMB (Sys)\n", health.AllocMB, health.SysMB)
	fmt.Fprintf(&sb, "• Goroutines: %d\n", health.Goroutines)
	fmt.Fprintf(&sb, "• Database: %s\n", health.DatabaseSize)
	fmt.Fprintf(&sb, "• Profile files: %d (%s)\n", health.ProfileFiles, health.ProfileSize)
	return sb.String()
}
