package planner

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"
	"text/template"

	"ai-fitness-coach/internal/llm"
	"ai-fitness-coach/internal/profile"
	"ai-fitness-coach/internal/shared"

	"go.uber.org/zap"
)

//go:embed meal_prompt.md
var mealPrompt string

var mealTemplate = template.Must(template.New("meal").Parse(mealPrompt))

// Meal is one entry of a meal plan. Macros are in grams.
type Meal struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Calories    int    `json:"calories"`
	Protein     int    `json:"protein"`
	Carbs       int    `json:"carbs"`
	Fats        int    `json:"fats"`
}

// MealPlan is a one-day meal plan.
type MealPlan struct {
	DailyCalorieTarget int    `json:"dailyCalorieTarget"`
	Meals              []Meal `json:"meals"`
}

func (m *MealPlan) Validate() error {
	if m.DailyCalorieTarget < 0 {
		return fmt.Errorf("%w: negative daily calorie target", ErrInvalidPlan)
	}
	if len(m.Meals) == 0 {
		return fmt.Errorf("%w: meal plan has no meals", ErrInvalidPlan)
	}
	for i, meal := range m.Meals {
		if strings.TrimSpace(meal.Name) == "" {
			return fmt.Errorf("%w: meal %d has no name", ErrInvalidPlan, i)
		}
		if meal.Calories < 0 || meal.Protein < 0 || meal.Carbs < 0 || meal.Fats < 0 {
			return fmt.Errorf("%w: meal %q has negative values", ErrInvalidPlan, meal.Name)
		}
	}
	return nil
}

// TotalCalories sums the calories of every meal.
func (m *MealPlan) TotalCalories() int {
	total := 0
	for _, meal := range m.Meals {
		total += meal.Calories
	}
	return total
}

func (m *MealPlan) sanitize() {
	for i := range m.Meals {
		m.Meals[i].Name = plainText(m.Meals[i].Name)
		m.Meals[i].Description = plainText(m.Meals[i].Description)
	}
}

type mealPromptData struct {
	Profile profile.UserProfile
}

// GenerateMealPlan asks the model for a one-day meal plan that respects the
// profile's goals and dietary preferences. It returns nil on any failure.
func (p *Planner) GenerateMealPlan(ctx context.Context, prof profile.UserProfile) *MealPlan {
	prompt, err := buildMealPrompt(mealPromptData{Profile: prof})
	if err != nil {
		p.logger.Error("failed to build meal prompt", zap.Error(err))
		return nil
	}

	gen := p.generate(ctx, shared.AgentMealPlanner, llm.Request{Prompt: prompt, JSON: true})
	plan := &MealPlan{}
	if !p.decode(gen, plan, "meal plan") {
		return nil
	}
	plan.sanitize()
	return plan
}

func buildMealPrompt(data mealPromptData) (string, error) {
	var buf bytes.Buffer
	if err := mealTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
