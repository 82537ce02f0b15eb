package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ai-fitness-coach/internal/profile"
	"ai-fitness-coach/internal/wizard"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const expiredSetupText = "This setup has expired. Send /start to begin again."

// fieldPrompts are asked when a text field button is pressed.
var fieldPrompts = map[string]string{
	"name":   "✏️ What's your name?",
	"age":    "🎂 How old are you? (years)",
	"weight": "⚖️ What's your weight? (kg)",
	"height": "📏 What's your height? (cm)",
	"health": "🩺 Any health conditions or injuries? Send \"none\" if not.",
}

// renderWizard describes the current step and its inline keyboard.
func renderWizard(w *wizard.Wizard) (string, tgbotapi.InlineKeyboardMarkup) {
	step, total := w.Progress()
	p := w.Draft()

	var sb strings.Builder
	fmt.Fprintf(&sb, "*Step %d of %d: %s*\n\n", step, total, w.Step())

	var rows [][]tgbotapi.InlineKeyboardButton
	switch w.Step() {
	case wizard.StepIdentity:
		name := "_not set_"
		if strings.TrimSpace(p.Name) != "" {
			name = escapeMarkdown(p.Name)
		}
		fmt.Fprintf(&sb, "Name: %s\nAge: %d\nGender: %s\nWeight: %d kg\nHeight: %d cm\n", name, p.Age, p.Gender, p.Weight, p.Height)

		rows = append(rows,
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("✏️ Name", "wz|field|name"),
				tgbotapi.NewInlineKeyboardButtonData("🎂 Age", "wz|field|age"),
			),
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("⚖️ Weight", "wz|field|weight"),
				tgbotapi.NewInlineKeyboardButtonData("📏 Height", "wz|field|height"),
			),
		)
		var genders []tgbotapi.InlineKeyboardButton
		for _, g := range profile.Genders {
			genders = append(genders, choiceButton(string(g), p.Gender == g, "wz|gender|"+string(g)))
		}
		rows = append(rows, genders, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Next ➡️", "wz|next"),
		))

	case wizard.StepFitness:
		goals := "_none selected_"
		if len(p.Goals) > 0 {
			goals = p.GoalList()
		}
		fmt.Fprintf(&sb, "Fitness level: %s\nGoals: %s\n", p.FitnessLevel, goals)

		var levels []tgbotapi.InlineKeyboardButton
		for _, l := range profile.FitnessLevels {
			levels = append(levels, choiceButton(string(l), p.FitnessLevel == l, "wz|level|"+string(l)))
		}
		rows = append(rows, levels)
		var goalButtons []tgbotapi.InlineKeyboardButton
		for _, g := range profile.Goals {
			goalButtons = append(goalButtons, choiceButton(string(g), w.HasGoal(g), "wz|goal|"+string(g)))
		}
		rows = append(rows, chunk(goalButtons, 3)...)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬅️ Back", "wz|back"),
			tgbotapi.NewInlineKeyboardButtonData("Next ➡️", "wz|next"),
		))

	case wizard.StepDiet:
		fmt.Fprintf(&sb, "Dietary preferences: %s\nHealth conditions: %s\n", p.DietList(), escapeMarkdown(p.HealthConditionsOrNone()))

		var diets []tgbotapi.InlineKeyboardButton
		for _, d := range profile.DietaryPreferences {
			diets = append(diets, choiceButton(string(d), w.HasDietaryPreference(d), "wz|diet|"+string(d)))
		}
		rows = append(rows, chunk(diets, 3)...)
		rows = append(rows,
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("🩺 Health conditions", "wz|field|health"),
			),
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("⬅️ Back", "wz|back"),
				tgbotapi.NewInlineKeyboardButtonData("✅ Create My Plan", "wz|submit"),
			),
		)
	}

	return sb.String(), tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func choiceButton(label string, selected bool, data string) tgbotapi.InlineKeyboardButton {
	if selected {
		label = "✅ " + label
	}
	return tgbotapi.NewInlineKeyboardButtonData(label, data)
}

func chunk(buttons []tgbotapi.InlineKeyboardButton, size int) [][]tgbotapi.InlineKeyboardButton {
	var rows [][]tgbotapi.InlineKeyboardButton
	for len(buttons) > size {
		rows = append(rows, buttons[:size])
		buttons = buttons[size:]
	}
	if len(buttons) > 0 {
		rows = append(rows, buttons)
	}
	return rows
}

// handleWizardCallback applies a wizard button press and redraws the step.
func (b *Bot) handleWizardCallback(ctx context.Context, query *tgbotapi.CallbackQuery, value string) {
	chatID := query.Message.Chat.ID
	s := b.state(query.From.ID)
	s.mu.Lock()
	w := s.wizard
	if w == nil {
		s.mu.Unlock()
		b.answer(query.ID, expiredSetupText)
		return
	}

	op, arg, _ := strings.Cut(value, "|")
	var err error
	switch op {
	case "field":
		prompt, ok := fieldPrompts[arg]
		if !ok {
			s.mu.Unlock()
			b.answer(query.ID, "")
			return
		}
		s.pending = arg
		s.mu.Unlock()
		b.answer(query.ID, "")
		b.sendMarkdown(chatID, prompt, nil)
		return
	case "gender":
		err = w.SetGender(profile.Gender(arg))
	case "level":
		err = w.SetFitnessLevel(profile.FitnessLevel(arg))
	case "goal":
		err = w.ToggleGoal(profile.Goal(arg))
	case "diet":
		err = w.ToggleDietaryPreference(profile.DietaryPreference(arg))
	case "next":
		err = w.Next()
	case "back":
		err = w.Back()
	case "submit":
		p, submitErr := w.Submit()
		if submitErr == nil {
			s.wizard = nil
			s.pending = ""
		}
		s.mu.Unlock()
		b.finishWizard(ctx, query, p, submitErr)
		return
	default:
		err = fmt.Errorf("unknown wizard action %q", op)
	}
	text, keyboard := renderWizard(w)
	s.mu.Unlock()

	if err != nil {
		b.logger.Warn("wizard action rejected", zap.String("action", value), zap.Error(err))
	}
	b.answer(query.ID, "")
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, query.Message.MessageID, text, keyboard)
	edit.ParseMode = tgbotapi.ModeMarkdown
	b.send(edit)
}

func (b *Bot) finishWizard(ctx context.Context, query *tgbotapi.CallbackQuery, p profile.UserProfile, err error) {
	chatID := query.Message.Chat.ID
	if err != nil {
		if wizard.IsValidationError(err) {
			if _, reqErr := b.api.Request(tgbotapi.NewCallbackWithAlert(query.ID, wizard.IncompleteMessage)); reqErr != nil {
				b.logger.Warn("failed to answer callback", zap.Error(reqErr))
			}
			return
		}
		b.answer(query.ID, "")
		if errors.Is(err, wizard.ErrWizardComplete) {
			b.sendMarkdown(chatID, expiredSetupText, nil)
		}
		return
	}

	b.answer(query.ID, "")
	if err := b.store(query.From.ID).Save(ctx, p); err != nil {
		b.logger.Error("failed to save profile", zap.Int64("user_id", query.From.ID), zap.Error(err))
		b.sendMarkdown(chatID, "❌ Could not save your profile. Please try /start again.", nil)
		return
	}

	edit := tgbotapi.NewEditMessageText(chatID, query.Message.MessageID, formatProfileMarkdown(p))
	edit.ParseMode = tgbotapi.ModeMarkdown
	b.send(edit)
	b.generatePlans(ctx, query.From.ID, chatID, p)
}

// handleWizardInput consumes a text reply to a field prompt. It returns
// false when no wizard field is awaiting input.
func (b *Bot) handleWizardInput(msg *tgbotapi.Message) bool {
	s := b.state(msg.From.ID)
	s.mu.Lock()
	w := s.wizard
	if w == nil || s.pending == "" {
		s.mu.Unlock()
		return false
	}

	text := strings.TrimSpace(msg.Text)
	var err error
	switch s.pending {
	case "name":
		err = w.SetName(text)
	case "age":
		err = w.SetAgeText(text)
	case "weight":
		err = w.SetWeightText(text)
	case "height":
		err = w.SetHeightText(text)
	case "health":
		if strings.EqualFold(text, "none") {
			text = ""
		}
		err = w.SetHealthConditions(text)
	}
	if err != nil {
		s.mu.Unlock()
		b.sendMarkdown(msg.Chat.ID, "Please send a whole number greater than 0.", nil)
		return true
	}
	s.pending = ""
	out, keyboard := renderWizard(w)
	s.mu.Unlock()

	b.sendMarkdown(msg.Chat.ID, out, &keyboard)
	return true
}
