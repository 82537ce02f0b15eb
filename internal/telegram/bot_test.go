package telegram

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"ai-fitness-coach/internal/config"
	"ai-fitness-coach/internal/database"
	"ai-fitness-coach/internal/metrics"
	"ai-fitness-coach/internal/planner"
	"ai-fitness-coach/internal/profile"
	"ai-fitness-coach/internal/shared"
	"ai-fitness-coach/internal/storage"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
	nextID   int
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	f.nextID++
	return tgbotapi.Message{MessageID: f.nextID}, nil
}

func (f *fakeSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

// texts returns the text of every sent message and edit.
func (f *fakeSender) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, c := range f.sent {
		switch m := c.(type) {
		case tgbotapi.MessageConfig:
			out = append(out, m.Text)
		case tgbotapi.EditMessageTextConfig:
			out = append(out, m.Text)
		}
	}
	return out
}

func (f *fakeSender) last() string {
	texts := f.texts()
	if len(texts) == 0 {
		return ""
	}
	return texts[len(texts)-1]
}

func (f *fakeSender) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = nil
	f.requests = nil
}

type fakeCoach struct {
	mu        sync.Mutex
	moods     []string
	exercises []string
}

func (c *fakeCoach) GenerateWorkoutPlan(_ context.Context, _ profile.UserProfile, mood *planner.Mood) *planner.WorkoutPlan {
	c.mu.Lock()
	defer c.mu.Unlock()
	focus := "Full Body"
	if mood != nil {
		focus = string(*mood) + " Session"
		c.moods = append(c.moods, string(*mood))
	}
	return &planner.WorkoutPlan{
		Day:       "Monday",
		Focus:     focus,
		Exercises: []planner.Exercise{{Name: "Goblet Squat", Sets: 3, Reps: "12", Rest: 60, Description: "Sit back."}},
		WarmUp:    "Jog",
		CoolDown:  "Stretch",
	}
}

func (c *fakeCoach) GenerateMealPlan(context.Context, profile.UserProfile) *planner.MealPlan {
	return &planner.MealPlan{
		DailyCalorieTarget: 2000,
		Meals:              []planner.Meal{{Name: "Dinner", Description: "Tofu bowl", Calories: 600, Protein: 35, Carbs: 50, Fats: 20}},
	}
}

func (c *fakeCoach) AnalyzePosture(_ context.Context, exercise string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.exercises = append(c.exercises, exercise)
	return "Keep your chest up."
}

const (
	userID  = int64(42)
	adminID = int64(7)
)

type harness struct {
	bot    *Bot
	sender *fakeSender
	coach  *fakeCoach
	kv     storage.KV
}

func newHarness(t *testing.T, cfg *config.Config, metricsStore *metrics.Store) *harness {
	t.Helper()
	kv, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	if cfg == nil {
		cfg = config.Defaults()
	}
	sender := &fakeSender{}
	coach := &fakeCoach{}
	return &harness{
		bot:    newBot(sender, cfg, coach, kv, metricsStore, nil),
		sender: sender,
		coach:  coach,
		kv:     kv,
	}
}

func (h *harness) command(from int64, text string) {
	cmd, _, _ := strings.Cut(text, " ")
	h.bot.handleUpdate(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{
		From:     &tgbotapi.User{ID: from},
		Chat:     &tgbotapi.Chat{ID: from},
		Text:     text,
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}},
	}})
}

func (h *harness) text(from int64, text string) {
	h.bot.handleUpdate(context.Background(), tgbotapi.Update{Message: &tgbotapi.Message{
		From: &tgbotapi.User{ID: from},
		Chat: &tgbotapi.Chat{ID: from},
		Text: text,
	}})
}

func (h *harness) press(from int64, data string) {
	h.bot.handleUpdate(context.Background(), tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    &tgbotapi.User{ID: from},
		Message: &tgbotapi.Message{MessageID: 100, Chat: &tgbotapi.Chat{ID: from}},
		Data:    data,
	}})
}

func saveProfile(t *testing.T, kv storage.KV, owner int64) {
	t.Helper()
	p := profile.Default()
	p.Name = "Robin"
	p.Goals = []profile.Goal{profile.GoalEndurance}
	require.NoError(t, profile.NewOwnerStore(kv, strconv.FormatInt(owner, 10)).Save(context.Background(), p))
}

func TestWizardFlow(t *testing.T) {
	h := newHarness(t, nil, nil)

	h.command(userID, "/start")
	assert.Contains(t, h.sender.last(), "Step 1 of 3: Personal Info")

	h.press(userID, "wz|field|name")
	assert.Contains(t, h.sender.last(), "What's your name?")
	h.text(userID, "Robin")
	assert.Contains(t, h.sender.last(), "Name: Robin")

	h.press(userID, "wz|field|age")
	h.text(userID, "abc")
	assert.Equal(t, "Please send a whole number greater than 0.", h.sender.last())
	h.text(userID, "34")
	assert.Contains(t, h.sender.last(), "Age: 34")

	h.press(userID, "wz|gender|Other")
	assert.Contains(t, h.sender.last(), "Gender: Other")

	h.press(userID, "wz|next")
	assert.Contains(t, h.sender.last(), "Step 2 of 3: Fitness Goals")
	h.press(userID, "wz|level|Advanced")
	h.press(userID, "wz|goal|Muscle Gain")
	assert.Contains(t, h.sender.last(), "Goals: Muscle Gain")

	h.press(userID, "wz|next")
	h.press(userID, "wz|diet|Vegan")
	h.press(userID, "wz|field|health")
	h.text(userID, "none")
	assert.Contains(t, h.sender.last(), "Dietary preferences: Vegan")
	assert.Contains(t, h.sender.last(), "Health conditions: None")

	h.press(userID, "wz|submit")

	p, err := profile.NewOwnerStore(h.kv, "42").Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Robin", p.Name)
	assert.Equal(t, 34, p.Age)
	assert.Equal(t, profile.GenderOther, p.Gender)
	assert.Equal(t, profile.LevelAdvanced, p.FitnessLevel)
	assert.Equal(t, []profile.Goal{profile.GoalMuscleGain}, p.Goals)
	assert.Equal(t, []profile.DietaryPreference{profile.DietVegan}, p.DietaryPreferences)

	texts := strings.Join(h.sender.texts(), "\n")
	assert.Contains(t, texts, "Profile saved, Robin!")
	assert.Contains(t, texts, "Today's Workout: Full Body")
	assert.Contains(t, texts, "Meal Plan")

	// The wizard is gone once submitted.
	h.press(userID, "wz|next")
	h.sender.mu.Lock()
	last := h.sender.requests[len(h.sender.requests)-1].(tgbotapi.CallbackConfig)
	h.sender.mu.Unlock()
	assert.Equal(t, expiredSetupText, last.Text)
}

func TestWizardSubmitRequiresNameAndGoal(t *testing.T) {
	h := newHarness(t, nil, nil)
	h.command(userID, "/start")
	h.press(userID, "wz|next")
	h.press(userID, "wz|next")
	h.sender.reset()

	h.press(userID, "wz|submit")

	require.Len(t, h.sender.requests, 1)
	cb := h.sender.requests[0].(tgbotapi.CallbackConfig)
	assert.Equal(t, "Please fill in your name and select at least one goal.", cb.Text)
	assert.True(t, cb.ShowAlert)
	assert.Empty(t, h.sender.sent)

	p, err := profile.NewOwnerStore(h.kv, "42").Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestStart_ExistingProfile(t *testing.T) {
	h := newHarness(t, nil, nil)
	saveProfile(t, h.kv, userID)

	h.command(userID, "/start")
	assert.Contains(t, h.sender.last(), "Welcome back, *Robin*!")
}

func TestPlanAndMood(t *testing.T) {
	h := newHarness(t, nil, nil)

	h.command(userID, "/plan")
	assert.Equal(t, "You don't have a profile yet. Send /start to create one.", h.sender.last())

	saveProfile(t, h.kv, userID)
	h.sender.reset()
	h.command(userID, "/plan")
	texts := h.sender.texts()
	require.Len(t, texts, 3)
	assert.Contains(t, texts[0], "Thinking")
	assert.Contains(t, texts[1], "Today's Workout: Full Body")
	assert.Contains(t, texts[2], "target 2000 kcal")

	h.press(userID, "mood|Tired")
	assert.Contains(t, h.sender.last(), "Today's Workout: Tired Session")

	// The chosen mood carries over to the next plan.
	h.command(userID, "/plan")
	assert.Equal(t, []string{"Tired", "Tired"}, h.coach.moods)
}

func TestPosture(t *testing.T) {
	h := newHarness(t, nil, nil)

	h.command(userID, "/posture")
	assert.Contains(t, h.sender.last(), "Form check: Squat")
	assert.Contains(t, h.sender.last(), "Keep your chest up.")

	h.command(userID, "/posture Romanian Deadlift")
	assert.Contains(t, h.sender.last(), "Form check: Romanian Deadlift")

	saveProfile(t, h.kv, userID)
	h.command(userID, "/plan")
	h.command(userID, "/posture")
	assert.Equal(t, []string{"Squat", "Romanian Deadlift", "Goblet Squat"}, h.coach.exercises)
}

func TestProgressAndReset(t *testing.T) {
	h := newHarness(t, nil, nil)

	h.command(userID, "/progress")
	assert.Contains(t, h.sender.last(), "Week 6")

	saveProfile(t, h.kv, userID)
	h.command(userID, "/reset")
	assert.Contains(t, h.sender.last(), "profile has been reset")
	p, err := profile.NewOwnerStore(h.kv, "42").Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestUnauthorizedUserIgnored(t *testing.T) {
	cfg := config.Defaults()
	cfg.TelegramAllowedUserIDs = []int64{adminID}
	h := newHarness(t, cfg, nil)

	h.command(userID, "/start")
	h.press(userID, "mood|Tired")
	assert.Empty(t, h.sender.texts())
	assert.Empty(t, h.sender.requests)
}

func TestMetricsCommand(t *testing.T) {
	db, err := database.NewDB(filepath.Join(t.TempDir(), "coach.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	store := metrics.NewStore(db.SQL)
	require.NoError(t, store.RecordMeta(shared.AgentMeta{
		AgentName: shared.AgentWorkoutPlanner,
		Usage:     shared.TokenUsage{PromptTokens: 10, CompletionTokens: 5},
		Succeeded: true,
	}))

	cfg := config.Defaults()
	cfg.AdminTelegramID = adminID
	h := newHarness(t, cfg, store)

	h.command(userID, "/metrics")
	assert.Equal(t, "⛔ *Access Denied*: Admin only.", h.sender.last())

	h.command(adminID, "/metrics")
	assert.Contains(t, h.sender.last(), "Usage & Health Report")
	assert.Contains(t, h.sender.last(), "15 tokens (1 calls, 0 failed)")
}

func TestUnknownTextShowsHelp(t *testing.T) {
	h := newHarness(t, nil, nil)
	h.text(userID, "hello")
	assert.Equal(t, helpText, h.sender.last())
}
