package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"ai-fitness-coach/internal/config"
	"ai-fitness-coach/internal/dashboard"
	"ai-fitness-coach/internal/logging"
	"ai-fitness-coach/internal/metrics"
	"ai-fitness-coach/internal/planner"
	"ai-fitness-coach/internal/profile"
	"ai-fitness-coach/internal/progress"
	"ai-fitness-coach/internal/storage"
	"ai-fitness-coach/internal/wizard"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// requestTimeout bounds the handling of one update, AI calls included.
const requestTimeout = 2 * time.Minute

// Coach is what the bot needs from the AI pipelines. *planner.Planner
// satisfies it.
type Coach interface {
	dashboard.PlanSource
	AnalyzePosture(ctx context.Context, exerciseName string) string
}

// Sender is the part of *tgbotapi.BotAPI the bot talks to.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// userState is the transient per-chat state. It is lost on restart, which
// only affects a wizard left half-way.
type userState struct {
	mu           sync.Mutex
	wizard       *wizard.Wizard
	pending      string // wizard text field awaiting a reply
	mood         *planner.Mood
	lastExercise string
}

// Bot wraps the Telegram API around the profile store and the coach.
type Bot struct {
	api          Sender
	coach        Coach
	kv           storage.KV
	metricsStore *metrics.Store
	cfg          *config.Config
	logger       *zap.Logger

	mu    sync.Mutex
	users map[int64]*userState
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, coach Coach, kv storage.KV, metricsStore *metrics.Store, logger *zap.Logger) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}
	logger = logging.OrNop(logger)
	logger.Info("authorized on telegram", zap.String("account", bot.Self.UserName))

	webhookURL := cfg.TelegramWebhookURL
	wh, err := tgbotapi.NewWebhook(webhookURL)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook url %s: %w", webhookURL, err)
	}
	resp, err := bot.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", webhookURL, err)
	}
	logger.Info("webhook set", zap.String("description", resp.Description))

	return newBot(bot, cfg, coach, kv, metricsStore, logger), nil
}

func newBot(api Sender, cfg *config.Config, coach Coach, kv storage.KV, metricsStore *metrics.Store, logger *zap.Logger) *Bot {
	return &Bot{
		api:          api,
		coach:        coach,
		kv:           kv,
		metricsStore: metricsStore,
		cfg:          cfg,
		logger:       logging.OrNop(logger),
		users:        make(map[int64]*userState),
	}
}

// RegisterHandlers mounts the webhook on r.
func (b *Bot) RegisterHandlers(r *mux.Router) {
	r.HandleFunc("/webhook", b.handleWebhook).Methods(http.MethodPost)
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		b.logger.Warn("error parsing update", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusOK)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		b.handleUpdate(ctx, update)
	}()
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	var from *tgbotapi.User
	switch {
	case update.CallbackQuery != nil:
		from = update.CallbackQuery.From
	case update.Message != nil:
		from = update.Message.From
	}
	if from == nil {
		return
	}
	if !b.cfg.IsAllowedTelegramUser(from.ID) {
		b.logger.Warn("unauthorized access attempt",
			zap.Int64("user_id", from.ID), zap.String("username", from.UserName))
		return
	}

	if update.CallbackQuery != nil {
		b.handleCallbackQuery(ctx, update.CallbackQuery)
		return
	}
	b.processMessage(ctx, update.Message)
}

func (b *Bot) processMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.Chat == nil {
		return
	}
	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			b.handleStart(ctx, msg)
		case "plan":
			b.handlePlan(ctx, msg)
		case "mood":
			b.sendMarkdown(msg.Chat.ID, "🙂 *How are you feeling today?*", moodKeyboard())
		case "posture":
			b.handlePosture(ctx, msg)
		case "progress":
			b.sendMarkdown(msg.Chat.ID, formatProgressMarkdown(progress.Sample()), nil)
		case "reset":
			b.handleReset(ctx, msg)
		case "metrics":
			b.handleMetricsRequest(msg)
		default:
			b.sendMarkdown(msg.Chat.ID, helpText, nil)
		}
		return
	}

	if b.handleWizardInput(msg) {
		return
	}
	b.sendMarkdown(msg.Chat.ID, helpText, nil)
}

func (b *Bot) handleCallbackQuery(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if query.Message == nil || query.Message.Chat == nil {
		return
	}
	action, value, _ := strings.Cut(query.Data, "|")
	switch action {
	case "wz":
		b.handleWizardCallback(ctx, query, value)
	case "mood":
		b.answer(query.ID, "")
		mood, err := planner.ParseMood(value)
		if err != nil {
			return
		}
		b.handleMood(ctx, query.From.ID, query.Message.Chat.ID, mood)
	default:
		b.answer(query.ID, "")
	}
}

func (b *Bot) state(userID int64) *userState {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.users[userID]
	if !ok {
		s = &userState{}
		b.users[userID] = s
	}
	return s
}

func (b *Bot) store(userID int64) *profile.Store {
	return profile.NewOwnerStore(b.kv, strconv.FormatInt(userID, 10))
}

// loadProfile tells the user how to proceed and returns nil when there is
// no usable profile.
func (b *Bot) loadProfile(ctx context.Context, userID, chatID int64) *profile.UserProfile {
	p, err := b.store(userID).Load(ctx)
	if err != nil {
		b.logger.Error("failed to load profile", zap.Int64("user_id", userID), zap.Error(err))
		b.sendMarkdown(chatID, "❌ Could not read your profile. Send /reset and then /start to set it up again.", nil)
		return nil
	}
	if p == nil {
		b.sendMarkdown(chatID, "You don't have a profile yet. Send /start to create one.", nil)
		return nil
	}
	return p
}

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	p, err := b.store(msg.From.ID).Load(ctx)
	if err != nil {
		b.logger.Warn("ignoring unreadable profile", zap.Int64("user_id", msg.From.ID), zap.Error(err))
	}
	if p != nil {
		b.sendMarkdown(msg.Chat.ID, fmt.Sprintf("👋 Welcome back, *%s*!\n\n%s", escapeMarkdown(p.Name), helpText), nil)
		return
	}

	s := b.state(msg.From.ID)
	s.mu.Lock()
	s.wizard = wizard.New()
	s.pending = ""
	text, keyboard := renderWizard(s.wizard)
	s.mu.Unlock()

	b.sendMarkdown(msg.Chat.ID, "💪 *Welcome to your AI Fitness Coach!*\nLet's set up your profile.", nil)
	b.sendMarkdown(msg.Chat.ID, text, &keyboard)
}

func (b *Bot) handlePlan(ctx context.Context, msg *tgbotapi.Message) {
	p := b.loadProfile(ctx, msg.From.ID, msg.Chat.ID)
	if p == nil {
		return
	}
	b.generatePlans(ctx, msg.From.ID, msg.Chat.ID, *p)
}

// generatePlans sends a status message, then both plans once ready.
func (b *Bot) generatePlans(ctx context.Context, userID, chatID int64, p profile.UserProfile) {
	sent, err := b.api.Send(markdownMessage(chatID, "🏋️ *Thinking...*\n(Building your workout and meal plan)", nil))
	if err != nil {
		b.logger.Error("failed to send initial reply", zap.Error(err))
		return
	}

	s := b.state(userID)
	d := dashboard.New(b.coach, p, b.logger)
	s.mu.Lock()
	if s.mood != nil {
		d.PresetMood(*s.mood)
	}
	s.mu.Unlock()

	b.logger.Info("generating plans", zap.Int64("user_id", userID))
	if err := d.Load(ctx); err != nil {
		b.logger.Error("error generating plans", zap.Error(err))
	}
	st := d.Snapshot()
	b.rememberExercise(userID, d.SelectedExercise())

	edit := tgbotapi.NewEditMessageText(chatID, sent.MessageID, formatWorkoutMarkdown(st.Workout))
	edit.ParseMode = tgbotapi.ModeMarkdown
	edit.ReplyMarkup = moodKeyboard()
	b.send(edit)
	b.sendMarkdown(chatID, formatMealMarkdown(st.Meal), nil)
}

func (b *Bot) handleMood(ctx context.Context, userID, chatID int64, mood planner.Mood) {
	s := b.state(userID)
	s.mu.Lock()
	s.mood = &mood
	s.mu.Unlock()

	p := b.loadProfile(ctx, userID, chatID)
	if p == nil {
		return
	}

	sent, err := b.api.Send(markdownMessage(chatID,
		fmt.Sprintf("🔄 Feeling *%s*. Adjusting your workout...", mood), nil))
	if err != nil {
		b.logger.Error("failed to send mood reply", zap.Error(err))
		return
	}

	d := dashboard.New(b.coach, *p, b.logger)
	d.SelectMood(ctx, mood)
	b.rememberExercise(userID, d.SelectedExercise())

	edit := tgbotapi.NewEditMessageText(chatID, sent.MessageID, formatWorkoutMarkdown(d.Snapshot().Workout))
	edit.ParseMode = tgbotapi.ModeMarkdown
	edit.ReplyMarkup = moodKeyboard()
	b.send(edit)
}

func (b *Bot) rememberExercise(userID int64, exercise string) {
	s := b.state(userID)
	s.mu.Lock()
	s.lastExercise = exercise
	s.mu.Unlock()
}

func (b *Bot) handlePosture(ctx context.Context, msg *tgbotapi.Message) {
	exercise := strings.TrimSpace(msg.CommandArguments())
	if exercise == "" {
		s := b.state(msg.From.ID)
		s.mu.Lock()
		exercise = s.lastExercise
		s.mu.Unlock()
	}
	if exercise == "" {
		exercise = dashboard.DefaultExercise
	}

	feedback := b.coach.AnalyzePosture(ctx, exercise)
	b.sendMarkdown(msg.Chat.ID, formatPostureMarkdown(exercise, feedback), nil)
}

func (b *Bot) handleReset(ctx context.Context, msg *tgbotapi.Message) {
	if err := b.store(msg.From.ID).Reset(ctx); err != nil {
		b.logger.Error("failed to reset profile", zap.Int64("user_id", msg.From.ID), zap.Error(err))
		b.sendMarkdown(msg.Chat.ID, "❌ Could not reset your profile. Please try again.", nil)
		return
	}
	b.mu.Lock()
	delete(b.users, msg.From.ID)
	b.mu.Unlock()
	b.sendMarkdown(msg.Chat.ID, "🗑 Your profile has been reset. Send /start to set it up again.", nil)
}

func (b *Bot) handleMetricsRequest(msg *tgbotapi.Message) {
	if b.cfg.AdminTelegramID == 0 || msg.From.ID != b.cfg.AdminTelegramID {
		b.sendMarkdown(msg.Chat.ID, "⛔ *Access Denied*: Admin only.", nil)
		return
	}
	if b.metricsStore == nil {
		b.sendMarkdown(msg.Chat.ID, "📊 Metrics are not enabled.", nil)
		return
	}
	usage, err := b.metricsStore.GetDailyUsage(7)
	if err != nil {
		b.logger.Error("error fetching metrics", zap.Error(err))
		b.sendMarkdown(msg.Chat.ID, "❌ Error fetching metrics.", nil)
		return
	}
	b.sendMarkdown(msg.Chat.ID, formatMetricsMarkdown(usage, metrics.GetSysHealth(b.cfg.DatabasePath, b.cfg.ProfileDir)), nil)
}

func (b *Bot) answer(queryID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(queryID, text)); err != nil {
		b.logger.Warn("failed to answer callback", zap.Error(err))
	}
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		b.logger.Error("failed to send message", zap.Error(err))
	}
}

func (b *Bot) sendMarkdown(chatID int64, text string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	b.send(markdownMessage(chatID, text, keyboard))
}

func markdownMessage(chatID int64, text string, keyboard *tgbotapi.InlineKeyboardMarkup) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if keyboard != nil {
		msg.ReplyMarkup = *keyboard
	}
	return msg
}
