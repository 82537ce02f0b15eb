package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ProviderGemini = "gemini"
	ProviderGroq   = "groq"

	ProfileStoreSQLite = "sqlite"
	ProfileStoreFile   = "file"

	DefaultGeminiModel  = "gemini-2.5-flash-preview-04-17"
	DefaultDatabasePath = "data/fitness-coach.db"
	DefaultProfileDir   = "data/profiles"
	DefaultCameraDevice = "/dev/video0"
	DefaultPort         = "8080"
)

// Config holds the configuration for the application.
type Config struct {
	AppEnv string `yaml:"app_env"`

	LLMProvider  string `yaml:"llm_provider"`
	GeminiAPIKey string `yaml:"-"`
	GeminiModel  string `yaml:"gemini_model"`
	GroqAPIKey   string `yaml:"-"`

	DatabasePath string `yaml:"database_path"`
	ProfileStore string `yaml:"profile_store"`
	ProfileDir   string `yaml:"profile_dir"`
	CameraDevice string `yaml:"camera_device"`

	// Telegram Config
	TelegramBotToken       string  `yaml:"-"`
	TelegramWebhookURL     string  `yaml:"telegram_webhook_url"`
	TelegramAllowedUserIDs []int64 `yaml:"telegram_allowed_user_ids"`
	AdminTelegramID        int64   `yaml:"admin_telegram_id"`

	// HTTP API Config
	Port               string   `yaml:"port"`
	APIJWTSecret       string   `yaml:"-"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
}

// Defaults returns a Config populated with the built-in defaults.
func Defaults() *Config {
	return &Config{
		AppEnv:             "production",
		LLMProvider:        ProviderGemini,
		GeminiModel:        DefaultGeminiModel,
		DatabasePath:       DefaultDatabasePath,
		ProfileStore:       ProfileStoreSQLite,
		ProfileDir:         DefaultProfileDir,
		CameraDevice:       DefaultCameraDevice,
		Port:               DefaultPort,
		CORSAllowedOrigins: []string{"*"},
	}
}

// NewFromEnv creates a new Config object from environment variables.
// A .env file in the working directory is loaded first when present, and the
// YAML file named by FITNESS_COACH_CONFIG is applied before the environment.
func NewFromEnv() (*Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()
	if path := os.Getenv("FITNESS_COACH_CONFIG"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	cfg.AppEnv = normalizeEnv(getEnv("APP_ENV", cfg.AppEnv))
	cfg.LLMProvider = strings.ToLower(getEnv("LLM_PROVIDER", cfg.LLMProvider))
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.GeminiModel = getEnv("GEMINI_MODEL", cfg.GeminiModel)
	cfg.GroqAPIKey = os.Getenv("GROQ_API_KEY")

	switch cfg.LLMProvider {
	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
		}
	case ProviderGroq:
		if cfg.GroqAPIKey == "" {
			return nil, fmt.Errorf("GROQ_API_KEY environment variable not set")
		}
	default:
		return nil, fmt.Errorf("unsupported LLM_PROVIDER %q", cfg.LLMProvider)
	}

	cfg.DatabasePath = getEnv("DATABASE_PATH", cfg.DatabasePath)
	cfg.ProfileStore = strings.ToLower(getEnv("PROFILE_STORE", cfg.ProfileStore))
	if cfg.ProfileStore != ProfileStoreSQLite && cfg.ProfileStore != ProfileStoreFile {
		return nil, fmt.Errorf("unsupported PROFILE_STORE %q", cfg.ProfileStore)
	}
	cfg.ProfileDir = getEnv("PROFILE_DIR", cfg.ProfileDir)
	cfg.CameraDevice = getEnv("CAMERA_DEVICE", cfg.CameraDevice)

	// Telegram Config (Optional for CLI, required for Bot)
	cfg.TelegramBotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	cfg.TelegramWebhookURL = getEnv("TELEGRAM_WEBHOOK_URL", cfg.TelegramWebhookURL)
	if raw := os.Getenv("TELEGRAM_ALLOWED_USER_IDS"); raw != "" {
		ids, err := parseIDs(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_ALLOWED_USER_IDS: %w", err)
		}
		cfg.TelegramAllowedUserIDs = ids
	}
	if raw := os.Getenv("ADMIN_TELEGRAM_ID"); raw != "" {
		id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_ID: %w", err)
		}
		cfg.AdminTelegramID = id
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.APIJWTSecret = os.Getenv("API_JWT_SECRET")
	if raw := os.Getenv("CORS_ALLOWED_ORIGINS"); raw != "" {
		cfg.CORSAllowedOrigins = splitList(raw)
	}

	return cfg, nil
}

// IsDevelopment reports whether the app runs with development settings.
func (c *Config) IsDevelopment() bool {
	return c != nil && c.AppEnv == "development"
}

// IsAllowedTelegramUser reports whether the Telegram user may talk to the bot.
// An empty allow list admits everyone.
func (c *Config) IsAllowedTelegramUser(id int64) bool {
	if len(c.TelegramAllowedUserIDs) == 0 {
		return true
	}
	for _, allowed := range c.TelegramAllowedUserIDs {
		if allowed == id {
			return true
		}
	}
	return false
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func parseIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range splitList(raw) {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func normalizeEnv(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "dev", "develop", "development", "local":
		return "development"
	case "prod", "production":
		return "production"
	case "test", "testing":
		return "test"
	default:
		return strings.ToLower(strings.TrimSpace(value))
	}
}
