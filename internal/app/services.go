package app

import (
	"context"
	"errors"
	"fmt"

	"ai-fitness-coach/internal/config"
	"ai-fitness-coach/internal/database"
	"ai-fitness-coach/internal/llm"
	"ai-fitness-coach/internal/metrics"
	"ai-fitness-coach/internal/planner"
	"ai-fitness-coach/internal/storage"

	"go.uber.org/zap"
)

// Services are the long-lived dependencies shared by the CLI and the bot.
type Services struct {
	DB      *database.DB
	KV      storage.KV
	LLM     llm.Client
	Metrics *metrics.Store
	Planner *planner.Planner
}

// NewServices opens the database, the profile store and the AI client
// described by cfg.
func NewServices(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Services, error) {
	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	var kv storage.KV
	switch cfg.ProfileStore {
	case config.ProfileStoreFile:
		kv, err = storage.NewFileStore(cfg.ProfileDir)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize profile storage: %w", err)
		}
	default:
		kv = storage.NewSQLiteStore(db.SQL)
	}

	client, err := llm.NewClient(ctx, cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create AI client: %w", err)
	}

	metricsStore := metrics.NewStore(db.SQL)
	return &Services{
		DB:      db,
		KV:      kv,
		LLM:     client,
		Metrics: metricsStore,
		Planner: planner.NewPlanner(client, metricsStore, logger),
	}, nil
}

// Close releases the AI client and the database.
func (s *Services) Close() error {
	return errors.Join(s.LLM.Close(), s.DB.Close())
}
