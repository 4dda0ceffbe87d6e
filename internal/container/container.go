package container

import (
	"context"
	"log/slog"

	"github.com/tripweaver/go-trip-planner/config"
	"github.com/tripweaver/go-trip-planner/internal/api/assistant"
	generativeAI "github.com/tripweaver/go-trip-planner/internal/api/generative_ai"
	"github.com/tripweaver/go-trip-planner/internal/api/planner"
	"github.com/tripweaver/go-trip-planner/internal/api/settings"
	"github.com/tripweaver/go-trip-planner/internal/retry"
)

// Container holds all application dependencies
type Container struct {
	Config           *config.Config
	Logger           *slog.Logger
	PlannerHandler   *planner.Handler
	AssistantHandler *assistant.Handler
	SettingsHandler  *settings.Handler
}

// NewContainer initializes and returns a new dependency container
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	aiClient, err := generativeAI.NewAIClient(ctx, cfg.Gemini.Model)
	if err != nil {
		logger.Error("Failed to create AI client", slog.Any("error", err))
		return nil, err
	}

	caller := retry.NewCaller(logger,
		retry.WithMaxRetries(cfg.Retry.MaxRetries),
		retry.WithBaseDelay(cfg.Retry.BaseDelay),
	)

	plannerService := planner.NewService(aiClient, caller, cfg.Gemini.Temperature, logger)
	plannerHandler := planner.NewHandler(plannerService, logger)

	assistantService := assistant.NewService(aiClient, caller,
		cfg.Assistant.SessionTTL, cfg.Assistant.WindowTurns, cfg.Gemini.Temperature, logger)
	assistantHandler := assistant.NewHandler(assistantService, logger)

	settingsRepo := settings.NewFileRepository(cfg.Settings.FilePath, logger)
	settingsService := settings.NewService(settingsRepo, logger)
	settingsHandler := settings.NewHandler(settingsService, logger)

	return &Container{
		Config:           cfg,
		Logger:           logger,
		PlannerHandler:   plannerHandler,
		AssistantHandler: assistantHandler,
		SettingsHandler:  settingsHandler,
	}, nil
}
