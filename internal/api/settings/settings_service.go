package settings

import (
	"context"
	"log/slog"

	"github.com/tripweaver/go-trip-planner/internal/types"
)

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

// Service defines the business logic contract for user display settings.
type Service interface {
	GetTheme(ctx context.Context) (types.ThemePreference, error)
	SetTheme(ctx context.Context, theme types.Theme) (types.ThemePreference, error)
}

type ServiceImpl struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		repo:   repo,
		logger: logger,
	}
}

func (s *ServiceImpl) GetTheme(ctx context.Context) (types.ThemePreference, error) {
	return s.repo.Load(ctx)
}

func (s *ServiceImpl) SetTheme(ctx context.Context, theme types.Theme) (types.ThemePreference, error) {
	if err := theme.Validate(); err != nil {
		return types.ThemePreference{}, err
	}
	pref := types.ThemePreference{Theme: theme}
	if err := s.repo.Save(ctx, pref); err != nil {
		return types.ThemePreference{}, err
	}
	return pref, nil
}
