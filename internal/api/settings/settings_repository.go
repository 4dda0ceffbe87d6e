package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/tripweaver/go-trip-planner/internal/types"
)

// Repository persists the display preference, the application's only durable
// state.
type Repository interface {
	Load(ctx context.Context) (types.ThemePreference, error)
	Save(ctx context.Context, pref types.ThemePreference) error
}

// Ensure implementation satisfies the interface
var _ Repository = (*FileRepository)(nil)

// FileRepository stores the preference as a small JSON file next to the app.
type FileRepository struct {
	path   string
	logger *slog.Logger
	mu     sync.Mutex
}

func NewFileRepository(path string, logger *slog.Logger) *FileRepository {
	return &FileRepository{
		path:   path,
		logger: logger,
	}
}

// Load reads the stored preference. A missing file means the user never
// toggled; the light default applies.
func (r *FileRepository) Load(ctx context.Context) (types.ThemePreference, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.logger.DebugContext(ctx, "No stored theme preference, using default")
			return types.ThemePreference{Theme: types.ThemeLight}, nil
		}
		return types.ThemePreference{}, fmt.Errorf("failed to read settings file: %w", err)
	}

	var pref types.ThemePreference
	if err := json.Unmarshal(data, &pref); err != nil {
		return types.ThemePreference{}, fmt.Errorf("failed to parse settings file: %w", err)
	}
	return pref, nil
}

func (r *FileRepository) Save(ctx context.Context, pref types.ThemePreference) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	data, err := json.Marshal(pref)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	r.logger.DebugContext(ctx, "Saved theme preference", slog.String("theme", string(pref.Theme)))
	return nil
}
