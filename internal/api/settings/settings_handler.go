package settings

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/tripweaver/go-trip-planner/internal/api"
	"github.com/tripweaver/go-trip-planner/internal/types"
)

type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// GetTheme handles GET /api/v1/settings/theme.
func (h *Handler) GetTheme(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	pref, err := h.service.GetTheme(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to load theme preference", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to load theme preference.")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, pref)
}

// SetTheme handles PUT /api/v1/settings/theme.
func (h *Handler) SetTheme(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var pref types.ThemePreference
	if err := api.DecodeJSONBody(w, r, &pref); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	saved, err := h.service.SetTheme(ctx, pref.Theme)
	if err != nil {
		if errors.Is(err, types.ErrInvalidTheme) {
			api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.ErrorContext(ctx, "Failed to save theme preference", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to save theme preference.")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, saved)
}
