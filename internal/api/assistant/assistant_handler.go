package assistant

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

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

// SendMessage handles POST /api/v1/chat.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AssistantHandler").Start(r.Context(), "SendMessage", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/chat"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "SendMessage"))

	var req types.ChatRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Invalid chat payload", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.SendMessage(ctx, req.SessionID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrEmptyMessage):
			l.WarnContext(ctx, "Rejected empty chat message")
			api.ErrorResponse(w, r, http.StatusBadRequest, "Message must not be empty.")
		case errors.Is(err, types.ErrSessionNotFound):
			l.WarnContext(ctx, "Chat session not found", slog.Any("sessionID", req.SessionID))
			api.ErrorResponse(w, r, http.StatusNotFound, "Chat session not found or expired.")
		default:
			l.ErrorContext(ctx, "Service failed to send chat message", slog.Any("error", err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "Service error")
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to process chat message.")
		}
		return
	}

	span.SetAttributes(attribute.String("app.session.id", resp.SessionID.String()))
	span.SetStatus(codes.Ok, "Chat message settled")
	api.WriteJSONResponse(w, r, http.StatusOK, resp)
}

// GetTranscript handles GET /api/v1/chat/{sessionID}.
func (h *Handler) GetTranscript(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetTranscript"))

	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionID"))
	if err != nil {
		l.ErrorContext(ctx, "Invalid session ID format", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid session ID format in URL")
		return
	}

	transcript, err := h.service.GetTranscript(ctx, sessionID)
	if err != nil {
		if errors.Is(err, types.ErrSessionNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Chat session not found or expired.")
			return
		}
		l.ErrorContext(ctx, "Service failed to fetch transcript", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch transcript.")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, transcript)
}
