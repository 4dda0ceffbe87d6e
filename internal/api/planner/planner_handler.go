package planner

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/tripweaver/go-trip-planner/internal/api"
	"github.com/tripweaver/go-trip-planner/internal/types"
)

// SessionHeader carries the client's planning session identity. A missing or
// malformed value gets a fresh session, echoed back in the response header.
const SessionHeader = "X-Session-ID"

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

// GenerateItinerary handles POST /api/v1/itinerary.
func (h *Handler) GenerateItinerary(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("PlannerHandler").Start(r.Context(), "GenerateItinerary", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/itinerary"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GenerateItinerary"))

	sessionID := sessionFromRequest(r)
	w.Header().Set(SessionHeader, sessionID)
	span.SetAttributes(attribute.String("app.session.id", sessionID))
	l = l.With(slog.String("sessionID", sessionID))

	var query types.TripQuery
	if err := api.DecodeJSONBody(w, r, &query); err != nil {
		l.ErrorContext(ctx, "Invalid trip query payload", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid request body")
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	l.InfoContext(ctx, "Processing itinerary request")

	result, err := h.service.GenerateItinerary(ctx, sessionID, query)
	if err != nil {
		l.ErrorContext(ctx, "Service failed to generate itinerary", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Service error")
		api.ErrorResponse(w, r, http.StatusInternalServerError, fmt.Sprintf("Failed to generate itinerary: %s", err.Error()))
		return
	}

	l.InfoContext(ctx, "Itinerary settled",
		slog.String("status", string(result.Status)),
		slog.Int("day_count", len(result.Itinerary.Days)))
	span.SetAttributes(attribute.String("app.itinerary.status", string(result.Status)))
	span.SetStatus(codes.Ok, "Itinerary settled")
	api.WriteJSONResponse(w, r, http.StatusOK, result)
}

// GetStatus handles GET /api/v1/itinerary/status.
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionFromRequest(r)
	w.Header().Set(SessionHeader, sessionID)
	api.WriteJSONResponse(w, r, http.StatusOK, h.service.Status(sessionID))
}

func sessionFromRequest(r *http.Request) string {
	if raw := r.Header.Get(SessionHeader); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			return id.String()
		}
	}
	return uuid.New().String()
}
