package planner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
	"google.golang.org/genai"

	"github.com/tripweaver/go-trip-planner/app/observability/metrics"
	generativeAI "github.com/tripweaver/go-trip-planner/internal/api/generative_ai"
	"github.com/tripweaver/go-trip-planner/internal/retry"
	"github.com/tripweaver/go-trip-planner/internal/types"
)

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

// Service defines the business logic contract for itinerary planning.
type Service interface {
	GenerateItinerary(ctx context.Context, sessionID string, query types.TripQuery) (*types.ItineraryResult, error)
	Status(sessionID string) types.PipelineStatus
}

// ServiceImpl orchestrates the planning pipeline: build request, call the
// provider with retry, interpret the response, commit to session state.
type ServiceImpl struct {
	logger      *slog.Logger
	aiClient    generativeAI.Generator
	caller      *retry.Caller
	cache       *cache.Cache
	group       singleflight.Group
	temperature float32

	// mu serializes all session state mutation; completions may race but the
	// commit itself never does.
	mu     sync.Mutex
	states map[string]*pipelineState
}

// pipelineState tracks one session's submission lineage. Each submission takes
// a monotonically increasing ticket; only the latest ticket may commit, so a
// superseded completion is discarded instead of overwriting a newer result.
type pipelineState struct {
	lastIssued uint64
	busy       bool
	result     *types.ItineraryResult
}

func NewService(aiClient generativeAI.Generator, caller *retry.Caller, temperature float32, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:      logger,
		aiClient:    aiClient,
		caller:      caller,
		cache:       cache.New(10*time.Minute, 20*time.Minute),
		temperature: temperature,
		states:      make(map[string]*pipelineState),
	}
}

// GenerateItinerary runs one submission through the pipeline. It always
// resolves to a well-formed result: failures settle with the fixed fallback
// itinerary, never with an error visible to the caller as a crash.
func (s *ServiceImpl) GenerateItinerary(ctx context.Context, sessionID string, query types.TripQuery) (*types.ItineraryResult, error) {
	l := s.logger.With(slog.String("sessionID", sessionID), slog.String("destination", query.DestinationLabel))
	metrics.Get().ItineraryRequestsTotal.Add(ctx, 1)

	ticket := s.begin(sessionID)
	// The busy flag must clear on every exit path, including panics below.
	defer s.settle(sessionID, ticket)

	l.DebugContext(ctx, "Starting itinerary generation", slog.Uint64("ticket", ticket))
	result := s.generate(ctx, l, query)

	if !s.commit(sessionID, ticket, result) {
		metrics.Get().StaleCommitsTotal.Add(ctx, 1)
		l.WarnContext(ctx, "Discarding stale itinerary completion", slog.Uint64("ticket", ticket))
	}
	return result, nil
}

// Status reports the session's pipeline state: busy while the latest
// submission is in flight, plus the last committed result.
func (s *ServiceImpl) Status(sessionID string) types.PipelineStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[sessionID]
	if !ok {
		return types.PipelineStatus{}
	}
	return types.PipelineStatus{Busy: st.busy, LastResult: st.result}
}

func (s *ServiceImpl) generate(ctx context.Context, l *slog.Logger, query types.TripQuery) *types.ItineraryResult {
	key := queryFingerprint(query)
	if cached, found := s.cache.Get(key); found {
		l.DebugContext(ctx, "Itinerary cache hit", slog.String("key", key))
		return resultFor(*cached.(*types.Itinerary), types.OutcomeGenerated, "", query)
	}

	// Identical concurrent submissions share one provider call.
	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		contents := genai.Text(buildItineraryPrompt(query))
		config := s.generationConfig()

		itinerary, err := retry.Call(ctx, s.caller, func(ctx context.Context) (types.Itinerary, error) {
			start := time.Now()
			resp, callErr := s.aiClient.GenerateContent(ctx, contents, config)
			metrics.Get().ProviderCallDurationSeconds.Record(ctx, time.Since(start).Seconds())
			if callErr != nil {
				metrics.Get().ProviderCallRetriesTotal.Add(ctx, 1)
				return types.Itinerary{}, fmt.Errorf("provider call failed: %w", callErr)
			}
			return interpretItineraryResponse(resp)
		})
		if err != nil {
			return nil, err
		}
		s.cache.Set(key, &itinerary, cache.DefaultExpiration)
		return &itinerary, nil
	})
	if err != nil {
		metrics.Get().PipelineFallbacksTotal.Add(ctx, 1)
		l.ErrorContext(ctx, "Itinerary generation failed, settling with fallback", slog.Any("error", err))
		return resultFor(FallbackItinerary(), types.OutcomeFallback, err.Error(), query)
	}

	itinerary := v.(*types.Itinerary)
	l.InfoContext(ctx, "Successfully generated itinerary",
		slog.String("itinerary_destination", itinerary.Destination),
		slog.Int("day_count", len(itinerary.Days)))
	return resultFor(*itinerary, types.OutcomeGenerated, "", query)
}

func (s *ServiceImpl) generationConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](s.temperature),
		ResponseMIMEType: "application/json",
		ResponseSchema:   itineraryResponseSchema(),
	}
}

// begin issues the next ticket for the session, marks it in flight, and clears
// the previous result.
func (s *ServiceImpl) begin(sessionID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state(sessionID)
	st.lastIssued++
	st.busy = true
	st.result = nil
	return st.lastIssued
}

// settle clears the busy flag, but only for the latest ticket: a superseded
// submission settling early must not mark the newer one as done.
func (s *ServiceImpl) settle(sessionID string, ticket uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state(sessionID)
	if ticket == st.lastIssued {
		st.busy = false
	}
}

// commit stores the result if the ticket is still the latest issued. Returns
// false for stale completions.
func (s *ServiceImpl) commit(sessionID string, ticket uint64, result *types.ItineraryResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state(sessionID)
	if ticket != st.lastIssued {
		return false
	}
	st.result = result
	return true
}

// state must be called with mu held.
func (s *ServiceImpl) state(sessionID string) *pipelineState {
	st, ok := s.states[sessionID]
	if !ok {
		st = &pipelineState{}
		s.states[sessionID] = st
	}
	return st
}

func resultFor(itinerary types.Itinerary, status types.OutcomeStatus, cause string, query types.TripQuery) *types.ItineraryResult {
	total := itinerary.TotalCost()
	return &types.ItineraryResult{
		Itinerary:    itinerary,
		Status:       status,
		Cause:        cause,
		TotalCost:    total,
		BudgetStatus: types.BudgetStatusFor(total, query.BudgetAmount),
	}
}

func queryFingerprint(query types.TripQuery) string {
	return fmt.Sprintf("itinerary:%s:%s:%s:%s:%d:%s",
		query.OriginLabel, query.DestinationLabel,
		query.StartDate, query.EndDate,
		query.BudgetAmount, strings.Join(query.TravelStyles, ","))
}
