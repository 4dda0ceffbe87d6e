package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"github.com/tripweaver/go-trip-planner/app/observability/metrics"
	generativeAI "github.com/tripweaver/go-trip-planner/internal/api/generative_ai"
	"github.com/tripweaver/go-trip-planner/internal/retry"
	"github.com/tripweaver/go-trip-planner/internal/types"
)

// chatFallbackMessage is appended verbatim when the provider's reply cannot be
// obtained or carries no usable text.
const chatFallbackMessage = "Sorry, I couldn't process that. Please try again."

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

// Service defines the business logic contract for the chat assistant.
type Service interface {
	SendMessage(ctx context.Context, sessionID *uuid.UUID, message string) (*types.ChatResponse, error)
	GetTranscript(ctx context.Context, sessionID uuid.UUID) (*types.ChatTranscript, error)
}

type ServiceImpl struct {
	logger      *slog.Logger
	aiClient    generativeAI.Generator
	caller      *retry.Caller
	store       *SessionStore
	windowTurns int
	temperature float32
}

func NewService(aiClient generativeAI.Generator, caller *retry.Caller, sessionTTL time.Duration, windowTurns int, temperature float32, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:      logger,
		aiClient:    aiClient,
		caller:      caller,
		store:       NewSessionStore(sessionTTL),
		windowTurns: windowTurns,
		temperature: temperature,
	}
}

// SendMessage appends the user's message to the transcript, dispatches the
// provider call, and appends the assistant's reply (or the fixed apology) at
// settle. Empty or whitespace-only input mutates nothing and makes no call.
func (s *ServiceImpl) SendMessage(ctx context.Context, sessionID *uuid.UUID, message string) (*types.ChatResponse, error) {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return nil, types.ErrEmptyMessage
	}

	sess, isNew, err := s.resolveSession(sessionID)
	if err != nil {
		return nil, err
	}
	l := s.logger.With(slog.String("sessionID", sess.id.String()))

	// The user's turn joins the transcript before dispatch, so the outbound
	// request always includes it.
	window := sess.appendUser(trimmed, s.windowTurns)
	metrics.Get().ChatMessagesTotal.Add(ctx, 1)

	// Settle must run on every exit path: the typing flag clears and the reply
	// is appended exactly once, degrading to the apology if the call blew up.
	reply := types.ChatMessage{Role: types.RoleAssistant, Content: chatFallbackMessage}
	defer func() {
		sess.settle(reply)
		metrics.Get().ChatMessagesTotal.Add(ctx, 1)
	}()

	reply.Content = s.requestReply(ctx, l, window)
	return &types.ChatResponse{
		SessionID:    sess.id,
		Message:      reply,
		IsNewSession: isNew,
	}, nil
}

// GetTranscript returns the full local history; it is never truncated.
func (s *ServiceImpl) GetTranscript(_ context.Context, sessionID uuid.UUID) (*types.ChatTranscript, error) {
	sess, found := s.store.Get(sessionID)
	if !found {
		return nil, fmt.Errorf("session %s: %w", sessionID, types.ErrSessionNotFound)
	}
	return sess.transcript(), nil
}

func (s *ServiceImpl) resolveSession(sessionID *uuid.UUID) (*session, bool, error) {
	if sessionID == nil {
		return s.store.Create(), true, nil
	}
	sess, found := s.store.Get(*sessionID)
	if !found {
		return nil, false, fmt.Errorf("session %s: %w", *sessionID, types.ErrSessionNotFound)
	}
	return sess, false, nil
}

// requestReply calls the provider with retry and interprets the envelope. All
// failure modes degrade to the fixed fallback string; nothing raises past here.
func (s *ServiceImpl) requestReply(ctx context.Context, l *slog.Logger, window []types.ChatMessage) string {
	contents := buildChatContents(window)
	config := s.chatConfig()

	resp, err := retry.Call(ctx, s.caller, func(ctx context.Context) (*genai.GenerateContentResponse, error) {
		start := time.Now()
		resp, callErr := s.aiClient.GenerateContent(ctx, contents, config)
		metrics.Get().ProviderCallDurationSeconds.Record(ctx, time.Since(start).Seconds())
		if callErr != nil {
			metrics.Get().ProviderCallRetriesTotal.Add(ctx, 1)
			return nil, fmt.Errorf("provider call failed: %w", callErr)
		}
		return resp, nil
	})
	if err != nil {
		metrics.Get().PipelineFallbacksTotal.Add(ctx, 1)
		l.ErrorContext(ctx, "Chat generation failed, settling with fallback", slog.Any("error", err))
		return chatFallbackMessage
	}
	return interpretChatResponse(resp)
}

// interpretChatResponse extracts the first candidate/part text. Absence at any
// level returns the fallback string without raising; this path never retries.
func interpretChatResponse(resp *genai.GenerateContentResponse) string {
	if txt := generativeAI.CandidateText(resp); txt != "" {
		return strings.TrimSpace(txt)
	}
	return chatFallbackMessage
}

func (s *ServiceImpl) chatConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](s.temperature),
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: chatSystemPrompt}},
		},
	}
}
