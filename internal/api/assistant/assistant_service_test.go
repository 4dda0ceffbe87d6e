package assistant

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/tripweaver/go-trip-planner/internal/retry"
	"github.com/tripweaver/go-trip-planner/internal/types"
)

// MockGenerator is a mock implementation of generativeAI.Generator
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) GenerateContent(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	args := m.Called(ctx, contents, config)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*genai.GenerateContentResponse), args.Error(1)
}

func replyResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				Content: &genai.Content{
					Parts: []*genai.Part{{Text: text}},
				},
			},
		},
	}
}

// Helper to setup service with a mock generator and a non-sleeping retry caller
func setupAssistantServiceTest(windowTurns int) (*ServiceImpl, *MockGenerator) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mockGen := new(MockGenerator)
	caller := retry.NewCaller(logger, retry.WithSleep(func(ctx context.Context, d time.Duration) error {
		return nil
	}))
	service := NewService(mockGen, caller, 30*time.Minute, windowTurns, 0.5, logger)
	return service, mockGen
}

func TestServiceImpl_SendMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("nil session starts a new conversation", func(t *testing.T) {
		service, mockGen := setupAssistantServiceTest(20)
		mockGen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
			Return(replyResponse("Goa is lovely in January."), nil).Once()

		resp, err := service.SendMessage(ctx, nil, "Is Goa nice in January?")
		require.NoError(t, err)
		require.NotNil(t, resp)

		assert.True(t, resp.IsNewSession)
		assert.NotEqual(t, uuid.Nil, resp.SessionID)
		assert.Equal(t, types.RoleAssistant, resp.Message.Role)
		assert.Equal(t, "Goa is lovely in January.", resp.Message.Content)

		transcript, err := service.GetTranscript(ctx, resp.SessionID)
		require.NoError(t, err)
		require.Len(t, transcript.Messages, 2, "a send appends exactly the user turn and the reply")
		assert.Equal(t, types.RoleUser, transcript.Messages[0].Role)
		assert.Equal(t, "Is Goa nice in January?", transcript.Messages[0].Content)
		assert.Equal(t, types.RoleAssistant, transcript.Messages[1].Role)
		assert.False(t, transcript.Typing)
		mockGen.AssertExpectations(t)
	})

	t.Run("existing session accumulates turns", func(t *testing.T) {
		service, mockGen := setupAssistantServiceTest(20)
		mockGen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
			Return(replyResponse("Sure."), nil).Times(2)

		first, err := service.SendMessage(ctx, nil, "Hello")
		require.NoError(t, err)
		second, err := service.SendMessage(ctx, &first.SessionID, "Tell me more")
		require.NoError(t, err)

		assert.False(t, second.IsNewSession)
		assert.Equal(t, first.SessionID, second.SessionID)

		transcript, err := service.GetTranscript(ctx, first.SessionID)
		require.NoError(t, err)
		assert.Len(t, transcript.Messages, 4)
		mockGen.AssertExpectations(t)
	})

	t.Run("whitespace input mutates nothing and makes no call", func(t *testing.T) {
		service, mockGen := setupAssistantServiceTest(20)
		mockGen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
			Return(replyResponse("Hi!"), nil).Once()

		resp, err := service.SendMessage(ctx, nil, "Hello")
		require.NoError(t, err)

		_, err = service.SendMessage(ctx, &resp.SessionID, "   \n\t ")
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrEmptyMessage))

		transcript, err := service.GetTranscript(ctx, resp.SessionID)
		require.NoError(t, err)
		assert.Len(t, transcript.Messages, 2, "rejected input must not touch the transcript")
		mockGen.AssertNumberOfCalls(t, "GenerateContent", 1)
	})

	t.Run("unknown session is rejected", func(t *testing.T) {
		service, mockGen := setupAssistantServiceTest(20)
		missing := uuid.New()

		_, err := service.SendMessage(ctx, &missing, "Hello?")
		require.Error(t, err)
		assert.True(t, errors.Is(err, types.ErrSessionNotFound))
		mockGen.AssertNotCalled(t, "GenerateContent")
	})

	t.Run("provider failure settles with the apology", func(t *testing.T) {
		service, mockGen := setupAssistantServiceTest(20)
		mockGen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("503 service unavailable")).Times(4)

		resp, err := service.SendMessage(ctx, nil, "Plan my weekend")
		require.NoError(t, err, "failures settle with the fallback reply, never an error")
		assert.Equal(t, chatFallbackMessage, resp.Message.Content)

		transcript, err := service.GetTranscript(ctx, resp.SessionID)
		require.NoError(t, err)
		require.Len(t, transcript.Messages, 2)
		assert.Equal(t, chatFallbackMessage, transcript.Messages[1].Content)
		assert.False(t, transcript.Typing, "typing must clear even on total failure")
		mockGen.AssertExpectations(t)
	})

	t.Run("empty envelope settles with the apology without retrying", func(t *testing.T) {
		service, mockGen := setupAssistantServiceTest(20)
		mockGen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
			Return(&genai.GenerateContentResponse{}, nil).Once()

		resp, err := service.SendMessage(ctx, nil, "Hello")
		require.NoError(t, err)
		assert.Equal(t, chatFallbackMessage, resp.Message.Content)
		mockGen.AssertNumberOfCalls(t, "GenerateContent", 1)
	})

	t.Run("outbound window is capped while the transcript is not", func(t *testing.T) {
		service, mockGen := setupAssistantServiceTest(3)
		var lastWindow int
		mockGen.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				lastWindow = len(args.Get(1).([]*genai.Content))
			}).
			Return(replyResponse("Noted."), nil)

		resp, err := service.SendMessage(ctx, nil, "message 0")
		require.NoError(t, err)
		for i := 1; i < 5; i++ {
			_, err = service.SendMessage(ctx, &resp.SessionID, fmt.Sprintf("message %d", i))
			require.NoError(t, err)
		}

		assert.Equal(t, 3, lastWindow, "only the newest turns go upstream")

		transcript, err := service.GetTranscript(ctx, resp.SessionID)
		require.NoError(t, err)
		assert.Len(t, transcript.Messages, 10, "the local transcript is never truncated")
	})
}

func TestServiceImpl_GetTranscript(t *testing.T) {
	service, _ := setupAssistantServiceTest(20)

	_, err := service.GetTranscript(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrSessionNotFound))
}

func TestBuildChatContents(t *testing.T) {
	contents := buildChatContents([]types.ChatMessage{
		{Role: types.RoleUser, Content: "Hi"},
		{Role: types.RoleAssistant, Content: "Hello!"},
		{Role: types.RoleUser, Content: "Plan a trip"},
	})

	require.Len(t, contents, 3)
	assert.Equal(t, "user", contents[0].Role)
	assert.Equal(t, "model", contents[1].Role)
	assert.Equal(t, "user", contents[2].Role)
	assert.Equal(t, "Plan a trip", contents[2].Parts[0].Text)
}
