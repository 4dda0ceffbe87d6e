package planner

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/tripweaver/go-trip-planner/internal/retry"
	"github.com/tripweaver/go-trip-planner/internal/types"
)

func textResponse(text string) *genai.GenerateContentResponse {
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

const validItineraryJSON = `{
	"destination": "Goa",
	"days": [
		{"day": 1, "title": "Beaches", "activities": ["Baga Beach", "Sunset at Anjuna"], "cost": 5000},
		{"day": 2, "title": "Old Goa", "activities": ["Basilica of Bom Jesus"], "cost": 3500},
		{"day": 3, "title": "Spice farms", "activities": ["Plantation tour"], "cost": 4000}
	]
}`

func TestInterpretItineraryResponse(t *testing.T) {
	t.Run("valid payload preserves day order", func(t *testing.T) {
		itinerary, err := interpretItineraryResponse(textResponse(validItineraryJSON))
		require.NoError(t, err)

		assert.Equal(t, "Goa", itinerary.Destination)
		require.Len(t, itinerary.Days, 3)
		for i, day := range itinerary.Days {
			assert.Equal(t, i+1, day.Day)
		}
		assert.Equal(t, "Beaches", itinerary.Days[0].Title)
		assert.InDelta(t, 12500.0, itinerary.TotalCost(), 0.001)
	})

	t.Run("markdown fenced payload is unwrapped", func(t *testing.T) {
		fenced := "```json\n" + validItineraryJSON + "\n```"
		itinerary, err := interpretItineraryResponse(textResponse(fenced))
		require.NoError(t, err)
		assert.Equal(t, "Goa", itinerary.Destination)
		assert.Len(t, itinerary.Days, 3)
	})

	t.Run("nil response is a permanent failure", func(t *testing.T) {
		_, err := interpretItineraryResponse(nil)
		require.Error(t, err)
		assert.True(t, retry.IsPermanent(err))
		assert.True(t, errors.Is(err, types.ErrEmptyCandidate))
	})

	t.Run("no candidates is a permanent failure", func(t *testing.T) {
		_, err := interpretItineraryResponse(&genai.GenerateContentResponse{})
		require.Error(t, err)
		assert.True(t, retry.IsPermanent(err))
		assert.True(t, errors.Is(err, types.ErrEmptyCandidate))
	})

	t.Run("candidate without content is a permanent failure", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{Content: nil}},
		}
		_, err := interpretItineraryResponse(resp)
		require.Error(t, err)
		assert.True(t, retry.IsPermanent(err))
	})

	t.Run("content without parts is a permanent failure", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{Content: &genai.Content{}}},
		}
		_, err := interpretItineraryResponse(resp)
		require.Error(t, err)
		assert.True(t, retry.IsPermanent(err))
	})

	t.Run("malformed JSON is a permanent failure", func(t *testing.T) {
		_, err := interpretItineraryResponse(textResponse(`{"destination": "Goa", "days": [`))
		require.Error(t, err)
		assert.True(t, retry.IsPermanent(err))
		assert.Contains(t, err.Error(), "failed to parse itinerary JSON")
	})
}

func TestFallbackItinerary(t *testing.T) {
	fallback := FallbackItinerary()
	assert.Equal(t, "Planning Failed", fallback.Destination)
	require.Len(t, fallback.Days, 1)
	assert.Equal(t, 1, fallback.Days[0].Day)
	assert.Equal(t, "Error", fallback.Days[0].Title)
	assert.NotEmpty(t, fallback.Days[0].Activities)
	assert.Zero(t, fallback.TotalCost())
}
