package planner

import (
	"encoding/json"
	"fmt"
	"strings"

	generativeAI "github.com/tripweaver/go-trip-planner/internal/api/generative_ai"
	"github.com/tripweaver/go-trip-planner/internal/retry"
	"github.com/tripweaver/go-trip-planner/internal/types"
	"google.golang.org/genai"
)

// FallbackItinerary is the fixed placeholder committed when generation cannot
// be completed. It is always a renderable, well-formed value.
func FallbackItinerary() types.Itinerary {
	return types.Itinerary{
		Destination: "Planning Failed",
		Days: []types.DayPlan{
			{
				Day:        1,
				Title:      "Error",
				Activities: []string{"Could not generate itinerary. Please try again."},
				Cost:       0,
			},
		},
	}
}

// interpretItineraryResponse extracts and parses the structured itinerary.
// Envelope-shape failures (no candidates/content/parts) and payload-parse
// failures are both Permanent: the transport call succeeded, so retrying the
// backoff loop on them would only waste the retry budget.
func interpretItineraryResponse(resp *genai.GenerateContentResponse) (types.Itinerary, error) {
	txt := generativeAI.CandidateText(resp)
	if txt == "" {
		return types.Itinerary{}, retry.Permanent(types.ErrEmptyCandidate)
	}

	jsonStr := strings.TrimSpace(txt)
	jsonStr = strings.TrimPrefix(jsonStr, "```json")
	jsonStr = strings.TrimPrefix(jsonStr, "```")
	jsonStr = strings.TrimSuffix(jsonStr, "```")

	var itinerary types.Itinerary
	if err := json.Unmarshal([]byte(jsonStr), &itinerary); err != nil {
		return types.Itinerary{}, retry.Permanent(fmt.Errorf("failed to parse itinerary JSON: %w", err))
	}
	return itinerary, nil
}
