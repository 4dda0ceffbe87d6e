package planner

import (
	"fmt"
	"strings"

	"github.com/tripweaver/go-trip-planner/internal/types"
	"google.golang.org/genai"
)

// buildItineraryPrompt serializes the trip query into a natural-language
// instruction. Missing fields fall back to generic phrasing; the prompt never
// fails to build.
func buildItineraryPrompt(query types.TripQuery) string {
	origin := query.OriginLabel
	if strings.TrimSpace(origin) == "" {
		origin = "an unspecified origin"
	}
	destination := query.DestinationLabel
	if strings.TrimSpace(destination) == "" {
		destination = "a destination of your choosing"
	}
	dates := "flexible dates"
	if query.StartDate != "" && query.EndDate != "" {
		dates = fmt.Sprintf("from %s to %s", query.StartDate, query.EndDate)
	}
	styles := "no particular style"
	if len(query.TravelStyles) > 0 {
		styles = strings.Join(query.TravelStyles, ", ")
	}

	return fmt.Sprintf(`
        Plan a trip from %s to %s, travelling %s, with a total budget of about %d.
        The traveller's preferred styles are: [%s].
        Return the response STRICTLY as a JSON object with:
        {
            "destination": "Name of the destination",
            "days": [
                {
                "day": <positive integer, starting at 1 and increasing>,
                "title": "A short theme for the day",
                "activities": ["Activity 1", "Activity 2", ...],
                "cost": <non-negative number, estimated cost for the day>
                }
            ]
        }
        The sum of the per-day costs should stay within the stated budget.
    `, origin, destination, dates, query.BudgetAmount, styles)
}

// itineraryResponseSchema declares the expected output shape to the provider.
// The ordering declaration is guidance for the generator only; the interpreter
// still validates the payload on the way back in.
func itineraryResponseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"destination": {Type: genai.TypeString},
			"days": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"day":   {Type: genai.TypeInteger},
						"title": {Type: genai.TypeString},
						"activities": {
							Type:  genai.TypeArray,
							Items: &genai.Schema{Type: genai.TypeString},
						},
						"cost": {Type: genai.TypeNumber},
					},
					Required:         []string{"day", "title", "activities", "cost"},
					PropertyOrdering: []string{"day", "title", "activities", "cost"},
				},
			},
		},
		Required:         []string{"destination", "days"},
		PropertyOrdering: []string{"destination", "days"},
	}
}
