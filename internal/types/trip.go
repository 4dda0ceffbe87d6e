package types

// TripQuery is the immutable snapshot of the planning form taken at submission
// time. Dates are ISO-8601 (YYYY-MM-DD); empty fields are allowed and degrade
// to generic phrasing in the prompt instead of failing.
type TripQuery struct {
	OriginLabel      string   `json:"origin"`
	DestinationLabel string   `json:"destination"`
	StartDate        string   `json:"start_date"`
	EndDate          string   `json:"end_date"`
	BudgetAmount     int      `json:"budget"`
	TravelStyles     []string `json:"travel_styles,omitempty"`
}

// DayPlan is a single day of a generated itinerary.
type DayPlan struct {
	Day        int      `json:"day"`
	Title      string   `json:"title"`
	Activities []string `json:"activities"`
	Cost       float64  `json:"cost"`
}

// Itinerary is the structured output of the planning pipeline. Day numbers are
// assumed unique and increasing as a contract with the generator; they are not
// enforced here. A new itinerary always replaces the previous one in full.
type Itinerary struct {
	Destination string    `json:"destination"`
	Days        []DayPlan `json:"days"`
}

// TotalCost sums the per-day costs.
func (i Itinerary) TotalCost() float64 {
	var total float64
	for _, day := range i.Days {
		total += day.Cost
	}
	return total
}

type BudgetStatus string

const (
	BudgetWithin BudgetStatus = "Within Budget"
	BudgetOver   BudgetStatus = "Over Budget"
)

// BudgetStatusFor compares the itinerary total against the requested budget.
// A zero or negative budget means the user did not constrain it.
func BudgetStatusFor(totalCost float64, budgetAmount int) BudgetStatus {
	if budgetAmount > 0 && totalCost > float64(budgetAmount) {
		return BudgetOver
	}
	return BudgetWithin
}

type OutcomeStatus string

const (
	OutcomeGenerated OutcomeStatus = "generated"
	OutcomeFallback  OutcomeStatus = "fallback"
)

// ItineraryResult is what the planning pipeline commits. It always carries a
// well-formed itinerary: on failure the fixed placeholder is substituted and
// Status/Cause record why.
type ItineraryResult struct {
	Itinerary    Itinerary     `json:"itinerary"`
	Status       OutcomeStatus `json:"status"`
	Cause        string        `json:"cause,omitempty"`
	TotalCost    float64       `json:"total_cost"`
	BudgetStatus BudgetStatus  `json:"budget_status"`
}

// PipelineStatus reports the per-session planning state: Busy is true while a
// submission is in flight and false once the latest submission has settled.
type PipelineStatus struct {
	Busy       bool             `json:"busy"`
	LastResult *ItineraryResult `json:"last_result,omitempty"`
}
