package domain

import "strings"

// DateLayout is the calendar-date format used on the wire for trip dates.
const DateLayout = "2006-01-02"

type BudgetTier string

const (
	TierBudget   BudgetTier = "Budget"
	TierModerate BudgetTier = "Moderate"
	TierLuxury   BudgetTier = "Luxury"
)

// tierAliases maps lower-cased spellings seen from older clients to the canonical tier.
var tierAliases = map[string]BudgetTier{
	"budget":   TierBudget,
	"economy":  TierBudget,
	"moderate": TierModerate,
	"medium":   TierModerate,
	"luxury":   TierLuxury,
}

// ParseBudgetTier normalizes a tier label. ok is false for labels outside the known vocabulary.
func ParseBudgetTier(s string) (BudgetTier, bool) {
	t, ok := tierAliases[strings.ToLower(strings.TrimSpace(s))]
	return t, ok
}

// TripRequest is the input to the generation pipeline. JSON names match what the web form posts.
type TripRequest struct {
	Destination     string     `json:"destination"`
	StartDate       string     `json:"startDate"`
	EndDate         string     `json:"endDate"`
	BudgetTier      BudgetTier `json:"budget"`
	Interests       []string   `json:"interests"`
	SchedulingNotes string     `json:"additionalInfo,omitempty"`
	RequesterID     string     `json:"userId,omitempty"`
}

// HasRequester reports whether the request carries a requester id.
// Only presence matters; the value never reaches the prompt.
func (r TripRequest) HasRequester() bool { return strings.TrimSpace(r.RequesterID) != "" }
