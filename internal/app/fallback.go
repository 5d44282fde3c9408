package app

import (
	"fmt"
	"strings"

	"wanderplan/internal/domain"
)

const (
	fallbackDayStart = "09:00 AM"
	fallbackDayEnd   = "09:00 PM"
)

// Fallback synthesizes a one-day itinerary from the tier table without any network access.
// It is total: every request, including one with an unrecognized tier, gets a complete result.
func Fallback(req domain.TripRequest) domain.Itinerary {
	p := profileFor(req.BudgetTier)

	firstInterest := "local culture"
	if len(req.Interests) > 0 {
		firstInterest = req.Interests[0]
	}

	return domain.Itinerary{
		Destination: req.Destination,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Overview:    fmt.Sprintf(p.Overview, req.Destination, strings.Join(req.Interests, ", ")),
		Days: []domain.DayPlan{{
			Day:       1,
			Date:      req.StartDate,
			StartTime: fallbackDayStart,
			EndTime:   fallbackDayEnd,
			Activities: []domain.Activity{
				fromTemplate(p.Morning, req.Destination),
				fromTemplate(p.Lunch, req.Destination),
				fromTemplate(p.Afternoon, req.Destination),
			},
		}},
		Budget: domain.Budget{Summary: fmt.Sprintf("%s range - %s", p.Label, p.DailySpend)},
		Tips: []string{
			p.TransportTip,
			fmt.Sprintf("Best time to visit attractions in %s is early morning to avoid crowds", req.Destination),
			p.MoneyTip,
			fmt.Sprintf("For %s enthusiasts, check local event calendars for special exhibitions", firstInterest),
		},
	}
}

// fromTemplate copies a template activity so callers never share the table's tag slices.
func fromTemplate(a domain.Activity, destination string) domain.Activity {
	a.Description = strings.ReplaceAll(a.Description, destinationToken, destination)
	a.Tags = append([]string(nil), a.Tags...)
	return a
}
