package app

import (
	"strings"
	"time"

	"wanderplan/internal/domain"
)

// Validate checks req before anything downstream runs and returns the normalized request:
// trimmed strings, canonical budget tier, interests without blanks or duplicates (first-seen order kept).
func Validate(req domain.TripRequest) (domain.TripRequest, error) {
	out := req
	out.Destination = strings.TrimSpace(req.Destination)
	out.StartDate = strings.TrimSpace(req.StartDate)
	out.EndDate = strings.TrimSpace(req.EndDate)
	out.SchedulingNotes = strings.TrimSpace(req.SchedulingNotes)
	out.RequesterID = strings.TrimSpace(req.RequesterID)

	if out.Destination == "" {
		return domain.TripRequest{}, domain.Invalid("destination is required")
	}

	start, err := parseDate("startDate", out.StartDate)
	if err != nil {
		return domain.TripRequest{}, err
	}
	end, err := parseDate("endDate", out.EndDate)
	if err != nil {
		return domain.TripRequest{}, err
	}
	if end.Before(start) {
		return domain.TripRequest{}, domain.Invalid("endDate %s is before startDate %s", out.EndDate, out.StartDate)
	}

	if strings.TrimSpace(string(req.BudgetTier)) == "" {
		return domain.TripRequest{}, domain.Invalid("budget is required")
	}
	tier, ok := domain.ParseBudgetTier(string(req.BudgetTier))
	if !ok {
		return domain.TripRequest{}, domain.Invalid("budget %q must be one of Budget, Moderate, Luxury", req.BudgetTier)
	}
	out.BudgetTier = tier

	out.Interests = normalizeInterests(req.Interests)
	if len(out.Interests) == 0 {
		return domain.TripRequest{}, domain.Invalid("at least one interest is required")
	}
	return out, nil
}

func parseDate(field, v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, domain.Invalid("%s is required", field)
	}
	t, err := time.Parse(domain.DateLayout, v)
	if err != nil {
		return time.Time{}, domain.Invalid("%s %q is not a YYYY-MM-DD date", field, v)
	}
	return t, nil
}

func normalizeInterests(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		k := strings.ToLower(s)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}
	return out
}
