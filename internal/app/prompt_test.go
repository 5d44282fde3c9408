package app_test

import (
	"strings"
	"testing"

	"wanderplan/internal/app"
	"wanderplan/internal/domain"
)

func TestBuildPrompt_Deterministic(t *testing.T) {
	req := validRequest()
	req.Interests = []string{"Art", "Food", "Architecture"}
	req.SchedulingNotes = "No activities before 10am"
	a, b := app.BuildPrompt(req), app.BuildPrompt(req)
	if a != b {
		t.Fatalf("prompt not deterministic")
	}
}

func TestBuildPrompt_TierBlocks(t *testing.T) {
	cases := []struct {
		tier    domain.BudgetTier
		want    []string
		notWant []string
	}{
		{domain.TierLuxury, []string{"LUXURY itinerary", "Michelin"}, []string{"BUDGET itinerary", "MODERATE budget"}},
		{domain.TierBudget, []string{"BUDGET itinerary", "free walking tours"}, []string{"Michelin", "MODERATE budget"}},
		{domain.TierModerate, []string{"MODERATE budget itinerary", "mid-range hotels"}, []string{"Michelin", "BUDGET itinerary"}},
		{"platinum", []string{"MODERATE budget itinerary", "BUDGET LEVEL: Moderate"}, []string{"Michelin", "BUDGET itinerary"}},
	}
	for _, tc := range cases {
		t.Run(string(tc.tier), func(t *testing.T) {
			req := validRequest()
			req.BudgetTier = tc.tier
			p := app.BuildPrompt(req)
			for _, w := range tc.want {
				if !strings.Contains(p, w) {
					t.Errorf("expected %q in prompt", w)
				}
			}
			for _, nw := range tc.notWant {
				if strings.Contains(p, nw) {
					t.Errorf("did not expect %q in prompt", nw)
				}
			}
		})
	}
}

func TestBuildPrompt_RequesterPresenceOnly(t *testing.T) {
	req := validRequest()
	anon := app.BuildPrompt(req)
	if !strings.Contains(anon, "for a new user") {
		t.Fatalf("expected new-user phrasing")
	}

	req.RequesterID = "user-8f3a91"
	known := app.BuildPrompt(req)
	if !strings.Contains(known, "personalized travel itinerary") {
		t.Fatalf("expected personalized phrasing")
	}
	if strings.Contains(known, "user-8f3a91") {
		t.Fatalf("requester id leaked into prompt")
	}

	req.RequesterID = "someone-else"
	if app.BuildPrompt(req) != known {
		t.Fatalf("prompt must depend on requester presence, not its value")
	}
}

func TestBuildPrompt_SchedulingNotes(t *testing.T) {
	req := validRequest()
	without := app.BuildPrompt(req)
	if !strings.Contains(without, "specific times for each activity") {
		t.Fatalf("expected generic timing directive")
	}
	if strings.Contains(without, "SCHEDULE PREFERENCES") {
		t.Fatalf("unexpected schedule block")
	}

	req.SchedulingNotes = "Dinner no earlier than 8pm"
	with := app.BuildPrompt(req)
	if !strings.Contains(with, "SCHEDULE PREFERENCES: Dinner no earlier than 8pm") {
		t.Fatalf("notes not embedded verbatim")
	}
	if strings.Contains(with, "specific times for each activity") {
		t.Fatalf("generic directive should be replaced when notes are present")
	}
}

func TestBuildPrompt_EmbedsInputAndSchema(t *testing.T) {
	req := validRequest()
	req.Interests = []string{"Art", "Wine"}
	p := app.BuildPrompt(req)
	for _, w := range []string{
		"DESTINATION: Paris, France",
		"DATES: 2025-06-01 to 2025-06-03",
		"INTERESTS: Art, Wine",
		`"days": [`,
		`"category": "Lodging | Dining | Attraction | Transport"`,
		`"tips": [`,
		"no text before or after it",
	} {
		if !strings.Contains(p, w) {
			t.Errorf("expected %q in prompt", w)
		}
	}
}
