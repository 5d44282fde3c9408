package app

import (
	"strings"

	"wanderplan/internal/domain"
)

// SystemInstruction is sent as the system message of every model call.
const SystemInstruction = "You are a travel planning assistant that helps create detailed itineraries. " +
	"ALWAYS respond with VALID JSON only, no other text. The JSON must match the structure shown in the user's prompt."

const (
	introPersonalized = "Create a personalized travel itinerary based on this user's preferences and past activity."
	introNewUser      = "Create a detailed travel itinerary for a new user."
)

const requirementsBlock = `Create a comprehensive travel itinerary with SPECIFIC details:

1. Overview:
   - Brief but specific overview of the destination
   - Mention actual neighborhoods or districts that will be visited
   - Include relevant seasonal information for the given dates

2. Day-by-day activities with EXACT locations and establishments:
   - Specific time for each activity (e.g., "09:00 AM")
   - Full names of attractions, restaurants, and venues
   - Exact addresses or notable landmarks for each location
   - Realistic duration for each activity including travel time
   - Specific costs in local currency or USD (e.g., "€15 entrance fee" not just "entrance fee")
   - For restaurants, name actual establishments that match the budget level
   - For attractions, include specific exhibits or highlights to see
   - Classify each activity with one category: Lodging, Dining, Attraction or Transport

3. Budget-Appropriate Recommendations:
   `

const tipsBlock = `

4. Practical Tips:
   - Specific transportation advice between locations
   - Local customs and etiquette
   - Money-saving strategies appropriate for the budget level
   - Safety tips for specific areas
   - Best times to visit each attraction
`

// schemaBlock describes the exact reply shape; it must stay in step with domain.Itinerary.
const schemaBlock = `
Your ENTIRE reply MUST be one valid JSON object with exactly this structure and no text before or after it:
{
  "destination": "Full City Name, Country",
  "startDate": "YYYY-MM-DD",
  "endDate": "YYYY-MM-DD",
  "overview": "Detailed overview with specific districts and seasonal information",
  "days": [
    {
      "day": 1,
      "date": "YYYY-MM-DD",
      "startTime": "09:00 AM",
      "endTime": "10:00 PM",
      "activities": [
        {
          "name": "Full Name of Venue/Activity",
          "category": "Lodging | Dining | Attraction | Transport",
          "time": "09:00 AM",
          "description": "Detailed description with specific highlights",
          "duration": "2 hours (including 15 min travel time)",
          "cost": "Exact cost in local currency or USD",
          "location": "Full address or specific location details",
          "tags": ["museum", "art"]
        }
      ]
    }
  ],
  "budget": {
    "accommodation": "Cost range for the stay",
    "activities": "Cost range for activities",
    "food": "Cost range for food",
    "transportation": "Cost range for transportation",
    "total": "Total estimated cost"
  },
  "tips": ["Specific, actionable tips with location names and exact costs"]
}`

// BuildPrompt maps a validated request to the user message for the model. It is deterministic:
// equal requests give byte-identical prompts.
func BuildPrompt(req domain.TripRequest) string {
	p := profileFor(req.BudgetTier)

	var b strings.Builder
	if req.HasRequester() {
		b.WriteString(introPersonalized)
	} else {
		b.WriteString(introNewUser)
	}
	b.WriteString("\n\n")

	b.WriteString("DESTINATION: " + req.Destination + "\n")
	b.WriteString("DATES: " + req.StartDate + " to " + req.EndDate + "\n")
	b.WriteString("BUDGET LEVEL: " + string(p.Label) + "\n")
	b.WriteString(p.Framing + "\n")
	b.WriteString("INTERESTS: " + strings.Join(req.Interests, ", ") + "\n")

	if notes := strings.TrimSpace(req.SchedulingNotes); notes != "" {
		b.WriteString("SCHEDULE PREFERENCES: " + notes + "\n")
		b.WriteString("Honor these timing preferences exactly as written when laying out each day's schedule.\n")
	} else {
		b.WriteString("Please create a detailed schedule with specific times for each activity.\n")
	}

	b.WriteString("\n")
	b.WriteString(requirementsBlock)
	b.WriteString(p.Recommendations)
	b.WriteString(tipsBlock)
	b.WriteString(schemaBlock)
	return b.String()
}
