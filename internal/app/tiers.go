package app

import "wanderplan/internal/domain"

// tierProfile holds every piece of tier-conditioned text, for both the prompt builder and the
// fallback generator.
type tierProfile struct {
	Label domain.BudgetTier

	// prompt side
	Framing         string
	Recommendations string

	// fallback side
	Morning, Lunch, Afternoon domain.Activity // descriptions may contain destinationToken
	Overview                  string          // %[1]s destination, %[2]s joined interests
	DailySpend                string
	TransportTip              string
	MoneyTip                  string
}

const destinationToken = "{destination}"

var tierProfiles = map[domain.BudgetTier]tierProfile{
	domain.TierLuxury: {
		Label:   domain.TierLuxury,
		Framing: "This is a LUXURY itinerary. Include high-end restaurants (with Michelin stars if available), 5-star hotels, exclusive experiences, and VIP services. Focus on premium locations and unique, expensive activities.",
		Recommendations: "- Focus on Michelin-starred restaurants, 5-star hotels, and exclusive experiences\n" +
			"   - Include VIP tours and premium services\n" +
			"   - Suggest high-end shopping venues and luxury brands\n" +
			"   - Recommend exclusive or private transportation options",
		Morning: domain.Activity{
			Name:        "Private City Tour with Expert Guide",
			Category:    domain.CategoryAttraction,
			Time:        "09:00 AM",
			Description: "Exclusive guided tour of {destination}'s highlights with a certified historian, including skip-the-line access to major attractions",
			Duration:    "3 hours",
			Cost:        "$300 per person",
			Location:    "Hotel Pickup Service",
			Tags:        []string{"private", "guided", "skip-the-line"},
		},
		Lunch: domain.Activity{
			Name:        "Michelin-Starred Dining Experience",
			Category:    domain.CategoryDining,
			Time:        "12:30 PM",
			Description: "Exquisite tasting menu at a prestigious Michelin-starred restaurant",
			Duration:    "2 hours",
			Cost:        "$200-300 per person",
			Location:    "Fine Dining District",
			Tags:        []string{"fine-dining", "michelin"},
		},
		Afternoon: domain.Activity{
			Name:        "VIP Shopping Experience",
			Category:    domain.CategoryAttraction,
			Time:        "03:00 PM",
			Description: "Personal shopping assistant at luxury boutiques",
			Duration:    "3 hours",
			Cost:        "Variable (luxury goods)",
			Location:    "Premium Shopping District",
			Tags:        []string{"shopping", "vip"},
		},
		Overview:     "%[1]s offers world-class luxury experiences, from Michelin-starred restaurants to exclusive shopping districts. This itinerary features VIP tours, premium accommodations, and high-end dining venues perfect for the discerning traveler interested in %[2]s.",
		DailySpend:   "Expect to spend $500+ per day",
		TransportTip: "Many luxury hotels offer private car services - worth the splurge for convenience",
		MoneyTip:     "Consider hiring a private guide for personalized experiences",
	},
	domain.TierBudget: {
		Label:   domain.TierBudget,
		Framing: "This is a BUDGET itinerary. Focus on free attractions, affordable local restaurants, public transportation, and budget-friendly accommodations. Include money-saving tips.",
		Recommendations: "- Prioritize free walking tours and public spaces\n" +
			"   - Include affordable local eateries and street food\n" +
			"   - Focus on budget accommodation options\n" +
			"   - Suggest money-saving travel passes or cards",
		Morning: domain.Activity{
			Name:        "Free Walking Tour",
			Category:    domain.CategoryAttraction,
			Time:        "09:00 AM",
			Description: "Explore {destination}'s highlights with a local guide (tip-based)",
			Duration:    "2.5 hours",
			Cost:        "Free (suggested tip: $10-15)",
			Location:    "Main Square Meeting Point",
			Tags:        []string{"walking", "free"},
		},
		Lunch: domain.Activity{
			Name:        "Local Street Food Experience",
			Category:    domain.CategoryDining,
			Time:        "12:00 PM",
			Description: "Sample authentic street food from local vendors",
			Duration:    "1 hour",
			Cost:        "$5-10 per person",
			Location:    "Food Market District",
			Tags:        []string{"street-food", "local"},
		},
		Afternoon: domain.Activity{
			Name:        "Self-Guided Museum Tour",
			Category:    domain.CategoryAttraction,
			Time:        "02:00 PM",
			Description: "Visit during free/reduced admission hours",
			Duration:    "2 hours",
			Cost:        "Free - $10",
			Location:    "City Museum",
			Tags:        []string{"museum", "self-guided"},
		},
		Overview:     "%[1]s can be thoroughly enjoyed on a budget, with numerous free attractions, affordable local eateries, and efficient public transportation. This itinerary focuses on authentic experiences and smart money-saving opportunities while exploring %[2]s.",
		DailySpend:   "Expect to spend $50-100 per day",
		TransportTip: "Get a public transportation pass to save on travel costs",
		MoneyTip:     "Many museums have free admission days - plan accordingly",
	},
	domain.TierModerate: {
		Label:   domain.TierModerate,
		Framing: "This is a MODERATE budget itinerary. Balance cost with experience. Include mid-range restaurants, comfortable hotels, and a mix of paid and free attractions.",
		Recommendations: "- Mix of moderate restaurants and casual dining\n" +
			"   - Include both paid attractions and free activities\n" +
			"   - Suggest comfortable mid-range hotels\n" +
			"   - Balance public transport with occasional taxis",
		Morning: domain.Activity{
			Name:        "Guided Group Tour",
			Category:    domain.CategoryAttraction,
			Time:        "09:30 AM",
			Description: "Comprehensive tour of {destination}'s main attractions",
			Duration:    "2.5 hours",
			Cost:        "$45 per person",
			Location:    "Tourist Information Center",
			Tags:        []string{"guided", "group"},
		},
		Lunch: domain.Activity{
			Name:        "Mid-Range Restaurant Experience",
			Category:    domain.CategoryDining,
			Time:        "12:30 PM",
			Description: "Quality local cuisine in a comfortable setting",
			Duration:    "1.5 hours",
			Cost:        "$25-40 per person",
			Location:    "Restaurant District",
			Tags:        []string{"local-cuisine"},
		},
		Afternoon: domain.Activity{
			Name:        "Cultural Site Visit",
			Category:    domain.CategoryAttraction,
			Time:        "02:30 PM",
			Description: "Explore major cultural attractions",
			Duration:    "2 hours",
			Cost:        "$20-30 entrance fee",
			Location:    "Historic Center",
			Tags:        []string{"culture", "history"},
		},
		Overview:     "%[1]s provides a perfect balance of quality experiences at moderate prices. This itinerary combines comfortable accommodations, good restaurants, and key attractions, ideal for travelers interested in %[2]s.",
		DailySpend:   "Expect to spend $100-300 per day",
		TransportTip: "Mix rideshare services with public transport for best value",
		MoneyTip:     "Look for combination tickets to save on multiple attractions",
	},
}

// profileFor returns the profile for tier; unrecognized tiers get the Moderate profile.
func profileFor(tier domain.BudgetTier) tierProfile {
	if p, ok := tierProfiles[tier]; ok {
		return p
	}
	return tierProfiles[domain.TierModerate]
}
