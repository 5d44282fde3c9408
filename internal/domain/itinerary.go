package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type Category string

const (
	CategoryLodging    Category = "Lodging"
	CategoryDining     Category = "Dining"
	CategoryAttraction Category = "Attraction"
	CategoryTransport  Category = "Transport"
)

// ParseCategory matches case-insensitively; anything unknown (or empty) becomes Attraction.
func ParseCategory(s string) Category {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lodging":
		return CategoryLodging
	case "dining":
		return CategoryDining
	case "transport":
		return CategoryTransport
	default:
		return CategoryAttraction
	}
}

func (c *Category) UnmarshalJSON(b []byte) error {
	var s looseString
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*c = ParseCategory(string(s))
	return nil
}

// looseString accepts any JSON scalar. Numbers and bools keep their literal text; null is empty.
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*s = ""
	case b[0] == '"':
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = looseString(v)
	case b[0] == '{' || b[0] == '[':
		return fmt.Errorf("want scalar, got %.20s", b)
	default:
		*s = looseString(b)
	}
	return nil
}

// looseInt accepts a number or a numeric string. Anything else scalar reads as 0.
type looseInt int

func (n *looseInt) UnmarshalJSON(b []byte) error {
	var s looseString
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(string(s)), 64)
	if err != nil {
		*n = 0
		return nil
	}
	*n = looseInt(f)
	return nil
}

func stringsOf(in []looseString) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = string(v)
	}
	return out
}

type Activity struct {
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Time        string   `json:"time,omitempty"`
	Description string   `json:"description"`
	Duration    string   `json:"duration"`
	Cost        string   `json:"cost"`
	Location    string   `json:"location"`
	Tags        []string `json:"tags,omitempty"`
}

func (a *Activity) UnmarshalJSON(b []byte) error {
	var w struct {
		Name        looseString   `json:"name"`
		Category    Category      `json:"category"`
		Time        looseString   `json:"time"`
		Description looseString   `json:"description"`
		Duration    looseString   `json:"duration"`
		Cost        looseString   `json:"cost"`
		Location    looseString   `json:"location"`
		Tags        []looseString `json:"tags"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*a = Activity{
		Name:        string(w.Name),
		Category:    w.Category,
		Time:        string(w.Time),
		Description: string(w.Description),
		Duration:    string(w.Duration),
		Cost:        string(w.Cost),
		Location:    string(w.Location),
		Tags:        stringsOf(w.Tags),
	}
	return nil
}

type DayPlan struct {
	Day        int        `json:"day"`
	Date       string     `json:"date"`
	StartTime  string     `json:"startTime,omitempty"`
	EndTime    string     `json:"endTime,omitempty"`
	Activities []Activity `json:"activities"`
}

func (d *DayPlan) UnmarshalJSON(b []byte) error {
	var w struct {
		Day        looseInt    `json:"day"`
		Date       looseString `json:"date"`
		StartTime  looseString `json:"startTime"`
		EndTime    looseString `json:"endTime"`
		Activities []Activity  `json:"activities"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*d = DayPlan{
		Day:        int(w.Day),
		Date:       string(w.Date),
		StartTime:  string(w.StartTime),
		EndTime:    string(w.EndTime),
		Activities: w.Activities,
	}
	return nil
}

type BudgetBreakdown struct {
	Accommodation  string `json:"accommodation"`
	Activities     string `json:"activities"`
	Food           string `json:"food"`
	Transportation string `json:"transportation"`
	Total          string `json:"total"`
}

func (bd *BudgetBreakdown) UnmarshalJSON(b []byte) error {
	var w struct {
		Accommodation  looseString `json:"accommodation"`
		Activities     looseString `json:"activities"`
		Food           looseString `json:"food"`
		Transportation looseString `json:"transportation"`
		Total          looseString `json:"total"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*bd = BudgetBreakdown{
		Accommodation:  string(w.Accommodation),
		Activities:     string(w.Activities),
		Food:           string(w.Food),
		Transportation: string(w.Transportation),
		Total:          string(w.Total),
	}
	return nil
}

// Budget is either a prose narrative or a structured breakdown; the JSON form follows whichever is set.
type Budget struct {
	Summary   string
	Breakdown *BudgetBreakdown
}

func (b Budget) MarshalJSON() ([]byte, error) {
	if b.Breakdown != nil {
		return json.Marshal(b.Breakdown)
	}
	return json.Marshal(b.Summary)
}

func (b *Budget) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*b = Budget{}
		return nil
	case data[0] == '{':
		var bd BudgetBreakdown
		if err := json.Unmarshal(data, &bd); err != nil {
			return err
		}
		*b = Budget{Breakdown: &bd}
		return nil
	default:
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("budget: want string or object: %w", err)
		}
		*b = Budget{Summary: s}
		return nil
	}
}

// String renders the budget as one line of prose.
func (b Budget) String() string {
	if b.Breakdown == nil {
		return b.Summary
	}
	bd := b.Breakdown
	return fmt.Sprintf("Accommodation: %s; Activities: %s; Food: %s; Transportation: %s; Total: %s",
		bd.Accommodation, bd.Activities, bd.Food, bd.Transportation, bd.Total)
}

type Itinerary struct {
	Destination string    `json:"destination"`
	StartDate   string    `json:"startDate"`
	EndDate     string    `json:"endDate"`
	Overview    string    `json:"overview"`
	Days        []DayPlan `json:"days"`
	Budget      Budget    `json:"budget"`
	Tips        []string  `json:"tips"`
	Error       string    `json:"error,omitempty"`
}

// Degraded reports whether the itinerary carries the error marker.
func (it Itinerary) Degraded() bool { return it.Error != "" }
