package app

import (
	"bufio"
	"encoding/json"
	"errors"
	"strings"

	"wanderplan/internal/domain"
)

const (
	unknownField      = "Unknown"
	degradedMarker    = "could not parse model response"
	degradedOverview  = "We couldn't generate a proper itinerary. Please try again with different parameters."
	degradedBudget    = "Information not available"
	tipTryInterests   = "Try selecting different interests"
	tipTryDestination = "Consider a different destination or date range"
)

// Interpret turns raw model text into an itinerary. It never fails: text that cannot be parsed
// structurally yields a degraded itinerary carrying the error marker.
// The bool reports whether a structural parse succeeded.
func Interpret(raw string) (domain.Itinerary, bool) {
	if it, ok := parseEmbedded(raw); ok {
		return it, true
	}
	return recoverDegraded(raw), false
}

// parseEmbedded is the structural tier. Balanced {...} spans are tried in order and the first one
// shaped like an itinerary wins; the whole text is parsed only when no balanced span exists.
func parseEmbedded(raw string) (domain.Itinerary, bool) {
	spans := 0
	for i := strings.IndexByte(raw, '{'); i >= 0; {
		next := i + 1
		if end, ok := closingBrace(raw, i); ok {
			spans++
			if it, ok := parseItinerary(raw[i:end]); ok {
				return it, true
			}
			next = end
		}
		j := strings.IndexByte(raw[next:], '{')
		if j < 0 {
			break
		}
		i = next + j
	}
	if spans > 0 {
		return domain.Itinerary{}, false
	}
	return parseItinerary(raw)
}

// closingBrace returns the index just past the '}' that balances the '{' at start, skipping braces
// inside JSON string literals.
func closingBrace(s string, start int) (int, bool) {
	depth := 0
	inString, escaped := false, false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
	}
	return 0, false
}

var errTrailingData = errors.New("unexpected data after JSON object")

// itineraryKeys must all be present for an object to count as an itinerary. Their values may be empty.
var itineraryKeys = []string{"destination", "days"}

func parseItinerary(doc string) (domain.Itinerary, bool) {
	doc = strings.TrimSpace(doc)
	if !strings.HasPrefix(doc, "{") {
		return domain.Itinerary{}, false
	}
	var fields map[string]json.RawMessage
	if err := decodeStrict(doc, &fields); err != nil || !hasKeys(fields, itineraryKeys) {
		return domain.Itinerary{}, false
	}
	var it domain.Itinerary
	if err := json.Unmarshal([]byte(doc), &it); err != nil {
		return domain.Itinerary{}, false
	}
	coerceSchema(&it)
	return it, true
}

// hasKeys matches case-insensitively, like the struct decoder does.
func hasKeys(fields map[string]json.RawMessage, keys []string) bool {
	for _, want := range keys {
		found := false
		for k := range fields {
			if strings.EqualFold(k, want) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// decodeStrict decodes exactly one JSON object; trailing non-whitespace content is an error.
func decodeStrict(doc string, v any) error {
	dec := json.NewDecoder(strings.NewReader(doc))
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errTrailingData
	}
	return nil
}

// coerceSchema applies the schema-level coercions only: activity categories default to
// Attraction and day ordinals follow their position. Content is not judged.
func coerceSchema(it *domain.Itinerary) {
	if it.Days == nil {
		it.Days = []domain.DayPlan{}
	}
	if it.Tips == nil {
		it.Tips = []string{}
	}
	for i := range it.Days {
		d := &it.Days[i]
		d.Day = i + 1
		if d.Activities == nil {
			d.Activities = []domain.Activity{}
		}
		for j := range d.Activities {
			if d.Activities[j].Category == "" {
				d.Activities[j].Category = domain.CategoryAttraction
			}
		}
	}
}

// recoverDegraded is the heuristic tier: generic defaults plus whatever destination a line scan finds.
func recoverDegraded(raw string) domain.Itinerary {
	it := domain.Itinerary{
		Destination: unknownField,
		StartDate:   unknownField,
		EndDate:     unknownField,
		Overview:    degradedOverview,
		Days:        []domain.DayPlan{},
		Budget:      domain.Budget{Summary: degradedBudget},
		Tips:        []string{tipTryInterests, tipTryDestination},
		Error:       degradedMarker,
	}
	if dest, ok := scanDestination(raw); ok {
		it.Destination = dest
	}
	return it
}

// scanDestination finds the first line mentioning "destination" (any case) and returns the text
// after its first colon.
func scanDestination(raw string) (string, bool) {
	sc := bufio.NewScanner(strings.NewReader(raw))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if !strings.Contains(strings.ToLower(line), "destination") {
			continue
		}
		_, after, found := strings.Cut(line, ":")
		if !found {
			return "", false
		}
		v := strings.TrimSpace(after)
		if strings.HasPrefix(v, `"`) {
			v = quotedPrefix(v)
		} else {
			v = strings.TrimSuffix(v, ",")
			v = strings.TrimSpace(strings.Trim(v, `"'`))
		}
		if v == "" {
			return "", false
		}
		return v, true
	}
	return "", false
}

// quotedPrefix returns the contents of the JSON string literal v starts with. An unterminated
// literal yields the rest of v with its opening quote removed.
func quotedPrefix(v string) string {
	escaped := false
	for i := 1; i < len(v); i++ {
		switch {
		case escaped:
			escaped = false
		case v[i] == '\\':
			escaped = true
		case v[i] == '"':
			var s string
			if err := json.Unmarshal([]byte(v[:i+1]), &s); err != nil {
				return strings.TrimSpace(v[1:i])
			}
			return strings.TrimSpace(s)
		}
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v[1:]), ","))
}
