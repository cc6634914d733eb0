package domain

import "strings"

// Rules holds the keyword lists used by Classify. Keys of Keywords are
// category keys; categories without keywords never match.
type Rules struct {
	Keywords      map[Category][]string
	Exclude       []string
	RegionExclude string
}

// DefaultRules returns the built-in warning/watch keywords and exclusions.
func DefaultRules() Rules {
	return Rules{
		Keywords: map[Category][]string{
			CategoryTornado:           {"Tornado Warning"},
			CategoryThunderstorm:      {"Severe Thunderstorm Warning"},
			CategoryTornadoWatch:      {"Tornado Watch"},
			CategoryThunderstormWatch: {"Severe Thunderstorm Watch"},
		},
		Exclude:       []string{"AST", "ADT"},
		RegionExclude: "AK",
	}
}

// Classification holds the classified alerts of one fetch, per category.
type Classification map[Category][]ClassifiedAlert

// Total returns the number of classified alerts across all categories.
func (c Classification) Total() int {
	n := 0
	for _, alerts := range c {
		n += len(alerts)
	}
	return n
}

// Classify partitions records into the four categories. Each record lands in
// at most one list, in input order; excluded and unmatched records are dropped.
func Classify(records []RawAlertRecord, rules Rules) Classification {
	out := make(Classification, len(Categories))
	for _, c := range Categories {
		out[c] = []ClassifiedAlert{}
	}

	for _, rec := range records {
		if rules.excluded(rec) {
			continue
		}
		c, ok := rules.match(rec.Event)
		if !ok {
			continue
		}
		out[c] = append(out[c], ClassifiedAlert{
			Category:    c,
			Event:       rec.Event,
			Headline:    rec.Headline,
			Description: rec.Description,
		})
	}
	return out
}

func (r Rules) excluded(rec RawAlertRecord) bool {
	combined := rec.Headline + rec.Description
	if containsAny(combined, r.Exclude) {
		return true
	}
	return r.RegionExclude != "" && strings.Contains(rec.AreaDesc, r.RegionExclude)
}

// match applies first-match-wins in Categories order.
func (r Rules) match(event string) (Category, bool) {
	for _, c := range Categories {
		if containsAny(event, r.Keywords[c]) {
			return c, true
		}
	}
	return "", false
}

func containsAny(s string, substrs []string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
