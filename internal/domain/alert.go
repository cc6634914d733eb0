package domain

import (
	"fmt"
	"time"
)

// Category is one of the four alert classes tracked independently.
type Category string

const (
	CategoryTornado           Category = "tornado"
	CategoryThunderstorm      Category = "thunderstorm"
	CategoryTornadoWatch      Category = "tornadowatch"
	CategoryThunderstormWatch Category = "thunderstormwatch"
)

// Categories lists every category in classification and notification order.
var Categories = []Category{
	CategoryTornado,
	CategoryThunderstorm,
	CategoryTornadoWatch,
	CategoryThunderstormWatch,
}

var categoryInfo = map[Category]struct {
	label string
	color string
}{
	CategoryTornado:           {label: "Tornado Alerts", color: "#943126"},
	CategoryThunderstorm:      {label: "Severe Thunderstorm Alerts", color: "#b7950b"},
	CategoryTornadoWatch:      {label: "Tornado Watch Alerts", color: "#2874A6"},
	CategoryThunderstormWatch: {label: "Severe Thunderstorm Watch Alerts", color: "#D68910"},
}

// ParseCategory validates a category key such as "tornadowatch".
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown alert category %q", s)
	}
	return c, nil
}

// Valid reports whether c is one of the four known categories.
func (c Category) Valid() bool {
	_, ok := categoryInfo[c]
	return ok
}

// Label is the panel heading for the category.
func (c Category) Label() string { return categoryInfo[c].label }

// Color is the panel background color for the category.
func (c Category) Color() string { return categoryInfo[c].color }

// RawAlertRecord is the subset of an NWS alert feature the monitor reads.
// Missing or null fields are empty strings.
type RawAlertRecord struct {
	Event       string
	Headline    string
	Description string
	AreaDesc    string
}

// Identity is the deduplication key of an alert.
type Identity struct {
	Headline    string
	Description string
}

// ClassifiedAlert is a record assigned to exactly one category.
type ClassifiedAlert struct {
	Category    Category `json:"category"`
	Event       string   `json:"event"`
	Headline    string   `json:"headline"`
	Description string   `json:"description"`
}

// Identity returns the (headline, description) key of the alert.
func (a ClassifiedAlert) Identity() Identity {
	return Identity{Headline: a.Headline, Description: a.Description}
}

// Text renders the alert the way a display panel shows it.
func (a ClassifiedAlert) Text() string {
	return a.Event + "\n" + a.Headline + "\n" + a.Description
}

// NotifiedAlert is a ClassifiedAlert stamped with the time it was first announced.
type NotifiedAlert struct {
	ClassifiedAlert
	NotifiedAt time.Time `json:"notified_at"`
}

// NoActiveAlerts is the panel text shown for an empty category.
const NoActiveAlerts = "No active alerts."

const (
	themeActive = "#5b2c6f"
	themeQuiet  = "#196f3d"
)

// ThemeColor is the window background: purple while any category holds
// history, green otherwise.
func ThemeColor(anyActive bool) string {
	if anyActive {
		return themeActive
	}
	return themeQuiet
}
