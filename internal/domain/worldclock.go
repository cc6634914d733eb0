package domain

import (
	"fmt"
	"time"
	_ "time/tzdata" // zone data for hosts without a system zoneinfo database
)

// Zone is one of the auxiliary world-clock displays.
type Zone struct {
	Label string
	Name  string // IANA zone name
	Color string
}

// WorldZones are the clocks shown under the alert panels, left to right.
var WorldZones = []Zone{
	{Label: "Pacific", Name: "America/Los_Angeles", Color: "#1f618d"},
	{Label: "Mountain", Name: "America/Denver", Color: "#566573"},
	{Label: "GMT", Name: "Etc/GMT", Color: "#943126"},
	{Label: "Central", Name: "America/Chicago", Color: "#27ae60"},
	{Label: "Atlantic", Name: "America/New_York", Color: "#5499c7"},
}

// ClockReading is a formatted world-clock value.
type ClockReading struct {
	Label string `json:"label"`
	Zone  string `json:"zone"`
	Color string `json:"color"`
	Time  string `json:"time"`
}

// Text renders the reading as "Label: YYYY-MM-DD HH:MM:SS".
func (r ClockReading) Text() string {
	return fmt.Sprintf("%s: %s", r.Label, r.Time)
}

// WorldClocks formats now in every zone of WorldZones. A zone that cannot be
// loaded reads as UTC.
func WorldClocks(now time.Time) []ClockReading {
	out := make([]ClockReading, 0, len(WorldZones))
	for _, z := range WorldZones {
		loc, err := time.LoadLocation(z.Name)
		if err != nil {
			loc = time.UTC
		}
		out = append(out, ClockReading{
			Label: z.Label,
			Zone:  z.Name,
			Color: z.Color,
			Time:  now.In(loc).Format(time.DateTime),
		})
	}
	return out
}
