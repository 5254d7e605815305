package domain

import "time"

// Event is one tagged time range on a calendar day
type Event struct {
	Tag   string `json:"tag"`
	Range string `json:"range"`
}

// DayEvents holds the events of one date in input order
type DayEvents struct {
	Date   string  `json:"date"`
	Events []Event `json:"events"`
}

// TagRanges holds the time ranges recorded under one tag
type TagRanges struct {
	Tag    string   `json:"tag"`
	Ranges []string `json:"ranges"`
}

// DayTags groups a date's time ranges by tag, in first-seen tag order
type DayTags struct {
	Date string      `json:"date"`
	Tags []TagRanges `json:"tags"`
}

// TagTotal is the time spent on a tag. Hours is Minutes/60.
type TagTotal struct {
	Tag     string  `json:"tag"`
	Minutes int     `json:"minutes"`
	Hours   float64 `json:"hours"`
}

// DayTotals holds the per-tag hours of one date
type DayTotals struct {
	Date   string     `json:"date"`
	Totals []TagTotal `json:"totals"`
}

// TagSummary compares a tag's hours over the whole run to its target
type TagSummary struct {
	Tag    string  `json:"tag"`
	Hours  float64 `json:"hours"`
	Target float64 `json:"target"`
}

// Report is the rendered result of one calculation
type Report struct {
	AvailableHours float64      `json:"available_hours"`
	Days           []DayTotals  `json:"days"`
	Summary        []TagSummary `json:"summary"`
	GrandTotal     float64      `json:"grand_total"`
	Subtotals      []string     `json:"subtotals"`
	Total          string       `json:"total"`
}

// Lines returns the report as output text lines: subtotals, a blank line, the total
func (r *Report) Lines() []string {
	lines := make([]string, 0, len(r.Subtotals)+2)
	lines = append(lines, r.Subtotals...)
	lines = append(lines, "", r.Total)
	return lines
}

// Run is a saved report
type Run struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	Report    *Report   `json:"report,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
