package timesheet

import (
	"strings"

	"github.com/pbaille/worktime/internal/domain"
)

// Entry is a tag line paired with the description line that follows it
type Entry struct {
	Tag         string
	Description string
	// Line is the 1-based position of the description among the cleaned lines
	Line int
}

// Pair walks cleaned lines two at a time, pairing each tag with its description
func Pair(lines []string) ([]Entry, error) {
	if len(lines)%2 != 0 {
		last := len(lines)
		return nil, &ParseError{Line: last, Text: lines[last-1], Err: ErrOddLines}
	}

	entries := make([]Entry, 0, len(lines)/2)
	for i := 0; i < len(lines); i += 2 {
		entries = append(entries, Entry{
			Tag:         lines[i],
			Description: lines[i+1],
			Line:        i + 2,
		})
	}
	return entries, nil
}

// GroupByDate splits each description into date and time range and groups
// the events by date. Dates and events keep their input order.
func GroupByDate(entries []Entry) ([]domain.DayEvents, error) {
	var days []domain.DayEvents
	index := make(map[string]int)

	for _, e := range entries {
		parts := strings.Split(e.Description, " at ")
		if len(parts) != 2 {
			return nil, &ParseError{Line: e.Line, Text: e.Description, Err: ErrMissingAt}
		}
		date, rng := parts[0], parts[1]

		i, ok := index[date]
		if !ok {
			i = len(days)
			index[date] = i
			days = append(days, domain.DayEvents{Date: date})
		}
		days[i].Events = append(days[i].Events, domain.Event{Tag: e.Tag, Range: rng})
	}

	return days, nil
}

// GroupByTag groups each date's time ranges by tag in first-seen order
func GroupByTag(days []domain.DayEvents) []domain.DayTags {
	grouped := make([]domain.DayTags, 0, len(days))

	for _, day := range days {
		var tags []domain.TagRanges
		index := make(map[string]int)

		for _, ev := range day.Events {
			i, ok := index[ev.Tag]
			if !ok {
				i = len(tags)
				index[ev.Tag] = i
				tags = append(tags, domain.TagRanges{Tag: ev.Tag})
			}
			tags[i].Ranges = append(tags[i].Ranges, ev.Range)
		}

		grouped = append(grouped, domain.DayTags{Date: day.Date, Tags: tags})
	}

	return grouped
}

// FilterTags drops every tag that is not in symbols. Dates left without
// tags are kept.
func FilterTags(days []domain.DayTags, symbols []string) []domain.DayTags {
	known := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		known[s] = true
	}

	filtered := make([]domain.DayTags, 0, len(days))
	for _, day := range days {
		tags := []domain.TagRanges{}
		for _, tr := range day.Tags {
			if known[tr.Tag] {
				tags = append(tags, tr)
			}
		}
		filtered = append(filtered, domain.DayTags{Date: day.Date, Tags: tags})
	}
	return filtered
}
