// Package ics turns iCalendar events into the tag/description line pairs
// that the timesheet pipeline reads.
package ics

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/apognu/gocal"
)

const (
	dateLayout  = "Jan 2, 2006"
	clockLayout = "3:04 PM"
)

// Untitled stands in for an empty summary so every event keeps a tag line.
const Untitled = "(untitled)"

// Lines parses the calendar in r and returns, for every event starting in
// [from, to), its summary line and a "<date> at <start> to <end>" line,
// separated from the next event by a blank line. Times are shown in loc.
// Recurring events are expanded within the window, and an event running
// past midnight yields one pair per day.
func Lines(r io.Reader, from, to time.Time, loc *time.Location) ([]string, error) {
	c := gocal.NewParser(r)
	c.Start, c.End = &from, &to
	if err := c.Parse(); err != nil {
		return nil, fmt.Errorf("parse calendar: %w", err)
	}

	events := make([]gocal.Event, 0, len(c.Events))
	for _, e := range c.Events {
		if e.Start == nil || e.End == nil {
			continue
		}
		events = append(events, e)
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start.Before(*events[j].Start)
	})

	var lines []string
	for _, e := range events {
		summary := strings.TrimSpace(e.Summary)
		if summary == "" {
			summary = Untitled
		}
		for _, span := range SplitAtMidnight(*e.Start, *e.End, loc) {
			if len(lines) > 0 {
				lines = append(lines, "")
			}
			lines = append(lines, summary, Describe(span[0], span[1], loc))
		}
	}
	return lines, nil
}

// SplitAtMidnight cuts [start, end) into one span per calendar day in loc.
// A span ending at midnight renders as "to 12:00 AM".
func SplitAtMidnight(start, end time.Time, loc *time.Location) [][2]time.Time {
	start, end = start.In(loc), end.In(loc)

	var spans [][2]time.Time
	for {
		midnight := time.Date(start.Year(), start.Month(), start.Day()+1, 0, 0, 0, 0, loc)
		if !end.After(midnight) {
			return append(spans, [2]time.Time{start, end})
		}
		spans = append(spans, [2]time.Time{start, midnight})
		start = midnight
	}
}

// Describe renders an event's time span the way Calendar exports it
func Describe(start, end time.Time, loc *time.Location) string {
	start, end = start.In(loc), end.In(loc)
	return fmt.Sprintf("%s at %s to %s",
		start.Format(dateLayout), start.Format(clockLayout), end.Format(clockLayout))
}
