package timesheet

import (
	"fmt"
	"strings"
	"time"

	"github.com/pbaille/worktime/internal/domain"
)

// ParseClock converts a 12-hour "H:MM AM" time to minutes since midnight.
// 12 AM is midnight and 12 PM is noon.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("3:04 PM", strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadClock, s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Minutes returns the minutes elapsed in a "<start> to <end>" range.
// An end of 12:00 AM after a later start is the following midnight; any
// other range crossing midnight comes out negative.
func Minutes(rng string) (int, error) {
	parts := strings.Split(rng, " to ")
	if len(parts) != 2 {
		return 0, ErrMissingTo
	}

	start, err := ParseClock(parts[0])
	if err != nil {
		return 0, err
	}
	end, err := ParseClock(parts[1])
	if err != nil {
		return 0, err
	}
	if end == 0 && start > 0 {
		end = minutesPerDay
	}

	return end - start, nil
}

// Duration returns the hours elapsed in a "<start> to <end>" range
func Duration(rng string) (float64, error) {
	minutes, err := Minutes(rng)
	if err != nil {
		return 0, err
	}
	return toHours(minutes), nil
}

func toHours(minutes int) float64 {
	return float64(minutes) / 60
}

const minutesPerDay = 24 * 60

// TotalDurations sums the minutes of each tag per date. Tag order is kept.
// Negative ranges fail unless allowNegative is set.
func TotalDurations(days []domain.DayTags, allowNegative bool) ([]domain.DayTotals, error) {
	totals := make([]domain.DayTotals, 0, len(days))

	for _, day := range days {
		tagTotals := []domain.TagTotal{}
		for _, tr := range day.Tags {
			var sum int
			for _, rng := range tr.Ranges {
				minutes, err := Minutes(rng)
				if err == nil && minutes < 0 && !allowNegative {
					err = ErrNegativeRange
				}
				if err != nil {
					return nil, &ParseError{Text: day.Date + " at " + rng, Err: err}
				}
				sum += minutes
			}
			tagTotals = append(tagTotals, domain.TagTotal{Tag: tr.Tag, Minutes: sum, Hours: toHours(sum)})
		}
		totals = append(totals, domain.DayTotals{Date: day.Date, Totals: tagTotals})
	}

	return totals, nil
}
