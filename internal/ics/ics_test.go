package ics

import (
	"strings"
	"testing"
	"time"

	"github.com/pbaille/worktime/internal/config"
	"github.com/pbaille/worktime/internal/timesheet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const calendar = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//worktime//test//EN
BEGIN:VEVENT
UID:two@worktime
DTSTAMP:20210301T000000Z
DTSTART:20210308T084500Z
DTEND:20210308T103000Z
SUMMARY:👨🏻‍🏫 1.75
END:VEVENT
BEGIN:VEVENT
UID:one@worktime
DTSTAMP:20210301T000000Z
DTSTART:20210308T081500Z
DTEND:20210308T084500Z
SUMMARY:😴 .5
END:VEVENT
BEGIN:VEVENT
UID:late@worktime
DTSTAMP:20210301T000000Z
DTSTART:20210320T160000Z
DTEND:20210320T170000Z
SUMMARY:👨🏻‍💻 1
END:VEVENT
END:VCALENDAR
`

func TestLines(t *testing.T) {
	from := time.Date(2021, 3, 8, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)

	lines, err := Lines(strings.NewReader(calendar), from, to, time.UTC)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"😴 .5",
		"Mar 8, 2021 at 8:15 AM to 8:45 AM",
		"",
		"👨🏻‍🏫 1.75",
		"Mar 8, 2021 at 8:45 AM to 10:30 AM",
	}, lines)
}

func TestLines_EmptyWindow(t *testing.T) {
	from := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)

	lines, err := Lines(strings.NewReader(calendar), from, from.AddDate(0, 0, 7), time.UTC)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestDescribe(t *testing.T) {
	start := time.Date(2021, 3, 9, 16, 45, 0, 0, time.UTC)
	end := time.Date(2021, 3, 9, 17, 30, 0, 0, time.UTC)

	assert.Equal(t, "Mar 9, 2021 at 4:45 PM to 5:30 PM", Describe(start, end, time.UTC))

	noon := time.Date(2021, 3, 9, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "Mar 9, 2021 at 12:00 PM to 12:00 PM", Describe(noon, noon, time.UTC))
}

const untidyCalendar = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//worktime//test//EN
BEGIN:VEVENT
UID:untitled@worktime
DTSTAMP:20210301T000000Z
DTSTART:20210308T080000Z
DTEND:20210308T090000Z
SUMMARY:
END:VEVENT
BEGIN:VEVENT
UID:nap@worktime
DTSTAMP:20210301T000000Z
DTSTART:20210308T100000Z
DTEND:20210308T110000Z
SUMMARY:😴 1
END:VEVENT
BEGIN:VEVENT
UID:other@worktime
DTSTAMP:20210301T000000Z
DTSTART:20210308T230000Z
DTEND:20210309T010000Z
SUMMARY:OTHER
END:VEVENT
BEGIN:VEVENT
UID:deploy@worktime
DTSTAMP:20210301T000000Z
DTSTART:20210309T230000Z
DTEND:20210310T010000Z
SUMMARY:👨🏻‍💻 2
END:VEVENT
END:VCALENDAR
`

func TestLines_UntitledAndOvernightEvents(t *testing.T) {
	from := time.Date(2021, 3, 8, 0, 0, 0, 0, time.UTC)

	lines, err := Lines(strings.NewReader(untidyCalendar), from, from.AddDate(0, 0, 7), time.UTC)
	require.NoError(t, err)

	assert.Equal(t, []string{
		Untitled,
		"Mar 8, 2021 at 8:00 AM to 9:00 AM",
		"",
		"😴 1",
		"Mar 8, 2021 at 10:00 AM to 11:00 AM",
		"",
		"OTHER",
		"Mar 8, 2021 at 11:00 PM to 12:00 AM",
		"",
		"OTHER",
		"Mar 9, 2021 at 12:00 AM to 1:00 AM",
		"",
		"👨🏻‍💻 2",
		"Mar 9, 2021 at 11:00 PM to 12:00 AM",
		"",
		"👨🏻‍💻 2",
		"Mar 10, 2021 at 12:00 AM to 1:00 AM",
	}, lines)

	report, err := timesheet.Calculate(lines, config.Default(), 40)
	require.NoError(t, err)

	b, l, e := config.Building, config.Leadership, config.Etc
	assert.Equal(t, []string{
		"Mar 8, 2021: " + b + ": 0 " + l + ": 0 " + e + ": 1",
		"Mar 9, 2021: " + b + ": 1 " + l + ": 0 " + e + ": 0",
		"Mar 10, 2021: " + b + ": 1 " + l + ": 0 " + e + ": 0",
		"",
		b + ": 2/16 " + l + ": 0/16 " + e + ": 1/8 (3/40)",
	}, report.Lines())
}

func TestSplitAtMidnight(t *testing.T) {
	at := func(day, hour int) time.Time {
		return time.Date(2021, 3, day, hour, 0, 0, 0, time.UTC)
	}

	assert.Equal(t, [][2]time.Time{{at(8, 9), at(8, 17)}},
		SplitAtMidnight(at(8, 9), at(8, 17), time.UTC))

	assert.Equal(t, [][2]time.Time{{at(8, 22), at(9, 0)}},
		SplitAtMidnight(at(8, 22), at(9, 0), time.UTC), "ending at midnight stays one span")

	assert.Equal(t, [][2]time.Time{
		{at(8, 22), at(9, 0)},
		{at(9, 0), at(10, 0)},
		{at(10, 0), at(10, 2)},
	}, SplitAtMidnight(at(8, 22), at(10, 2), time.UTC))
}
