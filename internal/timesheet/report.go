package timesheet

import (
	"strconv"
	"strings"

	"github.com/pbaille/worktime/internal/config"
	"github.com/pbaille/worktime/internal/domain"
)

// FormatHours renders a number with no trailing zeros: 16, 6.4, 4.25, 0.
func FormatHours(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// SubtotalLines renders one "<date>: <tag>: <hours> ..." line per date with
// the tags in the given order. Tags missing on a date show 0.
func SubtotalLines(days []domain.DayTotals, symbols []string) []string {
	lines := make([]string, 0, len(days))

	for _, day := range days {
		minutes := make(map[string]int, len(day.Totals))
		for _, tt := range day.Totals {
			minutes[tt.Tag] += tt.Minutes
		}

		var sb strings.Builder
		sb.WriteString(day.Date)
		sb.WriteString(":")
		for _, s := range symbols {
			sb.WriteString(" ")
			sb.WriteString(s)
			sb.WriteString(": ")
			sb.WriteString(FormatHours(toHours(minutes[s])))
		}
		lines = append(lines, sb.String())
	}

	return lines
}

// Summarize adds up each configured tag over all dates and sets its target
// to its share of the available hours. It also returns the grand total.
// Minutes are added up first and converted to hours once.
func Summarize(days []domain.DayTotals, tags []config.Tag, availableHours float64) ([]domain.TagSummary, float64) {
	sums := make(map[string]int, len(tags))
	for _, day := range days {
		for _, tt := range day.Totals {
			sums[tt.Tag] += tt.Minutes
		}
	}

	summary := make([]domain.TagSummary, 0, len(tags))
	var grand int
	for _, t := range tags {
		summary = append(summary, domain.TagSummary{
			Tag:    t.Symbol,
			Hours:  toHours(sums[t.Symbol]),
			Target: availableHours * t.Target,
		})
		grand += sums[t.Symbol]
	}
	return summary, toHours(grand)
}

// TotalLine renders "<tag>: <hours>/<target> ... (<grand>/<available>)"
func TotalLine(summary []domain.TagSummary, grand, availableHours float64) string {
	parts := make([]string, 0, len(summary)+1)
	for _, s := range summary {
		parts = append(parts, s.Tag+": "+FormatHours(s.Hours)+"/"+FormatHours(s.Target))
	}
	parts = append(parts, "("+FormatHours(grand)+"/"+FormatHours(availableHours)+")")
	return strings.Join(parts, " ")
}
