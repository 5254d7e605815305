// Package timesheet turns a calendar export into hours per category.
//
// The pipeline runs in fixed stages, each returning a new value:
// Normalize, Pair, GroupByDate, GroupByTag, FilterTags, TotalDurations,
// then SubtotalLines and TotalLine render the report.
package timesheet

import (
	"fmt"

	"github.com/pbaille/worktime/internal/config"
	"github.com/pbaille/worktime/internal/domain"
)

// Calculate runs the whole pipeline over raw input lines
func Calculate(lines []string, cfg config.Config, availableHours float64) (*domain.Report, error) {
	if availableHours <= 0 {
		return nil, fmt.Errorf("available hours must be positive, got %v", availableHours)
	}
	symbols := cfg.Symbols()

	cleaned := NewNormalizer(symbols, cfg.Prefix).Normalize(lines)

	entries, err := Pair(cleaned)
	if err != nil {
		return nil, fmt.Errorf("pair lines: %w", err)
	}

	byDate, err := GroupByDate(entries)
	if err != nil {
		return nil, fmt.Errorf("group events: %w", err)
	}

	byTag := FilterTags(GroupByTag(byDate), symbols)

	days, err := TotalDurations(byTag, cfg.AllowNegativeRanges)
	if err != nil {
		return nil, fmt.Errorf("total durations: %w", err)
	}

	summary, grand := Summarize(days, cfg.Tags, availableHours)

	return &domain.Report{
		AvailableHours: availableHours,
		Days:           days,
		Summary:        summary,
		GrandTotal:     grand,
		Subtotals:      SubtotalLines(days, symbols),
		Total:          TotalLine(summary, grand, availableHours),
	}, nil
}
