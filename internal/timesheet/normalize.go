package timesheet

import (
	"regexp"
	"sort"
	"strings"
)

var (
	// icalBuddy writes "8:15 AM - 8:45 AM" where Calendar writes "to".
	dashRange = regexp.MustCompile(`(\d{1,2}:\d{2} [AP]M) [-–] (\d{1,2}:\d{2} [AP]M)`)
	tzSuffix  = regexp.MustCompile(`, [A-Z]{3}$`)
)

// Normalizer turns raw calendar export lines into cleaned lines: a bare tag
// symbol or a "<date> at <start> to <end>" description.
type Normalizer struct {
	tags   []string
	prefix string
}

// NewNormalizer creates a Normalizer for the given tag symbols and lead-in prefix
func NewNormalizer(tags []string, prefix string) *Normalizer {
	sorted := append([]string(nil), tags...)
	// Longest first so a symbol never shadows a longer one it prefixes.
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i]) > len(sorted[j])
	})
	return &Normalizer{tags: sorted, prefix: prefix}
}

// Normalize drops blank lines and cleans the rest. It is idempotent.
func (n *Normalizer) Normalize(lines []string) []string {
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		cleaned = append(cleaned, n.clean(line))
	}
	return cleaned
}

func (n *Normalizer) clean(line string) string {
	line = strings.TrimSpace(line)

	if tag, ok := n.tag(line); ok {
		return tag
	}

	if n.prefix != "" {
		line = strings.TrimSpace(strings.TrimPrefix(line, n.prefix))
	}
	if !strings.Contains(line, " at ") {
		return line
	}

	line = dashRange.ReplaceAllString(line, "$1 to $2")
	return tzSuffix.ReplaceAllString(line, "")
}

func (n *Normalizer) tag(line string) (string, bool) {
	for _, t := range n.tags {
		if strings.HasPrefix(line, t) {
			return t, true
		}
	}
	return "", false
}
