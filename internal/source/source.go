package source

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pbaille/worktime/internal/ics"
	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// maxBody caps how much of a remote export is read.
const maxBody = 5 * 1024 * 1024

// Reader loads calendar exports from files or URLs as raw lines
type Reader struct {
	client *http.Client
	logger *zap.Logger

	// Window and zone used when the input is an iCalendar file
	From, To time.Time
	Location *time.Location
}

// New creates a Reader whose iCalendar window is the week starting today
func New(logger *zap.Logger) *Reader {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	return &Reader{
		client:   &http.Client{Timeout: 30 * time.Second},
		logger:   logger,
		From:     from,
		To:       from.AddDate(0, 0, 7),
		Location: time.Local,
	}
}

// Read returns the lines of the export at location, a path or an http(s) URL
func (r *Reader) Read(location string) ([]string, error) {
	if IsURL(location) {
		return r.fetch(location)
	}

	data, err := os.ReadFile(location)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	r.logger.Debug("Read input file", zap.String("path", location), zap.Int("bytes", len(data)))

	if isCalendarPath(location) {
		return r.calendarLines(data)
	}
	return SplitLines(string(data)), nil
}

// IsURL checks if a string looks like a URL
func IsURL(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "http://") ||
		strings.HasPrefix(s, "https://") ||
		strings.HasPrefix(s, "www.")
}

// SplitLines splits text into lines, dropping the terminators
func SplitLines(text string) []string {
	text = strings.TrimSuffix(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

func (r *Reader) fetch(rawURL string) ([]string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme == "" {
		u, err = url.Parse("https://" + strings.TrimSpace(rawURL))
		if err != nil {
			return nil, fmt.Errorf("invalid URL: %w", err)
		}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}

	req, err := http.NewRequest("GET", u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "worktime/1.0")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	r.logger.Debug("Fetched input",
		zap.String("url", u.String()),
		zap.String("content_type", mediaType),
		zap.Int("bytes", len(body)))

	switch {
	case mediaType == "text/calendar" || isCalendarPath(u.Path):
		return r.calendarLines(body)
	case mediaType == "text/html":
		lines := extractLines(string(body))
		if len(lines) == 0 {
			return nil, fmt.Errorf("no text content found")
		}
		return lines, nil
	default:
		return SplitLines(string(body)), nil
	}
}

func (r *Reader) calendarLines(data []byte) ([]string, error) {
	lines, err := ics.Lines(bytes.NewReader(data), r.From, r.To, r.Location)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("Expanded calendar",
		zap.Time("from", r.From),
		zap.Time("to", r.To),
		zap.Int("lines", len(lines)))
	return lines, nil
}

func isCalendarPath(p string) bool {
	return strings.EqualFold(filepath.Ext(p), ".ics")
}

// extractLines parses HTML and returns one line of readable text per block element
func extractLines(htmlContent string) []string {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil
	}

	var sb strings.Builder
	var extract func(*html.Node)

	// Tags to skip (non-content)
	skipTags := map[string]bool{
		"script": true, "style": true, "nav": true,
		"header": true, "footer": true, "aside": true,
		"noscript": true, "iframe": true, "head": true,
	}

	extract = func(n *html.Node) {
		if n.Type == html.ElementNode && skipTags[n.Data] {
			return
		}

		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}

		if n.Type == html.ElementNode {
			switch n.Data {
			case "p", "div", "h1", "h2", "h3", "h4", "h5", "h6", "li", "br", "tr", "pre":
				sb.WriteString("\n")
			}
		}
	}

	extract(doc)

	var lines []string
	for _, line := range strings.Split(sb.String(), "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
