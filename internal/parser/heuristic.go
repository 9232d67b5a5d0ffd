package parser

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"coursepilot/internal/domain"
)

// DedupPolicy controls how date matches from different patterns are merged.
type DedupPolicy string

const (
	// DedupOverlap drops a match whose span overlaps one already collected.
	DedupOverlap DedupPolicy = "overlap"
	// DedupNone keeps every match of every pattern.
	DedupNone DedupPolicy = "none"
	// DedupDateType applies DedupOverlap and then drops repeated (date, type) pairs.
	DedupDateType DedupPolicy = "date_type"
)

// ParseDedupPolicy converts a config value into a DedupPolicy. Empty means DedupOverlap.
func ParseDedupPolicy(s string) (DedupPolicy, error) {
	switch p := DedupPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return DedupOverlap, nil
	case DedupOverlap, DedupNone, DedupDateType:
		return p, nil
	default:
		return "", fmt.Errorf("unknown dedup policy: %q", s)
	}
}

const (
	maxTitleRunes       = 100
	maxDescriptionRunes = 100
)

var (
	reCourseCode    = regexp.MustCompile(`(?i)\b([a-z]{2,5}) ?(\d{3,4})([a-z]?)\b`)
	reCreditsSuffix = regexp.MustCompile(`(?i)\b(\d{1,2})\s*credits?\b`)
	reCreditsLabel  = regexp.MustCompile(`(?i)\bcredits?(?:\s+hours?)?\s*:\s*(\d{1,2})\b`)
)

// notCoursePrefix holds words that precede a number without naming a course.
var notCoursePrefix = map[string]bool{
	"fall": true, "spring": true, "summer": true, "winter": true, "term": true,
	"jan": true, "feb": true, "mar": true, "apr": true, "may": true, "jun": true,
	"june": true, "jul": true, "july": true, "aug": true, "sep": true, "sept": true,
	"oct": true, "nov": true, "dec": true, "year": true, "room": true, "suite": true,
	"page": true, "pages": true, "unit": true, "week": true, "ext": true, "box": true,
	"total": true, "of": true, "in": true, "by": true, "due": true, "at": true,
}

// HeuristicOptions configures a Heuristic parser.
type HeuristicOptions struct {
	Dedup DedupPolicy
}

// Heuristic is the rule-based syllabus parser. It is deterministic and safe for
// concurrent use.
type Heuristic struct {
	opts HeuristicOptions
}

// NewHeuristic creates a Heuristic parser.
func NewHeuristic(opts HeuristicOptions) *Heuristic {
	if opts.Dedup == "" {
		opts.Dedup = DedupOverlap
	}
	return &Heuristic{opts: opts}
}

var defaultHeuristic = NewHeuristic(HeuristicOptions{})

// ParseHeuristic parses text with the default options.
func ParseHeuristic(text string) *domain.ParsedSyllabus {
	return defaultHeuristic.ParseText(text)
}

// Parse implements port.TextParser.
func (h *Heuristic) Parse(_ context.Context, text string) *domain.ParsedSyllabus {
	return h.ParseText(text)
}

// ParseText turns plain syllabus text into a ParsedSyllabus. It never fails;
// undetected fields take their defaults.
func (h *Heuristic) ParseText(text string) *domain.ParsedSyllabus {
	lines := splitLines(text)
	course := domain.Course{
		Name:       courseName(lines),
		Instructor: instructor(lines),
		Credits:    credits(lines),
	}

	events := h.events(text)
	tasks := make([]domain.Task, 0, len(events))
	for _, ev := range events {
		tasks = append(tasks, domain.Task{
			Title:    ev.Title,
			Due:      ev.Date,
			Priority: PriorityFor(string(ev.Type)),
			Course:   course.Name,
			Type:     string(ev.Type),
		})
	}

	return &domain.ParsedSyllabus{
		Course:  course,
		Events:  events,
		Tasks:   tasks,
		Grading: extractGrading(text),
	}
}

func (h *Heuristic) events(text string) []domain.Event {
	matches := findDates(text)
	events := make([]domain.Event, 0, len(matches))
	var kept []dateMatch
	seen := make(map[string]bool)

	for _, m := range matches {
		if h.opts.Dedup != DedupNone && overlapsAny(m, kept) {
			continue
		}
		ev := buildEvent(text, m)
		if h.opts.Dedup == DedupDateType {
			key := ev.Date + "\x00" + string(ev.Type)
			if seen[key] {
				continue
			}
			seen[key] = true
		}
		kept = append(kept, m)
		events = append(events, ev)
	}
	return events
}

func overlapsAny(m dateMatch, kept []dateMatch) bool {
	for _, k := range kept {
		if m.overlaps(k) {
			return true
		}
	}
	return false
}

func buildEvent(text string, m dateMatch) domain.Event {
	window := contextWindow(text, m.start, m.end)
	eventType, keyword := classify(window)
	return domain.Event{
		Title:       titleFrom(window, eventType, keyword),
		Date:        m.text,
		Type:        eventType,
		Description: truncateRunes(window, maxDescriptionRunes) + "...",
	}
}

func titleFrom(window string, t domain.EventType, keyword string) string {
	if keyword != "" {
		for _, line := range strings.Split(window, "\n") {
			line = strings.TrimSpace(line)
			if line == "" || utf8.RuneCountInString(line) >= maxTitleRunes {
				continue
			}
			if strings.Contains(strings.ToLower(line), keyword) {
				return line
			}
		}
	}
	return DefaultTitle(t)
}

func courseName(lines []string) string {
	for _, line := range lines {
		for _, loc := range reCourseCode.FindAllStringSubmatchIndex(line, -1) {
			prefix := line[loc[2]:loc[3]]
			if notCoursePrefix[strings.ToLower(prefix)] {
				continue
			}
			// A percentage is a weight, not a course number.
			if strings.HasPrefix(strings.TrimLeft(line[loc[1]:], " "), "%") {
				continue
			}
			return strings.ToUpper(line[loc[0]:loc[1]])
		}
	}
	for _, line := range lines {
		if !strings.Contains(strings.ToLower(line), "course") {
			continue
		}
		if v := afterColon(line); v != "" {
			return v
		}
	}
	return domain.DefaultCourseName
}

func instructor(lines []string) string {
	for _, line := range lines {
		lower := strings.ToLower(line)
		if !strings.Contains(lower, "instructor") && !strings.Contains(lower, "professor") {
			continue
		}
		if v := afterColon(line); v != "" {
			return v
		}
	}
	return domain.DefaultInstructor
}

func credits(lines []string) int {
	for _, line := range lines {
		for _, re := range []*regexp.Regexp{reCreditsSuffix, reCreditsLabel} {
			if m := re.FindStringSubmatch(line); m != nil {
				if n, err := strconv.Atoi(m[1]); err == nil {
					return n
				}
			}
		}
	}
	return domain.DefaultCredits
}

func afterColon(line string) string {
	i := strings.Index(line, ":")
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(line[i+1:])
}

func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
