package parser

import (
	"strings"

	"coursepilot/internal/domain"
)

type typeKeywords struct {
	Type     domain.EventType
	Keywords []string
}

// eventKeywords is searched in order; the first type with a keyword present
// in the context wins.
var eventKeywords = []typeKeywords{
	{Type: domain.EventTypeExam, Keywords: []string{"exam", "midterm", "final", "test"}},
	{Type: domain.EventTypeAssignment, Keywords: []string{"assignment", "homework", "hw", "project", "paper"}},
	{Type: domain.EventTypeQuiz, Keywords: []string{"quiz", "pop quiz"}},
	{Type: domain.EventTypeReading, Keywords: []string{"reading", "read chapters", "read"}},
	{Type: domain.EventTypeLab, Keywords: []string{"lab", "laboratory"}},
	{Type: domain.EventTypePresentation, Keywords: []string{"presentation", "present"}},
}

// classify returns the event type for a context window and the keyword that
// selected it. The keyword is empty when nothing matched.
func classify(context string) (domain.EventType, string) {
	lower := strings.ToLower(context)
	for _, entry := range eventKeywords {
		for _, kw := range entry.Keywords {
			if strings.Contains(lower, kw) {
				return entry.Type, kw
			}
		}
	}
	return domain.EventTypeEvent, ""
}

// PriorityFor maps an event type to a task priority.
func PriorityFor(eventType string) domain.Priority {
	lower := strings.ToLower(eventType)
	switch {
	case strings.Contains(lower, "exam"), strings.Contains(lower, "final"):
		return domain.PriorityHigh
	case strings.Contains(lower, "project"), strings.Contains(lower, "assignment"):
		return domain.PriorityMedium
	default:
		return domain.PriorityLow
	}
}

// DefaultTitle is the title used when no context line names the event.
func DefaultTitle(t domain.EventType) string {
	return string(t) + " Event"
}
