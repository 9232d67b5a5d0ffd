package port

import (
	"context"

	"coursepilot/internal/domain"
)

// TextExtractor turns a raw document payload into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, doc domain.RawDocument) (*domain.ExtractedText, error)
}

// TextParser turns extracted syllabus text into a structured record.
// Implementations degrade to best-effort output instead of failing.
type TextParser interface {
	Parse(ctx context.Context, text string) *domain.ParsedSyllabus
}
