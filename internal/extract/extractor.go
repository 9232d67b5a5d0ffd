// Package extract turns uploaded documents into plain text, one extractor per
// media type.
package extract

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"coursepilot/internal/domain"
	"coursepilot/internal/port"
)

// Options configures New.
type Options struct {
	Pdftotext     string
	Tesseract     string
	TesseractLang string
	// Timeout bounds a single extraction. Zero means no limit beyond the caller's context.
	Timeout time.Duration
	Runner  Runner
	Logger  *zap.Logger
}

// Registry dispatches a document to the extractor for its media type.
// It implements port.TextExtractor.
type Registry struct {
	extractors map[domain.MediaType]port.TextExtractor
	timeout    time.Duration
	logger     *zap.Logger
}

// New creates a Registry with the PDF, presentation, document and image extractors.
func New(opts Options) *Registry {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Runner == nil {
		opts.Runner = NewExecRunner(opts.Logger)
	}
	return &Registry{
		extractors: map[domain.MediaType]port.TextExtractor{
			domain.MediaTypePDF:          NewPDFExtractor(opts.Runner, opts.Pdftotext),
			domain.MediaTypePresentation: NewPPTXExtractor(),
			domain.MediaTypeDocument:     NewDOCXExtractor(),
			domain.MediaTypeImage:        NewImageExtractor(opts.Runner, opts.Tesseract, opts.TesseractLang),
		},
		timeout: opts.Timeout,
		logger:  opts.Logger,
	}
}

// Register replaces the extractor for a media type.
func (r *Registry) Register(mt domain.MediaType, e port.TextExtractor) {
	r.extractors[mt] = e
}

// Lookup returns the extractor for a media type.
func (r *Registry) Lookup(mt domain.MediaType) (port.TextExtractor, bool) {
	e, ok := r.extractors[mt]
	return e, ok
}

// Supports reports whether a media type has an extractor.
func (r *Registry) Supports(mt domain.MediaType) bool {
	_, ok := r.extractors[mt]
	return ok
}

func (r *Registry) Extract(ctx context.Context, doc domain.RawDocument) (*domain.ExtractedText, error) {
	mt := doc.MediaType()
	e, ok := r.Lookup(mt)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, doc.ContentType)
	}
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	out, err := e.Extract(ctx, doc)
	if err != nil {
		r.logger.Warn("extraction failed",
			zap.String("media_type", string(mt)),
			zap.String("file", doc.FileName),
			zap.Error(err),
		)
		return nil, err
	}
	r.logger.Debug("extracted text",
		zap.String("media_type", string(mt)),
		zap.String("method", out.Method),
		zap.Bool("degraded", out.Degraded),
		zap.Int("chars", len(out.Text)),
		zap.Duration("duration", time.Since(start)),
	)
	return out, nil
}
