package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"coursepilot/internal/domain"
)

// PDFExtractor reads the text layer of a PDF with pdftotext.
type PDFExtractor struct {
	runner Runner
	bin    string
}

// NewPDFExtractor creates a PDFExtractor calling the pdftotext binary at bin.
func NewPDFExtractor(runner Runner, bin string) *PDFExtractor {
	if bin == "" {
		bin = "pdftotext"
	}
	return &PDFExtractor{runner: runner, bin: bin}
}

func (e *PDFExtractor) Extract(ctx context.Context, doc domain.RawDocument) (*domain.ExtractedText, error) {
	if len(doc.Content) == 0 {
		return nil, e.fail(errors.New("empty payload"))
	}

	var text string
	err := withTempFile(doc.Content, ".pdf", func(path string) error {
		// pdftotext -layout -enc UTF-8 -eol unix <path> -
		out, errb, err := e.runner.Run(ctx, e.bin, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
		if err != nil {
			if msg := strings.TrimSpace(string(errb)); msg != "" {
				return fmt.Errorf("pdftotext: %w: %s", err, msg)
			}
			return fmt.Errorf("pdftotext: %w", err)
		}
		text = string(out)
		return nil
	})
	if err != nil {
		return nil, e.fail(err)
	}

	// pdftotext separates pages with form feeds
	text = strings.ReplaceAll(text, "\f", "\n")
	return &domain.ExtractedText{
		Text:      text,
		MediaType: domain.MediaTypePDF,
		Method:    domain.MethodPDFText,
	}, nil
}

func (e *PDFExtractor) fail(err error) error {
	return &domain.ExtractionError{MediaType: domain.MediaTypePDF, Method: domain.MethodPDFText, Err: err}
}
