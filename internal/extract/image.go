package extract

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"coursepilot/internal/domain"
)

// reBoxNoise matches runs of box-drawing and bar characters tesseract emits for table borders.
var reBoxNoise = regexp.MustCompile(`[|¦│┃]{2,}`)

// ImageExtractor recognizes text in images with tesseract.
type ImageExtractor struct {
	runner Runner
	bin    string
	lang   string
}

// NewImageExtractor creates an ImageExtractor calling the tesseract binary at bin.
func NewImageExtractor(runner Runner, bin, lang string) *ImageExtractor {
	if bin == "" {
		bin = "tesseract"
	}
	if lang == "" {
		lang = "eng"
	}
	return &ImageExtractor{runner: runner, bin: bin, lang: lang}
}

func (e *ImageExtractor) Extract(ctx context.Context, doc domain.RawDocument) (*domain.ExtractedText, error) {
	subtype := domain.ImageSubtype(doc.ContentType)
	if subtype == "" {
		return nil, e.fail(fmt.Errorf("not an image content type: %q", doc.ContentType))
	}
	if len(doc.Content) == 0 {
		return nil, e.fail(errors.New("empty payload"))
	}

	var text string
	err := withTempFile(doc.Content, "."+imageExt(subtype), func(path string) error {
		// tesseract <file> stdout -l <lang>
		out, errb, err := e.runner.Run(ctx, e.bin, path, "stdout", "-l", e.lang)
		if err != nil {
			if msg := strings.TrimSpace(string(errb)); msg != "" {
				return fmt.Errorf("tesseract: %w: %s", err, msg)
			}
			return fmt.Errorf("tesseract: %w", err)
		}
		text = reBoxNoise.ReplaceAllString(string(out), "")
		return nil
	})
	if err != nil {
		return nil, e.fail(err)
	}

	return &domain.ExtractedText{
		Text:      text,
		MediaType: domain.MediaTypeImage,
		Method:    domain.MethodImageOCR,
	}, nil
}

func imageExt(subtype string) string {
	switch subtype {
	case "jpeg":
		return "jpg"
	case "tiff":
		return "tif"
	default:
		return subtype
	}
}

func (e *ImageExtractor) fail(err error) error {
	return &domain.ExtractionError{MediaType: domain.MediaTypeImage, Method: domain.MethodImageOCR, Err: err}
}
