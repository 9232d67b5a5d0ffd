package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"coursepilot/internal/domain"
)

const (
	nsWordprocessing = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsDrawing        = "http://schemas.openxmlformats.org/drawingml/2006/main"

	docxBodyPart = "word/document.xml"

	// maxPartSize bounds a single decompressed XML part.
	maxPartSize = 64 << 20
)

var reSlidePart = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// DOCXExtractor reads paragraph text from a word-processing document.
type DOCXExtractor struct{}

// NewDOCXExtractor creates a DOCXExtractor.
func NewDOCXExtractor() *DOCXExtractor {
	return &DOCXExtractor{}
}

func (e *DOCXExtractor) Extract(ctx context.Context, doc domain.RawDocument) (*domain.ExtractedText, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	reader, err := zip.NewReader(bytes.NewReader(doc.Content), int64(len(doc.Content)))
	if err != nil {
		return degraded(doc.Content, domain.MediaTypeDocument, "document is not a zip container, used generic decoding"), nil
	}

	part := findPart(reader, docxBodyPart)
	if part == nil {
		return nil, ooxmlError(domain.MediaTypeDocument, domain.MethodDOCXXML, fmt.Errorf("%s not found", docxBodyPart))
	}
	data, err := readPart(part)
	if err != nil {
		return nil, ooxmlError(domain.MediaTypeDocument, domain.MethodDOCXXML, err)
	}
	text, err := paragraphText(data, nsWordprocessing)
	if err != nil {
		return nil, ooxmlError(domain.MediaTypeDocument, domain.MethodDOCXXML, err)
	}

	return &domain.ExtractedText{
		Text:      text,
		MediaType: domain.MediaTypeDocument,
		Method:    domain.MethodDOCXXML,
	}, nil
}

// PPTXExtractor reads text from every slide of a presentation, in slide order.
type PPTXExtractor struct{}

// NewPPTXExtractor creates a PPTXExtractor.
func NewPPTXExtractor() *PPTXExtractor {
	return &PPTXExtractor{}
}

type slidePart struct {
	num  int
	file *zip.File
}

func (e *PPTXExtractor) Extract(ctx context.Context, doc domain.RawDocument) (*domain.ExtractedText, error) {
	reader, err := zip.NewReader(bytes.NewReader(doc.Content), int64(len(doc.Content)))
	if err != nil {
		return degraded(doc.Content, domain.MediaTypePresentation, "presentation is not a zip container, used generic decoding"), nil
	}

	var slides []slidePart
	for _, f := range reader.File {
		m := reSlidePart.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		slides = append(slides, slidePart{num: n, file: f})
	}
	if len(slides) == 0 {
		return nil, ooxmlError(domain.MediaTypePresentation, domain.MethodPPTXXML, errors.New("no slides found"))
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].num < slides[j].num })

	texts := make([]string, 0, len(slides))
	for _, s := range slides {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := readPart(s.file)
		if err != nil {
			return nil, ooxmlError(domain.MediaTypePresentation, domain.MethodPPTXXML, err)
		}
		text, err := paragraphText(data, nsDrawing)
		if err != nil {
			return nil, ooxmlError(domain.MediaTypePresentation, domain.MethodPPTXXML, fmt.Errorf("slide %d: %w", s.num, err))
		}
		if text != "" {
			texts = append(texts, text)
		}
	}

	return &domain.ExtractedText{
		Text:      strings.Join(texts, "\n\n"),
		MediaType: domain.MediaTypePresentation,
		Method:    domain.MethodPPTXXML,
	}, nil
}

func findPart(reader *zip.Reader, name string) *zip.File {
	for _, f := range reader.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func readPart(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", f.Name, err)
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(io.LimitReader(rc, maxPartSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", f.Name, err)
	}
	if len(data) > maxPartSize {
		return nil, fmt.Errorf("%s exceeds %d bytes", f.Name, maxPartSize)
	}
	return data, nil
}

// paragraphText walks an OOXML part and returns the text of its <p> elements
// in namespace ns, one paragraph per line. <t> carries text, <tab> and <br>
// become a tab and a newline.
func paragraphText(data []byte, ns string) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var (
		lines  []string
		cur    strings.Builder
		inText bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("decoding xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != ns {
				continue
			}
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				cur.WriteByte('\t')
			case "br", "cr":
				cur.WriteByte('\n')
			}
		case xml.EndElement:
			if t.Name.Space != ns {
				continue
			}
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				lines = append(lines, strings.TrimRight(cur.String(), " \t"))
				cur.Reset()
			}
		case xml.CharData:
			if inText {
				cur.Write(t)
			}
		}
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

func degraded(content []byte, mt domain.MediaType, warning string) *domain.ExtractedText {
	return &domain.ExtractedText{
		Text:      DecodeGeneric(content),
		MediaType: mt,
		Method:    domain.MethodGeneric,
		Degraded:  true,
		Warnings:  []string{warning},
	}
}

func ooxmlError(mt domain.MediaType, method string, err error) error {
	return &domain.ExtractionError{MediaType: mt, Method: method, Err: err}
}
