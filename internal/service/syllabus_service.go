package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"coursepilot/internal/config"
	"coursepilot/internal/domain"
	"coursepilot/internal/metrics"
	"coursepilot/internal/parser"
	"coursepilot/internal/port"
)

// UploadResult is the outcome of one upload pipeline run.
type UploadResult struct {
	Syllabus   *domain.ParsedSyllabus
	State      domain.UploadState
	Trail      []domain.UploadState
	Source     domain.ParseSource
	Extraction *domain.ExtractedText
}

// ModelPath is the optional language-model parser.
type ModelPath interface {
	Try(ctx context.Context, text string) parser.ModelResult
}

// SyllabusService runs the ingestion pipeline for uploaded syllabi.
type SyllabusService interface {
	// HandleUpload extracts text from doc and parses it into a syllabus.
	// The returned result carries the state trail even when err is non-nil.
	HandleUpload(ctx context.Context, doc domain.RawDocument) (*UploadResult, error)
	// ParseText routes already-extracted text through the model or heuristic parser.
	ParseText(ctx context.Context, text string) (*domain.ParsedSyllabus, domain.ParseSource)
}

// SyllabusServiceConfig configures NewSyllabusService.
type SyllabusServiceConfig struct {
	// ModelCredential is the API key backing the model path. The model path is
	// skipped when it is empty or a placeholder.
	ModelCredential string
}

type syllabusService struct {
	extractor port.TextExtractor
	heuristic port.TextParser
	model     ModelPath
	useModel  bool
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewSyllabusService creates a SyllabusService. model may be nil.
func NewSyllabusService(
	extractor port.TextExtractor,
	heuristic port.TextParser,
	model ModelPath,
	cfg SyllabusServiceConfig,
	m *metrics.Metrics,
	logger *zap.Logger,
) SyllabusService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &syllabusService{
		extractor: extractor,
		heuristic: heuristic,
		model:     model,
		useModel:  model != nil && config.IsUsableCredential(cfg.ModelCredential),
		metrics:   m,
		logger:    logger,
	}
}

// run records the state machine of one upload.
type run struct {
	result *UploadResult
}

func newRun() *run {
	return &run{result: &UploadResult{
		State: domain.UploadStateIdle,
		Trail: []domain.UploadState{domain.UploadStateIdle},
	}}
}

func (r *run) to(state domain.UploadState) {
	r.result.State = state
	r.result.Trail = append(r.result.Trail, state)
}

func (s *syllabusService) HandleUpload(ctx context.Context, doc domain.RawDocument) (*UploadResult, error) {
	r := newRun()
	r.to(domain.UploadStateUploading)

	mt := doc.MediaType()
	log := s.logger.With(zap.String("file", doc.FileName), zap.String("media_type", string(mt)))

	fail := func(err error) (*UploadResult, error) {
		r.to(domain.UploadStateError)
		s.metrics.RecordUpload(string(mt), string(domain.UploadStateError))
		log.Warn("upload failed", zap.Error(err))
		return r.result, err
	}

	if mt == domain.MediaTypeUnsupported {
		return fail(fmt.Errorf("%w: %s", domain.ErrUnsupportedType, doc.ContentType))
	}

	start := time.Now()
	extracted, err := s.extractor.Extract(ctx, doc)
	s.metrics.ObserveExtraction(string(mt), time.Since(start))
	if err != nil {
		return fail(asExtractionError(mt, err))
	}
	r.result.Extraction = extracted
	r.to(domain.UploadStateParsing)

	if strings.TrimSpace(extracted.Text) == "" {
		return fail(domain.ErrEmptyExtraction)
	}
	if extracted.Degraded {
		s.metrics.RecordDegraded(string(mt))
		log.Warn("extraction degraded", zap.Strings("warnings", extracted.Warnings))
	}

	syllabus, source := s.ParseText(ctx, extracted.Text)
	r.result.Syllabus = syllabus
	r.result.Source = source
	r.to(domain.UploadStateSuccess)
	s.metrics.RecordUpload(string(mt), string(domain.UploadStateSuccess))

	log.Info("syllabus parsed",
		zap.String("source", string(source)),
		zap.String("method", extracted.Method),
		zap.Int("events", len(syllabus.Events)),
		zap.Int("grading_components", len(syllabus.Grading.Components)),
	)
	return r.result, nil
}

func (s *syllabusService) ParseText(ctx context.Context, text string) (*domain.ParsedSyllabus, domain.ParseSource) {
	source := domain.ParseSourceHeuristic
	var syllabus *domain.ParsedSyllabus

	if s.useModel {
		result := s.model.Try(ctx, text)
		if result.OK() {
			source = domain.ParseSourceModel
		} else {
			s.logger.Warn("model parse failed, falling back to heuristic parser", zap.Error(result.Err))
		}
		syllabus = result.OrElse(func() *domain.ParsedSyllabus {
			return s.heuristic.Parse(ctx, text)
		})
	} else {
		syllabus = s.heuristic.Parse(ctx, text)
	}

	s.metrics.RecordParse(string(source), len(syllabus.Events))
	return syllabus, source
}

// asExtractionError keeps extractor errors that already carry ErrExtractionFailed
// and wraps anything else with the media type.
func asExtractionError(mt domain.MediaType, err error) error {
	if errors.Is(err, domain.ErrExtractionFailed) || errors.Is(err, domain.ErrUnsupportedType) {
		return err
	}
	return &domain.ExtractionError{MediaType: mt, Err: err}
}
