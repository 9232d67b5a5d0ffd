package parser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"coursepilot/internal/domain"
	"coursepilot/internal/port"
)

// Stages at which a model parse can fail.
const (
	StageGenerate = "generate"
	StageEmpty    = "empty"
	StageSchema   = "schema"
	StageDecode   = "decode"
)

// ModelError is a failed language-model parse.
type ModelError struct {
	Stage string
	Err   error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("model parse failed at %s: %v", e.Stage, e.Err)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// ModelResult holds either a model-produced syllabus or the error that prevented one.
type ModelResult struct {
	Syllabus *domain.ParsedSyllabus
	Err      error
}

// OK reports whether the model produced a syllabus.
func (r ModelResult) OK() bool {
	return r.Err == nil && r.Syllabus != nil
}

// OrElse returns the model syllabus, or the fallback's result when the model failed.
func (r ModelResult) OrElse(fallback func() *domain.ParsedSyllabus) *domain.ParsedSyllabus {
	if r.OK() {
		return r.Syllabus
	}
	return fallback()
}

// ModelOptions configures generation for ModelParser.
type ModelOptions struct {
	Temperature   float64
	MaxTokens     int
	MaxInputChars int
}

// DefaultModelOptions favors deterministic output from the model.
var DefaultModelOptions = ModelOptions{
	Temperature:   0.1,
	MaxTokens:     2048,
	MaxInputChars: 4000,
}

// ModelParser asks a language model for a structured syllabus and degrades to
// a fallback parser on any failure. It implements port.TextParser.
type ModelParser struct {
	model    port.LanguageModel
	fallback port.TextParser
	opts     ModelOptions
	logger   *zap.Logger
}

// NewModelParser creates a ModelParser. Zero-valued options take the defaults.
func NewModelParser(model port.LanguageModel, fallback port.TextParser, opts ModelOptions, logger *zap.Logger) *ModelParser {
	if opts.Temperature <= 0 {
		opts.Temperature = DefaultModelOptions.Temperature
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultModelOptions.MaxTokens
	}
	if opts.MaxInputChars <= 0 {
		opts.MaxInputChars = DefaultModelOptions.MaxInputChars
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ModelParser{model: model, fallback: fallback, opts: opts, logger: logger}
}

// Parse returns the model's syllabus or, if the model fails for any reason,
// the fallback parser's result for the same text.
func (p *ModelParser) Parse(ctx context.Context, text string) *domain.ParsedSyllabus {
	result := p.Try(ctx, text)
	return result.OrElse(func() *domain.ParsedSyllabus {
		p.logger.Warn("model parse failed, using fallback parser", zap.Error(result.Err))
		return p.fallback.Parse(ctx, text)
	})
}

// Try runs the model path once without falling back.
func (p *ModelParser) Try(ctx context.Context, text string) ModelResult {
	prompt := BuildSyllabusPrompt(truncateRunes(text, p.opts.MaxInputChars))
	resp, err := p.model.Generate(ctx, port.GenerateRequest{
		Prompt:      prompt,
		Temperature: p.opts.Temperature,
		MaxTokens:   p.opts.MaxTokens,
	})
	if err != nil {
		return ModelResult{Err: &ModelError{Stage: StageGenerate, Err: err}}
	}

	raw := StripCodeFences(resp.Text)
	if raw == "" {
		return ModelResult{Err: &ModelError{Stage: StageEmpty, Err: errors.New("empty response from model")}}
	}
	if err := validateSyllabusJSON([]byte(raw)); err != nil {
		return ModelResult{Err: &ModelError{Stage: StageSchema, Err: err}}
	}

	var ps domain.ParsedSyllabus
	if err := json.Unmarshal([]byte(raw), &ps); err != nil {
		return ModelResult{Err: &ModelError{Stage: StageDecode, Err: err}}
	}
	normalize(&ps)

	p.logger.Debug("model parse succeeded",
		zap.String("model", resp.ModelUsed),
		zap.Int("events", len(ps.Events)),
		zap.Int("tasks", len(ps.Tasks)),
	)
	return ModelResult{Syllabus: &ps}
}

// StripCodeFences removes a surrounding markdown code fence and whitespace.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[i+1:]
	} else {
		s = ""
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// normalize replaces null collections so the record serializes like heuristic output.
func normalize(ps *domain.ParsedSyllabus) {
	if ps.Events == nil {
		ps.Events = []domain.Event{}
	}
	if ps.Tasks == nil {
		ps.Tasks = []domain.Task{}
	}
	if ps.Grading.Components == nil {
		ps.Grading.Components = []domain.GradingComponent{}
	}
}
