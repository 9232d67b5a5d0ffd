package parser_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"coursepilot/internal/domain"
	"coursepilot/internal/parser"
	"coursepilot/internal/port"
	"coursepilot/mocks"
)

const validModelJSON = `{
  "course": {"name": "PHYS 201", "instructor": "Dr. Curie", "credits": 4},
  "events": [{"title": "Midterm", "date": "March 3, 2025", "type": "Exam", "description": "Chapters 1-5"}],
  "tasks": [{"title": "Midterm", "due": "March 3, 2025", "priority": "high", "course": "PHYS 201", "type": "Exam"}],
  "grading": {"components": [{"name": "Midterm", "weight": "30%"}]}
}`

func newModelParser(model port.LanguageModel) *parser.ModelParser {
	return parser.NewModelParser(model, parser.NewHeuristic(parser.HeuristicOptions{}), parser.ModelOptions{}, nil)
}

func TestModelParser_Success(t *testing.T) {
	model := new(mocks.MockLanguageModel)
	text := "PHYS 201 syllabus"
	model.On("Generate", mock.Anything, mock.MatchedBy(func(req port.GenerateRequest) bool {
		return strings.Contains(req.Prompt, text) &&
			req.Temperature == 0.1 &&
			req.MaxTokens == 2048
	})).Return(&port.GenerateResponse{Text: "```json\n" + validModelJSON + "\n```", ModelUsed: "test-model"}, nil)

	p := newModelParser(model)
	result := p.Try(context.Background(), text)

	require.True(t, result.OK())
	assert.Equal(t, "PHYS 201", result.Syllabus.Course.Name)
	assert.Equal(t, 4, result.Syllabus.Course.Credits)
	require.Len(t, result.Syllabus.Events, 1)
	assert.Equal(t, domain.EventTypeExam, result.Syllabus.Events[0].Type)
	assert.Equal(t, domain.PriorityHigh, result.Syllabus.Tasks[0].Priority)
	model.AssertExpectations(t)
}

func TestModelParser_TruncatesInput(t *testing.T) {
	model := new(mocks.MockLanguageModel)
	text := strings.Repeat("a", 5000)
	model.On("Generate", mock.Anything, mock.MatchedBy(func(req port.GenerateRequest) bool {
		return strings.Contains(req.Prompt, strings.Repeat("a", 4000)) &&
			!strings.Contains(req.Prompt, strings.Repeat("a", 4001))
	})).Return(&port.GenerateResponse{Text: validModelJSON}, nil)

	p := newModelParser(model)
	ps := p.Parse(context.Background(), text)

	assert.Equal(t, "PHYS 201", ps.Course.Name)
	model.AssertExpectations(t)
}

func TestModelParser_NetworkErrorFallsBackToHeuristic(t *testing.T) {
	model := new(mocks.MockLanguageModel)
	text := "MATH 241 Midterm Exam: Wednesday, October 15, 2025. Credits: 4."
	model.On("Generate", mock.Anything, mock.Anything).Return(nil, errors.New("dial tcp: connection refused"))

	p := newModelParser(model)
	ps := p.Parse(context.Background(), text)

	assert.Equal(t, parser.ParseHeuristic(text), ps)
}

func TestModelParser_FailureStages(t *testing.T) {
	tests := []struct {
		name  string
		resp  *port.GenerateResponse
		err   error
		stage string
	}{
		{"generate error", nil, errors.New("timeout"), parser.StageGenerate},
		{"empty text", &port.GenerateResponse{Text: "  "}, nil, parser.StageEmpty},
		{"not json", &port.GenerateResponse{Text: "Sure! Here is the syllabus."}, nil, parser.StageSchema},
		{"unknown event type", &port.GenerateResponse{Text: `{"course":{"name":"X"},"events":[{"title":"a","date":"b","type":"Party"}],"tasks":[],"grading":{"components":[]}}`}, nil, parser.StageSchema},
		{"missing keys", &port.GenerateResponse{Text: `{"course":{"name":"X"}}`}, nil, parser.StageSchema},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model := new(mocks.MockLanguageModel)
			if tt.err != nil {
				model.On("Generate", mock.Anything, mock.Anything).Return(nil, tt.err)
			} else {
				model.On("Generate", mock.Anything, mock.Anything).Return(tt.resp, nil)
			}

			result := newModelParser(model).Try(context.Background(), "Homework 1: 10/03/2025")

			assert.False(t, result.OK())
			var modelErr *parser.ModelError
			require.ErrorAs(t, result.Err, &modelErr)
			assert.Equal(t, tt.stage, modelErr.Stage)

			fallback := result.OrElse(func() *domain.ParsedSyllabus {
				return parser.ParseHeuristic("Homework 1: 10/03/2025")
			})
			assert.Equal(t, domain.DefaultCourseName, fallback.Course.Name)
		})
	}
}

func TestModelParser_NullCollectionsNormalized(t *testing.T) {
	model := new(mocks.MockLanguageModel)
	model.On("Generate", mock.Anything, mock.Anything).Return(&port.GenerateResponse{
		Text: `{"course":{"name":"ART 100"},"events":[],"tasks":[],"grading":{}}`,
	}, nil)

	result := newModelParser(model).Try(context.Background(), "text")

	require.True(t, result.OK())
	assert.NotNil(t, result.Syllabus.Grading.Components)
	assert.Empty(t, result.Syllabus.Grading.Components)
}

func TestModelResult_OrElse(t *testing.T) {
	ok := &domain.ParsedSyllabus{Course: domain.Course{Name: "OK"}}
	fb := &domain.ParsedSyllabus{Course: domain.Course{Name: "fallback"}}
	called := false
	fallback := func() *domain.ParsedSyllabus {
		called = true
		return fb
	}

	assert.Same(t, ok, parser.ModelResult{Syllabus: ok}.OrElse(fallback))
	assert.False(t, called)

	assert.Same(t, fb, parser.ModelResult{Err: errors.New("boom")}.OrElse(fallback))
	assert.True(t, called)
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"  {\"a\":1}\n", `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}```", `{"a":1}`},
		{"```", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parser.StripCodeFences(tt.in))
	}
}

func TestBuildSyllabusPrompt(t *testing.T) {
	prompt := parser.BuildSyllabusPrompt("BIO 110 syllabus body")

	assert.True(t, strings.HasSuffix(prompt, "BIO 110 syllabus body"))
	for _, key := range []string{`"course"`, `"events"`, `"tasks"`, `"grading"`, `"components"`, `"weight"`} {
		assert.Contains(t, prompt, key)
	}
}
