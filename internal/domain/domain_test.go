package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursepilot/internal/domain"
)

func TestMediaTypeFor(t *testing.T) {
	tests := []struct {
		contentType string
		want        domain.MediaType
	}{
		{"application/pdf", domain.MediaTypePDF},
		{"Application/PDF; charset=binary", domain.MediaTypePDF},
		{domain.ContentTypePPTX, domain.MediaTypePresentation},
		{domain.ContentTypeDOCX, domain.MediaTypeDocument},
		{"image/png", domain.MediaTypeImage},
		{"image/tiff", domain.MediaTypeImage},
		{"application/zip", domain.MediaTypeUnsupported},
		{"", domain.MediaTypeUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.MediaTypeFor(tt.contentType))
		})
	}
}

func TestResolveContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", domain.ResolveContentType("application/pdf", "notes.docx"))
	assert.Equal(t, domain.ContentTypeDOCX, domain.ResolveContentType("", "Syllabus.DOCX"))
	assert.Equal(t, domain.ContentTypeJPEG, domain.ResolveContentType("application/octet-stream", "scan.jpeg"))
	assert.Equal(t, "application/octet-stream", domain.ResolveContentType("application/octet-stream", "archive.7z"))
	assert.Equal(t, "", domain.ResolveContentType("", "README"))
}

func TestImageSubtype(t *testing.T) {
	assert.Equal(t, "png", domain.ImageSubtype("image/png"))
	assert.Equal(t, "", domain.ImageSubtype("application/pdf"))
}

func TestRawDocument_MediaType(t *testing.T) {
	doc := domain.RawDocument{FileName: "a.pptx", ContentType: domain.ContentTypePPTX}
	assert.Equal(t, domain.MediaTypePresentation, doc.MediaType())
}

func validSyllabus() *domain.ParsedSyllabus {
	return &domain.ParsedSyllabus{
		Course: domain.Course{Name: "CS 101", Instructor: "Dr. Hopper", Credits: 3},
		Events: []domain.Event{{Title: "Midterm", Date: "March 3, 2025", Type: domain.EventTypeExam}},
		Tasks:  []domain.Task{{Title: "Midterm", Due: "March 3, 2025", Priority: domain.PriorityHigh}},
		Grading: domain.Grading{Components: []domain.GradingComponent{
			{Name: "Midterm", Weight: "30%"},
		}},
	}
}

func TestValidateSyllabus(t *testing.T) {
	assert.NoError(t, domain.ValidateSyllabus(validSyllabus()))

	err := domain.ValidateSyllabus(nil)
	assert.ErrorIs(t, err, domain.ErrInvalidSyllabus)

	tests := []struct {
		name   string
		mutate func(ps *domain.ParsedSyllabus)
		field  string
	}{
		{"missing course name", func(ps *domain.ParsedSyllabus) { ps.Course.Name = "" }, "Course.Name"},
		{"negative credits", func(ps *domain.ParsedSyllabus) { ps.Course.Credits = -1 }, "Course.Credits"},
		{"unknown event type", func(ps *domain.ParsedSyllabus) { ps.Events[0].Type = "Party" }, "Events[0].Type"},
		{"task without due", func(ps *domain.ParsedSyllabus) { ps.Tasks[0].Due = "" }, "Tasks[0].Due"},
		{"bad priority", func(ps *domain.ParsedSyllabus) { ps.Tasks[0].Priority = "urgent" }, "Tasks[0].Priority"},
		{"grading without weight", func(ps *domain.ParsedSyllabus) { ps.Grading.Components[0].Weight = "" }, "Components[0].Weight"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps := validSyllabus()
			tt.mutate(ps)

			err := domain.ValidateSyllabus(ps)

			require.ErrorIs(t, err, domain.ErrInvalidSyllabus)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestExtractionError(t *testing.T) {
	cause := errors.New("unexpected EOF")
	err := fmt.Errorf("parse: %w", &domain.ExtractionError{
		MediaType: domain.MediaTypeDocument,
		Method:    domain.MethodDOCXXML,
		Err:       cause,
	})

	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, domain.ErrSyncFailed)
	assert.Contains(t, err.Error(), "document extraction failed (docx-xml): unexpected EOF")

	bare := &domain.ExtractionError{MediaType: domain.MediaTypePDF, Err: cause}
	assert.Equal(t, "pdf extraction failed: unexpected EOF", bare.Error())
}

func TestSyncError(t *testing.T) {
	cause := errors.New("connection reset")
	err := &domain.SyncError{TasksAdded: 2, EventsAdded: 1, Err: cause}

	assert.ErrorIs(t, err, domain.ErrSyncFailed)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "sync failed after 2 tasks and 1 events: connection reset", err.Error())

	var syncErr *domain.SyncError
	require.ErrorAs(t, fmt.Errorf("wrapped: %w", err), &syncErr)
	assert.Equal(t, 2, syncErr.TasksAdded)
}
