package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"coursepilot/internal/domain"
	"coursepilot/internal/service"
)

// MockSyllabusService is a mock implementation of service.SyllabusService.
type MockSyllabusService struct {
	mock.Mock
}

func (m *MockSyllabusService) HandleUpload(ctx context.Context, doc domain.RawDocument) (*service.UploadResult, error) {
	args := m.Called(ctx, doc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UploadResult), args.Error(1)
}

func (m *MockSyllabusService) ParseText(ctx context.Context, text string) (*domain.ParsedSyllabus, domain.ParseSource) {
	args := m.Called(ctx, text)
	return args.Get(0).(*domain.ParsedSyllabus), args.Get(1).(domain.ParseSource)
}
