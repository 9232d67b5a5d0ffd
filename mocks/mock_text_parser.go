package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"coursepilot/internal/domain"
)

// MockTextParser is a mock implementation of port.TextParser.
type MockTextParser struct {
	mock.Mock
}

func (m *MockTextParser) Parse(ctx context.Context, text string) *domain.ParsedSyllabus {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*domain.ParsedSyllabus)
}
