package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"coursepilot/internal/domain"
)

// MockSyncService is a mock implementation of service.SyncService.
type MockSyncService struct {
	mock.Mock
}

func (m *MockSyncService) ToDisplay(ps *domain.ParsedSyllabus) []domain.DisplayEvent {
	args := m.Called(ps)
	return args.Get(0).([]domain.DisplayEvent)
}

func (m *MockSyncService) Sync(ctx context.Context, ps *domain.ParsedSyllabus) (*domain.SyncResult, error) {
	args := m.Called(ctx, ps)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SyncResult), args.Error(1)
}
