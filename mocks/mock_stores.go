package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"coursepilot/internal/domain"
)

// MockTaskStore is a mock implementation of port.TaskStore.
type MockTaskStore struct {
	mock.Mock
}

func (m *MockTaskStore) AddTask(ctx context.Context, task domain.NewTask) (*domain.TaskRecord, error) {
	args := m.Called(ctx, task)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaskRecord), args.Error(1)
}

// MockEventStore is a mock implementation of port.EventStore.
type MockEventStore struct {
	mock.Mock
}

func (m *MockEventStore) AddEvent(ctx context.Context, event domain.NewEvent) (*domain.EventRecord, error) {
	args := m.Called(ctx, event)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EventRecord), args.Error(1)
}
