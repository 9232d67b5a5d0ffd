package port

import (
	"context"

	"coursepilot/internal/domain"
)

// TaskStore is the append-only contract the sync step needs from the dashboard task list.
type TaskStore interface {
	AddTask(ctx context.Context, task domain.NewTask) (*domain.TaskRecord, error)
}

// EventStore is the append-only contract the sync step needs from the dashboard calendar.
type EventStore interface {
	AddEvent(ctx context.Context, event domain.NewEvent) (*domain.EventRecord, error)
}
