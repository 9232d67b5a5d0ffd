// Package memory provides process-local task and event stores. They back
// the server when no database is configured and the CLI sync command.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"coursepilot/internal/domain"
	"coursepilot/internal/port"
)

// TaskStore appends tasks to an in-memory list.
type TaskStore struct {
	mu    sync.RWMutex
	tasks []domain.TaskRecord
	now   func() time.Time
}

// NewTaskStore creates an empty TaskStore.
func NewTaskStore() *TaskStore {
	return &TaskStore{now: utcNow}
}

var _ port.TaskStore = (*TaskStore)(nil)

func (s *TaskStore) AddTask(ctx context.Context, task domain.NewTask) (*domain.TaskRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	now := s.now()
	rec := domain.TaskRecord{
		ID:        uuid.New(),
		Title:     task.Title,
		Course:    task.Course,
		Due:       task.Due,
		Priority:  task.Priority,
		Completed: task.Completed,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.tasks = append(s.tasks, rec)
	s.mu.Unlock()
	return &rec, nil
}

// Tasks returns a copy of every stored task in insertion order.
func (s *TaskStore) Tasks() []domain.TaskRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.TaskRecord, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// EventStore appends calendar events to an in-memory list.
type EventStore struct {
	mu     sync.RWMutex
	events []domain.EventRecord
	now    func() time.Time
}

// NewEventStore creates an empty EventStore.
func NewEventStore() *EventStore {
	return &EventStore{now: utcNow}
}

var _ port.EventStore = (*EventStore)(nil)

func (s *EventStore) AddEvent(ctx context.Context, event domain.NewEvent) (*domain.EventRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	now := s.now()
	rec := domain.EventRecord{
		ID:          uuid.New(),
		Title:       event.Title,
		Time:        event.Time,
		Date:        event.Date,
		Description: event.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.mu.Lock()
	s.events = append(s.events, rec)
	s.mu.Unlock()
	return &rec, nil
}

// Events returns a copy of every stored event in insertion order.
func (s *EventStore) Events() []domain.EventRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.EventRecord, len(s.events))
	copy(out, s.events)
	return out
}

func utcNow() time.Time { return time.Now().UTC() }
