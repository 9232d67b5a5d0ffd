package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"coursepilot/internal/domain"
	"coursepilot/internal/port"
)

type taskStore struct {
	db *sqlx.DB
}

// NewTaskStore creates a new PostgreSQL-backed TaskStore.
func NewTaskStore(db *sqlx.DB) port.TaskStore {
	return &taskStore{db: db}
}

func (s *taskStore) AddTask(ctx context.Context, task domain.NewTask) (*domain.TaskRecord, error) {
	now := time.Now().UTC()
	rec := &domain.TaskRecord{
		ID:        uuid.New(),
		Title:     task.Title,
		Course:    task.Course,
		Due:       task.Due,
		Priority:  task.Priority,
		Completed: task.Completed,
		CreatedAt: now,
		UpdatedAt: now,
	}

	query := `INSERT INTO tasks (id, title, course, due, priority, completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := s.db.ExecContext(ctx, query,
		rec.ID, rec.Title, rec.Course, rec.Due, rec.Priority, rec.Completed, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("taskStore.AddTask: %w", err)
	}
	return rec, nil
}
