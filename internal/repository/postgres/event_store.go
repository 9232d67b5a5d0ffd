package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"coursepilot/internal/domain"
	"coursepilot/internal/port"
)

type eventStore struct {
	db *sqlx.DB
}

// NewEventStore creates a new PostgreSQL-backed EventStore.
func NewEventStore(db *sqlx.DB) port.EventStore {
	return &eventStore{db: db}
}

func (s *eventStore) AddEvent(ctx context.Context, event domain.NewEvent) (*domain.EventRecord, error) {
	now := time.Now().UTC()
	rec := &domain.EventRecord{
		ID:          uuid.New(),
		Title:       event.Title,
		Time:        event.Time,
		Date:        event.Date,
		Description: event.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// description is optional; store NULL rather than an empty string
	description := sql.NullString{String: rec.Description, Valid: rec.Description != ""}

	query := `INSERT INTO events (id, title, time, date, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.db.ExecContext(ctx, query,
		rec.ID, rec.Title, rec.Time, rec.Date, description, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("eventStore.AddEvent: %w", err)
	}
	return rec, nil
}
