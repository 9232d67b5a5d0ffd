package service

import (
	"context"

	"go.uber.org/zap"

	"coursepilot/internal/domain"
	"coursepilot/internal/metrics"
	"coursepilot/internal/parser"
	"coursepilot/internal/port"
)

// SyncService converts parsed syllabi into display rows and store entries.
type SyncService interface {
	ToDisplay(ps *domain.ParsedSyllabus) []domain.DisplayEvent
	// Sync appends every task and every event of ps to the stores. Writes
	// completed before a failure are not rolled back; the returned
	// *domain.SyncError reports how many landed.
	Sync(ctx context.Context, ps *domain.ParsedSyllabus) (*domain.SyncResult, error)
}

type syncService struct {
	tasks   port.TaskStore
	events  port.EventStore
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewSyncService creates a SyncService.
func NewSyncService(tasks port.TaskStore, events port.EventStore, m *metrics.Metrics, logger *zap.Logger) SyncService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &syncService{tasks: tasks, events: events, metrics: m, logger: logger}
}

func (s *syncService) ToDisplay(ps *domain.ParsedSyllabus) []domain.DisplayEvent {
	if ps == nil {
		return []domain.DisplayEvent{}
	}
	out := make([]domain.DisplayEvent, 0, len(ps.Events))
	for _, ev := range ps.Events {
		out = append(out, domain.DisplayEvent{
			Label:      ev.Title,
			Date:       ev.Date,
			Type:       ev.Type,
			Confidence: Confidence(ev),
		})
	}
	return out
}

// Confidence scores how reliably an event was recognized, from 0 to 100.
// Fully spelled dates score highest; a default type or title lowers the score.
func Confidence(ev domain.Event) int {
	var score int
	switch parser.ShapeOf(ev.Date) {
	case parser.ShapeWeekdayMonthDayYear:
		score = 95
	case parser.ShapeMonthDayYear:
		score = 90
	case parser.ShapeSlashed, parser.ShapeDashed:
		score = 85
	default:
		score = 70
	}
	if ev.Type == domain.EventTypeEvent || ev.Type == "" {
		score -= 10
	}
	if ev.Title == "" || ev.Title == parser.DefaultTitle(ev.Type) {
		score -= 5
	}
	return clamp(score, 0, 100)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (s *syncService) Sync(ctx context.Context, ps *domain.ParsedSyllabus) (*domain.SyncResult, error) {
	if err := domain.ValidateSyllabus(ps); err != nil {
		return nil, err
	}

	result := &domain.SyncResult{}
	fail := func(err error) (*domain.SyncResult, error) {
		s.metrics.RecordSync(result.TasksAdded, result.EventsAdded, err)
		s.logger.Error("sync failed",
			zap.Int("tasks_added", result.TasksAdded),
			zap.Int("events_added", result.EventsAdded),
			zap.Error(err),
		)
		return nil, &domain.SyncError{TasksAdded: result.TasksAdded, EventsAdded: result.EventsAdded, Err: err}
	}

	for _, t := range ps.Tasks {
		course := t.Course
		if course == "" {
			course = ps.Course.Name
		}
		if _, err := s.tasks.AddTask(ctx, domain.NewTask{
			Title:     t.Title,
			Course:    course,
			Due:       t.Due,
			Priority:  t.Priority,
			Completed: false,
		}); err != nil {
			return fail(err)
		}
		result.TasksAdded++
	}

	for _, ev := range ps.Events {
		if _, err := s.events.AddEvent(ctx, domain.NewEvent{
			Title:       ev.Title,
			Time:        domain.DefaultEventTime,
			Date:        ev.Date,
			Description: ev.Description,
		}); err != nil {
			return fail(err)
		}
		result.EventsAdded++
	}

	s.metrics.RecordSync(result.TasksAdded, result.EventsAdded, nil)
	s.logger.Info("syllabus synced",
		zap.String("course", ps.Course.Name),
		zap.Int("tasks_added", result.TasksAdded),
		zap.Int("events_added", result.EventsAdded),
	)
	return result, nil
}
