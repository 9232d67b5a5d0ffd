package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"coursepilot/internal/domain"
	"coursepilot/internal/parser"
	"coursepilot/internal/service"
	"coursepilot/mocks"
)

func sampleSyllabus() *domain.ParsedSyllabus {
	return parser.ParseHeuristic("CS 101\nMidterm Exam: Monday, October 13, 2025\nProject due 11/20/2025")
}

func TestToDisplay_ComputedConfidence(t *testing.T) {
	ps := &domain.ParsedSyllabus{Events: []domain.Event{
		{Title: "Midterm Exam", Date: "Monday, October 13, 2025", Type: domain.EventTypeExam},
		{Title: "Reading", Date: "Oct 20, 2025", Type: domain.EventTypeReading},
		{Title: "Lab Event", Date: "11/03/2025", Type: domain.EventTypeLab},
		{Title: "Event Event", Date: "11-28-2025", Type: domain.EventTypeEvent},
	}}

	svc := service.NewSyncService(nil, nil, nil, nil)
	rows := svc.ToDisplay(ps)

	require.Len(t, rows, 4)
	assert.Equal(t, domain.DisplayEvent{Label: "Midterm Exam", Date: "Monday, October 13, 2025", Type: domain.EventTypeExam, Confidence: 95}, rows[0])
	assert.Equal(t, 90, rows[1].Confidence)
	assert.Equal(t, 80, rows[2].Confidence)
	assert.Equal(t, 70, rows[3].Confidence)
}

func TestToDisplay_Deterministic(t *testing.T) {
	svc := service.NewSyncService(nil, nil, nil, nil)
	ps := sampleSyllabus()

	assert.Equal(t, svc.ToDisplay(ps), svc.ToDisplay(ps))
	for _, row := range svc.ToDisplay(ps) {
		assert.GreaterOrEqual(t, row.Confidence, 0)
		assert.LessOrEqual(t, row.Confidence, 100)
	}
}

func TestConfidence_UnknownDateShape(t *testing.T) {
	assert.Equal(t, 70, service.Confidence(domain.Event{Title: "Quiz", Date: "week 5", Type: domain.EventTypeQuiz}))
}

func TestSync_AppendsTasksThenEvents(t *testing.T) {
	tasks := new(mocks.MockTaskStore)
	events := new(mocks.MockEventStore)
	ps := sampleSyllabus()
	require.Len(t, ps.Events, 2)

	var order []string
	tasks.On("AddTask", mock.Anything, mock.MatchedBy(func(nt domain.NewTask) bool {
		return !nt.Completed && nt.Course == "CS 101"
	})).Run(func(mock.Arguments) { order = append(order, "task") }).Return(&domain.TaskRecord{}, nil)
	events.On("AddEvent", mock.Anything, mock.MatchedBy(func(ne domain.NewEvent) bool {
		return ne.Time == domain.DefaultEventTime
	})).Run(func(mock.Arguments) { order = append(order, "event") }).Return(&domain.EventRecord{}, nil)

	svc := service.NewSyncService(tasks, events, nil, nil)
	result, err := svc.Sync(context.Background(), ps)

	require.NoError(t, err)
	assert.Equal(t, &domain.SyncResult{TasksAdded: 2, EventsAdded: 2}, result)
	assert.Equal(t, []string{"task", "task", "event", "event"}, order)
	tasks.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestSync_EventStoreFailureReportsCounts(t *testing.T) {
	tasks := new(mocks.MockTaskStore)
	events := new(mocks.MockEventStore)
	tasks.On("AddTask", mock.Anything, mock.Anything).Return(&domain.TaskRecord{}, nil)
	events.On("AddEvent", mock.Anything, mock.Anything).Return(&domain.EventRecord{}, nil).Once()
	events.On("AddEvent", mock.Anything, mock.Anything).Return(nil, errors.New("disk full")).Once()

	svc := service.NewSyncService(tasks, events, nil, nil)
	result, err := svc.Sync(context.Background(), sampleSyllabus())

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrSyncFailed)
	assert.NotErrorIs(t, err, domain.ErrExtractionFailed)
	var syncErr *domain.SyncError
	require.ErrorAs(t, err, &syncErr)
	assert.Equal(t, 2, syncErr.TasksAdded)
	assert.Equal(t, 1, syncErr.EventsAdded)
	assert.ErrorContains(t, err, "disk full")
}

func TestSync_TaskStoreFailureStopsBeforeEvents(t *testing.T) {
	tasks := new(mocks.MockTaskStore)
	events := new(mocks.MockEventStore)
	tasks.On("AddTask", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

	svc := service.NewSyncService(tasks, events, nil, nil)
	_, err := svc.Sync(context.Background(), sampleSyllabus())

	var syncErr *domain.SyncError
	require.ErrorAs(t, err, &syncErr)
	assert.Zero(t, syncErr.TasksAdded)
	events.AssertNotCalled(t, "AddEvent", mock.Anything, mock.Anything)
}

func TestSync_InvalidSyllabusWritesNothing(t *testing.T) {
	tasks := new(mocks.MockTaskStore)
	events := new(mocks.MockEventStore)
	ps := &domain.ParsedSyllabus{
		Course: domain.Course{Name: "ART 100"},
		Events: []domain.Event{{Title: "Party", Date: "06/01/2025", Type: "Party"}},
	}

	svc := service.NewSyncService(tasks, events, nil, nil)
	_, err := svc.Sync(context.Background(), ps)

	assert.ErrorIs(t, err, domain.ErrInvalidSyllabus)
	tasks.AssertNotCalled(t, "AddTask", mock.Anything, mock.Anything)
	events.AssertNotCalled(t, "AddEvent", mock.Anything, mock.Anything)
}
