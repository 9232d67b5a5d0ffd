package domain

import (
	"time"

	"github.com/google/uuid"
)

// RawDocument is an uploaded file held in memory for the duration of one request.
type RawDocument struct {
	FileName    string
	ContentType string
	Content     []byte
}

// MediaType resolves the document's declared content type.
func (d RawDocument) MediaType() MediaType {
	return MediaTypeFor(d.ContentType)
}

// ExtractedText is the plain text produced by a format extractor.
type ExtractedText struct {
	Text      string    `json:"text"`
	MediaType MediaType `json:"media_type"`
	Method    string    `json:"method"`
	// Degraded is set when the generic byte decoder stood in for a structured one.
	Degraded bool     `json:"degraded"`
	Warnings []string `json:"warnings,omitempty"`
}

// Course holds the metadata detected for a syllabus.
type Course struct {
	Name       string `json:"name" validate:"required"`
	Instructor string `json:"instructor"`
	Credits    int    `json:"credits" validate:"gte=0"`
}

// Event is a dated item discovered in a syllabus.
type Event struct {
	Title       string    `json:"title" validate:"required"`
	Date        string    `json:"date" validate:"required"`
	Type        EventType `json:"type" validate:"required,oneof=Exam Assignment Quiz Reading Lab Presentation Event"`
	Description string    `json:"description,omitempty"`
}

// Task is an actionable item derived from an Event.
type Task struct {
	Title    string   `json:"title" validate:"required"`
	Due      string   `json:"due" validate:"required"`
	Priority Priority `json:"priority" validate:"required,oneof=high medium low"`
	Course   string   `json:"course"`
	Type     string   `json:"type"`
}

// GradingComponent is a weighted part of the final grade.
type GradingComponent struct {
	Name   string `json:"name" validate:"required"`
	Weight string `json:"weight" validate:"required"`
}

// Grading lists the grading components of a course.
type Grading struct {
	Components []GradingComponent `json:"components" validate:"dive"`
}

// ParsedSyllabus is the structured record extracted from a syllabus.
type ParsedSyllabus struct {
	Course  Course  `json:"course"`
	Events  []Event `json:"events" validate:"dive"`
	Tasks   []Task  `json:"tasks" validate:"dive"`
	Grading Grading `json:"grading"`
}

// DisplayEvent is an event annotated with a confidence score for presentation.
type DisplayEvent struct {
	Label      string    `json:"label"`
	Date       string    `json:"date"`
	Type       EventType `json:"type"`
	Confidence int       `json:"confidence"`
}

// NewTask is the payload appended to the task store.
type NewTask struct {
	Title     string
	Course    string
	Due       string
	Priority  Priority
	Completed bool
}

// NewEvent is the payload appended to the event store.
type NewEvent struct {
	Title       string
	Time        string
	Date        string
	Description string
}

// TaskRecord is a task as persisted by a task store.
type TaskRecord struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Course    string    `db:"course" json:"course"`
	Due       string    `db:"due" json:"due"`
	Priority  Priority  `db:"priority" json:"priority"`
	Completed bool      `db:"completed" json:"completed"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// EventRecord is a calendar event as persisted by an event store.
type EventRecord struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Time        string    `db:"time" json:"time"`
	Date        string    `db:"date" json:"date"`
	Description string    `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"updatedAt"`
}

// SyncResult reports how many entries a sync appended.
type SyncResult struct {
	TasksAdded  int `json:"tasksAdded"`
	EventsAdded int `json:"eventsAdded"`
}
