package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedType  = errors.New("unsupported file type")
	ErrEmptyExtraction  = errors.New("no text could be extracted")
	ErrExtractionFailed = errors.New("extraction failed")
	ErrSyncFailed       = errors.New("sync failed")
	ErrInvalidSyllabus  = errors.New("parsed syllabus is invalid")
	ErrMissingFile      = errors.New("no file uploaded")
	ErrFileTooLarge     = errors.New("file exceeds maximum allowed size")
	ErrUnauthorized     = errors.New("unauthorized")
)

// ExtractionError wraps a decoder failure with the media type that produced it.
// It matches ErrExtractionFailed with errors.Is and keeps the decoder's message.
type ExtractionError struct {
	MediaType MediaType
	Method    string
	Err       error
}

func (e *ExtractionError) Error() string {
	if e.Method == "" {
		return fmt.Sprintf("%s extraction failed: %v", e.MediaType, e.Err)
	}
	return fmt.Sprintf("%s extraction failed (%s): %v", e.MediaType, e.Method, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

func (e *ExtractionError) Is(target error) bool {
	return target == ErrExtractionFailed
}

// SyncError reports a store write failure after some entries may already have been appended.
type SyncError struct {
	TasksAdded  int
	EventsAdded int
	Err         error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync failed after %d tasks and %d events: %v", e.TasksAdded, e.EventsAdded, e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

func (e *SyncError) Is(target error) bool {
	return target == ErrSyncFailed
}
