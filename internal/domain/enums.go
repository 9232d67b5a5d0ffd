package domain

import (
	"mime"
	"path"
	"strings"
)

// MediaType classifies an uploaded document by the extractor that can read it.
type MediaType string

const (
	MediaTypePDF          MediaType = "pdf"
	MediaTypePresentation MediaType = "presentation"
	MediaTypeDocument     MediaType = "document"
	MediaTypeImage        MediaType = "image"
	MediaTypeUnsupported  MediaType = "unsupported"
)

// Content types accepted at the upload boundary.
const (
	ContentTypePDF  = "application/pdf"
	ContentTypePPTX = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	ContentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	ContentTypeJPEG = "image/jpeg"
	ContentTypePNG  = "image/png"
	ContentTypeGIF  = "image/gif"
	ContentTypeBMP  = "image/bmp"
	ContentTypeTIFF = "image/tiff"
)

// AllowedContentTypes maps MIME content types to the MediaType that handles them.
var AllowedContentTypes = map[string]MediaType{
	ContentTypePDF:  MediaTypePDF,
	ContentTypePPTX: MediaTypePresentation,
	ContentTypeDOCX: MediaTypeDocument,
	ContentTypeJPEG: MediaTypeImage,
	ContentTypePNG:  MediaTypeImage,
	ContentTypeGIF:  MediaTypeImage,
	ContentTypeBMP:  MediaTypeImage,
	ContentTypeTIFF: MediaTypeImage,
}

// AllowedExtensions maps file extensions (without dot) to content types.
var AllowedExtensions = map[string]string{
	"pdf":  ContentTypePDF,
	"pptx": ContentTypePPTX,
	"docx": ContentTypeDOCX,
	"jpg":  ContentTypeJPEG,
	"jpeg": ContentTypeJPEG,
	"png":  ContentTypePNG,
	"gif":  ContentTypeGIF,
	"bmp":  ContentTypeBMP,
	"tif":  ContentTypeTIFF,
	"tiff": ContentTypeTIFF,
}

// NormalizeContentType lowercases a content type and strips its parameters.
func NormalizeContentType(contentType string) string {
	ct := strings.TrimSpace(contentType)
	if ct == "" {
		return ""
	}
	if parsed, _, err := mime.ParseMediaType(ct); err == nil {
		return parsed
	}
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

// MediaTypeFor resolves a declared content type to its MediaType.
func MediaTypeFor(contentType string) MediaType {
	if mt, ok := AllowedContentTypes[NormalizeContentType(contentType)]; ok {
		return mt
	}
	return MediaTypeUnsupported
}

// ResolveContentType returns the declared content type, or the type implied by
// the file extension when the declared one is empty or application/octet-stream.
func ResolveContentType(declared, fileName string) string {
	ct := NormalizeContentType(declared)
	if ct != "" && ct != "application/octet-stream" {
		return ct
	}
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(fileName), "."))
	if mapped, ok := AllowedExtensions[ext]; ok {
		return mapped
	}
	return ct
}

// ImageSubtype returns the subtype of an image content type ("png" for "image/png").
func ImageSubtype(contentType string) string {
	ct := NormalizeContentType(contentType)
	if !strings.HasPrefix(ct, "image/") {
		return ""
	}
	return strings.TrimPrefix(ct, "image/")
}

// EventType classifies a calendar event found in a syllabus.
type EventType string

const (
	EventTypeExam         EventType = "Exam"
	EventTypeAssignment   EventType = "Assignment"
	EventTypeQuiz         EventType = "Quiz"
	EventTypeReading      EventType = "Reading"
	EventTypeLab          EventType = "Lab"
	EventTypePresentation EventType = "Presentation"
	EventTypeEvent        EventType = "Event"
)

// Priority is the urgency assigned to a derived task.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// UploadState is a step of the upload state machine.
type UploadState string

const (
	UploadStateIdle      UploadState = "idle"
	UploadStateUploading UploadState = "uploading"
	UploadStateParsing   UploadState = "parsing"
	UploadStateSuccess   UploadState = "success"
	UploadStateError     UploadState = "error"
)

// ParseSource records which parser produced a ParsedSyllabus.
type ParseSource string

const (
	ParseSourceModel     ParseSource = "model"
	ParseSourceHeuristic ParseSource = "heuristic"
)

// Extraction methods reported on ExtractedText.
const (
	MethodPDFText  = "pdf-text"
	MethodDOCXXML  = "docx-xml"
	MethodPPTXXML  = "pptx-xml"
	MethodImageOCR = "image-ocr"
	MethodGeneric  = "generic"
)

// Defaults used when the parser cannot detect a value.
const (
	DefaultCourseName = "Unknown Course"
	DefaultInstructor = "Unknown Instructor"
	DefaultCredits    = 3
	DefaultEventTime  = "All Day"
)
