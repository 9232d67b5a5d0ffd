package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"coursepilot/internal/domain"
	"coursepilot/internal/middleware"
)

// SupportedFormats is shown to the user when an upload is rejected.
const SupportedFormats = "PDF, PPTX, DOCX, JPG, PNG, GIF, BMP, TIFF"

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, msg, details string) {
	c.JSON(status, ErrorResponse{Error: msg, Details: details})
}

// MapDomainError translates domain errors to an HTTP status, a user-facing
// message and optional details.
func MapDomainError(err error) (status int, msg, details string) {
	switch {
	case errors.Is(err, domain.ErrMissingFile):
		return http.StatusBadRequest, "No file uploaded", ""
	case errors.Is(err, domain.ErrUnsupportedType):
		return http.StatusBadRequest, "Unsupported file type. Supported formats: " + SupportedFormats, err.Error()
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "File exceeds maximum allowed size", ""
	case errors.Is(err, domain.ErrEmptyExtraction):
		return http.StatusBadRequest, "No text could be extracted from the file. Please try again or upload a different file.", ""
	case errors.Is(err, domain.ErrInvalidSyllabus):
		return http.StatusBadRequest, "Invalid syllabus", err.Error()
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized", ""
	case errors.Is(err, domain.ErrExtractionFailed):
		return http.StatusInternalServerError, "Failed to parse syllabus", err.Error()
	case errors.Is(err, domain.ErrSyncFailed):
		return http.StatusInternalServerError, "Failed to sync syllabus", err.Error()
	default:
		return http.StatusInternalServerError, "Internal server error", ""
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, logger *zap.Logger, err error) {
	status, msg, details := MapDomainError(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err),
		)
	}
	_ = c.Error(err)
	RespondError(c, status, msg, details)
}
