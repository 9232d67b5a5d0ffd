package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"coursepilot/internal/domain"
	"coursepilot/internal/export"
	"coursepilot/internal/service"
)

// multipartOverhead is allowed on top of the file size for form boundaries and headers.
const multipartOverhead = 1 << 20

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeCSV  = "text/csv; charset=utf-8"
)

// SyllabusHandler handles syllabus upload, display, sync and export endpoints.
type SyllabusHandler struct {
	syllabus       service.SyllabusService
	sync           service.SyncService
	maxUploadBytes int64
	logger         *zap.Logger
	now            func() time.Time
}

// NewSyllabusHandler creates a new SyllabusHandler. maxUploadBytes <= 0 disables the size limit.
func NewSyllabusHandler(syllabus service.SyllabusService, sync service.SyncService, maxUploadBytes int64, logger *zap.Logger) *SyllabusHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyllabusHandler{
		syllabus:       syllabus,
		sync:           sync,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
		now:            time.Now,
	}
}

// ParseSyllabus handles POST /api/parse-syllabus
// @Summary Parse an uploaded syllabus
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Syllabus (PDF, PPTX, DOCX or image)"
// @Success 200 {object} domain.ParsedSyllabus
// @Failure 400 {object} ErrorResponse "Missing file, unsupported type or no text"
// @Failure 413 {object} ErrorResponse "File too large"
// @Failure 500 {object} ErrorResponse "Extraction failed"
// @Router /parse-syllabus [post]
func (h *SyllabusHandler) ParseSyllabus(c *gin.Context) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+multipartOverhead)
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			HandleError(c, h.logger, domain.ErrFileTooLarge)
			return
		}
		HandleError(c, h.logger, domain.ErrMissingFile)
		return
	}
	defer func() { _ = file.Close() }()

	if h.maxUploadBytes > 0 && header.Size > h.maxUploadBytes {
		HandleError(c, h.logger, domain.ErrFileTooLarge)
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}

	doc := domain.RawDocument{
		FileName:    header.Filename,
		ContentType: domain.ResolveContentType(header.Header.Get("Content-Type"), header.Filename),
		Content:     content,
	}
	result, err := h.syllabus.HandleUpload(c.Request.Context(), doc)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}

	c.Header("X-Parse-Source", string(result.Source))
	setExtractionHeaders(c, result.Extraction)
	c.JSON(http.StatusOK, result.Syllabus)
}

// setExtractionHeaders reports how the text was extracted. Text from the
// generic byte decoder is flagged as degraded with its warnings.
func setExtractionHeaders(c *gin.Context, ext *domain.ExtractedText) {
	if ext == nil {
		return
	}
	c.Header("X-Extraction-Method", ext.Method)
	if !ext.Degraded {
		return
	}
	c.Header("X-Extraction-Degraded", "true")
	for _, w := range ext.Warnings {
		c.Writer.Header().Add("X-Extraction-Warning", w)
	}
}

// ParseText handles POST /api/parse-text
// @Summary Parse raw syllabus text
// @Accept text/plain
// @Produce json
// @Success 200 {object} domain.ParsedSyllabus
// @Failure 400 {object} ErrorResponse "Empty body"
// @Failure 413 {object} ErrorResponse "Body too large"
// @Router /parse-text [post]
func (h *SyllabusHandler) ParseText(c *gin.Context) {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			HandleError(c, h.logger, domain.ErrFileTooLarge)
			return
		}
		RespondError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	text := string(body)
	if strings.TrimSpace(text) == "" {
		HandleError(c, h.logger, domain.ErrEmptyExtraction)
		return
	}

	syllabus, source := h.syllabus.ParseText(c.Request.Context(), text)
	c.Header("X-Parse-Source", string(source))
	c.JSON(http.StatusOK, syllabus)
}

// Display handles POST /api/syllabus/display
// @Summary Annotate parsed events with confidence scores
// @Accept json
// @Produce json
// @Param body body domain.ParsedSyllabus true "Parsed syllabus"
// @Success 200 {array} domain.DisplayEvent
// @Router /syllabus/display [post]
func (h *SyllabusHandler) Display(c *gin.Context) {
	ps, ok := h.bindSyllabus(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.sync.ToDisplay(ps))
}

// Sync handles POST /api/syllabus/sync
// @Summary Append parsed tasks and events to the dashboard stores
// @Accept json
// @Produce json
// @Param body body domain.ParsedSyllabus true "Parsed syllabus"
// @Success 200 {object} domain.SyncResult
// @Failure 400 {object} ErrorResponse "Invalid syllabus"
// @Failure 500 {object} ErrorResponse "Store write failed"
// @Router /syllabus/sync [post]
func (h *SyllabusHandler) Sync(c *gin.Context) {
	ps, ok := h.bindSyllabus(c)
	if !ok {
		return
	}
	result, err := h.sync.Sync(c.Request.Context(), ps)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Export handles POST /api/syllabus/export?format=xlsx|csv
// @Summary Download a parsed syllabus as a spreadsheet
// @Accept json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string false "xlsx (default) or csv"
// @Param body body domain.ParsedSyllabus true "Parsed syllabus"
// @Router /syllabus/export [post]
func (h *SyllabusHandler) Export(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", "xlsx"))
	if format != "xlsx" && format != "csv" {
		RespondError(c, http.StatusBadRequest, "Unsupported export format", "format must be xlsx or csv")
		return
	}
	ps, ok := h.bindSyllabus(c)
	if !ok {
		return
	}

	filename := export.BuildFilename(ps.Course.Name, format, h.now())
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)

	if format == "csv" {
		c.Header("Content-Type", contentTypeCSV)
		c.Status(http.StatusOK)
		if err := export.WriteTasksCSV(c.Writer, ps); err != nil {
			h.logger.Error("csv export failed", zap.Error(err))
		}
		return
	}

	buf, err := export.Workbook(ps, service.Confidence)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	c.Data(http.StatusOK, contentTypeXLSX, buf.Bytes())
}

func (h *SyllabusHandler) bindSyllabus(c *gin.Context) (*domain.ParsedSyllabus, bool) {
	var ps domain.ParsedSyllabus
	if err := c.ShouldBindJSON(&ps); err != nil {
		RespondError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return nil, false
	}
	return &ps, true
}
