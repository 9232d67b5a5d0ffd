// Package export renders a parsed syllabus as an XLSX workbook or a CSV of its tasks.
package export

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"coursepilot/internal/domain"
)

// Sheet names in workbook order.
const (
	SheetCourse  = "Course"
	SheetEvents  = "Events"
	SheetTasks   = "Tasks"
	SheetGrading = "Grading"
)

var (
	eventHeaders   = []string{"Title", "Date", "Type", "Description", "Confidence"}
	taskHeaders    = []string{"Title", "Due", "Priority", "Course", "Type"}
	gradingHeaders = []string{"Component", "Weight"}
)

// ConfidenceFunc scores an event for the Events sheet.
type ConfidenceFunc func(domain.Event) int

// Workbook builds an XLSX workbook with Course, Events, Tasks and Grading sheets.
// confidence may be nil, in which case the Confidence column is left blank.
func Workbook(ps *domain.ParsedSyllabus, confidence ConfidenceFunc) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	// NewFile starts with "Sheet1"; rename it rather than leaving an empty sheet behind.
	if err := f.SetSheetName(f.GetSheetName(0), SheetCourse); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetEvents, SheetTasks, SheetGrading} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("new sheet %s: %w", name, err)
		}
	}

	w := &sheetWriter{f: f}
	w.rows(SheetCourse, [][]any{
		{"Name", ps.Course.Name},
		{"Instructor", ps.Course.Instructor},
		{"Credits", ps.Course.Credits},
	})

	events := [][]any{toRow(eventHeaders)}
	for _, ev := range ps.Events {
		var score any
		if confidence != nil {
			score = confidence(ev)
		}
		events = append(events, []any{ev.Title, ev.Date, string(ev.Type), ev.Description, score})
	}
	w.rows(SheetEvents, events)

	tasks := [][]any{toRow(taskHeaders)}
	for _, t := range ps.Tasks {
		tasks = append(tasks, []any{t.Title, t.Due, string(t.Priority), t.Course, t.Type})
	}
	w.rows(SheetTasks, tasks)

	grading := [][]any{toRow(gradingHeaders)}
	for _, c := range ps.Grading.Components {
		grading = append(grading, []any{c.Name, c.Weight})
	}
	w.rows(SheetGrading, grading)
	if w.err != nil {
		return nil, w.err
	}

	_ = f.SetColWidth(SheetCourse, "A", "A", 14)
	_ = f.SetColWidth(SheetCourse, "B", "B", 40)
	_ = f.SetColWidth(SheetEvents, "A", "A", 48)
	_ = f.SetColWidth(SheetEvents, "B", "C", 28)
	_ = f.SetColWidth(SheetEvents, "D", "D", 60)
	_ = f.SetColWidth(SheetTasks, "A", "A", 48)
	_ = f.SetColWidth(SheetTasks, "B", "B", 28)
	_ = f.SetColWidth(SheetGrading, "A", "A", 32)
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf, nil
}

type sheetWriter struct {
	f   *excelize.File
	err error
}

func (w *sheetWriter) rows(sheet string, rows [][]any) {
	for i, row := range rows {
		if w.err != nil {
			return
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			w.err = err
			return
		}
		if err := w.f.SetSheetRow(sheet, cell, &row); err != nil {
			w.err = fmt.Errorf("%s row %s: %w", sheet, strconv.Itoa(i+1), err)
		}
	}
}

func toRow(headers []string) []any {
	row := make([]any, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	return row
}
