package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"coursepilot/internal/domain"
)

// BOM makes Excel on Windows read the CSV as UTF-8.
var BOM = []byte{0xEF, 0xBB, 0xBF}

var csvColumns = []string{"Title", "Due", "Priority", "Course", "Type", "Completed"}

// WriteTasksCSV writes the syllabus tasks as CSV with a header row, prefixed by BOM.
func WriteTasksCSV(w io.Writer, ps *domain.ParsedSyllabus) error {
	if _, err := w.Write(BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(csvColumns); err != nil {
		return err
	}
	for _, t := range ps.Tasks {
		course := t.Course
		if course == "" {
			course = ps.Course.Name
		}
		if err := cw.Write([]string{t.Title, t.Due, string(t.Priority), course, t.Type, "No"}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)
	multiUnderscore = regexp.MustCompile(`_{2,}`)
)

// SanitizeFilename makes a course name safe for Content-Disposition: runs of
// characters other than letters, digits, '-' and '_' become one '_', capped at 100 bytes.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "syllabus"
	}
	return s
}

// BuildFilename returns "{course}_{YYYY-MM-DD}.{ext}".
func BuildFilename(courseName, ext string, now time.Time) string {
	return fmt.Sprintf("%s_%s.%s", SanitizeFilename(courseName), now.Format("2006-01-02"), ext)
}
