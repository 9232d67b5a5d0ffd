package extract

import (
	"bytes"
	"regexp"
	"strings"
	"unicode/utf8"
)

var reWhitespaceRun = regexp.MustCompile(`\s+`)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeGeneric decodes bytes as UTF-8. Invalid UTF-8 is read as Latin-1,
// keeping only printable ASCII plus newline, carriage return and tab, with
// whitespace runs collapsed to single spaces.
func DecodeGeneric(content []byte) string {
	if utf8.Valid(content) {
		return string(bytes.TrimPrefix(content, utf8BOM))
	}

	var b strings.Builder
	b.Grow(len(content))
	for _, c := range content {
		if c == '\n' || c == '\r' || c == '\t' || (c >= 0x20 && c <= 0x7E) {
			b.WriteByte(c)
		}
	}
	return strings.TrimSpace(reWhitespaceRun.ReplaceAllString(b.String(), " "))
}
