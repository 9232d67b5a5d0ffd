package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DateShape identifies which date pattern matched.
type DateShape int

const (
	ShapeUnknown DateShape = iota
	ShapeWeekdayMonthDayYear
	ShapeMonthDayYear
	ShapeSlashed
	ShapeDashed
)

const (
	monthNames   = `(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?`
	weekdayNames = `(?:mon(?:day)?|tue(?:s(?:day)?)?|wed(?:nesday)?|thu(?:r(?:s(?:day)?)?)?|fri(?:day)?|sat(?:urday)?|sun(?:day)?)\.?`
	dayOfMonth   = `\d{1,2}(?:st|nd|rd|th)?`
)

type datePattern struct {
	shape DateShape
	re    *regexp.Regexp
}

// datePatterns are applied in priority order.
var datePatterns = []datePattern{
	{ShapeWeekdayMonthDayYear, regexp.MustCompile(`(?i)\b` + weekdayNames + `,?\s+` + monthNames + `\s+` + dayOfMonth + `,?\s+\d{4}\b`)},
	{ShapeMonthDayYear, regexp.MustCompile(`(?i)\b` + monthNames + `\s+` + dayOfMonth + `,?\s+\d{4}\b`)},
	{ShapeSlashed, regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{4}\b`)},
	{ShapeDashed, regexp.MustCompile(`\b\d{1,2}-\d{1,2}-\d{4}\b`)},
}

// contextRadius is the number of characters taken on each side of a date match.
const contextRadius = 200

type dateMatch struct {
	start, end int
	shape      DateShape
	text       string
}

func (m dateMatch) overlaps(o dateMatch) bool {
	return m.start < o.end && o.start < m.end
}

// findDates collects every match of every pattern, pattern priority first.
func findDates(text string) []dateMatch {
	var out []dateMatch
	for _, p := range datePatterns {
		for _, loc := range p.re.FindAllStringIndex(text, -1) {
			out = append(out, dateMatch{
				start: loc[0],
				end:   loc[1],
				shape: p.shape,
				text:  text[loc[0]:loc[1]],
			})
		}
	}
	return out
}

// ShapeOf reports which pattern a date string matches in full.
func ShapeOf(date string) DateShape {
	date = strings.TrimSpace(date)
	for _, p := range datePatterns {
		loc := p.re.FindStringIndex(date)
		if loc != nil && loc[0] == 0 && loc[1] == len(date) {
			return p.shape
		}
	}
	return ShapeUnknown
}

// contextWindow returns up to contextRadius characters on either side of the match.
func contextWindow(text string, start, end int) string {
	from := start
	for n := 0; n < contextRadius && from > 0; n++ {
		_, size := utf8.DecodeLastRuneInString(text[:from])
		from -= size
	}
	to := end
	for n := 0; n < contextRadius && to < len(text); n++ {
		_, size := utf8.DecodeRuneInString(text[to:])
		to += size
	}
	return text[from:to]
}
