package parser

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"coursepilot/internal/domain"
)

const gradingLabel = `([A-Za-z][A-Za-z0-9 \t&/()'+-]*?)`

var gradingPatterns = []*regexp.Regexp{
	regexp.MustCompile(gradingLabel + `\s*:\s*(\d{1,3})\s*%`),
	regexp.MustCompile(gradingLabel + `\s*,\s*(\d{1,3})\s*%`),
}

func extractGrading(text string) domain.Grading {
	components := make([]domain.GradingComponent, 0)
	for _, re := range gradingPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			name := strings.TrimSpace(m[1])
			if !keepComponent(name) {
				continue
			}
			weight, err := strconv.Atoi(m[2])
			if err != nil {
				continue
			}
			components = append(components, domain.GradingComponent{
				Name:   name,
				Weight: strconv.Itoa(weight) + "%",
			})
		}
	}
	return domain.Grading{Components: components}
}

func keepComponent(name string) bool {
	if utf8.RuneCountInString(name) <= 3 {
		return false
	}
	return !strings.Contains(strings.ToLower(name), "total")
}
