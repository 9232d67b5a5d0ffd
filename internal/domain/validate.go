package domain

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateSyllabus checks a ParsedSyllabus before it is written to the stores.
// Model output is not guaranteed to be well formed, so every event and task is checked.
func ValidateSyllabus(ps *ParsedSyllabus) error {
	if ps == nil {
		return fmt.Errorf("%w: empty record", ErrInvalidSyllabus)
	}
	if err := structValidator().Struct(ps); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidSyllabus, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidSyllabus, err)
	}
	return nil
}
