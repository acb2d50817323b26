package ruleset

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// ErrNotFound is returned when a required lookup yields no candidates.
var ErrNotFound = errors.New("ruleset: not found")

// ErrUnavailable is returned when the data source cannot be queried.
var ErrUnavailable = errors.New("ruleset: data source unavailable")

// ErrDuplicateSlug is returned when a dataset repeats a slug within one table.
var ErrDuplicateSlug = errors.New("ruleset: duplicate slug")

// RecordError reports a row that failed validation at the data-source boundary.
type RecordError struct {
	Kind string
	ID   int64
	Err  error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("invalid %s record %d: %v", e.Kind, e.ID, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

var slugRe = regexp.MustCompile(`^[a-z]+(?:_[a-z]+)*$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugRe.MatchString(fl.Field().String())
	}); err != nil {
		panic("ruleset: registering slug validation: " + err.Error())
	}
	return v
}
