package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"birthdays/internal/models"
)

// Field limits shared by submissions and owner-created birthdays.
const (
	MaxNameLength         = 100
	MaxNotesLength        = 500
	MaxCategoryLength     = 50
	MaxRelationshipLength = 50
	MaxSubmitterLength    = 50
	MaxEmailLength        = 254
	MaxDescriptionLength  = 200
	MinBirthYear          = 1900
)

// EmailPattern is the basic local@domain.tld shape accepted for submitter emails.
var EmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var (
	validate *validator.Validate
	once     sync.Once
)

// Get returns the singleton validator instance
func Get() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
			return fld.Name
		})

		_ = validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			if fl.Field().Kind() != reflect.String {
				return false
			}
			return strings.TrimSpace(fl.Field().String()) != ""
		})

		_ = validate.RegisterValidation("basic_email", func(fl validator.FieldLevel) bool {
			if fl.Field().Kind() != reflect.String {
				return false
			}
			return EmailPattern.MatchString(fl.Field().String())
		})
	})
	return validate
}

// FieldError describes one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors collects every field violation found in one input.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Has reports whether a violation was recorded for field.
func (e Errors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

func (e *Errors) add(field, message string) {
	*e = append(*e, FieldError{Field: field, Message: message})
}

// Struct runs the tag rules on s and converts failures to Errors.
func Struct(s any) Errors {
	err := Get().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Errors{{Field: "", Message: err.Error()}}
	}

	out := make(Errors, 0, len(verrs))
	for _, fe := range verrs {
		out.add(fe.Field(), message(fe))
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "basic_email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}

// Optional trims s and returns nil when nothing is left.
func Optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// OptionalPtr is Optional for inputs that may be absent.
func OptionalPtr(s *string) *string {
	if s == nil {
		return nil
	}
	return Optional(*s)
}

// ValidateDate parses raw and checks the year, when present, is within
// [1900, current year + 1].
func ValidateDate(field, raw string, now time.Time) (models.Date, *FieldError) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return models.Date{}, &FieldError{Field: field, Message: field + " is required"}
	}

	d, err := models.ParseDate(raw)
	if err != nil {
		return models.Date{}, &FieldError{Field: field, Message: field + " must be a calendar date (YYYY-MM-DD, or --MM-DD when the year is unknown)"}
	}

	maxYear := now.Year() + 1
	if d.HasYear() && (d.Year < MinBirthYear || d.Year > maxYear) {
		return models.Date{}, &FieldError{
			Field:   field,
			Message: fmt.Sprintf("%s year must be between %d and %d", field, MinBirthYear, maxYear),
		}
	}
	return d, nil
}

// ValidateDescription normalizes a sharing-link description.
func ValidateDescription(raw *string) (*string, Errors) {
	desc := OptionalPtr(raw)
	if desc != nil && len([]rune(*desc)) > MaxDescriptionLength {
		return nil, Errors{{
			Field:   "description",
			Message: fmt.Sprintf("description must be at most %d characters", MaxDescriptionLength),
		}}
	}
	return desc, nil
}
