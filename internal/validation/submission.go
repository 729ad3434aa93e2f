package validation

import (
	"strings"
	"time"

	"birthdays/internal/models"
)

// SubmissionInput is an anonymous birthday submission as received on the wire.
type SubmissionInput struct {
	Name           string `json:"name"`
	Date           string `json:"date"`
	Category       string `json:"category"`
	Notes          string `json:"notes"`
	SubmitterName  string `json:"submitterName"`
	SubmitterEmail string `json:"submitterEmail"`
	Relationship   string `json:"relationship"`
}

// Submission is a validated, normalized submission.
type Submission struct {
	Name           string      `json:"name" validate:"required,max=100"`
	Date           models.Date `json:"date"`
	Category       *string     `json:"category" validate:"omitempty,max=50"`
	Notes          *string     `json:"notes" validate:"omitempty,max=500"`
	SubmitterName  *string     `json:"submitterName" validate:"omitempty,max=50"`
	SubmitterEmail *string     `json:"submitterEmail" validate:"omitempty,max=254,basic_email"`
	Relationship   *string     `json:"relationship" validate:"omitempty,max=50"`
}

// ValidateSubmission trims and checks every field, returning all violations
// at once rather than stopping at the first.
func ValidateSubmission(in SubmissionInput, now time.Time) (*Submission, Errors) {
	out := &Submission{
		Name:           strings.TrimSpace(in.Name),
		Category:       Optional(in.Category),
		Notes:          Optional(in.Notes),
		SubmitterName:  Optional(in.SubmitterName),
		SubmitterEmail: Optional(in.SubmitterEmail),
		Relationship:   Optional(in.Relationship),
	}

	errs := Struct(out)

	date, dateErr := ValidateDate("date", in.Date, now)
	if dateErr != nil {
		errs = append(errs, *dateErr)
	}
	out.Date = date

	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}

// ToModel converts the validated fields into a pending submission for a link.
func (s *Submission) ToModel() *models.Submission {
	return &models.Submission{
		Name:           s.Name,
		Date:           s.Date,
		Category:       s.Category,
		Notes:          s.Notes,
		SubmitterName:  s.SubmitterName,
		SubmitterEmail: s.SubmitterEmail,
		Relationship:   s.Relationship,
		Status:         models.StatusPending,
	}
}

// BirthdayInput is an owner-created birthday as received on the wire.
type BirthdayInput struct {
	Name     string  `json:"name"`
	Date     string  `json:"date"`
	Category *string `json:"category"`
	Notes    *string `json:"notes"`
}

type birthdayFields struct {
	Name     string  `json:"name" validate:"required,max=100"`
	Category *string `json:"category" validate:"omitempty,max=50"`
	Notes    *string `json:"notes" validate:"omitempty,max=500"`
}

// ValidateBirthday applies the submission field rules to an owner-created
// birthday.
func ValidateBirthday(in BirthdayInput, now time.Time) (*models.Birthday, Errors) {
	fields := birthdayFields{
		Name:     strings.TrimSpace(in.Name),
		Category: OptionalPtr(in.Category),
		Notes:    OptionalPtr(in.Notes),
	}

	errs := Struct(fields)
	date, dateErr := ValidateDate("date", in.Date, now)
	if dateErr != nil {
		errs = append(errs, *dateErr)
	}
	if len(errs) > 0 {
		return nil, errs
	}

	return &models.Birthday{
		Name:     fields.Name,
		Date:     date,
		Category: fields.Category,
		Notes:    fields.Notes,
	}, nil
}
