package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDate is returned when a string is not a calendar date.
var ErrInvalidDate = errors.New("invalid date: expected YYYY-MM-DD or --MM-DD")

// Date is a calendar date whose year may be unknown (Year == 0).
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate builds a date with a known year.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

// HasYear reports whether the year is known.
func (d Date) HasYear() bool {
	return d.Year != 0
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d.Month == 0 && d.Day == 0
}

// SameMonthDay reports whether two dates fall on the same month and day.
func (d Date) SameMonthDay(other Date) bool {
	return d.Month == other.Month && d.Day == other.Day
}

// YearPtr returns the year for nullable storage.
func (d Date) YearPtr() *int {
	if !d.HasYear() {
		return nil
	}
	y := d.Year
	return &y
}

// String formats the date as YYYY-MM-DD, or --MM-DD when the year is unknown.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	if !d.HasYear() {
		return fmt.Sprintf("--%02d-%02d", int(d.Month), d.Day)
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalJSON encodes the date as its string form.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes the string forms accepted by ParseDate.
func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDate parses YYYY-MM-DD, --MM-DD or MM-DD. The year range is not
// checked here; callers decide what range is acceptable.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, ErrInvalidDate
	}

	var year int
	var rest string
	switch {
	case strings.HasPrefix(s, "--"):
		rest = s[2:]
	case len(s) == len("MM-DD"):
		rest = s
	case len(s) == len("YYYY-MM-DD") && s[4] == '-':
		y, err := atoiDigits(s[:4])
		if err != nil || y <= 0 {
			return Date{}, ErrInvalidDate
		}
		year = y
		rest = s[5:]
	default:
		return Date{}, ErrInvalidDate
	}

	if len(rest) != len("MM-DD") || rest[2] != '-' {
		return Date{}, ErrInvalidDate
	}
	month, err := atoiDigits(rest[:2])
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	day, err := atoiDigits(rest[3:])
	if err != nil {
		return Date{}, ErrInvalidDate
	}

	d := Date{Year: year, Month: time.Month(month), Day: day}
	if !d.valid() {
		return Date{}, ErrInvalidDate
	}
	return d, nil
}

// atoiDigits parses a field made only of ASCII digits. strconv.Atoi alone
// would also accept a sign.
func atoiDigits(s string) (int, error) {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, ErrInvalidDate
		}
	}
	return strconv.Atoi(s)
}

// valid checks the day exists in the month. Without a year, Feb 29 is allowed.
func (d Date) valid() bool {
	if d.Month < time.January || d.Month > time.December || d.Day < 1 {
		return false
	}
	year := d.Year
	if year == 0 {
		year = 2000
	}
	t := time.Date(year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
	return t.Month() == d.Month && t.Day() == d.Day
}
