package domain

import (
	"fmt"
	"time"
)

// StaffStatus enumerates the legal/work status of an employee.
type StaffStatus string

const (
	StatusFullTime      StaffStatus = "full_time"
	StatusPartTime      StaffStatus = "part_time"
	StatusHighSchool    StaffStatus = "high_school"
	StatusInternational StaffStatus = "international"

	// StatusUnknown is filled in when a preference row has no matching
	// staff record during grid construction.
	StatusUnknown StaffStatus = "unknown"

	// StatusHelp marks the synthetic overflow worker.
	StatusHelp StaffStatus = "help"
)

// Valid reports whether s is a status accepted on registration.
func (s StaffStatus) Valid() bool {
	switch s {
	case StatusFullTime, StatusPartTime, StatusHighSchool, StatusInternational:
		return true
	}
	return false
}

// Staff is an employee on the store roster. Email is unique across the
// roster; Level and Status are mutable after registration.
type Staff struct {
	ID     int         `json:"id" db:"id"`
	Name   string      `json:"name" db:"name"`
	Age    int         `json:"age" db:"age"`
	Level  int         `json:"level" db:"level"`
	Status StaffStatus `json:"status" db:"status"`
	Email  string      `json:"e_mail" db:"e_mail"`
	Gender string      `json:"gender" db:"gender"`
}

// Validate checks registration invariants.
func (s Staff) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Email == "" {
		return fmt.Errorf("e_mail is required")
	}
	if s.Level < 1 || s.Level > 5 {
		return fmt.Errorf("level must be between 1 and 5")
	}
	if !s.Status.Valid() {
		return fmt.Errorf("unknown status %q", s.Status)
	}
	return nil
}

// StaffPatch holds the mutable fields for a staff update. Nil fields are
// not applied.
type StaffPatch struct {
	Name   *string      `json:"name"`
	Age    *int         `json:"age"`
	Level  *int         `json:"level"`
	Status *StaffStatus `json:"status"`
	Gender *string      `json:"gender"`
}

// ShiftPreference records that a worker is willing to work any hour inside
// the flagged segments on the given date. Segment flags are 0/1 integers to
// match the wire and storage encoding. At most one record exists per
// (StaffID, Date).
type ShiftPreference struct {
	StaffID   int       `json:"staff_id" db:"staff_id"`
	Date      time.Time `json:"date" db:"date"`
	Morning   int       `json:"morning" db:"morning"`     // hours 9..13
	Afternoon int       `json:"afternoon" db:"afternoon"` // hours 14..18
	Night     int       `json:"night" db:"night"`         // hours 19..23
}

// DateLayout is the wire format for all date strings.
const DateLayout = "2006-01-02"

// ParseDate parses an ISO YYYY-MM-DD string into a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate renders t as ISO YYYY-MM-DD.
func FormatDate(t time.Time) string { return t.Format(DateLayout) }

// DateOf strips the time-of-day from t, keeping the civil date in UTC.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
