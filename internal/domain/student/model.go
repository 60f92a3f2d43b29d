package student

import (
	"errors"
	"strings"
)

// MaxNameLength bounds the display name.
const MaxNameLength = 100

// Student is one roster entry. Rosters are owned by the student records office; the
// attendance engine only reads them.
type Student struct {
	ID         string
	Name       string
	RegNo      string
	Email      string
	Department string
	Year       int
	Section    string
}

// Validate checks if the Student has valid data.
// PRE: Student struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: ID, Name, RegNo and the class triple are set
func (s *Student) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return errors.New("student id cannot be empty")
	}
	if strings.TrimSpace(s.Name) == "" {
		return errors.New("student name cannot be empty")
	}
	if len(s.Name) > MaxNameLength {
		return errors.New("student name cannot exceed 100 characters")
	}
	if strings.TrimSpace(s.RegNo) == "" {
		return errors.New("registration number cannot be empty")
	}
	if s.Email != "" && !strings.Contains(s.Email, "@") {
		return errors.New("student email must be valid")
	}
	if strings.TrimSpace(s.Department) == "" || strings.TrimSpace(s.Section) == "" || s.Year < 1 {
		return errors.New("student must belong to a department, year and section")
	}
	return nil
}

// HasEmail reports whether notices can be delivered to the student.
func (s *Student) HasEmail() bool {
	return strings.Contains(s.Email, "@")
}
