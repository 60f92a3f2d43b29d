package attendance

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used for every attendance date.
const DateLayout = "2006-01-02"

// MonthLayout is the calendar-month format used by monthly reports.
const MonthLayout = "2006-01"

// DefaultPeriodsPerDay is the number of periods in a teaching day when not configured.
const DefaultPeriodsPerDay = 6

// Status is the recorded outcome for one student in one period.
type Status string

// Valid statuses.
const (
	StatusPresent Status = "Present"
	StatusAbsent  Status = "Absent"
	StatusOnDuty  Status = "OnDuty"
)

// ValidStatuses contains every status a record may carry.
var ValidStatuses = []Status{StatusPresent, StatusAbsent, StatusOnDuty}

// ParseStatus converts a submitted value into a Status.
// "On Duty" is accepted as an alias because older clients send it with a space.
// PRE: none
// POST: Returns the canonical Status or ErrInvalidStatus
func ParseStatus(value string) (Status, error) {
	switch strings.TrimSpace(value) {
	case string(StatusPresent):
		return StatusPresent, nil
	case string(StatusAbsent):
		return StatusAbsent, nil
	case string(StatusOnDuty), "On Duty":
		return StatusOnDuty, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, value)
}

// Code returns the short grid code for the status.
func (s Status) Code() string {
	switch s {
	case StatusPresent:
		return "P"
	case StatusAbsent:
		return "A"
	case StatusOnDuty:
		return "OD"
	}
	return "?"
}

// UnmarkedCode is what the daily grid shows for a period with no record.
const UnmarkedCode = "-"

// Cell is one period of a student's daily grid: either Unmarked or a recorded Status.
// The zero value is Unmarked.
type Cell struct {
	status Status
	marked bool
}

// Unmarked returns the cell for a period with no record.
func Unmarked() Cell { return Cell{} }

// Marked returns the cell for a recorded status.
func Marked(s Status) Cell { return Cell{status: s, marked: true} }

// IsMarked reports whether a record exists for the period.
func (c Cell) IsMarked() bool { return c.marked }

// Status returns the recorded status and whether there is one.
func (c Cell) Status() (Status, bool) { return c.status, c.marked }

// String returns the grid code: P, A, OD or "-".
func (c Cell) String() string {
	if !c.marked {
		return UnmarkedCode
	}
	return c.status.Code()
}

// MarshalJSON encodes the cell as its grid code.
func (c Cell) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

// Record is one attendance fact, unique per (StudentID, Date, Period).
type Record struct {
	ID         string
	StudentID  string
	Date       string // YYYY-MM-DD
	Period     int
	Subject    string
	Status     Status
	FacultyID  string
	RecordedAt time.Time
	UpdatedAt  time.Time
}

// Key identifies the slot a record occupies for one student.
type Key struct {
	StudentID string
	Date      string
	Period    int
}

// Key returns the uniqueness key of the record.
func (r Record) Key() Key {
	return Key{StudentID: r.StudentID, Date: r.Date, Period: r.Period}
}

// Validate checks if the Record has valid data.
// PRE: Record struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: StudentID, Date, Period, Status and FacultyID are set
func (r Record) Validate() error {
	if r.StudentID == "" {
		return fmt.Errorf("%w: record must reference a student", ErrInvalidQuery)
	}
	if !IsDate(r.Date) {
		return fmt.Errorf("%w: %q", ErrInvalidDate, r.Date)
	}
	if r.Period < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidPeriod, r.Period)
	}
	if _, err := ParseStatus(string(r.Status)); err != nil {
		return err
	}
	if r.FacultyID == "" {
		return fmt.Errorf("%w: record must name who recorded it", ErrInvalidQuery)
	}
	return nil
}

// ClassFilter selects one class roster.
type ClassFilter struct {
	Department string
	Year       int
	Section    string
}

// Validate checks that every part of the class triple is present.
func (f ClassFilter) Validate() error {
	if strings.TrimSpace(f.Department) == "" || strings.TrimSpace(f.Section) == "" || f.Year < 1 {
		return fmt.Errorf("%w: department, year and section are required", ErrInvalidQuery)
	}
	return nil
}

// Slot scopes one marking operation: a class, a date and a period, plus the subject taught.
type Slot struct {
	Class   ClassFilter
	Date    string
	Period  int
	Subject string
}

// StudentStatus is one entry of a marking batch.
type StudentStatus struct {
	StudentID string
	Status    string
}

// IsDate reports whether value is a well-formed YYYY-MM-DD calendar date.
func IsDate(value string) bool {
	_, err := time.Parse(DateLayout, value)
	return err == nil
}

// MonthRange returns the first and last calendar dates of a YYYY-MM month.
// PRE: month is YYYY-MM
// POST: Returns inclusive bounds or ErrInvalidQuery
func MonthRange(month string) (string, string, error) {
	start, err := time.Parse(MonthLayout, month)
	if err != nil {
		return "", "", fmt.Errorf("%w: month must be YYYY-MM", ErrInvalidQuery)
	}
	end := start.AddDate(0, 1, -1)
	return start.Format(DateLayout), end.Format(DateLayout), nil
}

// YearRange returns the first and last calendar dates of a year.
// PRE: year is a four-digit calendar year
// POST: Returns inclusive bounds or ErrInvalidQuery
func YearRange(year int) (string, string, error) {
	if year < 1 || year > 9999 {
		return "", "", fmt.Errorf("%w: calendar year out of range", ErrInvalidQuery)
	}
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	return start.Format(DateLayout), end.Format(DateLayout), nil
}

// ParseCalendarYear parses a four-digit calendar year.
// PRE: none
// POST: Returns the year or ErrInvalidQuery
func ParseCalendarYear(value string) (int, error) {
	year, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || year < 1000 || year > 9999 {
		return 0, fmt.Errorf("%w: calendar year must be YYYY", ErrInvalidQuery)
	}
	return year, nil
}
