package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"campus/internal/domain/attendance"
)

// flexString accepts a JSON string or number. Student ids arrive as either.
type flexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", b)
	}
	*f = flexString(n.String())
	return nil
}

// flexInt accepts a JSON number or a numeric string.
type flexInt int

// UnmarshalJSON implements json.Unmarshaler.
func (f *flexInt) UnmarshalJSON(b []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(b); err != nil {
		return err
	}
	n, err := strconv.Atoi(string(s))
	if err != nil {
		return fmt.Errorf("expected integer, got %s", b)
	}
	*f = flexInt(n)
	return nil
}

// studentStatusRequest is one entry of a marking batch.
type studentStatusRequest struct {
	StudentID flexString `json:"student_id" validate:"required,max=64"`
	Status    string     `json:"status"`
}

// markRequest is the body of POST /attendance/mark.
type markRequest struct {
	Date            string                 `json:"date" validate:"required"`
	Period          flexInt                `json:"period"`
	Subject         string                 `json:"subject" validate:"required,max=100"`
	Department      string                 `json:"department" validate:"required,max=50"`
	Year            flexInt                `json:"year"`
	Section         string                 `json:"section" validate:"required,max=10"`
	StudentStatuses []studentStatusRequest `json:"studentStatuses" validate:"max=500,dive"`
}

func (m markRequest) slot() attendance.Slot {
	return attendance.Slot{
		Class:   attendance.ClassFilter{Department: m.Department, Year: int(m.Year), Section: m.Section},
		Date:    m.Date,
		Period:  int(m.Period),
		Subject: m.Subject,
	}
}

func (m markRequest) statuses() []attendance.StudentStatus {
	out := make([]attendance.StudentStatus, len(m.StudentStatuses))
	for i, s := range m.StudentStatuses {
		out[i] = attendance.StudentStatus{StudentID: string(s.StudentID), Status: s.Status}
	}
	return out
}
