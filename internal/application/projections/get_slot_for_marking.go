package projections

import (
	"context"
	"fmt"

	"campus/internal/domain/attendance"
)

// GetSlotForMarkingQuery selects one class period.
type GetSlotForMarkingQuery struct {
	Class  attendance.ClassFilter
	Date   string
	Period int
}

// SlotStudent is one roster entry with its current status for the slot, if any.
type SlotStudent struct {
	ID     string             `json:"id"`
	Name   string             `json:"name"`
	RegNo  string             `json:"reg_no"`
	Status *attendance.Status `json:"status"`
}

// GetSlotForMarkingResult is the marking form: the roster plus whether the slot was already submitted.
type GetSlotForMarkingResult struct {
	Students []SlotStudent `json:"students"`
	IsTaken  bool          `json:"isTaken"`
}

// GetSlotForMarkingDeps holds dependencies for GetSlotForMarking.
type GetSlotForMarkingDeps struct {
	Roster        RosterStore
	Attendance    SlotReader
	PeriodsPerDay int // zero means attendance.DefaultPeriodsPerDay
}

// QueryGetSlotForMarking joins the class roster with existing records for (date, period).
// PRE: query.Class is a full class triple, Date is YYYY-MM-DD, Period in 1..K
// POST: Students in roster order; IsTaken iff at least one student already has a status
func QueryGetSlotForMarking(ctx context.Context, query GetSlotForMarkingQuery, deps GetSlotForMarkingDeps) (GetSlotForMarkingResult, error) {
	if !attendance.IsDate(query.Date) {
		return GetSlotForMarkingResult{}, fmt.Errorf("%w: date must be YYYY-MM-DD", attendance.ErrInvalidQuery)
	}
	if query.Period < 1 || query.Period > periodsPerDay(deps.PeriodsPerDay) {
		return GetSlotForMarkingResult{}, fmt.Errorf("%w: period out of range", attendance.ErrInvalidQuery)
	}
	roster, err := loadRoster(ctx, deps.Roster, query.Class)
	if err != nil {
		return GetSlotForMarkingResult{}, err
	}

	records, err := deps.Attendance.ListBySlot(ctx, query.Date, query.Period, studentIDs(roster))
	if err != nil {
		return GetSlotForMarkingResult{}, attendance.WrapStorage("list_by_slot", err)
	}
	statusByStudent := make(map[string]attendance.Status, len(records))
	for _, r := range records {
		statusByStudent[r.StudentID] = r.Status
	}

	result := GetSlotForMarkingResult{Students: make([]SlotStudent, len(roster))}
	for i, st := range roster {
		row := SlotStudent{ID: st.ID, Name: st.Name, RegNo: st.RegNo}
		if status, ok := statusByStudent[st.ID]; ok {
			row.Status = &status
			result.IsTaken = true
		}
		result.Students[i] = row
	}
	return result, nil
}

func periodsPerDay(k int) int {
	if k <= 0 {
		return attendance.DefaultPeriodsPerDay
	}
	return k
}
