package attendance

import (
	"github.com/shopspring/decimal"
)

// GoodStandingThreshold is the attendance percentage at or above which a subject is in good standing.
var GoodStandingThreshold = decimal.NewFromInt(75)

// Standing labels.
const (
	StandingGood             = "good"
	StandingNeedsImprovement = "needs_improvement"
)

var hundred = decimal.NewFromInt(100)

// Percentage is a share of classes rounded to one decimal place.
// The zero value is 0.0.
type Percentage struct {
	d decimal.Decimal
}

// PercentageOf returns part/whole*100 rounded to one decimal.
// INVARIANT: whole <= 0 yields 0.0, never a division by zero
func PercentageOf(part, whole int) Percentage {
	if whole <= 0 {
		return Percentage{}
	}
	d := decimal.NewFromInt(int64(part)).Mul(hundred).Div(decimal.NewFromInt(int64(whole)))
	return Percentage{d: d.Round(1)}
}

// String renders the percentage with exactly one decimal, e.g. "80.0".
func (p Percentage) String() string { return p.d.StringFixed(1) }

// MarshalJSON encodes the percentage as a JSON number fixed to one decimal.
func (p Percentage) MarshalJSON() ([]byte, error) {
	return []byte(p.String()), nil
}

// Standing classifies the percentage against GoodStandingThreshold.
func (p Percentage) Standing() string {
	if p.d.GreaterThanOrEqual(GoodStandingThreshold) {
		return StandingGood
	}
	return StandingNeedsImprovement
}

// StudentTally counts attendance as seen by students: Present and OnDuty both count as attended.
type StudentTally struct {
	Present int
	Absent  int
	Total   int
}

// Add counts one record.
func (t *StudentTally) Add(s Status) {
	t.Total++
	switch s {
	case StatusPresent, StatusOnDuty:
		t.Present++
	default:
		t.Absent++
	}
}

// Merge folds another tally into t.
func (t *StudentTally) Merge(o StudentTally) {
	t.Present += o.Present
	t.Absent += o.Absent
	t.Total += o.Total
}

// Percentage returns the attended share of all counted records.
func (t StudentTally) Percentage() Percentage {
	return PercentageOf(t.Present, t.Total)
}

// FacultyTally counts a faculty member's marking for a day. Only Present counts as
// present here; OnDuty students were not in the room the faculty member taught.
type FacultyTally struct {
	Marked  int
	Present int
}

// Add counts one record.
func (t *FacultyTally) Add(s Status) {
	t.Marked++
	if s == StatusPresent {
		t.Present++
	}
}

// Percentage returns the present share of records marked.
func (t FacultyTally) Percentage() Percentage {
	return PercentageOf(t.Present, t.Marked)
}

// Conducted reports whether the faculty member marked anything.
func (t FacultyTally) Conducted() bool {
	return t.Marked > 0
}
