package web

import (
	"encoding/json"
	"testing"
)

// TestMarkRequest_FlexibleIDs verifies numeric and string ids and years decode alike.
func TestMarkRequest_FlexibleIDs(t *testing.T) {
	var req markRequest
	body := `{"date":"2026-03-02","period":"2","subject":"Maths","department":"CSE","year":"3","section":"A",
		"studentStatuses":[{"student_id":1001,"status":"Present"},{"student_id":"s2","status":"On Duty"}]}`
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	slot := req.slot()
	if slot.Period != 2 || slot.Class.Year != 3 {
		t.Errorf("slot = %+v", slot)
	}
	statuses := req.statuses()
	if statuses[0].StudentID != "1001" || statuses[1].StudentID != "s2" {
		t.Errorf("statuses = %+v", statuses)
	}
	if err := validate.Struct(req); err != nil {
		t.Errorf("validate: %v", err)
	}
}

// TestFlexInt_Rejects verifies non-integer values fail to decode.
func TestFlexInt_Rejects(t *testing.T) {
	for _, raw := range []string{`"two"`, `1.5`, `true`} {
		var n flexInt
		if err := json.Unmarshal([]byte(raw), &n); err == nil {
			t.Errorf("flexInt accepted %s", raw)
		}
	}
}
