package projections

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"campus/internal/domain/attendance"
	"campus/internal/domain/student"
)

// RosterChunkSize bounds the number of students per range query.
const RosterChunkSize = 200

// maxParallelScans bounds concurrent range queries for one report.
const maxParallelScans = 4

// scanRoster reads the records of every roster student in [start, end], fanning the
// roster out in chunks and joining the results keyed by student id.
func scanRoster(ctx context.Context, reader RangeReader, roster []student.Student, start, end string) (map[string][]attendance.Record, error) {
	byStudent := make(map[string][]attendance.Record, len(roster))
	if len(roster) == 0 {
		return byStudent, nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelScans)
	for lo := 0; lo < len(roster); lo += RosterChunkSize {
		hi := min(lo+RosterChunkSize, len(roster))
		ids := studentIDs(roster[lo:hi])
		g.Go(func() error {
			recs, err := reader.ListByStudentsAndDateRange(gctx, ids, start, end)
			if err != nil {
				return attendance.WrapStorage("list_by_students_range", err)
			}
			mu.Lock()
			for _, r := range recs {
				byStudent[r.StudentID] = append(byStudent[r.StudentID], r)
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return byStudent, nil
}

func studentIDs(roster []student.Student) []string {
	ids := make([]string, len(roster))
	for i, st := range roster {
		ids[i] = st.ID
	}
	return ids
}

func loadRoster(ctx context.Context, roster RosterStore, class attendance.ClassFilter) ([]student.Student, error) {
	if err := class.Validate(); err != nil {
		return nil, err
	}
	students, err := roster.ListByClass(ctx, class)
	if err != nil {
		return nil, attendance.WrapStorage("list_roster", err)
	}
	return students, nil
}
