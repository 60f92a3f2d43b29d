package storage

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"campus/internal/adapters/http/perf"
)

func openTimedTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db := openTestDB(t)
	if _, err := db.Exec("CREATE TABLE test (id TEXT PRIMARY KEY, val TEXT)"); err != nil {
		t.Fatalf("create table: %v", err)
	}
	return db
}

// TestQueryLabel verifies statements collapse to verb and table.
func TestQueryLabel(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"SELECT id FROM attendance WHERE date = ?", "SELECT attendance"},
		{"INSERT INTO attendance (id) VALUES (?) ON CONFLICT(student_id, date, period) DO UPDATE SET status=excluded.status", "INSERT attendance"},
		{"update outbox SET status = ?", "UPDATE outbox"},
		{"DELETE FROM audit_event", "DELETE audit_event"},
		{"SELECT 1", "SELECT"},
		{"   ", "EMPTY"},
	}
	for _, tt := range tests {
		if got := queryLabel(tt.query); got != tt.want {
			t.Errorf("queryLabel(%q) = %q, want %q", tt.query, got, tt.want)
		}
	}
}

// TestTimedDB_RecordsEveryCall verifies Exec, Query and QueryRow are timed.
func TestTimedDB_RecordsEveryCall(t *testing.T) {
	collector := perf.NewCollector(100)
	tdb := NewTimedDB(openTimedTestDB(t), collector, 0)
	ctx := context.Background()

	if _, err := tdb.ExecContext(ctx, "INSERT INTO test (id, val) VALUES (?, ?)", "1", "hello"); err != nil {
		t.Fatalf("ExecContext: %v", err)
	}
	rows, err := tdb.QueryContext(ctx, "SELECT id, val FROM test")
	if err != nil {
		t.Fatalf("QueryContext: %v", err)
	}
	rows.Close()
	var val string
	if err := tdb.QueryRowContext(ctx, "SELECT val FROM test WHERE id = ?", "1").Scan(&val); err != nil {
		t.Fatalf("QueryRowContext: %v", err)
	}
	if val != "hello" {
		t.Errorf("val = %q, want hello", val)
	}
	if collector.TotalRecorded() != 3 {
		t.Errorf("TotalRecorded = %d, want 3", collector.TotalRecorded())
	}
	snap := collector.Snapshot(time.Now().Add(-time.Minute), 10)
	if len(snap.SlowestQueries) != 2 {
		t.Errorf("labels = %+v, want INSERT test and SELECT test", snap.SlowestQueries)
	}
}

// TestTimedDB_ErrorPassthrough verifies SQL errors are returned unchanged and still recorded as failed.
func TestTimedDB_ErrorPassthrough(t *testing.T) {
	collector := perf.NewCollector(100)
	tdb := NewTimedDB(openTimedTestDB(t), collector, 0)

	if _, err := tdb.ExecContext(context.Background(), "INSERT INTO nonexistent_table VALUES (?)", 1); err == nil {
		t.Fatal("expected error from invalid SQL, got nil")
	}
	snap := collector.Snapshot(time.Now().Add(-time.Minute), 10)
	if len(snap.SlowestQueries) != 1 || snap.SlowestQueries[0].Failed != 1 {
		t.Errorf("SlowestQueries = %+v, want one failed sample", snap.SlowestQueries)
	}

	var val string
	err := tdb.QueryRowContext(context.Background(), "SELECT val FROM test WHERE id = ?", "missing").Scan(&val)
	if err != sql.ErrNoRows {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}

// TestTimedDB_CancelledContext verifies a cancelled context errors and is still timed.
func TestTimedDB_CancelledContext(t *testing.T) {
	collector := perf.NewCollector(100)
	tdb := NewTimedDB(openTimedTestDB(t), collector, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := tdb.ExecContext(ctx, "INSERT INTO test (id, val) VALUES (?, ?)", "1", "x"); err == nil {
		t.Fatal("expected error from cancelled context, got nil")
	}
	if collector.TotalRecorded() != 1 {
		t.Errorf("TotalRecorded = %d, want 1", collector.TotalRecorded())
	}
}

// TestTimedDB_NilCollector verifies TimedDB works without a collector.
func TestTimedDB_NilCollector(t *testing.T) {
	db := openTimedTestDB(t)
	tdb := NewTimedDB(db, nil, time.Nanosecond)
	if _, err := tdb.ExecContext(context.Background(), "INSERT INTO test (id, val) VALUES (?, ?)", "1", "x"); err != nil {
		t.Fatalf("ExecContext with nil collector: %v", err)
	}
	if tdb.RawDB() != db {
		t.Error("RawDB() should return the original *sql.DB")
	}
}

// TestTimedDB_Concurrent verifies no races under concurrent reads and writes.
func TestTimedDB_Concurrent(t *testing.T) {
	collector := perf.NewCollector(1000)
	tdb := NewTimedDB(openTimedTestDB(t), collector, 0)
	ctx := context.Background()

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				tdb.ExecContext(ctx, "INSERT OR REPLACE INTO test (id, val) VALUES (?, ?)", "w", "v")
				var v string
				tdb.QueryRowContext(ctx, "SELECT val FROM test WHERE id = ?", "w").Scan(&v)
			}
		}()
	}
	wg.Wait()
	if collector.TotalRecorded() != 200 {
		t.Errorf("TotalRecorded = %d, want 200", collector.TotalRecorded())
	}
}

// BenchmarkTimedDB_QueryRow measures per-call overhead of the timing wrapper.
func BenchmarkTimedDB_QueryRow(b *testing.B) {
	db, _ := sql.Open("sqlite", ":memory:")
	defer db.Close()
	db.SetMaxOpenConns(1)
	tdb := NewTimedDB(db, perf.NewCollector(perf.DefaultRingSize), 0)
	ctx := context.Background()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		tdb.QueryRowContext(ctx, "SELECT 1")
	}
}
