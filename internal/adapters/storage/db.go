package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// migration is one forward-only schema step.
type migration struct {
	version     int
	description string
	up          func(tx *sql.Tx) error
}

// migrations is the ordered migration chain. Never edit an applied step; append a new one.
var migrations = []migration{
	{1, "baseline schema", migrateBaseline},
	{2, "attendance lookup indexes", migrateAttendanceIndexes},
	{3, "outbox next attempt", migrateOutboxNextAttempt},
}

// LatestSchemaVersion returns the version MigrateDB brings a database to.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// SchemaVersion returns the applied schema version, or 0 for an untracked database.
// PRE: db is a valid database connection
func SchemaVersion(db *sql.DB) (int, error) {
	var exists int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'`).Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("check schema_version: %w", err)
	}
	if exists == 0 {
		return 0, nil
	}
	var v sql.NullInt64
	if err := db.QueryRow(`SELECT MAX(version) FROM schema_version`).Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema_version: %w", err)
	}
	return int(v.Int64), nil
}

// MigrateDB enables SQLite pragmas and applies every pending migration, each in its own transaction.
// PRE: db is a valid database connection; path is used for logging only
// POST: Schema is at LatestSchemaVersion
func MigrateDB(db *sql.DB, path string) error {
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		description TEXT NOT NULL,
		applied_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
	)`); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}

	current, err := SchemaVersion(db)
	if err != nil {
		return err
	}
	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("migration %d: begin: %w", m.version, err)
		}
		if err := m.up(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.version, m.description, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_version (version, description) VALUES (?, ?)`, m.version, m.description); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d: record version: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %d: commit: %w", m.version, err)
		}
		slog.Info("schema_migrated", "db", path, "version", m.version, "description", m.description)
	}
	return nil
}

func migrateBaseline(tx *sql.Tx) error {
	_, err := tx.Exec(`
	CREATE TABLE IF NOT EXISTS student (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		reg_no TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL DEFAULT '',
		department TEXT NOT NULL,
		year INTEGER NOT NULL,
		section TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_student_class ON student(department, year, section, reg_no);

	CREATE TABLE IF NOT EXISTS principal (
		id TEXT PRIMARY KEY,
		role TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		secret_hash TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS attendance (
		id TEXT PRIMARY KEY,
		student_id TEXT NOT NULL,
		date TEXT NOT NULL,
		period INTEGER NOT NULL,
		subject TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL CHECK (status IN ('Present', 'Absent', 'OnDuty')),
		faculty_id TEXT NOT NULL,
		recorded_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		UNIQUE (student_id, date, period)
	);

	CREATE TABLE IF NOT EXISTS outbox (
		id TEXT PRIMARY KEY,
		action_type TEXT NOT NULL,
		payload TEXT NOT NULL,
		status TEXT NOT NULL,
		attempts INTEGER NOT NULL DEFAULT 0,
		max_attempts INTEGER NOT NULL DEFAULT 5,
		last_attempted_at TEXT,
		created_at TEXT NOT NULL,
		external_id TEXT NOT NULL DEFAULT '',
		error_message TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS audit_event (
		id TEXT PRIMARY KEY,
		timestamp TEXT NOT NULL,
		action TEXT NOT NULL,
		severity TEXT NOT NULL,
		actor_id TEXT NOT NULL,
		actor_role TEXT NOT NULL,
		resource_type TEXT NOT NULL DEFAULT '',
		resource_id TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		metadata TEXT NOT NULL DEFAULT ''
	);`)
	return err
}

func migrateAttendanceIndexes(tx *sql.Tx) error {
	_, err := tx.Exec(`
	CREATE INDEX IF NOT EXISTS idx_attendance_date_period ON attendance(date, period);
	CREATE INDEX IF NOT EXISTS idx_attendance_faculty_date ON attendance(faculty_id, date);
	CREATE INDEX IF NOT EXISTS idx_outbox_status ON outbox(status, created_at);
	CREATE INDEX IF NOT EXISTS idx_audit_timestamp ON audit_event(timestamp);`)
	return err
}

// migrateOutboxNextAttempt stores when each entry is next due so the worker can skip backing-off rows in SQL.
func migrateOutboxNextAttempt(tx *sql.Tx) error {
	_, err := tx.Exec(`
	ALTER TABLE outbox ADD COLUMN next_attempt_at TEXT NOT NULL DEFAULT '';
	UPDATE outbox SET next_attempt_at = COALESCE(strftime('%Y-%m-%dT%H:%M:%S', created_at) || '.000000000Z', created_at)
		WHERE next_attempt_at = '';
	CREATE INDEX IF NOT EXISTS idx_outbox_due ON outbox(status, next_attempt_at);`)
	return err
}
