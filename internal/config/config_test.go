package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

// TestFromLookup_Defaults verifies the development defaults.
func TestFromLookup_Defaults(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.DBPath != "campus.db" || cfg.Env != EnvDevelopment {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.PeriodsPerDay != 6 || cfg.Location != time.UTC {
		t.Errorf("periods = %d, location = %v", cfg.PeriodsPerDay, cfg.Location)
	}
	if !cfg.NotifyAbsences || cfg.OutboxInterval != time.Minute || cfg.SlowQuery != 50*time.Millisecond {
		t.Errorf("cfg = %+v", cfg)
	}
	if len(cfg.CSRFKey) != 32 {
		t.Errorf("csrf key length = %d, want 32", len(cfg.CSRFKey))
	}
}

// TestFromLookup_Overrides verifies each variable is honoured.
func TestFromLookup_Overrides(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"CAMPUS_ADDR":            ":9090",
		"CAMPUS_TIMEZONE":        "Asia/Kolkata",
		"CAMPUS_PERIODS_PER_DAY": "8",
		"CAMPUS_RATE_LIMIT":      "0",
		"CAMPUS_NOTIFY_ABSENCES": "false",
		"CAMPUS_OUTBOX_INTERVAL": "30s",
		"CAMPUS_SLOW_REQUEST_MS": "250",
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr != ":9090" || cfg.PeriodsPerDay != 8 || cfg.RateLimit != 0 || cfg.NotifyAbsences {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Location.String() != "Asia/Kolkata" || cfg.OutboxInterval != 30*time.Second || cfg.SlowRequest != 250*time.Millisecond {
		t.Errorf("cfg = %+v", cfg)
	}
}

// TestFromLookup_Invalid verifies malformed settings are rejected.
func TestFromLookup_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"non-numeric periods", map[string]string{"CAMPUS_PERIODS_PER_DAY": "six"}},
		{"zero periods", map[string]string{"CAMPUS_PERIODS_PER_DAY": "0"}},
		{"unknown timezone", map[string]string{"CAMPUS_TIMEZONE": "Mars/Olympus"}},
		{"bad interval", map[string]string{"CAMPUS_OUTBOX_INTERVAL": "soon"}},
		{"short csrf key", map[string]string{"CAMPUS_CSRF_KEY": "short"}},
		{"production without csrf key", map[string]string{"CAMPUS_ENV": "production"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromLookup(lookupFrom(tt.env)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

// TestLoad_EnvFile verifies a .env file feeds the environment.
func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("CAMPUS_DB_PATH=from-file.db\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("CAMPUS_DB_PATH") })
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DBPath != "from-file.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("missing env file should be ignored: %v", err)
	}
}
