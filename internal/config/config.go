// Package config loads server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"campus/internal/domain/attendance"
)

// Environment names.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds every runtime setting of the server.
type Config struct {
	Addr          string
	DBPath        string
	Env           string
	Location      *time.Location
	PeriodsPerDay int

	AdminToken string
	CSRFKey    []byte
	RateLimit  int // requests per minute per client; 0 disables

	ResendKey      string
	EmailFrom      string
	ReplyTo        string
	NotifyAbsences bool
	OutboxInterval time.Duration

	SlowQuery   time.Duration
	SlowRequest time.Duration
}

// IsProduction reports whether the server runs in production mode.
func (c Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Load reads an optional .env file then the CAMPUS_* environment.
// PRE: none
// POST: Returns a validated Config or the first malformed setting
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		} else if err == nil {
			slog.Info("config_event", "event", "env_file_loaded", "path", f)
		}
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from a variable lookup function.
// PRE: lookup is non-nil
// POST: Unset variables take their defaults
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, fallback string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return fallback
	}

	cfg := Config{
		Addr:       get("CAMPUS_ADDR", ":8080"),
		DBPath:     get("CAMPUS_DB_PATH", "campus.db"),
		Env:        get("CAMPUS_ENV", EnvDevelopment),
		AdminToken: get("CAMPUS_ADMIN_TOKEN", ""),
		ResendKey:  get("CAMPUS_RESEND_KEY", ""),
		EmailFrom:  get("CAMPUS_EMAIL_FROM", "Campus Attendance <attendance@campus.local>"),
		ReplyTo:    get("CAMPUS_REPLY_TO", ""),
	}

	loc, err := time.LoadLocation(get("CAMPUS_TIMEZONE", "UTC"))
	if err != nil {
		return Config{}, fmt.Errorf("CAMPUS_TIMEZONE: %w", err)
	}
	cfg.Location = loc

	if cfg.PeriodsPerDay, err = intSetting(get, "CAMPUS_PERIODS_PER_DAY", attendance.DefaultPeriodsPerDay); err != nil {
		return Config{}, err
	}
	if cfg.PeriodsPerDay < 1 || cfg.PeriodsPerDay > 12 {
		return Config{}, fmt.Errorf("CAMPUS_PERIODS_PER_DAY must be between 1 and 12, got %d", cfg.PeriodsPerDay)
	}
	if cfg.RateLimit, err = intSetting(get, "CAMPUS_RATE_LIMIT", 120); err != nil {
		return Config{}, err
	}
	if cfg.NotifyAbsences, err = strconv.ParseBool(get("CAMPUS_NOTIFY_ABSENCES", "true")); err != nil {
		return Config{}, fmt.Errorf("CAMPUS_NOTIFY_ABSENCES: %w", err)
	}
	if cfg.OutboxInterval, err = time.ParseDuration(get("CAMPUS_OUTBOX_INTERVAL", "1m")); err != nil {
		return Config{}, fmt.Errorf("CAMPUS_OUTBOX_INTERVAL: %w", err)
	}
	slowQuery, err := intSetting(get, "CAMPUS_SLOW_QUERY_MS", 50)
	if err != nil {
		return Config{}, err
	}
	slowRequest, err := intSetting(get, "CAMPUS_SLOW_REQUEST_MS", 500)
	if err != nil {
		return Config{}, err
	}
	cfg.SlowQuery = time.Duration(slowQuery) * time.Millisecond
	cfg.SlowRequest = time.Duration(slowRequest) * time.Millisecond

	key := get("CAMPUS_CSRF_KEY", "")
	switch {
	case len(key) >= 32:
		cfg.CSRFKey = []byte(key[:32])
	case key != "":
		return Config{}, errors.New("CAMPUS_CSRF_KEY must be at least 32 bytes")
	case cfg.IsProduction():
		return Config{}, errors.New("CAMPUS_CSRF_KEY is required in production")
	default:
		cfg.CSRFKey = []byte("campus-development-csrf-key-0000")
	}
	return cfg, nil
}

func intSetting(get func(string, string) string, key string, fallback int) (int, error) {
	raw := get(key, strconv.Itoa(fallback))
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", key, raw)
	}
	return n, nil
}
