package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	emailPkg "campus/internal/adapters/email"
	web "campus/internal/adapters/http"
	"campus/internal/adapters/http/middleware"
	"campus/internal/adapters/http/perf"
	"campus/internal/adapters/storage"
	attendanceStore "campus/internal/adapters/storage/attendance"
	auditStore "campus/internal/adapters/storage/audit"
	outboxStorePkg "campus/internal/adapters/storage/outbox"
	principalStore "campus/internal/adapters/storage/principal"
	rosterStore "campus/internal/adapters/storage/roster"
	"campus/internal/application/orchestrators"
	"campus/internal/config"
	"campus/internal/domain/attendance"
	outboxDomain "campus/internal/domain/outbox"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// WAL mode, foreign keys and busy timeout
	dsn := cfg.DBPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}
	if err := storage.MigrateDB(db, cfg.DBPath); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector, cfg.SlowQuery)

	stores := &web.Stores{
		RosterStore:     rosterStore.NewSQLiteStore(timedDB),
		AttendanceStore: attendanceStore.NewSQLiteStore(timedDB),
		PrincipalStore:  principalStore.NewSQLiteStore(timedDB),
		AuditStore:      auditStore.NewSQLiteStore(timedDB),
		OutboxStore:     outboxStorePkg.NewSQLiteStore(timedDB),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	seedDeps := orchestrators.SeedDeps{Principals: stores.PrincipalStore, Students: stores.RosterStore}
	if err := orchestrators.ExecuteSeedAdmin(ctx, seedDeps, cfg.AdminToken); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	if !cfg.IsProduction() {
		if err := orchestrators.ExecuteSeedDemo(ctx, seedDeps); err != nil {
			log.Fatalf("failed to seed demo data: %v", err)
		}
	}

	var sender emailPkg.Sender
	if cfg.ResendKey != "" {
		sender = emailPkg.NewResendSender(cfg.ResendKey, cfg.EmailFrom, cfg.ReplyTo)
		slog.Info("email_event", "event", "sender_configured", "provider", "resend")
	} else {
		sender = emailPkg.NewNoopSender()
		if cfg.IsProduction() && cfg.NotifyAbsences {
			slog.Warn("email_event", "event", "delivery_disabled", "reason", "CAMPUS_RESEND_KEY is not set")
		}
	}

	processor := orchestrators.NewOutboxProcessor(stores.OutboxStore, map[string]orchestrators.ActionExecutor{
		outboxDomain.ActionTypeAbsenceNotice: &orchestrators.AbsenceNoticeExecutor{Sender: sender},
	})
	web.SetOutboxProcessor(processor)
	orchestrators.StartOutboxWorker(ctx, processor, cfg.OutboxInterval)

	handler := web.NewMux(stores, web.Settings{
		Clock:          attendance.SystemClock{Location: cfg.Location},
		PeriodsPerDay:  cfg.PeriodsPerDay,
		NotifyAbsences: cfg.NotifyAbsences,
		RateLimit:      cfg.RateLimit,
		CSRFKey:        cfg.CSRFKey,
		SecureCookies:  cfg.IsProduction(),
		SlowRequest:    cfg.SlowRequest,
		TokenTTL:       middleware.DefaultTokenTTL,
	}, collector)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown_error", "error", err)
		}
	}()

	slog.Info("server_start", "version", version, "addr", cfg.Addr, "env", cfg.Env, "schema", storage.LatestSchemaVersion(), "periods_per_day", cfg.PeriodsPerDay)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server failed: %v", err)
	}
	slog.Info("server_stop")
}
