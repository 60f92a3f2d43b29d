package web

import (
	"net/http"
	"time"

	"campus/internal/adapters/http/middleware"
	"campus/internal/adapters/http/perf"
	attendanceStore "campus/internal/adapters/storage/attendance"
	auditStore "campus/internal/adapters/storage/audit"
	outboxStore "campus/internal/adapters/storage/outbox"
	principalStore "campus/internal/adapters/storage/principal"
	rosterStore "campus/internal/adapters/storage/roster"
	"campus/internal/application/orchestrators"
	"campus/internal/domain/attendance"
)

// Stores holds all storage dependencies.
type Stores struct {
	RosterStore     rosterStore.Store
	AttendanceStore attendanceStore.Store
	PrincipalStore  principalStore.Store
	AuditStore      auditStore.Store
	OutboxStore     outboxStore.Store // optional: nil disables absence notices and the outbox admin routes
}

// Settings holds the request-independent behaviour of the handlers.
type Settings struct {
	Clock          attendance.Clock
	PeriodsPerDay  int
	NotifyAbsences bool
	RateLimit      int // requests per minute per client; 0 disables
	CSRFKey        []byte
	SecureCookies  bool
	SlowRequest    time.Duration
	TokenTTL       time.Duration
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global handler settings (set by NewMux)
var settings Settings

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// Global outbox processor (set by SetOutboxProcessor)
var outboxProcessor *orchestrators.OutboxProcessor

// SetOutboxProcessor sets the processor used by the outbox admin routes.
func SetOutboxProcessor(p *orchestrators.OutboxProcessor) {
	outboxProcessor = p
}

// NewMux wires HTTP handlers for the app.
// PRE: s has every store except OutboxStore set; cfg.CSRFKey is 32 bytes
// POST: Returns the handler with the full middleware chain applied
func NewMux(s *Stores, cfg Settings, collector *perf.Collector) http.Handler {
	stores = s
	perfCollector = collector
	if cfg.Clock == nil {
		cfg.Clock = attendance.SystemClock{}
	}
	if cfg.PeriodsPerDay <= 0 {
		cfg.PeriodsPerDay = attendance.DefaultPeriodsPerDay
	}
	settings = cfg

	mux := http.NewServeMux()
	registerRoutes(mux)

	auth := middleware.NewAuthenticator(s.PrincipalStore, s.AuditStore, cfg.TokenTTL)

	// Applied inner to outer: Timing -> RateLimit -> SecurityHeaders -> CSRF -> Auth -> Mux
	chain := []func(http.Handler) http.Handler{
		middleware.Auth(auth),
		middleware.CSRF(cfg.CSRFKey, cfg.SecureCookies),
		middleware.SecurityHeaders,
	}
	if cfg.RateLimit > 0 {
		chain = append(chain, middleware.RateLimit(middleware.NewRateLimiter(cfg.RateLimit, time.Minute)))
	}
	chain = append(chain, middleware.Timing(collector, cfg.SlowRequest))
	return middleware.Chain(mux, chain...)
}
