package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"campus/internal/domain/audit"
	"campus/internal/domain/principal"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const principalContextKey contextKey = "principal"

// DefaultTokenTTL is how long a verified bearer token skips bcrypt.
const DefaultTokenTTL = 5 * time.Minute

// ErrUnauthenticated is returned for missing, malformed or rejected bearer tokens.
var ErrUnauthenticated = errors.New("authentication required")

// CredentialStore loads stored principals.
type CredentialStore interface {
	GetByID(ctx context.Context, id string) (principal.Credential, error)
}

// AuditSaver records rejected credentials.
type AuditSaver interface {
	Save(ctx context.Context, e audit.Event) error
}

type cachedPrincipal struct {
	principal principal.Principal
	expires   time.Time
}

// Authenticator verifies "Bearer <id>.<secret>" tokens against stored credentials
// and caches successful verifications for a short TTL.
type Authenticator struct {
	store CredentialStore
	audit AuditSaver
	ttl   time.Duration
	now   func() time.Time

	mu    sync.Mutex
	cache map[string]cachedPrincipal
}

// NewAuthenticator creates an authenticator. audit may be nil.
func NewAuthenticator(store CredentialStore, auditSaver AuditSaver, ttl time.Duration) *Authenticator {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Authenticator{
		store: store,
		audit: auditSaver,
		ttl:   ttl,
		now:   time.Now,
		cache: make(map[string]cachedPrincipal),
	}
}

// Authenticate resolves the principal behind an Authorization header value.
// PRE: header is the raw Authorization header
// POST: Returns the principal or an error wrapping ErrUnauthenticated
func (a *Authenticator) Authenticate(ctx context.Context, header string) (principal.Principal, error) {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return principal.Principal{}, ErrUnauthenticated
	}
	id, secret, err := principal.ParseBearer(token)
	if err != nil {
		return principal.Principal{}, errors.Join(ErrUnauthenticated, err)
	}

	key := tokenKey(token)
	now := a.now()
	a.mu.Lock()
	if c, ok := a.cache[key]; ok && now.Before(c.expires) {
		a.mu.Unlock()
		return c.principal, nil
	}
	a.mu.Unlock()

	cred, err := a.store.GetByID(ctx, id)
	if err != nil {
		return principal.Principal{}, errors.Join(ErrUnauthenticated, err)
	}
	if err := cred.CheckSecret(secret); err != nil {
		a.recordFailure(ctx, id)
		return principal.Principal{}, errors.Join(ErrUnauthenticated, err)
	}

	a.mu.Lock()
	a.cache[key] = cachedPrincipal{principal: cred.Principal, expires: now.Add(a.ttl)}
	a.mu.Unlock()
	return cred.Principal, nil
}

func (a *Authenticator) recordFailure(ctx context.Context, claimedID string) {
	slog.Warn("auth_event", "event", "bad_secret", "principal_id", claimedID)
	if a.audit == nil {
		return
	}
	e := audit.NewEvent(uuid.NewString(), a.now(), claimedID, "", audit.ActionAuthFailed).
		WithSeverity(audit.SeverityWarning).
		WithResource("principal", claimedID).
		WithDescription("bearer secret rejected")
	if err := a.audit.Save(ctx, e); err != nil {
		slog.Error("audit_event", "event", "save_failed", "action", audit.ActionAuthFailed, "error", err)
	}
}

func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Auth returns middleware that resolves the bearer token and sets the principal in context.
// A present but invalid token is rejected with 401. A missing token passes through;
// use RequireRole to block anonymous callers.
func Auth(a *Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}
			p, err := a.Authenticate(r.Context(), header)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid credentials")
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(r.Context(), p)))
		})
	}
}

// RequireRole returns middleware that blocks callers without one of the specified roles.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	roleSet := make(map[string]bool, len(roles))
	for _, r := range roles {
		roleSet[r] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, ErrUnauthenticated.Error())
				return
			}
			if !roleSet[p.Role] {
				writeError(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// PrincipalFromContext extracts the authenticated caller from the request context.
func PrincipalFromContext(ctx context.Context) (principal.Principal, bool) {
	p, ok := ctx.Value(principalContextKey).(principal.Principal)
	return p, ok
}

// ContextWithPrincipal returns a context carrying p.
func ContextWithPrincipal(ctx context.Context, p principal.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}
