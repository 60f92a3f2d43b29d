package principal

import (
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role constants
const (
	RoleAdmin   = "admin"
	RoleFaculty = "faculty"
	RoleStudent = "student"
)

// ValidRoles contains all valid role values.
var ValidRoles = []string{RoleAdmin, RoleFaculty, RoleStudent}

// MinSecretLength is the shortest bearer secret accepted.
const MinSecretLength = 16

// HashCost is the bcrypt cost for stored secrets. Tests lower it.
var HashCost = 12

// Domain errors
var (
	ErrInvalidRole    = errors.New("role must be one of: admin, faculty, student")
	ErrEmptyID        = errors.New("principal id cannot be empty")
	ErrSecretTooShort = errors.New("secret must be at least 16 characters")
	ErrWrongSecret    = errors.New("invalid credentials")
	ErrMalformedToken = errors.New("bearer token must be <id>.<secret>")
)

// Principal is the authenticated caller attached to each request.
type Principal struct {
	ID   string
	Role string
	Name string
}

// IsAdmin returns true for administrator-class callers.
// INVARIANT: Principal fields are not mutated
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// Credential is a stored principal with its hashed bearer secret.
type Credential struct {
	Principal
	SecretHash string
	CreatedAt  time.Time
}

// Validate checks if the Credential has valid data.
// PRE: Credential struct is populated
// POST: Returns nil if valid, error otherwise
func (c *Credential) Validate() error {
	if strings.TrimSpace(c.ID) == "" || strings.Contains(c.ID, ".") {
		return ErrEmptyID
	}
	if !isValidRole(c.Role) {
		return ErrInvalidRole
	}
	return nil
}

// SetSecret hashes and stores a bearer secret.
// PRE: secret is at least MinSecretLength characters
// POST: SecretHash is set to a bcrypt hash
func (c *Credential) SetSecret(secret string) error {
	if len(secret) < MinSecretLength {
		return ErrSecretTooShort
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), HashCost)
	if err != nil {
		return err
	}
	c.SecretHash = string(hash)
	return nil
}

// CheckSecret verifies a plaintext secret against the stored hash.
// PRE: SecretHash is set
// INVARIANT: Credential fields are not mutated
func (c *Credential) CheckSecret(secret string) error {
	if c.SecretHash == "" {
		return ErrWrongSecret
	}
	if err := bcrypt.CompareHashAndPassword([]byte(c.SecretHash), []byte(secret)); err != nil {
		return ErrWrongSecret
	}
	return nil
}

// ParseBearer splits a bearer token into principal id and secret.
// PRE: token is the value after "Bearer "
// POST: Returns id and secret, or ErrMalformedToken
func ParseBearer(token string) (string, string, error) {
	id, secret, ok := strings.Cut(strings.TrimSpace(token), ".")
	if !ok || id == "" || secret == "" {
		return "", "", ErrMalformedToken
	}
	return id, secret, nil
}

func isValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
