package principal_test

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"campus/internal/domain/principal"
)

func init() {
	principal.HashCost = bcrypt.MinCost
}

// TestCredential_Validate tests validation of Credential.
func TestCredential_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cred    principal.Credential
		wantErr error
	}{
		{"valid faculty", principal.Credential{Principal: principal.Principal{ID: "f1", Role: principal.RoleFaculty}}, nil},
		{"empty id", principal.Credential{Principal: principal.Principal{Role: principal.RoleAdmin}}, principal.ErrEmptyID},
		{"dotted id", principal.Credential{Principal: principal.Principal{ID: "a.b", Role: principal.RoleAdmin}}, principal.ErrEmptyID},
		{"bad role", principal.Credential{Principal: principal.Principal{ID: "x", Role: "coach"}}, principal.ErrInvalidRole},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cred.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestCredential_Secret tests hashing and verification of bearer secrets.
func TestCredential_Secret(t *testing.T) {
	c := principal.Credential{Principal: principal.Principal{ID: "f1", Role: principal.RoleFaculty}}
	if err := c.SetSecret("short"); !errors.Is(err, principal.ErrSecretTooShort) {
		t.Fatalf("SetSecret(short) = %v", err)
	}
	if err := c.SetSecret("faculty-secret-0001"); err != nil {
		t.Fatalf("SetSecret: %v", err)
	}
	if c.SecretHash == "faculty-secret-0001" {
		t.Fatal("secret stored in plaintext")
	}
	if err := c.CheckSecret("faculty-secret-0001"); err != nil {
		t.Errorf("CheckSecret(correct) = %v", err)
	}
	if err := c.CheckSecret("faculty-secret-0002"); !errors.Is(err, principal.ErrWrongSecret) {
		t.Errorf("CheckSecret(wrong) = %v", err)
	}
}

// TestParseBearer tests token splitting.
func TestParseBearer(t *testing.T) {
	id, secret, err := principal.ParseBearer("f1.abc.def")
	if err != nil || id != "f1" || secret != "abc.def" {
		t.Errorf("ParseBearer = %q %q %v", id, secret, err)
	}
	for _, bad := range []string{"", "noseparator", ".secret", "id."} {
		if _, _, err := principal.ParseBearer(bad); !errors.Is(err, principal.ErrMalformedToken) {
			t.Errorf("ParseBearer(%q) = %v", bad, err)
		}
	}
}

// TestPrincipal_Roles tests role helpers.
func TestPrincipal_Roles(t *testing.T) {
	if !(principal.Principal{Role: principal.RoleAdmin}).IsAdmin() {
		t.Error("admin should be admin")
	}
	if (principal.Principal{Role: principal.RoleFaculty}).IsAdmin() {
		t.Error("faculty should not be admin")
	}
}
