package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"campus/internal/domain/principal"
	"campus/internal/domain/student"
)

// SeedPrincipalStore defines the credential persistence needed for seeding.
type SeedPrincipalStore interface {
	GetByID(ctx context.Context, id string) (principal.Credential, error)
	Save(ctx context.Context, c principal.Credential) error
	Count(ctx context.Context) (int, error)
}

// SeedStudentStore defines the roster persistence needed for seeding.
type SeedStudentStore interface {
	Save(ctx context.Context, st student.Student) error
}

// SeedDeps holds stores needed for seeding.
type SeedDeps struct {
	Principals SeedPrincipalStore
	Students   SeedStudentStore
}

// ExecuteSeedAdmin creates the first administrator from a "<id>.<secret>" token.
// It does nothing once any principal exists.
// PRE: Database is migrated
// POST: An admin principal exists when the store was empty and token is non-empty
func ExecuteSeedAdmin(ctx context.Context, deps SeedDeps, token string) error {
	if token == "" {
		return nil
	}
	n, err := deps.Principals.Count(ctx)
	if err != nil {
		return fmt.Errorf("count principals: %w", err)
	}
	if n > 0 {
		return nil
	}
	id, secret, err := principal.ParseBearer(token)
	if err != nil {
		return fmt.Errorf("admin token: %w", err)
	}
	if err := savePrincipal(ctx, deps.Principals, principal.Principal{ID: id, Role: principal.RoleAdmin, Name: "Administrator"}, secret); err != nil {
		return err
	}
	slog.Info("seed_event", "event", "admin_created", "principal_id", id)
	return nil
}

// demoSecret is shared by every demo principal; the bearer token is "<id>.campus-demo-secret".
const demoSecret = "campus-demo-secret"

// demoStudents is a small class used in development.
func demoStudents() []student.Student {
	names := []string{"Asha Raman", "Bala Krishnan", "Chitra Devi", "Dev Anand", "Esha Gupta"}
	out := make([]student.Student, len(names))
	for i, name := range names {
		out[i] = student.Student{
			ID:         fmt.Sprintf("stu-%03d", i+1),
			Name:       name,
			RegNo:      fmt.Sprintf("21CSA%03d", i+1),
			Email:      fmt.Sprintf("stu-%03d@campus.local", i+1),
			Department: "CSE",
			Year:       2,
			Section:    "A",
		}
	}
	return out
}

// ExecuteSeedDemo loads a demo class with one faculty member and a student login per student.
// It is idempotent: existing principals are left alone and students are upserted.
// PRE: Database is migrated; development only
// POST: CSE 2A roster exists; demo-faculty and one principal per student can authenticate
func ExecuteSeedDemo(ctx context.Context, deps SeedDeps) error {
	created := 0
	logins := []principal.Principal{{ID: "demo-faculty", Role: principal.RoleFaculty, Name: "Demo Faculty"}}
	for _, st := range demoStudents() {
		if err := deps.Students.Save(ctx, st); err != nil {
			return fmt.Errorf("seed student %s: %w", st.ID, err)
		}
		logins = append(logins, principal.Principal{ID: st.ID, Role: principal.RoleStudent, Name: st.Name})
	}
	for _, p := range logins {
		_, err := deps.Principals.GetByID(ctx, p.ID)
		if err == nil {
			continue
		}
		if err := savePrincipal(ctx, deps.Principals, p, demoSecret); err != nil {
			return err
		}
		created++
	}
	slog.Info("seed_event", "event", "demo_loaded", "students", len(logins)-1, "principals_created", created)
	return nil
}

func savePrincipal(ctx context.Context, store SeedPrincipalStore, p principal.Principal, secret string) error {
	c := principal.Credential{Principal: p}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("seed principal %s: %w", p.ID, err)
	}
	if err := c.SetSecret(secret); err != nil {
		return fmt.Errorf("seed principal %s: %w", p.ID, err)
	}
	if err := store.Save(ctx, c); err != nil {
		return fmt.Errorf("seed principal %s: %w", p.ID, err)
	}
	return nil
}
