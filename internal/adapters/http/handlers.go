package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"campus/internal/adapters/http/middleware"
	"campus/internal/domain/attendance"
	"campus/internal/domain/principal"
)

// validate checks request DTO shape. Semantic rules live in the domain.
var validate = validator.New(validator.WithRequiredStructEnabled())

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode_error", "error", err)
	}
}

// writeMessage writes a {message} body.
func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	writeMessage(w, http.StatusInternalServerError, "internal server error")
}

// writeDomainError maps attendance errors onto HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, attendance.ErrSlotLocked):
		writeMessage(w, http.StatusConflict, err.Error())
	case attendance.IsValidation(err):
		writeMessage(w, http.StatusBadRequest, err.Error())
	default:
		internalError(w, err)
	}
}

// validationMessage flattens validator errors into one line naming the failing fields.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	fields := make([]string, len(verrs))
	for i, fe := range verrs {
		fields[i] = fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag())
	}
	return fmt.Sprintf("%s: %s", attendance.ErrInvalidQuery, strings.Join(fields, ", "))
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// currentPrincipal returns the authenticated caller. Routes are wrapped in RequireRole,
// so a missing principal is a wiring bug.
func currentPrincipal(r *http.Request) principal.Principal {
	p, _ := middleware.PrincipalFromContext(r.Context())
	return p
}

// classFromQuery reads the department/year/section triple.
func classFromQuery(r *http.Request) (attendance.ClassFilter, error) {
	q := r.URL.Query()
	year, err := strconv.Atoi(strings.TrimSpace(q.Get("year")))
	if err != nil {
		return attendance.ClassFilter{}, fmt.Errorf("%w: year must be a number", attendance.ErrInvalidQuery)
	}
	class := attendance.ClassFilter{
		Department: strings.TrimSpace(q.Get("department")),
		Year:       year,
		Section:    strings.TrimSpace(q.Get("section")),
	}
	return class, class.Validate()
}

// handleHealthz reports liveness (GET /healthz).
func handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
