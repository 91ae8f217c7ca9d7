package postgres

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestWhere_NumbersPlaceholders(t *testing.T) {
	w := &where{}
	w.add("company_id = ?", "co_1")
	w.addRaw("verified = TRUE")
	w.add("(name ILIKE ? OR description ILIKE ?)", "%spa%")

	if got := w.String(); got != "company_id = $1 AND verified = TRUE AND (name ILIKE $2 OR description ILIKE $2)" {
		t.Fatalf("unexpected where %q", got)
	}
	suffix, args := w.page(10, 20)
	if suffix != " LIMIT $3 OFFSET $4" || len(args) != 4 || args[2] != 10 || args[3] != 20 {
		t.Fatalf("unexpected page %q %v", suffix, args)
	}
	if len(w.args) != 2 {
		t.Fatalf("page must not mutate where args")
	}
}

func TestWhere_EmptyAndNoLimit(t *testing.T) {
	w := &where{}
	if w.String() != "TRUE" {
		t.Fatalf("expected TRUE for empty where")
	}
	_, args := w.page(0, 0)
	if args[0] != nil {
		t.Fatalf("expected nil limit for 0, got %v", args[0])
	}
}

func TestMapWriteErr(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})
	if !errors.Is(mapWriteErr(unique), ErrDuplicate) {
		t.Fatalf("expected 23505 to map to ErrDuplicate")
	}
	other := &pgconn.PgError{Code: "23503"}
	if errors.Is(mapWriteErr(other), ErrDuplicate) {
		t.Fatalf("fk violation must not map to ErrDuplicate")
	}
	if mapWriteErr(nil) != nil {
		t.Fatalf("nil must stay nil")
	}
}

func TestSchemaSplitsIntoStatements(t *testing.T) {
	stmts := splitStatements(schema)
	if len(stmts) < 8 {
		t.Fatalf("expected schema statements, got %d", len(stmts))
	}
	for _, s := range stmts {
		if !strings.HasPrefix(s, "CREATE") {
			t.Fatalf("unexpected statement %q", s[:20])
		}
	}
}

func TestSchemaDeleteSemantics(t *testing.T) {
	want := []string{
		"company_id  VARCHAR(64) NOT NULL REFERENCES companies(id) ON DELETE CASCADE",
		"owner_id       VARCHAR(64) NOT NULL REFERENCES pet_owners(id) ON DELETE CASCADE",
		"service_id   VARCHAR(64) NOT NULL REFERENCES services(id) ON DELETE CASCADE",
		"pet_id       VARCHAR(64) NOT NULL REFERENCES pets(id) ON DELETE CASCADE",
		"employee_id  VARCHAR(64) REFERENCES employees(id) ON DELETE SET NULL",
		"booking_id   VARCHAR(64) UNIQUE REFERENCES bookings(id) ON DELETE SET NULL",
	}
	for _, clause := range want {
		if !strings.Contains(schema, clause) {
			t.Fatalf("schema is missing %q", clause)
		}
	}
	if n := strings.Count(schema, "ON DELETE CASCADE"); n != 9 {
		t.Fatalf("expected 9 cascading foreign keys, got %d", n)
	}
	if n := strings.Count(schema, "ON DELETE SET NULL"); n != 2 {
		t.Fatalf("expected 2 nulling foreign keys, got %d", n)
	}
}
