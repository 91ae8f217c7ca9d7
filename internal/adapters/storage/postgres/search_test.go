package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"pet-care-marketplace/internal/domain/companies"
	"pet-care-marketplace/internal/domain/tenancy"
)

// recordingDriver guarda cada query con sus args. COUNT(*) devuelve 0 y el
// resto un result set vacío.
type recordingDriver struct {
	mu      sync.Mutex
	queries []recordedQuery
}

type recordedQuery struct {
	sql  string
	args []any
}

func (d *recordingDriver) Open(string) (driver.Conn, error) { return &recordingConn{d: d}, nil }

func (d *recordingDriver) all() []recordedQuery {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]recordedQuery(nil), d.queries...)
}

type recordingConn struct{ d *recordingDriver }

func (c *recordingConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepare not supported")
}
func (c *recordingConn) Close() error              { return nil }
func (c *recordingConn) Begin() (driver.Tx, error) { return nil, errors.New("tx not supported") }

func (c *recordingConn) QueryContext(_ context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	q := recordedQuery{sql: query}
	for _, a := range args {
		q.args = append(q.args, a.Value)
	}
	c.d.mu.Lock()
	c.d.queries = append(c.d.queries, q)
	c.d.mu.Unlock()
	if strings.Contains(query, "COUNT(*)") {
		return &fixedRows{cols: []string{"count"}, vals: [][]driver.Value{{int64(0)}}}, nil
	}
	return &fixedRows{}, nil
}

type fixedRows struct {
	cols []string
	vals [][]driver.Value
}

func (r *fixedRows) Columns() []string { return r.cols }
func (r *fixedRows) Close() error      { return nil }
func (r *fixedRows) Next(dest []driver.Value) error {
	if len(r.vals) == 0 {
		return io.EOF
	}
	copy(dest, r.vals[0])
	r.vals = r.vals[1:]
	return nil
}

func openRecording(t *testing.T) (*sql.DB, *recordingDriver) {
	t.Helper()
	d := &recordingDriver{}
	db := sql.OpenDB(connector{d})
	t.Cleanup(func() { _ = db.Close() })
	return db, d
}

type connector struct{ d *recordingDriver }

func (c connector) Connect(context.Context) (driver.Conn, error) { return c.d.Open("") }
func (c connector) Driver() driver.Driver                        { return c.d }

func TestContainsPattern_EscapesWildcards(t *testing.T) {
	cases := map[string]string{
		"spa":       "%spa%",
		"50%":       `%50\%%`,
		"a_b":       `%a\_b%`,
		`back\lash`: `%back\\lash%`,
	}
	for in, want := range cases {
		if got := containsPattern(in); got != want {
			t.Fatalf("containsPattern(%q) = %q, want %q", in, got, want)
		}
	}
}

const wildcardTerm = `50%_off\`
const wildcardPattern = `%50\%\_off\\%`

func assertEscapedSearch(t *testing.T, queries []recordedQuery) {
	t.Helper()
	if len(queries) != 2 {
		t.Fatalf("expected count + select queries, got %d", len(queries))
	}
	for _, q := range queries {
		if !strings.Contains(q.sql, `ILIKE $`) || !strings.Contains(q.sql, `ESCAPE '\'`) {
			t.Fatalf("search must use ILIKE with ESCAPE, got %q", q.sql)
		}
		found := false
		for _, a := range q.args {
			if s, ok := a.(string); ok && s == wildcardPattern {
				found = true
			}
			if s, ok := a.(string); ok && strings.Contains(s, "%_") {
				t.Fatalf("unescaped wildcard reached the query: %q", s)
			}
		}
		if !found {
			t.Fatalf("expected escaped pattern %q in args %v", wildcardPattern, q.args)
		}
	}
}

func TestEmployeesRepo_ListSearchEscapesWildcards(t *testing.T) {
	db, d := openRecording(t)
	out, total, err := NewEmployeesRepo(db).List(context.Background(), "co_1", tenancy.ListQuery{Search: wildcardTerm, Limit: 10})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 0 || len(out) != 0 {
		t.Fatalf("expected empty result, got %d/%d", len(out), total)
	}
	assertEscapedSearch(t, d.all())
}

func TestServicesRepo_ListSearchEscapesWildcards(t *testing.T) {
	db, d := openRecording(t)
	if _, _, err := NewServicesRepo(db).List(context.Background(), "co_1", tenancy.ListQuery{Search: wildcardTerm, Limit: 10}); err != nil {
		t.Fatalf("list: %v", err)
	}
	assertEscapedSearch(t, d.all())
}

func TestCompaniesRepo_ListVerifiedSearchEscapesWildcards(t *testing.T) {
	db, d := openRecording(t)
	if _, _, err := NewCompaniesRepo(db).ListVerified(context.Background(), companies.PublicQuery{Search: wildcardTerm, Limit: 10}); err != nil {
		t.Fatalf("list: %v", err)
	}
	assertEscapedSearch(t, d.all())
}
