package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"pet-care-marketplace/internal/domain/tenancy"
)

var (
	ErrNotFound  = tenancy.ErrNotFound
	ErrDuplicate = tenancy.ErrDuplicate
)

//go:embed schema.sql
var schema string

// Open abre el pool (pgx vía database/sql). El pool se inyecta en cada repo.
func Open(dsn string, maxOpen, maxIdle int) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	if maxOpen <= 0 {
		maxOpen = 10
	}
	if maxIdle <= 0 || maxIdle > maxOpen {
		maxIdle = maxOpen / 2
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate aplica schema.sql (idempotente) dentro de una transacción.
func Migrate(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range splitStatements(schema) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return tx.Commit()
}

func splitStatements(s string) []string {
	parts := strings.Split(s, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// isUniqueViolation: 23505 = unique_violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// mapWriteErr traduce errores de escritura a los sentinels del dominio.
func mapWriteErr(err error) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// nullString guarda "" como NULL (columnas con unique parcial).
func nullString(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// limitArg: 0 = sin límite (LIMIT NULL en Postgres).
func limitArg(limit int) any {
	if limit <= 0 {
		return nil
	}
	return limit
}

// scanner es *sql.Row o *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func itoa(n int) string { return strconv.Itoa(n) }

// where arma condiciones AND con placeholders numerados; "?" en cond se
// reemplaza por el siguiente $n (todas las apariciones usan el mismo arg).
type where struct {
	conds []string
	args  []any
}

func (w *where) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, strings.ReplaceAll(cond, "?", "$"+itoa(len(w.args))))
}

func (w *where) addRaw(cond string) {
	w.conds = append(w.conds, cond)
}

func (w *where) String() string {
	if len(w.conds) == 0 {
		return "TRUE"
	}
	return strings.Join(w.conds, " AND ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern arma el patrón ILIKE para "contiene"; los comodines del
// término se escapan y matchean literal (va con ESCAPE '\').
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// page agrega LIMIT/OFFSET al final de los args y devuelve el sufijo SQL.
func (w *where) page(limit, offset int) (string, []any) {
	args := append(append([]any(nil), w.args...), limitArg(limit), offset)
	n := len(args)
	return " LIMIT $" + itoa(n-1) + " OFFSET $" + itoa(n), args
}
