package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"pet-care-marketplace/internal/domain/employees"
	"pet-care-marketplace/internal/domain/tenancy"
	"pet-care-marketplace/internal/platform/jsoncol"
)

// EmployeesRepo implementa tenancy.Repository[employees.Employee].
type EmployeesRepo struct {
	db *sql.DB
}

func NewEmployeesRepo(db *sql.DB) *EmployeesRepo {
	return &EmployeesRepo{db: db}
}

const employeeColumns = `
	id, company_id, first_name, last_name, email, phone, position,
	specialties, working_hours, hourly_rate, hire_date, notes, active,
	created_at, updated_at`

func emptyWorkingHours() employees.WorkingHours { return employees.WorkingHours{} }

func scanEmployee(s scanner) (employees.Employee, error) {
	var (
		e         employees.Employee
		specs, wh []byte
		hireDate  sql.NullTime
	)
	if err := s.Scan(
		&e.ID, &e.CompanyID, &e.FirstName, &e.LastName, &e.Email, &e.Phone, &e.Position,
		&specs, &wh, &e.HourlyRate, &hireDate, &e.Notes, &e.Active,
		&e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return employees.Employee{}, err
	}
	e.Specialties = jsoncol.Parse(specs, jsoncol.EmptyList)
	e.WorkingHours = jsoncol.Parse(wh, emptyWorkingHours)
	if hireDate.Valid {
		e.HireDate = hireDate.Time.Format("2006-01-02")
	}
	return e, nil
}

func (r *EmployeesRepo) Get(ctx context.Context, companyID, id string) (employees.Employee, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+employeeColumns+` FROM employees WHERE company_id = $1 AND id = $2
	`, companyID, id)
	e, err := scanEmployee(row)
	if errors.Is(err, sql.ErrNoRows) {
		return employees.Employee{}, ErrNotFound
	}
	return e, err
}

func (r *EmployeesRepo) List(ctx context.Context, companyID string, q tenancy.ListQuery) ([]employees.Employee, int, error) {
	w := &where{}
	w.add("company_id = ?", companyID)
	if q.Active != nil {
		w.add("active = ?", *q.Active)
	}
	if p := q.Filters["position"]; p != "" {
		w.add("lower(position) = lower(?)", p)
	}
	if q.Search != "" {
		w.add(`(first_name || ' ' || last_name || ' ' || email) ILIKE ? ESCAPE '\'`, containsPattern(q.Search))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM employees WHERE `+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	suffix, args := w.page(q.Limit, q.Offset)
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+employeeColumns+`
		FROM employees
		WHERE `+w.String()+`
		ORDER BY created_at DESC, id DESC`+suffix, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]employees.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}

func (r *EmployeesRepo) Create(ctx context.Context, e employees.Employee) error {
	specs, wh, err := encodeEmployeeJSON(e)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO employees (`+employeeColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	`,
		e.ID, e.CompanyID, e.FirstName, e.LastName, e.Email, e.Phone, e.Position,
		specs, wh, e.HourlyRate, nullString(e.HireDate), e.Notes, e.Active,
		e.CreatedAt, e.UpdatedAt,
	)
	return mapWriteErr(err)
}

func (r *EmployeesRepo) Update(ctx context.Context, e employees.Employee) error {
	specs, wh, err := encodeEmployeeJSON(e)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE employees SET
			first_name = $3, last_name = $4, email = $5, phone = $6, position = $7,
			specialties = $8, working_hours = $9, hourly_rate = $10, hire_date = $11,
			notes = $12, active = $13, updated_at = $14
		WHERE company_id = $1 AND id = $2
	`,
		e.CompanyID, e.ID, e.FirstName, e.LastName, e.Email, e.Phone, e.Position,
		specs, wh, e.HourlyRate, nullString(e.HireDate),
		e.Notes, e.Active, e.UpdatedAt,
	)
	if err != nil {
		return mapWriteErr(err)
	}
	return expectOne(res)
}

func (r *EmployeesRepo) Deactivate(ctx context.Context, companyID, id string, now time.Time) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE employees SET active = FALSE, updated_at = $3 WHERE company_id = $1 AND id = $2
	`, companyID, id, now)
	if err != nil {
		return err
	}
	return expectOne(res)
}

func encodeEmployeeJSON(e employees.Employee) ([]byte, []byte, error) {
	specs, err := jsoncol.Encode(e.Specialties)
	if err != nil {
		return nil, nil, err
	}
	wh, err := jsoncol.Encode(e.WorkingHours)
	if err != nil {
		return nil, nil, err
	}
	return specs, wh, nil
}
