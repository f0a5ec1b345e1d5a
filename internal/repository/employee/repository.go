package employee

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Artexxx/perf-tracker/internal/dto"
)

type PgxPoolIface interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

type Repository struct {
	pool PgxPoolIface
}

func NewRepository(pool PgxPoolIface) *Repository {
	return &Repository{pool: pool}
}

// Columns mutable via UpdateField. Keys are caller-facing field names, values
// are the actual column identifiers interpolated into the update statement.
var updatableColumns = map[string]string{
	"first_name": "first_name",
	"last_name":  "last_name",
	"email":      "email",
	"hire_date":  "hire_date",
	"department": "department",
}

func (r *Repository) Create(ctx context.Context, e dto.Employee) (int64, error) {
	query := `
insert into employees
  (first_name, last_name, email, hire_date, department)
values
  (@first_name, @last_name, @email, @hire_date::date, @department)
returning employee_id;
`
	args := pgx.NamedArgs{
		"first_name": e.FirstName,
		"last_name":  e.LastName,
		"email":      e.Email,
		"hire_date":  e.HireDate,
		"department": e.Department,
	}

	var id int64
	err := r.pool.QueryRow(ctx, query, args).Scan(&id)
	if err != nil {
		var pgerr *pgconn.PgError
		if errors.As(err, &pgerr) && pgerr.Code == "23505" {
			return 0, dto.ErrAlreadyExists
		}

		return 0, fmt.Errorf("pool.QueryRow: %w", err)
	}

	return id, nil
}

func (r *Repository) GetByID(ctx context.Context, employeeID int64) (*dto.Employee, error) {
	query := `
select employee_id,
       first_name,
       last_name,
       email,
       to_char(hire_date,'YYYY-MM-DD'),
       department
from employees
where employee_id = $1;
`
	var out dto.Employee

	err := r.pool.QueryRow(ctx, query, employeeID).Scan(
		&out.EmployeeID,
		&out.FirstName,
		&out.LastName,
		&out.Email,
		&out.HireDate,
		&out.Department,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, dto.ErrNotFound
		}

		return nil, fmt.Errorf("row.Scan: %w", err)
	}

	return &out, nil
}

func (r *Repository) Exists(ctx context.Context, employeeID int64) (bool, error) {
	query := `select 1 from employees where employee_id = $1 limit 1;`

	var x int
	err := r.pool.QueryRow(ctx, query, employeeID).Scan(&x)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}

		return false, fmt.Errorf("row.Scan: %w", err)
	}

	return true, nil
}

func (r *Repository) List(ctx context.Context) ([]dto.Employee, error) {
	query := `
select employee_id,
       first_name,
       last_name,
       email,
       to_char(hire_date,'YYYY-MM-DD'),
       department
from employees
order by employee_id;
`
	return r.queryEmployees(ctx, query)
}

func (r *Repository) SearchByName(ctx context.Context, name string) ([]dto.Employee, error) {
	query := `
select employee_id,
       first_name,
       last_name,
       email,
       to_char(hire_date,'YYYY-MM-DD'),
       department
from employees
where first_name ilike '%' || $1 || '%'
   or last_name ilike '%' || $1 || '%'
order by employee_id;
`
	return r.queryEmployees(ctx, query, name)
}

func (r *Repository) SearchByDepartment(ctx context.Context, department string) ([]dto.Employee, error) {
	query := `
select employee_id,
       first_name,
       last_name,
       email,
       to_char(hire_date,'YYYY-MM-DD'),
       department
from employees
where department ilike '%' || $1 || '%'
order by employee_id;
`
	return r.queryEmployees(ctx, query, department)
}

func (r *Repository) RecentHires(ctx context.Context, days int) ([]dto.Employee, error) {
	query := `
select employee_id,
       first_name,
       last_name,
       email,
       to_char(hire_date,'YYYY-MM-DD'),
       department
from employees
where hire_date >= current_date - $1::int
order by hire_date desc, employee_id;
`
	return r.queryEmployees(ctx, query, days)
}

func (r *Repository) UpdateField(ctx context.Context, employeeID int64, field, value string) error {
	column, ok := updatableColumns[field]
	if !ok {
		return fmt.Errorf("%w: field %q is not updatable", dto.ErrInvalidField, field)
	}

	cast := ""
	if column == "hire_date" {
		cast = "::date"
	}

	query := fmt.Sprintf(`update employees set %s = $1%s where employee_id = $2;`, column, cast)

	tag, err := r.pool.Exec(ctx, query, value, employeeID)
	if err != nil {
		var pgerr *pgconn.PgError
		if errors.As(err, &pgerr) && pgerr.Code == "23505" {
			return dto.ErrAlreadyExists
		}

		return fmt.Errorf("pool.Exec: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return dto.ErrNotFound
	}

	return nil
}

// Delete removes the employee; assignments cascade at the store level.
// Reviews referencing the employee are left in place and show up through
// the orphaned-reviews report.
func (r *Repository) Delete(ctx context.Context, employeeID int64) error {
	query := `delete from employees where employee_id = $1;`

	tag, err := r.pool.Exec(ctx, query, employeeID)
	if err != nil {
		return fmt.Errorf("pool.Exec: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return dto.ErrNotFound
	}

	return nil
}

func (r *Repository) queryEmployees(ctx context.Context, query string, args ...any) ([]dto.Employee, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pool.Query: %w", err)
	}
	defer rows.Close()

	var out []dto.Employee
	for rows.Next() {
		var e dto.Employee

		err = rows.Scan(
			&e.EmployeeID,
			&e.FirstName,
			&e.LastName,
			&e.Email,
			&e.HireDate,
			&e.Department,
		)
		if err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}

		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return out, nil
}
