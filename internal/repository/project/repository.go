package project

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

const projectColumns = `
select project_id,
       project_name,
       to_char(start_date,'YYYY-MM-DD'),
       to_char(end_date,'YYYY-MM-DD'),
       status
from projects
`

func (r *Repository) Create(ctx context.Context, p dto.Project) (int64, error) {
	query := `
insert into projects
  (project_name, start_date, end_date, status)
values
  (@project_name, @start_date::date, nullif(@end_date,'')::date, @status)
returning project_id;
`
	args := pgx.NamedArgs{
		"project_name": p.ProjectName,
		"start_date":   p.StartDate,
		"end_date":     strptr(p.EndDate),
		"status":       p.Status,
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

func (r *Repository) Update(ctx context.Context, p dto.Project) error {
	query := `
update projects set
  project_name = @project_name,
  start_date   = @start_date::date,
  end_date     = nullif(@end_date,'')::date,
  status       = @status
where project_id = @project_id;
`
	args := pgx.NamedArgs{
		"project_id":   p.ProjectID,
		"project_name": p.ProjectName,
		"start_date":   p.StartDate,
		"end_date":     strptr(p.EndDate),
		"status":       p.Status,
	}

	tag, err := r.pool.Exec(ctx, query, args)
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

// Delete removes the project; assignments cascade at the store level.
func (r *Repository) Delete(ctx context.Context, projectID int64) error {
	query := `delete from projects where project_id = $1;`

	tag, err := r.pool.Exec(ctx, query, projectID)
	if err != nil {
		return fmt.Errorf("pool.Exec: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return dto.ErrNotFound
	}

	return nil
}

func (r *Repository) GetByID(ctx context.Context, projectID int64) (*dto.Project, error) {
	query := projectColumns + `where project_id = $1;`

	var (
		out     dto.Project
		endDate *string
	)

	err := r.pool.QueryRow(ctx, query, projectID).Scan(
		&out.ProjectID,
		&out.ProjectName,
		&out.StartDate,
		&endDate,
		&out.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, dto.ErrNotFound
		}

		return nil, fmt.Errorf("row.Scan: %w", err)
	}

	out.EndDate = endDate

	return &out, nil
}

func (r *Repository) List(ctx context.Context) ([]dto.Project, error) {
	return r.queryProjects(ctx, projectColumns+`order by project_id;`)
}

func (r *Repository) SearchByName(ctx context.Context, name string) ([]dto.Project, error) {
	query := projectColumns + `where project_name ilike '%' || $1 || '%' order by project_id;`

	return r.queryProjects(ctx, query, name)
}

func (r *Repository) ByStatus(ctx context.Context, status string) ([]dto.Project, error) {
	query := projectColumns + `where status = $1 order by project_id;`

	return r.queryProjects(ctx, query, status)
}

// CountByStatus returns project counts per status, zero-filled over the
// allowed status set.
func (r *Repository) CountByStatus(ctx context.Context) (map[string]int, error) {
	query := `select status, count(*) from projects group by status;`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pool.Query: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int, len(dto.AllowedStatuses))
	for _, status := range dto.AllowedStatuses {
		out[status] = 0
	}

	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}

		out[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return out, nil
}

// Assign links an employee to a project. The store enforces both the
// (employee_id, project_id) uniqueness and the foreign keys; violations are
// translated rather than pre-checked, so concurrent writers race safely.
func (r *Repository) Assign(ctx context.Context, employeeID, projectID int64, role string) (int64, error) {
	query := `
insert into employee_projects
  (employee_id, project_id, role)
values
  ($1, $2, $3)
returning assignment_id;
`
	var id int64
	err := r.pool.QueryRow(ctx, query, employeeID, projectID, role).Scan(&id)
	if err != nil {
		var pgerr *pgconn.PgError
		if errors.As(err, &pgerr) {
			switch pgerr.Code {
			case "23505":
				return 0, dto.ErrAlreadyExists
			case "23503":
				return 0, dto.ErrNotFound
			}
		}

		return 0, fmt.Errorf("pool.QueryRow: %w", err)
	}

	return id, nil
}

func (r *Repository) Unassign(ctx context.Context, employeeID, projectID int64) error {
	query := `delete from employee_projects where employee_id = $1 and project_id = $2;`

	tag, err := r.pool.Exec(ctx, query, employeeID, projectID)
	if err != nil {
		return fmt.Errorf("pool.Exec: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return dto.ErrNotFound
	}

	return nil
}

func (r *Repository) ProjectsForEmployee(ctx context.Context, employeeID int64) ([]dto.EmployeeProject, error) {
	query := `
select ep.assignment_id,
       p.project_id,
       p.project_name,
       ep.role,
       to_char(ep.assigned_date,'YYYY-MM-DD')
from employee_projects ep
join projects p on ep.project_id = p.project_id
where ep.employee_id = $1
order by ep.assigned_date desc, ep.assignment_id;
`
	rows, err := r.pool.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("pool.Query: %w", err)
	}
	defer rows.Close()

	var out []dto.EmployeeProject
	for rows.Next() {
		var ep dto.EmployeeProject

		err = rows.Scan(&ep.AssignmentID, &ep.ProjectID, &ep.ProjectName, &ep.Role, &ep.AssignedDate)
		if err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}

		out = append(out, ep)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return out, nil
}

func (r *Repository) EmployeesForProject(ctx context.Context, projectID int64) ([]dto.ProjectEmployee, error) {
	query := `
select ep.assignment_id,
       e.employee_id,
       e.first_name,
       e.last_name,
       ep.role,
       to_char(ep.assigned_date,'YYYY-MM-DD')
from employee_projects ep
join employees e on ep.employee_id = e.employee_id
where ep.project_id = $1
order by ep.assigned_date desc, ep.assignment_id;
`
	rows, err := r.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("pool.Query: %w", err)
	}
	defer rows.Close()

	var out []dto.ProjectEmployee
	for rows.Next() {
		var pe dto.ProjectEmployee

		err = rows.Scan(&pe.AssignmentID, &pe.EmployeeID, &pe.FirstName, &pe.LastName, &pe.Role, &pe.AssignedDate)
		if err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}

		out = append(out, pe)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return out, nil
}

func (r *Repository) queryProjects(ctx context.Context, query string, args ...any) ([]dto.Project, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("pool.Query: %w", err)
	}
	defer rows.Close()

	var out []dto.Project
	for rows.Next() {
		var (
			p       dto.Project
			endDate *string
		)

		err = rows.Scan(&p.ProjectID, &p.ProjectName, &p.StartDate, &endDate, &p.Status)
		if err != nil {
			return nil, fmt.Errorf("rows.Scan: %w", err)
		}

		p.EndDate = endDate
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows.Err: %w", err)
	}

	return out, nil
}

func strptr(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
