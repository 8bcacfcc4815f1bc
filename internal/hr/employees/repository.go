package employees

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bizledger/bizledger/internal/masterdata/shared"
)

// Repository provides PostgreSQL backed persistence for employees.
type Repository interface {
	List(ctx context.Context, filters shared.ListFilters) ([]Employee, int, error)
	Get(ctx context.Context, tenantID, id int64) (Employee, error)
	Create(ctx context.Context, e Employee) (int64, error)
	Update(ctx context.Context, e Employee) error
	SetStatus(ctx context.Context, tenantID, id int64, status Status) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// Role names come along via a left join so a missing role never hides the
// employee.
const employeeSelect = `SELECT e.id, e.tenant_id, e.name, e.email, e.phone, e.address, e.role_id, COALESCE(r.name, ''),
e.joining_date, e.salary, e.status, e.created_at, e.updated_at
FROM employees e LEFT JOIN roles r ON r.id = e.role_id`

func scanEmployee(row pgx.Row) (Employee, error) {
	var e Employee
	err := row.Scan(&e.ID, &e.TenantID, &e.Name, &e.Email, &e.Phone, &e.Address, &e.RoleID, &e.RoleName,
		&e.JoiningDate, &e.Salary, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func (r *repository) List(ctx context.Context, filters shared.ListFilters) ([]Employee, int, error) {
	where := "WHERE e.tenant_id = $1"
	args := []any{filters.TenantID}
	argPos := 2

	if filters.IsActive != nil {
		status := StatusInactive
		if *filters.IsActive {
			status = StatusActive
		}
		where += fmt.Sprintf(" AND e.status = $%d", argPos)
		args = append(args, status)
		argPos++
	}
	if filters.Search != "" {
		where += fmt.Sprintf(" AND e.name ILIKE $%d", argPos)
		args = append(args, "%"+filters.Search+"%")
		argPos++
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM employees e "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("%s %s ORDER BY e.name LIMIT $%d OFFSET $%d", employeeSelect, where, argPos, argPos+1)
	args = append(args, filters.Limit, filters.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, e)
	}
	return result, total, rows.Err()
}

func (r *repository) Get(ctx context.Context, tenantID, id int64) (Employee, error) {
	e, err := scanEmployee(r.pool.QueryRow(ctx, employeeSelect+" WHERE e.tenant_id = $1 AND e.id = $2", tenantID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, shared.ErrNotFound
	}
	return e, err
}

func (r *repository) Create(ctx context.Context, e Employee) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO employees (tenant_id, name, email, phone, address, role_id, joining_date, salary, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW()) RETURNING id`,
		e.TenantID, e.Name, e.Email, e.Phone, e.Address, e.RoleID, e.JoiningDate, e.Salary, e.Status).Scan(&id)
	return id, err
}

func (r *repository) Update(ctx context.Context, e Employee) error {
	tag, err := r.pool.Exec(ctx, `UPDATE employees SET name = $1, email = $2, phone = $3, address = $4, role_id = $5,
joining_date = $6, salary = $7, updated_at = NOW() WHERE tenant_id = $8 AND id = $9`,
		e.Name, e.Email, e.Phone, e.Address, e.RoleID, e.JoiningDate, e.Salary, e.TenantID, e.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) SetStatus(ctx context.Context, tenantID, id int64, status Status) error {
	tag, err := r.pool.Exec(ctx, `UPDATE employees SET status = $1, updated_at = NOW() WHERE tenant_id = $2 AND id = $3`,
		status, tenantID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
