package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/UnknownOlympus/pallas/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolationCode  = "23505"
	emailUniqueIndexName = "employee_email_key"
)

const employeeColumns = `id, first_name, last_name, email`

func (r *Repository) observe(queryType string, startTime time.Time) {
	r.metrics.ObserveQuery(queryType, time.Since(startTime).Seconds())
}

// FindByID retrieves an employee from the database by their ID.
// The boolean result is false when no employee has the given ID.
func (r *Repository) FindByID(ctx context.Context, id int64) (models.Employee, bool, error) {
	defer r.observe("find_employee_by_id", time.Now())

	query := `SELECT ` + employeeColumns + ` FROM employee WHERE id = $1`

	employee, err := scanEmployee(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Employee{}, false, nil
	}
	if err != nil {
		return models.Employee{}, false, fmt.Errorf("failed to get employee by id: %w", err)
	}

	return employee, true, nil
}

// FindByEmail retrieves an employee from the database by their email.
// The boolean result is false when no employee has the given email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (models.Employee, bool, error) {
	defer r.observe("find_employee_by_email", time.Now())

	query := `SELECT ` + employeeColumns + ` FROM employee WHERE email = $1 LIMIT 1`

	employee, err := scanEmployee(r.db.QueryRow(ctx, query, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Employee{}, false, nil
	}
	if err != nil {
		return models.Employee{}, false, fmt.Errorf("failed to get employee by email: %w", err)
	}

	return employee, true, nil
}

// FindByNamePair retrieves the employee with the given first and last name.
// It returns ErrNotFound when nobody matches; with several matches the lowest ID wins.
func (r *Repository) FindByNamePair(ctx context.Context, firstName, lastName string) (models.Employee, error) {
	defer r.observe("find_employee_by_name", time.Now())

	query := `SELECT ` + employeeColumns + ` FROM employee
		WHERE first_name = $1 AND last_name = $2
		ORDER BY id LIMIT 1`

	employee, err := scanEmployee(r.db.QueryRow(ctx, query, firstName, lastName))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Employee{}, fmt.Errorf("failed to get employee '%s %s': %w", firstName, lastName, ErrNotFound)
	}
	if err != nil {
		return models.Employee{}, fmt.Errorf("failed to get employee by name: %w", err)
	}

	return employee, nil
}

// Save inserts the employee when it has no ID and returns it with the generated ID.
// Otherwise it replaces the stored employee with the same ID.
func (r *Repository) Save(ctx context.Context, employee models.Employee) (models.Employee, error) {
	if employee.ID == 0 {
		return r.insert(ctx, employee)
	}

	return r.update(ctx, employee)
}

func (r *Repository) insert(ctx context.Context, employee models.Employee) (models.Employee, error) {
	defer r.observe("insert_employee", time.Now())

	query := `
		INSERT INTO employee (first_name, last_name, email)
		VALUES ($1, $2, $3)
		RETURNING id;
	`

	var id int64
	err := r.db.QueryRow(ctx, query, employee.FirstName, employee.LastName, employee.Email).Scan(&id)
	if err != nil {
		return models.Employee{}, fmt.Errorf("failed to save employee: %w", translateWriteError(err))
	}

	return employee.WithID(id), nil
}

func (r *Repository) update(ctx context.Context, employee models.Employee) (models.Employee, error) {
	defer r.observe("update_employee", time.Now())

	query := `
		UPDATE employee
		SET first_name = $2, last_name = $3, email = $4
		WHERE id = $1;
	`

	tag, err := r.db.Exec(ctx, query, employee.ID, employee.FirstName, employee.LastName, employee.Email)
	if err != nil {
		return models.Employee{}, fmt.Errorf("failed to update employee data: %w", translateWriteError(err))
	}
	if tag.RowsAffected() == 0 {
		return models.Employee{}, fmt.Errorf("failed to update employee '%d': %w", employee.ID, ErrNotFound)
	}

	return employee, nil
}

// DeleteByID removes the employee with the given ID. Deleting an absent employee is not an error.
func (r *Repository) DeleteByID(ctx context.Context, id int64) error {
	defer r.observe("delete_employee", time.Now())

	_, err := r.db.Exec(ctx, "DELETE FROM employee WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete employee '%d': %w", id, err)
	}

	return nil
}

// FindAll returns every stored employee ordered by ID. The result is never nil.
func (r *Repository) FindAll(ctx context.Context) ([]models.Employee, error) {
	defer r.observe("find_all_employees", time.Now())

	rows, err := r.db.Query(ctx, `SELECT `+employeeColumns+` FROM employee ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := make([]models.Employee, 0)
	for rows.Next() {
		employee, scanErr := scanEmployee(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", scanErr)
		}
		employees = append(employees, employee)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, nil
}

func scanEmployee(row pgx.Row) (models.Employee, error) {
	var employee models.Employee

	err := row.Scan(&employee.ID, &employee.FirstName, &employee.LastName, &employee.Email)

	return employee, err
}

// translateWriteError maps a unique violation of the email index to ErrDuplicateEmail.
func translateWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode && pgErr.ConstraintName == emailUniqueIndexName {
		return ErrDuplicateEmail
	}

	return err
}
