package employees

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/pallas/internal/lib/apperr"
	"github.com/UnknownOlympus/pallas/internal/lib/logger/sl"
	"github.com/UnknownOlympus/pallas/internal/metrics"
	"github.com/UnknownOlympus/pallas/internal/models"
	"github.com/UnknownOlympus/pallas/internal/repository"
)

// DuplicateResourceError is returned when an employee with the same email already exists.
type DuplicateResourceError struct {
	Email string
}

func (e *DuplicateResourceError) Error() string {
	return "employee already exists with given email: " + e.Email
}

// Kind reports the error as a duplicate email.
func (e *DuplicateResourceError) Kind() apperr.Kind {
	return apperr.KindDuplicateEmail
}

type Staff struct {
	log     *slog.Logger
	repo    repository.EmployeeRepoIface
	metrics *metrics.Metrics
}

func NewStaff(log *slog.Logger, repo repository.EmployeeRepoIface, metrics *metrics.Metrics) *Staff {
	return &Staff{log: log, repo: repo, metrics: metrics}
}

func (s *Staff) initLogger(opn string) *slog.Logger {
	return s.log.With(
		sl.Op(opn),
		slog.String("division", "employee"),
	)
}

// SaveEmployee creates a new employee unless another one already uses the same email.
func (s *Staff) SaveEmployee(ctx context.Context, employee models.Employee) (models.Employee, error) {
	const opn = "Employee.SaveEmployee"
	log := s.initLogger(opn)

	_, existed, err := s.repo.FindByEmail(ctx, employee.Email)
	if err != nil {
		return models.Employee{}, fmt.Errorf("failed to check employee email: %w", err)
	}
	if existed {
		log.InfoContext(ctx, "Employee with the same email already exists", "email", employee.Email)
		s.metrics.DuplicateEmails.Inc()
		return models.Employee{}, &DuplicateResourceError{Email: employee.Email}
	}

	saved, err := s.repo.Save(ctx, employee)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		// a concurrent creation won the race between the lookup and the insert
		log.WarnContext(ctx, "Email taken concurrently", "email", employee.Email)
		s.metrics.DuplicateEmails.Inc()
		return models.Employee{}, &DuplicateResourceError{Email: employee.Email}
	}
	if err != nil {
		log.ErrorContext(ctx, "Failed to save employee", sl.Err(err))
		return models.Employee{}, fmt.Errorf("failed to save new employee %s: %w", employee.Email, err)
	}

	s.metrics.EmployeesCreated.Inc()
	log.DebugContext(ctx, "Employee created", "id", saved.ID)

	return saved, nil
}

// GetAllEmployees returns every employee. The result is never nil.
func (s *Staff) GetAllEmployees(ctx context.Context) ([]models.Employee, error) {
	employees, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get employees: %w", err)
	}
	if employees == nil {
		employees = []models.Employee{}
	}

	return employees, nil
}

// GetEmployeeByID returns the employee with the given ID, if any.
func (s *Staff) GetEmployeeByID(ctx context.Context, id int64) (models.Employee, bool, error) {
	employee, found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return models.Employee{}, false, fmt.Errorf("failed to get employee '%d': %w", id, err)
	}

	return employee, found, nil
}

// FindEmployeeByName returns the employee with the given first and last name.
func (s *Staff) FindEmployeeByName(ctx context.Context, firstName, lastName string) (models.Employee, error) {
	employee, err := s.repo.FindByNamePair(ctx, firstName, lastName)
	if err != nil {
		return models.Employee{}, fmt.Errorf("failed to find employee by name: %w", err)
	}

	return employee, nil
}

// UpdateEmployee replaces the stored employee. The email is not checked for uniqueness here,
// only the storage unique index can reject it.
func (s *Staff) UpdateEmployee(ctx context.Context, employee models.Employee) (models.Employee, error) {
	const opn = "Employee.UpdateEmployee"
	log := s.initLogger(opn)

	updated, err := s.repo.Save(ctx, employee)
	if errors.Is(err, repository.ErrDuplicateEmail) {
		log.InfoContext(ctx, "Update rejected, email already in use", "id", employee.ID, "email", employee.Email)
		return models.Employee{}, &DuplicateResourceError{Email: employee.Email}
	}
	if err != nil {
		return models.Employee{}, fmt.Errorf("failed to update employee '%d': %w", employee.ID, err)
	}

	return updated, nil
}

// DeleteEmployee removes the employee with the given ID. Absent employees are ignored.
func (s *Staff) DeleteEmployee(ctx context.Context, id int64) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete employee '%d': %w", id, err)
	}

	return nil
}
