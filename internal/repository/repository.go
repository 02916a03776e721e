package repository

import (
	"context"

	"github.com/UnknownOlympus/pallas/internal/lib/apperr"
	"github.com/UnknownOlympus/pallas/internal/metrics"
	"github.com/UnknownOlympus/pallas/internal/models"
)

var (
	// ErrNotFound is returned when a single-result lookup or an update matches no employee.
	ErrNotFound = apperr.New(apperr.KindNotFound, "employee not found", nil)

	// ErrDuplicateEmail is returned when the storage unique index on email rejects a write.
	ErrDuplicateEmail = apperr.New(apperr.KindDuplicateEmail, "employee email already exists", nil)
)

type Repository struct {
	db      Database
	metrics *metrics.Metrics
}

// EmployeeRepoIface represents the interface for interacting with employee data in the repository.
type EmployeeRepoIface interface {
	FindByID(ctx context.Context, id int64) (models.Employee, bool, error)
	FindByEmail(ctx context.Context, email string) (models.Employee, bool, error)
	FindByNamePair(ctx context.Context, firstName, lastName string) (models.Employee, error)
	Save(ctx context.Context, employee models.Employee) (models.Employee, error)
	DeleteByID(ctx context.Context, id int64) error
	FindAll(ctx context.Context) ([]models.Employee, error)
}

func NewEmployeeRepository(db Database, metrics *metrics.Metrics) EmployeeRepoIface {
	return &Repository{db: db, metrics: metrics}
}
