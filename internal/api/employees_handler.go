package api

import (
	"context"
	"strconv"

	"github.com/UnknownOlympus/pallas/internal/lib/apperr"
	"github.com/UnknownOlympus/pallas/internal/models"
	"github.com/gofiber/fiber/v2"
)

// EmployeeService is the business layer the handlers delegate to.
type EmployeeService interface {
	SaveEmployee(ctx context.Context, employee models.Employee) (models.Employee, error)
	GetAllEmployees(ctx context.Context) ([]models.Employee, error)
	GetEmployeeByID(ctx context.Context, id int64) (models.Employee, bool, error)
	FindEmployeeByName(ctx context.Context, firstName, lastName string) (models.Employee, error)
	UpdateEmployee(ctx context.Context, employee models.Employee) (models.Employee, error)
	DeleteEmployee(ctx context.Context, id int64) error
}

// EmployeesHandler exposes the employee endpoints.
type EmployeesHandler struct {
	service EmployeeService
}

// NewEmployeesHandler constructs handler.
func NewEmployeesHandler(service EmployeeService) *EmployeesHandler {
	return &EmployeesHandler{service: service}
}

// Create handles POST /api/employees.
func (h *EmployeesHandler) Create(c *fiber.Ctx) error {
	var req EmployeeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	saved, err := h.service.SaveEmployee(c.UserContext(), req.toModel(0))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(saved)
}

// List handles GET /api/employees.
func (h *EmployeesHandler) List(c *fiber.Ctx) error {
	employees, err := h.service.GetAllEmployees(c.UserContext())
	if err != nil {
		return err
	}

	return c.JSON(employees)
}

// Get handles GET /api/employees/:id.
func (h *EmployeesHandler) Get(c *fiber.Ctx) error {
	id, err := employeeID(c)
	if err != nil {
		return err
	}

	employee, found, err := h.service.GetEmployeeByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	if !found {
		return apperr.New(apperr.KindNotFound, "employee not found", map[string]any{"id": id})
	}

	return c.JSON(employee)
}

// Search handles GET /api/employees/search?firstName=&lastName=.
func (h *EmployeesHandler) Search(c *fiber.Ctx) error {
	firstName, lastName := c.Query("firstName"), c.Query("lastName")
	if firstName == "" || lastName == "" {
		return apperr.New(apperr.KindInvalidInput, "firstName and lastName are required", nil)
	}

	employee, err := h.service.FindEmployeeByName(c.UserContext(), firstName, lastName)
	if err != nil {
		return err
	}

	return c.JSON(employee)
}

// Update handles PUT /api/employees/:id. The stored employee is replaced by the body.
func (h *EmployeesHandler) Update(c *fiber.Ctx) error {
	id, err := employeeID(c)
	if err != nil {
		return err
	}

	var req EmployeeRequest
	if err = bindAndValidate(c, &req); err != nil {
		return err
	}

	updated, err := h.service.UpdateEmployee(c.UserContext(), req.toModel(id))
	if err != nil {
		return err
	}

	return c.JSON(updated)
}

// Delete handles DELETE /api/employees/:id.
func (h *EmployeesHandler) Delete(c *fiber.Ctx) error {
	id, err := employeeID(c)
	if err != nil {
		return err
	}

	if err = h.service.DeleteEmployee(c.UserContext(), id); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func employeeID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.New(apperr.KindInvalidInput, "employee id must be a positive integer",
			map[string]any{"id": c.Params("id")})
	}

	return id, nil
}
