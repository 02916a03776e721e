package api

import "github.com/UnknownOlympus/pallas/internal/models"

// EmployeeRequest is the payload for creating or replacing an employee.
// An id in the body is never read; creation assigns one and updates take it from the path.
type EmployeeRequest struct {
	FirstName string `json:"firstName" validate:"required,max=255"`
	LastName  string `json:"lastName"  validate:"required,max=255"`
	Email     string `json:"email"     validate:"required,email,max=255"`
}

func (r EmployeeRequest) toModel(id int64) models.Employee {
	return models.Employee{
		ID:        id,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
	}
}

type errorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}
