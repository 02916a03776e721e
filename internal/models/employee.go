package models

// Employee represents an employee entity.
type Employee struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// WithID returns a copy of the employee carrying the given identifier.
func (e Employee) WithID(id int64) Employee {
	e.ID = id
	return e
}
