package model

import (
	"time"

	"github.com/rotisserie/eris"
)

// Employee is an employment record. Name is free text and not unique.
// A nil EndedAt means the employee is currently employed.
type Employee struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Department string     `json:"department"`
	Salary     float64    `json:"salary"`
	StartedAt  time.Time  `json:"started_at"`
	EndedAt    *time.Time `json:"ended_at,omitempty"`
}

// Current reports whether the employee is still employed.
func (e Employee) Current() bool {
	return e.EndedAt == nil
}

// Validate checks the employee invariants: a start date, a non-negative
// salary, and end date on or after start date when present.
func (e Employee) Validate() error {
	if e.Name == "" {
		return eris.New("employee: name is required")
	}
	if e.StartedAt.IsZero() {
		return eris.New("employee: start date is required")
	}
	if e.Salary < 0 {
		return eris.Errorf("employee: negative salary %.2f", e.Salary)
	}
	if e.EndedAt != nil && e.EndedAt.Before(e.StartedAt) {
		return eris.New("employee: end date before start date")
	}
	return nil
}

// EmploymentType is the side table pairing an employee with an
// employment category (full-time, contractor, ...). Coverage is sparse.
type EmploymentType struct {
	EmployeeID int64  `json:"employee_id"`
	Type       string `json:"type"`
}
