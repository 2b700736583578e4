package model

import "time"

// MappingStatus is the validation state of a role→department mapping.
type MappingStatus string

const (
	MappingValidated        MappingStatus = "Validated"
	MappingConflictDetected MappingStatus = "ConflictDetected"
)

// MappingSourceHiredEmployee tags mappings inferred from resolved hires.
const MappingSourceHiredEmployee = "HiredEmployee"

// RoleMapping is the inferred department for an applied role. Department
// holds the most recently observed value (last writer wins); Departments
// retains every distinct department ever observed for the role so a
// conflict stays visible instead of being silently overwritten.
type RoleMapping struct {
	Role        string        `json:"role"`
	Department  string        `json:"department"`
	Confidence  float64       `json:"confidence"`
	Source      string        `json:"source"`
	Status      MappingStatus `json:"status"`
	Departments []string      `json:"departments"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// Conflicting reports whether the mapping has contradictory evidence.
func (m RoleMapping) Conflicting() bool {
	return m.Status == MappingConflictDetected
}

// MappingValidation is the recomputed consistency view over a stored
// mapping: whether its role maps to more than one department in the
// current resolution set, and whether its department is also claimed by
// another role. Both are reported; neither blocks use of the mapping.
type MappingValidation struct {
	Role                string   `json:"role"`
	Department          string   `json:"department"`
	MultipleDepartments bool     `json:"multiple_departments"`
	SharedDepartment    bool     `json:"shared_department"`
	Departments         []string `json:"departments"`
	LinkCount           int      `json:"link_count"`
}
