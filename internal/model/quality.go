package model

// SourceCoverage is the per-source record census: totals split by
// completion status and by presence of a department value.
type SourceCoverage struct {
	Applicants             int     `json:"applicants" yaml:"applicants"`
	ApplicantsHired        int     `json:"applicants_hired" yaml:"applicants_hired"`
	ApplicantsNonHired     int     `json:"applicants_non_hired" yaml:"applicants_non_hired"`
	ApplicantsWithDept     int     `json:"applicants_with_department" yaml:"applicants_with_department"`
	ApplicantsMissingDept  int     `json:"applicants_missing_department" yaml:"applicants_missing_department"`
	Employees              int     `json:"employees" yaml:"employees"`
	EmployeesCurrent       int     `json:"employees_current" yaml:"employees_current"`
	EmployeesFormer        int     `json:"employees_former" yaml:"employees_former"`
	EmployeesWithDept      int     `json:"employees_with_department" yaml:"employees_with_department"`
	EmployeesMissingDept   int     `json:"employees_missing_department" yaml:"employees_missing_department"`
	EmploymentTypeCoverage float64 `json:"employment_type_coverage" yaml:"employment_type_coverage"`
}

// StatusTraceRate is, for one application status, the share of
// applicants in that status with at least one resolved link — how often
// the status actually traces to an employment record.
type StatusTraceRate struct {
	Status     ApplicationStatus `json:"status" yaml:"status"`
	Applicants int               `json:"applicants" yaml:"applicants"`
	Traced     int               `json:"traced" yaml:"traced"`
	Rate       float64           `json:"rate" yaml:"rate"`
}

// EmployeeSourceSplit divides employees by whether any resolved link
// points at them: hired through the application process, or direct
// hire / transfer.
type EmployeeSourceSplit struct {
	FromApplications    int     `json:"from_applications" yaml:"from_applications"`
	DirectOrTransfer    int     `json:"direct_or_transfer" yaml:"direct_or_transfer"`
	FromApplicationsPct float64 `json:"from_applications_pct" yaml:"from_applications_pct"`
}

// MappingCoverage reports how many distinct applied roles have an
// inferred department.
type MappingCoverage struct {
	TotalRoles    int     `json:"total_roles" yaml:"total_roles"`
	MappedRoles   int     `json:"mapped_roles" yaml:"mapped_roles"`
	ConflictRoles int     `json:"conflict_roles" yaml:"conflict_roles"`
	CoveragePct   float64 `json:"coverage_pct" yaml:"coverage_pct"`
}

// QualityReport is the cross-source diagnostics summary. It is derived
// read-only from the snapshot and the other artifacts and never feeds
// back into them.
type QualityReport struct {
	Sources         SourceCoverage      `json:"sources" yaml:"sources"`
	StatusTraces    []StatusTraceRate   `json:"status_traces" yaml:"status_traces"`
	EmployeeSources EmployeeSourceSplit `json:"employee_sources" yaml:"employee_sources"`
	Mappings        MappingCoverage     `json:"mappings" yaml:"mappings"`
}
