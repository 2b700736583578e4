package model

import "time"

// UnknownDepartment is the presentation default for a role with no
// explicit department and no inferred mapping.
const UnknownDepartment = "Unknown"

// FunnelMetric is the per-(role, effective department) hiring funnel.
//
// HiredCount counts one per resolved link when an applicant matched any
// employees, so an ambiguous match double-counts — the fan-out the
// upstream join produces. TotalApplicants counts actual applicant rows,
// and ResolvedHires counts links, which together make the fan-out
// measurable rather than hidden.
type FunnelMetric struct {
	Role              string                    `json:"role"`
	Department        string                    `json:"department"`
	StatusCounts      map[ApplicationStatus]int `json:"status_counts"`
	TotalApplicants   int                       `json:"total_applicants"`
	HiredCount        int                       `json:"hired_count"`
	RejectedCount     int                       `json:"rejected_count"`
	ConversionRate    float64                   `json:"conversion_rate"`
	AvgTimeToHireDays float64                   `json:"avg_time_to_hire_days"`
	ResolvedHires     int                       `json:"resolved_hires"`
	InPipelineCount   int                       `json:"in_pipeline_count"`
}

// DepartmentRollup aggregates funnel rows by effective department and
// joins them against employee headcount and salary aggregates.
type DepartmentRollup struct {
	Department          string  `json:"department"`
	TotalApplicants     int     `json:"total_applicants"`
	HiredCount          int     `json:"hired_count"`
	InPipelineCount     int     `json:"in_pipeline_count"`
	CurrentEmployees    int     `json:"current_employees"`
	FormerEmployees     int     `json:"former_employees"`
	AvgSalary           float64 `json:"avg_salary"`
	HireRate            float64 `json:"hire_rate"`
	PipelineToHeadcount float64 `json:"pipeline_to_headcount"`
}

// EmployeeProfile is the master per-employee view: the employment
// record joined with its employment type and, when a resolved link
// exists, the application it came from.
type EmployeeProfile struct {
	EmployeeID        int64             `json:"employee_id"`
	Name              string            `json:"name"`
	Department        string            `json:"department"`
	Salary            float64           `json:"salary"`
	StartedAt         time.Time         `json:"started_at"`
	EndedAt           *time.Time        `json:"ended_at,omitempty"`
	EmploymentStatus  string            `json:"employment_status"`
	EmploymentType    string            `json:"employment_type,omitempty"`
	AppliedRole       string            `json:"applied_role,omitempty"`
	AppliedAt         *time.Time        `json:"applied_at,omitempty"`
	ApplicationStatus ApplicationStatus `json:"application_status,omitempty"`
	DaysToHire        *int              `json:"days_to_hire,omitempty"`
}

// GroupError records a per-(role, department) computation failure. A
// failed group never aborts the run; it is reported alongside the
// successfully computed metrics.
type GroupError struct {
	Role       string `json:"role"`
	Department string `json:"department"`
	Err        string `json:"error"`
}
