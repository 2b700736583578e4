package model

import "time"

// RunResult is the complete output of one pipeline run, published
// atomically. Until a run publishes, the previous result stays current.
type RunResult struct {
	ID          string              `json:"id"`
	StartedAt   time.Time           `json:"started_at"`
	FinishedAt  time.Time           `json:"finished_at"`
	Counts      RecordCounts        `json:"counts"`
	Links       []ResolvedLink      `json:"links"`
	Mappings    []RoleMapping       `json:"mappings"`
	Validations []MappingValidation `json:"validations"`
	Funnel      []FunnelMetric      `json:"funnel"`
	Rollups     []DepartmentRollup  `json:"rollups"`
	Profiles    []EmployeeProfile   `json:"profiles"`
	Quality     QualityReport       `json:"quality"`
	GroupErrors []GroupError        `json:"group_errors,omitempty"`
}

// RunSummary is the listing view of a published run.
type RunSummary struct {
	ID          string    `json:"id"`
	FinishedAt  time.Time `json:"finished_at"`
	Applicants  int       `json:"applicants"`
	Employees   int       `json:"employees"`
	Links       int       `json:"links"`
	GroupErrors int       `json:"group_errors"`
}
