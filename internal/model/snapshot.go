package model

import "time"

// Batch is a validated set of source rows ready for loading.
type Batch struct {
	Applicants      []Applicant      `json:"applicants"`
	Employees       []Employee       `json:"employees"`
	EmploymentTypes []EmploymentType `json:"employment_types"`
}

// RecordCounts summarizes how many rows a load touched.
type RecordCounts struct {
	Applicants      int `json:"applicants"`
	Employees       int `json:"employees"`
	EmploymentTypes int `json:"employment_types"`
}

// Snapshot is a single consistent read of the record store. Everything
// downstream is computed from a snapshot, never from live tables.
type Snapshot struct {
	Applicants      []Applicant      `json:"applicants"`
	Employees       []Employee       `json:"employees"`
	EmploymentTypes []EmploymentType `json:"employment_types"`
	TakenAt         time.Time        `json:"taken_at"`
}

// Empty reports whether the snapshot holds no source records at all.
func (s *Snapshot) Empty() bool {
	return len(s.Applicants) == 0 && len(s.Employees) == 0
}

// Counts returns the record counts of the snapshot.
func (s *Snapshot) Counts() RecordCounts {
	return RecordCounts{
		Applicants:      len(s.Applicants),
		Employees:       len(s.Employees),
		EmploymentTypes: len(s.EmploymentTypes),
	}
}
