package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplicationStatus_Terminal(t *testing.T) {
	tests := []struct {
		status   ApplicationStatus
		terminal bool
	}{
		{StatusPending, false},
		{StatusPhoneScreen, false},
		{StatusInterviewing, false},
		{StatusOfferExtended, false},
		{StatusHired, true},
		{StatusRejected, true},
		{StatusWithdrawn, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.terminal, tt.status.Terminal())
		})
	}
}

func TestApplicationStatus_Valid(t *testing.T) {
	for _, s := range AllStatuses {
		assert.True(t, s.Valid(), string(s))
	}
	assert.False(t, ApplicationStatus("Ghosted").Valid())
	assert.False(t, ApplicationStatus("").Valid())
}

func TestApplicant_Validate(t *testing.T) {
	valid := Applicant{
		ID:        1,
		Name:      "Jane Lee",
		Role:      "Engineer",
		AppliedAt: time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC),
		Status:    StatusHired,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(a *Applicant)
	}{
		{"empty name", func(a *Applicant) { a.Name = "" }},
		{"unknown status", func(a *Applicant) { a.Status = "Ghosted" }},
		{"zero date", func(a *Applicant) { a.AppliedAt = time.Time{} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := valid
			tt.mutate(&a)
			assert.Error(t, a.Validate())
		})
	}
}

func TestEmployee_Validate(t *testing.T) {
	start := time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	valid := Employee{ID: 1, Name: "Jane Lee", Department: "Engineering", Salary: 95000, StartedAt: start}
	require.NoError(t, valid.Validate())

	withEnd := valid
	withEnd.EndedAt = &end
	require.NoError(t, withEnd.Validate())

	tests := []struct {
		name   string
		mutate func(e *Employee)
	}{
		{"empty name", func(e *Employee) { e.Name = "" }},
		{"zero start", func(e *Employee) { e.StartedAt = time.Time{} }},
		{"negative salary", func(e *Employee) { e.Salary = -1 }},
		{"end before start", func(e *Employee) {
			early := e.StartedAt.AddDate(0, -1, 0)
			e.EndedAt = &early
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid
			tt.mutate(&e)
			assert.Error(t, e.Validate())
		})
	}
}

func TestEmployee_Current(t *testing.T) {
	e := Employee{StartedAt: time.Now()}
	assert.True(t, e.Current())
	end := time.Now()
	e.EndedAt = &end
	assert.False(t, e.Current())
}

func TestSnapshot_Empty(t *testing.T) {
	var s Snapshot
	assert.True(t, s.Empty())

	s.EmploymentTypes = []EmploymentType{{EmployeeID: 1, Type: "Full-time"}}
	assert.True(t, s.Empty(), "types alone do not make a snapshot non-empty")

	s.Applicants = []Applicant{{ID: 1}}
	assert.False(t, s.Empty())
}

func TestRoleMapping_Conflicting(t *testing.T) {
	m := RoleMapping{Status: MappingValidated}
	assert.False(t, m.Conflicting())
	m.Status = MappingConflictDetected
	assert.True(t, m.Conflicting())
}
