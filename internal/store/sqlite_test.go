package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/hr-analytics-cli/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testBatch() model.Batch {
	ended := day(2023, 12, 31)
	return model.Batch{
		Applicants: []model.Applicant{
			{ID: 1, Name: "Jane Lee", Role: "Engineer", AppliedAt: day(2023, 3, 1), Status: model.StatusHired},
			{ID: 2, Name: "Al Roe", Role: "Analyst", AppliedAt: day(2023, 3, 2), Status: model.StatusRejected, Department: "Finance"},
		},
		Employees: []model.Employee{
			{ID: 10, Name: "Jane Lee", Department: "Engineering", Salary: 95000, StartedAt: day(2023, 3, 15)},
			{ID: 11, Name: "Old Timer", Department: "Legal", Salary: 120000, StartedAt: day(2020, 1, 1), EndedAt: &ended},
		},
		EmploymentTypes: []model.EmploymentType{
			{EmployeeID: 10, Type: "Full-time"},
		},
	}
}

func TestSQLiteStore_UpsertAndSnapshot(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	counts, err := s.UpsertRecords(ctx, testBatch())
	require.NoError(t, err)
	assert.Equal(t, 2, counts.Applicants)
	assert.Equal(t, 2, counts.Employees)
	assert.Equal(t, 1, counts.EmploymentTypes)

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Applicants, 2)
	assert.Equal(t, model.StatusHired, snap.Applicants[0].Status)
	assert.Equal(t, day(2023, 3, 1), snap.Applicants[0].AppliedAt)
	assert.Equal(t, "Finance", snap.Applicants[1].Department)

	require.Len(t, snap.Employees, 2)
	assert.Nil(t, snap.Employees[0].EndedAt)
	require.NotNil(t, snap.Employees[1].EndedAt)
	assert.Equal(t, day(2023, 12, 31), *snap.Employees[1].EndedAt)

	require.Len(t, snap.EmploymentTypes, 1)
	assert.False(t, snap.TakenAt.IsZero())
}

func TestSQLiteStore_UpsertIsIdempotent(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	batch := testBatch()
	_, err := s.UpsertRecords(ctx, batch)
	require.NoError(t, err)

	// Re-ingesting the same IDs updates in place.
	batch.Applicants[0].Status = model.StatusWithdrawn
	_, err = s.UpsertRecords(ctx, batch)
	require.NoError(t, err)

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Applicants, 2)
	assert.Equal(t, model.StatusWithdrawn, snap.Applicants[0].Status)
}

func TestSQLiteStore_MappingsPersist(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	mappings, err := s.Mappings(ctx)
	require.NoError(t, err)
	assert.Empty(t, mappings)

	updated := day(2024, 1, 1)
	in := []model.RoleMapping{{
		Role:        "Designer",
		Department:  "Marketing",
		Confidence:  1,
		Source:      model.MappingSourceHiredEmployee,
		Status:      model.MappingConflictDetected,
		Departments: []string{"Product", "Marketing"},
		UpdatedAt:   updated,
	}}
	require.NoError(t, s.SaveMappings(ctx, in))

	mappings, err = s.Mappings(ctx)
	require.NoError(t, err)
	require.Len(t, mappings, 1)
	m := mappings[0]
	assert.Equal(t, "Designer", m.Role)
	assert.Equal(t, model.MappingConflictDetected, m.Status)
	assert.Equal(t, []string{"Product", "Marketing"}, m.Departments)
	assert.True(t, m.UpdatedAt.Equal(updated))

	// Saving again overwrites by role.
	in[0].Status = model.MappingValidated
	require.NoError(t, s.SaveMappings(ctx, in))
	mappings, err = s.Mappings(ctx)
	require.NoError(t, err)
	require.Len(t, mappings, 1)
	assert.Equal(t, model.MappingValidated, mappings[0].Status)
}

func TestSQLiteStore_PublishAndListRuns(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := s.LatestRun(ctx)
	require.NoError(t, err)
	assert.Nil(t, run)

	first := &model.RunResult{
		ID:         "run-1",
		FinishedAt: day(2024, 1, 1),
		Counts:     model.RecordCounts{Applicants: 2, Employees: 2},
		Links: []model.ResolvedLink{
			{ApplicantID: 1, EmployeeID: 10, Name: "Jane Lee", Role: "Engineer", Department: "Engineering", DaysToHire: 14},
		},
	}
	require.NoError(t, s.PublishRun(ctx, first))

	second := &model.RunResult{
		ID:         "run-2",
		FinishedAt: day(2024, 1, 2),
		Counts:     model.RecordCounts{Applicants: 3, Employees: 2},
	}
	require.NoError(t, s.PublishRun(ctx, second))

	latest, err := s.LatestRun(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "run-2", latest.ID)

	runs, err := s.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-2", runs[0].ID)
	assert.Equal(t, "run-1", runs[1].ID)
	assert.Equal(t, 1, runs[1].Links)
}

func TestSQLiteStore_PublishRun_DuplicateIDRejected(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	run := &model.RunResult{ID: "run-1", FinishedAt: day(2024, 1, 1)}
	require.NoError(t, s.PublishRun(ctx, run))
	assert.Error(t, s.PublishRun(ctx, run))
}
