package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/hr-analytics-cli/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return NewPostgresWithPool(mock), mock
}

func TestPostgresStore_Mappings(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	updated := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`select_mappings`).
		WillReturnRows(pgxmock.NewRows(
			[]string{"role", "department", "confidence", "source", "status", "departments", "updated_at"},
		).AddRow(
			"Designer", "Marketing", 1.0, model.MappingSourceHiredEmployee,
			"ConflictDetected", []string{"Product", "Marketing"}, updated,
		))

	mappings, err := s.Mappings(context.Background())
	require.NoError(t, err)
	require.Len(t, mappings, 1)
	m := mappings[0]
	assert.Equal(t, "Designer", m.Role)
	assert.Equal(t, model.MappingConflictDetected, m.Status)
	assert.Equal(t, []string{"Product", "Marketing"}, m.Departments)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_LatestRun_Empty(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`latest_run`).
		WillReturnRows(pgxmock.NewRows([]string{"result"}))

	run, err := s.LatestRun(context.Background())
	require.NoError(t, err)
	assert.Nil(t, run, "no published runs is not an error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_LatestRun_RoundTrip(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	want := &model.RunResult{
		ID:     "run-1",
		Counts: model.RecordCounts{Applicants: 2, Employees: 1},
		Links: []model.ResolvedLink{
			{ApplicantID: 1, EmployeeID: 10, Name: "Jane Lee", Role: "Engineer", Department: "Engineering", DaysToHire: 14},
		},
	}
	payload, err := json.Marshal(want)
	require.NoError(t, err)

	mock.ExpectQuery(`latest_run`).
		WillReturnRows(pgxmock.NewRows([]string{"result"}).AddRow(payload))

	got, err := s.LatestRun(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Links, got.Links)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_PublishRun(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	result := &model.RunResult{
		ID:         "run-1",
		FinishedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		Counts:     model.RecordCounts{Applicants: 2, Employees: 1},
	}

	mock.ExpectExec(`insert_run`).
		WithArgs("run-1", 2, 1, 0, 0, pgxmock.AnyArg(), result.FinishedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, s.PublishRun(context.Background(), result))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListRuns(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	finished := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`list_runs`).
		WithArgs(5).
		WillReturnRows(pgxmock.NewRows(
			[]string{"id", "applicants", "employees", "links", "group_errors", "finished_at"},
		).AddRow("run-1", 2, 1, 1, 0, finished))

	runs, err := s.ListRuns(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-1", runs[0].ID)
	assert.Equal(t, 1, runs[0].Links)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpsertRecords_EmptyBatch(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	counts, err := s.UpsertRecords(context.Background(), model.Batch{})
	require.NoError(t, err)
	assert.Zero(t, counts.Applicants)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Snapshot(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	applied := time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC)
	started := time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC)

	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	mock.ExpectQuery(`select_applicants`).
		WillReturnRows(pgxmock.NewRows(
			[]string{"id", "name", "role", "applied_at", "status", "department"},
		).AddRow(int64(1), "Jane Lee", "Engineer", applied, "Hired", ""))
	mock.ExpectQuery(`select_employees`).
		WillReturnRows(pgxmock.NewRows(
			[]string{"id", "name", "department", "salary", "started_at", "ended_at"},
		).AddRow(int64(10), "Jane Lee", "Engineering", 95000.0, started, (*time.Time)(nil)))
	mock.ExpectQuery(`select_types`).
		WillReturnRows(pgxmock.NewRows([]string{"employee_id", "type"}).
			AddRow(int64(10), "Full-time"))
	mock.ExpectCommit()

	snap, err := s.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, snap.Applicants, 1)
	assert.Equal(t, model.StatusHired, snap.Applicants[0].Status)
	require.Len(t, snap.Employees, 1)
	assert.Nil(t, snap.Employees[0].EndedAt)
	require.Len(t, snap.EmploymentTypes, 1)
	assert.False(t, snap.TakenAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}
