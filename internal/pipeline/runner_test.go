package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/hr-analytics-cli/internal/model"
	"github.com/sells-group/hr-analytics-cli/internal/resolve"
)

// fakeStore is an in-memory Store for pipeline tests.
type fakeStore struct {
	snap     model.Snapshot
	mappings []model.RoleMapping
	runs     []*model.RunResult

	snapshotErr error
	publishErr  error
}

func (f *fakeStore) UpsertRecords(ctx context.Context, batch model.Batch) (model.RecordCounts, error) {
	return model.RecordCounts{}, nil
}

func (f *fakeStore) Snapshot(ctx context.Context) (*model.Snapshot, error) {
	if f.snapshotErr != nil {
		return nil, f.snapshotErr
	}
	snap := f.snap
	return &snap, nil
}

func (f *fakeStore) Mappings(ctx context.Context) ([]model.RoleMapping, error) {
	return append([]model.RoleMapping(nil), f.mappings...), nil
}

func (f *fakeStore) SaveMappings(ctx context.Context, mappings []model.RoleMapping) error {
	f.mappings = append([]model.RoleMapping(nil), mappings...)
	return nil
}

func (f *fakeStore) PublishRun(ctx context.Context, result *model.RunResult) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.runs = append(f.runs, result)
	return nil
}

func (f *fakeStore) LatestRun(ctx context.Context) (*model.RunResult, error) {
	if len(f.runs) == 0 {
		return nil, nil
	}
	return f.runs[len(f.runs)-1], nil
}

func (f *fakeStore) ListRuns(ctx context.Context, limit int) ([]model.RunSummary, error) {
	return nil, nil
}

func (f *fakeStore) Migrate(ctx context.Context) error { return nil }
func (f *fakeStore) Close() error                      { return nil }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testSnapshot() model.Snapshot {
	return model.Snapshot{
		Applicants: []model.Applicant{
			{ID: 1, Name: "Jane Lee", Role: "Engineer", AppliedAt: day(2023, 3, 1), Status: model.StatusHired},
			{ID: 2, Name: "Al Roe", Role: "Engineer", AppliedAt: day(2023, 3, 2), Status: model.StatusRejected},
		},
		Employees: []model.Employee{
			{ID: 10, Name: "Jane Lee", Department: "Engineering", Salary: 95000, StartedAt: day(2023, 3, 15)},
		},
		EmploymentTypes: []model.EmploymentType{
			{EmployeeID: 10, Type: "Full-time"},
		},
	}
}

func TestRun_PublishesFullResult(t *testing.T) {
	st := &fakeStore{snap: testSnapshot()}
	runner := New(st, resolve.Options{}, 0)

	result, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, result.ID)
	assert.False(t, result.StartedAt.IsZero())
	assert.False(t, result.FinishedAt.Before(result.StartedAt))
	assert.Equal(t, 2, result.Counts.Applicants)

	require.Len(t, result.Links, 1)
	assert.Equal(t, 14, result.Links[0].DaysToHire)

	require.Len(t, result.Mappings, 1)
	assert.Equal(t, "Engineering", result.Mappings[0].Department)
	assert.Len(t, result.Validations, 1)

	require.Len(t, result.Funnel, 1)
	assert.Equal(t, 50.0, result.Funnel[0].ConversionRate)
	assert.Len(t, result.Rollups, 1)
	assert.Len(t, result.Profiles, 1)
	assert.Equal(t, 2, result.Quality.Sources.Applicants)
	assert.Empty(t, result.GroupErrors)

	// Both the run and the mappings got persisted.
	require.Len(t, st.runs, 1)
	assert.Len(t, st.mappings, 1)
}

func TestRun_NoData(t *testing.T) {
	st := &fakeStore{}
	runner := New(st, resolve.Options{}, 0)

	_, err := runner.Run(context.Background())
	assert.ErrorIs(t, err, ErrNoData)
	assert.Empty(t, st.runs)
}

func TestRun_Idempotent(t *testing.T) {
	st := &fakeStore{snap: testSnapshot()}
	runner := New(st, resolve.Options{}, 0)

	first, err := runner.Run(context.Background())
	require.NoError(t, err)
	second, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.Links, second.Links)
	assert.Equal(t, first.Funnel, second.Funnel)
	assert.Equal(t, first.Rollups, second.Rollups)
	assert.Equal(t, first.Quality, second.Quality)
	// Re-observing the same department keeps the mapping validated.
	assert.Equal(t, model.MappingValidated, second.Mappings[0].Status)
}

func TestRun_ConflictSurvivesAcrossRuns(t *testing.T) {
	st := &fakeStore{snap: testSnapshot()}
	runner := New(st, resolve.Options{}, 0)

	_, err := runner.Run(context.Background())
	require.NoError(t, err)

	// Same role, different department next run.
	st.snap.Employees[0].Department = "Platform"
	result, err := runner.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Mappings, 1)
	m := result.Mappings[0]
	assert.Equal(t, model.MappingConflictDetected, m.Status)
	assert.Equal(t, "Platform", m.Department)
	assert.Equal(t, []string{"Engineering", "Platform"}, m.Departments)
}

func TestRun_PublishFailurePropagates(t *testing.T) {
	st := &fakeStore{snap: testSnapshot(), publishErr: eris.New("disk full")}
	runner := New(st, resolve.Options{}, 0)

	_, err := runner.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish run")
	assert.Empty(t, st.runs)
}

func TestRun_SnapshotFailurePropagates(t *testing.T) {
	st := &fakeStore{snapshotErr: eris.New("connection refused")}
	runner := New(st, resolve.Options{}, 0)

	_, err := runner.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "snapshot")
}
