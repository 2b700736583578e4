package resolve

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/hr-analytics-cli/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolve_MatchesHiredApplicantByNameAndDate(t *testing.T) {
	snap := &model.Snapshot{
		Applicants: []model.Applicant{
			{ID: 1, Name: "Jane Lee", Role: "Engineer", AppliedAt: day(2023, 3, 1), Status: model.StatusHired},
		},
		Employees: []model.Employee{
			{ID: 10, Name: "Jane Lee", Department: "Engineering", StartedAt: day(2023, 3, 15)},
		},
	}

	links := New(Options{}).Resolve(snap)
	require.Len(t, links, 1)
	assert.Equal(t, int64(1), links[0].ApplicantID)
	assert.Equal(t, int64(10), links[0].EmployeeID)
	assert.Equal(t, "Engineer", links[0].Role)
	assert.Equal(t, "Engineering", links[0].Department)
	assert.Equal(t, 14, links[0].DaysToHire)
}

func TestResolve_OnlyHiredApplicantsParticipate(t *testing.T) {
	snap := &model.Snapshot{
		Applicants: []model.Applicant{
			{ID: 1, Name: "Jane Lee", Role: "Engineer", AppliedAt: day(2023, 3, 1), Status: model.StatusRejected},
			{ID: 2, Name: "Jane Lee", Role: "Engineer", AppliedAt: day(2023, 3, 1), Status: model.StatusInterviewing},
		},
		Employees: []model.Employee{
			{ID: 10, Name: "Jane Lee", StartedAt: day(2023, 3, 15)},
		},
	}

	assert.Empty(t, New(Options{}).Resolve(snap))
}

func TestResolve_StartBeforeApplicationExcluded(t *testing.T) {
	snap := &model.Snapshot{
		Applicants: []model.Applicant{
			{ID: 1, Name: "Jane Lee", Role: "Engineer", AppliedAt: day(2023, 3, 1), Status: model.StatusHired},
		},
		Employees: []model.Employee{
			// Pre-existing employee with the same name.
			{ID: 10, Name: "Jane Lee", StartedAt: day(2022, 1, 1)},
		},
	}

	assert.Empty(t, New(Options{}).Resolve(snap))
}

func TestResolve_SameDayStartMatches(t *testing.T) {
	snap := &model.Snapshot{
		Applicants: []model.Applicant{
			{ID: 1, Name: "Jane Lee", Role: "Engineer", AppliedAt: day(2023, 3, 1), Status: model.StatusHired},
		},
		Employees: []model.Employee{
			{ID: 10, Name: "Jane Lee", StartedAt: day(2023, 3, 1)},
		},
	}

	links := New(Options{}).Resolve(snap)
	require.Len(t, links, 1)
	assert.Equal(t, 0, links[0].DaysToHire)
}

func TestResolve_AmbiguousMatchKeepsAllLinks(t *testing.T) {
	snap := &model.Snapshot{
		Applicants: []model.Applicant{
			{ID: 1, Name: "Sam Ortiz", Role: "Analyst", AppliedAt: day(2023, 1, 1), Status: model.StatusHired},
		},
		Employees: []model.Employee{
			{ID: 20, Name: "Sam Ortiz", Department: "Finance", StartedAt: day(2023, 2, 1)},
			{ID: 21, Name: "Sam Ortiz", Department: "Sales", StartedAt: day(2023, 1, 15)},
		},
	}

	links := New(Options{}).Resolve(snap)
	require.Len(t, links, 2)
	// Candidates ordered by start date.
	assert.Equal(t, int64(21), links[0].EmployeeID)
	assert.Equal(t, int64(20), links[1].EmployeeID)
}

func TestResolve_ExactMatchIsDefault(t *testing.T) {
	snap := &model.Snapshot{
		Applicants: []model.Applicant{
			{ID: 1, Name: "jane lee", Role: "Engineer", AppliedAt: day(2023, 3, 1), Status: model.StatusHired},
		},
		Employees: []model.Employee{
			{ID: 10, Name: "Jane Lee", StartedAt: day(2023, 3, 15)},
		},
	}

	assert.Empty(t, New(Options{}).Resolve(snap))

	links := New(Options{FoldCase: true}).Resolve(snap)
	assert.Len(t, links, 1)
}

func TestResolve_EmptyInputs(t *testing.T) {
	r := New(Options{})
	assert.Empty(t, r.Resolve(&model.Snapshot{}))
	assert.Empty(t, r.Resolve(&model.Snapshot{
		Applicants: []model.Applicant{{ID: 1, Name: "A", Status: model.StatusHired, AppliedAt: day(2023, 1, 1)}},
	}))
	assert.Empty(t, r.Resolve(&model.Snapshot{
		Employees: []model.Employee{{ID: 1, Name: "A", StartedAt: day(2023, 1, 1)}},
	}))
}

func TestDaysBetween_IgnoresTimeOfDay(t *testing.T) {
	a := time.Date(2023, 3, 1, 23, 30, 0, 0, time.UTC)
	b := time.Date(2023, 3, 15, 0, 15, 0, 0, time.UTC)
	assert.Equal(t, 14, daysBetween(a, b))
}

func TestNewNormalizer(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		in   string
		want string
	}{
		{"identity", Options{}, "  José  GARCÍA ", "  José  GARCÍA "},
		{"fold case", Options{FoldCase: true}, "Jane LEE", "jane lee"},
		{"trim space", Options{TrimSpace: true}, "  Jane   Lee ", "Jane Lee"},
		{"strip diacritics", Options{StripDiacritics: true}, "José García", "Jose Garcia"},
		{
			"all combined",
			Options{FoldCase: true, TrimSpace: true, StripDiacritics: true},
			"  José   GARCÍA ",
			"jose garcia",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, newNormalizer(tt.opts)(tt.in))
		})
	}
}
