// Package export renders published run artifacts as CSV and YAML for
// downstream spreadsheets and dashboards.
package export

import (
	"encoding/csv"
	"io"
	"strings"
	"time"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/sells-group/hr-analytics-cli/internal/model"
)

// funnelRow flattens a FunnelMetric for CSV. The status map becomes one
// column per known status so every row has the same shape.
type funnelRow struct {
	Role              string  `csv:"role"`
	Department        string  `csv:"department"`
	TotalApplicants   int     `csv:"total_applicants"`
	Pending           int     `csv:"pending"`
	PhoneScreen       int     `csv:"phone_screen"`
	Interviewing      int     `csv:"interviewing"`
	OfferExtended     int     `csv:"offer_extended"`
	Hired             int     `csv:"hired"`
	Rejected          int     `csv:"rejected"`
	Withdrawn         int     `csv:"withdrawn"`
	HiredCount        int     `csv:"hired_count"`
	RejectedCount     int     `csv:"rejected_count"`
	ConversionRate    float64 `csv:"conversion_rate"`
	AvgTimeToHireDays float64 `csv:"avg_time_to_hire_days"`
	ResolvedHires     int     `csv:"resolved_hires"`
	InPipelineCount   int     `csv:"in_pipeline_count"`
}

// WriteFunnelCSV writes the funnel metrics as CSV.
func WriteFunnelCSV(w io.Writer, funnel []model.FunnelMetric) error {
	rows := make([]funnelRow, len(funnel))
	for i, f := range funnel {
		rows[i] = funnelRow{
			Role:              f.Role,
			Department:        f.Department,
			TotalApplicants:   f.TotalApplicants,
			Pending:           f.StatusCounts[model.StatusPending],
			PhoneScreen:       f.StatusCounts[model.StatusPhoneScreen],
			Interviewing:      f.StatusCounts[model.StatusInterviewing],
			OfferExtended:     f.StatusCounts[model.StatusOfferExtended],
			Hired:             f.StatusCounts[model.StatusHired],
			Rejected:          f.StatusCounts[model.StatusRejected],
			Withdrawn:         f.StatusCounts[model.StatusWithdrawn],
			HiredCount:        f.HiredCount,
			RejectedCount:     f.RejectedCount,
			ConversionRate:    f.ConversionRate,
			AvgTimeToHireDays: f.AvgTimeToHireDays,
			ResolvedHires:     f.ResolvedHires,
			InPipelineCount:   f.InPipelineCount,
		}
	}
	return marshalCSV(w, rows, "funnel")
}

// WriteRollupsCSV writes the department rollups as CSV.
func WriteRollupsCSV(w io.Writer, rollups []model.DepartmentRollup) error {
	return marshalCSV(w, rollups, "rollups")
}

type mappingRow struct {
	Role        string    `csv:"role"`
	Department  string    `csv:"department"`
	Confidence  float64   `csv:"confidence"`
	Source      string    `csv:"source"`
	Status      string    `csv:"status"`
	Departments string    `csv:"departments_seen"`
	UpdatedAt   time.Time `csv:"updated_at"`
}

// WriteMappingsCSV writes the role→department mappings as CSV. The full
// observed-department list is joined with "; " into a single column.
func WriteMappingsCSV(w io.Writer, mappings []model.RoleMapping) error {
	rows := make([]mappingRow, len(mappings))
	for i, m := range mappings {
		rows[i] = mappingRow{
			Role:        m.Role,
			Department:  m.Department,
			Confidence:  m.Confidence,
			Source:      m.Source,
			Status:      string(m.Status),
			Departments: strings.Join(m.Departments, "; "),
			UpdatedAt:   m.UpdatedAt,
		}
	}
	return marshalCSV(w, rows, "mappings")
}

type profileRow struct {
	EmployeeID        int64   `csv:"employee_id"`
	Name              string  `csv:"name"`
	Department        string  `csv:"department"`
	Salary            float64 `csv:"salary"`
	StartedAt         string  `csv:"started_at"`
	EndedAt           string  `csv:"ended_at,omitempty"`
	EmploymentStatus  string  `csv:"employment_status"`
	EmploymentType    string  `csv:"employment_type,omitempty"`
	AppliedRole       string  `csv:"applied_role,omitempty"`
	AppliedAt         string  `csv:"applied_at,omitempty"`
	ApplicationStatus string  `csv:"application_status,omitempty"`
	DaysToHire        *int    `csv:"days_to_hire,omitempty"`
}

// WriteProfilesCSV writes the per-employee master view as CSV.
func WriteProfilesCSV(w io.Writer, profiles []model.EmployeeProfile) error {
	rows := make([]profileRow, len(profiles))
	for i, p := range profiles {
		rows[i] = profileRow{
			EmployeeID:        p.EmployeeID,
			Name:              p.Name,
			Department:        p.Department,
			Salary:            p.Salary,
			StartedAt:         p.StartedAt.Format("2006-01-02"),
			EmploymentStatus:  p.EmploymentStatus,
			EmploymentType:    p.EmploymentType,
			AppliedRole:       p.AppliedRole,
			ApplicationStatus: string(p.ApplicationStatus),
			DaysToHire:        p.DaysToHire,
		}
		if p.EndedAt != nil {
			rows[i].EndedAt = p.EndedAt.Format("2006-01-02")
		}
		if p.AppliedAt != nil {
			rows[i].AppliedAt = p.AppliedAt.Format("2006-01-02")
		}
	}
	return marshalCSV(w, rows, "profiles")
}

type linkRow struct {
	ApplicantID int64  `csv:"applicant_id"`
	EmployeeID  int64  `csv:"employee_id"`
	Name        string `csv:"name"`
	Role        string `csv:"role"`
	Department  string `csv:"department"`
	DaysToHire  int    `csv:"days_to_hire"`
}

// WriteLinksCSV writes the resolved applicant→employee links as CSV.
func WriteLinksCSV(w io.Writer, links []model.ResolvedLink) error {
	rows := make([]linkRow, len(links))
	for i, l := range links {
		rows[i] = linkRow(l)
	}
	return marshalCSV(w, rows, "links")
}

func marshalCSV[T any](w io.Writer, rows []T, what string) error {
	cw := csv.NewWriter(w)
	enc := csvutil.NewEncoder(cw)
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			return eris.Wrapf(err, "export: encode %s row", what)
		}
	}
	cw.Flush()
	return eris.Wrapf(cw.Error(), "export: flush %s", what)
}
