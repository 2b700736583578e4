package ingest

import (
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/hr-analytics-cli/internal/model"
)

// Applicants sheet columns: ID, Name, Role, Application Date, Status,
// and an optional trailing Department.
func parseApplicantRow(cells []string) (model.Applicant, error) {
	if len(cells) < 5 {
		return model.Applicant{}, eris.Errorf("expected at least 5 columns, got %d", len(cells))
	}

	id, err := parseID(cells[0])
	if err != nil {
		return model.Applicant{}, err
	}
	appliedAt, err := parseDate(cells[3])
	if err != nil {
		return model.Applicant{}, eris.Wrap(err, "application date")
	}

	status := model.ApplicationStatus(strings.TrimSpace(cells[4]))
	if status == "" {
		// Blank status means the application is still untouched.
		status = model.StatusPending
	}

	a := model.Applicant{
		ID:        id,
		Name:      strings.TrimSpace(cells[1]),
		Role:      strings.TrimSpace(cells[2]),
		AppliedAt: appliedAt,
		Status:    status,
	}
	if len(cells) > 5 {
		a.Department = strings.TrimSpace(cells[5])
	}
	return a, a.Validate()
}

// Employees sheet columns: ID, Name, Salary, Department, Start Date,
// End Date.
func parseEmployeeRow(cells []string) (model.Employee, error) {
	if len(cells) < 5 {
		return model.Employee{}, eris.Errorf("expected at least 5 columns, got %d", len(cells))
	}

	id, err := parseID(cells[0])
	if err != nil {
		return model.Employee{}, err
	}

	salary := 0.0
	if s := strings.TrimSpace(cells[2]); s != "" {
		salary, err = strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
		if err != nil {
			return model.Employee{}, eris.Errorf("invalid salary %q", cells[2])
		}
	}

	startedAt, err := parseDate(cells[4])
	if err != nil {
		return model.Employee{}, eris.Wrap(err, "start date")
	}

	e := model.Employee{
		ID:         id,
		Name:       strings.TrimSpace(cells[1]),
		Department: strings.TrimSpace(cells[3]),
		Salary:     salary,
		StartedAt:  startedAt,
	}
	if len(cells) > 5 && !nullish(cells[5]) {
		endedAt, err := parseDate(cells[5])
		if err != nil {
			return model.Employee{}, eris.Wrap(err, "end date")
		}
		e.EndedAt = &endedAt
	}
	return e, e.Validate()
}

// Employment type sheet columns: ID (employee), Employment Type.
func parseTypeRow(cells []string) (model.EmploymentType, error) {
	if len(cells) < 2 {
		return model.EmploymentType{}, eris.Errorf("expected 2 columns, got %d", len(cells))
	}
	id, err := parseID(cells[0])
	if err != nil {
		return model.EmploymentType{}, err
	}
	t := model.EmploymentType{EmployeeID: id, Type: strings.TrimSpace(cells[1])}
	if t.Type == "" {
		return model.EmploymentType{}, eris.New("empty employment type")
	}
	return t, nil
}

func parseID(s string) (int64, error) {
	s = strings.TrimSpace(s)
	// Numeric cells may render as floats ("12.0").
	s = strings.TrimSuffix(s, ".0")
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, eris.Errorf("invalid id %q", s)
	}
	return id, nil
}

// dateLayouts covers the formats the workbook exports have shown up in.
var dateLayouts = []string{
	"2006-01-02",
	"01-02-06",
	"1/2/2006",
	"01/02/2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// excelEpoch is day zero of Excel's 1900 serial date system.
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if nullish(s) {
		return time.Time{}, eris.New("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Truncate(24 * time.Hour), nil
		}
	}
	// Numeric cells come through as Excel serial dates.
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		return excelEpoch.AddDate(0, 0, int(serial)), nil
	}
	return time.Time{}, eris.Errorf("unparseable date %q", s)
}

// nullish treats the serializations of missing dates as absent.
func nullish(s string) bool {
	switch strings.TrimSpace(s) {
	case "", "NaT", "NaN", "null", "None":
		return true
	}
	return false
}
