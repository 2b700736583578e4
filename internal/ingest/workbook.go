// Package ingest loads the source Excel workbook into validated
// records. Rows failing type or range checks are rejected here, before
// anything reaches the reconciliation core — fatal for the row, never
// for the load.
package ingest

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sells-group/hr-analytics-cli/internal/model"
)

// Options names the workbook sheets to read.
type Options struct {
	ApplicantsSheet string
	EmployeesSheet  string
	TypesSheet      string
}

// RowError describes one rejected source row.
type RowError struct {
	Sheet  string
	Row    int // 1-based, as shown in a spreadsheet
	Reason string
}

func (e RowError) String() string {
	return fmt.Sprintf("%s row %d: %s", e.Sheet, e.Row, e.Reason)
}

// ReadWorkbook parses the three source sheets and returns the valid
// records plus the per-row rejections. Only an unreadable file or a
// missing applicants/employees sheet is a hard error; the employment
// type sheet is optional.
func ReadWorkbook(path string, opts Options) (model.Batch, []RowError, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return model.Batch{}, nil, eris.Wrap(err, "ingest: open workbook")
	}

	var (
		batch   model.Batch
		rowErrs []RowError
	)

	applicants, errs, err := readSheet(f, opts.ApplicantsSheet, parseApplicantRow)
	if err != nil {
		return model.Batch{}, nil, err
	}
	batch.Applicants = dedupeApplicants(applicants, opts.ApplicantsSheet, &errs)
	rowErrs = append(rowErrs, errs...)

	employees, errs, err := readSheet(f, opts.EmployeesSheet, parseEmployeeRow)
	if err != nil {
		return model.Batch{}, nil, err
	}
	batch.Employees = dedupeEmployees(employees, opts.EmployeesSheet, &errs)
	rowErrs = append(rowErrs, errs...)

	if _, ok := f.Sheet[opts.TypesSheet]; ok {
		types, errs, err := readSheet(f, opts.TypesSheet, parseTypeRow)
		if err != nil {
			return model.Batch{}, nil, err
		}
		batch.EmploymentTypes = types
		rowErrs = append(rowErrs, errs...)
	} else {
		zap.L().Debug("ingest: employment type sheet absent", zap.String("sheet", opts.TypesSheet))
	}

	for _, re := range rowErrs {
		zap.L().Warn("ingest: row rejected",
			zap.String("sheet", re.Sheet),
			zap.Int("row", re.Row),
			zap.String("reason", re.Reason),
		)
	}

	return batch, rowErrs, nil
}

// readSheet applies parse to every data row of the named sheet. The
// first row is the header. Fully empty rows are skipped.
func readSheet[T any](f *xlsx.File, name string, parse func(cells []string) (T, error)) ([]T, []RowError, error) {
	sheet, ok := f.Sheet[name]
	if !ok {
		return nil, nil, eris.Errorf("ingest: sheet %q not found", name)
	}

	var (
		out     []T
		rowErrs []RowError
	)
	for i, row := range sheet.Rows {
		if i == 0 {
			continue // header
		}
		cells := rowToStrings(row)
		if blank(cells) {
			continue
		}
		v, err := parse(cells)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Sheet: name, Row: i + 1, Reason: err.Error()})
			continue
		}
		out = append(out, v)
	}
	return out, rowErrs, nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}

func blank(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}

func dedupeApplicants(in []model.Applicant, sheet string, rowErrs *[]RowError) []model.Applicant {
	seen := make(map[int64]bool, len(in))
	out := in[:0]
	for _, a := range in {
		if seen[a.ID] {
			*rowErrs = append(*rowErrs, RowError{Sheet: sheet, Reason: fmt.Sprintf("duplicate applicant id %d", a.ID)})
			continue
		}
		seen[a.ID] = true
		out = append(out, a)
	}
	return out
}

func dedupeEmployees(in []model.Employee, sheet string, rowErrs *[]RowError) []model.Employee {
	seen := make(map[int64]bool, len(in))
	out := in[:0]
	for _, e := range in {
		if seen[e.ID] {
			*rowErrs = append(*rowErrs, RowError{Sheet: sheet, Reason: fmt.Sprintf("duplicate employee id %d", e.ID)})
			continue
		}
		seen[e.ID] = true
		out = append(out, e)
	}
	return out
}
