// Package quality computes cross-source diagnostics over the snapshot
// and the derived artifacts. It reads everything and mutates nothing:
// the report is a one-way dependency, never a gate.
package quality

import (
	"github.com/sells-group/hr-analytics-cli/internal/metrics"
	"github.com/sells-group/hr-analytics-cli/internal/model"
)

// Report builds the data-quality summary for one pipeline run.
func Report(snap *model.Snapshot, links []model.ResolvedLink, mappings []model.RoleMapping) model.QualityReport {
	return model.QualityReport{
		Sources:         sourceCoverage(snap),
		StatusTraces:    statusTraces(snap.Applicants, links),
		EmployeeSources: employeeSources(snap.Employees, links),
		Mappings:        mappingCoverage(snap.Applicants, mappings),
	}
}

func sourceCoverage(snap *model.Snapshot) model.SourceCoverage {
	cov := model.SourceCoverage{
		Applicants: len(snap.Applicants),
		Employees:  len(snap.Employees),
	}
	for _, a := range snap.Applicants {
		if a.Status == model.StatusHired {
			cov.ApplicantsHired++
		} else {
			cov.ApplicantsNonHired++
		}
		if a.Department != "" {
			cov.ApplicantsWithDept++
		} else {
			cov.ApplicantsMissingDept++
		}
	}
	typed := make(map[int64]bool, len(snap.EmploymentTypes))
	for _, t := range snap.EmploymentTypes {
		typed[t.EmployeeID] = true
	}
	withType := 0
	for _, e := range snap.Employees {
		if e.Current() {
			cov.EmployeesCurrent++
		} else {
			cov.EmployeesFormer++
		}
		if e.Department != "" {
			cov.EmployeesWithDept++
		} else {
			cov.EmployeesMissingDept++
		}
		if typed[e.ID] {
			withType++
		}
	}
	if len(snap.Employees) > 0 {
		cov.EmploymentTypeCoverage = metrics.Round2(100 * float64(withType) / float64(len(snap.Employees)))
	}
	return cov
}

// statusTraces measures, per application status, how often applicants
// in that status have at least one resolved link. Statuses with no
// applicants are omitted.
func statusTraces(applicants []model.Applicant, links []model.ResolvedLink) []model.StatusTraceRate {
	linked := make(map[int64]bool, len(links))
	for _, l := range links {
		linked[l.ApplicantID] = true
	}

	byStatus := make(map[model.ApplicationStatus]*model.StatusTraceRate, len(model.AllStatuses))
	for _, a := range applicants {
		t, ok := byStatus[a.Status]
		if !ok {
			t = &model.StatusTraceRate{Status: a.Status}
			byStatus[a.Status] = t
		}
		t.Applicants++
		if linked[a.ID] {
			t.Traced++
		}
	}

	var out []model.StatusTraceRate
	for _, status := range model.AllStatuses {
		t, ok := byStatus[status]
		if !ok {
			continue
		}
		t.Rate = metrics.Round2(100 * float64(t.Traced) / float64(t.Applicants))
		out = append(out, *t)
	}
	return out
}

func employeeSources(employees []model.Employee, links []model.ResolvedLink) model.EmployeeSourceSplit {
	inbound := make(map[int64]bool, len(links))
	for _, l := range links {
		inbound[l.EmployeeID] = true
	}

	var split model.EmployeeSourceSplit
	for _, e := range employees {
		if inbound[e.ID] {
			split.FromApplications++
		} else {
			split.DirectOrTransfer++
		}
	}
	if len(employees) > 0 {
		split.FromApplicationsPct = metrics.Round2(100 * float64(split.FromApplications) / float64(len(employees)))
	}
	return split
}

func mappingCoverage(applicants []model.Applicant, mappings []model.RoleMapping) model.MappingCoverage {
	mapped := make(map[string]model.RoleMapping, len(mappings))
	for _, m := range mappings {
		mapped[m.Role] = m
	}

	roles := make(map[string]bool)
	for _, a := range applicants {
		roles[a.Role] = true
	}

	cov := model.MappingCoverage{TotalRoles: len(roles)}
	for role := range roles {
		m, ok := mapped[role]
		if !ok {
			continue
		}
		cov.MappedRoles++
		if m.Conflicting() {
			cov.ConflictRoles++
		}
	}
	if cov.TotalRoles > 0 {
		cov.CoveragePct = metrics.Round2(100 * float64(cov.MappedRoles) / float64(cov.TotalRoles))
	}
	return cov
}
