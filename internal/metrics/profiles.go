package metrics

import (
	"sort"

	"github.com/sells-group/hr-analytics-cli/internal/model"
)

// Profiles builds the master per-employee view: employment record plus
// employment type plus, where a resolved link exists, the application
// it traces back to. When several applications link to one employee
// (re-hires under the same name) the earliest application wins; the
// full fan-out stays available in the link relation itself.
func (a *Aggregator) Profiles(snap *model.Snapshot, links []model.ResolvedLink) []model.EmployeeProfile {
	typeByEmployee := make(map[int64]string, len(snap.EmploymentTypes))
	for _, t := range snap.EmploymentTypes {
		typeByEmployee[t.EmployeeID] = t.Type
	}

	applicantByID := make(map[int64]model.Applicant, len(snap.Applicants))
	for _, app := range snap.Applicants {
		applicantByID[app.ID] = app
	}

	linkByEmployee := make(map[int64]model.ResolvedLink, len(links))
	for _, l := range links {
		existing, ok := linkByEmployee[l.EmployeeID]
		if !ok {
			linkByEmployee[l.EmployeeID] = l
			continue
		}
		cur, prev := applicantByID[l.ApplicantID], applicantByID[existing.ApplicantID]
		if cur.AppliedAt.Before(prev.AppliedAt) ||
			(cur.AppliedAt.Equal(prev.AppliedAt) && l.ApplicantID < existing.ApplicantID) {
			linkByEmployee[l.EmployeeID] = l
		}
	}

	out := make([]model.EmployeeProfile, 0, len(snap.Employees))
	for _, e := range snap.Employees {
		p := model.EmployeeProfile{
			EmployeeID:       e.ID,
			Name:             e.Name,
			Department:       e.Department,
			Salary:           e.Salary,
			StartedAt:        e.StartedAt,
			EndedAt:          e.EndedAt,
			EmploymentStatus: "Current",
			EmploymentType:   typeByEmployee[e.ID],
		}
		if !e.Current() {
			p.EmploymentStatus = "Former"
		}
		if l, ok := linkByEmployee[e.ID]; ok {
			if app, found := applicantByID[l.ApplicantID]; found {
				appliedAt := app.AppliedAt
				days := l.DaysToHire
				p.AppliedRole = app.Role
				p.AppliedAt = &appliedAt
				p.ApplicationStatus = app.Status
				p.DaysToHire = &days
			}
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out
}
