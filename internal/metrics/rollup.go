package metrics

import (
	"sort"

	"github.com/sells-group/hr-analytics-cli/internal/model"
)

// Rollups aggregates funnel rows by effective department and joins
// them against employee headcount and salary aggregates. Departments
// appearing on either side get a row; every ratio degrades to 0 on an
// empty denominator.
func (a *Aggregator) Rollups(funnel []model.FunnelMetric, employees []model.Employee) []model.DepartmentRollup {
	byDept := make(map[string]*model.DepartmentRollup)
	get := func(dept string) *model.DepartmentRollup {
		r, ok := byDept[dept]
		if !ok {
			r = &model.DepartmentRollup{Department: dept}
			byDept[dept] = r
		}
		return r
	}

	for _, f := range funnel {
		r := get(f.Department)
		r.TotalApplicants += f.TotalApplicants
		r.HiredCount += f.HiredCount
		r.InPipelineCount += f.InPipelineCount
	}

	salarySums := make(map[string]float64)
	for _, e := range employees {
		r := get(e.Department)
		if e.Current() {
			r.CurrentEmployees++
		} else {
			r.FormerEmployees++
		}
		salarySums[e.Department] += e.Salary
	}

	out := make([]model.DepartmentRollup, 0, len(byDept))
	for dept, r := range byDept {
		if n := r.CurrentEmployees + r.FormerEmployees; n > 0 {
			r.AvgSalary = Round2(salarySums[dept] / float64(n))
		}
		r.HireRate = ratio(r.HiredCount, r.TotalApplicants)
		if r.CurrentEmployees > 0 {
			r.PipelineToHeadcount = Round2(float64(r.InPipelineCount) / float64(r.CurrentEmployees))
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Department < out[j].Department })
	return out
}
