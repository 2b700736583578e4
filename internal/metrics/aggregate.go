// Package metrics computes the hiring funnel, department rollups, and
// employee profiles from a snapshot, the resolved links, and the
// role→department mapping. Groups are independent and computed in
// parallel; a failed group is reported, never fatal.
package metrics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/hr-analytics-cli/internal/model"
)

// Aggregator computes derived metrics. Concurrency bounds the number
// of funnel groups computed at once; zero means a sensible default.
type Aggregator struct {
	Concurrency int
}

type groupKey struct {
	role string
	dept string
}

// Funnel computes one FunnelMetric per (role, effective department)
// group. Effective department is the applicant's own department when
// present, else the mapping lookup, else "Unknown". Per-group failures
// are collected as GroupErrors alongside the successful rows.
func (a *Aggregator) Funnel(
	ctx context.Context,
	snap *model.Snapshot,
	links []model.ResolvedLink,
	mappings []model.RoleMapping,
) ([]model.FunnelMetric, []model.GroupError) {
	deptByRole := make(map[string]string, len(mappings))
	for _, m := range mappings {
		deptByRole[m.Role] = m.Department
	}

	linksByApplicant := make(map[int64][]model.ResolvedLink, len(links))
	for _, l := range links {
		linksByApplicant[l.ApplicantID] = append(linksByApplicant[l.ApplicantID], l)
	}

	groups := make(map[groupKey][]model.Applicant)
	var order []groupKey
	for _, app := range snap.Applicants {
		key := groupKey{role: app.Role, dept: effectiveDepartment(app, deptByRole)}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], app)
	}
	sort.Slice(order, func(i, j int) bool {
		if order[i].role != order[j].role {
			return order[i].role < order[j].role
		}
		return order[i].dept < order[j].dept
	})

	limit := a.Concurrency
	if limit <= 0 {
		limit = 8
	}

	var (
		mu        sync.Mutex
		rows      []model.FunnelMetric
		groupErrs []model.GroupError
	)

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, key := range order {
		apps := groups[key]
		g.Go(func() error {
			row, err := computeGroup(key, apps, linksByApplicant)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				zap.L().Warn("metrics: group computation failed",
					zap.String("role", key.role),
					zap.String("department", key.dept),
					zap.Error(err),
				)
				groupErrs = append(groupErrs, model.GroupError{
					Role:       key.role,
					Department: key.dept,
					Err:        err.Error(),
				})
				return nil // isolated failure, never aborts the run
			}
			rows = append(rows, row)
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Role != rows[j].Role {
			return rows[i].Role < rows[j].Role
		}
		return rows[i].Department < rows[j].Department
	})
	sort.Slice(groupErrs, func(i, j int) bool {
		if groupErrs[i].Role != groupErrs[j].Role {
			return groupErrs[i].Role < groupErrs[j].Role
		}
		return groupErrs[i].Department < groupErrs[j].Department
	})
	return rows, groupErrs
}

// computeGroup builds the funnel row for one (role, department) group.
// Recovers panics into errors so one bad group cannot take down the
// whole aggregation.
func computeGroup(key groupKey, apps []model.Applicant, linksByApplicant map[int64][]model.ResolvedLink) (row model.FunnelMetric, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	row = model.FunnelMetric{
		Role:         key.role,
		Department:   key.dept,
		StatusCounts: make(map[model.ApplicationStatus]int, len(model.AllStatuses)),
	}

	var hireDaysSum, hireDaysN int
	for _, app := range apps {
		row.TotalApplicants++

		appLinks := linksByApplicant[app.ID]
		if app.Status == model.StatusHired {
			// One count per resolved link: ambiguous matches fan out
			// exactly as the upstream join does. A hired applicant with
			// no employment record still counts once but contributes
			// nothing to time-to-hire.
			n := len(appLinks)
			if n == 0 {
				n = 1
			}
			row.StatusCounts[model.StatusHired] += n
		} else {
			row.StatusCounts[app.Status]++
		}

		for _, l := range appLinks {
			hireDaysSum += l.DaysToHire
			hireDaysN++
		}
		row.ResolvedHires += len(appLinks)

		if !app.Status.Terminal() {
			row.InPipelineCount++
		}
	}

	row.HiredCount = row.StatusCounts[model.StatusHired]
	row.RejectedCount = row.StatusCounts[model.StatusRejected]
	row.ConversionRate = ratio(row.HiredCount, row.HiredCount+row.RejectedCount)
	if hireDaysN > 0 {
		row.AvgTimeToHireDays = Round2(float64(hireDaysSum) / float64(hireDaysN))
	}
	return row, nil
}

// effectiveDepartment picks the grouping department for an applicant:
// its own value if present, else the role mapping, else "Unknown".
func effectiveDepartment(app model.Applicant, deptByRole map[string]string) string {
	if app.Department != "" {
		return app.Department
	}
	if dept, ok := deptByRole[app.Role]; ok && dept != "" {
		return dept
	}
	return model.UnknownDepartment
}

// ratio is 100·num/den rounded to two decimals, 0 when den is 0.
func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return Round2(100 * float64(num) / float64(den))
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
