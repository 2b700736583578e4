// Package resolve matches hiring applications to employment records.
// The two sources share no stable join key, so the only predicate is
// name equality plus date ordering, and the result is a relation that
// keeps every match rather than picking a winner.
package resolve

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/hr-analytics-cli/internal/model"
)

// Resolver produces resolved links from a record store snapshot.
type Resolver struct {
	normalize Normalizer
}

// New creates a resolver with the given matching options.
func New(opts Options) *Resolver {
	return &Resolver{normalize: newNormalizer(opts)}
}

// Resolve pairs every Hired applicant with each employee whose name
// matches and whose start date is on or after the application date.
// Pure read over the snapshot: no matches is an expected outcome, not
// an error, and either input being empty yields an empty set.
func (r *Resolver) Resolve(snap *model.Snapshot) []model.ResolvedLink {
	if len(snap.Applicants) == 0 || len(snap.Employees) == 0 {
		return nil
	}

	// Index employees by normalized name, candidates ordered by start
	// date then ID so output is deterministic for identical input.
	byName := make(map[string][]model.Employee, len(snap.Employees))
	for _, e := range snap.Employees {
		key := r.normalize(e.Name)
		byName[key] = append(byName[key], e)
	}
	for _, candidates := range byName {
		sort.Slice(candidates, func(i, j int) bool {
			if !candidates[i].StartedAt.Equal(candidates[j].StartedAt) {
				return candidates[i].StartedAt.Before(candidates[j].StartedAt)
			}
			return candidates[i].ID < candidates[j].ID
		})
	}

	var links []model.ResolvedLink
	for _, a := range snap.Applicants {
		if a.Status != model.StatusHired {
			continue
		}
		matched := 0
		for _, e := range byName[r.normalize(a.Name)] {
			if e.StartedAt.Before(a.AppliedAt) {
				continue
			}
			links = append(links, model.ResolvedLink{
				ApplicantID: a.ID,
				EmployeeID:  e.ID,
				Name:        a.Name,
				Role:        a.Role,
				Department:  e.Department,
				DaysToHire:  daysBetween(a.AppliedAt, e.StartedAt),
			})
			matched++
		}
		if matched > 1 {
			zap.L().Debug("resolve: ambiguous match retained",
				zap.Int64("applicant_id", a.ID),
				zap.String("name", a.Name),
				zap.Int("employees", matched),
			)
		}
	}

	return links
}

// daysBetween returns whole calendar days from a to b, weekends
// included, ignoring any time-of-day component.
func daysBetween(a, b time.Time) int {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
