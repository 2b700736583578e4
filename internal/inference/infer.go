// Package inference derives the role→department mapping from resolved
// links. Inference is a pure function over the prior mapping state and
// the current link set; conflicting evidence flips the validation
// status and keeps the newest department, it never averages or drops.
package inference

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/hr-analytics-cli/internal/model"
)

// candidate is one distinct (role, department) pair observed in the
// current resolution set.
type candidate struct {
	role       string
	department string
}

// Infer returns a fresh mapping set built from the prior mappings and
// the current links. The inputs are not mutated. Roles with no
// candidate in links keep their prior entry unchanged; roles never
// observed get no entry at all — "Unknown" is a presentation-layer
// default, not a stored value.
func Infer(prior []model.RoleMapping, links []model.ResolvedLink) []model.RoleMapping {
	byRole := make(map[string]model.RoleMapping, len(prior))
	for _, m := range prior {
		m.Departments = append([]string(nil), m.Departments...)
		byRole[m.Role] = m
	}

	now := time.Now().UTC()
	for _, c := range distinctCandidates(links) {
		m, ok := byRole[c.role]
		if !ok {
			byRole[c.role] = model.RoleMapping{
				Role:        c.role,
				Department:  c.department,
				Confidence:  1.0,
				Source:      model.MappingSourceHiredEmployee,
				Status:      model.MappingValidated,
				Departments: []string{c.department},
				UpdatedAt:   now,
			}
			continue
		}

		if m.Department != c.department {
			zap.L().Warn("inference: department conflict",
				zap.String("role", c.role),
				zap.String("stored", m.Department),
				zap.String("observed", c.department),
			)
			m.Status = model.MappingConflictDetected
			m.Department = c.department // last writer wins, conflict stays visible
		} else {
			// Re-observing the stored department re-validates the role.
			m.Status = model.MappingValidated
		}
		m.Confidence = 1.0
		m.Source = model.MappingSourceHiredEmployee
		m.Departments = appendDistinct(m.Departments, c.department)
		m.UpdatedAt = now
		byRole[c.role] = m
	}

	out := make([]model.RoleMapping, 0, len(byRole))
	for _, m := range byRole {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Role < out[j].Role })
	return out
}

// distinctCandidates returns the (role, department) pairs of the link
// set, deduplicated, in first-observation order. A role seen with two
// departments yields two candidates, which is what trips conflict
// detection within a single run.
func distinctCandidates(links []model.ResolvedLink) []candidate {
	seen := make(map[candidate]bool, len(links))
	var out []candidate
	for _, l := range links {
		c := candidate{role: l.Role, department: l.Department}
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

func appendDistinct(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
