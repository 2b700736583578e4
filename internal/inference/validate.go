package inference

import (
	"sort"

	"github.com/sells-group/hr-analytics-cli/internal/model"
)

// Validate recomputes the consistency view over stored mappings: does a
// role map to more than one department across the current resolution
// set, and is a department claimed by more than one role. Both flags
// are reported; neither blocks use of the mapping.
func Validate(mappings []model.RoleMapping, links []model.ResolvedLink) []model.MappingValidation {
	deptsByRole := make(map[string][]string)
	linksByRole := make(map[string]int)
	rolesByDept := make(map[string]map[string]bool)

	for _, l := range links {
		deptsByRole[l.Role] = appendDistinct(deptsByRole[l.Role], l.Department)
		linksByRole[l.Role]++
	}
	for _, m := range mappings {
		if rolesByDept[m.Department] == nil {
			rolesByDept[m.Department] = make(map[string]bool)
		}
		rolesByDept[m.Department][m.Role] = true
	}

	out := make([]model.MappingValidation, 0, len(mappings))
	for _, m := range mappings {
		depts := deptsByRole[m.Role]
		out = append(out, model.MappingValidation{
			Role:                m.Role,
			Department:          m.Department,
			MultipleDepartments: len(depts) > 1,
			SharedDepartment:    len(rolesByDept[m.Department]) > 1,
			Departments:         depts,
			LinkCount:           linksByRole[m.Role],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Role < out[j].Role })
	return out
}
