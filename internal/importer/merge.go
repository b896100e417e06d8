package importer

import "github.com/dadao-education/unicatalog/internal/models"

// Merge folds incoming universities into master by exact nameCN. For a matched
// university each incoming department is matched by exact name: programs are
// concatenated onto an existing department, otherwise the department is
// appended. Unmatched universities are appended. No university is removed.
func Merge(master, incoming []models.University) []models.University {
	for _, u := range incoming {
		idx := -1
		for i := range master {
			if master[i].NameCN == u.NameCN {
				idx = i
				break
			}
		}

		if idx == -1 {
			master = append(master, cloneUniversity(u))
			continue
		}

		existing := &master[idx]
		for _, d := range u.Departments {
			found := false
			for j := range existing.Departments {
				if existing.Departments[j].Name == d.Name {
					existing.Departments[j].Programs = append(existing.Departments[j].Programs, d.Programs...)
					found = true
					break
				}
			}
			if !found {
				existing.Departments = append(existing.Departments, cloneDepartment(d))
			}
		}
	}
	return master
}

func cloneUniversity(u models.University) models.University {
	out := u
	out.Departments = make([]models.Department, 0, len(u.Departments))
	for _, d := range u.Departments {
		out.Departments = append(out.Departments, cloneDepartment(d))
	}
	return out
}

func cloneDepartment(d models.Department) models.Department {
	out := d
	out.Programs = append([]models.Program(nil), d.Programs...)
	return out
}
