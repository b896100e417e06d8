package catalog

import (
	"github.com/dadao-education/unicatalog/internal/models"
)

// Placeholder values filled in for fields an import left empty
const (
	DefaultLocation       = "未知"
	DefaultCountry        = "其他"
	DefaultLogo           = "https://picsum.photos/100/100"
	DefaultRanking        = 999
	DefaultDepartmentName = "综合院系"
	DefaultDegreeType     = "Master"
	DefaultDuration       = "1年"
	DefaultTuition        = "待更新"
	DefaultApplicationFee = "待定"
	DefaultDescription    = "项目详情正在收录中。"
	DefaultRequirement    = "不限"
)

// WithDefaults returns a copy of u with every missing field filled in,
// recursively for departments and programs. The university id is left as is.
func WithDefaults(u models.University) models.University {
	out := u
	if out.Location == "" {
		out.Location = DefaultLocation
	}
	if out.Country == "" {
		out.Country = DefaultCountry
	}
	if out.Logo == "" {
		out.Logo = DefaultLogo
	}
	if out.QSRanking <= 0 {
		out.QSRanking = DefaultRanking
	}

	out.Departments = make([]models.Department, 0, len(u.Departments))
	for _, d := range u.Departments {
		out.Departments = append(out.Departments, departmentWithDefaults(d))
	}
	return out
}

func departmentWithDefaults(d models.Department) models.Department {
	out := d
	if out.ID == "" {
		out.ID = newDepartmentID()
	}
	if out.Name == "" {
		out.Name = DefaultDepartmentName
	}

	out.Programs = make([]models.Program, 0, len(d.Programs))
	for _, p := range d.Programs {
		out.Programs = append(out.Programs, programWithDefaults(p, out.Name))
	}
	out.ProgramCount = len(out.Programs)
	return out
}

func programWithDefaults(p models.Program, departmentName string) models.Program {
	out := p
	if out.ID == "" {
		out.ID = newProgramID()
	}
	if out.DegreeType == "" {
		out.DegreeType = DefaultDegreeType
	}
	if out.Faculty == "" {
		out.Faculty = departmentName
	}
	if out.School == "" {
		out.School = departmentName
	}
	if out.Duration == "" {
		out.Duration = DefaultDuration
	}
	if out.Tuition == "" {
		out.Tuition = DefaultTuition
	}
	if out.ApplicationFee == "" {
		out.ApplicationFee = DefaultApplicationFee
	}
	if out.Description == "" {
		out.Description = DefaultDescription
	}
	if out.Rounds == nil {
		out.Rounds = []models.Round{}
	}
	if out.Requirements.IsZero() {
		out.Requirements = models.Requirements{GPA: DefaultRequirement, Background: DefaultRequirement}
	}
	if out.Curriculum == nil {
		out.Curriculum = []models.CurriculumEntry{}
	}
	return out
}
