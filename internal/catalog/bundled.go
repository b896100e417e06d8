package catalog

import (
	"fmt"

	"github.com/dadao-education/unicatalog/internal/models"
)

type seedUniversity struct {
	id       string
	qs       int
	nameCN   string
	nameEN   string
	location string
	country  string
	logo     string
}

var seedUniversities = []seedUniversity{
	{"u1", 1, "麻省理工学院", "MIT", "美国", "USA", "https://upload.wikimedia.org/wikipedia/commons/thumb/0/0c/MIT_logo.svg/1200px-MIT_logo.svg.png"},
	{"u3", 3, "牛津大学", "University of Oxford", "英国", "UK", "https://upload.wikimedia.org/wikipedia/commons/thumb/f/ff/Oxford_University_Coat_of_Arms.svg/1200px-Oxford_University_Coat_of_Arms.svg.png"},
	{"u4", 4, "哈佛大学", "Harvard University", "美国", "USA", "https://upload.wikimedia.org/wikipedia/en/2/29/Harvard_shield_wreath.svg"},
	{"u5", 5, "剑桥大学", "University of Cambridge", "英国", "UK", "https://upload.wikimedia.org/wikipedia/commons/thumb/c/c3/Coat_of_Arms_of_the_University_of_Cambridge.svg/1200px-Coat_of_Arms_of_the_University_of_Cambridge.svg.png"},
	{"u6", 6, "斯坦福大学", "Stanford University", "美国", "USA", "https://upload.wikimedia.org/wikipedia/commons/thumb/b/b5/Seal_of_Leland_Stanford_Junior_University.svg/1200px-Seal_of_Leland_Stanford_Junior_University.svg.png"},
	{"u7", 7, "苏黎世联邦理工学院", "ETH Zurich", "瑞士", "Switzerland", "https://upload.wikimedia.org/wikipedia/commons/thumb/9/99/ETH_Z%C3%BCrich_Logo_black.svg/1200px-ETH_Z%C3%BCrich_Logo_black.svg.png"},
	{"u8", 8, "新加坡国立大学", "National University of Singapore", "新加坡", "Singapore", "https://upload.wikimedia.org/wikipedia/en/thumb/b/b9/NUS_coat_of_arms.svg/1200px-NUS_coat_of_arms.svg.png"},
	{"u9", 9, "伦敦大学学院", "UCL", "英国", "UK", "https://upload.wikimedia.org/wikipedia/en/d/d1/University_College_London_logo.svg"},
	{"u10", 10, "加州理工学院", "Caltech", "美国", "USA", "https://upload.wikimedia.org/wikipedia/en/a/a4/California_Institute_of_Technology_seal.svg"},
	{"u13", 13, "墨尔本大学", "The University of Melbourne", "澳大利亚", "Australia", "https://upload.wikimedia.org/wikipedia/en/1/1b/University_of_Melbourne_Coat_of_Arms.svg"},
	{"u14", 14, "南洋理工大学", "Nanyang Technological University", "新加坡", "Singapore", "https://upload.wikimedia.org/wikipedia/en/thumb/f/f8/Nanyang_Technological_University_coat_of_arms.svg/1200px-Nanyang_Technological_University_coat_of_arms.svg.png"},
	{"u16", 16, "香港大学", "The University of Hong Kong", "中国香港", "Hong Kong", "https://upload.wikimedia.org/wikipedia/en/thumb/b/b5/University_of_Hong_Kong_coat_of_arms.svg/1200px-University_of_Hong_Kong_coat_of_arms.svg.png"},
	{"u17", 17, "悉尼大学", "The University of Sydney", "澳大利亚", "Australia", "https://upload.wikimedia.org/wikipedia/en/thumb/3/30/University_of_Sydney_Coat_of_Arms.svg/1200px-University_of_Sydney_Coat_of_Arms.svg.png"},
	{"u21", 21, "多伦多大学", "University of Toronto", "加拿大", "Canada", "https://upload.wikimedia.org/wikipedia/en/thumb/e/e3/University_of_Toronto_Coat_of_Arms.svg/1200px-University_of_Toronto_Coat_of_Arms.svg.png"},
	{"u23", 23, "爱丁堡大学", "The University of Edinburgh", "英国", "UK", "https://upload.wikimedia.org/wikipedia/en/thumb/7/73/University_of_Edinburgh_Ceremonial_Coat_of_Arms.svg/1200px-University_of_Edinburgh_Ceremonial_Coat_of_Arms.svg.png"},
	{"u24", 24, "清华大学", "Tsinghua University", "中国", "China", "https://upload.wikimedia.org/wikipedia/en/thumb/d/d3/Tsinghua_University_Logo.svg/1200px-Tsinghua_University_Logo.svg.png"},
	{"u28", 28, "巴黎文理研究大学", "PSL University", "法国", "France", "https://upload.wikimedia.org/wikipedia/commons/thumb/2/22/PSL_Research_University_logo.svg/1200px-PSL_Research_University_logo.svg.png"},
	{"u29", 29, "东京大学", "The University of Tokyo", "日本", "Japan", "https://upload.wikimedia.org/wikipedia/en/thumb/c/c5/University_of_Tokyo_Logo.svg/1200px-University_of_Tokyo_Logo.svg.png"},
	{"u37", 37, "代尔夫特理工大学", "TU Delft", "荷兰", "Netherlands", "https://upload.wikimedia.org/wikipedia/commons/thumb/2/2a/TU_Delft_Logo.svg/1200px-TU_Delft_Logo.svg.png"},
	{"u39", 39, "慕尼黑工业大学", "Technical University of Munich", "德国", "Germany", "https://upload.wikimedia.org/wikipedia/commons/thumb/c/c8/Logo_Technical_University_of_Munich.svg/1200px-Logo_Technical_University_of_Munich.svg.png"},
}

// Bundled returns a fresh copy of the default catalog, sorted by ranking
func Bundled() []models.University {
	universities := make([]models.University, 0, len(seedUniversities)+1)
	universities = append(universities, imperialCollege())
	for _, s := range seedUniversities {
		universities = append(universities, models.University{
			ID:          s.id,
			NameCN:      s.nameCN,
			NameEN:      s.nameEN,
			Location:    s.location,
			Country:     s.country,
			Logo:        s.logo,
			QSRanking:   s.qs,
			Departments: generateDepartments(s.id, s.nameEN),
		})
	}
	sortByRanking(universities)
	return universities
}

func detailedProgram(id, uniName, majorName, faculty string) models.Program {
	return models.Program{
		ID:             id,
		NameCN:         majorName + "硕士",
		NameEN:         "MSc " + majorName,
		DegreeType:     "Master",
		Faculty:        faculty,
		School:         faculty + " School",
		Duration:       "1-2年",
		Tuition:        "£32,000 - £45,000 / Year",
		ApplicationFee: "£90",
		Description: fmt.Sprintf("The MSc in %s at %s is a world-leading program designed to equip students with advanced theoretical knowledge and practical skills. Students will engage with cutting-edge research and industry projects.",
			majorName, uniName),
		Rounds: []models.Round{
			{Name: "Round 1", Date: "2025-11-15", Status: models.RoundClosed},
			{Name: "Round 2", Date: "2026-01-30", Status: models.RoundOpen},
			{Name: "Round 3", Date: "2026-03-30", Status: models.RoundUpcoming},
		},
		Requirements: models.Requirements{
			IELTS:      &models.LanguageScore{Total: "7.0", Listening: "6.5", Reading: "6.5", Writing: "6.5", Speaking: "6.5"},
			TOEFL:      &models.LanguageScore{Total: "100", Listening: "22", Reading: "22", Writing: "22", Speaking: "22"},
			GPA:        "UK 2:1 or equivalent (85%+)",
			Background: fmt.Sprintf("Bachelor degree in %s or related quantitative discipline.", faculty),
			Other:      "Strong mathematical background required.",
			Documents: []string{
				"Personal Statement (500 words)",
				"Two Academic References",
				"CV / Resume",
				"Official Transcripts",
			},
		},
		Curriculum: []models.CurriculumEntry{
			{NameCN: "高级核心课程", NameEN: "Advanced " + majorName + " Core", Type: "必修"},
			{NameCN: "研究方法论", NameEN: "Research Methods", Type: "必修"},
			{NameCN: "毕业论文", NameEN: "Dissertation", Type: "核心"},
			{NameCN: "选修课 A", NameEN: "Elective Module A", Type: "选修"},
			{NameCN: "选修课 B", NameEN: "Elective Module B", Type: "选修"},
		},
		Career:     fmt.Sprintf("Graduates from the %s program are highly sought after by top firms in the industry, consultancy, and academia.", majorName),
		Highlights: fmt.Sprintf("%s is consistently ranked among the top universities globally for %s.", uniName, faculty),
	}
}

func department(id, name string, programs ...models.Program) models.Department {
	return models.Department{ID: id, Name: name, ProgramCount: len(programs), Programs: programs}
}

func generateDepartments(uniID, uniNameEN string) []models.Department {
	p := func(suffix, major, faculty string) models.Program {
		return detailedProgram(fmt.Sprintf("p-%s-%s", uniID, suffix), uniNameEN, major, faculty)
	}
	return []models.Department{
		department("d-"+uniID+"-eng", "工程学院",
			p("cs", "Computer Science", "Engineering"),
			p("ee", "Electrical Engineering", "Engineering"),
			p("me", "Mechanical Engineering", "Engineering"),
		),
		department("d-"+uniID+"-bus", "商学院",
			p("fin", "Finance", "Business"),
			p("mgmt", "Management", "Business"),
		),
		department("d-"+uniID+"-sci", "理学院",
			p("ds", "Data Science", "Science"),
			p("phy", "Physics", "Science"),
		),
	}
}

func imperialCollege() models.University {
	civil := models.Program{
		ID:             "p1",
		NameCN:         "土木工程硕士",
		NameEN:         "MSc Civil Engineering",
		DegreeType:     "Master",
		Faculty:        "Civil and Environmental Engineering",
		School:         "Faculty of Engineering",
		Duration:       "1年",
		Tuition:        "£41,000 / Year",
		ApplicationFee: "£80",
		Description:    "The MSc in Civil Engineering offers specialist streams in structural, geotechnical, hydraulic and transport engineering, taught by leading researchers.",
		Rounds: []models.Round{
			{Name: "开放申请", Date: "2025-09-29", Status: models.RoundOpen},
			{Name: "Round 1", Date: "2026-01-07", Status: models.RoundUpcoming},
			{Name: "Round 2", Date: "2026-03-11", Status: models.RoundUpcoming},
			{Name: "Round 3", Date: "2026-04-29", Status: models.RoundUpcoming},
		},
		Requirements: models.Requirements{
			IELTS:      &models.LanguageScore{Total: "7.0", Listening: "6.5", Reading: "6.5", Writing: "6.5", Speaking: "6.5"},
			GPA:        "UK 2:1 or equivalent",
			Background: "Bachelor degree in Civil Engineering or a closely related discipline.",
			Documents:  []string{"Personal Statement", "Two Academic References", "CV / Resume", "Official Transcripts"},
		},
		Curriculum: []models.CurriculumEntry{
			{NameCN: "结构分析", NameEN: "Structural Analysis", Type: "必修"},
			{NameCN: "岩土工程", NameEN: "Geotechnical Engineering", Type: "选修"},
			{NameCN: "毕业论文", NameEN: "Dissertation", Type: "核心"},
		},
		Career:     "Graduates join leading engineering consultancies, contractors and public infrastructure bodies.",
		Highlights: "One of the largest and most prestigious civil engineering departments in the UK.",
	}

	return models.University{
		ID:        "u2",
		NameCN:    "帝国理工学院",
		NameEN:    "Imperial College London",
		Location:  "英国",
		Country:   "UK",
		Logo:      "https://upload.wikimedia.org/wikipedia/commons/c/c5/Imperial_College_London_new_logo.png",
		QSRanking: 2,
		Departments: append(
			[]models.Department{department("d1", "土木与环境工程学院", civil)},
			generateDepartments("u2", "Imperial College London")...,
		),
	}
}
