package models

// University is a catalog entry. ID is unique across the catalog and
// QSRanking is the catalog's ascending sort key.
type University struct {
	ID          string       `json:"id"`
	NameCN      string       `json:"nameCN"`
	NameEN      string       `json:"nameEN"`
	Location    string       `json:"location"`
	Country     string       `json:"country"`
	Logo        string       `json:"logo"`
	QSRanking   int          `json:"qsRanking"`
	Departments []Department `json:"departments"`
}

// Department groups programs within a university
type Department struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	ProgramCount int       `json:"programCount"`
	Programs     []Program `json:"programs"`
}

// Program represents a single degree program
type Program struct {
	ID             string            `json:"id"`
	NameCN         string            `json:"nameCN"`
	NameEN         string            `json:"nameEN"`
	DegreeType     string            `json:"degreeType"`
	Faculty        string            `json:"faculty"` // e.g. Civil Engineering
	School         string            `json:"school"`  // e.g. Faculty of Engineering
	Duration       string            `json:"duration"`
	Tuition        string            `json:"tuition"`
	ApplicationFee string            `json:"applicationFee"`
	Description    string            `json:"description"`
	Rounds         []Round           `json:"rounds"`
	Requirements   Requirements      `json:"requirements"`
	Curriculum     []CurriculumEntry `json:"curriculum"`
	Career         string            `json:"career"`
	Highlights     string            `json:"highlights"`
}

// RoundStatus is supplied by the source data; it is never derived from Date.
type RoundStatus string

const (
	RoundOpen     RoundStatus = "open"
	RoundClosed   RoundStatus = "closed"
	RoundUpcoming RoundStatus = "upcoming"
)

// Round is an admission round. Date is free text.
type Round struct {
	Name   string      `json:"name"`
	Date   string      `json:"date"`
	Status RoundStatus `json:"status"`
}

// LanguageScore holds a total and optional per-skill sub-scores
type LanguageScore struct {
	Total     string `json:"total"`
	Listening string `json:"listening,omitempty"`
	Reading   string `json:"reading,omitempty"`
	Writing   string `json:"writing,omitempty"`
	Speaking  string `json:"speaking,omitempty"`
}

type Requirements struct {
	IELTS      *LanguageScore `json:"ielts,omitempty"`
	TOEFL      *LanguageScore `json:"toefl,omitempty"`
	PTE        *LanguageScore `json:"pte,omitempty"`
	GPA        string         `json:"gpa"`
	Background string         `json:"background"`
	Other      string         `json:"other,omitempty"`
	Documents  []string       `json:"documents,omitempty"`
}

// IsZero reports whether no requirement information is present
func (r Requirements) IsZero() bool {
	return r.IELTS == nil && r.TOEFL == nil && r.PTE == nil &&
		r.GPA == "" && r.Background == "" && r.Other == "" && len(r.Documents) == 0
}

type CurriculumEntry struct {
	NameCN string `json:"nameCN"`
	NameEN string `json:"nameEN"`
	Type   string `json:"type"`
}

// PlanItem pairs a university with a program the user is interested in
type PlanItem struct {
	University University `json:"university"`
	Program    Program    `json:"program"`
}
