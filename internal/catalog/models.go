package catalog

import "time"

// Logical table names shared by every source.
const (
	TableQuestions = "Questions"
	TableJobs      = "Jobs"
	TableMajors    = "Majors"
	TableSubjects  = "Subjects"
	TableBalance   = "Balance"
)

// Tables lists the logical tables in load order.
var Tables = []string{TableQuestions, TableJobs, TableMajors, TableSubjects, TableBalance}

// Value axis indexes, in the fixed order of ValueVector.
const (
	AxisMoney = iota
	AxisWorkLifeBalance
	AxisCulture
	AxisLocation
	AxisStability

	AxisCount
)

// AxisNames are the JSON names of the value axes.
var AxisNames = [AxisCount]string{"money", "workLifeBalance", "culture", "location", "stability"}

// ValueVector holds the five value axes in fixed order.
type ValueVector [AxisCount]float64

type CareerRecord struct {
	Name         string      `json:"name"`
	InterestCode string      `json:"interestCode"`
	Values       ValueVector `json:"values"`
	Description  string      `json:"description,omitempty"`
}

type MajorLookup struct {
	Career string   `json:"career" yaml:"career"`
	Majors []string `json:"majors" yaml:"majors"`
}

type SubjectLookup struct {
	Major    string `json:"major" yaml:"major"`
	General  string `json:"general" yaml:"general"`
	Advanced string `json:"advanced" yaml:"advanced"`
}

type Question struct {
	Text     string `json:"text" yaml:"text"`
	Category string `json:"category" yaml:"category"`
}

// Snapshot is an immutable view of the catalog. A reload replaces it wholesale.
type Snapshot struct {
	Careers   []CareerRecord  `json:"careers"`
	Majors    []MajorLookup   `json:"majors"`
	Subjects  []SubjectLookup `json:"subjects"`
	Questions []Question      `json:"questions"`
	Source    string          `json:"source"`
	LoadedAt  time.Time       `json:"loadedAt"`
	Warnings  []Warning       `json:"warnings,omitempty"`
}

// Warning records a recovered schema or data problem found while loading.
type Warning struct {
	Code    string `json:"code"`
	Table   string `json:"table"`
	Message string `json:"message"`
}
