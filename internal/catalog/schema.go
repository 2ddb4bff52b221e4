package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"roadmap-workers/internal/common/config"
	"roadmap-workers/internal/common/errors"
)

// requiredTables must be present in a primary fetch. Balance is optional:
// without it careers carry a zero value vector.
var requiredTables = []string{TableQuestions, TableJobs, TableMajors, TableSubjects}

// resolver turns raw tables into typed records, collecting warnings.
type resolver struct {
	cols     config.ColumnConfig
	warnings []Warning
}

// Resolve validates the fetched tables against the configured columns and
// builds a snapshot. A missing key column falls back to the first column.
func Resolve(tables map[string]*Table, cols config.ColumnConfig) (*Snapshot, error) {
	for _, name := range requiredTables {
		t, ok := tables[name]
		if !ok || t == nil {
			return nil, fmt.Errorf("table %s missing", name)
		}
		if len(t.Header) == 0 {
			return nil, fmt.Errorf("table %s has no columns", name)
		}
	}

	r := &resolver{cols: cols}
	for _, name := range Tables {
		if t, ok := tables[name]; ok && t != nil {
			r.warnings = append(r.warnings, t.Warnings...)
		}
	}
	snap := &Snapshot{}

	snap.Questions = r.questions(tables[TableQuestions])

	jobs := r.jobs(tables[TableJobs])
	if bal, ok := tables[TableBalance]; ok && bal != nil && len(bal.Rows) > 0 {
		careers, err := r.balance(bal, jobs)
		if err != nil {
			return nil, err
		}
		snap.Careers = careers
	} else {
		snap.Careers = jobs
	}

	majors, err := r.majors(tables[TableMajors])
	if err != nil {
		return nil, err
	}
	snap.Majors = majors
	snap.Subjects = r.subjects(tables[TableSubjects])

	if len(snap.Careers) == 0 {
		return nil, fmt.Errorf("no careers resolved")
	}
	snap.Warnings = r.warnings
	return snap, nil
}

func (r *resolver) warn(code errors.ErrorCode, table, format string, args ...interface{}) {
	r.warnings = append(r.warnings, Warning{
		Code:    string(code),
		Table:   table,
		Message: fmt.Sprintf(format, args...),
	})
}

// key resolves the key column, substituting the first column when absent.
func (r *resolver) key(t *Table, name string) int {
	if i := t.Column(name); i >= 0 {
		return i
	}
	err := errors.NewSchemaMismatchError(t.Name, name, t.Header[0])
	r.warn(err.Code, t.Name, "%s", err.Details)
	return 0
}

// optional resolves a non-key column; -1 leaves the field empty.
func (r *resolver) optional(t *Table, name string, warnIfMissing bool) int {
	i := t.Column(name)
	if i < 0 && warnIfMissing {
		r.warn(errors.ErrCodeSchemaMismatch, t.Name, "column %s absent, field left empty", name)
	}
	return i
}

func (r *resolver) questions(t *Table) []Question {
	text := r.key(t, r.cols.QuestionText)
	cat := r.optional(t, r.cols.QuestionCategory, true)
	if cat < 0 {
		return nil
	}

	out := make([]Question, 0, len(t.Rows))
	for _, row := range t.Rows {
		q := Question{Text: t.Cell(row, text), Category: t.Cell(row, cat)}
		if q.Text == "" || q.Category == "" {
			continue
		}
		out = append(out, q)
	}
	return out
}

// jobs returns the Jobs table as careers with zero vectors.
func (r *resolver) jobs(t *Table) []CareerRecord {
	name := r.key(t, r.cols.JobName)
	code := r.optional(t, r.cols.JobType, true)
	desc := r.optional(t, r.cols.JobDescription, false)

	out := make([]CareerRecord, 0, len(t.Rows))
	seen := make(map[string]bool, len(t.Rows))
	for _, row := range t.Rows {
		c := CareerRecord{
			Name:         t.Cell(row, name),
			InterestCode: strings.ToUpper(t.Cell(row, code)),
			Description:  t.Cell(row, desc),
		}
		if c.Name == "" || seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		out = append(out, c)
	}
	return out
}

// balance builds careers with value vectors. Codes and descriptions missing
// from Balance are taken from Jobs by exact name.
func (r *resolver) balance(t *Table, jobs []CareerRecord) ([]CareerRecord, error) {
	if len(r.cols.ValueAxes) != AxisCount {
		return nil, fmt.Errorf("expected %d value axes, got %d", AxisCount, len(r.cols.ValueAxes))
	}
	name := r.key(t, r.cols.JobName)
	code := r.optional(t, r.cols.JobType, false)

	var axes [AxisCount]int
	for i, col := range r.cols.ValueAxes {
		axes[i] = t.Column(col)
		if axes[i] < 0 {
			return nil, fmt.Errorf("table %s: value column %s missing", t.Name, col)
		}
	}

	byName := make(map[string]CareerRecord, len(jobs))
	for _, j := range jobs {
		byName[j.Name] = j
	}

	out := make([]CareerRecord, 0, len(t.Rows))
	seen := make(map[string]bool, len(t.Rows))
rows:
	for n, row := range t.Rows {
		c := CareerRecord{Name: t.Cell(row, name), InterestCode: strings.ToUpper(t.Cell(row, code))}
		if c.Name == "" || seen[c.Name] {
			continue
		}
		for i, col := range axes {
			v, err := parseAxis(t.Cell(row, col))
			if err != nil {
				r.warn(errors.ErrCodeSchemaMismatch, t.Name, "row %d (%s) skipped: %s: %v", n+2, c.Name, r.cols.ValueAxes[i], err)
				continue rows
			}
			c.Values[i] = v
		}
		if j, ok := byName[c.Name]; ok {
			c.Description = j.Description
			if c.InterestCode == "" {
				c.InterestCode = j.InterestCode
			}
		}
		seen[c.Name] = true
		out = append(out, c)
	}
	return out, nil
}

func parseAxis(s string) (float64, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number %q", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative value %v", v)
	}
	return v, nil
}

func (r *resolver) majors(t *Table) ([]MajorLookup, error) {
	career := r.key(t, r.cols.MajorCareer)

	var slots []int
	for _, s := range r.cols.MajorSlots {
		if i := t.Column(s); i >= 0 {
			slots = append(slots, i)
		}
	}
	if len(slots) == 0 {
		return nil, fmt.Errorf("table %s: none of the major columns %v present", t.Name, r.cols.MajorSlots)
	}

	out := make([]MajorLookup, 0, len(t.Rows))
	for _, row := range t.Rows {
		m := MajorLookup{Career: t.Cell(row, career)}
		if m.Career == "" {
			continue
		}
		for _, i := range slots {
			if v := t.Cell(row, i); v != "" {
				m.Majors = append(m.Majors, v)
			}
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *resolver) subjects(t *Table) []SubjectLookup {
	key := r.key(t, r.cols.SubjectKey)
	general := r.optional(t, r.cols.SubjectGeneral, true)
	advanced := r.optional(t, r.cols.SubjectAdvanced, true)

	out := make([]SubjectLookup, 0, len(t.Rows))
	for _, row := range t.Rows {
		s := SubjectLookup{
			Major:    t.Cell(row, key),
			General:  t.Cell(row, general),
			Advanced: t.Cell(row, advanced),
		}
		if s.Major == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
