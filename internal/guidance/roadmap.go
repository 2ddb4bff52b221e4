package guidance

import (
	"strings"

	"roadmap-workers/internal/catalog"
)

// LookupOutcome distinguishes a matched row from no matching row.
type LookupOutcome string

const (
	Found    LookupOutcome = "FOUND"
	NotFound LookupOutcome = "NOT_FOUND"
)

// MajorsResult carries the matched catalog career, which may be longer than the query.
type MajorsResult struct {
	Outcome LookupOutcome `json:"outcome"`
	Career  string        `json:"career,omitempty"`
	Majors  []string      `json:"majors"`
}

type SubjectsResult struct {
	Outcome  LookupOutcome `json:"outcome"`
	Major    string        `json:"major,omitempty"`
	General  string        `json:"general,omitempty"`
	Advanced string        `json:"advanced,omitempty"`
}

// Resolver walks career → majors → subjects. It holds no selection state.
type Resolver struct {
	Majors   []catalog.MajorLookup
	Subjects []catalog.SubjectLookup
}

func NewResolver(snap *catalog.Snapshot) *Resolver {
	return &Resolver{Majors: snap.Majors, Subjects: snap.Subjects}
}

// ResolveMajors uses the first row whose career contains the query. Blank
// and repeated majors are dropped.
func (r *Resolver) ResolveMajors(career string) MajorsResult {
	query := strings.TrimSpace(career)
	if query == "" {
		return MajorsResult{Outcome: NotFound, Majors: []string{}}
	}

	for _, row := range r.Majors {
		if !strings.Contains(row.Career, query) {
			continue
		}
		return MajorsResult{
			Outcome: Found,
			Career:  row.Career,
			Majors:  dedupe(row.Majors),
		}
	}
	return MajorsResult{Outcome: NotFound, Majors: []string{}}
}

// ResolveSubjects uses the first row whose key contains the major.
func (r *Resolver) ResolveSubjects(major string) SubjectsResult {
	query := strings.TrimSpace(major)
	if query == "" {
		return SubjectsResult{Outcome: NotFound}
	}

	for _, row := range r.Subjects {
		if strings.Contains(row.Major, query) {
			return SubjectsResult{
				Outcome:  Found,
				Major:    row.Major,
				General:  row.General,
				Advanced: row.Advanced,
			}
		}
	}
	return SubjectsResult{Outcome: NotFound}
}

func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, m := range in {
		m = strings.TrimSpace(m)
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}
