package catalog

import (
	_ "embed"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"roadmap-workers/internal/common/config"
	"roadmap-workers/internal/common/errors"
)

//go:embed embedded/catalog.yaml
var embeddedCatalog []byte

type embeddedFile struct {
	Version   int             `yaml:"version"`
	Questions []Question      `yaml:"questions"`
	Careers   []embeddedJob   `yaml:"careers"`
	Majors    []MajorLookup   `yaml:"majors"`
	Subjects  []SubjectLookup `yaml:"subjects"`
}

type embeddedJob struct {
	Name        string    `yaml:"name"`
	Code        string    `yaml:"code"`
	Values      []float64 `yaml:"values"`
	Description string    `yaml:"description"`
}

// LoadEmbedded parses the built-in fallback catalog.
func LoadEmbedded() (*Snapshot, error) {
	return ParseEmbedded(embeddedCatalog)
}

// ParseEmbedded parses a catalog in the embedded YAML layout. Any defect is
// CATALOG_MALFORMED.
func ParseEmbedded(data []byte) (*Snapshot, error) {
	var f embeddedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.NewCatalogMalformedError(fmt.Errorf("parse embedded catalog: %w", err))
	}
	if len(f.Careers) == 0 {
		return nil, errors.NewCatalogMalformedError(fmt.Errorf("embedded catalog has no careers"))
	}

	snap := &Snapshot{
		Questions: f.Questions,
		Majors:    f.Majors,
		Subjects:  f.Subjects,
		Source:    config.SourceEmbedded,
		LoadedAt:  time.Now().UTC(),
	}

	seen := make(map[string]bool, len(f.Careers))
	for i, j := range f.Careers {
		name := strings.TrimSpace(j.Name)
		if name == "" {
			return nil, errors.NewCatalogMalformedError(fmt.Errorf("career %d has no name", i))
		}
		if seen[name] {
			return nil, errors.NewCatalogMalformedError(fmt.Errorf("career %q listed twice", name))
		}
		seen[name] = true
		if len(j.Values) != AxisCount {
			return nil, errors.NewCatalogMalformedError(
				fmt.Errorf("career %q has %d values, want %d", name, len(j.Values), AxisCount))
		}

		c := CareerRecord{Name: name, InterestCode: strings.ToUpper(j.Code), Description: j.Description}
		for k, v := range j.Values {
			if v < 0 {
				return nil, errors.NewCatalogMalformedError(fmt.Errorf("career %q has negative %s", name, AxisNames[k]))
			}
			c.Values[k] = v
		}
		snap.Careers = append(snap.Careers, c)
	}

	for i, m := range f.Majors {
		if strings.TrimSpace(m.Career) == "" || len(m.Majors) == 0 {
			return nil, errors.NewCatalogMalformedError(fmt.Errorf("major row %d incomplete", i))
		}
	}
	for i, s := range f.Subjects {
		if strings.TrimSpace(s.Major) == "" {
			return nil, errors.NewCatalogMalformedError(fmt.Errorf("subject row %d has no major", i))
		}
	}
	return snap, nil
}
