package guidance

import (
	"fmt"

	"github.com/google/uuid"
)

// Step is the position of a session in the guidance flow.
type Step string

const (
	StepSurvey  Step = "survey"
	StepResults Step = "results"
	StepRoadmap Step = "roadmap"
)

// Session carries one user's choices between calls. Transitions return a new
// value and leave the receiver untouched; the caller owns persistence.
// Under the workers, the process instance variables hold this state instead.
type Session struct {
	ID             string            `json:"id"`
	Step           Step              `json:"step"`
	Profile        *InterestProfile  `json:"profile,omitempty"`
	Weights        *ValueWeights     `json:"weights,omitempty"`
	Normalized     *NormalizedResult `json:"normalized,omitempty"`
	SelectedCareer string            `json:"selectedCareer,omitempty"`
	SelectedMajor  string            `json:"selectedMajor,omitempty"`
}

func NewSession() Session {
	return Session{ID: uuid.NewString(), Step: StepSurvey}
}

// SubmitSurvey replaces any earlier profile and moves to results.
func (s Session) SubmitSurvey(p *InterestProfile) Session {
	next := s
	next.Profile = p
	next.Step = StepResults
	return next
}

// SubmitWeights stores raw and normalized weights. An invalid result is kept
// so the caller can show its message, but the step does not change.
func (s Session) SubmitWeights(w ValueWeights, n NormalizedResult) Session {
	next := s
	next.Weights = &w
	next.Normalized = &n
	return next
}

// SelectCareer moves to the roadmap and clears any major picked for a previous career.
func (s Session) SelectCareer(name string) (Session, error) {
	if s.Profile == nil {
		return s, fmt.Errorf("select career %q: survey not submitted", name)
	}
	next := s
	next.SelectedCareer = name
	next.SelectedMajor = ""
	next.Step = StepRoadmap
	return next, nil
}

func (s Session) SelectMajor(name string) (Session, error) {
	if s.SelectedCareer == "" {
		return s, fmt.Errorf("select major %q: no career selected", name)
	}
	next := s
	next.SelectedMajor = name
	return next, nil
}

// Restart keeps the session ID and drops everything else.
func (s Session) Restart() Session {
	return Session{ID: s.ID, Step: StepSurvey}
}
