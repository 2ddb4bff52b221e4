// Package guidance is the matching core: interest profiles, value weights,
// career ranking and the career → major → subject roadmap.
package guidance

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"roadmap-workers/internal/common/errors"
)

// Category is a RIASEC interest letter.
type Category string

const (
	Realistic     Category = "R"
	Investigative Category = "I"
	Artistic      Category = "A"
	Social        Category = "S"
	Enterprising  Category = "E"
	Conventional  Category = "C"
)

// Categories is the declaration order used for every tie-break.
var Categories = []Category{Realistic, Investigative, Artistic, Social, Enterprising, Conventional}

// SurveyMode says how a profile's scores were collected.
type SurveyMode string

const (
	SurveyChecks  SurveyMode = "checks"
	SurveyRatings SurveyMode = "ratings"
)

const (
	MinRating = 1
	MaxRating = 5
)

// ParseCategory reads the first rune of tag, so "I형" and "investigative" both give I.
func ParseCategory(tag string) (Category, error) {
	tag = strings.TrimSpace(tag)
	r, _ := utf8.DecodeRuneInString(tag)
	if r == utf8.RuneError {
		return "", errors.NewProfileValidationFailedError("empty category tag")
	}
	c := Category(string(unicode.ToUpper(r)))
	if c.index() < 0 {
		return "", errors.NewProfileValidationFailedError(fmt.Sprintf("unknown category %q", tag))
	}
	return c, nil
}

func (c Category) index() int {
	for i, k := range Categories {
		if k == c {
			return i
		}
	}
	return -1
}

// Answer is one survey question with the category it measures.
type Answer struct {
	Question string `json:"question,omitempty"`
	Category string `json:"category"`
	Checked  bool   `json:"checked"`
}

type InterestProfile struct {
	Scores    map[Category]int `json:"scores"`
	Dominant  Category         `json:"dominant"`
	Secondary Category         `json:"secondary"`
	Leaders   []Category       `json:"leaders"`
	Mode      SurveyMode       `json:"mode"`
}

// BuildFromChecks counts one point per checked answer. Unchecked answers
// still have their category validated.
func BuildFromChecks(answers []Answer) (*InterestProfile, error) {
	scores := zeroScores()
	for i, a := range answers {
		c, err := ParseCategory(a.Category)
		if err != nil {
			return nil, fmt.Errorf("answer %d: %w", i, err)
		}
		if a.Checked {
			scores[c]++
		}
	}
	return newProfile(scores, SurveyChecks), nil
}

// BuildFromRatings takes one 1..5 rating per category. All six are required.
func BuildFromRatings(ratings map[Category]int) (*InterestProfile, error) {
	scores := zeroScores()
	for c, v := range ratings {
		if c.index() < 0 {
			return nil, errors.NewProfileValidationFailedError(fmt.Sprintf("unknown category %q", c))
		}
		if v < MinRating || v > MaxRating {
			return nil, errors.NewProfileValidationFailedError(
				fmt.Sprintf("rating for %s must be between %d and %d, got %d", c, MinRating, MaxRating, v))
		}
		scores[c] = v
	}
	for _, c := range Categories {
		if _, ok := ratings[c]; !ok {
			return nil, errors.NewProfileValidationFailedError(fmt.Sprintf("missing rating for %s", c))
		}
	}
	return newProfile(scores, SurveyRatings), nil
}

// NewProfile builds a profile from precomputed scores, for callers that
// carry scores between steps. Missing categories count as zero.
func NewProfile(scores map[Category]int, mode SurveyMode) (*InterestProfile, error) {
	full := zeroScores()
	for c, v := range scores {
		if c.index() < 0 {
			return nil, errors.NewProfileValidationFailedError(fmt.Sprintf("unknown category %q", c))
		}
		if v < 0 {
			return nil, errors.NewProfileValidationFailedError(fmt.Sprintf("negative score for %s", c))
		}
		full[c] = v
	}
	return newProfile(full, mode), nil
}

func zeroScores() map[Category]int {
	scores := make(map[Category]int, len(Categories))
	for _, c := range Categories {
		scores[c] = 0
	}
	return scores
}

func newProfile(scores map[Category]int, mode SurveyMode) *InterestProfile {
	dominant := argmax(scores, "")
	p := &InterestProfile{
		Scores:    scores,
		Dominant:  dominant,
		Secondary: argmax(scores, dominant),
		Mode:      mode,
	}
	for _, c := range Categories {
		if scores[c] == scores[dominant] {
			p.Leaders = append(p.Leaders, c)
		}
	}
	return p
}

// argmax returns the highest scoring category other than skip. Iterating in
// declaration order with a strict comparison makes the earliest category win ties.
func argmax(scores map[Category]int, skip Category) Category {
	var best Category
	for _, c := range Categories {
		if c == skip {
			continue
		}
		if best == "" || scores[c] > scores[best] {
			best = c
		}
	}
	return best
}

// Code is the two-letter interest code, dominant first.
func (p *InterestProfile) Code() string {
	return string(p.Dominant) + string(p.Secondary)
}

// IsTie reports whether more than one category shares the top score.
func (p *InterestProfile) IsTie() bool {
	return len(p.Leaders) > 1
}
