package guidance

import (
	"math"
	"sort"
	"strings"

	"roadmap-workers/internal/catalog"
	"roadmap-workers/internal/common/errors"
)

// Scoring selects the ranking scalar.
type Scoring string

const (
	// ScoringDistance ranks by -distance only.
	ScoringDistance Scoring = "distance"
	// ScoringBonus ranks by 100 - distance + bonus when a profile is supplied.
	ScoringBonus Scoring = "bonus"
)

const (
	DominantBonus  = 5
	SecondaryBonus = 3
	baseScore      = 100
)

func ParseScoring(s string) (Scoring, error) {
	switch m := Scoring(strings.ToLower(strings.TrimSpace(s))); m {
	case ScoringDistance, ScoringBonus:
		return m, nil
	default:
		return "", errors.NewUnsupportedModeError("scoring", s)
	}
}

// RankOptions configures Rank. A Limit <= 0 returns every career.
type RankOptions struct {
	Scoring Scoring
	Limit   int
}

type MatchResult struct {
	Career   catalog.CareerRecord `json:"career"`
	Distance float64              `json:"distance"`
	Bonus    int                  `json:"bonus"`
	Score    float64              `json:"score"`
	Rank     int                  `json:"rank"`
}

// Distance is the Euclidean distance over the five value axes.
func Distance(a, b catalog.ValueVector) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Bonus adds DominantBonus and SecondaryBonus for profile letters found in code.
func Bonus(code string, profile *InterestProfile) int {
	if profile == nil {
		return 0
	}
	code = strings.ToUpper(code)
	bonus := 0
	if profile.Dominant != "" && strings.Contains(code, string(profile.Dominant)) {
		bonus += DominantBonus
	}
	if profile.Secondary != "" && strings.Contains(code, string(profile.Secondary)) {
		bonus += SecondaryBonus
	}
	return bonus
}

// Rank scores every career against vector and returns them best first.
// Equal scores keep catalog order.
func Rank(careers []catalog.CareerRecord, vector catalog.ValueVector, profile *InterestProfile, opts RankOptions) []MatchResult {
	useBonus := profile != nil && opts.Scoring == ScoringBonus

	results := make([]MatchResult, 0, len(careers))
	for _, c := range careers {
		r := MatchResult{Career: c, Distance: Distance(vector, c.Values)}
		if useBonus {
			r.Bonus = Bonus(c.InterestCode, profile)
			r.Score = baseScore - r.Distance + float64(r.Bonus)
		} else {
			r.Score = -r.Distance
		}
		results = append(results, r)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if opts.Limit > 0 && opts.Limit < len(results) {
		results = results[:opts.Limit]
	}
	for i := range results {
		results[i].Rank = i + 1
	}
	return results
}

// FilterByType returns careers whose interest code starts with letter, in catalog order.
func FilterByType(careers []catalog.CareerRecord, letter Category) []catalog.CareerRecord {
	out := make([]catalog.CareerRecord, 0)
	for _, c := range careers {
		if strings.HasPrefix(strings.ToUpper(c.InterestCode), string(letter)) {
			out = append(out, c)
		}
	}
	return out
}
