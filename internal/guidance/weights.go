package guidance

import (
	"fmt"
	"strings"

	"roadmap-workers/internal/catalog"
	"roadmap-workers/internal/common/errors"
)

// WeightMode selects how raw value weights become a percentage vector.
type WeightMode string

const (
	// WeightExact requires the raw weights to already sum to 100.
	WeightExact WeightMode = "EXACT"
	// WeightAuto scales any combination to sum to 100.
	WeightAuto WeightMode = "AUTO"
)

const (
	WeightTotal = 100
	MaxWeight   = 100
)

// ParseWeightMode is case-insensitive.
func ParseWeightMode(s string) (WeightMode, error) {
	switch m := WeightMode(strings.ToUpper(strings.TrimSpace(s))); m {
	case WeightExact, WeightAuto:
		return m, nil
	default:
		return "", errors.NewUnsupportedModeError("weight", s)
	}
}

// ValueWeights are the raw slider values, one per axis.
type ValueWeights struct {
	Raw [catalog.AxisCount]int `json:"raw"`
}

// NormalizedResult is the outcome of Normalize. Delta is 100 - Sum, so a
// positive delta means points are missing.
type NormalizedResult struct {
	Valid  bool                `json:"valid"`
	Vector catalog.ValueVector `json:"vector"`
	Sum    int                 `json:"sum"`
	Delta  int                 `json:"delta"`
	Mode   WeightMode          `json:"mode"`
}

// Normalize validates or scales raw weights. Out of range values return an
// error; an EXACT sum other than 100 is a result with Valid false.
func Normalize(raw [catalog.AxisCount]int, mode WeightMode) (NormalizedResult, error) {
	sum := 0
	for i, v := range raw {
		if v < 0 || v > MaxWeight {
			return NormalizedResult{}, errors.NewInvalidInputError(
				fmt.Sprintf("weight %s must be between 0 and %d, got %d", catalog.AxisNames[i], MaxWeight, v))
		}
		sum += v
	}

	res := NormalizedResult{Sum: sum, Delta: WeightTotal - sum, Mode: mode}

	switch mode {
	case WeightExact:
		if sum != WeightTotal {
			return res, nil
		}
		for i, v := range raw {
			res.Vector[i] = float64(v)
		}
	case WeightAuto:
		divisor := sum
		if divisor == 0 {
			divisor = 1
		}
		for i, v := range raw {
			res.Vector[i] = float64(v) * WeightTotal / float64(divisor)
		}
	default:
		return NormalizedResult{}, errors.NewUnsupportedModeError("weight", string(mode))
	}

	res.Valid = true
	return res, nil
}

// Err returns the validation failure as an error, or nil when valid.
func (r NormalizedResult) Err() error {
	if r.Valid {
		return nil
	}
	return errors.NewWeightsValidationFailedError(r.Sum, r.Delta)
}

// Message is the user facing hint for an EXACT mode failure.
func (r NormalizedResult) Message() string {
	switch {
	case r.Valid:
		return ""
	case r.Delta > 0:
		return fmt.Sprintf("total is %d: add %d more points to reach %d", r.Sum, r.Delta, WeightTotal)
	default:
		return fmt.Sprintf("total is %d: remove %d points to reach %d", r.Sum, -r.Delta, WeightTotal)
	}
}
