package guidance

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadmap-workers/internal/catalog"
	apperrors "roadmap-workers/internal/common/errors"
)

func vectorSum(v catalog.ValueVector) float64 {
	var s float64
	for _, x := range v {
		s += x
	}
	return s
}

func TestNormalize_Auto(t *testing.T) {
	tests := []struct {
		name string
		raw  [5]int
		want catalog.ValueVector
	}{
		{name: "doubles down to 100", raw: [5]int{50, 50, 20, 30, 50}, want: catalog.ValueVector{25, 25, 10, 15, 25}},
		{name: "already 100", raw: [5]int{20, 20, 20, 20, 20}, want: catalog.ValueVector{20, 20, 20, 20, 20}},
		{name: "single axis", raw: [5]int{0, 0, 7, 0, 0}, want: catalog.ValueVector{0, 0, 100, 0, 0}},
		{name: "all zero stays zero", raw: [5]int{}, want: catalog.ValueVector{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Normalize(tt.raw, WeightAuto)
			require.NoError(t, err)
			assert.True(t, res.Valid)
			assert.NoError(t, res.Err())
			assert.Empty(t, res.Message())
			for i := range tt.want {
				assert.InDelta(t, tt.want[i], res.Vector[i], 1e-9)
			}
		})
	}
}

func TestNormalize_AutoSumsTo100(t *testing.T) {
	inputs := [][5]int{
		{1, 1, 1, 0, 0},
		{3, 7, 11, 13, 17},
		{100, 100, 100, 100, 100},
		{99, 1, 0, 0, 0},
		{33, 33, 33, 0, 0},
	}
	for _, raw := range inputs {
		res, err := Normalize(raw, WeightAuto)
		require.NoError(t, err)
		assert.LessOrEqual(t, math.Abs(vectorSum(res.Vector)-100), 1e-6, "raw %v", raw)
	}
}

func TestNormalize_Exact(t *testing.T) {
	res, err := Normalize([5]int{30, 30, 30, 9, 1}, WeightExact)
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Equal(t, catalog.ValueVector{30, 30, 30, 9, 1}, res.Vector)
	assert.Equal(t, 0, res.Delta)

	res, err = Normalize([5]int{30, 30, 30, 9, 0}, WeightExact)
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, 99, res.Sum)
	assert.Equal(t, 1, res.Delta)
	assert.Contains(t, res.Message(), "add 1 more")

	code, ok := apperrors.CodeOf(res.Err())
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeWeightsValidationFailed, code)

	res, err = Normalize([5]int{50, 50, 20, 0, 0}, WeightExact)
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, -20, res.Delta)
	assert.Contains(t, res.Message(), "remove 20 points")
}

func TestNormalize_RejectsOutOfRange(t *testing.T) {
	for _, raw := range [][5]int{{-1, 0, 0, 0, 0}, {0, 0, 0, 0, 101}} {
		_, err := Normalize(raw, WeightAuto)
		require.Error(t, err)
		code, _ := apperrors.CodeOf(err)
		assert.Equal(t, apperrors.ErrCodeInvalidInput, code)
	}
}

func TestNormalize_UnknownMode(t *testing.T) {
	_, err := Normalize([5]int{20, 20, 20, 20, 20}, WeightMode("HALF"))
	code, _ := apperrors.CodeOf(err)
	assert.Equal(t, apperrors.ErrCodeUnsupportedMode, code)
}

func TestParseWeightMode(t *testing.T) {
	m, err := ParseWeightMode("exact")
	require.NoError(t, err)
	assert.Equal(t, WeightExact, m)

	_, err = ParseWeightMode("")
	assert.Error(t, err)
}
