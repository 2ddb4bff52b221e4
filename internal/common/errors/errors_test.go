package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToBPMNError(t *testing.T) {
	tests := []struct {
		name          string
		err           *StandardError
		wantCode      string
		wantRetries   int
		wantRetryable bool
	}{
		{
			name:          "catalog unavailable is retried",
			err:           NewCatalogUnavailableError(fmt.Errorf("embedded catalog: %w", stderrors.New("empty"))),
			wantCode:      "CATALOG_UNAVAILABLE",
			wantRetries:   3,
			wantRetryable: true,
		},
		{
			name:        "malformed catalog maps to unavailable without retries",
			err:         NewCatalogMalformedError(stderrors.New("yaml: line 3")),
			wantCode:    "CATALOG_UNAVAILABLE",
			wantRetries: 0,
		},
		{
			name:        "profile validation surfaces as invalid input",
			err:         NewProfileValidationFailedError("unknown category X"),
			wantCode:    "INVALID_INPUT",
			wantRetries: 0,
		},
		{
			name:        "weights validation keeps its own code",
			err:         NewWeightsValidationFailedError(99, 1),
			wantCode:    "WEIGHTS_VALIDATION_FAILED",
			wantRetries: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpmn := ConvertToBPMNError(tt.err)
			assert.Equal(t, tt.wantCode, bpmn.Code)
			assert.Equal(t, tt.wantRetries, bpmn.Retries)
			assert.Equal(t, tt.wantRetryable, bpmn.Retryable)
			assert.Equal(t, string(tt.err.Code), bpmn.ErrorVariables["originalErrorCode"])
		})
	}
}

func TestWeightsValidationMetadataReachesVariables(t *testing.T) {
	vars := ConvertToBPMNError(NewWeightsValidationFailedError(120, -20)).ToErrorVariables()

	assert.Equal(t, "WEIGHTS_VALIDATION_FAILED", vars["errorCode"])
	assert.Equal(t, -20, vars["delta"])
	assert.Equal(t, 120, vars["sum"])
	assert.Contains(t, vars["errorDetails"], "delta: -20")
}

func TestNormalize(t *testing.T) {
	plain := stderrors.New("socket closed")
	norm := Normalize(plain)
	assert.Equal(t, ErrCodeInternal, norm.Code)
	assert.ErrorIs(t, norm, plain)

	wrapped := fmt.Errorf("rank careers: %w", NewMajorNotFoundError("요리사"))
	assert.Equal(t, ErrCodeMajorNotFound, Normalize(wrapped).Code)
}

func TestCodeOf(t *testing.T) {
	cause := stderrors.New("dial tcp: refused")
	err := fmt.Errorf("load: %w", NewDataUnavailableError("sheets", cause))

	code, ok := CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, ErrCodeDataUnavailable, code)
	assert.ErrorIs(t, err, cause)

	_, ok = CodeOf(cause)
	assert.False(t, ok)
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "NO_DATA", GetErrorCategory(ErrCodeDataUnavailable))
	assert.Equal(t, "NO_DATA", GetErrorCategory(ErrCodeSchemaMismatch))
	assert.Equal(t, "NO_DATA", GetErrorCategory(ErrCodeCatalogMalformed))
	assert.Equal(t, "NO_MATCH", GetErrorCategory(ErrCodeMajorNotFound))
	assert.Equal(t, "NO_MATCH", GetErrorCategory(ErrCodeSubjectNotFound))
	assert.Equal(t, "FIX_INPUT", GetErrorCategory(ErrCodeWeightsValidationFailed))
	assert.Equal(t, "FIX_INPUT", GetErrorCategory(ErrCodeUnsupportedMode))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
}

func TestSchemaMismatchMetadata(t *testing.T) {
	err := NewSchemaMismatchError("Subjects", "학과(전공)", "학과")
	assert.False(t, err.Retryable)
	assert.Equal(t, "학과", err.Metadata["substitute"])
	assert.False(t, IsRetryableErrorCode(err.Code))
}

func TestIsRetryableErrorCode(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want bool
	}{
		{ErrCodeCatalogUnavailable, true},
		{ErrCodeDataUnavailable, true},
		{ErrCodeInternal, true},
		{ErrCodeMajorNotFound, false},
		{ErrCodeWeightsValidationFailed, false},
		{ErrCodeInvalidInput, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryableErrorCode(tt.code))
		})
	}
}

func TestWithMetadataReachesVariables(t *testing.T) {
	err := NewSubjectNotFoundError("없는학과").WithMetadata("catalogSource", "embedded")
	require.NotNil(t, err.Metadata)

	vars := ConvertToBPMNError(err).ToErrorVariables()
	assert.Equal(t, "embedded", vars["catalogSource"])
	assert.Contains(t, vars["errorDetails"], "major: 없는학과")
}
