// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Catalog errors. DATA_UNAVAILABLE and SCHEMA_MISMATCH are recovered locally
	// and normally only show up in logs and snapshot warnings.
	ErrCodeDataUnavailable    ErrorCode = "DATA_UNAVAILABLE"
	ErrCodeSchemaMismatch     ErrorCode = "SCHEMA_MISMATCH"
	ErrCodeCatalogMalformed   ErrorCode = "CATALOG_MALFORMED"
	ErrCodeCatalogUnavailable ErrorCode = "CATALOG_UNAVAILABLE"

	// Input errors.
	ErrCodeInvalidInput            ErrorCode = "INVALID_INPUT"
	ErrCodeWeightsValidationFailed ErrorCode = "WEIGHTS_VALIDATION_FAILED"
	ErrCodeProfileValidationFailed ErrorCode = "PROFILE_VALIDATION_FAILED"
	ErrCodeUnsupportedMode         ErrorCode = "UNSUPPORTED_MODE"

	// Lookup outcomes.
	ErrCodeMajorNotFound   ErrorCode = "MAJOR_NOT_FOUND"
	ErrCodeSubjectNotFound ErrorCode = "SUBJECT_NOT_FOUND"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause, if any.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata returns the error with an extra metadata entry.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = map[string]interface{}{}
	}
	e.Metadata[key] = value
	return e
}

// CodeOf returns the ErrorCode of the first StandardError in err's chain.
func CodeOf(err error) (ErrorCode, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Code, true
	}
	return "", false
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewDataUnavailableError reports a failed primary catalog source.
func NewDataUnavailableError(source string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDataUnavailable,
		Message:   "Primary catalog source unavailable",
		Details:   fmt.Sprintf("source: %s, error: %v", source, err),
		Retryable: true,
		Metadata:  map[string]interface{}{"source": source},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewSchemaMismatchError reports a missing column that was substituted.
func NewSchemaMismatchError(table, column, substitute string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSchemaMismatch,
		Message:   "Expected column absent, substituted",
		Details:   fmt.Sprintf("table: %s, column: %s, substitute: %s", table, column, substitute),
		Retryable: false,
		Metadata: map[string]interface{}{
			"table":      table,
			"column":     column,
			"substitute": substitute,
		},
		Timestamp: time.Now().UTC(),
	}
}

// NewCatalogMalformedError is fatal: the embedded fallback dataset could not be used.
func NewCatalogMalformedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCatalogMalformed,
		Message:   "Embedded catalog is missing or malformed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewCatalogUnavailableError wraps any catalog failure surfaced to a worker.
func NewCatalogUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCatalogUnavailable,
		Message:   "No catalog data configured",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewInvalidInputError reports job variables that failed schema validation.
func NewInvalidInputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidInput,
		Message:   "Invalid job input",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewWeightsValidationFailedError carries the signed point delta (100 - sum).
func NewWeightsValidationFailedError(sum, delta int) *StandardError {
	return &StandardError{
		Code:      ErrCodeWeightsValidationFailed,
		Message:   "Value weights must sum to 100",
		Details:   fmt.Sprintf("sum: %d, delta: %+d", sum, delta),
		Retryable: false,
		Metadata:  map[string]interface{}{"sum": sum, "delta": delta},
		Timestamp: time.Now().UTC(),
	}
}

// NewProfileValidationFailedError reports survey answers that cannot form a profile.
func NewProfileValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeProfileValidationFailed,
		Message:   "Survey answers are invalid",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnsupportedModeError reports an unknown weighting, scoring or survey mode.
func NewUnsupportedModeError(kind, mode string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnsupportedMode,
		Message:   fmt.Sprintf("Unsupported %s mode", kind),
		Details:   fmt.Sprintf("mode: %s", mode),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMajorNotFoundError reports a career without major data.
func NewMajorNotFoundError(career string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMajorNotFound,
		Message:   "No major data for career",
		Details:   fmt.Sprintf("career: %s", career),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSubjectNotFoundError reports a major without listed subjects.
func NewSubjectNotFoundError(major string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSubjectNotFound,
		Message:   "Major has no listed subjects",
		Details:   fmt.Sprintf("major: %s", major),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeDataUnavailable:         "DATA_UNAVAILABLE",
	ErrCodeSchemaMismatch:          "SCHEMA_MISMATCH",
	ErrCodeCatalogMalformed:        "CATALOG_UNAVAILABLE",
	ErrCodeCatalogUnavailable:      "CATALOG_UNAVAILABLE",
	ErrCodeInvalidInput:            "INVALID_INPUT",
	ErrCodeWeightsValidationFailed: "WEIGHTS_VALIDATION_FAILED",
	ErrCodeProfileValidationFailed: "INVALID_INPUT",
	ErrCodeUnsupportedMode:         "INVALID_INPUT",
	ErrCodeMajorNotFound:           "MAJOR_NOT_FOUND",
	ErrCodeSubjectNotFound:         "SUBJECT_NOT_FOUND",
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeCatalogUnavailable, ErrCodeDataUnavailable:
		return 3
	case ErrCodeInternal:
		return 1
	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory groups codes the way callers present them: missing configuration,
// a query without a match, or input the user has to fix.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "CATALOG") || strings.Contains(codeStr, "DATA") || strings.Contains(codeStr, "SCHEMA"):
		return "NO_DATA"
	case strings.Contains(codeStr, "NOT_FOUND"):
		return "NO_MATCH"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "MODE"):
		return "FIX_INPUT"
	default:
		return "OTHER"
	}
}
