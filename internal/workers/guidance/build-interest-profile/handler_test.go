package buildinterestprofile

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadmap-workers/internal/common/config"
	"roadmap-workers/internal/common/errors"
	"roadmap-workers/internal/common/logger"
	"roadmap-workers/internal/guidance"
)

// ==========================
// Test Helpers
// ==========================

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)

	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               TaskType,
		ProcessInstanceKey: key * 10,
		BpmnProcessId:      "career-roadmap",
		ElementId:          "Activity_BuildInterestProfile",
		CustomHeaders:      "{}",
		Worker:             "test-worker",
		Retries:            3,
		Variables:          string(variablesJSON),
	}}
}

func createTestHandler(t *testing.T) *Handler {
	t.Helper()
	h, err := NewHandler(HandlerOptions{
		CustomConfig: DefaultConfig(),
		Logger:       logger.NewTestLogger(t),
	})
	require.NoError(t, err)
	return h
}

func answers(checked map[string]int, unchecked map[string]int) []interface{} {
	var out []interface{}
	for cat, n := range checked {
		for i := 0; i < n; i++ {
			out = append(out, map[string]interface{}{"category": cat, "checked": true})
		}
	}
	for cat, n := range unchecked {
		for i := 0; i < n; i++ {
			out = append(out, map[string]interface{}{"category": cat, "checked": false})
		}
	}
	return out
}

// ==========================
// Handler Creation Tests
// ==========================

func TestHandler_NewHandler(t *testing.T) {
	tests := []struct {
		name    string
		opts    HandlerOptions
		wantErr string
	}{
		{
			name: "defaults",
			opts: HandlerOptions{Logger: logger.NewNoOpLogger()},
		},
		{
			name: "from app config",
			opts: HandlerOptions{AppConfig: &config.Config{Workers: map[string]config.WorkerConfig{
				TaskType: {Enabled: true, MaxJobsActive: 2, Timeout: 1500},
			}}},
		},
		{
			name:    "invalid timeout",
			opts:    HandlerOptions{CustomConfig: &Config{Enabled: true, MaxJobsActive: 1, Timeout: -time.Second}},
			wantErr: "timeout must be positive",
		},
		{
			name:    "invalid max jobs active",
			opts:    HandlerOptions{CustomConfig: &Config{Enabled: true, Timeout: time.Second}},
			wantErr: "max_jobs_active must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := NewHandler(tt.opts)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.Nil(t, h)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, TaskType, h.GetTaskType())
		})
	}
}

func TestCreateConfigFromAppConfig(t *testing.T) {
	cfg := createConfigFromAppConfig(&config.Config{Workers: map[string]config.WorkerConfig{
		TaskType: {Enabled: false, MaxJobsActive: 7, Timeout: 2500},
	}}, nil)

	assert.False(t, cfg.Enabled)
	assert.Equal(t, 7, cfg.MaxJobsActive)
	assert.Equal(t, 2500*time.Millisecond, cfg.Timeout)
}

// ==========================
// Input Parsing Tests
// ==========================

func TestHandler_ParseInput(t *testing.T) {
	h := createTestHandler(t)

	tests := []struct {
		name      string
		variables map[string]interface{}
		wantErr   bool
	}{
		{
			name:      "answers",
			variables: map[string]interface{}{"answers": answers(map[string]int{"I": 2}, nil)},
		},
		{
			name: "ratings",
			variables: map[string]interface{}{
				"mode":    "ratings",
				"ratings": map[string]interface{}{"R": 1, "I": 5, "A": 2, "S": 3, "E": 1, "C": 4},
			},
		},
		{
			name:      "neither answers nor ratings",
			variables: map[string]interface{}{"mode": "checks"},
			wantErr:   true,
		},
		{
			name:      "rating out of range",
			variables: map[string]interface{}{"ratings": map[string]interface{}{"R": 6}},
			wantErr:   true,
		},
		{
			name:      "unknown mode",
			variables: map[string]interface{}{"mode": "sliders", "answers": []interface{}{}},
			wantErr:   true,
		},
		{
			name: "answer without category",
			variables: map[string]interface{}{
				"answers": []interface{}{map[string]interface{}{"checked": true}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, err := h.parseInput(createMockJob(1, tt.variables))
			if tt.wantErr {
				require.Error(t, err)
				code, ok := errors.CodeOf(err)
				require.True(t, ok)
				assert.Equal(t, errors.ErrCodeInvalidInput, code)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, input)
		})
	}
}

// ==========================
// Execute Tests
// ==========================

func TestHandler_Execute_Checks(t *testing.T) {
	h := createTestHandler(t)
	job := createMockJob(2, map[string]interface{}{
		"answers": answers(map[string]int{"I": 3, "C": 2, "R": 1}, map[string]int{"A": 3, "S": 3, "E": 3}),
	})

	input, err := h.parseInput(job)
	require.NoError(t, err)

	out, err := h.Execute(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, "I", out.Dominant)
	assert.Equal(t, "C", out.Secondary)
	assert.Equal(t, "IC", out.InterestCode)
	assert.Equal(t, 3, out.Scores["I"])
	assert.Equal(t, 0, out.Scores["A"])
	assert.Len(t, out.Scores, 6)
	assert.False(t, out.Tie)
	assert.Equal(t, string(guidance.SurveyChecks), out.Mode)
}

func TestHandler_Execute_RatingsInferredWithoutMode(t *testing.T) {
	h := createTestHandler(t)

	out, err := h.Execute(context.Background(), &Input{
		Ratings: map[string]int{"R": 4, "I": 2, "A": 4, "S": 1, "E": 3, "C": 1},
	})
	require.NoError(t, err)

	assert.Equal(t, string(guidance.SurveyRatings), out.Mode)
	assert.Equal(t, "R", out.Dominant)
	assert.Equal(t, "A", out.Secondary)
	assert.Equal(t, []string{"R", "A"}, out.Leaders)
	assert.True(t, out.Tie)
}

func TestHandler_Execute_AllZeroIsTie(t *testing.T) {
	h := createTestHandler(t)

	out, err := h.Execute(context.Background(), &Input{
		Answers: []guidance.Answer{{Category: "S", Checked: false}},
	})
	require.NoError(t, err)

	assert.Equal(t, "R", out.Dominant)
	assert.Equal(t, "I", out.Secondary)
	assert.Len(t, out.Leaders, 6)
}

func TestHandler_Execute_Errors(t *testing.T) {
	h := createTestHandler(t)

	tests := []struct {
		name  string
		input *Input
		code  errors.ErrorCode
	}{
		{
			name:  "unknown category",
			input: &Input{Answers: []guidance.Answer{{Category: "X", Checked: true}}},
			code:  errors.ErrCodeProfileValidationFailed,
		},
		{
			name:  "missing rating",
			input: &Input{Mode: "ratings", Ratings: map[string]int{"R": 1}},
			code:  errors.ErrCodeProfileValidationFailed,
		},
		{
			name:  "unsupported mode",
			input: &Input{Mode: "sliders"},
			code:  errors.ErrCodeUnsupportedMode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.Execute(context.Background(), tt.input)
			require.Error(t, err)
			code, ok := errors.CodeOf(err)
			require.True(t, ok)
			assert.Equal(t, tt.code, code)
		})
	}
}
