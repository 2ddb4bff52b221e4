package rankcareers

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"roadmap-workers/internal/catalog"
	"roadmap-workers/internal/common/config"
	"roadmap-workers/internal/common/errors"
	"roadmap-workers/internal/common/logger"
)

// ==========================
// Mock Catalog Implementation
// ==========================

type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) Load(ctx context.Context) (*catalog.Snapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Snapshot), args.Error(1)
}

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
		ElementId:          "Activity_RankCareers",
		CustomHeaders:      "{}",
		Worker:             "test-worker",
		Retries:            3,
		Variables:          string(variablesJSON),
	}}
}

func createTestSnapshot() *catalog.Snapshot {
	return &catalog.Snapshot{
		Careers: []catalog.CareerRecord{
			{Name: "경찰관", InterestCode: "SR", Values: catalog.ValueVector{15, 15, 20, 20, 30}},
			{Name: "데이터 사이언티스트", InterestCode: "IR", Values: catalog.ValueVector{25, 25, 10, 15, 25}},
			{Name: "회계사", InterestCode: "CE", Values: catalog.ValueVector{30, 15, 15, 10, 30}},
			{Name: "연구원", InterestCode: "IA", Values: catalog.ValueVector{20, 20, 25, 15, 20}},
		},
		Source:   config.SourceEmbedded,
		LoadedAt: time.Now(),
		Warnings: []catalog.Warning{{Code: "DATA_UNAVAILABLE", Table: "*", Message: "sheets down"}},
	}
}

func createTestHandler(t *testing.T, loader catalog.Loader) *Handler {
	t.Helper()
	h, err := NewHandler(HandlerOptions{
		CustomConfig: DefaultConfig(),
		Catalog:      loader,
		Logger:       logger.NewTestLogger(t),
	})
	require.NoError(t, err)
	return h
}

func intPtr(v int) *int { return &v }

// ==========================
// Handler Creation Tests
// ==========================

func TestHandler_NewHandler(t *testing.T) {
	_, err := NewHandler(HandlerOptions{CustomConfig: DefaultConfig()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog is required")

	cfg := DefaultConfig()
	cfg.Scoring = "fuzzy"
	_, err = NewHandler(HandlerOptions{CustomConfig: cfg, Catalog: new(MockCatalog)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scoring")

	h, err := NewHandler(HandlerOptions{
		AppConfig: &config.Config{Guidance: config.GuidanceConfig{Scoring: "distance", TopN: 5}},
		Catalog:   new(MockCatalog),
	})
	require.NoError(t, err)
	assert.Equal(t, "distance", string(h.scoring))
	assert.Equal(t, 5, h.GetConfig().TopN)
}

// ==========================
// Input Parsing Tests
// ==========================

func TestHandler_ParseInput(t *testing.T) {
	h := createTestHandler(t, new(MockCatalog))

	tests := []struct {
		name      string
		variables map[string]interface{}
		wantErr   bool
	}{
		{name: "vector only", variables: map[string]interface{}{"normalized": []float64{20, 20, 20, 20, 20}}},
		{
			name: "with profile and limit",
			variables: map[string]interface{}{
				"normalized": []float64{25, 25, 10, 15, 25},
				"profile":    map[string]interface{}{"dominant": "I", "secondary": "R"},
				"limit":      1,
				"scoring":    "bonus",
			},
		},
		{name: "missing vector", variables: map[string]interface{}{"limit": 3}, wantErr: true},
		{name: "short vector", variables: map[string]interface{}{"normalized": []float64{50, 50}}, wantErr: true},
		{name: "axis above 100", variables: map[string]interface{}{"normalized": []float64{120, 0, 0, 0, 0}}, wantErr: true},
		{name: "negative limit", variables: map[string]interface{}{"normalized": []float64{20, 20, 20, 20, 20}, "limit": -1}, wantErr: true},
		{name: "unknown scoring", variables: map[string]interface{}{"normalized": []float64{20, 20, 20, 20, 20}, "scoring": "cosine"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, err := h.parseInput(createMockJob(1, tt.variables))
			if tt.wantErr {
				require.Error(t, err)
				code, _ := errors.CodeOf(err)
				assert.Equal(t, errors.ErrCodeInvalidInput, code)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, input)
		})
	}
}

// ==========================
// Execute Tests
// ==========================

func TestHandler_Execute_ExactMatchWithBonus(t *testing.T) {
	loader := new(MockCatalog)
	loader.On("Load", mock.Anything).Return(createTestSnapshot(), nil)
	h := createTestHandler(t, loader)

	out, err := h.Execute(context.Background(), &Input{
		Normalized: catalog.ValueVector{25, 25, 10, 15, 25},
		Profile:    &ProfileInput{Dominant: "I", Secondary: "R"},
	})
	require.NoError(t, err)

	require.Len(t, out.Results, 3)
	top := out.Results[0]
	assert.Equal(t, 1, top.Rank)
	assert.Equal(t, "데이터 사이언티스트", top.Career)
	assert.InDelta(t, 0, top.Distance, 1e-9)
	assert.Equal(t, 8, top.Bonus)
	assert.InDelta(t, 108, top.Score, 1e-9)

	assert.Equal(t, []string{"데이터 사이언티스트", "연구원"}, out.RecommendedByType)
	assert.Equal(t, "bonus", out.Scoring)
	assert.Equal(t, config.SourceEmbedded, out.CatalogSource)
	assert.Equal(t, 1, out.CatalogWarnings)
	loader.AssertExpectations(t)
}

func TestHandler_Execute_ProfileFromScores(t *testing.T) {
	loader := new(MockCatalog)
	loader.On("Load", mock.Anything).Return(createTestSnapshot(), nil)
	h := createTestHandler(t, loader)

	out, err := h.Execute(context.Background(), &Input{
		Normalized: catalog.ValueVector{25, 25, 10, 15, 25},
		Profile: &ProfileInput{
			Scores:   map[string]int{"R": 1, "I": 0, "A": 0, "S": 0, "E": 0, "C": 3},
			Dominant: "I",
		},
		Limit: intPtr(0),
	})
	require.NoError(t, err)

	require.Len(t, out.Results, 4)
	assert.Equal(t, []string{"회계사"}, out.RecommendedByType)
	for _, r := range out.Results {
		if r.Career == "회계사" {
			assert.Equal(t, 5, r.Bonus)
		}
	}
}

func TestHandler_Execute_DistanceScoringIgnoresProfile(t *testing.T) {
	loader := new(MockCatalog)
	loader.On("Load", mock.Anything).Return(createTestSnapshot(), nil)
	h := createTestHandler(t, loader)

	out, err := h.Execute(context.Background(), &Input{
		Normalized: catalog.ValueVector{30, 15, 15, 10, 30},
		Profile:    &ProfileInput{Dominant: "I", Secondary: "R"},
		Scoring:    "distance",
		Limit:      intPtr(2),
	})
	require.NoError(t, err)

	require.Len(t, out.Results, 2)
	assert.Equal(t, "회계사", out.Results[0].Career)
	assert.Equal(t, 0, out.Results[0].Bonus)
	assert.InDelta(t, 0, out.Results[0].Score, 1e-9)
	assert.LessOrEqual(t, out.Results[1].Score, out.Results[0].Score)
}

func TestHandler_Execute_WithoutProfile(t *testing.T) {
	loader := new(MockCatalog)
	loader.On("Load", mock.Anything).Return(createTestSnapshot(), nil)
	h := createTestHandler(t, loader)

	out, err := h.Execute(context.Background(), &Input{Normalized: catalog.ValueVector{15, 15, 20, 20, 30}})
	require.NoError(t, err)

	assert.Equal(t, "경찰관", out.Results[0].Career)
	assert.InDelta(t, 0, out.Results[0].Score, 1e-9)
	assert.Empty(t, out.RecommendedByType)
}

func TestHandler_Execute_EmptyCatalog(t *testing.T) {
	loader := new(MockCatalog)
	loader.On("Load", mock.Anything).Return(&catalog.Snapshot{Source: config.SourceEmbedded}, nil)
	h := createTestHandler(t, loader)

	out, err := h.Execute(context.Background(), &Input{Normalized: catalog.ValueVector{20, 20, 20, 20, 20}})
	require.NoError(t, err)
	assert.Empty(t, out.Results)
	assert.NotNil(t, out.Results)
}

func TestHandler_Execute_CatalogErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode errors.ErrorCode
	}{
		{
			name:     "plain error is wrapped",
			err:      stderrors.New("redis: connection refused"),
			wantCode: errors.ErrCodeCatalogUnavailable,
		},
		{
			name:     "malformed embedded catalog keeps its code",
			err:      errors.NewCatalogMalformedError(stderrors.New("yaml: line 4")),
			wantCode: errors.ErrCodeCatalogMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := new(MockCatalog)
			loader.On("Load", mock.Anything).Return(nil, tt.err)
			h := createTestHandler(t, loader)

			_, err := h.Execute(context.Background(), &Input{Normalized: catalog.ValueVector{20, 20, 20, 20, 20}})
			require.Error(t, err)
			code, ok := errors.CodeOf(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, code)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestHandler_Execute_InvalidProfile(t *testing.T) {
	h := createTestHandler(t, new(MockCatalog))

	_, err := h.Execute(context.Background(), &Input{
		Normalized: catalog.ValueVector{20, 20, 20, 20, 20},
		Profile:    &ProfileInput{Dominant: "Z"},
	})
	require.Error(t, err)
	code, _ := errors.CodeOf(err)
	assert.Equal(t, errors.ErrCodeProfileValidationFailed, code)
}
