package resolvemajors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"roadmap-workers/internal/catalog"
	"roadmap-workers/internal/common/config"
	"roadmap-workers/internal/common/errors"
	"roadmap-workers/internal/common/logger"
	"roadmap-workers/internal/common/metrics"
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
		ElementId:          "Activity_ResolveMajors",
		CustomHeaders:      "{}",
		Worker:             "test-worker",
		Retries:            3,
		Variables:          string(variablesJSON),
	}}
}

func createTestSnapshot() *catalog.Snapshot {
	return &catalog.Snapshot{
		Majors: []catalog.MajorLookup{
			{Career: "데이터 사이언티스트", Majors: []string{"통계학과", "", "데이터사이언스학과", "통계학과"}},
			{Career: "소프트웨어 개발자", Majors: []string{"컴퓨터공학과"}},
			{Career: "데이터 엔지니어", Majors: []string{"컴퓨터공학과", "정보통신공학과"}},
		},
		Source: config.SourceSheets,
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

// ==========================
// Handler Creation Tests
// ==========================

func TestHandler_NewHandler(t *testing.T) {
	_, err := NewHandler(HandlerOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog is required")

	h, err := NewHandler(HandlerOptions{
		AppConfig: &config.Config{Workers: map[string]config.WorkerConfig{
			TaskType: {Enabled: true, MaxJobsActive: 9, Timeout: 500},
		}},
		Catalog: new(MockCatalog),
	})
	require.NoError(t, err)
	assert.Equal(t, 9, h.GetConfig().MaxJobsActive)
}

// ==========================
// Input Parsing Tests
// ==========================

func TestHandler_ParseInput(t *testing.T) {
	h := createTestHandler(t, new(MockCatalog))

	input, err := h.parseInput(createMockJob(1, map[string]interface{}{"careerName": "데이터 사이언티스트"}))
	require.NoError(t, err)
	assert.Equal(t, "데이터 사이언티스트", input.CareerName)

	_, err = h.parseInput(createMockJob(2, map[string]interface{}{"career": "x"}))
	require.Error(t, err)
	code, _ := errors.CodeOf(err)
	assert.Equal(t, errors.ErrCodeInvalidInput, code)

	_, err = h.parseInput(createMockJob(3, map[string]interface{}{"careerName": 42}))
	require.Error(t, err)
}

// ==========================
// Execute Tests
// ==========================

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name       string
		career     string
		wantFound  bool
		wantCareer string
		wantMajors []string
	}{
		{
			name:       "exact career dedupes and drops blanks",
			career:     "데이터 사이언티스트",
			wantFound:  true,
			wantCareer: "데이터 사이언티스트",
			wantMajors: []string{"통계학과", "데이터사이언스학과"},
		},
		{
			name:       "partial name takes first containing row",
			career:     "데이터",
			wantFound:  true,
			wantCareer: "데이터 사이언티스트",
			wantMajors: []string{"통계학과", "데이터사이언스학과"},
		},
		{
			name:       "surrounding whitespace ignored",
			career:     "  소프트웨어 개발자 ",
			wantFound:  true,
			wantCareer: "소프트웨어 개발자",
			wantMajors: []string{"컴퓨터공학과"},
		},
		{
			name:       "unknown career",
			career:     "요리사",
			wantMajors: []string{},
		},
		{
			name:       "empty query",
			career:     "",
			wantMajors: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := new(MockCatalog)
			loader.On("Load", mock.Anything).Return(createTestSnapshot(), nil)
			h := createTestHandler(t, loader)

			out, err := h.Execute(context.Background(), &Input{CareerName: tt.career})
			require.NoError(t, err)

			assert.Equal(t, tt.wantFound, out.Found)
			assert.Equal(t, tt.wantCareer, out.Career)
			assert.Equal(t, tt.wantMajors, out.Majors)
			if tt.wantFound {
				assert.Empty(t, out.ErrorCode)
			} else {
				assert.Equal(t, "MAJOR_NOT_FOUND", out.ErrorCode)
			}
		})
	}
}

func TestHandler_Execute_CountsOutcomes(t *testing.T) {
	loader := new(MockCatalog)
	loader.On("Load", mock.Anything).Return(createTestSnapshot(), nil)
	h := createTestHandler(t, loader)

	found := metrics.LookupOutcomes.WithLabelValues("majors", "FOUND")
	notFound := metrics.LookupOutcomes.WithLabelValues("majors", "NOT_FOUND")
	beforeFound, beforeNotFound := testutil.ToFloat64(found), testutil.ToFloat64(notFound)

	_, err := h.Execute(context.Background(), &Input{CareerName: "데이터 엔지니어"})
	require.NoError(t, err)
	_, err = h.Execute(context.Background(), &Input{CareerName: "우주비행사"})
	require.NoError(t, err)

	assert.Equal(t, beforeFound+1, testutil.ToFloat64(found))
	assert.Equal(t, beforeNotFound+1, testutil.ToFloat64(notFound))
}

func TestHandler_Execute_CatalogUnavailable(t *testing.T) {
	cause := stderrors.New("no primary source and embedded catalog unreadable")
	loader := new(MockCatalog)
	loader.On("Load", mock.Anything).Return(nil, cause)
	h := createTestHandler(t, loader)

	_, err := h.Execute(context.Background(), &Input{CareerName: "데이터 사이언티스트"})
	require.Error(t, err)
	code, _ := errors.CodeOf(err)
	assert.Equal(t, errors.ErrCodeCatalogUnavailable, code)
	assert.ErrorIs(t, err, cause)
}
