package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadmap-workers/internal/catalog"
	"roadmap-workers/internal/common/config"
	"roadmap-workers/internal/common/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		Guidance: config.GuidanceConfig{WeightMode: "AUTO", Scoring: "bonus", TopN: 3},
		Workers: map[string]config.WorkerConfig{
			"rank-careers": {Enabled: true, MaxJobsActive: 2, Timeout: 1000},
		},
	}
}

func TestBuildRegistrations(t *testing.T) {
	store := catalog.NewStore(nil, catalog.Options{}, logger.NewTestLogger(t))

	regs, err := buildRegistrations(testConfig(), store, nil, logger.NewTestLogger(t))
	require.NoError(t, err)

	var taskTypes []string
	for _, r := range regs {
		taskTypes = append(taskTypes, r.taskType)
		assert.NotNil(t, r.handler)
	}
	assert.Equal(t, []string{
		"list-survey-questions",
		"build-interest-profile",
		"normalize-value-weights",
		"rank-careers",
		"resolve-majors",
		"resolve-subjects",
	}, taskTypes)

	snap, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, config.SourceEmbedded, snap.Source)
}

func TestBuildRegistrations_InvalidGuidanceConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Guidance.Scoring = "cosine"

	_, err := buildRegistrations(cfg, catalog.NewStore(nil, catalog.Options{}, logger.NewNoOpLogger()), nil, logger.NewNoOpLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rank-careers")
}

func TestCheckRegistry(t *testing.T) {
	regs := []registration{{taskType: "rank-careers"}, {taskType: "rank-careers-v2"}}

	missing := checkRegistry(filepath.Join("..", "..", "configs", "activity-registry.json"), regs, logger.NewTestLogger(t))
	assert.Equal(t, []string{"rank-careers-v2"}, missing)

	assert.Nil(t, checkRegistry(filepath.Join(t.TempDir(), "none.json"), regs, logger.NewTestLogger(t)))
}
