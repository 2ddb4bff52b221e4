package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roadmap-workers/internal/common/config"
	"roadmap-workers/internal/common/logger"
)

func TestNewFromConfig(t *testing.T) {
	log := logger.NewTestLogger(t)

	srv := newSheetServer(t, map[string]string{"1": questionsCSV, "2": jobsCSV, "3": majorsCSV, "4": subjectsCSV})
	cfg := sheetsConfig(srv.URL)
	cfg.Columns = testColumns()
	cfg.CacheTTL = 1000
	cfg.FetchTimeout = 2000
	cfg.RateLimit = 20

	store, err := NewFromConfig(cfg, nil, nil, log)
	require.NoError(t, err)
	assert.Equal(t, time.Second, store.opts.TTL)
	assert.Equal(t, 2*time.Second, store.opts.FetchTimeout)

	snap, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sheets", snap.Source)

	embedded, err := NewFromConfig(config.CatalogConfig{Source: config.SourceEmbedded}, nil, nil, log)
	require.NoError(t, err)
	assert.Nil(t, embedded.primary)

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	pg, err := NewFromConfig(config.CatalogConfig{Source: config.SourcePostgres, TablePrefix: "catalog_"}, db, nil, log)
	require.NoError(t, err)
	assert.Equal(t, "postgres", pg.primary.Name())
}

func TestNewFromConfig_Invalid(t *testing.T) {
	log := logger.NewNoOpLogger()

	_, err := NewFromConfig(config.CatalogConfig{Source: config.SourcePostgres}, nil, nil, log)
	assert.Error(t, err)

	_, err = NewFromConfig(config.CatalogConfig{Source: config.SourceEmbedded, RedisCache: true}, nil, nil, log)
	assert.Error(t, err)

	_, err = NewFromConfig(config.CatalogConfig{Source: "excel"}, nil, nil, log)
	assert.Error(t, err)
}
