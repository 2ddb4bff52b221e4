package catalog

import (
	"database/sql"
	"fmt"

	"github.com/redis/go-redis/v9"

	"roadmap-workers/internal/common/config"
	commonhttp "roadmap-workers/internal/common/http"
	"roadmap-workers/internal/common/logger"
)

// NewFromConfig wires the configured primary source and optional shared
// cache. db is only needed for the postgres source, rdb only when the redis
// cache is enabled.
func NewFromConfig(cfg config.CatalogConfig, db *sql.DB, rdb *redis.Client, log logger.Logger) (*Store, error) {
	var primary Source
	switch cfg.Source {
	case config.SourceSheets:
		client := commonhttp.NewRateLimitedClient(config.GetDuration(cfg.FetchTimeout), cfg.RateLimit)
		primary = NewSheetsSource(cfg, client)
	case config.SourcePostgres:
		if db == nil {
			return nil, fmt.Errorf("catalog source postgres needs a database connection")
		}
		primary = NewPostgresSource(db, cfg.TablePrefix, cfg.OrderColumn)
	case config.SourceEmbedded:
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.Source)
	}

	opts := Options{
		Columns:      cfg.Columns,
		TTL:          config.GetDuration(cfg.CacheTTL),
		FetchTimeout: config.GetDuration(cfg.FetchTimeout),
	}
	if cfg.RedisCache {
		if rdb == nil {
			return nil, fmt.Errorf("catalog redis cache enabled without a redis client")
		}
		opts.Cache = NewRedisCache(rdb, opts.TTL)
	}

	return NewStore(primary, opts, log), nil
}
