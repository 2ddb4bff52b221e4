package rankcareers

import (
	"fmt"
	"time"

	"roadmap-workers/internal/common/config"
	"roadmap-workers/internal/guidance"
)

type Config struct {
	Enabled       bool          `mapstructure:"enabled"`
	MaxJobsActive int           `mapstructure:"max_jobs_active"`
	Timeout       time.Duration `mapstructure:"timeout"`
	Scoring       string        `mapstructure:"scoring"`
	TopN          int           `mapstructure:"top_n"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       30 * time.Second,
		Scoring:       string(guidance.ScoringBonus),
		TopN:          3,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	if _, err := guidance.ParseScoring(c.Scoring); err != nil {
		return fmt.Errorf("scoring must be distance or bonus, got %q", c.Scoring)
	}
	if c.TopN < 0 {
		return fmt.Errorf("top_n must not be negative")
	}
	return nil
}

func createConfigFromAppConfig(appConfig *config.Config, customConfig *Config) *Config {
	if customConfig != nil {
		return customConfig
	}

	cfg := DefaultConfig()
	if appConfig != nil {
		if appConfig.Guidance.Scoring != "" {
			cfg.Scoring = appConfig.Guidance.Scoring
		}
		if appConfig.Guidance.TopN > 0 {
			cfg.TopN = appConfig.Guidance.TopN
		}
		if workerCfg, exists := appConfig.Workers[TaskType]; exists {
			cfg.Enabled = workerCfg.Enabled
			if workerCfg.MaxJobsActive > 0 {
				cfg.MaxJobsActive = workerCfg.MaxJobsActive
			}
			if workerCfg.Timeout > 0 {
				cfg.Timeout = config.GetDuration(workerCfg.Timeout)
			}
		}
	}
	return cfg
}
