// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultSheetID is the spreadsheet the questionnaire was first published with.
const DefaultSheetID = "1ciZxapKzL5-hjDUXzIcOBybhjrfmBy5R8SV-5H5iL6Y"

// DefaultSheetGIDs maps logical table names to sheet gids. Balance has no published
// sheet yet; leaving it empty makes the catalog fall back to interest-only careers.
var DefaultSheetGIDs = map[string]string{
	"Questions": "901188331",
	"Jobs":      "1538922399",
	"Majors":    "1936690584",
	"Subjects":  "2140742626",
	"Balance":   "",
}

func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // environment overlay is optional

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up from the working directory looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

// overrideEmptyConfig fills secrets and ids that are usually injected through the environment.
func overrideEmptyConfig(cfg *Config) {
	if cfg.Catalog.SheetID == "" {
		if val := os.Getenv("CATALOG_SHEET_ID"); val != "" {
			cfg.Catalog.SheetID = val
		}
	}
	if cfg.Database.Postgres.User == "" {
		if val := os.Getenv("DB_USER"); val != "" {
			cfg.Database.Postgres.User = val
		}
	}
	if cfg.Database.Postgres.Password == "" {
		if val := os.Getenv("DB_PASSWORD"); val != "" {
			cfg.Database.Postgres.Password = val
		}
	}
	if cfg.Database.Redis.Password == "" {
		if val := os.Getenv("REDIS_PASSWORD"); val != "" {
			cfg.Database.Redis.Password = val
		}
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "roadmap-workers"
	}
	if cfg.App.HTTPAddress == "" {
		cfg.App.HTTPAddress = ":8080"
	}

	if cfg.Camunda.MaxJobsActive == 0 {
		cfg.Camunda.MaxJobsActive = 10
	}
	if cfg.Camunda.Timeout == 0 {
		cfg.Camunda.Timeout = 30000
	}
	if cfg.Camunda.RequestTimeout == 0 {
		cfg.Camunda.RequestTimeout = 30000
	}

	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 10
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 2
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}

	applyCatalogDefaults(&cfg.Catalog)

	if cfg.Guidance.WeightMode == "" {
		cfg.Guidance.WeightMode = "AUTO"
	}
	cfg.Guidance.WeightMode = strings.ToUpper(cfg.Guidance.WeightMode)
	if cfg.Guidance.Scoring == "" {
		cfg.Guidance.Scoring = "bonus"
	}
	cfg.Guidance.Scoring = strings.ToLower(cfg.Guidance.Scoring)
	if cfg.Guidance.TopN == 0 {
		cfg.Guidance.TopN = 3
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	if cfg.Observability.ServiceName == "" {
		cfg.Observability.ServiceName = cfg.App.Name
	}
	if cfg.Observability.SampleRatio == 0 {
		cfg.Observability.SampleRatio = 0.1
	}

	if cfg.Template.RegistryPath == "" {
		cfg.Template.RegistryPath = "configs/activity-registry.json"
	}

	for key, worker := range cfg.Workers {
		if worker.MaxJobsActive == 0 {
			worker.MaxJobsActive = 5
		}
		if worker.Timeout == 0 {
			worker.Timeout = 30000
		}
		if worker.MaxRetries == 0 {
			worker.MaxRetries = 3
		}
		cfg.Workers[key] = worker
	}
}

func applyCatalogDefaults(c *CatalogConfig) {
	if c.Source == "" {
		c.Source = SourceSheets
	}
	c.Source = strings.ToLower(c.Source)
	if c.SheetID == "" && c.Source == SourceSheets {
		c.SheetID = DefaultSheetID
	}
	if c.SheetBaseURL == "" {
		c.SheetBaseURL = "https://docs.google.com/spreadsheets/d"
	}
	if c.SheetGIDs == nil {
		c.SheetGIDs = map[string]string{}
	}
	for table, gid := range DefaultSheetGIDs {
		// viper lower-cases map keys; normalise back to the logical table names.
		if val, ok := c.SheetGIDs[strings.ToLower(table)]; ok {
			delete(c.SheetGIDs, strings.ToLower(table))
			c.SheetGIDs[table] = val
			continue
		}
		if _, ok := c.SheetGIDs[table]; !ok {
			c.SheetGIDs[table] = gid
		}
	}
	if c.CacheTTL == 0 {
		c.CacheTTL = 60000
	}
	if c.FetchTimeout == 0 {
		c.FetchTimeout = 10000
	}
	if c.RateLimit == 0 {
		c.RateLimit = 5
	}
	if c.TablePrefix == "" {
		c.TablePrefix = "catalog_"
	}
	if c.OrderColumn == "" {
		c.OrderColumn = "position"
	}

	col := &c.Columns
	if col.QuestionText == "" {
		col.QuestionText = "질문 내용"
	}
	if col.QuestionCategory == "" {
		col.QuestionCategory = "유형"
	}
	if col.JobName == "" {
		col.JobName = "직업명"
	}
	if col.JobType == "" {
		col.JobType = "유형"
	}
	if col.JobDescription == "" {
		col.JobDescription = "설명"
	}
	if len(col.ValueAxes) == 0 {
		col.ValueAxes = []string{"연봉", "워라밸", "조직문화", "근무지", "안정성"}
	}
	if col.MajorCareer == "" {
		col.MajorCareer = "직업명"
	}
	if len(col.MajorSlots) == 0 {
		col.MajorSlots = []string{"추천 학과 1", "추천 학과 2", "추천 학과 3"}
	}
	if col.SubjectKey == "" {
		col.SubjectKey = "학과(전공)"
	}
	if col.SubjectGeneral == "" {
		col.SubjectGeneral = "일반 선택 과목"
	}
	if col.SubjectAdvanced == "" {
		col.SubjectAdvanced = "진로 선택 과목 (심화)"
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	if cfg.Camunda.BrokerAddress == "" {
		return fmt.Errorf("camunda.broker_address is required")
	}

	switch cfg.Catalog.Source {
	case SourceSheets:
		if cfg.Catalog.SheetID == "" {
			return fmt.Errorf("catalog.sheet_id is required for the sheets source")
		}
	case SourcePostgres:
		if cfg.Database.Postgres.Host == "" {
			return fmt.Errorf("database.postgres.host is required for the postgres source")
		}
		if cfg.Database.Postgres.Database == "" {
			return fmt.Errorf("database.postgres.database is required for the postgres source")
		}
	case SourceEmbedded:
	default:
		return fmt.Errorf("catalog.source %q is not one of sheets, postgres, embedded", cfg.Catalog.Source)
	}

	if len(cfg.Catalog.Columns.ValueAxes) != 5 {
		return fmt.Errorf("catalog.columns.value_axes must name exactly 5 columns, got %d", len(cfg.Catalog.Columns.ValueAxes))
	}

	if cfg.Catalog.RedisCache && cfg.Database.Redis.Address == "" {
		return fmt.Errorf("database.redis.address is required when catalog.redis_cache is enabled")
	}

	switch cfg.Guidance.WeightMode {
	case "EXACT", "AUTO":
	default:
		return fmt.Errorf("guidance.weight_mode %q must be EXACT or AUTO", cfg.Guidance.WeightMode)
	}
	switch cfg.Guidance.Scoring {
	case "distance", "bonus":
	default:
		return fmt.Errorf("guidance.scoring %q must be distance or bonus", cfg.Guidance.Scoring)
	}
	if cfg.Guidance.TopN < 0 {
		return fmt.Errorf("guidance.top_n must not be negative")
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// GetWorkerConfig retrieves worker-specific configuration with fallback to defaults
func GetWorkerConfig(cfg *Config, workerName string) WorkerConfig {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker
	}

	return WorkerConfig{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       30000,
		MaxRetries:    3,
	}
}

// IsWorkerEnabled checks if a specific worker is enabled
func IsWorkerEnabled(cfg *Config, workerName string) bool {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker.Enabled
	}
	return true
}
