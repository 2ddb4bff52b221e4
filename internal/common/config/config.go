// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	Database      DatabaseConfig          `mapstructure:"database"`
	Catalog       CatalogConfig           `mapstructure:"catalog"`
	Guidance      GuidanceConfig          `mapstructure:"guidance"`
	Template      TemplateConfig          `mapstructure:"template"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	Logging       LoggingConfig           `mapstructure:"logging"`
	Observability ObservabilityConfig     `mapstructure:"observability"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	HTTPAddress string `mapstructure:"http_address"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// --- Catalog Configuration ---

// Catalog source kinds.
const (
	SourceSheets   = "sheets"
	SourcePostgres = "postgres"
	SourceEmbedded = "embedded"
)

// CatalogConfig controls where career/major/subject tables come from and how long
// a loaded snapshot stays fresh.
type CatalogConfig struct {
	Source       string            `mapstructure:"source"`
	SheetID      string            `mapstructure:"sheet_id"`
	SheetBaseURL string            `mapstructure:"sheet_base_url"`
	SheetGIDs    map[string]string `mapstructure:"sheet_gids"`
	CacheTTL     int               `mapstructure:"cache_ttl"`     // milliseconds
	FetchTimeout int               `mapstructure:"fetch_timeout"` // milliseconds
	RateLimit    float64           `mapstructure:"rate_limit"`    // requests per second
	RedisCache   bool              `mapstructure:"redis_cache"`
	TablePrefix  string            `mapstructure:"table_prefix"`
	OrderColumn  string            `mapstructure:"order_column"` // postgres row ordinal
	Columns      ColumnConfig      `mapstructure:"columns"`
}

// ColumnConfig names the header of every column the catalog reads. Defaults follow the
// Korean headers of the original spreadsheet.
type ColumnConfig struct {
	QuestionText     string   `mapstructure:"question_text"`
	QuestionCategory string   `mapstructure:"question_category"`
	JobName          string   `mapstructure:"job_name"`
	JobType          string   `mapstructure:"job_type"`
	JobDescription   string   `mapstructure:"job_description"`
	ValueAxes        []string `mapstructure:"value_axes"`
	MajorCareer      string   `mapstructure:"major_career"`
	MajorSlots       []string `mapstructure:"major_slots"`
	SubjectKey       string   `mapstructure:"subject_key"`
	SubjectGeneral   string   `mapstructure:"subject_general"`
	SubjectAdvanced  string   `mapstructure:"subject_advanced"`
}

// --- Guidance Configuration ---

// GuidanceConfig holds the two scoring axes that used to be separate application variants.
type GuidanceConfig struct {
	WeightMode string `mapstructure:"weight_mode"` // EXACT or AUTO
	Scoring    string `mapstructure:"scoring"`     // distance or bonus
	TopN       int    `mapstructure:"top_n"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// ObservabilityConfig toggles metrics and tracing exporters.
type ObservabilityConfig struct {
	ServiceName    string  `mapstructure:"service_name"`
	TracingEnabled bool    `mapstructure:"tracing_enabled"`
	SampleRatio    float64 `mapstructure:"sample_ratio"`
}

// TemplateConfig points at the activity registry used for input schemas.
type TemplateConfig struct {
	RegistryPath string `mapstructure:"registry_path"`
}
