package main

const configTemplate = `package {{ .PackageName }}

import (
	"fmt"
	"time"

	"roadmap-workers/internal/common/config"
)

type Config struct {
	Enabled       bool          ` + "`mapstructure:\"enabled\"`" + `
	MaxJobsActive int           ` + "`mapstructure:\"max_jobs_active\"`" + `
	Timeout       time.Duration ` + "`mapstructure:\"timeout\"`" + `
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       {{ .TimeoutExpr }},
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	return nil
}

func createConfigFromAppConfig(appConfig *config.Config, customConfig *Config) *Config {
	if customConfig != nil {
		return customConfig
	}

	cfg := DefaultConfig()
	if appConfig != nil {
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
`

const modelsTemplate = `package {{ .PackageName }}

type Input struct {
{{ .InputFields }}
}

type Output struct {
{{ .OutputFields }}
}

const inputSchema = ` + "`{{ .InputSchemaJSON }}`" + `
`

const handlerTemplate = `package {{ .PackageName }}

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
{{ if .UsesCatalog }}
	"roadmap-workers/internal/catalog"
{{- end }}
	"roadmap-workers/internal/common/camunda"
	"roadmap-workers/internal/common/config"
	"roadmap-workers/internal/common/errors"
	"roadmap-workers/internal/common/logger"
	"roadmap-workers/internal/common/observability"
	"roadmap-workers/internal/common/validation"
)

const TaskType = "{{ .TaskType }}"

var inputValidator = validation.MustCompile(inputSchema)

// Handler serves {{ .Name }}: {{ .Description }}
type Handler struct {
	config     *Config
{{- if .UsesCatalog }}
	catalog    catalog.Loader
{{- end }}
	obs        *observability.Observability
	logger     logger.Logger
	errHandler *errors.ErrorHandler
}

type HandlerOptions struct {
	AppConfig     *config.Config
	CustomConfig  *Config
{{- if .UsesCatalog }}
	Catalog       catalog.Loader
{{- end }}
	Observability *observability.Observability
	Logger        logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)
	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
{{- if .UsesCatalog }}
	if opts.Catalog == nil {
		return nil, fmt.Errorf("invalid configuration for %s: catalog is required", TaskType)
	}
{{- end }}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})

	return &Handler{
		config:     workerConfig,
{{- if .UsesCatalog }}
		catalog:    opts.Catalog,
{{- end }}
		obs:        opts.Observability,
		logger:     log,
		errHandler: errors.NewErrorHandler(log),
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
	})

	status := "failed"
	defer func() {
		h.obs.RecordJobProcessed(ctx, TaskType, status)
		h.obs.RecordJobDuration(ctx, TaskType, time.Since(startTime), status)
	}()

	input, err := h.parseInput(job)
	if err != nil {
		h.errHandler.HandleJobError(ctx, client, job, err)
		return
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		h.errHandler.HandleJobError(ctx, client, job, err)
		return
	}

	if err := camunda.CompleteJob(ctx, client, job, output, h.logger); err == nil {
		status = "completed"
	}
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	variables := job.GetVariables()
	if result := inputValidator.ValidateJSON(variables); !result.Valid {
		return nil, errors.NewInvalidInputError(result.Error())
	}

	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, errors.NewInvalidInputError(fmt.Sprintf("decode variables: %v", err))
	}
	return &input, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
{{- if .UsesCatalog }}
	snap, err := h.catalog.Load(ctx)
	if err != nil {
		if _, ok := errors.CodeOf(err); ok {
			return nil, err
		}
		return nil, errors.NewCatalogUnavailableError(err)
	}
	_ = snap
{{- end }}
	return nil, fmt.Errorf("%s: not implemented", TaskType)
}

func (h *Handler) GetTaskType() string {
	return TaskType
}

func (h *Handler) GetConfig() *Config {
	return h.config
}
`

const testTemplate = `package {{ .PackageName }}

import (
	"encoding/json"
	"testing"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
{{ if .UsesCatalog }}
	"roadmap-workers/internal/catalog"
{{- end }}
	"roadmap-workers/internal/common/errors"
	"roadmap-workers/internal/common/logger"
)

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)

	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               TaskType,
		ProcessInstanceKey: key * 10,
		BpmnProcessId:      "career-roadmap",
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
{{- if .UsesCatalog }}
		Catalog:      catalog.NewStore(nil, catalog.Options{}, logger.NewTestLogger(t)),
{{- end }}
		Logger:       logger.NewTestLogger(t),
	})
	require.NoError(t, err)
	return h
}

func TestNewHandler_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timeout = 0

	_, err := NewHandler(HandlerOptions{CustomConfig: cfg})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout must be positive")
}

func TestParseInput_RejectsNonObject(t *testing.T) {
	h := createTestHandler(t)
	job := createMockJob(1, nil)

	_, err := h.parseInput(job)
	require.Error(t, err)
	code, ok := errors.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeInvalidInput, code)
}
`
