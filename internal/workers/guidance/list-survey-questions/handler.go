package listsurveyquestions

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"roadmap-workers/internal/catalog"
	"roadmap-workers/internal/common/camunda"
	"roadmap-workers/internal/common/config"
	"roadmap-workers/internal/common/errors"
	"roadmap-workers/internal/common/logger"
	"roadmap-workers/internal/common/observability"
	"roadmap-workers/internal/common/validation"
	"roadmap-workers/internal/guidance"
)

const TaskType = "list-survey-questions"

var inputValidator = validation.MustCompile(inputSchema)

type Handler struct {
	config     *Config
	catalog    catalog.Loader
	obs        *observability.Observability
	logger     logger.Logger
	errHandler *errors.ErrorHandler
}

type HandlerOptions struct {
	AppConfig     *config.Config
	CustomConfig  *Config
	Catalog       catalog.Loader
	Observability *observability.Observability
	Logger        logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)
	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	if opts.Catalog == nil {
		return nil, fmt.Errorf("invalid configuration for %s: catalog is required", TaskType)
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})

	return &Handler{
		config:     workerConfig,
		catalog:    opts.Catalog,
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

// Execute returns the survey questions in catalog order. Questions whose
// category is not a RIASEC letter are skipped.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	wanted := make(map[guidance.Category]bool, len(input.Categories))
	for _, tag := range input.Categories {
		c, err := guidance.ParseCategory(tag)
		if err != nil {
			return nil, err
		}
		wanted[c] = true
	}

	snap, err := h.catalog.Load(ctx)
	if err != nil {
		if _, ok := errors.CodeOf(err); ok {
			return nil, err
		}
		return nil, errors.NewCatalogUnavailableError(err)
	}

	questions := make([]catalog.Question, 0, len(snap.Questions))
	skipped := 0
	for _, q := range snap.Questions {
		c, err := guidance.ParseCategory(q.Category)
		if err != nil {
			skipped++
			continue
		}
		if len(wanted) > 0 && !wanted[c] {
			continue
		}
		questions = append(questions, catalog.Question{Text: q.Text, Category: string(c)})
	}

	if skipped > 0 {
		h.logger.Warn("questions with unknown category skipped", map[string]interface{}{
			"skipped":       skipped,
			"catalogSource": snap.Source,
		})
	}

	return &Output{
		Questions:     questions,
		Count:         len(questions),
		CatalogSource: snap.Source,
	}, nil
}

func (h *Handler) GetTaskType() string {
	return TaskType
}

func (h *Handler) GetConfig() *Config {
	return h.config
}
