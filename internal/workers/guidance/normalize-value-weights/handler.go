package normalizevalueweights

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"

	"roadmap-workers/internal/common/camunda"
	"roadmap-workers/internal/common/config"
	"roadmap-workers/internal/common/errors"
	"roadmap-workers/internal/common/logger"
	"roadmap-workers/internal/common/observability"
	"roadmap-workers/internal/common/validation"
	"roadmap-workers/internal/guidance"
)

const TaskType = "normalize-value-weights"

var inputValidator = validation.MustCompile(inputSchema)

type Handler struct {
	config      *Config
	defaultMode guidance.WeightMode
	obs         *observability.Observability
	logger      logger.Logger
	errHandler  *errors.ErrorHandler
}

type HandlerOptions struct {
	AppConfig     *config.Config
	CustomConfig  *Config
	Observability *observability.Observability
	Logger        logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)
	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	mode, _ := guidance.ParseWeightMode(workerConfig.WeightMode)

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})

	return &Handler{
		config:      workerConfig,
		defaultMode: mode,
		obs:         opts.Observability,
		logger:      log,
		errHandler:  errors.NewErrorHandler(log),
	}, nil
}

// Handle completes the job even when EXACT validation fails, so the process
// can branch on the valid flag.
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
	mode := h.defaultMode
	if input.Mode != "" {
		parsed, err := guidance.ParseWeightMode(input.Mode)
		if err != nil {
			return nil, err
		}
		mode = parsed
	}

	res, err := guidance.Normalize(input.Weights, mode)
	if err != nil {
		return nil, err
	}

	out := &Output{
		Valid:      res.Valid,
		Normalized: res.Vector,
		Sum:        res.Sum,
		Delta:      res.Delta,
		Mode:       string(res.Mode),
		Message:    res.Message(),
	}

	if rejected := res.Err(); rejected != nil {
		code, _ := errors.CodeOf(rejected)
		out.ErrorCode = string(code)
		h.logger.Info("weights rejected", map[string]interface{}{
			"errorCode": code,
			"error":     rejected.Error(),
		})
	}

	return out, nil
}

func (h *Handler) GetTaskType() string {
	return TaskType
}

func (h *Handler) GetConfig() *Config {
	return h.config
}
