package buildinterestprofile

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

const TaskType = "build-interest-profile"

var inputValidator = validation.MustCompile(inputSchema)

type Handler struct {
	config     *Config
	obs        *observability.Observability
	logger     logger.Logger
	errHandler *errors.ErrorHandler
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

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})

	return &Handler{
		config:     workerConfig,
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

// Execute builds the profile. Without an explicit mode, ratings are used only
// when no answers were sent.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	mode := guidance.SurveyMode(input.Mode)
	if mode == "" {
		mode = guidance.SurveyChecks
		if len(input.Answers) == 0 && len(input.Ratings) > 0 {
			mode = guidance.SurveyRatings
		}
	}

	var (
		profile *guidance.InterestProfile
		err     error
	)
	switch mode {
	case guidance.SurveyChecks:
		profile, err = guidance.BuildFromChecks(input.Answers)
	case guidance.SurveyRatings:
		profile, err = buildFromRatings(input.Ratings)
	default:
		return nil, errors.NewUnsupportedModeError("survey", string(mode))
	}
	if err != nil {
		return nil, err
	}

	h.logger.Info("interest profile built", map[string]interface{}{
		"mode":         string(profile.Mode),
		"interestCode": profile.Code(),
		"tie":          profile.IsTie(),
	})
	return toOutput(profile), nil
}

func buildFromRatings(raw map[string]int) (*guidance.InterestProfile, error) {
	ratings := make(map[guidance.Category]int, len(raw))
	for tag, v := range raw {
		c, err := guidance.ParseCategory(tag)
		if err != nil {
			return nil, err
		}
		ratings[c] = v
	}
	return guidance.BuildFromRatings(ratings)
}

func toOutput(p *guidance.InterestProfile) *Output {
	out := &Output{
		Scores:       make(map[string]int, len(p.Scores)),
		Dominant:     string(p.Dominant),
		Secondary:    string(p.Secondary),
		Leaders:      make([]string, 0, len(p.Leaders)),
		InterestCode: p.Code(),
		Tie:          p.IsTie(),
		Mode:         string(p.Mode),
	}
	for c, v := range p.Scores {
		out.Scores[string(c)] = v
	}
	for _, c := range p.Leaders {
		out.Leaders = append(out.Leaders, string(c))
	}
	return out
}

func (h *Handler) GetTaskType() string {
	return TaskType
}

func (h *Handler) GetConfig() *Config {
	return h.config
}
