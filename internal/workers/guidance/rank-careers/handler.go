package rankcareers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/attribute"

	"roadmap-workers/internal/catalog"
	"roadmap-workers/internal/common/camunda"
	"roadmap-workers/internal/common/config"
	"roadmap-workers/internal/common/errors"
	"roadmap-workers/internal/common/logger"
	"roadmap-workers/internal/common/observability"
	"roadmap-workers/internal/common/validation"
	"roadmap-workers/internal/guidance"
)

const TaskType = "rank-careers"

var inputValidator = validation.MustCompile(inputSchema)

type Handler struct {
	config     *Config
	scoring    guidance.Scoring
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
	scoring, _ := guidance.ParseScoring(workerConfig.Scoring)

	log := opts.Logger
	if log == nil {
		log = logger.NewStructured("info", "json")
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})

	return &Handler{
		config:     workerConfig,
		scoring:    scoring,
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

// Execute ranks the catalog against the normalized weights. The bonus is only
// applied when a profile is supplied and scoring is bonus.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	scoring := h.scoring
	if input.Scoring != "" {
		parsed, err := guidance.ParseScoring(input.Scoring)
		if err != nil {
			return nil, err
		}
		scoring = parsed
	}

	limit := h.config.TopN
	if input.Limit != nil {
		limit = *input.Limit
	}

	profile, err := toProfile(input.Profile)
	if err != nil {
		return nil, err
	}

	snap, err := h.catalog.Load(ctx)
	if err != nil {
		return nil, catalogError(err)
	}

	ctx, span := observability.StartSpan(ctx, "guidance.rank",
		attribute.String("scoring", string(scoring)),
		attribute.Int("careers", len(snap.Careers)),
	)
	results := guidance.Rank(snap.Careers, input.Normalized, profile, guidance.RankOptions{
		Scoring: scoring,
		Limit:   limit,
	})
	span.End()

	h.obs.RecordRanked(ctx, string(scoring), len(results))

	output := &Output{
		Results:           make([]Recommendation, 0, len(results)),
		RecommendedByType: []string{},
		Scoring:           string(scoring),
		CatalogSource:     snap.Source,
		CatalogWarnings:   len(snap.Warnings),
	}
	for _, r := range results {
		output.Results = append(output.Results, Recommendation{
			Rank:         r.Rank,
			Career:       r.Career.Name,
			InterestCode: r.Career.InterestCode,
			Description:  r.Career.Description,
			Distance:     r.Distance,
			Bonus:        r.Bonus,
			Score:        r.Score,
		})
	}
	if profile != nil {
		for _, c := range guidance.FilterByType(snap.Careers, profile.Dominant) {
			output.RecommendedByType = append(output.RecommendedByType, c.Name)
		}
	}

	h.logger.Info("careers ranked", map[string]interface{}{
		"scoring":       string(scoring),
		"results":       len(output.Results),
		"catalogSource": snap.Source,
	})
	return output, nil
}

func toProfile(in *ProfileInput) (*guidance.InterestProfile, error) {
	if in == nil {
		return nil, nil
	}

	if len(in.Scores) > 0 {
		scores := make(map[guidance.Category]int, len(in.Scores))
		for tag, v := range in.Scores {
			c, err := guidance.ParseCategory(tag)
			if err != nil {
				return nil, err
			}
			scores[c] = v
		}
		return guidance.NewProfile(scores, "")
	}

	if in.Dominant == "" {
		return nil, nil
	}
	p := &guidance.InterestProfile{}
	c, err := guidance.ParseCategory(in.Dominant)
	if err != nil {
		return nil, err
	}
	p.Dominant = c
	if in.Secondary != "" {
		if p.Secondary, err = guidance.ParseCategory(in.Secondary); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// catalogError keeps catalog codes that already carry a retry policy and
// wraps everything else as CATALOG_UNAVAILABLE.
func catalogError(err error) error {
	if _, ok := errors.CodeOf(err); ok {
		return err
	}
	return errors.NewCatalogUnavailableError(err)
}

func (h *Handler) GetTaskType() string {
	return TaskType
}

func (h *Handler) GetConfig() *Config {
	return h.config
}
