package main

import (
	"fmt"

	"roadmap-workers/internal/catalog"
	"roadmap-workers/internal/common/camunda"
	"roadmap-workers/internal/common/config"
	"roadmap-workers/internal/common/logger"
	"roadmap-workers/internal/common/observability"
	"roadmap-workers/pkg/registry"

	bip "roadmap-workers/internal/workers/guidance/build-interest-profile"
	lsq "roadmap-workers/internal/workers/guidance/list-survey-questions"
	nvw "roadmap-workers/internal/workers/guidance/normalize-value-weights"
	rc "roadmap-workers/internal/workers/guidance/rank-careers"
	rm "roadmap-workers/internal/workers/guidance/resolve-majors"
	rs "roadmap-workers/internal/workers/guidance/resolve-subjects"
)

type registration struct {
	taskType string
	handler  camunda.JobHandler
}

// buildRegistrations creates one handler per guidance task type.
func buildRegistrations(cfg *config.Config, store catalog.Loader, obs *observability.Observability, log logger.Logger) ([]registration, error) {
	var regs []registration
	add := func(taskType string, h camunda.JobHandler, err error) error {
		if err != nil {
			return err
		}
		regs = append(regs, registration{taskType: taskType, handler: h})
		return nil
	}

	lsqHandler, err := lsq.NewHandler(lsq.HandlerOptions{AppConfig: cfg, Catalog: store, Observability: obs, Logger: log})
	if err := add(lsq.TaskType, lsqHandler, err); err != nil {
		return nil, err
	}

	bipHandler, err := bip.NewHandler(bip.HandlerOptions{AppConfig: cfg, Observability: obs, Logger: log})
	if err := add(bip.TaskType, bipHandler, err); err != nil {
		return nil, err
	}

	nvwHandler, err := nvw.NewHandler(nvw.HandlerOptions{AppConfig: cfg, Observability: obs, Logger: log})
	if err := add(nvw.TaskType, nvwHandler, err); err != nil {
		return nil, err
	}

	rcHandler, err := rc.NewHandler(rc.HandlerOptions{AppConfig: cfg, Catalog: store, Observability: obs, Logger: log})
	if err := add(rc.TaskType, rcHandler, err); err != nil {
		return nil, err
	}

	rmHandler, err := rm.NewHandler(rm.HandlerOptions{AppConfig: cfg, Catalog: store, Observability: obs, Logger: log})
	if err := add(rm.TaskType, rmHandler, err); err != nil {
		return nil, err
	}

	rsHandler, err := rs.NewHandler(rs.HandlerOptions{AppConfig: cfg, Catalog: store, Observability: obs, Logger: log})
	if err := add(rs.TaskType, rsHandler, err); err != nil {
		return nil, err
	}

	return regs, nil
}

// checkRegistry warns about task types the activity registry does not document.
// A missing registry file is not fatal.
func checkRegistry(path string, regs []registration, log logger.Logger) []string {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		log.Warn("activity registry unavailable", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
		return nil
	}

	var missing []string
	for _, r := range regs {
		if _, ok := reg.FindByTaskType(r.taskType); !ok {
			missing = append(missing, r.taskType)
		}
	}
	if len(missing) > 0 {
		log.Warn("task types missing from activity registry", map[string]interface{}{
			"path":      path,
			"taskTypes": fmt.Sprint(missing),
		})
	}
	return missing
}
