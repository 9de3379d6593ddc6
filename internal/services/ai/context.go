package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ecoprohq/ecopro/internal/models"
)

// Context gathering assembles the platform data each agent reasons over.
// A failed store read degrades to an empty list so one bad table never
// blocks an analysis.

func (s *Service) gatherProjectContext(ctx context.Context) string {
	projects, err := s.records().ListProjects(ctx, []string{models.ProjectStatusActive, models.ProjectStatusPlanning})
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to load projects for agent context")
	}
	tasks, err := s.records().ListTasks(ctx, models.OpenTaskStatuses())
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to load tasks for agent context")
	}

	return marshalContext(map[string]interface{}{
		"projects": orEmptyProjects(projects),
		"tasks":    orEmptyTasks(tasks),
	})
}

func (s *Service) gatherBusinessContext(ctx context.Context) string {
	activities, err := s.records().ListActivities(ctx, false)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to load activities for agent context")
	}
	metrics, err := s.records().ListBIMetrics(ctx, 0)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to load BI metrics for agent context")
	}

	return marshalContext(map[string]interface{}{
		"activities": orEmptyActivities(activities),
		"biMetrics":  orEmptyMetrics(metrics),
	})
}

func (s *Service) gatherMarketContext(ctx context.Context) string {
	rows, err := s.records().ListMarketRows(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to load market rows for agent context")
	}
	activities, err := s.records().ListActivities(ctx, false)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to load activities for agent context")
	}

	base := marshalContext(map[string]interface{}{
		"marketData": orEmptyMarketRows(rows),
		"activities": orEmptyActivities(activities),
	})

	// Enrich with live market data when the aggregator is available.
	if s.market == nil {
		return base
	}
	indices := s.market.FetchIndices(ctx)
	currencies := s.market.FetchCurrencyRates(ctx)
	if len(indices) == 0 && len(currencies) == 0 {
		return base
	}

	live := marshalContext(map[string]interface{}{
		"liveIndices":    indices,
		"liveCurrencies": currencies,
	})
	return base + fmt.Sprintf("\n\nLIVE MARKET DATA (Yahoo Finance, %s):\n%s",
		s.now().Format(time.RFC3339), live)
}

func (s *Service) gatherFullContext(ctx context.Context) string {
	activities, err := s.records().ListActivities(ctx, false)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to load activities for agent context")
	}
	projects, err := s.records().ListProjects(ctx, []string{models.ProjectStatusActive, models.ProjectStatusPlanning})
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to load projects for agent context")
	}
	tasks, err := s.records().ListTasks(ctx, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to load tasks for agent context")
	}
	metrics, err := s.records().ListBIMetrics(ctx, 0)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to load BI metrics for agent context")
	}

	return marshalContext(map[string]interface{}{
		"activities": orEmptyActivities(activities),
		"projects":   orEmptyProjects(projects),
		"tasks":      orEmptyTasks(tasks),
		"biMetrics":  orEmptyMetrics(metrics),
	})
}

// gatherContext dispatches to the task-specific gatherer.
func (s *Service) gatherContext(ctx context.Context, task models.AgentTask) string {
	switch task {
	case models.AgentProject:
		return s.gatherProjectContext(ctx)
	case models.AgentBusiness:
		return s.gatherBusinessContext(ctx)
	case models.AgentMarket:
		return s.gatherMarketContext(ctx)
	default:
		return s.gatherFullContext(ctx)
	}
}

func marshalContext(v interface{}) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

func orEmptyActivities(v []*models.Activity) []*models.Activity {
	if v == nil {
		return []*models.Activity{}
	}
	return v
}

func orEmptyProjects(v []*models.Project) []*models.Project {
	if v == nil {
		return []*models.Project{}
	}
	return v
}

func orEmptyTasks(v []*models.Task) []*models.Task {
	if v == nil {
		return []*models.Task{}
	}
	return v
}

func orEmptyMetrics(v []*models.BIMetric) []*models.BIMetric {
	if v == nil {
		return []*models.BIMetric{}
	}
	return v
}

func orEmptyMarketRows(v []*models.MarketRow) []*models.MarketRow {
	if v == nil {
		return []*models.MarketRow{}
	}
	return v
}
