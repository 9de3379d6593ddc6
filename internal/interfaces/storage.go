package interfaces

import (
	"context"

	"github.com/ecoprohq/ecopro/internal/models"
)

// RecordStore provides CRUD access to platform records.
type RecordStore interface {
	ListActivities(ctx context.Context, includeArchived bool) ([]*models.Activity, error)
	SaveActivity(ctx context.Context, activity *models.Activity) error
	DeleteActivity(ctx context.Context, id string) error

	ListProjects(ctx context.Context, statuses []string) ([]*models.Project, error)
	SaveProject(ctx context.Context, project *models.Project) error
	DeleteProject(ctx context.Context, id string) error

	ListTasks(ctx context.Context, statuses []string) ([]*models.Task, error)
	SaveTask(ctx context.Context, task *models.Task) error
	DeleteTask(ctx context.Context, id string) error

	ListBIMetrics(ctx context.Context, limit int) ([]*models.BIMetric, error)
	SaveBIMetric(ctx context.Context, metric *models.BIMetric) error

	ListMarketRows(ctx context.Context) ([]*models.MarketRow, error)
	SaveMarketRow(ctx context.Context, row *models.MarketRow) error
}

// InsightStore persists AI-generated insights.
type InsightStore interface {
	SaveInsights(ctx context.Context, insights []*models.Insight) error
	ListInsights(ctx context.Context, task models.AgentTask, limit int) ([]*models.Insight, error)
	DeleteInsight(ctx context.Context, id string) error
}

// StorageManager owns the database connection and store accessors.
type StorageManager interface {
	RecordStore() RecordStore
	InsightStore() InsightStore
	Close() error
}
