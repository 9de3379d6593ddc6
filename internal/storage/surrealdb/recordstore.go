package surrealdb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/ecoprohq/ecopro/internal/common"
	"github.com/ecoprohq/ecopro/internal/models"
)

// RecordStore implements interfaces.RecordStore using SurrealDB.
type RecordStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

// NewRecordStore creates a new RecordStore.
func NewRecordStore(db *surrealdb.DB, logger *common.Logger) *RecordStore {
	return &RecordStore{db: db, logger: logger}
}

// recordID converts a free-form id into a safe SurrealDB record ID.
// Record IDs cannot contain dots, so replace them with underscores.
func recordID(table, id string) surrealmodels.RecordID {
	return surrealmodels.NewRecordID(table, strings.ReplaceAll(id, ".", "_"))
}

func queryList[T any](ctx context.Context, db *surrealdb.DB, sql string, vars map[string]any) ([]*T, error) {
	results, err := surrealdb.Query[[]T](ctx, db, sql, vars)
	if err != nil {
		return nil, err
	}

	var items []*T
	if results != nil && len(*results) > 0 {
		for i := range (*results)[0].Result {
			items = append(items, &(*results)[0].Result[i])
		}
	}
	return items, nil
}

func upsert[T any](ctx context.Context, db *surrealdb.DB, table, id string, record *T) error {
	sql := "UPSERT $rid CONTENT $record"
	vars := map[string]any{
		"rid":    recordID(table, id),
		"record": record,
	}
	if _, err := surrealdb.Query[[]T](ctx, db, sql, vars); err != nil {
		return fmt.Errorf("failed to upsert %s record: %w", table, err)
	}
	return nil
}

func deleteRecord(ctx context.Context, db *surrealdb.DB, table, id string) error {
	sql := "DELETE $rid"
	vars := map[string]any{"rid": recordID(table, id)}
	if _, err := surrealdb.Query[any](ctx, db, sql, vars); err != nil {
		return fmt.Errorf("failed to delete %s record: %w", table, err)
	}
	return nil
}

// --- activities ---

func (s *RecordStore) ListActivities(ctx context.Context, includeArchived bool) ([]*models.Activity, error) {
	sql := "SELECT * FROM activity ORDER BY created_at DESC"
	if !includeArchived {
		sql = "SELECT * FROM activity WHERE archived = false ORDER BY created_at DESC"
	}
	activities, err := queryList[models.Activity](ctx, s.db, sql, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return activities, nil
}

func (s *RecordStore) SaveActivity(ctx context.Context, activity *models.Activity) error {
	now := time.Now()
	if activity.ID == "" {
		activity.ID = uuid.New().String()
		activity.CreatedAt = now
	}
	activity.UpdatedAt = now
	return upsert(ctx, s.db, "activity", activity.ID, activity)
}

func (s *RecordStore) DeleteActivity(ctx context.Context, id string) error {
	return deleteRecord(ctx, s.db, "activity", id)
}

// --- projects ---

func (s *RecordStore) ListProjects(ctx context.Context, statuses []string) ([]*models.Project, error) {
	sql := "SELECT * FROM project ORDER BY created_at DESC"
	var vars map[string]any
	if len(statuses) > 0 {
		sql = "SELECT * FROM project WHERE status IN $statuses ORDER BY created_at DESC"
		vars = map[string]any{"statuses": statuses}
	}
	projects, err := queryList[models.Project](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

func (s *RecordStore) SaveProject(ctx context.Context, project *models.Project) error {
	now := time.Now()
	if project.ID == "" {
		project.ID = uuid.New().String()
		project.CreatedAt = now
	}
	project.UpdatedAt = now
	return upsert(ctx, s.db, "project", project.ID, project)
}

func (s *RecordStore) DeleteProject(ctx context.Context, id string) error {
	return deleteRecord(ctx, s.db, "project", id)
}

// --- tasks ---

func (s *RecordStore) ListTasks(ctx context.Context, statuses []string) ([]*models.Task, error) {
	sql := "SELECT * FROM task ORDER BY created_at DESC"
	var vars map[string]any
	if len(statuses) > 0 {
		sql = "SELECT * FROM task WHERE status IN $statuses ORDER BY created_at DESC"
		vars = map[string]any{"statuses": statuses}
	}
	tasks, err := queryList[models.Task](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

func (s *RecordStore) SaveTask(ctx context.Context, task *models.Task) error {
	now := time.Now()
	if task.ID == "" {
		task.ID = uuid.New().String()
		task.CreatedAt = now
	}
	task.UpdatedAt = now
	return upsert(ctx, s.db, "task", task.ID, task)
}

func (s *RecordStore) DeleteTask(ctx context.Context, id string) error {
	return deleteRecord(ctx, s.db, "task", id)
}

// --- BI metrics ---

// ListBIMetrics returns metrics oldest-first for trend analysis. A
// positive limit switches to newest-first so callers get the most
// recent periods.
func (s *RecordStore) ListBIMetrics(ctx context.Context, limit int) ([]*models.BIMetric, error) {
	sql := "SELECT * FROM bi_metric ORDER BY period ASC"
	var vars map[string]any
	if limit > 0 {
		sql = "SELECT * FROM bi_metric ORDER BY period DESC LIMIT $limit"
		vars = map[string]any{"limit": limit}
	}
	metrics, err := queryList[models.BIMetric](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list BI metrics: %w", err)
	}
	return metrics, nil
}

func (s *RecordStore) SaveBIMetric(ctx context.Context, metric *models.BIMetric) error {
	if metric.ID == "" {
		metric.ID = uuid.New().String()
		metric.CreatedAt = time.Now()
	}
	return upsert(ctx, s.db, "bi_metric", metric.ID, metric)
}

// --- market rows ---

func (s *RecordStore) ListMarketRows(ctx context.Context) ([]*models.MarketRow, error) {
	rows, err := queryList[models.MarketRow](ctx, s.db, "SELECT * FROM market_row ORDER BY created_at DESC", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list market rows: %w", err)
	}
	return rows, nil
}

func (s *RecordStore) SaveMarketRow(ctx context.Context, row *models.MarketRow) error {
	if row.ID == "" {
		row.ID = uuid.New().String()
		row.CreatedAt = time.Now()
	}
	return upsert(ctx, s.db, "market_row", row.ID, row)
}
