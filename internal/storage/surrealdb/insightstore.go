package surrealdb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/surrealdb/surrealdb.go"

	"github.com/ecoprohq/ecopro/internal/common"
	"github.com/ecoprohq/ecopro/internal/models"
)

// InsightStore implements interfaces.InsightStore using SurrealDB.
type InsightStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

// NewInsightStore creates a new InsightStore.
func NewInsightStore(db *surrealdb.DB, logger *common.Logger) *InsightStore {
	return &InsightStore{db: db, logger: logger}
}

func (s *InsightStore) SaveInsights(ctx context.Context, insights []*models.Insight) error {
	now := time.Now()
	for _, insight := range insights {
		if insight.ID == "" {
			insight.ID = uuid.New().String()
		}
		if insight.CreatedAt.IsZero() {
			insight.CreatedAt = now
		}
		if err := upsert(ctx, s.db, "ai_insight", insight.ID, insight); err != nil {
			return err
		}
	}

	s.logger.Debug().Int("count", len(insights)).Msg("Saved AI insights")
	return nil
}

func (s *InsightStore) ListInsights(ctx context.Context, task models.AgentTask, limit int) ([]*models.Insight, error) {
	sql := "SELECT * FROM ai_insight ORDER BY created_at DESC"
	vars := map[string]any{}
	if task != "" {
		sql = "SELECT * FROM ai_insight WHERE agent_task = $task ORDER BY created_at DESC"
		vars["task"] = string(task)
	}
	if limit > 0 {
		sql += " LIMIT $limit"
		vars["limit"] = limit
	}

	results, err := surrealdb.Query[[]models.Insight](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list insights: %w", err)
	}

	var insights []*models.Insight
	if results != nil && len(*results) > 0 {
		for i := range (*results)[0].Result {
			insights = append(insights, &(*results)[0].Result[i])
		}
	}
	return insights, nil
}

func (s *InsightStore) DeleteInsight(ctx context.Context, id string) error {
	return deleteRecord(ctx, s.db, "ai_insight", id)
}
