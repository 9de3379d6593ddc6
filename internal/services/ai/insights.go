package ai

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"github.com/ecoprohq/ecopro/internal/models"
)

// persistInsights parses the analytical agent output and stores each
// insight. A malformed document or a store failure is logged and
// swallowed: the raw completion is still returned to the caller.
func (s *Service) persistInsights(ctx context.Context, task models.AgentTask, content string) {
	doc, err := parseInsightDocument(content)
	if err != nil {
		s.logger.Warn().Err(err).Str("agent", string(task)).Msg("Agent output is not a parseable insight document")
		return
	}
	if len(doc.Insights) == 0 {
		return
	}

	now := s.now()
	insights := make([]*models.Insight, 0, len(doc.Insights))
	for _, item := range doc.Insights {
		severity := item.Severity
		if severity == "" {
			severity = models.SeverityInfo
		}
		insights = append(insights, &models.Insight{
			ID:                uuid.New().String(),
			AgentTask:         task,
			Title:             item.Title,
			Description:       item.Description,
			Severity:          severity,
			Recommendation:    item.Recommendation,
			RelatedEntityID:   item.RelatedEntityID,
			RelatedEntityType: item.RelatedEntityType,
			CreatedAt:         now,
		})
	}

	if err := s.storage.InsightStore().SaveInsights(ctx, insights); err != nil {
		s.logger.Warn().Err(err).Str("agent", string(task)).Int("count", len(insights)).Msg("Failed to persist insights")
		return
	}

	s.logger.Info().Str("agent", string(task)).Int("count", len(insights)).Msg("Persisted agent insights")
}

// parseInsightDocument decodes the JSON document an analytical agent
// returns. Some models wrap JSON in a markdown fence; strip it first.
func parseInsightDocument(content string) (*models.InsightDocument, error) {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(trimmed, "```")
		trimmed = strings.TrimSpace(trimmed)
	}

	var doc models.InsightDocument
	if err := json.Unmarshal([]byte(trimmed), &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
