package ai

import (
	"context"
	"fmt"

	"github.com/ecoprohq/ecopro/internal/models"
)

// gatherChatContext loads the slice of platform data a chat turn sees:
// live activities and projects, in-flight tasks, and recent BI metrics.
func (s *Service) gatherChatContext(ctx context.Context) string {
	activities, err := s.records().ListActivities(ctx, false)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to load activities for chat context")
	}
	projects, err := s.records().ListProjects(ctx, []string{models.ProjectStatusActive, models.ProjectStatusPlanning})
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to load projects for chat context")
	}
	tasks, err := s.records().ListTasks(ctx, []string{
		models.TaskStatusInProgress, models.TaskStatusTodo, models.TaskStatusBlocked, models.TaskStatusReview,
	})
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to load tasks for chat context")
	}
	metrics, err := s.records().ListBIMetrics(ctx, 20)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to load BI metrics for chat context")
	}

	return marshalContext(map[string]interface{}{
		"activities":    orEmptyActivities(activities),
		"projects":      orEmptyProjects(projects),
		"activeTasks":   orEmptyTasks(tasks),
		"recentMetrics": orEmptyMetrics(metrics),
	})
}

// buildChatMessages prepends the chat system prompt and wraps the latest
// user message with fresh platform context. Earlier turns pass through
// unchanged.
func (s *Service) buildChatMessages(ctx context.Context, history []models.ChatMessage) []models.ChatMessage {
	contextData := s.gatherChatContext(ctx)
	last := history[len(history)-1]

	messages := make([]models.ChatMessage, 0, len(history)+1)
	messages = append(messages, models.ChatMessage{Role: models.RoleSystem, Content: chatSystem})
	messages = append(messages, history[:len(history)-1]...)
	messages = append(messages, models.ChatMessage{
		Role:    models.RoleUser,
		Content: chatUserPrompt(contextData, last.Content),
	})

	return messages
}

// StreamChat executes a streaming chat turn. The first frame carries
// provider metadata, text deltas follow, and a terminal sentinel frame
// closes the stream. Failover to the alternate provider happens only
// before the first frame; a mid-stream failure ends the stream without
// the sentinel.
func (s *Service) StreamChat(ctx context.Context, history []models.ChatMessage) (<-chan models.StreamFrame, error) {
	if len(history) == 0 {
		return nil, fmt.Errorf("messages required")
	}

	route, err := s.resolveRoute(models.AgentChat)
	if err != nil {
		return nil, err
	}
	if err := s.checkCredentials(); err != nil {
		return nil, err
	}

	messages := s.buildChatMessages(ctx, history)

	deltas, usedRoute, err := s.openStream(ctx, route, messages)
	if err != nil {
		return nil, err
	}

	profile := providerProfiles[usedRoute.provider]
	out := make(chan models.StreamFrame)
	go func() {
		defer close(out)

		meta := models.StreamFrame{Meta: &models.StreamMeta{
			Provider:   profile.label,
			Model:      usedRoute.model,
			ModelLabel: profile.displayLabel(usedRoute.model),
		}}
		select {
		case out <- meta:
		case <-ctx.Done():
			return
		}

		for delta := range deltas {
			if delta.Err != nil {
				s.logger.Error().Err(delta.Err).Str("provider", string(usedRoute.provider)).Msg("Chat stream failed mid-flight")
				return
			}
			select {
			case out <- models.StreamFrame{Text: delta.Text}:
			case <-ctx.Done():
				return
			}
		}

		select {
		case out <- models.StreamFrame{Done: true}:
		case <-ctx.Done():
		}
	}()

	return out, nil
}

// openStream opens the provider stream, falling back once when the
// primary fails before delivering anything.
func (s *Service) openStream(ctx context.Context, route agentRoute, messages []models.ChatMessage) (<-chan models.ChatDelta, agentRoute, error) {
	deltas, primaryErr := s.tryStream(ctx, route, messages)
	if primaryErr == nil {
		return deltas, route, nil
	}

	s.logger.Warn().
		Err(primaryErr).
		Str("provider", string(route.provider)).
		Msg("Primary AI provider failed to open chat stream, trying fallback")

	fb := fallbackRoute(route)
	deltas, fallbackErr := s.tryStream(ctx, fb, messages)
	if fallbackErr == nil {
		return deltas, fb, nil
	}

	return nil, agentRoute{}, &ExhaustedError{
		Primary:     providerProfiles[route.provider].label,
		Fallback:    providerProfiles[fb.provider].label,
		PrimaryErr:  primaryErr,
		FallbackErr: fallbackErr,
	}
}

// tryStream opens a provider stream and confirms it is alive by reading
// the first delta. Some SDKs report connection and auth failures in-band
// on the first read rather than when the stream is opened; surfacing that
// first delta error here keeps it inside the failover window.
func (s *Service) tryStream(ctx context.Context, route agentRoute, messages []models.ChatMessage) (<-chan models.ChatDelta, error) {
	profile := providerProfiles[route.provider]
	if !profile.supportsStreaming {
		return nil, fmt.Errorf("provider %s does not support streaming", route.provider)
	}

	client, err := s.getClient(ctx, route.provider)
	if err != nil {
		return nil, err
	}
	raw, err := client.Stream(ctx, &models.ChatRequest{
		Model:       route.model,
		Messages:    messages,
		Temperature: route.temperature,
		MaxTokens:   route.maxTokens,
	})
	if err != nil {
		return nil, err
	}

	select {
	case first, ok := <-raw:
		if !ok {
			closed := make(chan models.ChatDelta)
			close(closed)
			return closed, nil
		}
		if first.Err != nil {
			return nil, first.Err
		}
		out := make(chan models.ChatDelta)
		go func() {
			defer close(out)
			select {
			case out <- first:
			case <-ctx.Done():
				return
			}
			for delta := range raw {
				select {
				case out <- delta:
				case <-ctx.Done():
					return
				}
			}
		}()
		return out, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
