package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ecoprohq/ecopro/internal/models"
	"github.com/ecoprohq/ecopro/internal/services/ai"
)

// writeAIError maps the AI service error taxonomy onto HTTP statuses.
func writeAIError(w http.ResponseWriter, err error) {
	var cfgErr *ai.ConfigError
	if errors.As(err, &cfgErr) {
		WriteErrorWithCode(w, http.StatusBadRequest, cfgErr.Message, "ai_config")
		return
	}

	var exhausted *ai.ExhaustedError
	if errors.As(err, &exhausted) {
		WriteErrorWithCode(w, http.StatusBadGateway, exhausted.Error(), "ai_exhausted")
		return
	}

	WriteError(w, http.StatusInternalServerError, err.Error())
}

type analyzeRequest struct {
	AgentTask   string `json:"agent_task"`
	UserMessage string `json:"user_message,omitempty"`
}

type analyzeResponse struct {
	AgentTask  string             `json:"agent_task"`
	Response   string             `json:"response"`
	Provider   string             `json:"provider"`
	Model      string             `json:"model"`
	ModelLabel string             `json:"model_label"`
	Usage      *models.TokenUsage `json:"usage,omitempty"`
}

// handleAIAnalyze handles POST /api/ai/analyze.
func (s *Server) handleAIAnalyze(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req analyzeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.AgentTask == "" {
		WriteError(w, http.StatusBadRequest, "agent_task is required")
		return
	}

	task := models.AgentTask(req.AgentTask)
	if !task.Valid() {
		WriteError(w, http.StatusBadRequest, "Invalid agent_task: "+req.AgentTask)
		return
	}

	result, err := s.app.AIService.Analyze(r.Context(), task, req.UserMessage)
	if err != nil {
		s.logger.Error().Err(err).Str("agent", req.AgentTask).Msg("AI analysis failed")
		writeAIError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, analyzeResponse{
		AgentTask:  string(task),
		Response:   result.Content,
		Provider:   result.Provider,
		Model:      result.Model,
		ModelLabel: result.ModelLabel,
		Usage:      result.Usage,
	})
}

type chatRequest struct {
	Messages []models.ChatMessage `json:"messages"`
}

// handleAIChat handles POST /api/ai/chat with an SSE response. Frames
// follow the stream order: one metadata event, text deltas, then the
// [DONE] sentinel.
func (s *Server) handleAIChat(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req chatRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if len(req.Messages) == 0 {
		WriteError(w, http.StatusBadRequest, "messages required")
		return
	}
	for _, m := range req.Messages {
		if m.Role != models.RoleUser && m.Role != models.RoleAssistant {
			WriteError(w, http.StatusBadRequest, "message roles must be user or assistant")
			return
		}
	}

	frames, err := s.app.AIService.StreamChat(r.Context(), req.Messages)
	if err != nil {
		s.logger.Error().Err(err).Msg("AI chat stream failed to open")
		writeAIError(w, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteError(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	for frame := range frames {
		if frame.Done {
			w.Write([]byte("data: [DONE]\n\n"))
			flusher.Flush()
			continue
		}

		payload, err := json.Marshal(frame)
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to encode stream frame")
			return
		}
		w.Write([]byte("data: "))
		w.Write(payload)
		w.Write([]byte("\n\n"))
		flusher.Flush()
	}
}

// handleAIAgents handles GET /api/ai/agents.
func (s *Server) handleAIAgents(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"agents": s.app.AIService.AgentsInfo(),
	})
}

// handleInsights handles GET /api/ai/insights.
func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	task := models.AgentTask(r.URL.Query().Get("agent_task"))
	if task != "" && !task.Valid() {
		WriteError(w, http.StatusBadRequest, "Invalid agent_task filter")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			WriteError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	insights, err := s.app.Storage.InsightStore().ListInsights(r.Context(), task, limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list insights")
		WriteError(w, http.StatusInternalServerError, "Failed to list insights")
		return
	}
	if insights == nil {
		insights = []*models.Insight{}
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{"insights": insights})
}

// handleInsightByID handles DELETE /api/ai/insights/{id}.
func (s *Server) handleInsightByID(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/ai/insights/")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "Insight id is required")
		return
	}

	if err := s.app.Storage.InsightStore().DeleteInsight(r.Context(), id); err != nil {
		s.logger.Error().Err(err).Str("id", id).Msg("Failed to delete insight")
		WriteError(w, http.StatusInternalServerError, "Failed to delete insight")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"deleted": id})
}
