package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/ecoprohq/ecopro/internal/models"
)

// Record handlers are thin passthroughs over the record store: list and
// create on the collection path, save and delete on the item path.

// handleActivities handles GET and POST /api/activities.
func (s *Server) handleActivities(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		includeArchived := r.URL.Query().Get("include_archived") == "true"
		activities, err := s.app.Storage.RecordStore().ListActivities(r.Context(), includeArchived)
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to list activities")
			WriteError(w, http.StatusInternalServerError, "Failed to list activities")
			return
		}
		if activities == nil {
			activities = []*models.Activity{}
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{"activities": activities})

	case http.MethodPost:
		var activity models.Activity
		if !DecodeJSON(w, r, &activity) {
			return
		}
		if activity.Name == "" {
			WriteError(w, http.StatusBadRequest, "name is required")
			return
		}
		if err := s.app.Storage.RecordStore().SaveActivity(r.Context(), &activity); err != nil {
			s.logger.Error().Err(err).Msg("Failed to save activity")
			WriteError(w, http.StatusInternalServerError, "Failed to save activity")
			return
		}
		WriteJSON(w, http.StatusCreated, activity)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleActivityByID handles PUT and DELETE /api/activities/{id}.
func (s *Server) handleActivityByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/activities/")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "Activity id is required")
		return
	}

	switch r.Method {
	case http.MethodPut:
		var activity models.Activity
		if !DecodeJSON(w, r, &activity) {
			return
		}
		activity.ID = id
		if err := s.app.Storage.RecordStore().SaveActivity(r.Context(), &activity); err != nil {
			s.logger.Error().Err(err).Str("id", id).Msg("Failed to update activity")
			WriteError(w, http.StatusInternalServerError, "Failed to update activity")
			return
		}
		WriteJSON(w, http.StatusOK, activity)

	case http.MethodDelete:
		if err := s.app.Storage.RecordStore().DeleteActivity(r.Context(), id); err != nil {
			s.logger.Error().Err(err).Str("id", id).Msg("Failed to delete activity")
			WriteError(w, http.StatusInternalServerError, "Failed to delete activity")
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"deleted": id})

	default:
		RequireMethod(w, r, http.MethodPut, http.MethodDelete)
	}
}

// handleProjects handles GET and POST /api/projects. The status query
// parameter accepts a comma-separated filter.
func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		var statuses []string
		if raw := r.URL.Query().Get("status"); raw != "" {
			for _, status := range strings.Split(raw, ",") {
				if status = strings.TrimSpace(status); status != "" {
					statuses = append(statuses, status)
				}
			}
		}
		projects, err := s.app.Storage.RecordStore().ListProjects(r.Context(), statuses)
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to list projects")
			WriteError(w, http.StatusInternalServerError, "Failed to list projects")
			return
		}
		if projects == nil {
			projects = []*models.Project{}
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{"projects": projects})

	case http.MethodPost:
		var project models.Project
		if !DecodeJSON(w, r, &project) {
			return
		}
		if project.Name == "" {
			WriteError(w, http.StatusBadRequest, "name is required")
			return
		}
		if err := s.app.Storage.RecordStore().SaveProject(r.Context(), &project); err != nil {
			s.logger.Error().Err(err).Msg("Failed to save project")
			WriteError(w, http.StatusInternalServerError, "Failed to save project")
			return
		}
		WriteJSON(w, http.StatusCreated, project)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleProjectByID handles PUT and DELETE /api/projects/{id}.
func (s *Server) handleProjectByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/projects/")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "Project id is required")
		return
	}

	switch r.Method {
	case http.MethodPut:
		var project models.Project
		if !DecodeJSON(w, r, &project) {
			return
		}
		project.ID = id
		if err := s.app.Storage.RecordStore().SaveProject(r.Context(), &project); err != nil {
			s.logger.Error().Err(err).Str("id", id).Msg("Failed to update project")
			WriteError(w, http.StatusInternalServerError, "Failed to update project")
			return
		}
		WriteJSON(w, http.StatusOK, project)

	case http.MethodDelete:
		if err := s.app.Storage.RecordStore().DeleteProject(r.Context(), id); err != nil {
			s.logger.Error().Err(err).Str("id", id).Msg("Failed to delete project")
			WriteError(w, http.StatusInternalServerError, "Failed to delete project")
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"deleted": id})

	default:
		RequireMethod(w, r, http.MethodPut, http.MethodDelete)
	}
}

// handleTasks handles GET and POST /api/tasks.
func (s *Server) handleTasks(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		var statuses []string
		if raw := r.URL.Query().Get("status"); raw != "" {
			for _, status := range strings.Split(raw, ",") {
				if status = strings.TrimSpace(status); status != "" {
					statuses = append(statuses, status)
				}
			}
		}
		tasks, err := s.app.Storage.RecordStore().ListTasks(r.Context(), statuses)
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to list tasks")
			WriteError(w, http.StatusInternalServerError, "Failed to list tasks")
			return
		}
		if tasks == nil {
			tasks = []*models.Task{}
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{"tasks": tasks})

	case http.MethodPost:
		var task models.Task
		if !DecodeJSON(w, r, &task) {
			return
		}
		if task.Title == "" {
			WriteError(w, http.StatusBadRequest, "title is required")
			return
		}
		if err := s.app.Storage.RecordStore().SaveTask(r.Context(), &task); err != nil {
			s.logger.Error().Err(err).Msg("Failed to save task")
			WriteError(w, http.StatusInternalServerError, "Failed to save task")
			return
		}
		WriteJSON(w, http.StatusCreated, task)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleTaskByID handles PUT and DELETE /api/tasks/{id}.
func (s *Server) handleTaskByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/tasks/")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "Task id is required")
		return
	}

	switch r.Method {
	case http.MethodPut:
		var task models.Task
		if !DecodeJSON(w, r, &task) {
			return
		}
		task.ID = id
		if err := s.app.Storage.RecordStore().SaveTask(r.Context(), &task); err != nil {
			s.logger.Error().Err(err).Str("id", id).Msg("Failed to update task")
			WriteError(w, http.StatusInternalServerError, "Failed to update task")
			return
		}
		WriteJSON(w, http.StatusOK, task)

	case http.MethodDelete:
		if err := s.app.Storage.RecordStore().DeleteTask(r.Context(), id); err != nil {
			s.logger.Error().Err(err).Str("id", id).Msg("Failed to delete task")
			WriteError(w, http.StatusInternalServerError, "Failed to delete task")
			return
		}
		WriteJSON(w, http.StatusOK, map[string]string{"deleted": id})

	default:
		RequireMethod(w, r, http.MethodPut, http.MethodDelete)
	}
}

// handleBIMetrics handles GET and POST /api/bi/metrics.
func (s *Server) handleBIMetrics(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				WriteError(w, http.StatusBadRequest, "Invalid limit")
				return
			}
			limit = n
		}
		metrics, err := s.app.Storage.RecordStore().ListBIMetrics(r.Context(), limit)
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to list BI metrics")
			WriteError(w, http.StatusInternalServerError, "Failed to list BI metrics")
			return
		}
		if metrics == nil {
			metrics = []*models.BIMetric{}
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{"metrics": metrics})

	case http.MethodPost:
		var metric models.BIMetric
		if !DecodeJSON(w, r, &metric) {
			return
		}
		if metric.ActivityID == "" || metric.Period == "" {
			WriteError(w, http.StatusBadRequest, "activity_id and period are required")
			return
		}
		if err := s.app.Storage.RecordStore().SaveBIMetric(r.Context(), &metric); err != nil {
			s.logger.Error().Err(err).Msg("Failed to save BI metric")
			WriteError(w, http.StatusInternalServerError, "Failed to save BI metric")
			return
		}
		WriteJSON(w, http.StatusCreated, metric)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}

// handleMarketRows handles GET and POST /api/market-rows (stored market
// context records, distinct from the live snapshot).
func (s *Server) handleMarketRows(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		rows, err := s.app.Storage.RecordStore().ListMarketRows(r.Context())
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to list market rows")
			WriteError(w, http.StatusInternalServerError, "Failed to list market rows")
			return
		}
		if rows == nil {
			rows = []*models.MarketRow{}
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{"market_rows": rows})

	case http.MethodPost:
		var row models.MarketRow
		if !DecodeJSON(w, r, &row) {
			return
		}
		if row.ActivityID == "" {
			WriteError(w, http.StatusBadRequest, "activity_id is required")
			return
		}
		if err := s.app.Storage.RecordStore().SaveMarketRow(r.Context(), &row); err != nil {
			s.logger.Error().Err(err).Msg("Failed to save market row")
			WriteError(w, http.StatusInternalServerError, "Failed to save market row")
			return
		}
		WriteJSON(w, http.StatusCreated, row)

	default:
		RequireMethod(w, r, http.MethodGet, http.MethodPost)
	}
}
