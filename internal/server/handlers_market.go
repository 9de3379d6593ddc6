package server

import (
	"net/http"
	"strings"

	"github.com/ecoprohq/ecopro/internal/models"
)

// handleMarketLive handles GET /api/market/live. An optional
// comma-separated watchlist query parameter overrides the default
// watchlist and bypasses the snapshot cache.
func (s *Server) handleMarketLive(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	var watchlist []string
	if raw := r.URL.Query().Get("watchlist"); raw != "" {
		for _, symbol := range strings.Split(raw, ",") {
			symbol = strings.TrimSpace(symbol)
			if symbol != "" {
				watchlist = append(watchlist, symbol)
			}
		}
	}

	snapshot, cached, err := s.app.MarketService.FetchAllLive(r.Context(), watchlist)
	if err != nil {
		s.logger.Error().Err(err).Msg("Live market fetch failed")
		WriteError(w, http.StatusInternalServerError, "Failed to fetch market data")
		return
	}

	source := "live"
	if cached {
		source = "cache"
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"data":   snapshot,
		"cached": cached,
		"source": source,
	})
}

// handleMarketHistory handles GET /api/market/history?symbol=X&period=3mo.
func (s *Server) handleMarketHistory(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symbol := strings.TrimSpace(r.URL.Query().Get("symbol"))
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "symbol is required")
		return
	}

	period := models.HistoricalPeriod(r.URL.Query().Get("period"))
	if period == "" {
		period = models.Period3Months
	}
	if !period.Valid() {
		WriteError(w, http.StatusBadRequest, "Invalid period: use 1mo, 3mo, 6mo or 1y")
		return
	}

	bars := s.app.MarketService.FetchHistorical(r.Context(), symbol, period)

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"symbol": symbol,
		"period": string(period),
		"data":   bars,
	})
}

// handleMarketSearch handles GET /api/market/search?q=query.
func (s *Server) handleMarketSearch(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		WriteError(w, http.StatusBadRequest, "q is required")
		return
	}

	matches := s.app.MarketService.SearchSymbols(r.Context(), query)

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"query":   query,
		"results": matches,
	})
}
