package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/zetasearch/zeta/internal/models"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var query models.SearchQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.runSearch(w, r, &query)
}

// handleSearchGet maps URL parameters onto a SearchQuery for simple
// clients. Filters are only available through the POST body.
func (s *Server) handleSearchGet(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	query := &models.SearchQuery{
		Query:     params.Get("query"),
		SortBy:    params.Get("sort_by"),
		SortOrder: params.Get("sort_order"),
	}
	if v := params.Get("page"); v != "" {
		query.Page, _ = strconv.Atoi(v)
	}
	if v := params.Get("page_size"); v != "" {
		query.PageSize, _ = strconv.Atoi(v)
	}
	s.runSearch(w, r, query)
}

func (s *Server) runSearch(w http.ResponseWriter, r *http.Request, query *models.SearchQuery) {
	if query.Query == "" {
		s.respondError(w, http.StatusBadRequest, "query is required")
		return
	}
	s.logger.Debug("search request", zap.String("query", query.Query), zap.Int("page", query.Page))
	response, err := s.engine.Search(r.Context(), query)
	if err != nil {
		s.logger.Error("search failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, response)
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	query := params.Get("query")
	max := 0
	if v := params.Get("max_suggestions"); v != "" {
		max, _ = strconv.Atoi(v)
	}
	response := s.suggester.Suggest(r.Context(), query, max)
	s.respondJSON(w, http.StatusOK, response)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	healthy := s.engine.Healthy(r.Context())
	status := "ok"
	code := http.StatusOK
	if !healthy {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	s.respondJSON(w, code, &models.HealthResponse{
		Status:               status,
		ElasticsearchHealthy: healthy,
	})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
