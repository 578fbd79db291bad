package server

import (
	"errors"
	"net/http"

	"github.com/bobmcallan/glossa/internal/clients/youtube"
	"github.com/bobmcallan/glossa/internal/common"
)

// handleVideoSearch handles GET /api/videos/search?q=
func (s *Server) handleVideoSearch(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	query := common.SanitizeInput(r.URL.Query().Get("q"))
	if query == "" {
		WriteErrorWithCode(w, http.StatusBadRequest, "Query required", "query_required")
		return
	}

	if s.app.Videos == nil || !s.app.Videos.Configured() {
		WriteErrorWithCode(w, http.StatusInternalServerError, "API configuration error", "api_configuration_error")
		return
	}

	result, err := s.app.Videos.SearchVideos(r.Context(), query)
	if err != nil {
		if errors.Is(err, youtube.ErrNotConfigured) {
			WriteErrorWithCode(w, http.StatusInternalServerError, "API configuration error", "api_configuration_error")
			return
		}
		s.logger.Error().Err(err).Str("query", query).Msg("Video search failed")
		WriteErrorWithCode(w, http.StatusBadGateway, "Search failed", "upstream_error")
		return
	}

	WriteJSON(w, http.StatusOK, result)
}
