package server

import (
	"net/http"
	"time"

	"github.com/bobmcallan/glossa/internal/common"
)

// requireAdmin writes 401 or 403 and returns false unless the request
// carries an admin token.
func requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	p := common.PrincipalFromContext(r.Context())
	if p == nil {
		w.Header().Set("WWW-Authenticate", "Bearer")
		WriteErrorWithCode(w, http.StatusUnauthorized, "Authentication required", "unauthorized")
		return false
	}
	if !p.IsAdmin() {
		WriteErrorWithCode(w, http.StatusForbidden, "Admin access required", "forbidden")
		return false
	}
	return true
}

// handleAdminReload handles POST /api/admin/glossary/reload. On failure the
// previous collection stays active.
func (s *Server) handleAdminReload(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	if !requireAdmin(w, r) {
		return
	}

	start := time.Now()
	col, err := s.app.Glossary.Reload(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("Admin glossary reload failed")
		writeGlossaryError(w, err)
		return
	}

	s.logger.Info().
		Str("subject", common.PrincipalFromContext(r.Context()).Subject).
		Int("terms", col.Len()).
		Msg("Glossary reloaded by admin")

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"source":     col.Source(),
		"terms":      col.Len(),
		"duplicates": col.Duplicates(),
		"loaded_at":  col.LoadedAt(),
		"elapsed":    time.Since(start).String(),
	})
}
