package server

import (
	"net/http"
	"strings"

	"github.com/bobmcallan/glossa/internal/glossary"
	"github.com/bobmcallan/glossa/internal/models"
)

// fallbackHint is shown when no term is selected.
const fallbackHint = "Select a term from the directory or search bar"

// handleDirectory handles GET /api/glossary?category=&letter=&q=&offset=&limit=
func (s *Server) handleDirectory(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	q := r.URL.Query()
	facets := models.Facets{
		Category: q.Get("category"),
		Letter:   q.Get("letter"),
		Query:    q.Get("q"),
	}
	offset, ok := QueryInt(w, r, "offset", 0)
	if !ok {
		return
	}
	limit, ok := QueryInt(w, r, "limit", 0)
	if !ok {
		return
	}

	page, err := s.app.Glossary.Directory(r.Context(), facets, offset, limit)
	if err != nil {
		s.logGlossaryError(err, "Directory listing failed")
		writeGlossaryError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, page)
}

// handleCategories handles GET /api/glossary/categories
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	categories, err := s.app.Glossary.Categories(r.Context())
	if err != nil {
		s.logGlossaryError(err, "Category listing failed")
		writeGlossaryError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"categories": categories,
	})
}

// handleLetters handles GET /api/glossary/letters
func (s *Server) handleLetters(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	letters, err := s.app.Glossary.Letters(r.Context())
	if err != nil {
		s.logGlossaryError(err, "Letter listing failed")
		writeGlossaryError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"letters": letters,
	})
}

// handleSuggest handles GET /api/glossary/suggest?q=&limit=
func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	limit, ok := QueryInt(w, r, "limit", 0)
	if !ok {
		return
	}
	prefix := r.URL.Query().Get("q")

	suggestions, err := s.app.Glossary.Suggest(r.Context(), prefix, limit)
	if err != nil {
		s.logGlossaryError(err, "Suggest failed")
		writeGlossaryError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"query":       prefix,
		"suggestions": suggestions,
	})
}

// handleTerm handles GET /api/glossary/terms/{slug}. The slug is read from
// the escaped path so names containing "/" survive.
func (s *Server) handleTerm(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	slug := strings.TrimPrefix(r.URL.EscapedPath(), "/api/glossary/terms/")
	if strings.TrimSpace(slug) == "" {
		WriteJSON(w, http.StatusOK, map[string]string{
			"message":   fallbackHint,
			"directory": glossary.DirectoryPath,
		})
		return
	}

	detail, err := s.app.Glossary.Term(r.Context(), slug)
	if err != nil {
		s.logGlossaryError(err, "Term lookup failed")
		writeGlossaryError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, detail)
}

// logGlossaryError logs failures that are not the caller's fault.
func (s *Server) logGlossaryError(err error, msg string) {
	if glossary.IsLoadError(err) {
		s.logger.Error().Err(err).Msg(msg)
	}
}
