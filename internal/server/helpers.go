package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/bobmcallan/glossa/internal/glossary"
)

// ErrorResponse is the standard error format for REST API responses.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Directory string `json:"directory,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// WriteError writes a JSON error response.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message})
}

// WriteErrorWithCode writes a JSON error response with an error code.
func WriteErrorWithCode(w http.ResponseWriter, statusCode int, message, code string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message, Code: code})
}

// RequireMethod validates the HTTP method and returns true if it matches.
// If it doesn't match, it writes a 405 response and returns false.
func RequireMethod(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	return false
}

// QueryInt reads an integer query parameter. A missing parameter yields def;
// a malformed one writes a 400 and returns false.
func QueryInt(w http.ResponseWriter, r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		WriteErrorWithCode(w, http.StatusBadRequest, name+" must be a non-negative integer", "invalid_parameter")
		return 0, false
	}
	return n, true
}

// writeGlossaryError maps glossary errors onto HTTP responses.
func writeGlossaryError(w http.ResponseWriter, err error) {
	switch {
	case glossary.IsLoadError(err):
		WriteErrorWithCode(w, http.StatusServiceUnavailable, "Glossary unavailable", "glossary_unavailable")
	case errors.Is(err, glossary.ErrInvalidFacet):
		WriteErrorWithCode(w, http.StatusBadRequest, err.Error(), "invalid_facet")
	case errors.Is(err, glossary.ErrNotFound):
		WriteJSON(w, http.StatusNotFound, ErrorResponse{
			Error:     "Term not found",
			Code:      "term_not_found",
			Directory: glossary.DirectoryPath,
		})
	default:
		WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}
