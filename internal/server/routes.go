package server

import (
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/glossa/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.Handle("/metrics", s.app.Metrics.Handler())

	// Glossary
	mux.HandleFunc("/api/glossary", s.handleDirectory)
	mux.HandleFunc("/api/glossary/categories", s.handleCategories)
	mux.HandleFunc("/api/glossary/letters", s.handleLetters)
	mux.HandleFunc("/api/glossary/suggest", s.handleSuggest)
	mux.HandleFunc("/api/glossary/terms/", s.handleTerm)
	mux.HandleFunc("/api/glossary/live", s.handleLive)

	// Admin
	mux.HandleFunc("/api/admin/glossary/reload", s.handleAdminReload)

	// Videos
	mux.HandleFunc("/api/videos/search", s.handleVideoSearch)

	// MCP over Streamable HTTP
	if s.app.MCPServer != nil {
		mux.Handle("/mcp", mcpserver.NewStreamableHTTPServer(s.app.MCPServer,
			mcpserver.WithStateLess(true),
		))
	}
}

// handleHealth responds to GET/HEAD /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.app.StartupTime).Round(time.Second).String(),
	})
}

// handleVersion responds to GET/HEAD /api/version with build info.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, common.GetVersionInfo())
}
