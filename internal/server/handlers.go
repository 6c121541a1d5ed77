package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/conneroisu/sprout/internal/app"
	siteerrors "github.com/conneroisu/sprout/internal/errors"
	"github.com/conneroisu/sprout/internal/router"
	"github.com/conneroisu/sprout/internal/search"
	"github.com/conneroisu/sprout/internal/view"
)

// handlePage renders any site path. Unknown paths render the home page
// rather than a 404.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)

		return
	}

	state := s.current()
	program := app.NewProgram(router.New(state.table, nil), s.logger)
	data := view.Data{
		Model:   program.Init(r.Context(), router.FromStdURL(r.URL)),
		Site:    state.site,
		Version: s.version,
		Live:    true,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := view.Document(data).Render(r.Context(), w); err != nil {
		renderErr := siteerrors.ErrRender("document", err).WithContext("path", r.URL.Path)
		s.logger.Error(r.Context(), renderErr, "Failed to render page",
			"path", r.URL.Path,
			"code", renderErr.Code)
	}
}

// handleHealth returns the server health status for health checks
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)

		return
	}

	state := s.current()
	s.writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"version":   s.version,
		"checks": map[string]interface{}{
			"content":  map[string]interface{}{"sections": len(state.site.Guide), "releases": len(state.site.Changelog)},
			"routes":   map[string]interface{}{"count": state.table.Len()},
			"sessions": map[string]interface{}{"count": s.hub.Len()},
			"search":   map[string]interface{}{"enabled": state.index != nil},
		},
	})
}

// handleRoutes lists the route table in registration order.
func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)

		return
	}

	s.writeJSON(w, r, http.StatusOK, map[string]interface{}{
		"routes": s.current().table.Entries(),
	})
}

type searchResponse struct {
	Query string       `json:"query"`
	Hits  []search.Hit `json:"hits"`
}

// handleSearch runs a full-text query over the guide and changelog.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)

		return
	}

	query := r.URL.Query().Get("q")
	limit := s.config.Search.MaxResults
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)

			return
		}
		if n < limit {
			limit = n
		}
	}

	// The read lock keeps reload from closing the index mid-query.
	s.stateMutex.RLock()
	index := s.state.index
	if index == nil {
		s.stateMutex.RUnlock()
		http.Error(w, "Search is disabled", http.StatusNotFound)

		return
	}
	hits, err := index.Search(r.Context(), query, limit)
	s.stateMutex.RUnlock()

	if err != nil {
		s.logger.Error(r.Context(), err, "Search failed", "query", query)
		http.Error(w, "Search failed", http.StatusInternalServerError)

		return
	}

	s.writeJSON(w, r, http.StatusOK, searchResponse{Query: query, Hits: hits})
}

// handleStatic serves the embedded client assets and the highlight
// stylesheet of the current site.
func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/static/")
	if name == "highlight.css" {
		w.Header().Set("Content-Type", "text/css; charset=utf-8")
		_, _ = w.Write([]byte(s.current().site.CSS))

		return
	}

	http.StripPrefix("/static/", http.FileServer(http.FS(view.Static()))).ServeHTTP(w, r)
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error(r.Context(), err, "Failed to encode response", "path", r.URL.Path)
	}
}
