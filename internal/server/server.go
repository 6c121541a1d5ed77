// Package server serves the site: first renders over HTTP, live sessions
// over websockets, the route table and search over a small JSON API, and
// content hot reload in development.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/conneroisu/sprout/internal/config"
	"github.com/conneroisu/sprout/internal/content"
	"github.com/conneroisu/sprout/internal/logging"
	"github.com/conneroisu/sprout/internal/router"
	"github.com/conneroisu/sprout/internal/search"
	"github.com/conneroisu/sprout/internal/watcher"
)

// siteState is everything derived from one loaded site. It is replaced as
// a whole on reload.
type siteState struct {
	site  *content.Site
	table *router.Table
	index *search.Index
}

// Server is the site's HTTP server.
type Server struct {
	config      *config.Config
	store       *content.Store
	logger      logging.Logger
	version     string
	hub         *Hub
	watcher     *watcher.FileWatcher
	httpServer  *http.Server
	serverMutex sync.RWMutex

	stateMutex sync.RWMutex
	state      *siteState

	shutdownOnce sync.Once
}

// New creates a server over the content in store.
func New(cfg *config.Config, store *content.Store, version string, logger logging.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	logger = logger.WithComponent("server")

	s := &Server{
		config:  cfg,
		store:   store,
		logger:  logger,
		version: version,
		hub:     NewHub(logger),
	}

	state, err := s.buildState(store.Site())
	if err != nil {
		return nil, err
	}
	s.state = state

	return s, nil
}

func (s *Server) buildState(site *content.Site) (*siteState, error) {
	state := &siteState{
		site:  site,
		table: router.DefaultTable(len(site.Guide)),
	}
	if s.config.Search.Enabled {
		index, err := search.Build(site)
		if err != nil {
			return nil, fmt.Errorf("failed to build search index: %w", err)
		}
		state.index = index
	}

	return state, nil
}

// current returns the site state. Callers that use the search index must
// hold stateMutex for reading instead, since reload closes the old index.
func (s *Server) current() *siteState {
	s.stateMutex.RLock()
	defer s.stateMutex.RUnlock()

	return s.state
}

// Handler returns the server's HTTP handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/routes", s.handleRoutes)
	mux.HandleFunc("/api/search", s.handleSearch)
	mux.HandleFunc("/static/", s.handleStatic)
	mux.HandleFunc("/", s.handlePage)

	return s.addMiddleware(mux)
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	if s.config.Development.HotReload {
		if err := s.setupFileWatcher(ctx); err != nil {
			s.logger.Warn(ctx, err, "Hot reload disabled")
		}
	}

	s.serverMutex.Lock()
	s.httpServer = &http.Server{
		Addr:              s.config.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	server := s.httpServer
	s.serverMutex.Unlock()

	s.logger.Info(ctx, "Server listening", "addr", server.Addr)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

func (s *Server) setupFileWatcher(ctx context.Context) error {
	dir := s.store.Dir()
	if dir == "" {
		return fmt.Errorf("content is embedded; set content.dir to watch files")
	}

	delay := time.Duration(s.config.Development.DebounceMilli) * time.Millisecond
	fw, err := watcher.NewFileWatcher(delay, s.logger)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	fw.AddFilter(watcher.ContentFilter)
	fw.AddFilter(watcher.NoHiddenFilter)
	fw.AddHandler(s.handleFileChange)

	if err := fw.AddRecursive(dir); err != nil {
		_ = fw.Stop()

		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	fw.Start(ctx)
	s.watcher = fw
	s.logger.Info(ctx, "Watching content", "dir", dir)

	return nil
}

func (s *Server) handleFileChange(ctx context.Context, events []watcher.ChangeEvent) error {
	for _, event := range events {
		s.logger.Debug(ctx, "File changed", "path", event.Path, "type", event.Type.String())
	}

	return s.Reload(ctx)
}

// Reload re-reads the content and swaps in a new route table and search
// index. Live sessions are told to reload. A failed reload leaves the
// current site in place.
func (s *Server) Reload(ctx context.Context) error {
	if err := s.store.Reload(ctx); err != nil {
		return err
	}

	state, err := s.buildState(s.store.Site())
	if err != nil {
		return err
	}

	s.stateMutex.Lock()
	old := s.state
	s.state = state
	s.stateMutex.Unlock()

	if old.index != nil {
		if err := old.index.Close(); err != nil {
			s.logger.Warn(ctx, err, "Failed to close previous search index")
		}
	}

	s.hub.Broadcast(ctx, frame{Type: frameReload})

	return nil
}

// Shutdown stops the watcher, closes live sessions, and shuts the HTTP
// server down gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.logger.Info(ctx, "Shutting down server")

		if s.watcher != nil {
			if err := s.watcher.Stop(); err != nil {
				s.logger.Warn(ctx, err, "Failed to stop file watcher")
			}
		}

		s.hub.CloseAll()

		s.serverMutex.RLock()
		server := s.httpServer
		s.serverMutex.RUnlock()

		if server != nil {
			shutdownErr = server.Shutdown(ctx)
		}

		s.stateMutex.Lock()
		if s.state.index != nil {
			_ = s.state.index.Close()
			next := *s.state
			next.index = nil
			s.state = &next
		}
		s.stateMutex.Unlock()
	})

	return shutdownErr
}
