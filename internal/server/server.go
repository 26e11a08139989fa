// Package server exposes the draft engine over a REST API and a live
// websocket draft session endpoint.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/BigFish003/MTGnew/internal"
	"github.com/BigFish003/MTGnew/internal/catalog"
	"github.com/BigFish003/MTGnew/internal/config"
	"github.com/BigFish003/MTGnew/internal/storage"
)

// Server hosts draft sessions for external agents.
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	port       int

	manager *Manager
	index   *catalog.Index
	store   *storage.Service // nil disables persistence
	cfg     config.DraftConfig
}

// NewServer wires the router over a catalog index. The store may be nil.
func NewServer(port int, index *catalog.Index, cfg config.DraftConfig, store *storage.Service) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		port:    port,
		manager: NewManager(index, cfg),
		index:   index,
		store:   store,
		cfg:     cfg,
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.healthCheck)
	s.router.Get("/ws", s.serveWs)

	s.router.Route("/api/v1/drafts", func(r chi.Router) {
		r.Post("/", s.createDraft)
		r.Route("/{draftID}", func(r chi.Router) {
			r.Get("/", s.getDraft)
			r.Post("/reset", s.resetDraft)
			r.Post("/pick", s.pick)
			r.Get("/mask", s.mask)
			r.Get("/pool", s.pool)
			r.Post("/deck", s.buildDeck)
			r.Delete("/", s.deleteDraft)
		})
	})
}

// Start listens until the context is cancelled, then drains connections.
func (s *Server) Start(ctx context.Context) error {
	logger := internal.GetLogger()

	s.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infow("Listening", "port", s.port)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Infow("Server stopped")
	return nil
}

// Handler returns the underlying router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) healthCheck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "mtgnew-draft",
	})
}
