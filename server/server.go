package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/meditationhr/config"
	"github.com/meditationhr/data"
	"github.com/meditationhr/models"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// Server serves the dashboard for one loaded dataset. The store is read-only after
// load; only the per-session filter states change.
type Server struct {
	store    *models.SampleStore
	palette  config.Palette
	origin   data.Origin
	sessions *sessionStore
	router   *chi.Mux
}

// New wires the routes for a loaded store.
func New(store *models.SampleStore, palette config.Palette, origin data.Origin) *Server {
	s := &Server{
		store:    store,
		palette:  palette,
		origin:   origin,
		sessions: newSessionStore(models.NewFilterState(store)),
		router:   chi.NewRouter(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(loggingMiddleware)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/", s.indexHandler)
	s.router.Post("/filter", s.filterHandler)
	s.router.Post("/select", s.selectHandler)
	s.router.Post("/clear", s.clearHandler)
	s.router.Get("/chart", s.chartHandler)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/state", s.stateHandler)
		r.Post("/actions", s.actionsHandler)
		r.Get("/series", s.seriesHandler)
		r.Get("/domain", s.domainHandler)
		r.Get("/insights", s.insightsHandler)
		r.Get("/nearest", s.nearestHandler)
		r.Get("/timeline", s.timelineHandler)
		r.Get("/frame", s.frameHandler)
	})
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Println("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
