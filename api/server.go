// Package api serves the Deltavalue dashboard: a JSON API under /api/v1 and
// server-rendered HTML pages.
package api

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"deltavalue/config"
	"deltavalue/search"
)

const shutdownTimeout = 15 * time.Second

// Server is the HTTP server.
type Server struct {
	router  chi.Router
	cfg     *config.Config
	handler *Handler
	pages   *pages
}

// NewServer wires the catalog and search engine behind the router.
func NewServer(cfg *config.Config, catalog Catalog, engine search.SearchEngine) (*Server, error) {
	if catalog == nil || engine == nil {
		return nil, errors.New("api: catalog and search engine are required")
	}

	p, err := newPages()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		cfg:     cfg,
		handler: NewHandler(catalog, engine),
		pages:   p,
	}
	s.router = s.buildRouter()
	return s, nil
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	httpSrv := &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.WithField("addr", httpSrv.Addr).Info("Server starting")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logrus.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog(logrus.StandardLogger(), "/health"))
	r.Use(middleware.Recoverer)

	origins := []string{"*"}
	if len(s.cfg.Server.CORSOrigins) > 0 {
		origins = s.cfg.Server.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/health", s.handler.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handler.Health)
		r.Get("/dashboard", s.handler.Dashboard)
		r.Get("/stocks", s.handler.Stocks)
		r.Get("/stocks/{symbol}", s.handler.StockDetail)
		r.Get("/stocks/{symbol}/history", s.handler.History)
		r.Get("/etfs", s.handler.ETFs)
		r.Get("/search", s.handler.Search)
	})

	r.Get("/", s.pages.index(s.handler))
	r.Get("/stock/{symbol}", s.pages.stock(s.handler))

	staticFS, _ := fs.Sub(assets, "static")
	r.Handle("/static/*", noCache(http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))))

	return r
}

// noCache disables client caching of static assets.
func noCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		next.ServeHTTP(w, r)
	})
}
