// Package web provides the HTTP server and handlers for the campaign
// management API.
package web

import (
	"context"
	"net/http"

	"github.com/digivantrix/campaigns/internal/config"
	"github.com/digivantrix/campaigns/internal/core"
	"github.com/digivantrix/campaigns/internal/monitor"
	appmw "github.com/digivantrix/campaigns/internal/web/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP server for the campaign management API.
type Server struct {
	service *core.Service
	cfg     *config.Config
	router  *chi.Mux
	server  *http.Server
}

// NewServer creates a Server wired to the given service and configuration.
func NewServer(service *core.Service, cfg *config.Config) *Server {
	s := &Server{
		service: service,
		cfg:     cfg,
		router:  chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(appmw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(appmw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
	s.router.Use(securityHeaders)

	if s.cfg.Rate.Enabled {
		limiter := newRateLimiter(s.cfg.Rate.RequestsPerMinute)
		s.router.Use(limiter.middleware)
	}
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Handle("/metricsz", monitor.Handler())

	s.router.Post("/login", s.handleLogin)

	s.router.Group(func(r chi.Router) {
		r.Use(appmw.SessionAuth(s.service, s.cfg.Session.CookieName))

		r.Post("/logout", s.handleLogout)

		// User management is admin-only.
		r.Route("/users", func(r chi.Router) {
			r.Use(appmw.RequireAdmin)
			r.Post("/", s.handleCreateUser)
			r.Get("/", s.handleListUsers)
			r.Get("/{id}", s.handleGetUser)
			r.Put("/{id}", s.handleUpdateUser)
			r.Delete("/{id}", s.handleDeleteUser)
		})

		// Everything else requires manager or admin.
		r.Group(func(r chi.Router) {
			r.Use(appmw.RequireManagerOrAdmin)

			r.Route("/clients", func(r chi.Router) {
				r.Post("/", s.handleCreateClient)
				r.Get("/", s.handleListClients)
				r.Get("/{id}", s.handleGetClient)
				r.Put("/{id}", s.handleUpdateClient)
				r.Delete("/{id}", s.handleDeleteClient)
			})

			r.Route("/platforms", func(r chi.Router) {
				r.Post("/", s.handleCreatePlatform)
				r.Get("/", s.handleListPlatforms)
				r.Delete("/{id}", s.handleDeletePlatform)
			})

			r.Route("/tags", func(r chi.Router) {
				r.Post("/", s.handleCreateTag)
				r.Get("/", s.handleListTags)
				r.Delete("/{id}", s.handleDeleteTag)
			})

			r.Route("/campaigns", func(r chi.Router) {
				r.Post("/", s.handleCreateCampaign)
				r.Get("/", s.handleListCampaigns)
				r.Get("/{id}", s.handleGetCampaign)
				r.Put("/{id}", s.handleUpdateCampaign)
				r.Delete("/{id}", s.handleDeleteCampaign)
			})

			r.Route("/metrics", func(r chi.Router) {
				r.Post("/upload-csv", s.handleUploadMetrics)
				r.Get("/", s.handleListMetrics)
				r.Get("/{id}", s.handleGetMetric)
				r.Put("/{id}", s.handleUpdateMetric)
				r.Delete("/{id}", s.handleDeleteMetric)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Get("/top-campaigns", s.handleTopCampaigns)
				r.Get("/summary", s.handleSummary)
				r.Get("/export", s.handleExport)
			})
		})
	})
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// securityHeaders adds defensive HTTP headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}
