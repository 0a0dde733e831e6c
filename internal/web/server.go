// Package web provides the HTTP server for the loved ones tracker: the HTML
// page, the form and delete endpoints, the JSON API and exports.
package web

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JonMunkholm/LovedOnes/internal/config"
	"github.com/JonMunkholm/LovedOnes/internal/core"
	"github.com/JonMunkholm/LovedOnes/internal/images"
	mw "github.com/JonMunkholm/LovedOnes/internal/web/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const defaultCSP = "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; form-action 'self'; frame-ancestors 'none'"

// Server is the HTTP server.
type Server struct {
	service  *core.Service
	images   *images.Store
	cfg      *config.Config
	router   *chi.Mux
	server   *http.Server
	registry *prometheus.Registry

	// resizes bounds concurrent photo decoding.
	resizes *images.Limiter

	// requestLimiter covers every route except photos, which the page
	// requests once per record and which resizes already bounds.
	requestLimiter *mw.RateLimiter

	// mutationLimiter is shared by the page and API write routes so both
	// draw from one bucket per IP.
	mutationLimiter *mw.RateLimiter
}

// NewServer wires routes and middleware. imgs may be nil, which disables
// photo uploads and display.
func NewServer(service *core.Service, imgs *images.Store, cfg *config.Config) *Server {
	s := &Server{
		service:  service,
		images:   imgs,
		cfg:      cfg,
		router:   chi.NewRouter(),
		registry: prometheus.NewRegistry(),
		resizes:  images.NewLimiter(cfg.Image.MaxConcurrent, cfg.Image.MaxWait),
	}
	s.setupMetrics()
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

func (s *Server) setupMetrics() {
	s.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "loved_ones_records",
			Help: "Number of records currently stored",
		}, func() float64 {
			return float64(s.service.Count())
		}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "loved_ones_photo_resizes_active",
			Help: "Number of photos currently being resized",
		}, func() float64 {
			return float64(s.resizes.Active())
		}),
	)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(mw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	if s.cfg.Metrics.Enabled {
		s.router.Use(mw.NewMetrics(s.registry).Handler)
	}
	s.router.Use(mw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))
	s.router.Use(securityHeaders(s.cfg.Security.EnableCSP))

	if s.cfg.Rate.Enabled {
		s.requestLimiter = s.newLimiter(s.cfg.Rate.RequestsPerMinute)
		s.mutationLimiter = s.newLimiter(s.cfg.Rate.MutationLimit)
	}
}

func (s *Server) setupRoutes() {
	s.router.Get("/records/{id}/photo", s.handlePhoto)

	s.router.Group(func(r chi.Router) {
		r.Use(s.requestLimit)

		r.Get("/healthz", s.handleHealth)
		if s.cfg.Metrics.Enabled {
			r.Method(http.MethodGet, s.cfg.Metrics.Path, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
		}

		// Pages
		r.Get("/", s.handleHome)
		r.Group(func(r chi.Router) {
			r.Use(s.mutationLimit)
			r.Post("/records", s.handleCreate)
			r.Post("/records/{id}/delete", s.handleDelete)
		})

		// JSON API
		r.Route("/api", func(r chi.Router) {
			r.Use(mw.APIKeyAuth(s.cfg.Security))

			r.Get("/records", s.handleAPIList)
			r.Get("/records/{id}", s.handleAPIGet)
			r.Get("/export", s.handleExport)

			r.Group(func(r chi.Router) {
				r.Use(s.mutationLimit)
				r.Post("/records", s.handleAPICreate)
				r.Delete("/records/{id}", s.handleAPIDelete)
			})
		})
	})
}

// newLimiter builds a per-IP limiter whose rejections go through respondError.
func (s *Server) newLimiter(perMinute int) *mw.RateLimiter {
	rl := mw.NewRateLimiter(perMinute)
	rl.Deny = func(w http.ResponseWriter, r *http.Request) {
		s.respondError(w, r, errRateLimited, http.StatusTooManyRequests)
	}
	return rl
}

// requestLimit applies the general per-IP limit, or nothing when rate
// limiting is off.
func (s *Server) requestLimit(next http.Handler) http.Handler {
	if s.requestLimiter == nil {
		return next
	}
	return s.requestLimiter.Handler(next)
}

// mutationLimit applies the stricter save/delete limit, or nothing when rate
// limiting is off.
func (s *Server) mutationLimit(next http.Handler) http.Handler {
	if s.mutationLimiter == nil {
		return next
	}
	return s.mutationLimiter.Handler(next)
}

// Start listens on the configured address until Shutdown.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
	}

	slog.Info("starting server", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	err := s.server.Shutdown(ctx)
	if derr := s.resizes.WaitForDrain(ctx); derr != nil && err == nil {
		err = derr
	}
	return err
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// securityHeaders sets the response hardening headers on every response.
func securityHeaders(enableCSP bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			if enableCSP {
				h.Set("Content-Security-Policy", defaultCSP)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// writeJSON encodes v with status. Encoding errors are only logged since the
// header is already sent.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("json encode error", "path", r.URL.Path, "error", err)
	}
}

// acceptList turns configured extensions into an <input accept> value.
func acceptList(exts []string) string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
		if ext != "" {
			out = append(out, "."+strings.ToLower(ext))
		}
	}
	return strings.Join(out, ",")
}
