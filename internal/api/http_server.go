package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"jamservices/internal/config"
	"jamservices/internal/export"
	"jamservices/internal/metrics"
	"jamservices/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

// Deps are the services the HTTP API drives.
type Deps struct {
	Sessions *service.SessionService
	Checkout *service.CheckoutService
	History  *service.HistoryService
	Exporter *export.Exporter
	Location *time.Location
}

// HTTPServer exposes the booking wizard as a JSON API.
type HTTPServer struct {
	cfg    config.APIConfig
	deps   Deps
	auth   *HTTPAuth
	router chi.Router
	server *http.Server
	logger *zerolog.Logger
}

func NewHTTPServer(cfg config.APIConfig, deps Deps, logger *zerolog.Logger) *HTTPServer {
	if deps.Location == nil {
		deps.Location = time.Local
	}
	srv := &HTTPServer{
		cfg:    cfg,
		deps:   deps,
		auth:   NewHTTPAuth(cfg),
		logger: logger,
	}
	srv.router = srv.routes()

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           srv.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
	}
	return srv
}

func (s *HTTPServer) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.auth.RateLimit)

		r.Get("/catalog", s.handleCatalog)
		r.Get("/catalog/{serviceID}", s.handleService)
		r.Get("/time-slots", s.handleTimeSlots)
		r.Get("/calendar", s.handleCalendar)

		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Post("/service", s.handleSelectService)
			r.Post("/subcategory", s.handleSelectSubcategory)
			r.Post("/date", s.handleSelectDate)
			r.Post("/time", s.handleSelectTime)
			r.Post("/advance", s.handleAdvance)
			r.Post("/retreat", s.handleRetreat)
			r.Post("/details", s.handleDetails)
			r.Post("/validate", s.handleValidateField)
			r.Post("/payment", s.handlePayment)
		})

		r.Route("/bookings", func(r chi.Router) {
			r.With(s.auth.Require(PermExportBookings)).Get("/export", s.handleExport)
			r.Group(func(r chi.Router) {
				r.Use(s.auth.Require(PermReadBookings))
				r.Get("/", s.handleListBookings)
				r.Get("/{bookingID}", s.handleGetBooking)
			})
		})
	})
	return r
}

// Handler is the routed handler, for tests and embedding.
func (s *HTTPServer) Handler() http.Handler { return s.router }

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		metrics.IncHTTP(route)

		s.logger.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("route", route).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}
