package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/yegors/flight-tracker/internal/config"
	"github.com/yegors/flight-tracker/pkg/logger"
	"golang.org/x/time/rate"
)

// Router is the API router
type Router struct {
	handler    *Handler
	middleware *Middleware
	static     http.Handler
	config     *config.Config
	logger     *logger.Logger
}

// NewRouter creates a new API router
func NewRouter(handler *Handler, static http.Handler, config *config.Config, logger *logger.Logger) *Router {
	return &Router{
		handler:    handler,
		middleware: NewMiddleware(logger),
		static:     static,
		config:     config,
		logger:     logger.Named("api-router"),
	}
}

// Routes returns the HTTP routes
func (r *Router) Routes() http.Handler {
	router := chi.NewRouter()

	// Middleware
	router.Use(r.middleware.RequestID)
	router.Use(r.middleware.Logger)
	router.Use(r.middleware.Recoverer)
	router.Use(r.middleware.CORS(r.config.Server.CORSAllowedOrigins))
	if rl := r.config.RateLimit; rl.RequestsPerSecond > 0 {
		burst := max(rl.Burst, 1)
		router.Use(r.middleware.RateLimit(rate.NewLimiter(rate.Limit(rl.RequestsPerSecond), burst)))
		r.logger.Info("Rate limiting enabled",
			logger.Any("requests_per_second", rl.RequestsPerSecond),
			logger.Int("burst", burst),
		)
	}

	// Health check
	router.Get("/health", r.handler.GetHealth)

	// API routes. Registered with full paths so unknown /api paths fall
	// through to the application shell like any other path.
	router.Get("/api/flights/live", r.handler.GetLiveFlights)
	router.Get("/api/flights/search", r.handler.SearchFlight)
	router.Get("/api/airports", r.handler.GetAirports)
	router.Get("/api/airlines", r.handler.GetAirlines)
	if r.handler.queryLog != nil {
		router.Get("/api/queries/recent", r.handler.GetRecentQueries)
	}

	// Static client and single-page-app fallback
	if r.static != nil {
		router.Handle("/*", r.static)
	}

	return router
}
