package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/hapkiduki/boxspec-go/internal/application/port"
	"github.com/hapkiduki/boxspec-go/internal/infrastructure/config"
	"github.com/hapkiduki/boxspec-go/internal/interfaces/http/handler"
	"github.com/hapkiduki/boxspec-go/internal/interfaces/http/middleware"
)

// newRouter builds the chi router with the full middleware stack.
//
// Parameters:
//   - cfg: loaded configuration
//   - log: application logger
//   - svc: box application service
//   - db: database used by the health check (may be nil)
//
// Returns:
//   - http.Handler: the root handler
func newRouter(cfg *config.Config, log port.Logger, svc handler.BoxService, db handler.Pinger) http.Handler {
	r := chi.NewRouter()

	// ============================================================================
	// Middleware stack
	// ============================================================================
	// Order matters! Middleware is executed in the order added.

	// 1. Real IP extraction (for rate limiting and logging)
	r.Use(middleware.RealIP)

	// 2. Request ID generation/propagation
	r.Use(middleware.RequestID)

	// 3. Logging (after Request ID so it's included in logs)
	r.Use(middleware.Logger(log))

	// 4. Panic recovery
	r.Use(middleware.Recoverer(log))

	// 5. Request timeout
	if cfg.Server.RequestTimeout > 0 {
		r.Use(chimw.Timeout(cfg.Server.RequestTimeout))
	}

	// 6. CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "X-API-Version", "Location"},
		MaxAge:         300,
	}))

	// 7. Rate limiting
	if cfg.RateLimit.Enabled {
		r.Use(middleware.RateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
			KeyFunc:           middleware.ClientIP,
		}))
	}

	// 8. Security headers
	r.Use(middleware.SecureHeaders)

	// 9. API version header
	r.Use(middleware.APIVersion(version))

	// 10. Content-Type enforcement
	r.Use(middleware.ContentTypeJSON)

	// ============================================================================
	// Routes
	// ============================================================================

	r.Method(http.MethodGet, "/health", handler.NewHealthHandler(version, db))
	r.Route("/api/v1", handler.NewBoxHandler(svc, log, version, cfg.Server.MaxRequestSize).Routes)

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	return r
}
