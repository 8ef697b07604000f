/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the storefront UI

RATE LIMITING:
  The admin mutation route carries a token-bucket limiter. It is the
  only write path; everything else is a cheap pure computation over the
  cached rules.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// RouterOptions tunes the router.
type RouterOptions struct {
	CORSOrigins []string
	// AdminWritesPerMinute caps mutation throughput; <= 0 disables the
	// limiter.
	AdminWritesPerMinute int
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://localhost:8080"}
	}

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/rules", h.GetRules)
		r.Get("/status", h.GetStatus)
		r.Get("/slots", h.GetSlots)

		r.Route("/orders", func(r chi.Router) {
			r.Post("/validate", h.ValidatePickup)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/session", h.CreateCheckoutSession)
			r.Post("/callback", h.PaymentCallback)
		})

		r.Route("/admin", func(r chi.Router) {
			if opts.AdminWritesPerMinute > 0 {
				r.Use(writeLimiter(opts.AdminWritesPerMinute))
			}
			r.Put("/rules", h.UpdateRules)
		})
	})

	return r
}

// writeLimiter is a global token bucket over the admin write path.
func writeLimiter(perMinute int) func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), perMinute)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
