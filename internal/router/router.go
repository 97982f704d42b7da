package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"catalog-backend/internal/handlers"
	"catalog-backend/internal/metrics"
	"catalog-backend/internal/middleware"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth      *handlers.AuthHandler
	Catalog   *handlers.CatalogHandler
	Content   *handlers.ContentHandler
	Dashboard *handlers.DashboardHandler
	Upcoming  *handlers.UpcomingHandler
	Demand    *handlers.DemandHandler
	WebSocket http.HandlerFunc
}

// Settings holds the deployment knobs the router needs.
type Settings struct {
	FrontendURL string
	// TrustProxy folds X-Forwarded-For / X-Real-IP into RemoteAddr. Enable
	// only behind a proxy that overwrites those headers.
	TrustProxy bool
	Log        *logrus.Entry
}

func New(jwtAuth *middleware.JWTAuth, h Handlers, s Settings) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	if s.TrustProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog(s.Log))
	r.Use(chimiddleware.Recoverer)
	r.Use(metrics.Middleware)
	r.Use(middleware.CORS(s.FrontendURL))

	// Login rate limiter (10 req/min per IP)
	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Auth Routes (public) ────
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/login", h.Auth.Login)
		})

		// ──── Catalog Routes (public) ────
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/", h.Catalog.List)
			r.Get("/grouped", h.Catalog.Grouped)
			r.Get("/features", h.Catalog.Features)
			r.Get("/{id}", h.Catalog.Get)
			r.Post("/{id}/views", h.Catalog.IncrementViews)
		})

		r.Route("/rails", func(r chi.Router) {
			r.Get("/feature", h.Catalog.FeatureRail)
			r.Get("/genre", h.Catalog.GenreRail)
		})

		r.Get("/upcoming", h.Upcoming.List)
		r.Post("/demands", h.Demand.Submit)

		// ──── Admin Routes ────
		r.Route("/admin", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)

			r.Route("/content", func(r chi.Router) {
				r.Get("/", h.Content.List)
				r.Post("/movies", h.Content.CreateMovie)
				r.Post("/shows", h.Content.CreateShow)
				r.Post("/web-series", h.Content.CreateWebSeries)
				r.Put("/{id}", h.Content.Update)
				r.Delete("/{id}", h.Content.Delete)
			})

			r.Get("/stats", h.Dashboard.Stats)
			r.Get("/audit/orphans", h.Dashboard.Orphans)

			r.Route("/upcoming", func(r chi.Router) {
				r.Post("/", h.Upcoming.Create)
				r.Put("/{id}", h.Upcoming.Update)
				r.Delete("/{id}", h.Upcoming.Delete)
			})

			r.Route("/demands", func(r chi.Router) {
				r.Get("/", h.Demand.List)
				r.Delete("/{id}", h.Demand.Delete)
			})
		})

		// ──── WebSocket ────
		r.Get("/ws", h.WebSocket)
	})

	return r
}
