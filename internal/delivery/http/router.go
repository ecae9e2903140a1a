package http

import (
	"log/slog"
	"net/http"
	"time"

	"eventconnect/internal/adapters/ratelimit"
	"eventconnect/internal/delivery/http/controllers"
	"eventconnect/internal/delivery/http/middleware"
	"eventconnect/internal/domain"

	httpSwagger "github.com/swaggo/http-swagger"
)

const loginRoute = "POST /profiles/authenticate"

// RouterConfig carries the controllers and cross-cutting pieces the router wires together.
type RouterConfig struct {
	Logger   *slog.Logger
	Profiles *controllers.ProfileController
	Events   *controllers.EventController
	Catalog  *controllers.CatalogController
	Images   *controllers.ImageController
	Health   *controllers.HealthController

	Verifier       domain.TokenVerifier
	Limiter        ratelimit.Limiter
	LoginRateLimit int
	LoginWindow    time.Duration
	Metrics        *middleware.Metrics
	MetricsHandler http.Handler
	AllowedOrigins []string
}

// NewRouter initializes the HTTP router with all application routes and wraps it with
// metrics, CORS and request logging.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(cfg.Verifier, cfg.Logger)
	loginLimit := middleware.RateLimit(cfg.Limiter, cfg.Metrics, loginRoute, cfg.LoginRateLimit, cfg.LoginWindow)

	// Profiles
	mux.HandleFunc("POST /profiles", cfg.Profiles.Register)
	mux.HandleFunc(loginRoute, loginLimit(cfg.Profiles.Authenticate))
	mux.HandleFunc("GET /profiles/me", auth(cfg.Profiles.Me))

	// Reference data
	mux.HandleFunc("GET /roles", cfg.Catalog.ListRoles)
	mux.HandleFunc("GET /categories", cfg.Catalog.ListCategories)

	// Events
	mux.HandleFunc("GET /events", cfg.Events.ListEvents)
	mux.HandleFunc("GET /events/mine", auth(cfg.Events.ListMyEvents))
	mux.HandleFunc("GET /events/by-category/{categoryID}", cfg.Events.ListEventsByCategory)
	mux.HandleFunc("GET /events/{eventID}", cfg.Events.GetEvent)
	mux.HandleFunc("POST /events", auth(cfg.Events.CreateEvent))
	mux.HandleFunc("PUT /events/{eventID}", auth(cfg.Events.UpdateEvent))
	mux.HandleFunc("DELETE /events/{eventID}", auth(cfg.Events.DeleteEvent))

	// Images
	mux.HandleFunc("GET /upload/images/{filename}", cfg.Images.GetImage)

	// Operations
	mux.HandleFunc("GET /health", cfg.Health.Health)
	if cfg.MetricsHandler != nil {
		mux.Handle("GET /metrics", cfg.MetricsHandler)
	}

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	var handler http.Handler = mux
	if cfg.Metrics != nil {
		handler = cfg.Metrics.Instrument(handler)
	}
	handler = middleware.CORS(cfg.AllowedOrigins, handler)
	return middleware.Logging(cfg.Logger, handler)
}
