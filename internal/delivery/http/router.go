package http

import (
	"context"
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventsapp/internal/delivery/http/controllers"
	"eventsapp/internal/delivery/http/helpers"
	"eventsapp/internal/delivery/http/middleware"
	"eventsapp/internal/delivery/http/web"
	"eventsapp/internal/domain"
	"eventsapp/internal/metrics"
)

// RouterConfig carries the services and settings the router wires together.
type RouterConfig struct {
	Logger        *slog.Logger
	Auth          domain.AuthService
	Events        domain.EventService
	Pages         *web.Renderer
	CSRFKey       []byte
	SecureCookies bool

	CORSAllowedOrigins []string
	AuthRateLimitRPS   float64
	AuthRateLimitBurst int

	// Ping reports database health for /healthz. Nil means always healthy.
	Ping func(ctx context.Context) error
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(cfg RouterConfig) http.Handler {
	limiter := middleware.NewRateLimiter(cfg.AuthRateLimitRPS, cfg.AuthRateLimitBurst)

	mux := http.NewServeMux()
	mux.Handle("/api/", newAPIMux(cfg, limiter))

	pages := web.NewHandler(cfg.Logger, cfg.Auth, cfg.Events, cfg.Pages, cfg.SecureCookies)
	csrf := middleware.CSRFProtection(cfg.CSRFKey, cfg.SecureCookies, http.HandlerFunc(pages.CSRFFailure))
	mux.Handle("/", csrf(newWebMux(pages, limiter)))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /healthz", healthHandler(cfg.Logger, cfg.Ping))

	var handler http.Handler = mux
	handler = middleware.LoadSession(cfg.Auth, cfg.Logger)(handler)
	handler = middleware.CORS(cfg.CORSAllowedOrigins, handler)
	handler = metrics.HTTPMiddleware(handler)
	handler = middleware.LoggingMiddleware(cfg.Logger, handler)
	return handler
}

func newAPIMux(cfg RouterConfig, limiter *middleware.RateLimiter) *http.ServeMux {
	events := controllers.NewEventController(cfg.Logger, cfg.Events)
	auth := controllers.NewAuthController(cfg.Logger, cfg.Auth, cfg.SecureCookies)
	requireAuth := middleware.RequireAPIAuth

	mux := http.NewServeMux()

	// Events
	mux.HandleFunc("GET /api/events", requireAuth(events.ListEvents))
	mux.HandleFunc("POST /api/events/create", requireAuth(events.CreateEvent))
	mux.HandleFunc("GET /api/events/{id}", requireAuth(events.GetEvent))
	mux.HandleFunc("PUT /api/events/{id}", requireAuth(events.UpdateEvent))
	mux.HandleFunc("DELETE /api/events/{id}", requireAuth(events.DeleteEvent))
	mux.HandleFunc("GET /api/categories", events.ListCategories)

	// Auth
	mux.HandleFunc("POST /api/signup", limiter.Limit(auth.SignUp))
	mux.HandleFunc("POST /api/login", limiter.Limit(auth.Login))
	mux.HandleFunc("GET /api/logout", auth.Logout)

	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "route not found")
	})
	return mux
}

func newWebMux(h *web.Handler, limiter *middleware.RateLimiter) *http.ServeMux {
	requireLogin := middleware.RequireLogin

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.Home)

	mux.HandleFunc("GET /login/{$}", h.LoginPage)
	mux.HandleFunc("POST /login/{$}", limiter.Limit(h.Login))
	mux.HandleFunc("GET /signup/{$}", h.SignupPage)
	mux.HandleFunc("POST /signup/{$}", limiter.Limit(h.Signup))
	mux.HandleFunc("GET /logout/{$}", h.Logout)

	mux.HandleFunc("GET /events/{$}", requireLogin(h.ListEvents))
	mux.HandleFunc("GET /events/create/{$}", requireLogin(h.CreatePage))
	mux.HandleFunc("POST /events/create/{$}", requireLogin(h.Create))
	mux.HandleFunc("GET /events/{id}/{$}", requireLogin(h.Detail))
	mux.HandleFunc("GET /events/{id}/update/{$}", requireLogin(h.UpdatePage))
	mux.HandleFunc("POST /events/{id}/update/{$}", requireLogin(h.Update))
	mux.HandleFunc("GET /events/{id}/delete/{$}", requireLogin(h.Delete))

	mux.HandleFunc("/", h.NotFound)
	return mux
}

func healthHandler(logger *slog.Logger, ping func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ping != nil {
			if err := ping(r.Context()); err != nil {
				logger.ErrorContext(r.Context(), "health check failed", "err", err)
				helpers.WriteJSONError(w, http.StatusServiceUnavailable, helpers.ErrCodeInternalError, "database unavailable")
				return
			}
		}
		helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
