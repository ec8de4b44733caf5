package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/AssistantGo/pkg/health"
	"github.com/utafrali/AssistantGo/pkg/httputil"
	"github.com/utafrali/AssistantGo/pkg/middleware"
)

// RouterConfig bundles the handlers and middleware the router mounts.
type RouterConfig struct {
	Auth           *AuthHandler
	Users          *UserHandler
	Assistant      *AssistantHandler
	Authenticator  *Authenticator
	Health         *health.Handler
	Logger         *slog.Logger
	ServiceName    string
	RateLimitRPS   int
	RateLimitBurst int
}

// NewRouter assembles the chi router with the full middleware stack.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.PrometheusMetrics(cfg.ServiceName))

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, httputil.Response{
			Message: "assistant service is running",
		})
	})

	r.Get("/healthz", cfg.Health.LivenessHandler())
	r.Get("/readyz", cfg.Health.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			// Credential endpoints get per-IP rate limiting.
			r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.Logger))

			r.Post("/register", cfg.Auth.Register)
			r.Post("/login", cfg.Auth.Login)
			r.Post("/refresh", cfg.Auth.Refresh)

			r.Group(func(r chi.Router) {
				r.Use(cfg.Authenticator.Middleware)
				r.Post("/logout", cfg.Auth.Logout)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(cfg.Authenticator.Middleware)

			r.Route("/users/me", func(r chi.Router) {
				r.Get("/", cfg.Users.Get)
				r.Patch("/", cfg.Users.Update)
				r.Delete("/", cfg.Users.Delete)
			})

			r.Route("/assistant", func(r chi.Router) {
				r.Get("/profile", cfg.Assistant.Profile)
				r.Post("/generate", cfg.Assistant.Generate)
			})
		})
	})

	return r
}
