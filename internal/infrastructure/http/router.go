package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/infrastructure/http/handlers"
	"github.com/vu-quang-duy/Vietsignschool-BE-sub000/internal/infrastructure/http/middleware"
)

type RouterConfig struct {
	AuthHandler          *handlers.AuthHandler
	HealthHandler        *handlers.HealthHandler
	UsersHandler         *handlers.UsersHandler
	OrganizationsHandler *handlers.OrganizationsHandler
	PermissionsHandler   *handlers.PermissionsHandler
	RequireJWT           func(http.Handler) http.Handler // JWT auth for everything past /auth
	OrgScope             func(http.Handler) http.Handler // admin scope over {org_id}
	Log                  zerolog.Logger
	Secure               func(http.Handler) http.Handler
	IPRateLimit          func(http.Handler) http.Handler
	UserRateLimit        func(http.Handler) http.Handler
	Metrics              bool // expose /metrics
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimid.RequestID)
	r.Use(chimid.RealIP)
	r.Use(loggerMiddleware(cfg.Log))
	r.Use(chimid.Recoverer)
	if cfg.Metrics {
		r.Use(middleware.PrometheusMiddleware)
	}
	if cfg.Secure != nil {
		r.Use(cfg.Secure)
	}
	r.Use(chimid.AllowContentType("application/json"))
	r.Use(chimid.SetHeader("Content-Type", "application/json"))
	if cfg.IPRateLimit != nil {
		r.Use(cfg.IPRateLimit)
	}

	if cfg.HealthHandler != nil {
		r.Get("/health", cfg.HealthHandler.ServeHTTP)
	} else {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
	}
	if cfg.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", cfg.AuthHandler.Signup)
		r.Post("/login", cfg.AuthHandler.Login)
		r.Post("/refresh", cfg.AuthHandler.Refresh)
		r.Post("/logout", cfg.AuthHandler.Logout)
	})

	if cfg.UsersHandler != nil && cfg.RequireJWT != nil {
		r.Route("/users", func(r chi.Router) {
			r.Use(cfg.RequireJWT)
			if cfg.UserRateLimit != nil {
				r.Use(cfg.UserRateLimit)
			}
			r.Get("/", cfg.UsersHandler.List)
			r.Get("/me", cfg.UsersHandler.Me)
			r.Get("/me/organizations", cfg.UsersHandler.MyOrganizations)
			r.Get("/me/primary-organization", cfg.UsersHandler.MyPrimaryOrganization)
			r.Get("/me/permissions", cfg.UsersHandler.MyPermissions)
		})
	}

	if cfg.OrganizationsHandler != nil && cfg.RequireJWT != nil {
		r.Route("/organizations", func(r chi.Router) {
			r.Use(cfg.RequireJWT)
			if cfg.UserRateLimit != nil {
				r.Use(cfg.UserRateLimit)
			}
			r.Post("/", cfg.OrganizationsHandler.Create)
			r.Route("/{org_id}", func(r chi.Router) {
				// Role grant/revoke and primary selection authorize
				// per-assignment inside the use cases rather than
				// through the admin scope gate.
				r.Post("/roles", cfg.OrganizationsHandler.AssignRole)
				r.Delete("/roles/{user_id}", cfg.OrganizationsHandler.RemoveRole)
				r.Put("/primary", cfg.OrganizationsHandler.SetPrimary)

				r.Group(func(r chi.Router) {
					if cfg.OrgScope != nil {
						r.Use(cfg.OrgScope)
					}
					r.Get("/", cfg.OrganizationsHandler.Get)
					r.Patch("/status", cfg.OrganizationsHandler.SetStatus)
					r.Get("/children", cfg.OrganizationsHandler.ListChildren)
					r.Get("/members", cfg.OrganizationsHandler.ListMembers)
					r.Get("/members/{user_id}/role", cfg.OrganizationsHandler.GetMemberRole)
					r.Get("/role-stats", cfg.OrganizationsHandler.RoleStats)
				})
			})
		})
	}

	if cfg.PermissionsHandler != nil && cfg.RequireJWT != nil {
		r.Route("/permissions", func(r chi.Router) {
			r.Use(cfg.RequireJWT)
			if cfg.UserRateLimit != nil {
				r.Use(cfg.UserRateLimit)
			}
			r.Get("/", cfg.PermissionsHandler.Catalog)
			r.Get("/check", cfg.PermissionsHandler.Check)
			r.Get("/users/{user_id}", cfg.PermissionsHandler.UserPermissions)
			r.Post("/users/{user_id}/overrides", cfg.PermissionsHandler.SetOverride)
			r.Delete("/users/{user_id}/overrides/{code}", cfg.PermissionsHandler.RemoveOverride)
		})
	}

	return r
}

func loggerMiddleware(log zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := chimid.GetReqID(r.Context())
			log.Info().
				Str("request_id", reqID).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("request")
			next.ServeHTTP(w, r)
		})
	}
}
