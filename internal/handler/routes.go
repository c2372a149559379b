package handler

import (
	"net/http"

	"github.com/cinesocial/auth-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig holds the transport-level settings the router needs.
type RouterConfig struct {
	CORSAllowedOrigin  string
	UploadDir          string
	UploadPublicPrefix string
}

// NewRouter builds the HTTP router with all routes and middleware.
//
// Middleware order: security headers, CORS, then per-status metrics.
// Uploaded avatars are served statically under the public upload prefix.
func NewRouter(auth *service.AuthService, profiles *service.ProfileService, recorder HTTPStatusRecorder, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(SecurityHeaders)
	r.Use(NewCORSMiddleware(cfg.CORSAllowedOrigin))
	r.Use(NewMetricsMiddleware(recorder))

	authHandler := NewAuthHandler(auth)
	profileHandler := NewProfileHandler(profiles)

	r.Get("/healthz", HandleHealthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/request-code", authHandler.HandleRequestCode)
		r.Post("/verify-code", authHandler.HandleVerifyCode)
		r.With(RequireAuth(auth)).Post("/profile-setup", profileHandler.HandleProfileSetup)
	})

	// Static avatar serving: URLs returned by profile setup are relative
	// paths under the public prefix.
	fileServer := http.StripPrefix(cfg.UploadPublicPrefix+"/", http.FileServer(http.Dir(cfg.UploadDir)))
	r.Get(cfg.UploadPublicPrefix+"/*", fileServer.ServeHTTP)

	return r
}
