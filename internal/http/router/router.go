// Package router arma el http.Handler del servicio.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dropDatabas3/aegis/internal/http/controllers"
	"github.com/dropDatabas3/aegis/internal/http/middlewares"
	"github.com/dropDatabas3/aegis/internal/moderation"
)

// Deps contiene las dependencias del router.
type Deps struct {
	Services *moderation.Services
	Store    controllers.Pinger
	Auth     middlewares.AuthConfig

	// CORSAllowedOrigins vacío deshabilita CORS.
	CORSAllowedOrigins []string
}

// New construye el router completo de la API.
func New(deps Deps) http.Handler {
	roles := controllers.NewRolesController(deps.Services.Directory)
	bans := controllers.NewBansController(deps.Services.Bans)
	reports := controllers.NewReportsController(deps.Services.Reports)
	modlog := controllers.NewLogController(deps.Services.Log)
	health := controllers.NewHealthController(deps.Store)

	r := chi.NewRouter()

	// Superficie pública, sin actor.
	r.Get("/healthz", health.Healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(v1 chi.Router) {
		v1.Use(middlewares.RequireActor())

		// Role directory
		v1.Post("/roles", roles.Assign)
		v1.Delete("/roles/{grantID}", roles.Revoke)
		v1.Get("/users/{userID}/roles", roles.ListActive)
		v1.Get("/users/{userID}/can-moderate", roles.CanModerate)
		v1.Get("/users/{userID}/can-administer", roles.CanAdminister)

		// Ban ledger
		v1.Post("/bans", bans.Ban)
		v1.Delete("/bans/{banID}", bans.Unban)
		v1.Get("/users/{userID}/ban-status", bans.Status)

		// Report workflow
		v1.Post("/reports", reports.Create)
		v1.Get("/reports", reports.List)
		v1.Post("/reports/{reportID}/resolve", reports.Resolve)
		v1.Post("/reports/{reportID}/comments", reports.AddComment)
		v1.Get("/reports/{reportID}/comments", reports.Comments)
		v1.Get("/report-reasons", reports.Reasons)

		// Moderation log
		v1.Get("/moderation-log", modlog.Query)
	})

	// Stack global por fuera del mux, en orden de ejecución.
	mws := []middlewares.Middleware{
		middlewares.WithRequestID(),
		middlewares.WithRecover(),
		middlewares.WithLogging(),
	}
	if len(deps.CORSAllowedOrigins) > 0 {
		mws = append(mws, middlewares.WithCORS(deps.CORSAllowedOrigins))
	}
	mws = append(mws, middlewares.WithAuth(deps.Auth))

	return middlewares.Chain(r, mws...)
}
