package api

import (
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/daap14/repoteams/internal/api/handler"
	"github.com/daap14/repoteams/internal/api/middleware"
	"github.com/daap14/repoteams/internal/orgrepo"
	"github.com/daap14/repoteams/internal/settings"
	"github.com/daap14/repoteams/internal/team"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	DBPinger       handler.DBPinger
	Version        string
	TeamRepo       team.Store
	OrgRepoRepo    orgrepo.Repository
	SettingsRepo   settings.Repository
	SearchLimit    int
	AllowedOrigins []string
	OpenAPISpec    []byte
}

// NewRouter creates and configures a Chi router with all middleware and routes.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)

	if len(deps.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: deps.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", middleware.HeaderRequestID},
			ExposedHeaders: []string{middleware.HeaderRequestID},
			MaxAge:         300,
		}))
	}

	healthHandler := handler.NewHealthHandler(deps.DBPinger, deps.Version)
	r.Get("/health", healthHandler.ServeHTTP)

	if len(deps.OpenAPISpec) > 0 {
		openapiHandler := handler.NewOpenAPIHandler(deps.OpenAPISpec)
		r.Get("/openapi.json", openapiHandler.ServeHTTP)
	}

	if deps.TeamRepo != nil && deps.OrgRepoRepo != nil {
		teamHandler := handler.NewTeamHandler(deps.TeamRepo, deps.OrgRepoRepo)
		r.Route("/teams", func(r chi.Router) {
			r.Get("/", teamHandler.List)
			r.Post("/", teamHandler.Create)

			if deps.SettingsRepo != nil {
				settingsHandler := handler.NewSettingsHandler(deps.TeamRepo, deps.SettingsRepo)
				r.Get("/{team_id}/settings", settingsHandler.Get)
				r.Put("/{team_id}/settings", settingsHandler.Put)
			}
		})

		repoHandler := handler.NewRepoHandler(deps.OrgRepoRepo, deps.SearchLimit)
		r.Get("/repos/search", repoHandler.Search)
	}

	return r
}
