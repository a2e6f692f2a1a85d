package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/yaml"

	specpkg "github.com/daap14/repoteams/api"
	"github.com/daap14/repoteams/internal/api"
	"github.com/daap14/repoteams/internal/orgrepo"
	"github.com/daap14/repoteams/internal/settings"
	"github.com/daap14/repoteams/internal/team"
)

// openAPISpec is the minimal structure needed to extract paths from the document.
type openAPISpec struct {
	Paths map[string]map[string]any `json:"paths"`
}

// --- Noop implementations to satisfy RouterDeps interfaces ---

type noopPinger struct{}

func (noopPinger) Ping(context.Context) error { return nil }

type noopTeamRepo struct{}

func (noopTeamRepo) Create(context.Context, team.CreateParams) (*team.Team, error) { return nil, nil }
func (noopTeamRepo) GetByID(context.Context, uuid.UUID) (*team.Team, error) {
	return nil, team.ErrTeamNotFound
}
func (noopTeamRepo) ListByOrg(context.Context, uuid.UUID, team.Provider) ([]team.Team, error) {
	return nil, nil
}
func (noopTeamRepo) ReposByTeam(context.Context, uuid.UUID, team.Provider) (map[string][]team.OrgRepo, error) {
	return nil, nil
}

type noopOrgRepoRepo struct{}

func (noopOrgRepoRepo) Search(context.Context, orgrepo.SearchParams) ([]team.Repository, error) {
	return nil, nil
}
func (noopOrgRepoRepo) ListByOrg(context.Context, uuid.UUID, team.Provider) ([]team.Repository, error) {
	return nil, nil
}

type noopSettingsRepo struct{}

func (noopSettingsRepo) Get(context.Context, uuid.UUID, string) (*settings.Setting, error) {
	return nil, settings.ErrSettingNotFound
}
func (noopSettingsRepo) Put(context.Context, uuid.UUID, string, json.RawMessage) (*settings.Setting, error) {
	return nil, settings.ErrTeamNotFound
}

func newTestRouter(origins ...string) *chi.Mux {
	return api.NewRouter(api.RouterDeps{
		DBPinger:       noopPinger{},
		Version:        "test",
		TeamRepo:       noopTeamRepo{},
		OrgRepoRepo:    noopOrgRepoRepo{},
		SettingsRepo:   noopSettingsRepo{},
		AllowedOrigins: origins,
		OpenAPISpec:    specpkg.OpenAPISpec,
	})
}

// --- Tests ---

func TestOpenAPISpec_RoutesCoverAllPaths(t *testing.T) {
	t.Parallel()

	specJSON, err := yaml.YAMLToJSON(specpkg.OpenAPISpec)
	require.NoError(t, err, "embedded document must convert to JSON")

	var spec openAPISpec
	require.NoError(t, yaml.Unmarshal(specJSON, &spec))

	specRoutes := extractSpecRoutes(t, spec)
	require.NotEmpty(t, specRoutes)

	chiRoutes := extractChiRoutes(t, newTestRouter())
	require.NotEmpty(t, chiRoutes)

	for _, sr := range specRoutes {
		t.Run(fmt.Sprintf("spec_%s_%s_has_Chi_route", sr.method, sr.path), func(t *testing.T) {
			assert.Contains(t, chiRoutes, sr, "documented route %s %s not found in Chi router", sr.method, sr.path)
		})
	}

	for _, cr := range chiRoutes {
		t.Run(fmt.Sprintf("Chi_%s_%s_has_spec_path", cr.method, cr.path), func(t *testing.T) {
			assert.Contains(t, specRoutes, cr, "Chi route %s %s not found in OpenAPI document", cr.method, cr.path)
		})
	}
}

func TestRouter_EchoesRequestID(t *testing.T) {
	t.Parallel()

	r := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "trace-123")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "trace-123", w.Header().Get("X-Request-ID"))

	var env map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, "trace-123", env["meta"].(map[string]any)["requestId"])
}

func TestRouter_CORSPreflight(t *testing.T) {
	t.Parallel()

	r := newTestRouter("https://app.example.com")
	req := httptest.NewRequest(http.MethodOptions, "/teams", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_CORSRejectsUnknownOrigin(t *testing.T) {
	t.Parallel()

	r := newTestRouter("https://app.example.com")
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_SettingsRouteUsesPathParam(t *testing.T) {
	t.Parallel()

	r := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/teams/"+uuid.NewString()+"/settings?setting_type=x", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Team not found")
}

var httpMethods = map[string]bool{
	http.MethodGet: true, http.MethodPost: true, http.MethodPut: true,
	http.MethodPatch: true, http.MethodDelete: true,
}

type route struct {
	method string
	path   string
}

func sortRoutes(routes []route) {
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].path == routes[j].path {
			return routes[i].method < routes[j].method
		}
		return routes[i].path < routes[j].path
	})
}

func extractSpecRoutes(t *testing.T, spec openAPISpec) []route {
	t.Helper()
	var routes []route
	for path, methods := range spec.Paths {
		for method := range methods {
			// Path-level keys such as parameters are not operations.
			if !httpMethods[strings.ToUpper(method)] {
				continue
			}
			routes = append(routes, route{method: strings.ToUpper(method), path: path})
		}
	}
	sortRoutes(routes)
	return routes
}

func extractChiRoutes(t *testing.T, r *chi.Mux) []route {
	t.Helper()
	var routes []route
	walkFunc := func(method, routePath string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		// Chi subroutes produce trailing slashes (/teams/) while OpenAPI uses /teams.
		normalized := strings.TrimRight(routePath, "/")
		if normalized == "" {
			normalized = "/"
		}
		routes = append(routes, route{method: method, path: normalized})
		return nil
	}
	require.NoError(t, chi.Walk(r, walkFunc), "chi.Walk should not error")
	sortRoutes(routes)
	return routes
}
