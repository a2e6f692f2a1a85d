package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/daap14/repoteams/internal/orgrepo"
	"github.com/daap14/repoteams/internal/settings"
	"github.com/daap14/repoteams/internal/team"
)

// --- Mock Team Repository ---

type mockTeamRepo struct {
	createFn      func(ctx context.Context, p team.CreateParams) (*team.Team, error)
	getByIDFn     func(ctx context.Context, id uuid.UUID) (*team.Team, error)
	listByOrgFn   func(ctx context.Context, orgID uuid.UUID, provider team.Provider) ([]team.Team, error)
	reposByTeamFn func(ctx context.Context, orgID uuid.UUID, provider team.Provider) (map[string][]team.OrgRepo, error)
}

func (m *mockTeamRepo) Create(ctx context.Context, p team.CreateParams) (*team.Team, error) {
	if m.createFn != nil {
		return m.createFn(ctx, p)
	}
	now := time.Now().UTC()
	return &team.Team{
		ID:        uuid.New(),
		Name:      p.Name,
		OrgID:     p.OrgID,
		Provider:  p.Provider,
		Repos:     p.Repos,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (m *mockTeamRepo) GetByID(ctx context.Context, id uuid.UUID) (*team.Team, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, team.ErrTeamNotFound
}

func (m *mockTeamRepo) ListByOrg(ctx context.Context, orgID uuid.UUID, provider team.Provider) ([]team.Team, error) {
	if m.listByOrgFn != nil {
		return m.listByOrgFn(ctx, orgID, provider)
	}
	return []team.Team{}, nil
}

func (m *mockTeamRepo) ReposByTeam(ctx context.Context, orgID uuid.UUID, provider team.Provider) (map[string][]team.OrgRepo, error) {
	if m.reposByTeamFn != nil {
		return m.reposByTeamFn(ctx, orgID, provider)
	}
	return map[string][]team.OrgRepo{}, nil
}

// --- Mock Org Repo Repository ---

type mockOrgRepoRepo struct {
	searchFn    func(ctx context.Context, p orgrepo.SearchParams) ([]team.Repository, error)
	listByOrgFn func(ctx context.Context, orgID uuid.UUID, provider team.Provider) ([]team.Repository, error)
}

func (m *mockOrgRepoRepo) Search(ctx context.Context, p orgrepo.SearchParams) ([]team.Repository, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, p)
	}
	return []team.Repository{}, nil
}

func (m *mockOrgRepoRepo) ListByOrg(ctx context.Context, orgID uuid.UUID, provider team.Provider) ([]team.Repository, error) {
	if m.listByOrgFn != nil {
		return m.listByOrgFn(ctx, orgID, provider)
	}
	return []team.Repository{}, nil
}

// --- Mock Settings Repository ---

type mockSettingsRepo struct {
	getFn func(ctx context.Context, teamID uuid.UUID, settingType string) (*settings.Setting, error)
	putFn func(ctx context.Context, teamID uuid.UUID, settingType string, data json.RawMessage) (*settings.Setting, error)
}

func (m *mockSettingsRepo) Get(ctx context.Context, teamID uuid.UUID, settingType string) (*settings.Setting, error) {
	if m.getFn != nil {
		return m.getFn(ctx, teamID, settingType)
	}
	return nil, settings.ErrSettingNotFound
}

func (m *mockSettingsRepo) Put(ctx context.Context, teamID uuid.UUID, settingType string, data json.RawMessage) (*settings.Setting, error) {
	if m.putFn != nil {
		return m.putFn(ctx, teamID, settingType, data)
	}
	now := time.Now().UTC()
	return &settings.Setting{TeamID: teamID, SettingType: settingType, SettingData: data, CreatedAt: now, UpdatedAt: now}, nil
}

// --- Helpers ---

var testOrgID = uuid.MustParse("6f1f7b1e-3a5c-4a8e-9a43-8b2a3b7d9c10")

func makeChiRequest(method, path string, body []byte, params map[string]string) (*http.Request, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()

	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	return req, w
}

func parseEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var env map[string]any
	err := json.Unmarshal(w.Body.Bytes(), &env)
	require.NoError(t, err, "failed to parse response body")
	return env
}

func errorCode(t *testing.T, env map[string]any) string {
	t.Helper()
	errObj, ok := env["error"].(map[string]any)
	require.True(t, ok, "expected an error object")
	return errObj["code"].(string)
}
