package teamcrud_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/daap14/repoteams/internal/client"
	"github.com/daap14/repoteams/internal/notify"
	"github.com/daap14/repoteams/internal/team"
)

// --- Mock API ---

type mockAPI struct {
	mu       sync.Mutex
	listFn   func(ctx context.Context, orgID uuid.UUID, provider team.Provider) (*team.Listing, error)
	createFn func(ctx context.Context, req client.CreateTeamRequest) (*team.Team, error)
	searchFn func(ctx context.Context, query string) ([]team.Repository, error)

	listCalls     int
	createReqs    []client.CreateTeamRequest
	searchQueries []string
}

func (m *mockAPI) ListTeams(ctx context.Context, orgID uuid.UUID, provider team.Provider) (*team.Listing, error) {
	m.mu.Lock()
	m.listCalls++
	m.mu.Unlock()
	if m.listFn != nil {
		return m.listFn(ctx, orgID, provider)
	}
	return &team.Listing{}, nil
}

func (m *mockAPI) CreateTeam(ctx context.Context, req client.CreateTeamRequest) (*team.Team, error) {
	m.mu.Lock()
	m.createReqs = append(m.createReqs, req)
	m.mu.Unlock()
	if m.createFn != nil {
		return m.createFn(ctx, req)
	}
	return &team.Team{ID: uuid.New(), Name: req.TeamName, OrgID: req.OrgID, Provider: req.Provider, Repos: req.OrgRepos}, nil
}

func (m *mockAPI) SearchRepos(ctx context.Context, _ uuid.UUID, _ team.Provider, query string, _ int) ([]team.Repository, error) {
	m.mu.Lock()
	m.searchQueries = append(m.searchQueries, query)
	m.mu.Unlock()
	if m.searchFn != nil {
		return m.searchFn(ctx, query)
	}
	return []team.Repository{}, nil
}

func (m *mockAPI) getListCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listCalls
}

func (m *mockAPI) getCreateReqs() []client.CreateTeamRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]client.CreateTeamRequest, len(m.createReqs))
	copy(out, m.createReqs)
	return out
}

func (m *mockAPI) getSearchQueries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.searchQueries))
	copy(out, m.searchQueries)
	return out
}

// --- Recording Notifier ---

type notification struct {
	Message  string
	Severity notify.Severity
	Duration time.Duration
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notification
}

func (r *recordingNotifier) Notify(message string, severity notify.Severity, duration time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, notification{Message: message, Severity: severity, Duration: duration})
}

func (r *recordingNotifier) all() []notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]notification, len(r.sent))
	copy(out, r.sent)
	return out
}

// --- Fixtures ---

var testOrg = team.Organization{ID: uuid.MustParse("6f1f7b1e-3a5c-4a8e-9a43-8b2a3b7d9c10"), Name: "acme"}

func repo(id, name string) team.Repository {
	return team.Repository{ID: id, Name: name, Parent: testOrg.Name, Slug: testOrg.Name + "/" + name}
}
