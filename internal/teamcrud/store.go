package teamcrud

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/daap14/repoteams/internal/notify"
	"github.com/daap14/repoteams/internal/team"
)

// MsgFetchFailed is shown when the team listing cannot be loaded.
const MsgFetchFailed = "Failed to load teams"

// TeamStore is the local mirror of an organization's teams. FetchTeams is
// its only writer and replaces the whole collection; there is no insert
// path, so a newly created team shows up through a refetch with the ids
// and fields the server computed.
type TeamStore struct {
	api      TeamsLister
	org      team.Organization
	provider team.Provider
	notifier notify.Notifier

	mu            sync.Mutex
	issued        uint64
	applied       uint64
	inflight      int
	loaded        bool
	teams         []team.Team
	orgRepos      []team.Repository
	teamReposMaps map[string][]team.OrgRepo
}

// NewTeamStore creates an empty TeamStore.
func NewTeamStore(api TeamsLister, org team.Organization, provider team.Provider, n notify.Notifier) *TeamStore {
	if n == nil {
		n = notify.Discard
	}
	return &TeamStore{
		api:           api,
		org:           org,
		provider:      provider,
		notifier:      n,
		teams:         []team.Team{},
		orgRepos:      []team.Repository{},
		teamReposMaps: map[string][]team.OrgRepo{},
	}
}

// FetchTeams loads the organization's teams and replaces the local state.
// A response older than the one already applied is dropped. On failure the
// previous state is kept, the user is notified and the error is returned.
func (s *TeamStore) FetchTeams(ctx context.Context) error {
	s.mu.Lock()
	s.issued++
	seq := s.issued
	s.inflight++
	s.mu.Unlock()

	listing, err := s.api.ListTeams(ctx, s.org.ID, s.provider)

	s.mu.Lock()
	s.inflight--
	if err == nil && seq > s.applied {
		s.apply(listing)
		s.applied = seq
	}
	s.mu.Unlock()

	if err != nil {
		slog.Error("failed to fetch teams", "error", err, "orgId", s.org.ID)
		s.notifier.Notify(MsgFetchFailed, notify.SeverityError, notify.DefaultDuration)
		return fmt.Errorf("fetching teams: %w", err)
	}
	return nil
}

// apply must be called with s.mu held.
func (s *TeamStore) apply(listing *team.Listing) {
	if listing == nil {
		listing = &team.Listing{}
	}
	teams := make([]team.Team, 0, len(listing.Teams))
	seen := make(map[uuid.UUID]bool, len(listing.Teams))
	for _, t := range listing.Teams {
		if seen[t.ID] {
			slog.Warn("dropping duplicate team from listing", "teamId", t.ID)
			continue
		}
		seen[t.ID] = true
		teams = append(teams, t)
	}

	orgRepos := make([]team.Repository, len(listing.OrgRepos))
	copy(orgRepos, listing.OrgRepos)

	maps := make(map[string][]team.OrgRepo, len(listing.TeamReposMaps))
	for id, rows := range listing.TeamReposMaps {
		cp := make([]team.OrgRepo, len(rows))
		copy(cp, rows)
		maps[id] = cp
	}

	s.teams = teams
	s.orgRepos = orgRepos
	s.teamReposMaps = maps
	s.loaded = true
}

// Teams returns a copy of the teams in server order.
func (s *TeamStore) Teams() []team.Team {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]team.Team, len(s.teams))
	copy(out, s.teams)
	return out
}

// Team returns the team with the given id.
func (s *TeamStore) Team(id uuid.UUID) (team.Team, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.teams {
		if t.ID == id {
			return t, true
		}
	}
	return team.Team{}, false
}

// OrgRepos returns a copy of the organization's repository pool.
func (s *TeamStore) OrgRepos() []team.Repository {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]team.Repository, len(s.orgRepos))
	copy(out, s.orgRepos)
	return out
}

// TeamReposMaps returns a copy of the repositories of each team, keyed by team id.
func (s *TeamStore) TeamReposMaps() map[string][]team.OrgRepo {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string][]team.OrgRepo, len(s.teamReposMaps))
	for id, rows := range s.teamReposMaps {
		cp := make([]team.OrgRepo, len(rows))
		copy(cp, rows)
		out[id] = cp
	}
	return out
}

// TeamRepos returns the repositories of one team in the searchable shape.
func (s *TeamStore) TeamRepos(id uuid.UUID) []team.Repository {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.teamReposMaps[id.String()]
	out := make([]team.Repository, 0, len(rows))
	for _, o := range rows {
		out = append(out, o.Repository())
	}
	return out
}

// Loaded reports whether a fetch has succeeded at least once.
func (s *TeamStore) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Loading reports whether a fetch is outstanding.
func (s *TeamStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight > 0
}
