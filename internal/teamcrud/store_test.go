package teamcrud_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daap14/repoteams/internal/team"
	"github.com/daap14/repoteams/internal/teamcrud"
)

func sampleListing(names ...string) *team.Listing {
	l := &team.Listing{
		TeamReposMaps: map[string][]team.OrgRepo{},
		OrgRepos:      []team.Repository{repo("r1", "api"), repo("r2", "web")},
	}
	for _, n := range names {
		id := uuid.New()
		l.Teams = append(l.Teams, team.Team{ID: id, Name: n, OrgID: testOrg.ID, Provider: team.ProviderGitHub})
		l.TeamReposMaps[id.String()] = []team.OrgRepo{{
			ID: uuid.New(), OrgID: testOrg.ID, OrgName: testOrg.Name, Name: "api", Slug: "acme/api",
			Provider: team.ProviderGitHub, IdempotencyKey: "r1",
		}}
	}
	return l
}

func TestTeamStore_FetchReplacesWholesale(t *testing.T) {
	t.Parallel()

	listings := []*team.Listing{sampleListing("core", "web"), sampleListing("data")}
	call := 0
	api := &mockAPI{
		listFn: func(_ context.Context, orgID uuid.UUID, provider team.Provider) (*team.Listing, error) {
			assert.Equal(t, testOrg.ID, orgID)
			assert.Equal(t, team.ProviderGitHub, provider)
			l := listings[call]
			call++
			return l, nil
		},
	}
	s := teamcrud.NewTeamStore(api, testOrg, team.ProviderGitHub, nil)
	assert.False(t, s.Loaded())

	require.NoError(t, s.FetchTeams(context.Background()))
	assert.True(t, s.Loaded())
	require.Len(t, s.Teams(), 2)
	assert.Len(t, s.TeamReposMaps(), 2)

	require.NoError(t, s.FetchTeams(context.Background()))
	teams := s.Teams()
	require.Len(t, teams, 1)
	assert.Equal(t, "data", teams[0].Name)
	assert.Len(t, s.TeamReposMaps(), 1)
	assert.Equal(t, []team.Repository{repo("r1", "api"), repo("r2", "web")}, s.OrgRepos())
	assert.False(t, s.Loading())
}

func TestTeamStore_DropsDuplicateTeamIDs(t *testing.T) {
	t.Parallel()

	l := sampleListing("core")
	dup := l.Teams[0]
	dup.Name = "core-copy"
	l.Teams = append(l.Teams, dup)

	api := &mockAPI{
		listFn: func(context.Context, uuid.UUID, team.Provider) (*team.Listing, error) { return l, nil },
	}
	s := teamcrud.NewTeamStore(api, testOrg, team.ProviderGitHub, nil)

	require.NoError(t, s.FetchTeams(context.Background()))

	teams := s.Teams()
	require.Len(t, teams, 1)
	assert.Equal(t, "core", teams[0].Name)
}

func TestTeamStore_FailureKeepsStateAndNotifies(t *testing.T) {
	t.Parallel()

	fail := false
	api := &mockAPI{
		listFn: func(context.Context, uuid.UUID, team.Provider) (*team.Listing, error) {
			if fail {
				return nil, errors.New("502 bad gateway")
			}
			return sampleListing("core"), nil
		},
	}
	n := &recordingNotifier{}
	s := teamcrud.NewTeamStore(api, testOrg, team.ProviderGitHub, n)

	require.NoError(t, s.FetchTeams(context.Background()))
	fail = true
	err := s.FetchTeams(context.Background())

	require.Error(t, err)
	assert.Len(t, s.Teams(), 1)
	assert.True(t, s.Loaded())
	assert.False(t, s.Loading())
	require.Len(t, n.all(), 1)
	assert.Equal(t, teamcrud.MsgFetchFailed, n.all()[0].Message)
}

func TestTeamStore_OlderFetchDoesNotOverwriteNewer(t *testing.T) {
	t.Parallel()

	releaseFirst := make(chan struct{})
	started := make(chan int, 2)
	call := 0
	api := &mockAPI{
		listFn: func(context.Context, uuid.UUID, team.Provider) (*team.Listing, error) {
			call++
			n := call
			started <- n
			if n == 1 {
				<-releaseFirst
				return sampleListing("old"), nil
			}
			return sampleListing("new"), nil
		},
	}
	s := teamcrud.NewTeamStore(api, testOrg, team.ProviderGitHub, nil)

	first := make(chan error, 1)
	go func() { first <- s.FetchTeams(context.Background()) }()
	require.Equal(t, 1, <-started)
	assert.True(t, s.Loading())

	require.NoError(t, s.FetchTeams(context.Background()))
	<-started
	close(releaseFirst)
	require.NoError(t, <-first)

	teams := s.Teams()
	require.Len(t, teams, 1)
	assert.Equal(t, "new", teams[0].Name)
}

func TestTeamStore_TeamLookup(t *testing.T) {
	t.Parallel()

	l := sampleListing("core")
	api := &mockAPI{
		listFn: func(context.Context, uuid.UUID, team.Provider) (*team.Listing, error) { return l, nil },
	}
	s := teamcrud.NewTeamStore(api, testOrg, team.ProviderGitHub, nil)
	require.NoError(t, s.FetchTeams(context.Background()))

	got, ok := s.Team(l.Teams[0].ID)
	require.True(t, ok)
	assert.Equal(t, "core", got.Name)

	_, ok = s.Team(uuid.New())
	assert.False(t, ok)

	assert.Equal(t, []team.Repository{{ID: "r1", Name: "api", Parent: "acme", Slug: "acme/api"}}, s.TeamRepos(l.Teams[0].ID))
}
