package teamcrud

import (
	"context"

	"github.com/google/uuid"

	"github.com/daap14/repoteams/internal/client"
	"github.com/daap14/repoteams/internal/team"
)

// TeamsLister fetches an organization's teams.
type TeamsLister interface {
	ListTeams(ctx context.Context, orgID uuid.UUID, provider team.Provider) (*team.Listing, error)
}

// TeamCreator creates a team.
type TeamCreator interface {
	CreateTeam(ctx context.Context, req client.CreateTeamRequest) (*team.Team, error)
}

// RepoSearcher looks up repositories by a search string.
type RepoSearcher interface {
	SearchRepos(ctx context.Context, orgID uuid.UUID, provider team.Provider, query string, limit int) ([]team.Repository, error)
}

// API is everything CRUD needs from the remote side. *client.Client satisfies it.
type API interface {
	TeamsLister
	TeamCreator
	RepoSearcher
}

var _ API = (*client.Client)(nil)
