package orgrepo

import (
	"context"

	"github.com/google/uuid"

	"github.com/daap14/repoteams/internal/team"
)

// DefaultLimit caps search results when the caller gives no limit.
const DefaultLimit = 50

// SearchParams holds the filters for a repository search.
type SearchParams struct {
	OrgID    uuid.UUID
	Provider team.Provider
	Query    string // partial match on name or slug (ILIKE)
	Limit    int
}

// Repository reads the organization repository catalog.
type Repository interface {
	Search(ctx context.Context, params SearchParams) ([]team.Repository, error)
	ListByOrg(ctx context.Context, orgID uuid.UUID, provider team.Provider) ([]team.Repository, error)
}
