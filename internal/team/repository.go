package team

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrTeamNotFound is returned when a team record is not found.
var ErrTeamNotFound = errors.New("team not found")

// ErrDuplicateTeamName is returned when a team with the same name already exists in the organization.
var ErrDuplicateTeamName = errors.New("team name already exists")

// Store provides persistence for teams and their repository associations.
type Store interface {
	Create(ctx context.Context, params CreateParams) (*Team, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Team, error)
	// ListByOrg returns the teams without their repositories.
	ListByOrg(ctx context.Context, orgID uuid.UUID, provider Provider) ([]Team, error)
	ReposByTeam(ctx context.Context, orgID uuid.UUID, provider Provider) (map[string][]OrgRepo, error)
}
