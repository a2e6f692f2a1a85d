package team

import (
	"time"

	"github.com/google/uuid"
)

// Provider identifies the source host a repository lives on.
type Provider string

const (
	ProviderGitHub    Provider = "github"
	ProviderGitLab    Provider = "gitlab"
	ProviderBitbucket Provider = "bitbucket"
)

// Valid reports whether p is a known provider.
func (p Provider) Valid() bool {
	switch p {
	case ProviderGitHub, ProviderGitLab, ProviderBitbucket:
		return true
	}
	return false
}

// Organization is the owner of teams. It is referenced, never mutated, by this service.
type Organization struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// Repository is a source-code repository returned by search. Parent is the
// owning namespace on the source host.
type Repository struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Parent string `json:"parent"`
	Slug   string `json:"slug"`
}

// Label is the human readable "parent/name" form of the repository.
func (r Repository) Label() string {
	if r.Parent == "" {
		return r.Name
	}
	return r.Parent + "/" + r.Name
}

// UniqueDetails returns the subset of r sent when creating a team.
func (r Repository) UniqueDetails() RepoUniqueDetails {
	return RepoUniqueDetails{
		IdempotencyKey: r.ID,
		Name:           r.Name,
		Slug:           r.Slug,
	}
}

// RepoUniqueDetails identifies a repository in a create team request.
// IdempotencyKey equals the provider's repository id.
type RepoUniqueDetails struct {
	IdempotencyKey string `json:"idempotency_key"`
	Name           string `json:"name"`
	Slug           string `json:"slug"`
}

// OrgRepos maps an organization name to the repositories it contributes.
type OrgRepos map[string][]RepoUniqueDetails

// Count returns the number of repositories across all organizations.
func (o OrgRepos) Count() int {
	n := 0
	for _, repos := range o {
		n += len(repos)
	}
	return n
}

// Team represents a row in the teams table together with its repositories.
type Team struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	OrgID     uuid.UUID `json:"org_id"`
	Provider  Provider  `json:"provider"`
	Repos     OrgRepos  `json:"repos"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrgRepo represents a row in the org_repos table.
type OrgRepo struct {
	ID             uuid.UUID `json:"id"`
	OrgID          uuid.UUID `json:"org_id"`
	OrgName        string    `json:"org_name"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	Provider       Provider  `json:"provider"`
	IdempotencyKey string    `json:"idempotency_key"`
	CreatedAt      time.Time `json:"created_at"`
}

// Repository converts the stored row back into the searchable shape.
func (o OrgRepo) Repository() Repository {
	return Repository{
		ID:     o.IdempotencyKey,
		Name:   o.Name,
		Parent: o.OrgName,
		Slug:   o.Slug,
	}
}

// CreateParams holds the fields of a create team request.
type CreateParams struct {
	OrgID    uuid.UUID
	Name     string
	Provider Provider
	Repos    OrgRepos
}

// Listing is everything the client needs to render an organization's teams.
type Listing struct {
	Teams         []Team               `json:"teams"`
	TeamReposMaps map[string][]OrgRepo `json:"teamReposMaps"`
	OrgRepos      []Repository         `json:"orgRepos"`
}
