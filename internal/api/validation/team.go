package validation

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/daap14/repoteams/internal/team"
)

// MaxTeamNameLength bounds team names.
const MaxTeamNameLength = 255

// CreateTeamRequest mirrors the fields needed for create team validation.
type CreateTeamRequest struct {
	OrgID    string
	TeamName string
	OrgRepos team.OrgRepos
	Provider string
}

// ValidateCreateTeamRequest validates the fields of a create team request.
func ValidateCreateTeamRequest(req CreateTeamRequest) []FieldError {
	var errs []FieldError

	errs = append(errs, validateOrgID(req.OrgID)...)
	errs = append(errs, validateProvider(req.Provider)...)

	name := strings.TrimSpace(req.TeamName)
	if name == "" {
		errs = append(errs, FieldError{Field: "team_name", Message: "team_name is required"})
	} else if len(name) > MaxTeamNameLength {
		errs = append(errs, FieldError{Field: "team_name", Message: fmt.Sprintf("team_name must be at most %d characters", MaxTeamNameLength)})
	}

	if req.OrgRepos.Count() == 0 {
		errs = append(errs, FieldError{Field: "org_repos", Message: "org_repos must contain at least one repository"})
	}
	for orgName, repos := range req.OrgRepos {
		if strings.TrimSpace(orgName) == "" {
			errs = append(errs, FieldError{Field: "org_repos", Message: "organization name must not be empty"})
		}
		for i, repo := range repos {
			field := fmt.Sprintf("org_repos.%s[%d]", orgName, i)
			if repo.IdempotencyKey == "" {
				errs = append(errs, FieldError{Field: field + ".idempotency_key", Message: "idempotency_key is required"})
			}
			if repo.Name == "" {
				errs = append(errs, FieldError{Field: field + ".name", Message: "name is required"})
			}
		}
	}

	return errs
}

// ListTeamsRequest mirrors the query parameters of GET /teams.
type ListTeamsRequest struct {
	OrgID    string
	Provider string
}

// ValidateListTeamsRequest validates the query of a list teams request.
func ValidateListTeamsRequest(req ListTeamsRequest) []FieldError {
	var errs []FieldError
	errs = append(errs, validateOrgID(req.OrgID)...)
	errs = append(errs, validateProvider(req.Provider)...)
	return errs
}

func validateOrgID(orgID string) []FieldError {
	if orgID == "" {
		return []FieldError{{Field: "org_id", Message: "org_id is required"}}
	}
	if _, err := uuid.Parse(orgID); err != nil {
		return []FieldError{{Field: "org_id", Message: "org_id must be a valid UUID"}}
	}
	return nil
}

func validateProvider(provider string) []FieldError {
	if provider == "" {
		return []FieldError{{Field: "provider", Message: "provider is required"}}
	}
	if !team.Provider(provider).Valid() {
		return []FieldError{{Field: "provider", Message: "provider must be one of github, gitlab, bitbucket"}}
	}
	return nil
}
