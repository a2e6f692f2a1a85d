package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/daap14/repoteams/internal/team"
)

// CreateTeamRequest is the body of POST /teams.
type CreateTeamRequest struct {
	OrgID    uuid.UUID     `json:"org_id"`
	TeamName string        `json:"team_name"`
	OrgRepos team.OrgRepos `json:"org_repos"`
	Provider team.Provider `json:"provider"`
}

// TeamSetting is a team setting as returned by the settings endpoints.
type TeamSetting struct {
	TeamID      uuid.UUID       `json:"team_id"`
	SettingType string          `json:"setting_type"`
	SettingData json.RawMessage `json:"setting_data"`
}

// ListTeams calls GET /teams.
func (c *Client) ListTeams(ctx context.Context, orgID uuid.UUID, provider team.Provider) (*team.Listing, error) {
	q := url.Values{}
	q.Set("org_id", orgID.String())
	q.Set("provider", string(provider))

	var listing team.Listing
	if err := c.Do(ctx, http.MethodGet, "/teams", q, nil, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

// CreateTeam calls POST /teams.
func (c *Client) CreateTeam(ctx context.Context, req CreateTeamRequest) (*team.Team, error) {
	var created team.Team
	if err := c.Do(ctx, http.MethodPost, "/teams", nil, req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// SearchRepos calls GET /repos/search. limit <= 0 leaves the server default.
func (c *Client) SearchRepos(ctx context.Context, orgID uuid.UUID, provider team.Provider, query string, limit int) ([]team.Repository, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("org_id", orgID.String())
	q.Set("provider", string(provider))
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var repos []team.Repository
	if err := c.Do(ctx, http.MethodGet, "/repos/search", q, nil, &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

// GetTeamSettings calls GET /teams/{team_id}/settings.
func (c *Client) GetTeamSettings(ctx context.Context, teamID uuid.UUID, settingType string) (*TeamSetting, error) {
	q := url.Values{}
	q.Set("setting_type", settingType)

	var s TeamSetting
	if err := c.Do(ctx, http.MethodGet, "/teams/"+teamID.String()+"/settings", q, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// PutTeamSettings calls PUT /teams/{team_id}/settings.
func (c *Client) PutTeamSettings(ctx context.Context, teamID uuid.UUID, settingType string, data json.RawMessage) (*TeamSetting, error) {
	body := struct {
		SettingType string          `json:"setting_type"`
		SettingData json.RawMessage `json:"setting_data,omitempty"`
	}{SettingType: settingType, SettingData: data}

	var s TeamSetting
	if err := c.Do(ctx, http.MethodPut, "/teams/"+teamID.String()+"/settings", nil, body, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
