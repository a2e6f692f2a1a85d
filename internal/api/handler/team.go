package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/daap14/repoteams/internal/api/middleware"
	"github.com/daap14/repoteams/internal/api/response"
	"github.com/daap14/repoteams/internal/api/validation"
	"github.com/daap14/repoteams/internal/orgrepo"
	"github.com/daap14/repoteams/internal/team"
)

const timeFormat = "2006-01-02T15:04:05Z"

type createTeamRequest struct {
	OrgID    string        `json:"org_id"`
	TeamName string        `json:"team_name"`
	OrgRepos team.OrgRepos `json:"org_repos"`
	Provider string        `json:"provider"`
}

type teamResponse struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	OrgID     string        `json:"org_id"`
	Provider  string        `json:"provider"`
	Repos     team.OrgRepos `json:"repos"`
	CreatedAt string        `json:"created_at"`
	UpdatedAt string        `json:"updated_at"`
}

type orgRepoResponse struct {
	ID             string `json:"id"`
	OrgID          string `json:"org_id"`
	OrgName        string `json:"org_name"`
	Name           string `json:"name"`
	Slug           string `json:"slug"`
	Provider       string `json:"provider"`
	IdempotencyKey string `json:"idempotency_key"`
	CreatedAt      string `json:"created_at"`
}

type listTeamsResponse struct {
	Teams         []teamResponse               `json:"teams"`
	TeamReposMaps map[string][]orgRepoResponse `json:"teamReposMaps"`
	OrgRepos      []team.Repository            `json:"orgRepos"`
}

func toTeamResponse(t *team.Team) teamResponse {
	repos := t.Repos
	if repos == nil {
		repos = team.OrgRepos{}
	}
	return teamResponse{
		ID:        t.ID.String(),
		Name:      t.Name,
		OrgID:     t.OrgID.String(),
		Provider:  string(t.Provider),
		Repos:     repos,
		CreatedAt: t.CreatedAt.UTC().Format(timeFormat),
		UpdatedAt: t.UpdatedAt.UTC().Format(timeFormat),
	}
}

func toOrgRepoResponse(o team.OrgRepo) orgRepoResponse {
	return orgRepoResponse{
		ID:             o.ID.String(),
		OrgID:          o.OrgID.String(),
		OrgName:        o.OrgName,
		Name:           o.Name,
		Slug:           o.Slug,
		Provider:       string(o.Provider),
		IdempotencyKey: o.IdempotencyKey,
		CreatedAt:      o.CreatedAt.UTC().Format(timeFormat),
	}
}

// TeamHandler handles the team endpoints.
type TeamHandler struct {
	teams team.Store
	repos orgrepo.Repository
}

// NewTeamHandler creates a new TeamHandler.
func NewTeamHandler(teams team.Store, repos orgrepo.Repository) *TeamHandler {
	return &TeamHandler{teams: teams, repos: repos}
}

// Create handles POST /teams.
func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateCreateTeamRequest(validation.CreateTeamRequest{
		OrgID:    req.OrgID,
		TeamName: req.TeamName,
		OrgRepos: req.OrgRepos,
		Provider: req.Provider,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	name := strings.TrimSpace(req.TeamName)
	created, err := h.teams.Create(r.Context(), team.CreateParams{
		OrgID:    uuid.MustParse(req.OrgID),
		Name:     name,
		Provider: team.Provider(req.Provider),
		Repos:    req.OrgRepos,
	})
	if err != nil {
		if errors.Is(err, team.ErrDuplicateTeamName) {
			response.Err(w, http.StatusConflict, "DUPLICATE_NAME", fmt.Sprintf("A team named %q already exists", name), requestID)
			return
		}
		middleware.Logger(r.Context()).Error("failed to create team", "error", err, "orgId", req.OrgID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create team", requestID)
		return
	}

	middleware.Logger(r.Context()).Info("team created", "teamId", created.ID, "orgId", created.OrgID, "repos", created.Repos.Count())
	response.Success(w, http.StatusCreated, toTeamResponse(created), requestID)
}

// List handles GET /teams?org_id=&provider=. Teams, their repo associations and
// the organization's repo pool are read concurrently.
func (h *TeamHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	q := r.URL.Query()
	fieldErrors := validation.ValidateListTeamsRequest(validation.ListTeamsRequest{
		OrgID:    q.Get("org_id"),
		Provider: q.Get("provider"),
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	orgID := uuid.MustParse(q.Get("org_id"))
	provider := team.Provider(q.Get("provider"))

	var (
		teams    []team.Team
		byTeam   map[string][]team.OrgRepo
		orgRepos []team.Repository
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		teams, err = h.teams.ListByOrg(ctx, orgID, provider)
		return err
	})
	g.Go(func() error {
		var err error
		byTeam, err = h.teams.ReposByTeam(ctx, orgID, provider)
		return err
	})
	g.Go(func() error {
		var err error
		orgRepos, err = h.repos.ListByOrg(ctx, orgID, provider)
		return err
	})
	if err := g.Wait(); err != nil {
		middleware.Logger(r.Context()).Error("failed to list teams", "error", err, "orgId", orgID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list teams", requestID)
		return
	}

	data := listTeamsResponse{
		Teams:         make([]teamResponse, 0, len(teams)),
		TeamReposMaps: make(map[string][]orgRepoResponse, len(byTeam)),
		OrgRepos:      orgRepos,
	}
	if data.OrgRepos == nil {
		data.OrgRepos = []team.Repository{}
	}
	for i := range teams {
		teams[i].Repos = team.GroupOrgRepos(byTeam[teams[i].ID.String()])
		data.Teams = append(data.Teams, toTeamResponse(&teams[i]))
	}
	for teamID, rows := range byTeam {
		items := make([]orgRepoResponse, 0, len(rows))
		for _, o := range rows {
			items = append(items, toOrgRepoResponse(o))
		}
		data.TeamReposMaps[teamID] = items
	}

	response.Success(w, http.StatusOK, data, requestID)
}
