package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/daap14/repoteams/internal/api/middleware"
	"github.com/daap14/repoteams/internal/api/response"
	"github.com/daap14/repoteams/internal/api/validation"
	"github.com/daap14/repoteams/internal/orgrepo"
	"github.com/daap14/repoteams/internal/team"
)

// RepoHandler handles repository search.
type RepoHandler struct {
	repos        orgrepo.Repository
	defaultLimit int
}

// NewRepoHandler creates a new RepoHandler. defaultLimit applies when the request has no limit.
func NewRepoHandler(repos orgrepo.Repository, defaultLimit int) *RepoHandler {
	if defaultLimit <= 0 {
		defaultLimit = orgrepo.DefaultLimit
	}
	return &RepoHandler{repos: repos, defaultLimit: defaultLimit}
}

// Search handles GET /repos/search?q=&org_id=&provider=&limit=.
func (h *RepoHandler) Search(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	q := r.URL.Query()
	fieldErrors := validation.ValidateSearchReposRequest(validation.SearchReposRequest{
		OrgID:    q.Get("org_id"),
		Provider: q.Get("provider"),
		Limit:    q.Get("limit"),
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	limit := h.defaultLimit
	if s := q.Get("limit"); s != "" {
		limit, _ = strconv.Atoi(s)
	}

	repos, err := h.repos.Search(r.Context(), orgrepo.SearchParams{
		OrgID:    uuid.MustParse(q.Get("org_id")),
		Provider: team.Provider(q.Get("provider")),
		Query:    q.Get("q"),
		Limit:    limit,
	})
	if err != nil {
		middleware.Logger(r.Context()).Error("failed to search repos", "error", err, "query", q.Get("q"))
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to search repositories", requestID)
		return
	}

	if repos == nil {
		repos = []team.Repository{}
	}
	response.SuccessList(w, http.StatusOK, repos, len(repos), requestID)
}
