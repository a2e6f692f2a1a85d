package teamcrud

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/daap14/repoteams/internal/notify"
	"github.com/daap14/repoteams/internal/team"
)

// Deps are the collaborators and ambient values CRUD needs. Nothing is looked
// up implicitly.
type Deps struct {
	API         API
	Notifier    notify.Notifier
	Org         team.Organization
	Provider    team.Provider
	SearchDelay time.Duration
	SearchLimit int
}

// Option configures CRUD.
type Option func(*CRUD)

// WithEditingTeam pre-populates the draft from the team with the given id once Load succeeds.
func WithEditingTeam(id uuid.UUID) Option {
	return func(c *CRUD) {
		c.editingID = id
	}
}

// CRUD is the single read/mutate surface for a team draft. It composes the
// Gate, SearchProvider, TeamStore and SaveOrchestrator.
type CRUD struct {
	store  *TeamStore
	search *SearchProvider
	saver  *SaveOrchestrator
	gate   Gate

	editingID uuid.UUID

	mu          sync.Mutex
	draft       Draft
	editingTeam *team.Team
}

// New creates a CRUD with an empty draft. Call Load to fetch the teams.
func New(deps Deps, opts ...Option) *CRUD {
	n := deps.Notifier
	if n == nil {
		n = notify.Discard
	}
	provider := deps.Provider
	if provider == "" {
		provider = team.ProviderGitHub
	}

	store := NewTeamStore(deps.API, deps.Org, provider, n)
	c := &CRUD{
		store: store,
		search: NewSearchProvider(deps.API, deps.Org, provider, n,
			WithSearchDelay(deps.SearchDelay),
			WithSearchLimit(deps.SearchLimit),
		),
		saver: NewSaveOrchestrator(deps.API, store, deps.Org, provider, n),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load fetches the organization's teams. In edit mode the draft is then
// filled from the edited team, when it exists.
func (c *CRUD) Load(ctx context.Context) error {
	if err := c.store.FetchTeams(ctx); err != nil {
		return err
	}
	if c.editingID == uuid.Nil {
		return nil
	}

	t, ok := c.store.Team(c.editingID)
	c.mu.Lock()
	defer c.mu.Unlock()
	if !ok {
		c.editingTeam = nil
		return nil
	}
	c.editingTeam = &t
	c.draft = NewDraft(t.Name, c.store.TeamRepos(t.ID)...)
	return nil
}

// Draft returns a copy of the current draft.
func (c *CRUD) Draft() Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.Clone()
}

// TeamName returns the draft name.
func (c *CRUD) TeamName() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.Name
}

// SetTeamName updates the draft name and recomputes the name flag.
func (c *CRUD) SetTeamName(name string) {
	c.mu.Lock()
	c.draft.Name = name
	d := c.draft.Clone()
	c.mu.Unlock()
	c.gate.RaiseNameError(d)
}

// RaiseTeamNameError recomputes the name flag; call it when the name field loses focus.
func (c *CRUD) RaiseTeamNameError() {
	c.gate.RaiseNameError(c.Draft())
}

// ShowTeamNameError reports whether the name error should be shown.
func (c *CRUD) ShowTeamNameError() bool {
	return c.gate.NameError()
}

// SelectRepo adds repo to the selection. Selecting an already selected repo is a no-op.
func (c *CRUD) SelectRepo(repo team.Repository) bool {
	c.mu.Lock()
	changed := c.draft.Select(repo)
	d := c.draft.Clone()
	c.mu.Unlock()
	c.gate.RaiseRepoError(d)
	return changed
}

// UnselectRepo removes the repository with the given id from the selection.
func (c *CRUD) UnselectRepo(id string) bool {
	c.mu.Lock()
	changed := c.draft.Deselect(id)
	d := c.draft.Clone()
	c.mu.Unlock()
	c.gate.RaiseRepoError(d)
	return changed
}

// SetSelectedRepos replaces the selection, dropping duplicate ids.
func (c *CRUD) SetSelectedRepos(repos []team.Repository) {
	c.mu.Lock()
	c.draft.SetSelection(repos)
	d := c.draft.Clone()
	c.mu.Unlock()
	c.gate.RaiseRepoError(d)
}

// SelectedRepos returns the selection in selection order.
func (c *CRUD) SelectedRepos() []team.Repository {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.Selected()
}

// RaiseTeamRepoError recomputes the selection flag; call it when the repo picker loses focus.
func (c *CRUD) RaiseTeamRepoError() {
	c.gate.RaiseRepoError(c.Draft())
}

// TeamRepoError reports whether the selection error should be shown.
func (c *CRUD) TeamRepoError() bool {
	return c.gate.RepoError()
}

// SearchRepos runs a repository search and waits for it.
func (c *CRUD) SearchRepos(ctx context.Context, query string) error {
	return c.search.Search(ctx, query)
}

// TypeSearch debounces a search-as-you-type keystroke.
func (c *CRUD) TypeSearch(query string) {
	c.search.Type(query)
}

// LoadingRepos reports whether the latest repository search is outstanding.
func (c *CRUD) LoadingRepos() bool {
	return c.search.Loading()
}

// SearchQuery returns the latest issued search query.
func (c *CRUD) SearchQuery() string {
	return c.search.Query()
}

// RepoOptions returns the search results while a query is active and the
// organization's repository pool otherwise.
func (c *CRUD) RepoOptions() []team.Repository {
	if c.search.Query() != "" {
		return c.search.Results()
	}
	return c.store.OrgRepos()
}

// Teams returns the organization's teams.
func (c *CRUD) Teams() []team.Team {
	return c.store.Teams()
}

// OrgRepos returns the organization's repository pool.
func (c *CRUD) OrgRepos() []team.Repository {
	return c.store.OrgRepos()
}

// TeamReposMaps returns the repositories of each team keyed by team id.
func (c *CRUD) TeamReposMaps() map[string][]team.OrgRepo {
	return c.store.TeamReposMaps()
}

// Save submits the draft. Both inline flags are raised first so a rejected
// draft shows its errors. The draft is cleared on success and kept on failure.
func (c *CRUD) Save(ctx context.Context, callback func(*team.Team)) error {
	d := c.Draft()
	if !c.saver.InFlight() {
		c.gate.RaiseNameError(d)
		c.gate.RaiseRepoError(d)
	}

	if err := c.saver.Save(ctx, d, callback); err != nil {
		return err
	}

	c.mu.Lock()
	c.draft.Reset()
	c.mu.Unlock()
	c.gate.Reset()
	return nil
}

// Discard empties the draft and calls callback. It performs no I/O.
func (c *CRUD) Discard(callback func()) {
	c.mu.Lock()
	c.draft.Reset()
	c.mu.Unlock()
	c.gate.Reset()
	c.search.Stop()
	if callback != nil {
		callback()
	}
}

// IsSaveLoading reports whether a save is running.
func (c *CRUD) IsSaveLoading() bool {
	return c.saver.InFlight()
}

// SaveState returns the save transaction state.
func (c *CRUD) SaveState() TxState {
	return c.saver.State()
}

// SaveDisabled reports whether the save action should be disabled.
func (c *CRUD) SaveDisabled() bool {
	if c.saver.InFlight() {
		return true
	}
	return Validate(c.Draft()) != nil
}

// IsEditing reports whether CRUD was created for an existing team.
func (c *CRUD) IsEditing() bool {
	return c.editingID != uuid.Nil
}

// EditingTeam returns the team being edited, or nil when none was found.
func (c *CRUD) EditingTeam() *team.Team {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.editingTeam == nil {
		return nil
	}
	t := *c.editingTeam
	return &t
}

// IsPageLoading reports whether the first team fetch is still running.
func (c *CRUD) IsPageLoading() bool {
	return c.store.Loading() && !c.store.Loaded()
}

// Store exposes the team store, for read access and manual refetches.
func (c *CRUD) Store() *TeamStore {
	return c.store
}
