package teamcrud

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/daap14/repoteams/internal/notify"
	"github.com/daap14/repoteams/internal/team"
)

// MsgSearchFailed is shown when a repository search fails.
const MsgSearchFailed = "Failed to search repositories"

// SearchProvider runs repository lookups keyed by a search string. Every
// issued query takes the next sequence number and only the response for
// the latest one may touch the visible results; older responses are
// dropped when they arrive, their requests are not aborted.
type SearchProvider struct {
	api      RepoSearcher
	org      team.Organization
	provider team.Provider
	notifier notify.Notifier
	limit    int
	delay    time.Duration
	baseCtx  context.Context

	mu      sync.Mutex
	seq     uint64
	loading bool
	query   string
	results []team.Repository
	timer   *time.Timer
}

// SearchOption configures a SearchProvider.
type SearchOption func(*SearchProvider)

// WithSearchDelay sets the debounce delay used by Type.
func WithSearchDelay(d time.Duration) SearchOption {
	return func(p *SearchProvider) {
		p.delay = d
	}
}

// WithSearchLimit caps the number of results requested.
func WithSearchLimit(n int) SearchOption {
	return func(p *SearchProvider) {
		p.limit = n
	}
}

// WithSearchContext sets the context used by debounced searches.
func WithSearchContext(ctx context.Context) SearchOption {
	return func(p *SearchProvider) {
		p.baseCtx = ctx
	}
}

// NewSearchProvider creates a SearchProvider for the organization's repositories.
func NewSearchProvider(api RepoSearcher, org team.Organization, provider team.Provider, n notify.Notifier, opts ...SearchOption) *SearchProvider {
	if n == nil {
		n = notify.Discard
	}
	p := &SearchProvider{
		api:      api,
		org:      org,
		provider: provider,
		notifier: n,
		baseCtx:  context.Background(),
		results:  []team.Repository{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Search looks up query and, if it is still the latest query when the
// response arrives, publishes the results. A blank query clears the
// results without a request. On failure the previous results are kept,
// the user is notified and the error is returned.
func (p *SearchProvider) Search(ctx context.Context, query string) error {
	p.mu.Lock()
	q, seq := p.issueLocked(query)
	p.mu.Unlock()
	return p.run(ctx, q, seq)
}

// Type schedules a search for query after the debounce delay, replacing any
// search still waiting to be issued. The query takes its sequence number
// here, so a later call always supersedes an earlier one. A blank query is
// applied immediately.
func (p *SearchProvider) Type(query string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	q, seq := p.issueLocked(query)
	if q == "" {
		return
	}

	ctx := p.baseCtx
	if p.delay <= 0 {
		go func() { _ = p.run(ctx, q, seq) }()
		return
	}
	p.timer = time.AfterFunc(p.delay, func() {
		_ = p.run(ctx, q, seq)
	})
}

// issueLocked records query as the latest one and returns it trimmed with
// its sequence number. A blank query clears the results. p.mu must be held.
func (p *SearchProvider) issueLocked(query string) (string, uint64) {
	q := strings.TrimSpace(query)
	p.seq++
	p.query = q
	if q == "" {
		p.results = []team.Repository{}
		p.loading = false
	}
	return q, p.seq
}

// run issues the request for q unless a newer query has superseded seq.
func (p *SearchProvider) run(ctx context.Context, q string, seq uint64) error {
	if q == "" {
		return nil
	}

	p.mu.Lock()
	if seq != p.seq {
		p.mu.Unlock()
		return nil
	}
	p.loading = true
	p.mu.Unlock()

	repos, err := p.api.SearchRepos(ctx, p.org.ID, p.provider, q, p.limit)

	p.mu.Lock()
	if seq != p.seq {
		p.mu.Unlock()
		slog.Debug("discarding stale repo search response", "query", q, "seq", seq)
		return nil
	}
	p.loading = false
	if err == nil {
		if repos == nil {
			repos = []team.Repository{}
		}
		p.results = repos
	}
	p.mu.Unlock()

	if err != nil {
		slog.Error("failed to search repositories", "error", err, "query", q)
		p.notifier.Notify(MsgSearchFailed, notify.SeverityError, notify.DefaultDuration)
		return fmt.Errorf("searching repositories for %q: %w", q, err)
	}
	return nil
}

// Stop cancels a search waiting to be issued.
func (p *SearchProvider) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

// Loading reports whether the latest search is outstanding.
func (p *SearchProvider) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// Query returns the latest issued query, trimmed.
func (p *SearchProvider) Query() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.query
}

// Results returns a copy of the visible result set.
func (p *SearchProvider) Results() []team.Repository {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]team.Repository, len(p.results))
	copy(out, p.results)
	return out
}
