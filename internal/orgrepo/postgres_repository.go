package orgrepo

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/daap14/repoteams/internal/team"
)

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// Search returns repositories whose name or slug contains the query.
// An empty query returns an empty slice without touching the database.
func (r *PostgresRepository) Search(ctx context.Context, params SearchParams) ([]team.Repository, error) {
	q := strings.TrimSpace(params.Query)
	if q == "" {
		return []team.Repository{}, nil
	}

	limit := params.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	query := `
		SELECT idempotency_key, name, org_name, slug
		FROM org_repos
		WHERE org_id = $1 AND provider = $2
		  AND (name ILIKE $3 OR slug ILIKE $3)
		ORDER BY name ASC
		LIMIT $4`

	rows, err := r.pool.Query(ctx, query, params.OrgID, params.Provider, "%"+escapeLike(q)+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("searching org repos: %w", err)
	}
	return collect(rows)
}

// ListByOrg returns the full catalog of an organization.
func (r *PostgresRepository) ListByOrg(ctx context.Context, orgID uuid.UUID, provider team.Provider) ([]team.Repository, error) {
	query := `
		SELECT idempotency_key, name, org_name, slug
		FROM org_repos
		WHERE org_id = $1 AND provider = $2
		ORDER BY org_name ASC, name ASC`

	rows, err := r.pool.Query(ctx, query, orgID, provider)
	if err != nil {
		return nil, fmt.Errorf("listing org repos: %w", err)
	}
	return collect(rows)
}

func collect(rows pgx.Rows) ([]team.Repository, error) {
	defer rows.Close()

	repos := []team.Repository{}
	for rows.Next() {
		var repo team.Repository
		if err := rows.Scan(&repo.ID, &repo.Name, &repo.Parent, &repo.Slug); err != nil {
			return nil, fmt.Errorf("scanning org repo row: %w", err)
		}
		repos = append(repos, repo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating org repo rows: %w", err)
	}
	return repos, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
