package team

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Store using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

var _ Store = (*PostgresRepository)(nil)

// NewRepository creates a Store backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Store {
	return &PostgresRepository{pool: pool}
}

const teamColumns = `id, name, org_id, provider, created_at, updated_at`

const orgRepoColumns = `r.id, r.org_id, r.org_name, r.name, r.slug, r.provider, r.idempotency_key, r.created_at`

func scanTeam(row pgx.Row) (*Team, error) {
	var t Team
	err := row.Scan(&t.ID, &t.Name, &t.OrgID, &t.Provider, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("scanning team row: %w", err)
	}
	return &t, nil
}

// Create inserts a team, upserts the repositories it references and links them,
// all in one transaction. Repositories are deduplicated on their idempotency key.
func (r *PostgresRepository) Create(ctx context.Context, params CreateParams) (*Team, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `
		INSERT INTO teams (name, org_id, provider)
		VALUES ($1, $2, $3)
		RETURNING ` + teamColumns

	t, err := scanTeam(tx.QueryRow(ctx, query, params.Name, params.OrgID, params.Provider))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrDuplicateTeamName
		}
		return nil, fmt.Errorf("inserting team: %w", err)
	}

	upsert := `
		INSERT INTO org_repos (org_id, org_name, name, slug, provider, idempotency_key)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (org_id, provider, idempotency_key)
		DO UPDATE SET org_name = EXCLUDED.org_name, name = EXCLUDED.name, slug = EXCLUDED.slug
		RETURNING id`

	link := `
		INSERT INTO team_repos (team_id, org_repo_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`

	t.Repos = OrgRepos{}
	for orgName, repos := range params.Repos {
		seen := make(map[string]bool, len(repos))
		for _, repo := range repos {
			if seen[repo.IdempotencyKey] {
				continue
			}
			seen[repo.IdempotencyKey] = true

			var repoID uuid.UUID
			err := tx.QueryRow(ctx, upsert,
				params.OrgID, orgName, repo.Name, repo.Slug, params.Provider, repo.IdempotencyKey,
			).Scan(&repoID)
			if err != nil {
				return nil, fmt.Errorf("upserting org repo %q: %w", repo.IdempotencyKey, err)
			}

			if _, err := tx.Exec(ctx, link, t.ID, repoID); err != nil {
				return nil, fmt.Errorf("linking repo %q to team: %w", repo.IdempotencyKey, err)
			}
			t.Repos[orgName] = append(t.Repos[orgName], repo)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing team: %w", err)
	}

	return t, nil
}

// GetByID retrieves a single team and its repositories.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`

	t, err := scanTeam(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, ErrTeamNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("querying team: %w", err)
	}

	reposQuery := `
		SELECT tr.team_id, ` + orgRepoColumns + `
		FROM team_repos tr
		JOIN org_repos r ON r.id = tr.org_repo_id
		WHERE tr.team_id = $1
		ORDER BY r.org_name, r.name`

	byTeam, err := r.queryTeamRepos(ctx, reposQuery, id)
	if err != nil {
		return nil, err
	}
	t.Repos = GroupOrgRepos(byTeam[id.String()])

	return t, nil
}

// ListByOrg retrieves an organization's teams ordered by creation time.
// Repos is left empty; ReposByTeam loads the associations for the whole org.
func (r *PostgresRepository) ListByOrg(ctx context.Context, orgID uuid.UUID, provider Provider) ([]Team, error) {
	query := `
		SELECT ` + teamColumns + `
		FROM teams
		WHERE org_id = $1 AND provider = $2
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, orgID, provider)
	if err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}
	defer rows.Close()

	var teams []Team
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		teams = append(teams, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating team rows: %w", err)
	}

	if teams == nil {
		teams = []Team{}
	}
	return teams, nil
}

// ReposByTeam returns the repositories of every team in the organization keyed by team id.
func (r *PostgresRepository) ReposByTeam(ctx context.Context, orgID uuid.UUID, provider Provider) (map[string][]OrgRepo, error) {
	query := `
		SELECT tr.team_id, ` + orgRepoColumns + `
		FROM team_repos tr
		JOIN teams t ON t.id = tr.team_id
		JOIN org_repos r ON r.id = tr.org_repo_id
		WHERE t.org_id = $1 AND t.provider = $2
		ORDER BY r.org_name, r.name`

	return r.queryTeamRepos(ctx, query, orgID, provider)
}

func (r *PostgresRepository) queryTeamRepos(ctx context.Context, query string, args ...any) (map[string][]OrgRepo, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying team repos: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]OrgRepo)
	for rows.Next() {
		var teamID uuid.UUID
		var o OrgRepo
		err := rows.Scan(&teamID, &o.ID, &o.OrgID, &o.OrgName, &o.Name, &o.Slug, &o.Provider, &o.IdempotencyKey, &o.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning team repo row: %w", err)
		}
		key := teamID.String()
		result[key] = append(result[key], o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating team repo rows: %w", err)
	}

	return result, nil
}

// GroupOrgRepos groups stored repository rows into the payload shape keyed
// by organization name.
func GroupOrgRepos(rows []OrgRepo) OrgRepos {
	out := OrgRepos{}
	for _, o := range rows {
		out[o.OrgName] = append(out[o.OrgName], RepoUniqueDetails{
			IdempotencyKey: o.IdempotencyKey,
			Name:           o.Name,
			Slug:           o.Slug,
		})
	}
	return out
}
