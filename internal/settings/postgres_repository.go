package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository backed by the given connection pool.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

func scanSetting(row pgx.Row) (*Setting, error) {
	var s Setting
	var data []byte
	err := row.Scan(&s.TeamID, &s.SettingType, &data, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSettingNotFound
		}
		return nil, fmt.Errorf("scanning team setting row: %w", err)
	}
	s.SettingData = json.RawMessage(data)
	return &s, nil
}

// Get retrieves a team's setting of the given type.
func (r *PostgresRepository) Get(ctx context.Context, teamID uuid.UUID, settingType string) (*Setting, error) {
	query := `
		SELECT team_id, setting_type, setting_data, created_at, updated_at
		FROM team_settings
		WHERE team_id = $1 AND setting_type = $2`

	return scanSetting(r.pool.QueryRow(ctx, query, teamID, settingType))
}

// Put creates or replaces a team's setting of the given type.
func (r *PostgresRepository) Put(ctx context.Context, teamID uuid.UUID, settingType string, data json.RawMessage) (*Setting, error) {
	if len(data) == 0 {
		data = json.RawMessage(`{}`)
	}

	query := `
		INSERT INTO team_settings (team_id, setting_type, setting_data)
		VALUES ($1, $2, $3)
		ON CONFLICT (team_id, setting_type)
		DO UPDATE SET setting_data = EXCLUDED.setting_data, updated_at = now()
		RETURNING team_id, setting_type, setting_data, created_at, updated_at`

	s, err := scanSetting(r.pool.QueryRow(ctx, query, teamID, settingType, []byte(data)))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("upserting team setting: %w", err)
	}
	return s, nil
}
