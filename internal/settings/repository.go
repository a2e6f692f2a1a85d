package settings

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
)

// ErrSettingNotFound is returned when a team has no setting of the requested type.
var ErrSettingNotFound = errors.New("team setting not found")

// ErrTeamNotFound is returned when writing a setting for a team that does not exist.
var ErrTeamNotFound = errors.New("team not found")

// Repository stores per-team settings.
type Repository interface {
	Get(ctx context.Context, teamID uuid.UUID, settingType string) (*Setting, error)
	Put(ctx context.Context, teamID uuid.UUID, settingType string, data json.RawMessage) (*Setting, error)
}
