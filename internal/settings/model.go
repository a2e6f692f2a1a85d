package settings

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Setting represents a row in the team_settings table. Data is an opaque JSON object
// whose shape depends on SettingType.
type Setting struct {
	TeamID      uuid.UUID
	SettingType string
	SettingData json.RawMessage
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
