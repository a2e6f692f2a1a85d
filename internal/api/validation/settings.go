package validation

import (
	"bytes"
	"encoding/json"
	"strings"
)

// PutTeamSettingsRequest mirrors the fields of PUT /teams/{team_id}/settings.
type PutTeamSettingsRequest struct {
	SettingType string
	SettingData json.RawMessage
}

// ValidatePutTeamSettingsRequest validates a team settings write.
// setting_data is optional but must be a JSON object when present.
func ValidatePutTeamSettingsRequest(req PutTeamSettingsRequest) []FieldError {
	var errs []FieldError

	if strings.TrimSpace(req.SettingType) == "" {
		errs = append(errs, FieldError{Field: "setting_type", Message: "setting_type is required"})
	}

	data := bytes.TrimSpace(req.SettingData)
	if len(data) > 0 && !bytes.Equal(data, []byte("null")) {
		var obj map[string]any
		if err := json.Unmarshal(data, &obj); err != nil {
			errs = append(errs, FieldError{Field: "setting_data", Message: "setting_data must be a JSON object"})
		}
	}

	return errs
}
