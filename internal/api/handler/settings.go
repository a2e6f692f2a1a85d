package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/daap14/repoteams/internal/api/middleware"
	"github.com/daap14/repoteams/internal/api/response"
	"github.com/daap14/repoteams/internal/api/validation"
	"github.com/daap14/repoteams/internal/settings"
	"github.com/daap14/repoteams/internal/team"
)

type putSettingsRequest struct {
	SettingType string          `json:"setting_type"`
	SettingData json.RawMessage `json:"setting_data"`
}

type settingsResponse struct {
	TeamID      string          `json:"team_id"`
	SettingType string          `json:"setting_type"`
	SettingData json.RawMessage `json:"setting_data"`
	CreatedAt   string          `json:"created_at"`
	UpdatedAt   string          `json:"updated_at"`
}

func toSettingsResponse(s *settings.Setting) settingsResponse {
	data := s.SettingData
	if len(data) == 0 {
		data = json.RawMessage(`{}`)
	}
	return settingsResponse{
		TeamID:      s.TeamID.String(),
		SettingType: s.SettingType,
		SettingData: data,
		CreatedAt:   s.CreatedAt.UTC().Format(timeFormat),
		UpdatedAt:   s.UpdatedAt.UTC().Format(timeFormat),
	}
}

// SettingsHandler handles the team settings endpoints.
type SettingsHandler struct {
	teams    team.Store
	settings settings.Repository
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(teams team.Store, repo settings.Repository) *SettingsHandler {
	return &SettingsHandler{teams: teams, settings: repo}
}

// Get handles GET /teams/{team_id}/settings?setting_type=.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	teamID, err := uuid.Parse(chi.URLParam(r, "team_id"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "team_id must be a valid UUID", requestID)
		return
	}

	settingType := strings.TrimSpace(r.URL.Query().Get("setting_type"))
	if settingType == "" {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed",
			[]validation.FieldError{{Field: "setting_type", Message: "setting_type is required"}}, requestID)
		return
	}

	if _, err := h.teams.GetByID(r.Context(), teamID); err != nil {
		if errors.Is(err, team.ErrTeamNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Team not found", requestID)
			return
		}
		middleware.Logger(r.Context()).Error("failed to get team", "error", err, "teamId", teamID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get team settings", requestID)
		return
	}

	s, err := h.settings.Get(r.Context(), teamID, settingType)
	if err != nil {
		if errors.Is(err, settings.ErrSettingNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Team setting not found", requestID)
			return
		}
		middleware.Logger(r.Context()).Error("failed to get team settings", "error", err, "teamId", teamID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to get team settings", requestID)
		return
	}

	response.Success(w, http.StatusOK, toSettingsResponse(s), requestID)
}

// Put handles PUT /teams/{team_id}/settings.
func (h *SettingsHandler) Put(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	teamID, err := uuid.Parse(chi.URLParam(r, "team_id"))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "team_id must be a valid UUID", requestID)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req putSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidatePutTeamSettingsRequest(validation.PutTeamSettingsRequest{
		SettingType: req.SettingType,
		SettingData: req.SettingData,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	data := req.SettingData
	if string(data) == "null" {
		data = nil
	}

	s, err := h.settings.Put(r.Context(), teamID, strings.TrimSpace(req.SettingType), data)
	if err != nil {
		if errors.Is(err, settings.ErrTeamNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Team not found", requestID)
			return
		}
		middleware.Logger(r.Context()).Error("failed to update team settings", "error", err, "teamId", teamID)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update team settings", requestID)
		return
	}

	response.Success(w, http.StatusOK, toSettingsResponse(s), requestID)
}
