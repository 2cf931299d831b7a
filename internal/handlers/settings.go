package handlers

import (
	"errors"
	"net/http"

	"github.com/AnshRaj112/mindmate-backend/internal/models"
	"github.com/AnshRaj112/mindmate-backend/internal/services"
)

type SettingsResponse struct {
	Success     bool               `json:"success"`
	Message     string             `json:"message,omitempty"`
	Preferences models.Preferences `json:"preferences"`
}

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, SettingsResponse{Success: true, Preferences: h.prefs.Get()})
}

// UpdateSettings applies only the fields present in the body.
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var patch services.PreferencesPatch
	if err := decodeBody(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	prefs, err := h.prefs.Update(r.Context(), patch)
	switch {
	case errors.Is(err, services.ErrUnsupportedTheme):
		writeError(w, http.StatusBadRequest, "Theme must be light or dark")
	case errors.Is(err, services.ErrUnsupportedLanguage):
		writeError(w, http.StatusBadRequest, "Language must be en or bn")
	case err != nil:
		writeError(w, http.StatusInternalServerError, "Failed to update settings")
	default:
		writeJSON(w, http.StatusOK, SettingsResponse{Success: true, Message: "Settings saved", Preferences: prefs})
	}
}

func (h *Handler) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, SettingsResponse{Success: true, Preferences: h.prefs.ToggleTheme(r.Context())})
}
