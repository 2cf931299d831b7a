package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/AnshRaj112/mindmate-backend/internal/services"
	"github.com/AnshRaj112/mindmate-backend/internal/storage"
)

// Deps are the services the HTTP layer drives.
type Deps struct {
	Journal     *services.JournalService
	Mood        *services.MoodService
	Preferences *services.PreferencesService
	Sessions    *services.SessionManager
	Storage     *storage.Adapter
	Logger      *zap.Logger
}

type Handler struct {
	journal  *services.JournalService
	mood     *services.MoodService
	prefs    *services.PreferencesService
	sessions *services.SessionManager
	storage  *storage.Adapter
	logger   *zap.Logger
}

func New(d Deps) *Handler {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		journal:  d.Journal,
		mood:     d.Mood,
		prefs:    d.Preferences,
		sessions: d.Sessions,
		storage:  d.Storage,
		logger:   logger,
	}
}

// Response is the envelope every endpoint answers with on failure.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status          string `json:"status"`
	StorageFailures int64  `json:"storage_failures"`
}

// Health reports liveness and how many writes the storage layer dropped.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok"}
	if h.storage != nil {
		resp.StorageFailures = h.storage.Failures()
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Response{Success: false, Message: message})
}

func decodeBody(r *http.Request, dest any) error {
	return json.NewDecoder(r.Body).Decode(dest)
}
