package handlers

import (
	"errors"
	"net/http"

	"github.com/AnshRaj112/mindmate-backend/internal/models"
	"github.com/AnshRaj112/mindmate-backend/internal/services"
)

type RecordMoodRequest struct {
	Score models.MoodScore `json:"score"`
	Note  string           `json:"note"`
}

type MoodResponse struct {
	Success bool               `json:"success"`
	Message string             `json:"message,omitempty"`
	Mood    *models.MoodSample `json:"mood,omitempty"`
	State   services.FormState `json:"state"`
}

type MoodHistoryResponse struct {
	Success bool                `json:"success"`
	Moods   []models.MoodSample `json:"moods"`
	Total   int                 `json:"total"`
}

type MoodSeriesResponse struct {
	Success bool                 `json:"success"`
	Series  []models.SeriesPoint `json:"series"`
}

func (h *Handler) MoodHistory(w http.ResponseWriter, r *http.Request) {
	moods := h.mood.History()
	writeJSON(w, http.StatusOK, MoodHistoryResponse{Success: true, Moods: moods, Total: len(moods)})
}

// RecordMood runs one pass of the mood form: select, note, submit. A day
// that already has a sample answers 409.
func (h *Handler) RecordMood(w http.ResponseWriter, r *http.Request) {
	var req RecordMoodRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	form := h.mood.NewForm()
	err := form.Select(req.Score)
	if err == nil && req.Note != "" {
		err = form.SetNote(req.Note)
	}
	var sample models.MoodSample
	if err == nil {
		sample, err = form.Submit(r.Context())
	}

	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, MoodResponse{Success: true, Message: "Mood recorded", Mood: &sample, State: form.State()})
	case errors.Is(err, services.ErrAlreadyRecorded):
		today, _ := h.mood.Today()
		writeJSON(w, http.StatusConflict, MoodResponse{Success: false, Message: "You have already recorded your mood today", Mood: &today, State: services.FormAlreadyRecorded})
	case errors.Is(err, services.ErrScoreOutOfRange), errors.Is(err, services.ErrNoMoodSelected):
		writeError(w, http.StatusBadRequest, "Score must be between 1 and 5")
	default:
		writeError(w, http.StatusInternalServerError, "Failed to record mood")
	}
}

// TodayMood returns today's sample and the form state; mood is omitted when
// nothing was recorded yet.
func (h *Handler) TodayMood(w http.ResponseWriter, r *http.Request) {
	resp := MoodResponse{Success: true, State: h.mood.NewForm().State()}
	if today, ok := h.mood.Today(); ok {
		resp.Mood = &today
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) WeeklyMood(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, MoodSeriesResponse{Success: true, Series: h.mood.WeeklySeries()})
}
