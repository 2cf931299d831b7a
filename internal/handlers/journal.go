package handlers

import (
	"errors"
	"net/http"
	"slices"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/AnshRaj112/mindmate-backend/internal/middleware"
	"github.com/AnshRaj112/mindmate-backend/internal/models"
	"github.com/AnshRaj112/mindmate-backend/internal/services"
)

type JournalRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type JournalResponse struct {
	Success bool                 `json:"success"`
	Message string               `json:"message,omitempty"`
	Journal *models.JournalEntry `json:"journal,omitempty"`
}

type JournalsResponse struct {
	Success  bool                  `json:"success"`
	Journals []models.JournalEntry `json:"journals"`
	Total    int                   `json:"total"`
}

// ListJournals returns entries newest first, filtered by ?q= when given.
func (h *Handler) ListJournals(w http.ResponseWriter, r *http.Request) {
	journals := slices.Collect(h.journal.Search(r.URL.Query().Get("q")))
	if journals == nil {
		journals = []models.JournalEntry{}
	}
	writeJSON(w, http.StatusOK, JournalsResponse{Success: true, Journals: journals, Total: len(journals)})
}

func (h *Handler) GetJournal(w http.ResponseWriter, r *http.Request) {
	id, ok := journalID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid journal id")
		return
	}
	entry, found := h.journal.Get(id)
	if !found {
		writeError(w, http.StatusNotFound, "Journal entry not found")
		return
	}
	writeJSON(w, http.StatusOK, JournalResponse{Success: true, Journal: &entry})
}

func (h *Handler) CreateJournal(w http.ResponseWriter, r *http.Request) {
	var req JournalRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry, err := h.journal.Save(r.Context(), services.JournalDraft{Title: req.Title, Content: req.Content})
	if err != nil {
		writeJournalError(w, err)
		return
	}
	h.logger.Debug("journal entry created", zap.Int64("id", entry.ID), zap.String("user_id", userID(r)))
	writeJSON(w, http.StatusCreated, JournalResponse{Success: true, Message: "Journal created successfully", Journal: &entry})
}

// UpdateJournal edits title and content; the original date is kept.
func (h *Handler) UpdateJournal(w http.ResponseWriter, r *http.Request) {
	id, ok := journalID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid journal id")
		return
	}
	var req JournalRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if _, found := h.journal.Get(id); !found {
		writeError(w, http.StatusNotFound, "Journal entry not found")
		return
	}

	entry, err := h.journal.Save(r.Context(), services.JournalDraft{ID: id, Title: req.Title, Content: req.Content})
	if err != nil {
		writeJournalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, JournalResponse{Success: true, Message: "Journal updated successfully", Journal: &entry})
}

// DeleteJournal needs ?confirm=true. Without it nothing is removed and the
// client is asked to confirm.
func (h *Handler) DeleteJournal(w http.ResponseWriter, r *http.Request) {
	id, ok := journalID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid journal id")
		return
	}
	entry, found := h.journal.Get(id)
	if !found {
		writeError(w, http.StatusNotFound, "Journal entry not found")
		return
	}

	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	if !confirmed {
		writeJSON(w, http.StatusConflict, JournalResponse{
			Success: false,
			Message: "Are you sure you want to delete this entry? Repeat the request with confirm=true.",
			Journal: &entry,
		})
		return
	}

	h.journal.Delete(r.Context(), id, func(models.JournalEntry) bool { return true })
	h.logger.Debug("journal entry deleted", zap.Int64("id", id), zap.String("user_id", userID(r)))
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "Journal deleted successfully"})
}

func journalID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func writeJournalError(w http.ResponseWriter, err error) {
	if errors.Is(err, services.ErrEmptyEntry) {
		writeError(w, http.StatusBadRequest, "Title or content is required")
		return
	}
	writeError(w, http.StatusInternalServerError, "Failed to save journal entry")
}

func userID(r *http.Request) string {
	if s, ok := middleware.SessionFromContext(r.Context()); ok {
		return s.User.ID
	}
	return ""
}
