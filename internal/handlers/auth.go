package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/AnshRaj112/mindmate-backend/internal/middleware"
	"github.com/AnshRaj112/mindmate-backend/internal/models"
	"github.com/AnshRaj112/mindmate-backend/pkg/utils"
)

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Success bool               `json:"success"`
	Message string             `json:"message"`
	User    *models.User       `json:"user,omitempty"`
	Token   string             `json:"token,omitempty"`
	Kind    models.SessionKind `json:"kind,omitempty"`
	IsDemo  bool               `json:"is_demo"`
}

// Register creates an account and signs in. When the identity backend is
// unreachable the user still gets in, on a local demo identity.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := h.sessions.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		writeValidationError(w, err)
		return
	}
	h.logSession("register", session)
	resp := sessionResponse(session, "Account created")
	resp.Token = session.Token
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req CredentialsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	session, err := h.sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeValidationError(w, err)
		return
	}
	h.logSession("login", session)
	resp := sessionResponse(session, "Signed in")
	resp.Token = session.Token
	writeJSON(w, http.StatusOK, resp)
}

// Logout always succeeds for the holder of the session token.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Logout(r.Context())
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "Signed out"})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Not signed in")
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse(session, ""))
}

func (h *Handler) logSession(op string, s models.Session) {
	if s.IsLocal() {
		h.logger.Info("signed in with local demo identity", zap.String("op", op), zap.String("user_id", s.User.ID), zap.NamedError("cause", s.Cause))
		return
	}
	h.logger.Info("signed in", zap.String("op", op), zap.String("user_id", s.User.ID))
}

func sessionResponse(s models.Session, message string) AuthResponse {
	user := s.User
	if s.IsLocal() && message != "" {
		message += " (offline demo account)"
	}
	return AuthResponse{
		Success: true,
		Message: message,
		User:    &user,
		Kind:    s.Kind,
		IsDemo:  s.IsLocal(),
	}
}

func writeValidationError(w http.ResponseWriter, err error) {
	var verr *utils.ValidationError
	if errors.As(err, &verr) {
		writeError(w, http.StatusBadRequest, verr.Message)
		return
	}
	writeError(w, http.StatusInternalServerError, "Something went wrong")
}
