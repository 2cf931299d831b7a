package services

import (
	"context"
	"crypto/subtle"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/AnshRaj112/mindmate-backend/internal/models"
	"github.com/AnshRaj112/mindmate-backend/pkg/utils"
)

// IdentityBackend is the external identity provider.
type IdentityBackend interface {
	Login(ctx context.Context, email, password string) (models.User, string, error)
	Register(ctx context.Context, email, password string) (models.User, string, error)
	Logout(ctx context.Context, token string) error
	Validate(ctx context.Context, token string) (bool, error)
}

// SessionManager holds the signed-in identity of this process. It is built
// once by main and handed to whatever needs it.
//
// Login and Register never surface backend failures: after input validation
// passes, a failing backend yields a local demo session whose Kind is
// SessionLocal and whose Cause carries the masked error.
type SessionManager struct {
	mu      sync.RWMutex
	backend IdentityBackend
	logger  *zap.Logger
	now     func() time.Time
	current *models.Session
}

func NewSessionManager(backend IdentityBackend, logger *zap.Logger) *SessionManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionManager{backend: backend, logger: logger, now: time.Now}
}

func (m *SessionManager) Login(ctx context.Context, email, password string) (models.Session, error) {
	if err := utils.ValidateEmail(email); err != nil {
		return models.Session{}, err
	}
	if password == "" {
		return models.Session{}, &utils.ValidationError{Field: "password", Message: "Password is required"}
	}
	user, token, err := m.backend.Login(ctx, email, password)
	return m.establish(user, token, email, "login", err), nil
}

func (m *SessionManager) Register(ctx context.Context, email, password string) (models.Session, error) {
	if err := utils.ValidateEmail(email); err != nil {
		return models.Session{}, err
	}
	if err := utils.ValidatePassword(password); err != nil {
		return models.Session{}, err
	}
	user, token, err := m.backend.Register(ctx, email, password)
	return m.establish(user, token, email, "register", err), nil
}

// Logout always clears the session. Only remote sessions reach the backend,
// and a backend failure there is logged, not returned.
func (m *SessionManager) Logout(ctx context.Context) {
	m.mu.Lock()
	session := m.current
	m.current = nil
	m.mu.Unlock()

	if session == nil || session.IsLocal() {
		return
	}
	if err := m.backend.Logout(ctx, session.Token); err != nil {
		m.logger.Error("identity backend logout failed", zap.String("user_id", session.User.ID), zap.Error(err))
	}
}

// Current returns the signed-in session, if any.
func (m *SessionManager) Current() (models.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current == nil {
		return models.Session{}, false
	}
	return *m.current, true
}

// Verify returns the current session after checking a remote token is still
// live. An expired token signs the user out; an unreachable backend keeps
// the session.
func (m *SessionManager) Verify(ctx context.Context) (models.Session, bool) {
	session, ok := m.Current()
	if !ok || session.IsLocal() || session.Token == "" {
		return session, ok
	}

	valid, err := m.backend.Validate(ctx, session.Token)
	if err != nil {
		m.logger.Warn("identity backend validate failed, keeping session", zap.Error(err))
		return session, true
	}
	if !valid {
		m.logger.Info("session expired", zap.String("user_id", session.User.ID))
		m.mu.Lock()
		if m.current != nil && m.current.Token == session.Token {
			m.current = nil
		}
		m.mu.Unlock()
		return models.Session{}, false
	}
	return session, true
}

// Authenticate returns the current session only when token is its access
// token. Every HTTP caller must present it.
func (m *SessionManager) Authenticate(ctx context.Context, token string) (models.Session, bool) {
	if token == "" {
		return models.Session{}, false
	}
	session, ok := m.Verify(ctx)
	if !ok || subtle.ConstantTimeCompare([]byte(session.Token), []byte(token)) != 1 {
		return models.Session{}, false
	}
	return session, true
}

func (m *SessionManager) establish(user models.User, token, email, op string, backendErr error) models.Session {
	session := models.Session{User: user, Kind: models.SessionRemote, Token: token}
	if backendErr != nil {
		m.logger.Warn("identity backend "+op+" failed, falling back to local session", zap.Error(backendErr))
		session = models.Session{User: m.demoUser(email), Kind: models.SessionLocal, Cause: backendErr}
	}
	// Local sessions, and remote ones without Redis, still need a bearer token.
	if session.Token == "" {
		minted, err := newToken()
		if err != nil {
			m.logger.Error("failed to mint session token", zap.Error(err))
		}
		session.Token = minted
	}

	m.mu.Lock()
	m.current = &session
	m.mu.Unlock()
	return session
}

func (m *SessionManager) demoUser(email string) models.User {
	now := m.now()
	email = utils.NormalizeEmail(email)
	return models.User{
		ID:          "demo-user-" + strconv.FormatInt(now.UnixMilli(), 10),
		Email:       email,
		DisplayName: utils.DisplayName(email),
		CreatedAt:   now.UTC(),
	}
}
