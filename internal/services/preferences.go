package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/AnshRaj112/mindmate-backend/internal/models"
	"github.com/AnshRaj112/mindmate-backend/internal/storage"
)

// PreferencesKey is the storage key of the display preferences.
const PreferencesKey = "preferences"

var (
	ErrUnsupportedTheme    = errors.New("unsupported theme")
	ErrUnsupportedLanguage = errors.New("unsupported language")
)

// PreferencesPatch carries the fields a settings update wants to change.
type PreferencesPatch struct {
	Theme         *models.Theme `json:"theme,omitempty"`
	Language      *string       `json:"language,omitempty"`
	Notifications *bool         `json:"notifications,omitempty"`
}

type PreferencesService struct {
	mu      sync.RWMutex
	adapter *storage.Adapter
	current models.Preferences
}

func NewPreferencesService(ctx context.Context, adapter *storage.Adapter) *PreferencesService {
	prefs := storage.Read(ctx, adapter, PreferencesKey, models.DefaultPreferences())
	return &PreferencesService{adapter: adapter, current: normalizePreferences(prefs)}
}

func (s *PreferencesService) Get() models.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Update validates the whole patch before applying any of it.
func (s *PreferencesService) Update(ctx context.Context, patch PreferencesPatch) (models.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current
	if patch.Theme != nil {
		theme := models.Theme(strings.ToLower(strings.TrimSpace(string(*patch.Theme))))
		if !validTheme(theme) {
			return s.current, ErrUnsupportedTheme
		}
		next.Theme = theme
	}
	if patch.Language != nil {
		lang := strings.ToLower(strings.TrimSpace(*patch.Language))
		if !validLanguage(lang) {
			return s.current, ErrUnsupportedLanguage
		}
		next.Language = lang
	}
	if patch.Notifications != nil {
		next.Notifications = *patch.Notifications
	}

	s.current = next
	s.adapter.Write(ctx, PreferencesKey, next)
	return next, nil
}

// ToggleTheme flips between light and dark.
func (s *PreferencesService) ToggleTheme(ctx context.Context) models.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current.Theme == models.ThemeDark {
		s.current.Theme = models.ThemeLight
	} else {
		s.current.Theme = models.ThemeDark
	}
	s.adapter.Write(ctx, PreferencesKey, s.current)
	return s.current
}

func (s *PreferencesService) SetLanguage(ctx context.Context, lang string) (models.Preferences, error) {
	return s.Update(ctx, PreferencesPatch{Language: &lang})
}

// normalizePreferences replaces unknown stored values with defaults.
func normalizePreferences(p models.Preferences) models.Preferences {
	def := models.DefaultPreferences()
	if !validTheme(p.Theme) {
		p.Theme = def.Theme
	}
	if !validLanguage(p.Language) {
		p.Language = def.Language
	}
	return p
}

func validTheme(t models.Theme) bool {
	return t == models.ThemeLight || t == models.ThemeDark
}

func validLanguage(lang string) bool {
	return lang == models.LanguageEnglish || lang == models.LanguageBangla
}
