package models

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Supported interface languages.
const (
	LanguageEnglish = "en"
	LanguageBangla  = "bn"
)

// Preferences are the display toggles from the settings screen.
type Preferences struct {
	Theme         Theme  `json:"theme"`
	Language      string `json:"language"`
	Notifications bool   `json:"notifications"`
}

func DefaultPreferences() Preferences {
	return Preferences{Theme: ThemeLight, Language: LanguageEnglish}
}
