package localstore

import "fmt"

const themeKey = "theme"

// Themes the UI understands. Anything else in storage falls back to
// light.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Theme returns the stored theme preference, defaulting to light.
func (s *Store) Theme() string {
	data, err := s.Get(themeKey)
	if err != nil || len(data) == 0 {
		return ThemeLight
	}
	if string(data) == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

func (s *Store) SetTheme(theme string) error {
	if theme != ThemeLight && theme != ThemeDark {
		return fmt.Errorf("unknown theme %q", theme)
	}
	return s.Set(themeKey, []byte(theme))
}
