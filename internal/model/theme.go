package model

// Theme is the display theme preference.
type Theme string

const (
	// ThemeLight is the default theme.
	ThemeLight Theme = "light"

	// ThemeDark is the alternative theme.
	ThemeDark Theme = "dark"
)

// ParseTheme returns the theme named by s, or ThemeLight for anything else.
// Stored preferences are never rejected; unknown values reset to the default.
func ParseTheme(s string) Theme {
	if Theme(s) == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}

// Toggle returns the other theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// String returns the theme name.
func (t Theme) String() string {
	return string(t)
}
