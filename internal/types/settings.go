package types

import "fmt"

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ThemePreference is the single durable key-value the application keeps.
type ThemePreference struct {
	Theme Theme `json:"theme"`
}

func (t Theme) Validate() error {
	switch t {
	case ThemeLight, ThemeDark:
		return nil
	default:
		return fmt.Errorf("invalid theme %q: %w", string(t), ErrInvalidTheme)
	}
}
