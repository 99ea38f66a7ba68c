package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Aman-CERP/storefront/internal/theme"
)

// Palette. Each color has a light-background and dark-background variant;
// lipgloss picks one based on the renderer's background, which ApplyTheme sets.
var (
	ColorAccent = lipgloss.AdaptiveColor{Light: "#0B7A4B", Dark: "#AFFF00"}
	ColorText   = lipgloss.AdaptiveColor{Light: "#1A1A1A", Dark: "#EEEEEE"}
	ColorMuted  = lipgloss.AdaptiveColor{Light: "#6B6B6B", Dark: "#8A8A8A"}
	ColorBorder = lipgloss.AdaptiveColor{Light: "#CCCCCC", Dark: "#444444"}
	ColorError  = lipgloss.AdaptiveColor{Light: "#C0152F", Dark: "#FF5F5F"}
	ColorWarn   = lipgloss.AdaptiveColor{Light: "#A06000", Dark: "#FFD75F"}
	ColorMark   = lipgloss.AdaptiveColor{Light: "#FFE58A", Dark: "#5F5F00"}
	ColorHeart  = lipgloss.AdaptiveColor{Light: "#D7005F", Dark: "#FF5FAF"}
)

// Styles holds all UI styles.
type Styles struct {
	Header   lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Dim      lipgloss.Style
	Label    lipgloss.Style
	Price    lipgloss.Style
	Mark     lipgloss.Style
	Selected lipgloss.Style
	Favorite lipgloss.Style
	Panel    lipgloss.Style
}

// DefaultStyles returns the colored styles.
func DefaultStyles() Styles {
	return Styles{
		Header:   lipgloss.NewStyle().Bold(true).Foreground(ColorAccent),
		Success:  lipgloss.NewStyle().Foreground(ColorAccent),
		Warning:  lipgloss.NewStyle().Foreground(ColorWarn),
		Error:    lipgloss.NewStyle().Foreground(ColorError),
		Dim:      lipgloss.NewStyle().Foreground(ColorMuted),
		Label:    lipgloss.NewStyle().Foreground(ColorMuted),
		Price:    lipgloss.NewStyle().Bold(true).Foreground(ColorText),
		Mark:     lipgloss.NewStyle().Background(ColorMark).Foreground(ColorText),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(ColorAccent),
		Favorite: lipgloss.NewStyle().Foreground(ColorHeart),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1),
	}
}

// NoColorStyles returns unstyled components for plain output.
func NoColorStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Header:   plain,
		Success:  plain,
		Warning:  plain,
		Error:    plain,
		Dim:      plain,
		Label:    plain,
		Price:    plain,
		Mark:     plain,
		Selected: plain,
		Favorite: plain,
		Panel:    plain,
	}
}

// GetStyles returns appropriate styles based on color mode.
func GetStyles(noColor bool) Styles {
	if noColor {
		return NoColorStyles()
	}
	return DefaultStyles()
}

// ApplyTheme points adaptive colors at the variant for t.
func ApplyTheme(t theme.Theme) {
	lipgloss.SetHasDarkBackground(t == theme.Dark)
}
