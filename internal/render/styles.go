package render

import (
	"github.com/charmbracelet/lipgloss"

	dark "github.com/thiagokokada/dark-mode-go"
)

// Theme is the resolved color scheme.
type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// ResolveTheme maps the configured theme ("dark", "light", "system") to a
// concrete theme. "system" detects the OS dark mode setting, falling back to
// dark on detection failure.
func ResolveTheme(configured string) Theme {
	switch configured {
	case "light":
		return ThemeLight
	case "system":
		isDark, err := dark.IsDarkMode()
		if err != nil || isDark {
			return ThemeDark
		}
		return ThemeLight
	default:
		return ThemeDark
	}
}

// styleSet holds the lipgloss styles applied to rendered lines.
type styleSet struct {
	Line lipgloss.Style // normal activity line (dimmed, stays out of the way)
	Warn lipgloss.Style // stuck warning and escalation hints
	Done lipgloss.Style // session complete
	Fail lipgloss.Style // session errored
}

func stylesFor(theme Theme) styleSet {
	if theme == ThemeLight {
		return styleSet{
			Line: lipgloss.NewStyle().Faint(true),
			Warn: lipgloss.NewStyle().Foreground(lipgloss.Color("#8f5e15")),
			Done: lipgloss.NewStyle().Foreground(lipgloss.Color("#485e30")),
			Fail: lipgloss.NewStyle().Foreground(lipgloss.Color("#8c4351")),
		}
	}
	return styleSet{
		Line: lipgloss.NewStyle().Faint(true),
		Warn: lipgloss.NewStyle().Foreground(lipgloss.Color("#e0af68")),
		Done: lipgloss.NewStyle().Foreground(lipgloss.Color("#9ece6a")),
		Fail: lipgloss.NewStyle().Foreground(lipgloss.Color("#f7768e")),
	}
}
