package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	TextPrimary lipgloss.AdaptiveColor
	TextMuted   lipgloss.AdaptiveColor

	Accent  lipgloss.AdaptiveColor
	Success lipgloss.AdaptiveColor
	Warn    lipgloss.AdaptiveColor
	Error   lipgloss.AdaptiveColor
	Border  lipgloss.AdaptiveColor

	TopBar      lipgloss.Style
	TopBarTitle lipgloss.Style
	TopBarBadge lipgloss.Style
	Pane        lipgloss.Style
	PaneTitle   lipgloss.Style
	Footer      lipgloss.Style
	Spinner     lipgloss.Style
	InputBox    lipgloss.Style

	LineProgress  lipgloss.Style
	LineCompleted lipgloss.Style
	LineFailed    lipgloss.Style
	LineCancelled lipgloss.Style
	LineLagged    lipgloss.Style
}

func NewTheme() Theme {
	if os.Getenv("SHIPMATE_NO_COLOR") == "1" {
		return newNoColorTheme()
	}
	return newDefaultTheme()
}

func newDefaultTheme() Theme {
	t := Theme{
		TextPrimary: lipgloss.AdaptiveColor{Light: "#1d2433", Dark: "#f2f2f2"},
		TextMuted:   lipgloss.AdaptiveColor{Light: "#4a5568", Dark: "#c7c7c7"},

		Accent:  lipgloss.AdaptiveColor{Light: "#1f6feb", Dark: "#7aa2ff"},
		Success: lipgloss.AdaptiveColor{Light: "#0f766e", Dark: "#46d1b7"},
		Warn:    lipgloss.AdaptiveColor{Light: "#b45309", Dark: "#f4b27d"},
		Error:   lipgloss.AdaptiveColor{Light: "#b42318", Dark: "#ff7a7a"},
		Border:  lipgloss.AdaptiveColor{Light: "#cbd5e0", Dark: "#3a3a3a"},
	}
	t.TopBar = lipgloss.NewStyle().Foreground(t.TextMuted)
	t.TopBarTitle = lipgloss.NewStyle().Bold(true).Foreground(t.TextPrimary)
	t.TopBarBadge = lipgloss.NewStyle().Bold(true).Foreground(t.Warn)
	t.Pane = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(t.Border).Padding(0, 1)
	t.PaneTitle = lipgloss.NewStyle().Bold(true).Foreground(t.TextMuted)
	t.Footer = lipgloss.NewStyle().Foreground(t.TextMuted)
	t.Spinner = lipgloss.NewStyle().Bold(true).Foreground(t.Accent)
	t.InputBox = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(t.Accent).Padding(0, 1)

	t.LineProgress = lipgloss.NewStyle().Foreground(t.TextMuted)
	t.LineCompleted = lipgloss.NewStyle().Foreground(t.Success)
	t.LineFailed = lipgloss.NewStyle().Foreground(t.Error)
	t.LineCancelled = lipgloss.NewStyle().Foreground(t.Warn)
	t.LineLagged = lipgloss.NewStyle().Foreground(t.Warn)
	return t
}

func newNoColorTheme() Theme {
	t := Theme{
		TextPrimary: lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"},
		TextMuted:   lipgloss.AdaptiveColor{Light: "#333333", Dark: "#dddddd"},
		Border:      lipgloss.AdaptiveColor{Light: "#555555", Dark: "#777777"},
	}
	t.TopBar = lipgloss.NewStyle().Foreground(t.TextPrimary)
	t.TopBarTitle = lipgloss.NewStyle().Bold(true).Foreground(t.TextPrimary)
	t.TopBarBadge = lipgloss.NewStyle().Bold(true).Foreground(t.TextPrimary)
	t.Pane = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(t.Border).Padding(0, 1)
	t.PaneTitle = lipgloss.NewStyle().Bold(true).Foreground(t.TextPrimary)
	t.Footer = lipgloss.NewStyle().Foreground(t.TextMuted)
	t.Spinner = lipgloss.NewStyle().Bold(true).Foreground(t.TextPrimary)
	t.InputBox = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(t.Border).Padding(0, 1)

	plain := lipgloss.NewStyle().Foreground(t.TextPrimary)
	muted := lipgloss.NewStyle().Foreground(t.TextMuted)
	t.LineProgress = muted
	t.LineCompleted = plain
	t.LineFailed = plain
	t.LineCancelled = muted
	t.LineLagged = muted
	return t
}
