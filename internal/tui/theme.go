package tui

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the list screens.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Selected      lipgloss.Style
	StatusPaid    lipgloss.Style
	StatusDue     lipgloss.Style
	StatusOverdue lipgloss.Style
	StatusError   lipgloss.Style
	StatusInfo    lipgloss.Style
	Toast         lipgloss.Style
	Confirm       lipgloss.Style
	Help          lipgloss.Style
	ErrorBox      lipgloss.Style
	Border        lipgloss.Color
	Muted         lipgloss.Color
}

// DefaultTheme is the default theme.
var DefaultTheme = Theme{
	Border: lipgloss.Color("#404040"),
	Muted:  lipgloss.Color("#737373"),

	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")),
	Subtitle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a3a3a3")),
	Selected: lipgloss.NewStyle().
		Background(lipgloss.Color("#7c3aed")).
		Foreground(lipgloss.Color("#fafafa")).
		Bold(true),

	StatusPaid: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10b981")),
	StatusDue: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#f59e0b")),
	StatusOverdue: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ef4444")),
	StatusError: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ef4444")).
		Bold(true),
	StatusInfo: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#3b82f6")),

	Toast: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#fafafa")).
		Background(lipgloss.Color("#262626")).
		Padding(0, 1),
	Confirm: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#f59e0b")).
		Bold(true),
	Help: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#737373")),
	ErrorBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#ef4444")).
		Padding(1, 2),
}
