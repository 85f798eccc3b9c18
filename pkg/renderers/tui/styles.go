package tui

import "github.com/charmbracelet/lipgloss"

// Styles colours terminal output. The zero value prints plain text.
type Styles struct {
	Title   lipgloss.Style
	Section lipgloss.Style
	Label   lipgloss.Style
	Muted   lipgloss.Style
	URL     lipgloss.Style
	OK      lipgloss.Style
	Warn    lipgloss.Style
	Error   lipgloss.Style
}

// DefaultStyles returns the palette used on interactive terminals.
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#9FD3FF")),
		Section: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#C0C8D4")),
		Label: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D7DBE0")),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6E7B88")),
		URL: lipgloss.NewStyle().
			Underline(true).
			Foreground(lipgloss.Color("#65B5FF")),
		OK: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#63C17A")),
		Warn: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E7B65A")),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E06B75")),
	}
}

// PlainStyles returns styles that add no escape sequences.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Title:   plain,
		Section: plain,
		Label:   plain,
		Muted:   plain,
		URL:     plain,
		OK:      plain,
		Warn:    plain,
		Error:   plain,
	}
}
