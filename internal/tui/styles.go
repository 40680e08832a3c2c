package tui

import "github.com/charmbracelet/lipgloss"

// UI colors.
const (
	ColorPrimary   = lipgloss.Color("#7D56F4") // Purple accent
	ColorSecondary = lipgloss.Color("#FFFDF5") // Off-white text
	ColorMuted     = lipgloss.Color("#626262") // Muted text
	ColorBorder    = lipgloss.Color("#383838") // Border color
	ColorMarked    = lipgloss.Color("#00AFFF") // Marked rows
	ColorError     = lipgloss.Color("#FF5555")
	ColorSuccess   = lipgloss.Color("#50FA7B")
)

// Styles contains all lipgloss style definitions for the browser.
type Styles struct {
	Header    lipgloss.Style
	FilterBar lipgloss.Style

	TableHeader lipgloss.Style
	TableRow    lipgloss.Style
	SelectedRow lipgloss.Style
	MarkedRow   lipgloss.Style

	ModalBorder  lipgloss.Style
	ModalTitle   lipgloss.Style
	ModalContent lipgloss.Style

	Error   lipgloss.Style
	Success lipgloss.Style
	Footer  lipgloss.Style
}

// DefaultStyles creates a new Styles instance with default styling.
func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true),
		FilterBar: lipgloss.NewStyle().
			Foreground(ColorMuted),
		TableHeader: lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Bold(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(ColorBorder),
		TableRow: lipgloss.NewStyle().
			Foreground(ColorSecondary),
		SelectedRow: lipgloss.NewStyle().
			Foreground(ColorSecondary).
			Background(ColorPrimary).
			Bold(true),
		MarkedRow: lipgloss.NewStyle().
			Foreground(ColorMarked),
		ModalBorder: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(1, 2),
		ModalTitle: lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true),
		ModalContent: lipgloss.NewStyle().
			Foreground(ColorSecondary),
		Error: lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true),
		Success: lipgloss.NewStyle().
			Foreground(ColorSuccess),
		Footer: lipgloss.NewStyle().
			Foreground(ColorMuted),
	}
}
