package theme

import "github.com/charmbracelet/lipgloss"

// Latte is the light Catppuccin flavor.
// https://github.com/catppuccin/catppuccin
var Latte = Theme{
	Name: "latte",
	Dark: false,

	Background: lipgloss.Color("#EFF1F5"), // Base
	Foreground: lipgloss.Color("#4C4F69"), // Text
	Subtle:     lipgloss.Color("#8C8FA1"), // Overlay1
	Highlight:  lipgloss.Color("#DCE0E8"), // Crust
	Border:     lipgloss.Color("#BCC0CC"), // Surface1

	Primary:   lipgloss.Color("#1E66F5"), // Blue
	Secondary: lipgloss.Color("#8839EF"), // Mauve
	Info:      lipgloss.Color("#209FB5"), // Sapphire

	Success: lipgloss.Color("#40A02B"), // Green
	Warning: lipgloss.Color("#DF8E1D"), // Yellow
	Error:   lipgloss.Color("#D20F39"), // Red

	PriorityLow:    lipgloss.Color("#40A02B"),
	PriorityMedium: lipgloss.Color("#DF8E1D"),
	PriorityHigh:   lipgloss.Color("#D20F39"),
}
