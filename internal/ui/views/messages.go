package views

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Requests the list view sends up to the root model
// (Defined here to avoid circular import with ui package)

// ErrorMsg contains an error to display in the footer
type ErrorMsg struct {
	Err error
}

// ThemeRequest asks for a theme by name; an empty name toggles dark/light
type ThemeRequest struct {
	Name string
}

// HelpRequest toggles the help screen
type HelpRequest struct{}

// taskChangedMsg reports the outcome of a store mutation
type taskChangedMsg struct {
	status  string
	focusID string
	err     error
}

func errorCmd(err error) tea.Cmd {
	return func() tea.Msg {
		return ErrorMsg{Err: err}
	}
}
