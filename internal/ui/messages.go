package ui

// View represents the current active view
type View int

const (
	ViewList View = iota
	ViewSummary
)

// String returns the display name for a view
func (v View) String() string {
	switch v {
	case ViewList:
		return "List"
	case ViewSummary:
		return "Summary"
	default:
		return "Unknown"
	}
}

// StatusMsg contains a status message to display
type StatusMsg struct {
	Message string
}

// ThemeChangedMsg indicates the theme was changed
type ThemeChangedMsg struct {
	ThemeName string
}

// StoreChangedMsg is sent when the task store reports a mutation
type StoreChangedMsg struct {
	Revision uint64
}
