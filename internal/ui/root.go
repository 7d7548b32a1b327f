package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/ticklist/internal/app"
	"github.com/dori/ticklist/internal/ui/theme"
	"github.com/dori/ticklist/internal/ui/views"
)

// RootModel is the main application model that manages views
type RootModel struct {
	app    *app.App
	keys   KeyMap
	help   help.Model
	width  int
	height int

	currentView View
	listView    views.ListView
	summaryView views.SummaryView
	helpVisible bool

	// Status message
	statusMsg string
	errorMsg  string
}

// NewRootModel creates a new root model
func NewRootModel(application *app.App) RootModel {
	if t, ok := theme.ByName(application.Config.Theme); ok {
		theme.SetTheme(t)
	}

	h := help.New()
	h.ShowAll = false

	filter := application.Config.Filter()
	return RootModel{
		app:         application,
		keys:        DefaultKeyMap(),
		help:        h,
		currentView: ViewList,
		listView:    views.NewListView(application.Store, filter, application.Now),
		summaryView: views.NewSummaryView(application.Store, filter, application.Now),
	}
}

// Init initializes the model
func (m RootModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.listView.Init()}
	if m.app.Notifier.IsEnabled() {
		cmds = append(cmds, m.notifyDueToday())
	}
	return tea.Batch(cmds...)
}

// notifyDueToday sends the start-up reminder; a failure ends up in the footer
func (m RootModel) notifyDueToday() tea.Cmd {
	a := m.app
	return func() tea.Msg {
		if err := a.NotifyDueToday(); err != nil {
			return views.ErrorMsg{Err: err}
		}
		return nil
	}
}

// CurrentView returns the active view
func (m RootModel) CurrentView() View {
	return m.currentView
}

func (m RootModel) isInputMode() bool {
	switch m.currentView {
	case ViewList:
		return m.listView.IsInputMode()
	case ViewSummary:
		return m.summaryView.IsInputMode()
	}
	return false
}

// Update handles messages
func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		// Reserve space for header (2 lines) and footer (2 lines)
		contentHeight := m.height - 4
		m.listView = m.listView.SetSize(m.width, contentHeight)
		m.summaryView = m.summaryView.SetSize(m.width, contentHeight)
		return m, nil

	case tea.KeyMsg:
		// Clear status/error on any keypress
		m.statusMsg = ""
		m.errorMsg = ""

		isInputMode := m.isInputMode()

		// Global keybindings
		switch {
		case key.Matches(msg, m.keys.Quit):
			// ctrl+c always quits, but 'q' only quits when not in input mode
			if msg.String() == "ctrl+c" || !isInputMode {
				return m, tea.Quit
			}

		case key.Matches(msg, m.keys.ThemeToggle):
			return m, m.toggleTheme()
		}

		if isInputMode {
			break
		}

		if m.helpVisible {
			if key.Matches(msg, m.keys.Help) || msg.String() == "esc" {
				m.helpVisible = false
				m.help.ShowAll = false
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Help):
			m.helpVisible = true
			m.help.ShowAll = true
			return m, nil

		case key.Matches(msg, m.keys.ListView):
			m.currentView = ViewList
			return m, nil

		case key.Matches(msg, m.keys.SummaryView):
			m.currentView = ViewSummary
			m.summaryView = m.summaryView.SetFilter(m.listView.Filter())
			return m, nil
		}

	case views.ErrorMsg:
		m.errorMsg = msg.Err.Error()
		m.app.Logger.Debug("ui error", "err", msg.Err)
		return m, nil

	case views.ThemeRequest:
		return m, m.setTheme(msg.Name)

	case views.HelpRequest:
		m.helpVisible = true
		m.help.ShowAll = true
		return m, nil

	case StatusMsg:
		m.statusMsg = msg.Message
		return m, nil

	case ThemeChangedMsg:
		m.statusMsg = fmt.Sprintf("Theme: %s", msg.ThemeName)
		return m, nil

	case StoreChangedMsg:
		m.app.Logger.Debug("store changed", "rev", msg.Revision)
		m.summaryView = m.summaryView.SetFilter(m.listView.Filter())
		return m, nil
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch m.currentView {
	case ViewList:
		var next tea.Model
		next, cmd = m.listView.Update(msg)
		m.listView = next.(views.ListView)
	case ViewSummary:
		var next tea.Model
		next, cmd = m.summaryView.Update(msg)
		m.summaryView = next.(views.SummaryView)
	}
	return m, cmd
}

// toggleTheme switches between the dark and the light theme
func (m RootModel) toggleTheme() tea.Cmd {
	t := theme.Toggle()
	m.app.Logger.Debug("theme changed", "theme", t.Name)
	return func() tea.Msg { return ThemeChangedMsg{ThemeName: t.Name} }
}

// setTheme applies a theme by name; an empty name toggles
func (m RootModel) setTheme(name string) tea.Cmd {
	if name == "" {
		return m.toggleTheme()
	}
	t, ok := theme.ByName(name)
	if !ok {
		return func() tea.Msg { return views.ErrorMsg{Err: fmt.Errorf("unknown theme %q", name)} }
	}
	theme.SetTheme(t)
	m.app.Logger.Debug("theme changed", "theme", t.Name)
	return func() tea.Msg { return ThemeChangedMsg{ThemeName: t.Name} }
}

// View renders the UI
func (m RootModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var sections []string

	sections = append(sections, m.renderHeader())

	// Reserve: 1 line for header + 3 lines for footer
	contentHeight := m.height - 4
	if m.errorMsg != "" || m.statusMsg != "" {
		contentHeight--
	}

	var content string
	switch {
	case m.helpVisible:
		content = m.renderHelp()
	case m.currentView == ViewSummary:
		content = m.summaryView.View()
	default:
		content = m.listView.View()
	}

	// Ensure content fills available space
	contentLines := strings.Count(content, "\n") + 1
	if contentLines < contentHeight {
		content += strings.Repeat("\n", contentHeight-contentLines)
	}
	sections = append(sections, content)

	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

// renderHeader renders the header bar
func (m RootModel) renderHeader() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	title := styles.Header.Render("ticklist")

	viewStyle := lipgloss.NewStyle().
		Foreground(t.Subtle).
		Padding(0, 1)
	viewIndicator := viewStyle.Render(fmt.Sprintf("[%s]", m.currentView.String()))
	themeIndicator := viewStyle.Render(fmt.Sprintf("theme: %s", t.Name))

	leftSide := lipgloss.JoinHorizontal(lipgloss.Center, title, viewIndicator)
	rightSide := themeIndicator

	gap := max(0, m.width-lipgloss.Width(leftSide)-lipgloss.Width(rightSide))
	return leftSide + strings.Repeat(" ", gap) + rightSide
}

// renderFooter renders the footer/status bar
func (m RootModel) renderFooter() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	hint := func(k, desc string) string {
		return styles.HelpKey.Render(k) + styles.HelpDesc.Render(" "+desc)
	}
	sep := styles.HelpSeparator.Render(" │ ")

	var lines []string
	if m.errorMsg != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(t.Error).Render(m.errorMsg))
	} else if m.statusMsg != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(t.Info).Render(m.statusMsg))
	}

	switch {
	case m.helpVisible:
		lines = append(lines, hint("?/esc", "close help"))
	case m.isInputMode():
		lines = append(lines, hint("enter", "confirm")+sep+hint("esc", "cancel"))
	case m.currentView == ViewSummary:
		lines = append(lines, hint("r", "refresh")+sep+hint("1", "list")+sep+
			hint("ctrl+t", "theme")+sep+hint("?", "help")+sep+hint("q", "quit"))
	default:
		lines = append(lines, m.help.ShortHelpView(m.keys.ShortHelp()))
		lines = append(lines, hint("s", "sort")+sep+hint("f", "status")+sep+
			hint("t", "tags")+sep+hint("c", "clear")+sep+hint("2", "summary"))
	}

	return strings.Join(lines, "\n")
}

// renderHelp renders the help overlay
func (m RootModel) renderHelp() string {
	t := theme.Current.Theme

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Primary).
		MarginBottom(1)

	cmdKeyStyle := lipgloss.NewStyle().
		Foreground(t.Info).
		Bold(true).
		Width(20)

	descStyle := lipgloss.NewStyle().
		Foreground(t.Subtle)

	var b strings.Builder

	b.WriteString(titleStyle.Render("ticklist Help"))
	b.WriteString("\n\n")
	b.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	b.WriteString("\n\n")

	b.WriteString(titleStyle.Render("Quick Add"))
	b.WriteString("\n")
	b.WriteString(descStyle.Render("Pay rent @home !high due:friday"))
	b.WriteString("\n\n")

	b.WriteString(titleStyle.Render("Command Palette (:)"))
	b.WriteString("\n")
	commands := [][]string{
		{":add <text>", "Quick add a task"},
		{":due <date>|none", "Set due date (tomorrow, friday, 2026-01-15)"},
		{":priority <p>", "Set priority (low, medium, high)"},
		{":status <s>", "Show all, active or completed"},
		{":sort <key>", "Sort by due, priority or created"},
		{":search <text>", "Filter by text"},
		{":tag <name>", "Toggle tag filter"},
		{":theme <name>", "Change theme (nord, latte)"},
	}
	for _, kv := range commands {
		b.WriteString(cmdKeyStyle.Render(kv[0]))
		b.WriteString(descStyle.Render(kv[1]))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(descStyle.Render("Press ? or esc to close"))

	return b.String()
}
