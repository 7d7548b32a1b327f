package views

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/ticklist/internal/model"
	"github.com/dori/ticklist/internal/quickadd"
	"github.com/dori/ticklist/internal/ui/theme"
)

// CommandDef defines a command for the command palette
type CommandDef struct {
	Name        string   // Primary command name
	Aliases     []string // Alternative names
	Description string   // What the command does
	Usage       string   // Usage example
	HasArgs     bool     // Whether it takes arguments
}

// allCommands is the list of available commands
var allCommands = []CommandDef{
	{Name: "add", Aliases: []string{"new"}, Description: "Quick add a task", Usage: "add Pay rent @home !high due:friday", HasArgs: true},
	{Name: "due", Aliases: []string{}, Description: "Set due date (none clears)", Usage: "due tomorrow", HasArgs: true},
	{Name: "priority", Aliases: []string{"pri"}, Description: "Set priority", Usage: "priority high", HasArgs: true},
	{Name: "done", Aliases: []string{"complete", "toggle"}, Description: "Toggle done status", Usage: "done", HasArgs: false},
	{Name: "delete", Aliases: []string{"del", "rm"}, Description: "Delete task", Usage: "delete", HasArgs: false},
	{Name: "search", Aliases: []string{"filter"}, Description: "Filter tasks by text", Usage: "search rent", HasArgs: true},
	{Name: "status", Aliases: []string{"show"}, Description: "Filter by status", Usage: "status active", HasArgs: true},
	{Name: "sort", Aliases: []string{}, Description: "Sort tasks", Usage: "sort priority", HasArgs: true},
	{Name: "tag", Aliases: []string{"ft"}, Description: "Toggle tag filter", Usage: "tag @work", HasArgs: true},
	{Name: "clear", Aliases: []string{}, Description: "Clear all filters", Usage: "clear", HasArgs: false},
	{Name: "theme", Aliases: []string{}, Description: "Change theme", Usage: "theme latte", HasArgs: true},
	{Name: "help", Aliases: []string{"h", "?"}, Description: "Show key bindings", Usage: "help", HasArgs: false},
}

// errNoTask is returned by commands that act on the cursor task
var errNoTask = errors.New("no task selected")

// handleCommandMode handles keypresses in the command palette
func (v ListView) handleCommandMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		command := strings.TrimSpace(v.input.Value())
		// Suggestions are only shown while the command name is being typed.
		// An empty line only picks one the user selected.
		picked := command != "" || v.cmdCursorMoved
		if picked && len(v.cmdSuggestions) > 0 && v.cmdCursor < len(v.cmdSuggestions) && !strings.Contains(command, " ") {
			command = v.cmdSuggestions[v.cmdCursor].Name
		}
		v.closePrompt()
		v.cmdSuggestions = nil
		v.cmdCursor = 0
		v.cmdCursorMoved = false
		if command != "" {
			return v.executeCommand(command)
		}
		return v, nil

	case "esc":
		v.closePrompt()
		v.cmdSuggestions = nil
		v.cmdCursor = 0
		v.cmdCursorMoved = false
		return v, nil

	case "tab":
		// Auto-complete with selected suggestion
		if len(v.cmdSuggestions) > 0 && v.cmdCursor < len(v.cmdSuggestions) {
			cmd := v.cmdSuggestions[v.cmdCursor]
			if cmd.HasArgs {
				v.input.SetValue(cmd.Name + " ")
			} else {
				v.input.SetValue(cmd.Name)
			}
			v.input.CursorEnd()
			v.updateCommandSuggestions()
		}
		return v, nil

	case "up", "ctrl+p":
		if v.cmdCursor > 0 {
			v.cmdCursor--
			v.cmdCursorMoved = true
		}
		return v, nil

	case "down", "ctrl+n":
		if v.cmdCursor < len(v.cmdSuggestions)-1 {
			v.cmdCursor++
			v.cmdCursorMoved = true
		}
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	v.updateCommandSuggestions()
	return v, cmd
}

// updateCommandSuggestions filters commands based on current input
func (v *ListView) updateCommandSuggestions() {
	input := strings.ToLower(strings.TrimLeft(v.input.Value(), " "))

	// User is typing arguments
	if strings.Contains(input, " ") {
		v.cmdSuggestions = nil
		v.cmdCursor = 0
		return
	}

	v.cmdSuggestions = matchCommands(input)
	if v.cmdCursor >= len(v.cmdSuggestions) {
		v.cmdCursor = 0
	}
}

// matchCommands returns the commands whose name or an alias starts with prefix
func matchCommands(prefix string) []CommandDef {
	var matches []CommandDef
	for _, cmd := range allCommands {
		if strings.HasPrefix(cmd.Name, prefix) {
			matches = append(matches, cmd)
			continue
		}
		for _, alias := range cmd.Aliases {
			if strings.HasPrefix(alias, prefix) {
				matches = append(matches, cmd)
				break
			}
		}
	}
	return matches
}

// executeCommand parses and executes a command
func (v ListView) executeCommand(command string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(command)
	if len(parts) == 0 {
		return v, nil
	}

	name := strings.ToLower(parts[0])
	args := parts[1:]

	switch name {
	case "add", "new":
		return v.cmdAdd(args)
	case "due":
		return v.cmdSetDue(args)
	case "priority", "pri":
		return v.cmdSetPriority(args)
	case "done", "complete", "toggle":
		task, ok := v.current()
		if !ok {
			return v, errorCmd(errNoTask)
		}
		return v, v.toggleTask(task)
	case "delete", "del", "rm":
		task, ok := v.current()
		if !ok {
			return v, errorCmd(errNoTask)
		}
		v.deleteID = task.ID
		v.mode = ListModeConfirmDelete
		return v, nil
	case "search", "filter":
		v.setFilter(v.filter.WithSearch(strings.Join(args, " ")))
		return v, nil
	case "status", "show":
		return v.cmdSetStatus(args)
	case "sort":
		return v.cmdSetSort(args)
	case "tag", "ft":
		return v.cmdToggleTags(args)
	case "clear":
		v.setFilter(v.filter.Reset())
		v.statusMsg = "Filters cleared"
		return v, nil
	case "theme":
		themeName := ""
		if len(args) > 0 {
			themeName = strings.ToLower(args[0])
			if _, ok := theme.ByName(themeName); !ok {
				return v, errorCmd(fmt.Errorf("unknown theme %q", args[0]))
			}
		}
		return v, func() tea.Msg { return ThemeRequest{Name: themeName} }
	case "help", "h", "?":
		return v, func() tea.Msg { return HelpRequest{} }
	}

	return v, errorCmd(fmt.Errorf("unknown command %q", parts[0]))
}

func (v ListView) cmdAdd(args []string) (tea.Model, tea.Cmd) {
	draft := quickadd.Parse(strings.Join(args, " "), v.now())
	if draft.Title == "" {
		return v, errorCmd(errEmptyTitle)
	}
	return v, v.addTask(draft)
}

func (v ListView) cmdSetDue(args []string) (tea.Model, tea.Cmd) {
	task, ok := v.current()
	if !ok {
		return v, errorCmd(errNoTask)
	}
	if len(args) == 0 {
		return v, errorCmd(errors.New("usage: due <date>|none"))
	}

	value := strings.Join(args, " ")
	updated := task.Clone()
	if strings.EqualFold(value, "none") {
		updated.DueDate = nil
	} else {
		due := quickadd.ParseDate(value, v.now())
		if due == nil {
			return v, errorCmd(fmt.Errorf("unrecognised due date %q", value))
		}
		updated.DueDate = due
	}
	return v, v.updateTask(updated)
}

func (v ListView) cmdSetPriority(args []string) (tea.Model, tea.Cmd) {
	task, ok := v.current()
	if !ok {
		return v, errorCmd(errNoTask)
	}
	if len(args) == 0 {
		return v, errorCmd(errors.New("usage: priority high|medium|low"))
	}
	p, ok := model.ParsePriority(args[0])
	if !ok {
		return v, errorCmd(fmt.Errorf("unknown priority %q", args[0]))
	}
	updated := task.Clone()
	updated.Priority = p
	return v, v.updateTask(updated)
}

func (v ListView) cmdSetStatus(args []string) (tea.Model, tea.Cmd) {
	if len(args) == 0 {
		v.setFilter(v.filter.WithStatus(v.filter.Status.Next()))
	} else {
		s, err := model.ParseStatusFilter(args[0])
		if err != nil {
			return v, errorCmd(err)
		}
		v.setFilter(v.filter.WithStatus(s))
	}
	v.statusMsg = "Status: " + v.filter.Status.String()
	return v, nil
}

func (v ListView) cmdSetSort(args []string) (tea.Model, tea.Cmd) {
	if len(args) == 0 {
		v.setFilter(v.filter.WithSort(v.filter.Sort.Next()))
	} else {
		k, err := model.ParseSortKey(args[0])
		if err != nil {
			return v, errorCmd(err)
		}
		v.setFilter(v.filter.WithSort(k))
	}
	v.statusMsg = "Sort: " + v.filter.Sort.String()
	return v, nil
}

// cmdToggleTags toggles each named tag in the filter. With no arguments it
// opens the tag selector.
func (v ListView) cmdToggleTags(args []string) (tea.Model, tea.Cmd) {
	if len(args) == 0 {
		if len(v.tags) == 0 {
			v.statusMsg = "No tags yet"
			return v, nil
		}
		v.mode = ListModeTagFilter
		v.selectorCursor = 0
		return v, nil
	}

	f := v.filter
	for _, tag := range model.NormalizeTags(stripAt(args)) {
		f = f.ToggleTag(tag)
	}
	v.setFilter(f)
	return v, nil
}

func stripAt(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = strings.TrimPrefix(a, "@")
	}
	return out
}

// renderCommandBar renders the prompt and the suggestion box
func (v ListView) renderCommandBar() string {
	t := theme.Current.Theme

	var b strings.Builder
	cmdStyle := lipgloss.NewStyle().Foreground(t.Primary).Bold(true)
	b.WriteString(cmdStyle.Render(":"))
	b.WriteString(v.input.View())
	b.WriteString("\n")

	if len(v.cmdSuggestions) == 0 {
		return b.String()
	}

	suggestionBox := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1).
		Width(max(20, v.width-4))

	var lines []string
	maxShow := 8
	for i, cmd := range v.cmdSuggestions {
		if i >= maxShow {
			lines = append(lines, lipgloss.NewStyle().
				Foreground(t.Subtle).
				Render(fmt.Sprintf("  ... +%d more", len(v.cmdSuggestions)-maxShow)))
			break
		}

		nameStyle := lipgloss.NewStyle().Bold(true).Width(10)
		descStyle := lipgloss.NewStyle().Foreground(t.Subtle)
		usageStyle := lipgloss.NewStyle().Foreground(t.Info).Italic(true)

		if i == v.cmdCursor {
			nameStyle = nameStyle.Background(t.Highlight).Foreground(t.Foreground)
			descStyle = descStyle.Background(t.Highlight)
		}

		line := nameStyle.Render(cmd.Name) + descStyle.Render(" "+cmd.Description)
		if cmd.HasArgs {
			line += usageStyle.Render("  :" + cmd.Usage)
		}
		lines = append(lines, line)
	}

	b.WriteString(suggestionBox.Render(strings.Join(lines, "\n")))
	b.WriteString("\n")
	return b.String()
}
