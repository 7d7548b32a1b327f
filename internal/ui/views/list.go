package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/ticklist/internal/model"
	"github.com/dori/ticklist/internal/query"
	"github.com/dori/ticklist/internal/quickadd"
	"github.com/dori/ticklist/internal/stats"
	"github.com/dori/ticklist/internal/store"
	"github.com/dori/ticklist/internal/ui/theme"
)

// ListMode represents the current input mode of the list view
type ListMode int

const (
	ListModeNormal ListMode = iota
	ListModeQuickAdd
	ListModeForm
	ListModeSearch
	ListModeCommand
	ListModeTagFilter
	ListModeConfirmDelete
)

// ListView displays the visible tasks and owns the filter state
type ListView struct {
	store  store.Store
	now    func() time.Time
	width  int
	height int

	allTasks []model.Task // store snapshot
	tags     []string     // tag universe snapshot
	tasks    []model.Task // visible tasks, in display order
	filter   model.Filter

	cursor       int
	scrollOffset int
	focusID      string // task to put the cursor on after the next refresh

	mode      ListMode
	input     textinput.Model
	form      TaskForm
	deleteID  string
	statusMsg string

	// For the tag filter selector
	selectorCursor int

	// For command palette
	cmdSuggestions []CommandDef
	cmdCursor      int
	cmdCursorMoved bool
}

// NewListView creates a list view over s, starting with filter f
func NewListView(s store.Store, f model.Filter, now func() time.Time) ListView {
	ti := textinput.New()
	ti.CharLimit = 256

	v := ListView{
		store:  s,
		now:    now,
		filter: f,
		input:  ti,
	}
	v.refresh()
	return v
}

// Init initializes the list view
func (v ListView) Init() tea.Cmd {
	return nil
}

// Filter returns the current filter descriptor
func (v ListView) Filter() model.Filter {
	return v.filter
}

// Tasks returns the visible tasks in display order
func (v ListView) Tasks() []model.Task {
	return v.tasks
}

// Mode returns the current input mode
func (v ListView) Mode() ListMode {
	return v.mode
}

// IsInputMode returns true when the view is capturing keys for a prompt,
// form, selector or confirmation
func (v ListView) IsInputMode() bool {
	return v.mode != ListModeNormal
}

// SetSize updates the view dimensions
func (v ListView) SetSize(width, height int) ListView {
	v.width = width
	v.height = height
	v.input.Width = width - 4
	v.form = v.form.SetWidth(width)
	v.ensureCursorVisible()
	return v
}

// refresh reloads the store snapshot and recomputes the visible list
func (v *ListView) refresh() {
	v.allTasks = v.store.Tasks()
	v.tags = v.store.Tags()
	v.applyFilter()
}

// applyFilter recomputes the visible list, keeping the cursor on the same
// task when it is still visible
func (v *ListView) applyFilter() {
	current := v.focusID
	if current == "" && v.cursor < len(v.tasks) {
		current = v.tasks[v.cursor].ID
	}
	v.focusID = ""

	v.tasks = query.Visible(v.allTasks, v.filter)

	for i, t := range v.tasks {
		if t.ID == current {
			v.cursor = i
			v.ensureCursorVisible()
			return
		}
	}
	if v.cursor >= len(v.tasks) {
		v.cursor = max(0, len(v.tasks)-1)
	}
	v.ensureCursorVisible()
}

func (v *ListView) setFilter(f model.Filter) {
	v.filter = f
	v.applyFilter()
}

// visibleTaskCount returns how many tasks can fit in the viewport
func (v ListView) visibleTaskCount() int {
	// Reserve lines for the filter line, summary and status message
	available := v.height - 6
	if available < 1 {
		available = 1
	}
	return available
}

// ensureCursorVisible adjusts scrollOffset to keep cursor in view
func (v *ListView) ensureCursorVisible() {
	visible := v.visibleTaskCount()

	if v.cursor < v.scrollOffset {
		v.scrollOffset = v.cursor
	}
	if v.cursor >= v.scrollOffset+visible {
		v.scrollOffset = v.cursor - visible + 1
	}

	maxOffset := max(0, len(v.tasks)-visible)
	v.scrollOffset = min(max(v.scrollOffset, 0), maxOffset)
}

// current returns the task under the cursor
func (v ListView) current() (model.Task, bool) {
	if v.cursor < 0 || v.cursor >= len(v.tasks) {
		return model.Task{}, false
	}
	return v.tasks[v.cursor], true
}

// Update handles messages for the list view
func (v ListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case taskChangedMsg:
		if msg.err != nil {
			return v, errorCmd(msg.err)
		}
		v.focusID = msg.focusID
		v.refresh()
		v.statusMsg = msg.status
		return v, nil

	case tea.KeyMsg:
		switch v.mode {
		case ListModeQuickAdd:
			return v.handleQuickAddMode(msg)
		case ListModeForm:
			return v.handleFormMode(msg)
		case ListModeSearch:
			return v.handleSearchMode(msg)
		case ListModeCommand:
			return v.handleCommandMode(msg)
		case ListModeTagFilter:
			return v.handleTagFilterSelector(msg)
		case ListModeConfirmDelete:
			return v.handleDeleteConfirm(msg)
		default:
			return v.handleNormalMode(msg)
		}
	}

	// Keep the cursor blinking in prompt modes
	if v.mode == ListModeQuickAdd || v.mode == ListModeSearch || v.mode == ListModeCommand {
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	return v, nil
}

// handleNormalMode handles keypresses in normal mode
func (v ListView) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v.statusMsg = ""

	switch msg.String() {
	// Navigation
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
			v.ensureCursorVisible()
		}
	case "down", "j":
		if v.cursor < len(v.tasks)-1 {
			v.cursor++
			v.ensureCursorVisible()
		}
	case "g":
		v.cursor = 0
		v.ensureCursorVisible()
	case "G":
		v.cursor = max(0, len(v.tasks)-1)
		v.ensureCursorVisible()
	case "pgup", "ctrl+u":
		v.cursor = max(0, v.cursor-max(1, v.visibleTaskCount()/2))
		v.ensureCursorVisible()
	case "pgdown", "ctrl+d":
		if len(v.tasks) > 0 {
			v.cursor = min(len(v.tasks)-1, v.cursor+max(1, v.visibleTaskCount()/2))
			v.ensureCursorVisible()
		}

	// Actions
	case "a":
		return v.openPrompt(ListModeQuickAdd, "", "New task... (@tag !high due:friday)")

	case "A":
		v.mode = ListModeForm
		v.form = NewTaskForm(v.tags, v.now()).SetWidth(v.width)
		return v, textinput.Blink

	case "enter":
		if task, ok := v.current(); ok {
			v.mode = ListModeForm
			v.form = EditTaskForm(task, v.tags, v.now()).SetWidth(v.width)
			return v, textinput.Blink
		}

	case "tab", "x":
		if task, ok := v.current(); ok {
			return v, v.toggleTask(task)
		}

	case "d":
		if task, ok := v.current(); ok {
			v.deleteID = task.ID
			v.mode = ListModeConfirmDelete
		}

	case "p":
		if task, ok := v.current(); ok {
			return v, v.cyclePriority(task)
		}

	// Filtering
	case "/":
		return v.openPrompt(ListModeSearch, v.filter.Search, "Search tasks...")

	case "s":
		v.setFilter(v.filter.WithSort(v.filter.Sort.Next()))
		v.statusMsg = "Sort: " + v.filter.Sort.String()

	case "f":
		v.setFilter(v.filter.WithStatus(v.filter.Status.Next()))
		v.statusMsg = "Status: " + v.filter.Status.String()

	case "t":
		if len(v.tags) == 0 {
			v.statusMsg = "No tags yet"
			return v, nil
		}
		v.mode = ListModeTagFilter
		v.selectorCursor = 0

	case "c", "esc":
		if v.filter.IsActive() {
			v.setFilter(v.filter.Reset())
			v.statusMsg = "Filters cleared"
		}

	case ":":
		v.cmdSuggestions = allCommands
		v.cmdCursor = 0
		v.cmdCursorMoved = false
		return v.openPrompt(ListModeCommand, "", "Command...")
	}

	return v, nil
}

func (v ListView) openPrompt(mode ListMode, value, placeholder string) (tea.Model, tea.Cmd) {
	v.mode = mode
	v.input.SetValue(value)
	v.input.CursorEnd()
	v.input.Placeholder = placeholder
	v.input.Focus()
	return v, textinput.Blink
}

func (v *ListView) closePrompt() {
	v.mode = ListModeNormal
	v.input.Blur()
}

// handleQuickAddMode handles keypresses in the quick add prompt
func (v ListView) handleQuickAddMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		draft := quickadd.Parse(v.input.Value(), v.now())
		if draft.Title == "" {
			v.statusMsg = "Title is required"
			return v, nil
		}
		v.closePrompt()
		return v, v.addTask(draft)
	case "esc":
		v.closePrompt()
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleFormMode forwards keys to the task form
func (v ListView) handleFormMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	form, cmd, outcome := v.form.Update(msg)
	v.form = form

	switch outcome {
	case formCancelled:
		v.mode = ListModeNormal
		return v, nil
	case formSubmitted:
		v.mode = ListModeNormal
		if v.form.IsEdit() {
			task, err := v.form.Task()
			if err != nil {
				return v, errorCmd(err)
			}
			return v, v.updateTask(task)
		}
		draft, err := v.form.Draft()
		if err != nil {
			return v, errorCmd(err)
		}
		return v, v.addTask(draft)
	}
	return v, cmd
}

// handleSearchMode handles keypresses in search mode. The list is filtered
// on every keystroke.
func (v ListView) handleSearchMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		v.closePrompt()
		v.setFilter(v.filter.WithSearch(strings.TrimSpace(v.input.Value())))
		return v, nil
	case "esc":
		// Leave the prompt but keep whatever has been typed so far
		v.closePrompt()
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	v.setFilter(v.filter.WithSearch(v.input.Value()))
	return v, cmd
}

// handleTagFilterSelector toggles tags in the filter. Space toggles, enter
// and esc close.
func (v ListView) handleTagFilterSelector(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selectorCursor > 0 {
			v.selectorCursor--
		} else {
			v.selectorCursor = len(v.tags) - 1
		}
	case "down", "j":
		if v.selectorCursor < len(v.tags)-1 {
			v.selectorCursor++
		} else {
			v.selectorCursor = 0
		}
	case " ":
		if v.selectorCursor < len(v.tags) {
			tag := v.tags[v.selectorCursor]
			v.setFilter(v.filter.ToggleTag(tag))
		}
	case "enter", "esc", "t":
		v.mode = ListModeNormal
	}
	return v, nil
}

// handleDeleteConfirm waits for y/n
func (v ListView) handleDeleteConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.mode = ListModeNormal
		id := v.deleteID
		v.deleteID = ""
		return v, v.removeTask(id)
	case "n", "N", "esc":
		v.mode = ListModeNormal
		v.deleteID = ""
	}
	return v, nil
}

// Store commands

func (v ListView) addTask(draft model.Draft) tea.Cmd {
	s := v.store
	return func() tea.Msg {
		task, err := s.Add(draft)
		if err != nil {
			return taskChangedMsg{err: err}
		}
		return taskChangedMsg{status: fmt.Sprintf("Added %q", task.Title), focusID: task.ID}
	}
}

func (v ListView) updateTask(task model.Task) tea.Cmd {
	s := v.store
	return func() tea.Msg {
		if err := s.Update(task); err != nil {
			return taskChangedMsg{err: err}
		}
		return taskChangedMsg{status: fmt.Sprintf("Updated %q", task.Title), focusID: task.ID}
	}
}

func (v ListView) toggleTask(task model.Task) tea.Cmd {
	s := v.store
	return func() tea.Msg {
		if err := s.Toggle(task.ID); err != nil {
			return taskChangedMsg{err: err}
		}
		status := "Done: " + task.Title
		if task.Completed {
			status = "Reopened: " + task.Title
		}
		return taskChangedMsg{status: status}
	}
}

func (v ListView) cyclePriority(task model.Task) tea.Cmd {
	updated := task.Clone()
	updated.Priority = task.Priority.Next()
	s := v.store
	return func() tea.Msg {
		if err := s.Update(updated); err != nil {
			return taskChangedMsg{err: err}
		}
		return taskChangedMsg{status: "Priority: " + string(updated.Priority), focusID: task.ID}
	}
}

func (v ListView) removeTask(id string) tea.Cmd {
	s := v.store
	return func() tea.Msg {
		if err := s.Remove(id); err != nil {
			return taskChangedMsg{err: err}
		}
		return taskChangedMsg{status: "Task deleted"}
	}
}

// View renders the list view
func (v ListView) View() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	if v.mode == ListModeForm {
		return v.form.View()
	}

	var b strings.Builder

	// Prompt bars
	switch v.mode {
	case ListModeQuickAdd:
		b.WriteString(styles.InputFocused.Render(v.input.View()))
		b.WriteString("\n\n")
	case ListModeSearch:
		b.WriteString(lipgloss.NewStyle().Foreground(t.Primary).Bold(true).Render("/"))
		b.WriteString(v.input.View())
		b.WriteString("\n\n")
	case ListModeCommand:
		b.WriteString(v.renderCommandBar())
		b.WriteString("\n")
	case ListModeConfirmDelete:
		title := ""
		for _, task := range v.tasks {
			if task.ID == v.deleteID {
				title = task.Title
				break
			}
		}
		confirmStyle := lipgloss.NewStyle().Foreground(t.Warning).Bold(true)
		b.WriteString(confirmStyle.Render(fmt.Sprintf("Delete %q? (y/n)", title)))
		b.WriteString("\n\n")
	}

	// Filter line
	b.WriteString(v.renderFilterLine())
	b.WriteString("\n")

	// Summary line
	summary := stats.Summarize(v.allTasks, v.tasks, v.now())
	b.WriteString(styles.Label.Render(summary.String()))
	b.WriteString("\n\n")

	// Status message
	if v.statusMsg != "" {
		statusStyle := lipgloss.NewStyle().Foreground(t.Info).Italic(true)
		b.WriteString(statusStyle.Render(v.statusMsg))
		b.WriteString("\n\n")
	}

	if v.mode == ListModeTagFilter {
		b.WriteString(v.renderTagFilterSelector())
		return b.String()
	}

	if len(v.tasks) == 0 {
		emptyStyle := lipgloss.NewStyle().Foreground(t.Subtle).Italic(true).Padding(1, 0)
		switch {
		case len(v.allTasks) == 0:
			b.WriteString(emptyStyle.Render("No tasks yet. Press 'a' to add one."))
		default:
			b.WriteString(emptyStyle.Render("No tasks match your filters. Press 'c' to clear them."))
		}
		return b.String()
	}

	visible := v.visibleTaskCount()
	endIdx := min(v.scrollOffset+visible, len(v.tasks))

	if v.scrollOffset > 0 {
		b.WriteString(styles.Label.Render(fmt.Sprintf("  ↑ %d more above", v.scrollOffset)))
		b.WriteString("\n")
	}

	now := v.now()
	for i := v.scrollOffset; i < endIdx; i++ {
		b.WriteString(v.renderTask(v.tasks[i], i == v.cursor, now))
		b.WriteString("\n")
	}

	if remaining := len(v.tasks) - endIdx; remaining > 0 {
		b.WriteString(styles.Label.Render(fmt.Sprintf("  ↓ %d more below", remaining)))
		b.WriteString("\n")
	}

	return b.String()
}

// renderFilterLine shows sort order and any active filters
func (v ListView) renderFilterLine() string {
	t := theme.Current.Theme

	sortStyle := lipgloss.NewStyle().Foreground(t.Secondary)
	line := sortStyle.Render("Sort: " + v.filter.Sort.String())

	if v.filter.IsActive() {
		filterStyle := lipgloss.NewStyle().Foreground(t.Info).Italic(true)
		clearHint := lipgloss.NewStyle().Foreground(t.Subtle)
		line += "  " + filterStyle.Render(v.filter.Describe()) + clearHint.Render(" (c to clear)")
	}
	return line
}

// renderTagFilterSelector renders the tag filter checklist
func (v ListView) renderTagFilterSelector() string {
	t := theme.Current.Theme

	titleStyle := lipgloss.NewStyle().Foreground(t.Primary).Bold(true)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Filter by tags (any match):"))
	b.WriteString("\n")

	for i, tag := range v.tags {
		cursor := "  "
		if i == v.selectorCursor {
			cursor = "> "
		}

		check := "[ ]"
		if v.filter.HasTag(tag) {
			check = "[x]"
		}

		tagStyle := lipgloss.NewStyle().Foreground(t.Info)
		if i == v.selectorCursor {
			tagStyle = tagStyle.Bold(true)
		}

		b.WriteString(cursor)
		b.WriteString(check)
		b.WriteString(" ")
		b.WriteString(tagStyle.Render(model.DisplayTag(tag)))
		b.WriteString("\n")
	}

	hintStyle := lipgloss.NewStyle().Foreground(t.Subtle).Italic(true)
	b.WriteString(hintStyle.Render("(Space to toggle, Enter/Esc to close)"))
	return b.String()
}

// renderTask renders a single task line
func (v ListView) renderTask(task model.Task, isCursor bool, now time.Time) string {
	t := theme.Current.Theme
	styles := theme.Current.Styles

	checkbox := "[ ]"
	if task.Completed {
		checkbox = "[x]"
	}

	priority := lipgloss.NewStyle().
		Foreground(t.PriorityColor(string(task.Priority))).
		Render(priorityMarker(task.Priority))

	titleStyle := styles.TaskNormal
	if task.Completed {
		titleStyle = styles.TaskDone
	} else if task.IsOverdue(now) {
		titleStyle = styles.TaskOverdue
	}

	var metadata []string
	if len(task.Tags) > 0 {
		tags := make([]string, len(task.Tags))
		for i, tag := range task.Tags {
			tags[i] = model.DisplayTag(tag)
		}
		metadata = append(metadata, styles.Tag.Render(strings.Join(tags, " ")))
	}
	if task.DueDate != nil {
		dueStyle := styles.DueDate
		if !task.Completed && task.IsOverdue(now) {
			dueStyle = lipgloss.NewStyle().Foreground(t.Error)
		} else if !task.Completed && task.IsDueOn(now) {
			dueStyle = lipgloss.NewStyle().Foreground(t.Warning)
		}
		metadata = append(metadata, dueStyle.Render(quickadd.FormatDate(*task.DueDate, now)))
	}

	line := fmt.Sprintf(" %s %s %s", checkbox, priority, titleStyle.Render(task.Title))
	if len(metadata) > 0 {
		line += " " + strings.Join(metadata, " ")
	}
	if isCursor && task.Description != "" {
		line += "\n      " + styles.Description.Render(truncate(task.Description, v.width-8))
	}

	if isCursor {
		lines := strings.Split(line, "\n")
		for i, l := range lines {
			lines[i] = styles.TaskFocused.Render(l)
		}
		line = strings.Join(lines, "\n")
	}
	return line
}

func priorityMarker(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return "!"
	case model.PriorityLow:
		return "."
	default:
		return "-"
	}
}

// truncate shortens s to width runes, adding an ellipsis
func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}
