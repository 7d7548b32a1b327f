package views

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/ticklist/internal/model"
	"github.com/dori/ticklist/internal/quickadd"
	"github.com/dori/ticklist/internal/ui/theme"
)

// Form fields in tab order. The priority field is not a text input.
const (
	fieldTitle = iota
	fieldDescription
	fieldDue
	fieldTags
	fieldPriority
	fieldCount
)

var fieldLabels = [fieldCount]string{"Title*", "Description", "Due", "Tags", "Priority"}

// errEmptyTitle is shown when the form is submitted without a title
var errEmptyTitle = errors.New("title is required")

// formOutcome tells the list view what the last key did to the form
type formOutcome int

const (
	formEditing formOutcome = iota
	formSubmitted
	formCancelled
)

// TaskForm creates a task or edits an existing one
type TaskForm struct {
	inputs   []textinput.Model
	priority model.Priority
	focus    int
	editing  *model.Task
	tags     []string // tag universe, offered as hints
	now      time.Time
	err      string
}

func newFormInputs() []textinput.Model {
	inputs := make([]textinput.Model, fieldPriority)
	for i := range inputs {
		ti := textinput.New()
		ti.CharLimit = 256
		inputs[i] = ti
	}
	inputs[fieldTitle].Placeholder = "Enter task title"
	inputs[fieldDescription].Placeholder = "Enter task description"
	inputs[fieldDue].Placeholder = "tomorrow, friday, 2026-01-15 (empty for none)"
	inputs[fieldTags].Placeholder = "work, home"
	return inputs
}

// NewTaskForm returns an empty form for a new task
func NewTaskForm(tags []string, now time.Time) TaskForm {
	f := TaskForm{
		inputs:   newFormInputs(),
		priority: model.PriorityMedium,
		tags:     tags,
		now:      now,
	}
	f.inputs[fieldTitle].Focus()
	return f
}

// EditTaskForm returns a form filled from task
func EditTaskForm(task model.Task, tags []string, now time.Time) TaskForm {
	f := NewTaskForm(tags, now)
	c := task.Clone()
	f.editing = &c
	f.priority = task.Priority
	if !f.priority.Valid() {
		f.priority = model.PriorityMedium
	}
	f.inputs[fieldTitle].SetValue(task.Title)
	f.inputs[fieldDescription].SetValue(task.Description)
	if task.DueDate != nil {
		f.inputs[fieldDue].SetValue(task.DueDate.Format("2006-01-02"))
	}
	f.inputs[fieldTags].SetValue(strings.Join(task.Tags, ", "))
	return f
}

// IsEdit reports whether the form edits an existing task
func (f TaskForm) IsEdit() bool {
	return f.editing != nil
}

// SetWidth sizes the text inputs
func (f TaskForm) SetWidth(width int) TaskForm {
	for i := range f.inputs {
		f.inputs[i].Width = max(10, width-20)
	}
	return f
}

// Update handles a key press
func (f TaskForm) Update(msg tea.KeyMsg) (TaskForm, tea.Cmd, formOutcome) {
	switch msg.String() {
	case "esc":
		return f, nil, formCancelled
	case "enter":
		if _, err := f.Draft(); err != nil {
			f.err = err.Error()
			return f, nil, formEditing
		}
		return f, nil, formSubmitted
	case "tab", "down":
		return f.setFocus((f.focus + 1) % fieldCount), nil, formEditing
	case "shift+tab", "up":
		return f.setFocus((f.focus + fieldCount - 1) % fieldCount), nil, formEditing
	}

	if f.focus == fieldPriority {
		switch msg.String() {
		case " ", "right", "l", "p":
			f.priority = f.priority.Next()
		case "left", "h":
			f.priority = f.priority.Next().Next()
		}
		return f, nil, formEditing
	}

	f.err = ""
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd, formEditing
}

func (f TaskForm) setFocus(i int) TaskForm {
	for j := range f.inputs {
		f.inputs[j].Blur()
	}
	f.focus = i
	if i < len(f.inputs) {
		f.inputs[i].Focus()
	}
	return f
}

// Draft validates the fields and returns them as a draft
func (f TaskForm) Draft() (model.Draft, error) {
	title := strings.TrimSpace(f.inputs[fieldTitle].Value())
	if title == "" {
		return model.Draft{}, errEmptyTitle
	}

	draft := model.Draft{
		Title:       title,
		Description: strings.TrimSpace(f.inputs[fieldDescription].Value()),
		Priority:    f.priority,
		Tags:        parseTagList(f.inputs[fieldTags].Value()),
	}

	if due := strings.TrimSpace(f.inputs[fieldDue].Value()); due != "" {
		parsed := quickadd.ParseDate(due, f.now)
		if parsed == nil {
			return model.Draft{}, fmt.Errorf("unrecognised due date %q", due)
		}
		draft.DueDate = parsed
	}
	return draft, nil
}

// Task returns the edited task: the original with the form's fields applied.
// Identity, completion and creation time are kept.
func (f TaskForm) Task() (model.Task, error) {
	if f.editing == nil {
		return model.Task{}, errors.New("form is not editing a task")
	}
	draft, err := f.Draft()
	if err != nil {
		return model.Task{}, err
	}
	t := f.editing.Clone()
	t.Title = draft.Title
	t.Description = draft.Description
	t.DueDate = draft.DueDate
	t.Priority = draft.Priority
	t.Tags = draft.Tags
	return t, nil
}

// parseTagList splits comma or space separated tags, dropping any @ prefix
func parseTagList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' '
	})
	tags := make([]string, 0, len(fields))
	for _, f := range fields {
		tags = append(tags, strings.TrimPrefix(f, "@"))
	}
	return model.NormalizeTags(tags)
}

// View renders the form
func (f TaskForm) View() string {
	t := theme.Current.Theme
	styles := theme.Current.Styles

	title := "Create New Task"
	if f.IsEdit() {
		title = "Edit Task"
	}

	labelStyle := lipgloss.NewStyle().Foreground(t.Subtle).Width(13)
	activeLabel := labelStyle.Foreground(t.Primary).Bold(true)

	var b strings.Builder
	b.WriteString(styles.PanelTitle.Render(title))
	b.WriteString("\n\n")

	for i := 0; i < fieldCount; i++ {
		label := labelStyle
		if i == f.focus {
			label = activeLabel
		}
		b.WriteString(label.Render(fieldLabels[i]))
		if i == fieldPriority {
			marker := lipgloss.NewStyle().Foreground(t.PriorityColor(string(f.priority))).Bold(true)
			b.WriteString(marker.Render("◀ " + string(f.priority) + " ▶"))
		} else {
			b.WriteString(f.inputs[i].View())
		}
		b.WriteString("\n")
	}

	if len(f.tags) > 0 {
		hints := make([]string, len(f.tags))
		for i, tag := range f.tags {
			hints[i] = model.DisplayTag(tag)
		}
		b.WriteString("\n")
		b.WriteString(styles.Label.Render("Known tags: "))
		b.WriteString(styles.Tag.Render(strings.Join(hints, " ")))
		b.WriteString("\n")
	}

	if f.err != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(t.Error).Render(f.err))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.HelpDesc.Italic(true).Render("tab/↑↓ move • space/←→ priority • enter save • esc cancel"))

	return styles.Panel.Render(b.String())
}
