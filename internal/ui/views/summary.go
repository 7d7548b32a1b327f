package views

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/ticklist/internal/model"
	"github.com/dori/ticklist/internal/query"
	"github.com/dori/ticklist/internal/stats"
	"github.com/dori/ticklist/internal/store"
	"github.com/dori/ticklist/internal/ui/theme"
)

// SummaryView shows progress figures for the whole collection and the
// currently filtered subset
type SummaryView struct {
	store  store.Store
	now    func() time.Time
	filter model.Filter
	width  int
	height int

	// Snapshot taken on refresh
	rev        uint64
	all        []model.Task
	visible    []model.Task
	tags       []string
	summary    stats.Summary
	overdue    int
	byTag      []stats.Breakdown
	byPriority []stats.Breakdown
}

// NewSummaryView creates a new summary view
func NewSummaryView(s store.Store, f model.Filter, now func() time.Time) SummaryView {
	v := SummaryView{store: s, now: now, filter: f}
	v.refresh()
	return v
}

// Init initializes the summary view
func (v SummaryView) Init() tea.Cmd {
	return nil
}

// SetSize sets the view dimensions
func (v SummaryView) SetSize(width, height int) SummaryView {
	v.width = width
	v.height = height
	return v
}

// SetFilter sets the filter the "shown" figures are computed against and
// refreshes the snapshot
func (v SummaryView) SetFilter(f model.Filter) SummaryView {
	v.filter = f
	v.refresh()
	return v
}

// Summary returns the figures from the last refresh
func (v SummaryView) Summary() stats.Summary {
	return v.summary
}

func (v *SummaryView) refresh() {
	now := v.now()
	v.rev = v.store.Revision()
	v.all = v.store.Tasks()
	v.tags = v.store.Tags()
	v.visible = query.Visible(v.all, v.filter)
	v.summary = stats.Summarize(v.all, v.visible, now)
	v.overdue = stats.Overdue(v.all, now)
	v.byTag = stats.ByTag(v.all, v.tags)
	v.byPriority = stats.ByPriority(v.all)
}

// Update handles messages
func (v SummaryView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case taskChangedMsg:
		v.refresh()
	case tea.KeyMsg:
		if msg.String() == "r" {
			v.refresh()
		}
	}
	// Pick up changes made from the list view
	if v.store.Revision() != v.rev {
		v.refresh()
	}
	return v, nil
}

// View renders the summary view
func (v SummaryView) View() string {
	if v.width == 0 || v.height == 0 {
		return "Loading..."
	}

	t := theme.Current.Theme

	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
	sections = append(sections, titleStyle.Render("Summary"))
	if v.filter.IsActive() {
		sections = append(sections, lipgloss.NewStyle().Foreground(t.Info).Italic(true).Render(v.filter.Describe()))
	}
	sections = append(sections, "")

	// Summary cards (side by side)
	cardStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 2).
		Width(18)

	valueStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(t.Subtle)

	card := func(value, label string) string {
		return cardStyle.Render(valueStyle.Render(value) + "\n" + labelStyle.Render(label))
	}

	s := v.summary
	cardRow := lipgloss.JoinHorizontal(lipgloss.Top,
		card(fmt.Sprintf("%d / %d", s.Completed, s.Total), "Completed"),
		card(fmt.Sprintf("%d", s.HighPriorityOpen), "High Priority"),
		card(fmt.Sprintf("%d", s.DueToday), "Due Today"),
		card(fmt.Sprintf("%d", v.overdue), "Overdue"),
	)
	sections = append(sections, cardRow)
	sections = append(sections, "")

	// Progress bars
	barWidth := max(10, min(40, v.width-30))
	sections = append(sections, v.renderProgress("All tasks", s.CompletionRate, s.Completed, s.Total, barWidth))
	sections = append(sections, v.renderProgress("Shown", s.VisibleCompletionRate, s.VisibleCompleted, s.VisibleTotal, barWidth))
	sections = append(sections, "")

	sections = append(sections, v.renderBreakdown("By Priority", v.byPriority, func(name string) lipgloss.Color {
		return t.PriorityColor(name)
	}))
	sections = append(sections, "")

	if len(v.byTag) > 0 {
		sections = append(sections, v.renderBreakdown("By Tag", v.byTag, func(string) lipgloss.Color {
			return t.Info
		}))
		sections = append(sections, "")
	}

	hints := lipgloss.NewStyle().Foreground(t.Subtle).Render("r: refresh • 1: back to list")
	sections = append(sections, hints)

	return strings.Join(sections, "\n")
}

// renderProgress renders one labelled completion bar
func (v SummaryView) renderProgress(label string, pct, done, total, width int) string {
	t := theme.Current.Theme
	labelStyle := lipgloss.NewStyle().Foreground(t.Secondary).Width(12)
	parts := progressBar(width, pct)
	filled := lipgloss.NewStyle().Foreground(t.Success).Render(parts.filled)
	empty := lipgloss.NewStyle().Foreground(t.Subtle).Render(parts.empty)
	return fmt.Sprintf("%s %s%s %3d%% (%d/%d)", labelStyle.Render(label), filled, empty, pct, done, total)
}

// renderBreakdown renders open/total counts as horizontal bars
func (v SummaryView) renderBreakdown(title string, rows []stats.Breakdown, color func(string) lipgloss.Color) string {
	t := theme.Current.Theme

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Secondary)

	var lines []string
	lines = append(lines, headerStyle.Render(title))

	// Find max for bar scaling
	maxTotal := 1
	for _, r := range rows {
		if r.Total > maxTotal {
			maxTotal = r.Total
		}
	}

	barMaxWidth := 30
	for _, r := range rows {
		barWidth := r.Total * barMaxWidth / maxTotal
		if barWidth < 1 && r.Total > 0 {
			barWidth = 1
		}
		bar := lipgloss.NewStyle().Foreground(color(r.Name)).Render(strings.Repeat("█", barWidth))
		name := r.Name
		if title == "By Tag" {
			name = model.DisplayTag(name)
		}
		lines = append(lines, fmt.Sprintf("%-15s %s %d open / %d", name, bar, r.Open, r.Total))
	}

	return strings.Join(lines, "\n")
}

// IsInputMode returns whether the view is in input mode
func (v SummaryView) IsInputMode() bool {
	return false
}

type barParts struct {
	filled string
	empty  string
}

// progressBar splits width cells into filled and empty runs for pct.
// pct is clamped to 0..100.
func progressBar(width, pct int) barParts {
	pct = min(max(pct, 0), 100)
	if width < 0 {
		width = 0
	}
	n := width * pct / 100
	return barParts{
		filled: strings.Repeat("█", n),
		empty:  strings.Repeat("░", width-n),
	}
}
