package stats

import (
	"testing"
	"time"

	"github.com/dori/ticklist/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestPercent(t *testing.T) {
	tests := []struct {
		n, total, want int
	}{
		{0, 0, 0},
		{1, 2, 50},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13}, // 12.5 rounds up
		{3, 3, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Percent(tt.n, tt.total), "%d/%d", tt.n, tt.total)
	}
}

func TestSummarizeScenario(t *testing.T) {
	all := []model.Task{
		{ID: "a", Title: "A", Priority: model.PriorityHigh},
		{ID: "b", Title: "B", Priority: model.PriorityLow, Completed: true},
	}
	visible := all[:1]

	s := Summarize(all, visible, time.Now())
	assert.Equal(t, 50, s.CompletionRate)
	assert.Equal(t, 2, s.Total)
	assert.Equal(t, 1, s.Completed)
	assert.Equal(t, 0, s.VisibleCompletionRate)
	assert.Equal(t, 1, s.VisibleTotal)
	assert.Equal(t, 1, s.HighPriorityOpen)
}

func TestSummarizeDueToday(t *testing.T) {
	loc := time.FixedZone("local", -5*60*60)
	now := time.Date(2026, 7, 1, 10, 30, 0, 0, loc)
	at := func(y int, m time.Month, d, h, min, s int) *time.Time {
		v := time.Date(y, m, d, h, min, s, 0, loc)
		return &v
	}

	all := []model.Task{
		{ID: "midnight", DueDate: at(2026, 7, 1, 0, 0, 0)},
		{ID: "late", DueDate: at(2026, 7, 1, 23, 59, 59)},
		{ID: "tomorrow", DueDate: at(2026, 7, 2, 0, 0, 0)},
		{ID: "yesterday", DueDate: at(2026, 6, 30, 23, 59, 59)},
		{ID: "done", DueDate: at(2026, 7, 1, 12, 0, 0), Completed: true},
		{ID: "undated"},
	}

	s := Summarize(all, all, now)
	assert.Equal(t, 2, s.DueToday)
	assert.Equal(t, 17, s.CompletionRate)
}

func TestSummarizeHighPriorityIgnoresCompleted(t *testing.T) {
	all := []model.Task{
		{Priority: model.PriorityHigh},
		{Priority: model.PriorityHigh, Completed: true},
		{Priority: model.PriorityMedium},
	}
	s := Summarize(all, nil, time.Now())
	assert.Equal(t, 1, s.HighPriorityOpen)
	assert.Equal(t, 0, s.VisibleTotal)
	assert.Equal(t, 0, s.VisibleCompletionRate)
}

func TestDueTodayTitles(t *testing.T) {
	now := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	today := model.EndOfDay(now)
	later := today.AddDate(0, 0, 1)

	all := []model.Task{
		{Title: "pay rent", DueDate: &today},
		{Title: "done already", DueDate: &today, Completed: true},
		{Title: "tomorrow", DueDate: &later},
		{Title: "call mom", DueDate: &today},
	}

	assert.Equal(t, []string{"pay rent", "call mom"}, DueTodayTitles(all, now))
	assert.Nil(t, DueTodayTitles(nil, now))
}

func TestSummaryString(t *testing.T) {
	s := Summary{Total: 3, Completed: 1, CompletionRate: 33, VisibleTotal: 2, VisibleCompleted: 1, VisibleCompletionRate: 50, HighPriorityOpen: 1, DueToday: 2}
	assert.Equal(t, "Showing 2 of 3 · 33% complete (50% of shown) · 1 high priority · 2 due today", s.String())
}

func TestByTag(t *testing.T) {
	all := []model.Task{
		{ID: "a", Tags: []string{"work"}},
		{ID: "b", Tags: []string{"work", "home"}, Completed: true},
		{ID: "c", Tags: []string{"stray"}},
	}

	got := ByTag(all, []string{"home", "work", "errands"})
	assert.Equal(t, []Breakdown{
		{Name: "home", Open: 0, Total: 1},
		{Name: "work", Open: 1, Total: 2},
		{Name: "errands", Open: 0, Total: 0},
	}, got)
}

func TestByPriority(t *testing.T) {
	all := []model.Task{
		{ID: "a", Priority: model.PriorityHigh},
		{ID: "b", Priority: model.PriorityHigh, Completed: true},
		{ID: "c", Priority: model.PriorityLow},
	}

	got := ByPriority(all)
	assert.Equal(t, []Breakdown{
		{Name: "high", Open: 1, Total: 2},
		{Name: "medium", Open: 0, Total: 0},
		{Name: "low", Open: 1, Total: 1},
	}, got)
}

func TestOverdue(t *testing.T) {
	now := time.Date(2026, 3, 11, 14, 30, 0, 0, time.UTC)
	yesterday := model.EndOfDay(now.AddDate(0, 0, -1))
	today := model.EndOfDay(now)

	all := []model.Task{
		{ID: "a", DueDate: &yesterday},
		{ID: "b", DueDate: &yesterday, Completed: true},
		{ID: "c", DueDate: &today},
		{ID: "d"},
	}
	assert.Equal(t, 1, Overdue(all, now))
}
