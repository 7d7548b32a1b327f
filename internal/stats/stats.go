// Package stats computes the progress summary shown above the task list.
package stats

import (
	"fmt"
	"math"
	"time"

	"github.com/dori/ticklist/internal/model"
)

// Summary holds figures derived from the full collection and the visible
// subset. Nothing here is stored; it is recomputed on every render.
type Summary struct {
	Total          int
	Completed      int
	CompletionRate int // percent, rounded

	VisibleTotal          int
	VisibleCompleted      int
	VisibleCompletionRate int

	HighPriorityOpen int // incomplete high priority tasks
	DueToday         int // incomplete tasks due within today's local day
}

// Summarize computes the summary. now decides which calendar day counts as
// today, in now's location.
func Summarize(all, visible []model.Task, now time.Time) Summary {
	var s Summary

	s.Total = len(all)
	for _, t := range all {
		if t.Completed {
			s.Completed++
			continue
		}
		if t.Priority == model.PriorityHigh {
			s.HighPriorityOpen++
		}
		if t.IsDueOn(now) {
			s.DueToday++
		}
	}
	s.CompletionRate = Percent(s.Completed, s.Total)

	s.VisibleTotal = len(visible)
	for _, t := range visible {
		if t.Completed {
			s.VisibleCompleted++
		}
	}
	s.VisibleCompletionRate = Percent(s.VisibleCompleted, s.VisibleTotal)

	return s
}

// String renders the one-line summary shown under the list.
func (s Summary) String() string {
	return fmt.Sprintf("Showing %d of %d · %d%% complete (%d%% of shown) · %d high priority · %d due today",
		s.VisibleTotal, s.Total, s.CompletionRate, s.VisibleCompletionRate, s.HighPriorityOpen, s.DueToday)
}

// Percent returns n/total as a rounded percentage, or 0 when total is 0.
func Percent(n, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(n) / float64(total) * 100))
}

// DueTodayTitles lists the titles of incomplete tasks due today, in
// collection order.
func DueTodayTitles(all []model.Task, now time.Time) []string {
	var titles []string
	for _, t := range all {
		if !t.Completed && t.IsDueOn(now) {
			titles = append(titles, t.Title)
		}
	}
	return titles
}

// Breakdown counts open and total tasks for one group.
type Breakdown struct {
	Name  string
	Open  int
	Total int
}

// ByTag counts tasks per tag, in the order of tags. Tags no task carries
// are still listed with zero counts.
func ByTag(all []model.Task, tags []string) []Breakdown {
	out := make([]Breakdown, len(tags))
	index := make(map[string]int, len(tags))
	for i, tag := range tags {
		out[i].Name = tag
		index[tag] = i
	}
	for _, t := range all {
		for _, tag := range t.Tags {
			i, ok := index[tag]
			if !ok {
				continue
			}
			out[i].Total++
			if !t.Completed {
				out[i].Open++
			}
		}
	}
	return out
}

// ByPriority counts tasks per priority, highest first.
func ByPriority(all []model.Task) []Breakdown {
	out := make([]Breakdown, len(model.Priorities))
	for i, p := range model.Priorities {
		out[i].Name = string(p)
	}
	for _, t := range all {
		for i, p := range model.Priorities {
			if t.Priority != p {
				continue
			}
			out[i].Total++
			if !t.Completed {
				out[i].Open++
			}
		}
	}
	return out
}

// Overdue counts incomplete tasks whose due date has passed.
func Overdue(all []model.Task, now time.Time) int {
	n := 0
	for _, t := range all {
		if !t.Completed && t.IsOverdue(now) {
			n++
		}
	}
	return n
}
