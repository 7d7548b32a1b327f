// Package query derives the visible task list from the task collection and a
// filter descriptor. It holds no state.
package query

import (
	"slices"
	"strings"

	"github.com/dori/ticklist/internal/model"
)

// Visible filters tasks by status, then search term, then selected tags, and
// returns them stably sorted by the filter's sort key. The input slice is
// never modified; the result is always a fresh slice.
func Visible(tasks []model.Task, f model.Filter) []model.Task {
	search := strings.ToLower(f.Search)

	out := make([]model.Task, 0, len(tasks))
	for _, task := range tasks {
		if !MatchStatus(task, f.Status) {
			continue
		}
		if search != "" && !matchLower(task, search) {
			continue
		}
		if !MatchTags(task, f.Tags) {
			continue
		}
		out = append(out, task)
	}

	Sort(out, f.Sort)
	return out
}

// MatchStatus applies the status stage.
func MatchStatus(task model.Task, status model.StatusFilter) bool {
	switch status {
	case model.StatusCompleted:
		return task.Completed
	case model.StatusActive:
		return !task.Completed
	default:
		return true
	}
}

// MatchSearch reports whether term occurs in the title or description,
// ignoring case. An empty term matches everything.
func MatchSearch(task model.Task, term string) bool {
	if term == "" {
		return true
	}
	return matchLower(task, strings.ToLower(term))
}

func matchLower(task model.Task, lower string) bool {
	return strings.Contains(strings.ToLower(task.Title), lower) ||
		strings.Contains(strings.ToLower(task.Description), lower)
}

// MatchTags keeps tasks carrying any of the selected tags. No selection
// matches everything.
func MatchTags(task model.Task, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, tag := range task.Tags {
		if slices.Contains(selected, tag) {
			return true
		}
	}
	return false
}

// Sort orders tasks in place, stably, by key. Unknown keys leave the order
// untouched.
func Sort(tasks []model.Task, key model.SortKey) {
	switch key {
	case model.SortDueDate:
		slices.SortStableFunc(tasks, compareDue)
	case model.SortPriority:
		slices.SortStableFunc(tasks, func(a, b model.Task) int {
			return a.Priority.Rank() - b.Priority.Rank()
		})
	case model.SortCreated:
		slices.SortStableFunc(tasks, func(a, b model.Task) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	}
}

// compareDue puts dated tasks first, earliest first. Undated tasks compare
// equal to each other so the stable sort keeps their order.
func compareDue(a, b model.Task) int {
	switch {
	case a.DueDate == nil && b.DueDate == nil:
		return 0
	case a.DueDate == nil:
		return 1
	case b.DueDate == nil:
		return -1
	}
	return a.DueDate.Compare(*b.DueDate)
}
