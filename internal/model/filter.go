package model

import (
	"fmt"
	"strings"
)

// StatusFilter selects tasks by completion state
type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusActive    StatusFilter = "active"
	StatusCompleted StatusFilter = "completed"
)

// StatusFilters lists the filters in the order the UI cycles through them.
var StatusFilters = []StatusFilter{StatusAll, StatusActive, StatusCompleted}

func (s StatusFilter) String() string {
	switch s {
	case StatusActive:
		return "Active"
	case StatusCompleted:
		return "Completed"
	default:
		return "All"
	}
}

// Next returns the following status filter, wrapping around.
func (s StatusFilter) Next() StatusFilter {
	for i, f := range StatusFilters {
		if f == s {
			return StatusFilters[(i+1)%len(StatusFilters)]
		}
	}
	return StatusAll
}

// ParseStatusFilter accepts "all", "active", "completed" and a few aliases.
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return StatusAll, nil
	case "active", "open", "pending", "todo":
		return StatusActive, nil
	case "completed", "complete", "done":
		return StatusCompleted, nil
	}
	return "", fmt.Errorf("unknown status filter %q (want all, active or completed)", s)
}

// SortKey selects the ordering of the visible list
type SortKey string

const (
	SortDueDate  SortKey = "due"
	SortPriority SortKey = "priority"
	SortCreated  SortKey = "created"
)

// SortKeys lists the keys in the order the UI cycles through them.
var SortKeys = []SortKey{SortDueDate, SortPriority, SortCreated}

func (k SortKey) String() string {
	switch k {
	case SortDueDate:
		return "Due date"
	case SortPriority:
		return "Priority"
	case SortCreated:
		return "Newest"
	default:
		return string(k)
	}
}

// Next returns the following sort key, wrapping around.
func (k SortKey) Next() SortKey {
	for i, key := range SortKeys {
		if key == k {
			return SortKeys[(i+1)%len(SortKeys)]
		}
	}
	return SortDueDate
}

// ParseSortKey accepts "due", "priority", "created" and their long spellings.
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "due", "duedate", "due_date", "d":
		return SortDueDate, nil
	case "priority", "pri", "p":
		return SortPriority, nil
	case "created", "createdat", "created_at", "newest", "c":
		return SortCreated, nil
	}
	return "", fmt.Errorf("unknown sort key %q (want due, priority or created)", s)
}

// Filter is the filter descriptor that decides which tasks are visible.
// It is a value: every With* method returns a modified copy.
type Filter struct {
	Search string
	Status StatusFilter
	Sort   SortKey
	Tags   []string
}

// DefaultFilter shows everything ordered by due date.
func DefaultFilter() Filter {
	return Filter{Status: StatusAll, Sort: SortDueDate}
}

func (f Filter) WithSearch(term string) Filter {
	f.Search = term
	return f
}

func (f Filter) WithStatus(s StatusFilter) Filter {
	f.Status = s
	return f
}

func (f Filter) WithSort(k SortKey) Filter {
	f.Sort = k
	return f
}

// WithTags replaces the selected tag set.
func (f Filter) WithTags(tags []string) Filter {
	f.Tags = NormalizeTags(tags)
	return f
}

// ToggleTag selects tag if it is not selected and deselects it otherwise.
func (f Filter) ToggleTag(tag string) Filter {
	next := make([]string, 0, len(f.Tags)+1)
	found := false
	for _, t := range f.Tags {
		if t == tag {
			found = true
			continue
		}
		next = append(next, t)
	}
	if !found {
		next = append(next, tag)
	}
	if len(next) == 0 {
		next = nil
	}
	f.Tags = next
	return f
}

// HasTag reports whether tag is selected.
func (f Filter) HasTag(tag string) bool {
	for _, t := range f.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func (f Filter) ClearTags() Filter {
	f.Tags = nil
	return f
}

// Reset clears the narrowing parts of the filter but keeps the sort order.
func (f Filter) Reset() Filter {
	return Filter{Status: StatusAll, Sort: f.Sort}
}

// IsActive returns true if anything narrows the visible list.
func (f Filter) IsActive() bool {
	return f.Search != "" || (f.Status != StatusAll && f.Status != "") || len(f.Tags) > 0
}

// Describe renders the active parts of the filter for status lines.
func (f Filter) Describe() string {
	var parts []string
	if f.Status != StatusAll && f.Status != "" {
		parts = append(parts, "Status: "+f.Status.String())
	}
	if len(f.Tags) > 0 {
		tags := make([]string, len(f.Tags))
		for i, t := range f.Tags {
			tags[i] = DisplayTag(t)
		}
		parts = append(parts, "Tags: "+strings.Join(tags, ", "))
	}
	if f.Search != "" {
		parts = append(parts, "Text: "+f.Search)
	}
	return "Filters: " + strings.Join(parts, " | ")
}
