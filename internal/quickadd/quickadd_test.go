package quickadd

import (
	"testing"
	"time"

	"github.com/dori/ticklist/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday
var now = time.Date(2026, 3, 11, 14, 30, 0, 0, time.UTC)

func endOf(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 23, 59, 59, 0, time.UTC)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		title    string
		priority model.Priority
		tags     []string
		due      *time.Time
	}{
		{
			name:     "plain title",
			input:    "Buy groceries",
			title:    "Buy groceries",
			priority: model.PriorityMedium,
		},
		{
			name:     "everything",
			input:    "Review PR @work !high due:tomorrow",
			title:    "Review PR",
			priority: model.PriorityHigh,
			tags:     []string{"work"},
			due:      ptr(endOf(2026, 3, 12)),
		},
		{
			name:     "tags keep order and drop repeats",
			input:    "@b call @a mom @b",
			title:    "call mom",
			priority: model.PriorityMedium,
			tags:     []string{"b", "a"},
		},
		{
			name:     "unknown priority stays in title",
			input:    "Ship it !urgent",
			title:    "Ship it !urgent",
			priority: model.PriorityMedium,
		},
		{
			name:     "unknown date stays in title",
			input:    "Renew due:someday",
			title:    "Renew due:someday",
			priority: model.PriorityMedium,
		},
		{
			name:     "short priority and absolute date",
			input:    "Taxes !l DUE:2026-04-15",
			title:    "Taxes",
			priority: model.PriorityLow,
			due:      ptr(endOf(2026, 4, 15)),
		},
		{
			name:     "lone at sign is a word",
			input:    "meet @ noon",
			title:    "meet @ noon",
			priority: model.PriorityMedium,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input, now)
			assert.Equal(t, tt.title, got.Title)
			assert.Equal(t, tt.priority, got.Priority)
			assert.Equal(t, tt.tags, got.Tags)
			if tt.due == nil {
				assert.Nil(t, got.DueDate)
				return
			}
			require.NotNil(t, got.DueDate)
			assert.True(t, tt.due.Equal(*got.DueDate), "want %v, got %v", tt.due, got.DueDate)
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"today", endOf(2026, 3, 11)},
		{"tom", endOf(2026, 3, 12)},
		{"nextweek", endOf(2026, 3, 18)},
		{"friday", endOf(2026, 3, 13)},
		{"mon", endOf(2026, 3, 16)},
		// Today is Wednesday, so "wed" means next week.
		{"wed", endOf(2026, 3, 18)},
		{"2026-12-24", endOf(2026, 12, 24)},
		{"12/24/2026", endOf(2026, 12, 24)},
		{"Dec 24", endOf(2026, 12, 24)},
		{"Jan 2, 2027", endOf(2027, 1, 2)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseDate(tt.input, now)
			require.NotNil(t, got)
			assert.True(t, tt.want.Equal(*got), "want %v, got %v", tt.want, *got)
		})
	}

	assert.Nil(t, ParseDate("", now))
	assert.Nil(t, ParseDate("whenever", now))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "today", FormatDate(endOf(2026, 3, 11), now))
	assert.Equal(t, "tomorrow", FormatDate(endOf(2026, 3, 12), now))
	assert.Equal(t, "yesterday", FormatDate(endOf(2026, 3, 10), now))
	assert.Equal(t, "Sat", FormatDate(endOf(2026, 3, 14), now))
	assert.Equal(t, "Mar 1", FormatDate(endOf(2026, 3, 1), now))
	assert.Equal(t, "Jan 5, 2027", FormatDate(endOf(2027, 1, 5), now))
}

func ptr(t time.Time) *time.Time { return &t }
