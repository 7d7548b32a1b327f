// Package quickadd parses one-line task entries such as
//
//	Review PR @work !high due:tomorrow
//
// into a task draft.
package quickadd

import (
	"strings"
	"time"

	"github.com/dori/ticklist/internal/model"
)

// Parse splits text into title words, @tags, a !priority and a due: date.
// Tokens that look like a priority or date but do not parse stay in the
// title. Dates resolve relative to now.
func Parse(text string, now time.Time) model.Draft {
	draft := model.Draft{Priority: model.PriorityMedium}
	var titleParts []string

	for _, word := range strings.Fields(text) {
		switch {
		// Tags (@home, @work, etc.)
		case strings.HasPrefix(word, "@") && len(word) > 1:
			draft.Tags = append(draft.Tags, strings.TrimPrefix(word, "@"))

		// Priority (!low, !high, etc.)
		case strings.HasPrefix(word, "!"):
			if p, ok := model.ParsePriority(strings.TrimPrefix(word, "!")); ok {
				draft.Priority = p
			} else {
				titleParts = append(titleParts, word)
			}

		// Due date (due:tomorrow, due:friday, due:2024-01-15)
		case strings.HasPrefix(strings.ToLower(word), "due:"):
			if parsed := ParseDate(word[len("due:"):], now); parsed != nil {
				draft.DueDate = parsed
			} else {
				titleParts = append(titleParts, word)
			}

		default:
			titleParts = append(titleParts, word)
		}
	}

	draft.Title = strings.Join(titleParts, " ")
	draft.Tags = model.NormalizeTags(draft.Tags)
	return draft
}

var dateFormats = []string{
	"2006-01-02",
	"01/02/2006",
	"01-02-2006",
	"Jan 2, 2006",
	"Jan 2",
}

// ParseDate understands today, tomorrow, weekday names, nextweek and a few
// absolute formats. The result is the last second of that day in now's
// location. It returns nil for anything else, including the empty string.
func ParseDate(s string, now time.Time) *time.Time {
	today := model.EndOfDay(now)

	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return nil
	case "today", "tod":
		return &today
	case "tomorrow", "tom":
		t := today.AddDate(0, 0, 1)
		return &t
	case "nextweek":
		t := today.AddDate(0, 0, 7)
		return &t
	}

	if day, ok := weekdays[strings.ToLower(strings.TrimSpace(s))]; ok {
		return nextWeekday(day, now)
	}

	for _, format := range dateFormats {
		t, err := time.ParseInLocation(format, strings.TrimSpace(s), now.Location())
		if err != nil {
			continue
		}
		// If no year, use current year
		year := t.Year()
		if year == 0 {
			year = now.Year()
		}
		parsed := model.EndOfDay(time.Date(year, t.Month(), t.Day(), 0, 0, 0, 0, now.Location()))
		return &parsed
	}

	return nil
}

var weekdays = map[string]time.Weekday{
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
	"sunday": time.Sunday, "sun": time.Sunday,
}

// nextWeekday returns the next occurrence of day strictly after today.
func nextWeekday(day time.Weekday, now time.Time) *time.Time {
	daysUntil := int(day - now.Weekday())
	if daysUntil <= 0 {
		daysUntil += 7
	}

	t := model.EndOfDay(now).AddDate(0, 0, daysUntil)
	return &t
}

// FormatDate renders a due date the way the list shows it: today,
// tomorrow, a weekday within the next week, or a short date.
func FormatDate(t, now time.Time) string {
	if sameDay(t, now) {
		return "today"
	}
	if sameDay(t, now.AddDate(0, 0, 1)) {
		return "tomorrow"
	}
	if sameDay(t, now.AddDate(0, 0, -1)) {
		return "yesterday"
	}

	diff := t.Sub(now)
	if diff > 0 && diff < 7*24*time.Hour {
		return t.Format("Mon")
	}
	if t.Year() == now.Year() {
		return t.Format("Jan 2")
	}
	return t.Format("Jan 2, 2006")
}

func sameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
