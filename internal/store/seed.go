package store

import (
	"time"

	"github.com/dori/ticklist/internal/model"
	"github.com/google/uuid"
)

// DemoTags is the tag universe a fresh demo session starts with.
var DemoTags = []string{"work", "project", "personal", "shopping", "health"}

// Loader is implemented by stores that can take a prepared collection, such
// as the demo tasks, with creation times already set.
type Loader interface {
	Load(tasks []model.Task, tags []string) error
}

// DemoTasks returns the sample tasks shown on first start, dated relative
// to now.
func DemoTasks(now time.Time) []model.Task {
	at := func(d time.Duration) *time.Time {
		t := now.Add(d)
		return &t
	}
	day := 24 * time.Hour

	return []model.Task{
		{
			ID:          uuid.NewString(),
			Title:       "Complete project proposal",
			Description: "Draft the initial project proposal with budget estimates",
			CreatedAt:   now,
			DueDate:     at(2 * day),
			Priority:    model.PriorityHigh,
			Tags:        []string{"work", "project"},
		},
		{
			ID:          uuid.NewString(),
			Title:       "Buy groceries",
			Description: "Get milk, eggs, bread, and vegetables",
			Completed:   true,
			CreatedAt:   now.Add(-day),
			DueDate:     at(-12 * time.Hour),
			Priority:    model.PriorityMedium,
			Tags:        []string{"personal", "shopping"},
		},
		{
			ID:          uuid.NewString(),
			Title:       "Schedule dentist appointment",
			Description: "Call Dr. Smith for a check-up",
			CreatedAt:   now.Add(-2 * day),
			DueDate:     at(7 * day),
			Priority:    model.PriorityLow,
			Tags:        []string{"health", "personal"},
		},
	}
}

// Seed loads the demo tasks and tags into s.
func Seed(s Loader, now time.Time) error {
	return s.Load(DemoTasks(now), DemoTags)
}

// Load appends tasks as they are, keeping their ids and creation times, and
// merges tags and the tasks' tags into the universe.
func (m *Memory) Load(tasks []model.Task, tags []string) error {
	m.mu.Lock()
	next := make([]model.Task, len(m.tasks), len(m.tasks)+len(tasks))
	copy(next, m.tasks)
	universe := model.MergeTags(m.tags, tags)
	seen := make(map[string]bool, len(next)+len(tasks))
	for _, t := range next {
		seen[t.ID] = true
	}
	for _, t := range tasks {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		c := t.Clone()
		c.Tags = model.NormalizeTags(c.Tags)
		next = append(next, c)
		universe = model.MergeTags(universe, c.Tags)
	}
	m.tasks = next
	m.tags = universe
	rev := m.bump()
	m.mu.Unlock()

	m.logger.Debug("tasks loaded", "count", len(tasks), "rev", rev)
	m.notify(rev)
	return nil
}
