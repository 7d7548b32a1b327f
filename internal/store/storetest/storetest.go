// Package storetest holds behaviour tests every store.Store implementation
// must pass.
package storetest

import (
	"testing"
	"time"

	"github.com/dori/ticklist/internal/model"
	"github.com/dori/ticklist/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory builds an empty store whose creation timestamps come from now.
type Factory func(t *testing.T, now func() time.Time) store.Store

// Clock is a settable time source for tests.
type Clock struct{ T time.Time }

func (c *Clock) Now() time.Time { return c.T }

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) { c.T = c.T.Add(d) }

// Run exercises the store contract against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	start := time.Date(2026, 2, 10, 8, 0, 0, 0, time.UTC)

	setup := func(t *testing.T) (store.Store, *Clock) {
		clock := &Clock{T: start}
		return newStore(t, clock.Now), clock
	}

	t.Run("add creates an active task", func(t *testing.T) {
		s, _ := setup(t)
		due := start.Add(48 * time.Hour)

		task, err := s.Add(model.Draft{
			Title:       "Write tests",
			Description: "for the store",
			DueDate:     &due,
			Priority:    model.PriorityHigh,
			Tags:        []string{"dev", "dev", "", "qa"},
		})
		require.NoError(t, err)

		assert.NotEmpty(t, task.ID)
		assert.False(t, task.Completed)
		assert.True(t, task.CreatedAt.Equal(start))
		require.NotNil(t, task.DueDate)
		assert.True(t, task.DueDate.Equal(due))
		assert.Equal(t, []string{"dev", "qa"}, task.Tags)

		tasks := s.Tasks()
		require.Len(t, tasks, 1)
		assert.Equal(t, task.ID, tasks[0].ID)
		assert.Equal(t, "Write tests", tasks[0].Title)
		assert.Equal(t, "for the store", tasks[0].Description)
		assert.Equal(t, model.PriorityHigh, tasks[0].Priority)
		assert.Equal(t, []string{"dev", "qa"}, s.Tags())
	})

	t.Run("ids are unique and order is insertion order", func(t *testing.T) {
		s, clock := setup(t)
		seen := make(map[string]bool)
		var want []string
		for i := 0; i < 25; i++ {
			clock.Advance(time.Minute)
			task, err := s.Add(model.Draft{Title: "t", Priority: model.PriorityLow})
			require.NoError(t, err)
			require.False(t, seen[task.ID], "duplicate id %s", task.ID)
			seen[task.ID] = true
			want = append(want, task.ID)
		}

		var got []string
		for _, task := range s.Tasks() {
			got = append(got, task.ID)
		}
		assert.Equal(t, want, got)
	})

	t.Run("empty priority defaults to medium", func(t *testing.T) {
		s, _ := setup(t)
		task, err := s.Add(model.Draft{Title: "x"})
		require.NoError(t, err)
		assert.Equal(t, model.PriorityMedium, task.Priority)
	})

	t.Run("unknown priority is stored as medium", func(t *testing.T) {
		s, _ := setup(t)
		task, err := s.Add(model.Draft{Title: "x", Priority: "urgent"})
		require.NoError(t, err)
		assert.Equal(t, model.PriorityMedium, task.Priority)

		task.Priority = "someday"
		require.NoError(t, s.Update(task))
		require.Len(t, s.Tasks(), 1)
		assert.Equal(t, model.PriorityMedium, s.Tasks()[0].Priority)
	})

	t.Run("toggle flips completion", func(t *testing.T) {
		s, _ := setup(t)
		task, err := s.Add(model.Draft{Title: "x"})
		require.NoError(t, err)

		require.NoError(t, s.Toggle(task.ID))
		assert.True(t, s.Tasks()[0].Completed)
		require.NoError(t, s.Toggle(task.ID))
		assert.False(t, s.Tasks()[0].Completed)
	})

	t.Run("toggle of unknown id changes nothing", func(t *testing.T) {
		s, _ := setup(t)
		_, err := s.Add(model.Draft{Title: "a"})
		require.NoError(t, err)
		_, err = s.Add(model.Draft{Title: "b"})
		require.NoError(t, err)

		before := s.Tasks()
		rev := s.Revision()

		require.NoError(t, s.Toggle("missing"))
		assert.Equal(t, before, s.Tasks())
		assert.Equal(t, rev, s.Revision())
	})

	t.Run("update replaces the task and keeps creation time", func(t *testing.T) {
		s, clock := setup(t)
		task, err := s.Add(model.Draft{Title: "old", Tags: []string{"x"}})
		require.NoError(t, err)
		other, err := s.Add(model.Draft{Title: "other"})
		require.NoError(t, err)

		clock.Advance(time.Hour)
		changed := task
		changed.Title = "new"
		changed.Description = "desc"
		changed.Completed = true
		changed.Priority = model.PriorityLow
		changed.Tags = []string{"y", "x"}
		changed.CreatedAt = clock.Now()

		require.NoError(t, s.Update(changed))

		tasks := s.Tasks()
		require.Len(t, tasks, 2)
		assert.Equal(t, task.ID, tasks[0].ID)
		assert.Equal(t, "new", tasks[0].Title)
		assert.Equal(t, "desc", tasks[0].Description)
		assert.True(t, tasks[0].Completed)
		assert.Equal(t, model.PriorityLow, tasks[0].Priority)
		assert.Nil(t, tasks[0].DueDate)
		assert.Equal(t, []string{"y", "x"}, tasks[0].Tags)
		assert.True(t, tasks[0].CreatedAt.Equal(start), "creation time changed")
		assert.Equal(t, other.ID, tasks[1].ID)
		assert.Equal(t, []string{"x", "y"}, s.Tags())
	})

	t.Run("update of unknown id is a no-op", func(t *testing.T) {
		s, _ := setup(t)
		_, err := s.Add(model.Draft{Title: "a", Tags: []string{"x"}})
		require.NoError(t, err)
		rev := s.Revision()

		require.NoError(t, s.Update(model.Task{ID: "missing", Title: "ghost", Tags: []string{"z"}}))
		assert.Len(t, s.Tasks(), 1)
		assert.Equal(t, []string{"x"}, s.Tags())
		assert.Equal(t, rev, s.Revision())
	})

	t.Run("remove deletes only the matching task", func(t *testing.T) {
		s, _ := setup(t)
		a, err := s.Add(model.Draft{Title: "a"})
		require.NoError(t, err)
		b, err := s.Add(model.Draft{Title: "b", Tags: []string{"keep"}})
		require.NoError(t, err)
		c, err := s.Add(model.Draft{Title: "c"})
		require.NoError(t, err)

		require.NoError(t, s.Remove(b.ID))
		tasks := s.Tasks()
		require.Len(t, tasks, 2)
		assert.Equal(t, a.ID, tasks[0].ID)
		assert.Equal(t, c.ID, tasks[1].ID)

		rev := s.Revision()
		require.NoError(t, s.Remove(b.ID))
		assert.Len(t, s.Tasks(), 2)
		assert.Equal(t, rev, s.Revision())

		// The tag universe is never pruned.
		assert.Equal(t, []string{"keep"}, s.Tags())
	})

	t.Run("tag universe accumulates without duplicates", func(t *testing.T) {
		s, _ := setup(t)
		_, err := s.Add(model.Draft{Title: "a", Tags: []string{"x"}})
		require.NoError(t, err)
		_, err = s.Add(model.Draft{Title: "b", Tags: []string{"x", "y"}})
		require.NoError(t, err)
		_, err = s.Add(model.Draft{Title: "c", Tags: []string{"y", "x"}})
		require.NoError(t, err)
		assert.Equal(t, []string{"x", "y"}, s.Tags())
	})

	t.Run("revision increases on every effective mutation", func(t *testing.T) {
		s, _ := setup(t)
		r0 := s.Revision()
		task, err := s.Add(model.Draft{Title: "a"})
		require.NoError(t, err)
		r1 := s.Revision()
		require.NoError(t, s.Toggle(task.ID))
		r2 := s.Revision()
		require.NoError(t, s.Update(task))
		r3 := s.Revision()
		require.NoError(t, s.Remove(task.ID))
		r4 := s.Revision()

		assert.Less(t, r0, r1)
		assert.Less(t, r1, r2)
		assert.Less(t, r2, r3)
		assert.Less(t, r3, r4)
	})

	t.Run("snapshots do not change after mutations", func(t *testing.T) {
		s, _ := setup(t)
		task, err := s.Add(model.Draft{Title: "a", Tags: []string{"x"}})
		require.NoError(t, err)

		tasks := s.Tasks()
		tags := s.Tags()

		require.NoError(t, s.Toggle(task.ID))
		_, err = s.Add(model.Draft{Title: "b", Tags: []string{"y"}})
		require.NoError(t, err)

		require.Len(t, tasks, 1)
		assert.False(t, tasks[0].Completed)
		assert.Equal(t, []string{"x"}, tags)
	})
}
