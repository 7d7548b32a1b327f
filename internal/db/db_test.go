package db

import (
	"testing"
	"time"

	"github.com/dori/ticklist/internal/model"
	"github.com/dori/ticklist/internal/store"
	"github.com/dori/ticklist/internal/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTest(t *testing.T, opts ...Option) *DB {
	t.Helper()
	db, err := Open(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T, now func() time.Time) store.Store {
		return openTest(t, WithClock(now))
	})
}

// TestDatabasesAreIndependent checks that two stores never share the
// in-memory database.
func TestDatabasesAreIndependent(t *testing.T) {
	a := openTest(t)
	b := openTest(t)

	_, err := a.Add(model.Draft{Title: "only in a", Tags: []string{"a"}})
	require.NoError(t, err)

	assert.Len(t, a.Tasks(), 1)
	assert.Empty(t, b.Tasks())
	assert.Empty(t, b.Tags())
}

// TestListTasksNoDeadlock is a regression test for nested queries while rows
// are still open: with a single pooled connection that would hang.
func TestListTasksNoDeadlock(t *testing.T) {
	db := openTest(t)

	for i := 0; i < 20; i++ {
		_, err := db.Add(model.Draft{Title: "task", Tags: []string{"one", "two"}})
		require.NoError(t, err)
	}

	done := make(chan error, 1)
	go func() {
		tasks, err := db.ListTasks()
		if err == nil && len(tasks) != 20 {
			t.Errorf("expected 20 tasks, got %d", len(tasks))
		}
		done <- err
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("ListTasks timed out - possible deadlock")
	}
}

func TestGet(t *testing.T) {
	db := openTest(t)
	due := time.Date(2026, 4, 1, 17, 0, 0, 0, time.UTC)

	added, err := db.Add(model.Draft{Title: "find me", DueDate: &due, Priority: model.PriorityHigh, Tags: []string{"b", "a"}})
	require.NoError(t, err)

	got, err := db.Get(added.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "find me", got.Title)
	assert.Equal(t, model.PriorityHigh, got.Priority)
	assert.Equal(t, []string{"b", "a"}, got.Tags)
	require.NotNil(t, got.DueDate)
	assert.True(t, got.DueDate.Equal(due))

	missing, err := db.Get("nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRemoveCascadesTagLinks(t *testing.T) {
	db := openTest(t)
	task, err := db.Add(model.Draft{Title: "x", Tags: []string{"t"}})
	require.NoError(t, err)

	require.NoError(t, db.Remove(task.ID))

	var links int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM task_tags`).Scan(&links))
	assert.Equal(t, 0, links)
	assert.Equal(t, []string{"t"}, db.Tags())
}

func TestSeedIntoDatabase(t *testing.T) {
	db := openTest(t)
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Seed(db, now))
	tasks := db.Tasks()
	require.Len(t, tasks, 3)
	assert.True(t, tasks[1].Completed)
	assert.Equal(t, []string{"personal", "shopping"}, tasks[1].Tags)
	assert.Equal(t, store.DemoTags, db.Tags())

	require.NoError(t, db.Load(tasks, nil))
	assert.Len(t, db.Tasks(), 3)
}

func TestLoadNormalisesUnknownPriority(t *testing.T) {
	db := openTest(t)
	task := model.Task{ID: "t1", Title: "x", Priority: "urgent", CreatedAt: time.Now()}
	require.NoError(t, db.Load([]model.Task{task}, nil))
	require.Len(t, db.Tasks(), 1)
	assert.Equal(t, model.PriorityMedium, db.Tasks()[0].Priority)
}
