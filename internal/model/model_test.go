package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeTags(t *testing.T) {
	t.Run("appends unseen tags in order", func(t *testing.T) {
		got := MergeTags([]string{"x"}, []string{"x", "y"})
		assert.Equal(t, []string{"x", "y"}, got)
	})

	t.Run("repeated tag is not duplicated", func(t *testing.T) {
		got := MergeTags([]string{"x"}, []string{"y", "y", "x"})
		assert.Equal(t, []string{"x", "y"}, got)
	})

	t.Run("returns the same slice when nothing is new", func(t *testing.T) {
		universe := []string{"a", "b"}
		got := MergeTags(universe, []string{"b", ""})
		require.Len(t, got, 2)
		assert.Same(t, &universe[0], &got[0])
	})

	t.Run("does not modify the input universe", func(t *testing.T) {
		universe := make([]string, 1, 8)
		universe[0] = "a"
		_ = MergeTags(universe, []string{"b"})
		assert.Equal(t, []string{"a"}, universe)
		assert.Equal(t, "", universe[:2][1])
	})
}

func TestNormalizeTags(t *testing.T) {
	assert.Nil(t, NormalizeTags(nil))
	assert.Equal(t, []string{"b", "a"}, NormalizeTags([]string{"b", "", "a", "b"}))
}

func TestPriorityRankAndCycle(t *testing.T) {
	assert.Equal(t, 0, PriorityHigh.Rank())
	assert.Equal(t, 1, PriorityMedium.Rank())
	assert.Equal(t, 2, PriorityLow.Rank())
	assert.Equal(t, 1, Priority("urgent").Rank())

	assert.Equal(t, PriorityMedium, PriorityLow.Next())
	assert.Equal(t, PriorityHigh, PriorityMedium.Next())
	assert.Equal(t, PriorityLow, PriorityHigh.Next())

	assert.Equal(t, PriorityLow, PriorityLow.OrDefault())
	assert.Equal(t, PriorityMedium, Priority("").OrDefault())
	assert.Equal(t, PriorityMedium, Priority("urgent").OrDefault())

	p, ok := ParsePriority(" HI ")
	assert.True(t, ok)
	assert.Equal(t, PriorityHigh, p)
	_, ok = ParsePriority("urgent")
	assert.False(t, ok)
}

func TestParseFilterValues(t *testing.T) {
	s, err := ParseStatusFilter("done")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, s)

	_, err = ParseStatusFilter("someday")
	assert.Error(t, err)

	k, err := ParseSortKey("createdAt")
	require.NoError(t, err)
	assert.Equal(t, SortCreated, k)

	k, err = ParseSortKey("dueDate")
	require.NoError(t, err)
	assert.Equal(t, SortDueDate, k)

	_, err = ParseSortKey("title")
	assert.Error(t, err)
}

func TestFilterToggleTag(t *testing.T) {
	f := DefaultFilter()
	assert.False(t, f.IsActive())

	f = f.ToggleTag("work").ToggleTag("home")
	assert.Equal(t, []string{"work", "home"}, f.Tags)
	assert.True(t, f.IsActive())

	f = f.ToggleTag("work")
	assert.Equal(t, []string{"home"}, f.Tags)

	f = f.ToggleTag("home")
	assert.Nil(t, f.Tags)
	assert.False(t, f.IsActive())
}

func TestFilterIsValue(t *testing.T) {
	base := DefaultFilter().ToggleTag("a")
	changed := base.ToggleTag("b").WithSearch("x").WithStatus(StatusActive)

	assert.Equal(t, []string{"a"}, base.Tags)
	assert.Empty(t, base.Search)
	assert.Equal(t, StatusAll, base.Status)
	assert.Equal(t, []string{"a", "b"}, changed.Tags)

	reset := changed.WithSort(SortPriority).Reset()
	assert.Equal(t, Filter{Status: StatusAll, Sort: SortPriority}, reset)
}

func TestStatusAndSortCycle(t *testing.T) {
	assert.Equal(t, StatusActive, StatusAll.Next())
	assert.Equal(t, StatusAll, StatusCompleted.Next())
	assert.Equal(t, SortPriority, SortDueDate.Next())
	assert.Equal(t, SortDueDate, SortCreated.Next())
}

func TestIsDueOn(t *testing.T) {
	loc := time.FixedZone("test", 2*60*60)
	day := time.Date(2026, 3, 14, 15, 0, 0, 0, loc)

	at := func(d time.Time) Task { return Task{DueDate: &d} }

	assert.True(t, at(time.Date(2026, 3, 14, 0, 0, 0, 0, loc)).IsDueOn(day))
	assert.True(t, at(time.Date(2026, 3, 14, 23, 59, 59, 0, loc)).IsDueOn(day))
	assert.False(t, at(time.Date(2026, 3, 15, 0, 0, 0, 0, loc)).IsDueOn(day))
	assert.False(t, at(time.Date(2026, 3, 13, 23, 59, 59, 0, loc)).IsDueOn(day))
	assert.False(t, Task{}.IsDueOn(day))
}

func TestCloneIsDeep(t *testing.T) {
	due := time.Now()
	orig := Task{ID: "1", DueDate: &due, Tags: []string{"a"}}
	c := orig.Clone()
	c.Tags[0] = "b"
	*c.DueDate = due.Add(time.Hour)

	assert.Equal(t, "a", orig.Tags[0])
	assert.True(t, orig.DueDate.Equal(due))
}
