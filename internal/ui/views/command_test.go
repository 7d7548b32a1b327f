package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dori/ticklist/internal/model"
	"github.com/dori/ticklist/internal/store"
)

// runCommand opens the palette, types line and presses enter
func runCommand(v ListView, line string) ListView {
	v, _ = press(v, ":", line, "enter")
	return v
}

func TestMatchCommands(t *testing.T) {
	names := func(defs []CommandDef) []string {
		out := make([]string, len(defs))
		for i, d := range defs {
			out[i] = d.Name
		}
		return out
	}

	assert.Equal(t, []string{"search", "status", "sort"}, names(matchCommands("s")))
	assert.Equal(t, []string{"delete"}, names(matchCommands("rm")))
	assert.Equal(t, []string{"priority"}, names(matchCommands("pri")))
	assert.Len(t, matchCommands(""), len(allCommands))
	assert.Empty(t, matchCommands("zzz"))
}

func TestCommandSuggestionsNarrowWhileTyping(t *testing.T) {
	v := NewListView(demoStore(t), model.DefaultFilter(), clock)

	v, _ = press(v, ":")
	assert.Len(t, v.cmdSuggestions, len(allCommands))

	v, _ = press(v, "so")
	require.Len(t, v.cmdSuggestions, 1)
	assert.Equal(t, "sort", v.cmdSuggestions[0].Name)

	// Tab completes, leaving room for arguments
	v, _ = press(v, "tab")
	assert.Equal(t, "sort ", v.input.Value())
	assert.Empty(t, v.cmdSuggestions)

	v, _ = press(v, "created", "enter")
	assert.Equal(t, ListModeNormal, v.Mode())
	assert.Equal(t, model.SortCreated, v.Filter().Sort)
}

func TestCommandEnterUsesSelectedSuggestion(t *testing.T) {
	v := NewListView(demoStore(t), model.DefaultFilter(), clock)

	// "st" matches status only; with no argument it cycles
	v, _ = press(v, ":", "st", "enter")
	assert.Equal(t, model.StatusActive, v.Filter().Status)
}

func TestCommandEnterOnEmptyLineDoesNothing(t *testing.T) {
	s := demoStore(t)
	v := NewListView(s, model.DefaultFilter(), clock)
	before := s.Revision()

	v, cmd := press(v, ":", "enter")
	assert.Nil(t, cmd)
	assert.Equal(t, ListModeNormal, v.Mode())
	assert.Equal(t, before, s.Revision())

	// A suggestion the user moved to still runs: down from "add" is "due"
	v, _ = press(v, ":", "down")
	require.True(t, v.cmdCursorMoved)
	assert.Equal(t, "due", v.cmdSuggestions[v.cmdCursor].Name)
	v, cmd = press(v, "enter")
	require.NotNil(t, cmd)
	msg, ok := cmd().(ErrorMsg)
	require.True(t, ok)
	assert.Contains(t, msg.Err.Error(), "usage")
}

func TestFilterCommands(t *testing.T) {
	v := NewListView(demoStore(t), model.DefaultFilter(), clock)

	v = runCommand(v, "sort priority")
	assert.Equal(t, model.SortPriority, v.Filter().Sort)

	v = runCommand(v, "status done")
	assert.Equal(t, model.StatusCompleted, v.Filter().Status)

	v = runCommand(v, "clear")
	assert.False(t, v.Filter().IsActive())

	v = runCommand(v, "tag @work health")
	assert.Equal(t, []string{"work", "health"}, v.Filter().Tags)

	v = runCommand(v, "tag work")
	assert.Equal(t, []string{"health"}, v.Filter().Tags)

	v = runCommand(v, "search proposal draft")
	assert.Equal(t, "proposal draft", v.Filter().Search)
}

func TestTaskCommands(t *testing.T) {
	s := store.NewMemory(store.WithClock(clock))
	_, err := s.Add(model.Draft{Title: "target", Priority: model.PriorityMedium})
	require.NoError(t, err)
	v := NewListView(s, model.DefaultFilter(), clock)

	v, cmd := press(v, ":", "priority high", "enter")
	v = settle(t, v, cmd)
	assert.Equal(t, model.PriorityHigh, s.Tasks()[0].Priority)

	v, cmd = press(v, ":", "due friday", "enter")
	v = settle(t, v, cmd)
	require.NotNil(t, s.Tasks()[0].DueDate)
	assert.Equal(t, 13, s.Tasks()[0].DueDate.Day())

	v, cmd = press(v, ":", "due none", "enter")
	v = settle(t, v, cmd)
	assert.Nil(t, s.Tasks()[0].DueDate)

	v, cmd = press(v, ":", "done", "enter")
	v = settle(t, v, cmd)
	assert.True(t, s.Tasks()[0].Completed)

	v, cmd = press(v, ":", "add Buy milk @shopping !low", "enter")
	v = settle(t, v, cmd)
	milk, ok := findTask(s.Tasks(), "Buy milk")
	require.True(t, ok)
	assert.Equal(t, model.PriorityLow, milk.Priority)

	keys := append([]string{":"}, typed("delete")...)
	v, _ = press(v, keys...)
	require.Equal(t, "delete", v.input.Value())
	v, cmd = press(v, "enter")
	assert.Nil(t, cmd)
	assert.Equal(t, ListModeConfirmDelete, v.Mode())

	v, _ = press(v, "n")
	assert.Equal(t, ListModeNormal, v.Mode())

	// Aliases reach the same confirmation
	v, _ = press(v, ":", "rm", "enter")
	assert.Equal(t, ListModeConfirmDelete, v.Mode())
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"bogus", `unknown command "bogus"`},
		{"priority urgent", `unknown priority "urgent"`},
		{"due someday", `unrecognised due date "someday"`},
		{"sort alphabetical", "unknown sort key"},
		{"theme dracula", `unknown theme "dracula"`},
		{"add @tagonly", "title is required"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			v := NewListView(demoStore(t), model.DefaultFilter(), clock)
			_, cmd := press(v, ":", tt.line, "enter")
			require.NotNil(t, cmd)
			msg, ok := cmd().(ErrorMsg)
			require.True(t, ok)
			assert.Contains(t, msg.Err.Error(), tt.want)
		})
	}
}

func TestCommandOnEmptyListNeedsTask(t *testing.T) {
	v := NewListView(store.NewMemory(), model.DefaultFilter(), clock)
	_, cmd := press(v, ":", "done", "enter")
	require.NotNil(t, cmd)
	msg, ok := cmd().(ErrorMsg)
	require.True(t, ok)
	assert.ErrorIs(t, msg.Err, errNoTask)
}

func TestRootRequests(t *testing.T) {
	v := NewListView(demoStore(t), model.DefaultFilter(), clock)

	_, cmd := press(v, ":", "theme latte", "enter")
	require.NotNil(t, cmd)
	assert.Equal(t, ThemeRequest{Name: "latte"}, cmd())

	_, cmd = press(v, ":", "theme", "enter")
	require.NotNil(t, cmd)
	assert.Equal(t, ThemeRequest{}, cmd())

	_, cmd = press(v, ":", "help", "enter")
	require.NotNil(t, cmd)
	assert.Equal(t, HelpRequest{}, cmd())
}
