package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/dori/ticklist/internal/app"
	"github.com/dori/ticklist/internal/model"
	"github.com/dori/ticklist/internal/query"
	"github.com/dori/ticklist/internal/quickadd"
	"github.com/dori/ticklist/internal/stats"
)

type listFlags struct {
	add    []string
	search string
	tags   []string
}

func newListCmd(global *globalFlags) *cobra.Command {
	var flags listFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the task list without starting the UI",
		Long: `Print the visible tasks and the summary line.

Each --add is parsed with the quick add syntax and added before the list is
printed. Nothing is kept after the command exits.`,
		Example: `  ticklist list --status active --sort priority
  ticklist list --no-demo --add "Pay rent @home !high due:friday" --add "Walk the dog"
  ticklist list --tag work --tag home --search report`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, *global)
			if err != nil {
				return err
			}

			// No instance lock: the store lives and dies with this process
			application, err := app.New(cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize: %w", err)
			}
			defer application.Close()

			return runList(cmd.OutOrStdout(), application, cfg.Filter(), flags)
		},
	}

	cmd.Flags().StringArrayVarP(&flags.add, "add", "a", nil, "quick add a task before listing (repeatable)")
	cmd.Flags().StringVar(&flags.search, "search", "", "only show tasks whose title or description contains text")
	cmd.Flags().StringSliceVarP(&flags.tags, "tag", "t", nil, "only show tasks with any of these tags (repeatable)")

	return cmd
}

func runList(out io.Writer, a *app.App, filter model.Filter, flags listFlags) error {
	now := a.Now()

	for _, text := range flags.add {
		draft := quickadd.Parse(text, now)
		if draft.Title == "" {
			return fmt.Errorf("cannot add %q: title is required", text)
		}
		if _, err := a.Store.Add(draft); err != nil {
			return fmt.Errorf("failed to add task: %w", err)
		}
	}

	if flags.search != "" {
		filter = filter.WithSearch(flags.search)
	}
	if len(flags.tags) > 0 {
		filter = filter.WithTags(stripTagPrefix(flags.tags))
	}

	all := a.Store.Tasks()
	visible := query.Visible(all, filter)

	if filter.IsActive() {
		fmt.Fprintln(out, filter.Describe())
	}
	if len(visible) == 0 {
		fmt.Fprintln(out, "No tasks.")
	} else {
		fmt.Fprintln(out, renderTable(visible, now))
	}
	fmt.Fprintln(out, stats.Summarize(all, visible, now).String())
	return nil
}

func renderTable(tasks []model.Task, now time.Time) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		done := "[ ]"
		if t.Completed {
			done = "[x]"
		}
		due := ""
		if t.DueDate != nil {
			due = quickadd.FormatDate(*t.DueDate, now)
			if t.IsOverdue(now) {
				due += " (overdue)"
			}
		}
		tags := make([]string, len(t.Tags))
		for i, tag := range t.Tags {
			tags[i] = model.DisplayTag(tag)
		}
		rows = append(rows, []string{done, string(t.Priority), t.Title, strings.Join(tags, " "), due})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("", "PRIORITY", "TITLE", "TAGS", "DUE").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		String()
}

func stripTagPrefix(tags []string) []string {
	out := make([]string, len(tags))
	for i, tag := range tags {
		out[i] = strings.TrimPrefix(strings.TrimSpace(tag), "@")
	}
	return out
}
