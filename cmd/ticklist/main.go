package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dori/ticklist/internal/app"
	"github.com/dori/ticklist/internal/config"
	"github.com/dori/ticklist/internal/store"
	"github.com/dori/ticklist/internal/ui"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// globalFlags are the settings flags shared by every subcommand. They
// override the config file and environment.
type globalFlags struct {
	configPath string
	theme      string
	backend    string
	status     string
	sort       string
	noDemo     bool
	notify     bool
	debug      bool
}

func newRootCmd() *cobra.Command {
	var flags globalFlags

	rootCmd := &cobra.Command{
		Use:   "ticklist",
		Short: "ticklist - a keyboard driven todo list for the terminal",
		Long: `ticklist keeps a list of tasks with priorities, due dates and tags.

Run without a subcommand to start the terminal UI.

Quick add syntax (TUI 'a' key, or 'ticklist list --add'):
  Pay rent @home !high due:friday

  Tags:      @tag
  Priority:  !low !medium !high (or !l !m !h)
  Due date:  due:today due:tomorrow due:friday due:2026-01-15`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			return runTUI(cfg)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/ticklist/config.toml)")
	pf.StringVar(&flags.theme, "theme", "", "theme (nord, latte)")
	pf.StringVar(&flags.backend, "backend", "", "task store (memory, sqlite)")
	pf.StringVar(&flags.status, "status", "", "initial status filter (all, active, completed)")
	pf.StringVar(&flags.sort, "sort", "", "initial sort order (due, priority, created)")
	pf.BoolVar(&flags.noDemo, "no-demo", false, "start with an empty list instead of the demo tasks")
	pf.BoolVar(&flags.notify, "notify", false, "send a desktop notification for tasks due today")
	pf.BoolVar(&flags.debug, "debug", false, "write debug logs to the state directory")

	rootCmd.AddCommand(newListCmd(&flags))
	rootCmd.AddCommand(newConfigCmd(&flags))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// loadConfig layers flags the user actually set over the loaded config
func loadConfig(cmd *cobra.Command, flags globalFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("theme") {
		cfg.Theme = flags.theme
	}
	if changed("backend") {
		cfg.Backend = flags.backend
	}
	if changed("status") {
		cfg.Status = flags.status
	}
	if changed("sort") {
		cfg.Sort = flags.sort
	}
	if changed("no-demo") {
		cfg.Demo = !flags.noDemo
	}
	if changed("notify") {
		cfg.Notifications = flags.notify
	}
	if changed("debug") {
		cfg.Debug = flags.debug
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runTUI(cfg *config.Config) error {
	application, err := app.New(cfg, app.WithLock())
	if err != nil {
		if errors.Is(err, app.ErrAlreadyRunning) {
			return fmt.Errorf("%w (lock file in %s)", err, cfg.StateDir)
		}
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer application.Close()

	p := tea.NewProgram(ui.NewRootModel(application), tea.WithAltScreen())

	// Mutations run inside commands; Send must not block the store
	if sub, ok := application.Store.(store.Subscriber); ok {
		sub.Subscribe(func(rev uint64) {
			go p.Send(ui.StoreChangedMsg{Revision: rev})
		})
	}
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ticklist v%s\n", version)
		},
	}
}

func newConfigCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Long: `Print the configuration after layering defaults, the config file,
TICKLIST_* environment variables and flags. The output is a valid config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, *flags)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if cfg.Path != "" {
				fmt.Fprintf(out, "# loaded from %s\n", cfg.Path)
			}
			return cfg.WriteTOML(out)
		},
	}
}
