package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"shipmate/internal/app"
	"shipmate/internal/ops"
	"shipmate/internal/tui"
)

const version = "1.0.0"

// pollInterval paces the headless event drain.
const pollInterval = 50 * time.Millisecond

func loadApplication() (*app.Application, error) {
	cfg, err := app.LoadConfig(app.DefaultConfigPath())
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return app.New(cfg, wd)
}

// runHeadless starts one operation and follows its event stream on the
// terminal: progress to stderr, the final result to stdout. Ctrl+C requests
// cooperative cancellation instead of killing the process outright.
func runHeadless(a *app.Application, progress io.Writer, out io.Writer, start func() (ops.OperationID, error)) error {
	sub := a.Dispatcher.Subscribe()
	defer a.Dispatcher.Unsubscribe(sub)

	id, err := start()
	if err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		a.Dispatcher.Cancel(id)
	}()

	for {
		ev, ok := sub.TryNext()
		if !ok {
			time.Sleep(pollInterval)
			continue
		}
		if ev.ID != id {
			continue
		}
		switch ev.Type {
		case ops.EventProgress:
			fmt.Fprintf(progress, "-> %s\n", ev.Text)
		case ops.EventCompleted:
			fmt.Fprintln(out, ev.Result)
			return nil
		case ops.EventFailed:
			return errors.New(ev.Err)
		case ops.EventCancelled:
			return errors.New("operation cancelled")
		}
	}
}

func headlessCommand(use, short string, start func(a *app.Application) (ops.OperationID, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApplication()
			if err != nil {
				return err
			}
			return runHeadless(a, os.Stderr, os.Stdout, func() (ops.OperationID, error) {
				return start(a)
			})
		},
	}
}

func main() {
	root := &cobra.Command{
		Use:     "shipmate",
		Short:   "Release assistant for git repositories",
		Long:    "shipmate analyzes pending changes, drafts commit messages and release notes with Gemini, runs semantic releases and searches Jira and Monday boards.\n\nWithout arguments it opens the interactive TUI; the subcommands run one operation headlessly.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApplication()
			if err != nil {
				return err
			}
			p := tea.NewProgram(tui.NewMainModel(a), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}

	root.AddCommand(headlessCommand("analyze", "Analyze the pending work-tree changes",
		func(a *app.Application) (ops.OperationID, error) { return a.StartAnalysis() }))
	root.AddCommand(headlessCommand("commit-message", "Draft a conventional commit message for the pending changes",
		func(a *app.Application) (ops.OperationID, error) { return a.StartCommitMessage() }))
	root.AddCommand(headlessCommand("notes", "Generate release notes for the commits since the last tag",
		func(a *app.Application) (ops.OperationID, error) { return a.StartReleaseNotes() }))

	var dryRun bool
	releaseCmd := &cobra.Command{
		Use:   "release",
		Short: "Run a semantic release: changelog, commit and tag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApplication()
			if err != nil {
				return err
			}
			return runHeadless(a, os.Stderr, os.Stdout, func() (ops.OperationID, error) {
				return a.StartSemanticRelease(dryRun)
			})
		},
	}
	releaseCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Compute the next version without touching the repository")
	root.AddCommand(releaseCmd)

	tasksCmd := &cobra.Command{
		Use:   "tasks [query]",
		Short: "Search the configured issue trackers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApplication()
			if err != nil {
				return err
			}
			return runHeadless(a, os.Stderr, os.Stdout, func() (ops.OperationID, error) {
				return a.StartTaskSearch(args[0])
			})
		},
	}
	root.AddCommand(tasksCmd)

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("shipmate v%s\n", version)
		},
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
