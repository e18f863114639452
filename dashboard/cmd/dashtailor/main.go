package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/bryantinsley/dashtailor/dashboard/pkg/layout"
	"github.com/bryantinsley/dashtailor/dashboard/pkg/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose     bool
	storageFlag string

	// Root flags
	profileFlag string
	headless    bool
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "dashtailor",
		Short: "Customize role dashboards by chatting with an assistant",
		Long: `dashtailor shows the dashboard for a profile (student, teacher, ats or
doctoral) as a grid of cards next to an assistant chat. Ask it to
"show layout", "add [card]", "remove [card]" or "swap [card1] and [card2]".

Run without arguments to pick a profile interactively.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// A missing .env is fine.
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("load .env: %w", err)
			}
			return nil
		},
		RunE: runRoot,
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Mirror logs to stderr")
	root.PersistentFlags().StringVar(&storageFlag, "storage", "", "Override the storage backend (file, sqlite, memory, s3)")
	root.Flags().StringVarP(&profileFlag, "profile", "p", "", "Open this profile's dashboard directly")
	root.Flags().BoolVar(&headless, "headless", false, "Chat on stdin/stdout without the TUI (requires --profile)")

	root.AddCommand(newExecCmd(), newLayoutCmd(), newInitCmd())
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func runRoot(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if headless {
		if profileFlag == "" {
			return errors.New("--headless needs --profile")
		}
		a, err := newApp(ctx, false)
		if err != nil {
			return err
		}
		defer a.close()
		s, err := a.session(profileFlag)
		if err != nil {
			return err
		}
		return runHeadless(ctx, s, cmd.InOrStdin(), cmd.OutOrStdout())
	}

	var profile layout.Profile
	if profileFlag != "" {
		p, err := layout.ParseProfile(profileFlag)
		if err != nil {
			return err
		}
		profile = p
	}

	a, err := newApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.close()

	m := tui.New(tui.Options{
		Store:     a.store,
		Notifier:  a.notifier,
		Assistant: a.assistant,
		Logger:    a.log,
		Columns:   a.cfg.Grid.Columns,
		Profile:   profile,
	})
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
