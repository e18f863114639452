package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bryantinsley/dashtailor/dashboard/pkg/command"
	"github.com/bryantinsley/dashtailor/dashboard/pkg/config"
	"github.com/bryantinsley/dashtailor/dashboard/pkg/layout"
	"github.com/bryantinsley/dashtailor/dashboard/pkg/session"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var exportFormat string

func newExecCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exec <profile> <message...>",
		Short: "Send one chat message to a profile's assistant",
		Example: `  dashtailor exec student add Resume Builder
  dashtailor exec teacher "swap Gradebook and My Classes"`,
		Args: cobra.MinimumNArgs(2),
		RunE: runExec,
	}
}

func runExec(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.close()

	s, err := a.session(args[0])
	if err != nil {
		return err
	}

	reply, err := s.Handle(ctx, strings.Join(args[1:], " "))
	if reply.Text != "" {
		fmt.Fprintln(cmd.OutOrStdout(), reply.Text)
	}
	return err
}

func newLayoutCmd() *cobra.Command {
	layoutCmd := &cobra.Command{
		Use:   "layout",
		Short: "Inspect or change a stored layout directly",
	}

	showCmd := &cobra.Command{
		Use:   "show <profile>",
		Short: "Print the visible cards of a profile",
		Args:  cobra.ExactArgs(1),
		RunE:  runLayoutShow,
	}
	exportCmd := &cobra.Command{
		Use:   "export <profile>",
		Short: "Write the full layout, including deleted cards",
		Args:  cobra.ExactArgs(1),
		RunE:  runLayoutExport,
	}
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "yaml", "Output format: yaml or json")

	importCmd := &cobra.Command{
		Use:   "import <profile> <file>",
		Short: "Replace a layout with one previously exported (yaml or json)",
		Args:  cobra.ExactArgs(2),
		RunE:  runLayoutImport,
	}
	resetCmd := &cobra.Command{
		Use:   "reset <profile>",
		Short: "Restore a profile's default cards",
		Args:  cobra.ExactArgs(1),
		RunE:  runLayoutReset,
	}

	layoutCmd.AddCommand(showCmd, exportCmd, importCmd, resetCmd)
	return layoutCmd
}

func runLayoutShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.close()

	s, err := a.session(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), command.Describe(s.Layout(ctx), s.Profile()))
	return nil
}

func runLayoutExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.close()

	p, err := layout.ParseProfile(args[0])
	if err != nil {
		return err
	}
	l := a.store.Get(ctx, p)

	out := cmd.OutOrStdout()
	switch exportFormat {
	case "yaml", "yml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(l); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(l)
	default:
		return fmt.Errorf("unknown format %q (want yaml or json)", exportFormat)
	}
}

func runLayoutImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	p, err := layout.ParseProfile(args[0])
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("read layout: %w", err)
	}
	// YAML is a superset of JSON, so one decoder covers both exports.
	var l layout.Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return fmt.Errorf("parse layout: %w", err)
	}
	l.Normalize()

	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.store.Set(ctx, p, l); err != nil {
		return err
	}
	if err := a.notifier.Broadcast(ctx, p, l); err != nil {
		a.log.Warn("broadcasting imported layout", zap.Error(err))
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d cards into the %s dashboard.\n", len(l.Cards), p)
	return nil
}

func runLayoutReset(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.close()

	s, err := a.session(args[0])
	if err != nil {
		return err
	}
	if _, err := s.Reset(ctx); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Restored the default %s dashboard.\n", s.Profile())
	return nil
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a config template and the default layouts",
		Args:  cobra.NoArgs,
		RunE:  runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	path, err := config.EnsureTemplate()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Config: %s\n", path)

	// newApp seeds any profile without a stored layout.
	a, err := newApp(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer a.close()

	fmt.Fprintf(cmd.OutOrStdout(), "Layouts: %s (%s)\n", a.cfg.StoragePath(), a.cfg.Storage.Backend)
	return nil
}

// runHeadless is a line-oriented chat: one message per line, "exit" or EOF
// ends it.
func runHeadless(ctx context.Context, s *session.Session, in io.Reader, out io.Writer) error {
	persona := s.Persona()
	fmt.Fprintf(out, "%s %s\n", persona.Icon, persona.Greeting())

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "exit", "quit":
			return nil
		}

		reply, err := s.Handle(ctx, line)
		if reply.Ignored {
			continue
		}
		if reply.Text != "" {
			fmt.Fprintf(out, "%s %s\n", persona.Icon, reply.Text)
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintf(out, "⚠ %v\n", err)
		}
	}
}
