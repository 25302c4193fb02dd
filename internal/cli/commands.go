package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/suru/internal/entries"
	"github.com/idilsaglam/suru/internal/model"
	"github.com/idilsaglam/suru/internal/tui"
	"github.com/idilsaglam/suru/internal/ui"
)

func newUICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive screen (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runScreen(cmd)
		},
	}
}

func (a *app) runScreen(cmd *cobra.Command) error {
	logPath := a.debugLogPath()
	if logPath != "" {
		if err := os.MkdirAll(a.dataDir, 0o755); err != nil {
			return fmt.Errorf("mkdir: %w", err)
		}
	}
	err := tui.Run(cmd.Context(), a.ctrl, tui.Options{
		RefreshOnAppend: a.cfg.GetBool(cfgKeyRefreshOnAppend),
		Atomic:          a.cfg.GetBool(cfgKeyAtomicAppend),
		DebugLog:        logPath,
	})
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

func newAddCmd(a *app) *cobra.Command {
	var atomic bool
	cmd := &cobra.Command{
		Use:   "add <text...>",
		Short: "Append an entry (words are joined with spaces)",
		Example: `  suru add buy milk
  suru add "walk dog"`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return usageErrorf("usage: suru add <text...>")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			useAtomic := atomic || a.cfg.GetBool(cfgKeyAtomicAppend)

			var (
				env model.Envelope
				err error
			)
			if useAtomic {
				env, err = a.ctrl.AppendAtomic(cmd.Context(), text)
			} else {
				env, err = a.ctrl.Append(cmd.Context(), text)
			}
			if errors.Is(err, entries.ErrNotVersioned) {
				return fmt.Errorf("add: backend %q cannot do atomic appends", a.cfg.GetString(cfgKeyBackend))
			}
			if err != nil {
				return fmt.Errorf("add: %w", err)
			}
			ui.OK(cmd.OutOrStdout(), fmt.Sprintf("added (%d items)", env.Len()))
			return nil
		},
	}
	cmd.Flags().BoolVar(&atomic, "atomic", false, "use a compare-and-swap write")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "Print the stored entries",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env := a.ctrl.Load(cmd.Context())
			if asJSON {
				raw, err := entries.Encode(env)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), raw)
				return nil
			}
			ui.Panel(cmd.OutOrStdout(), listLines(env))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the stored envelope as JSON")
	return cmd
}

func listLines(env model.Envelope) []string {
	t := ui.Current()
	lines := []string{
		fmt.Sprintf("%s   %s %d", t.Logo.Render("suru"), t.Accent.Render("Total"), env.Len()),
		"",
	}
	if env.Len() == 0 {
		lines = append(lines, t.Muted.Render("nothing yet"))
	}
	for _, it := range env.Items {
		stamp := time.UnixMilli(it.DateCreated).Local().Format("2006-01-02 15:04")
		lines = append(lines, fmt.Sprintf("%s %s  %s", t.Muted.Render(t.SymItem), it.Text, t.Muted.Render(stamp)))
	}
	lines = append(lines, "", t.Muted.Render("Tip: add with `suru add buy milk`"))
	return lines
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show where entries are stored and whether they load",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, status, cause := a.ctrl.Inspect(cmd.Context())
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "backend:    %s\n", a.cfg.GetString(cfgKeyBackend))
			fmt.Fprintf(out, "data dir:   %s\n", a.dataDir)
			fmt.Fprintf(out, "key:        %s\n", a.ctrl.Key())
			fmt.Fprintf(out, "status:     %s\n", status)
			if cause != nil {
				fmt.Fprintf(out, "cause:      %v\n", cause)
			}
			fmt.Fprintf(out, "items:      %d\n", env.Len())
			if c := env.Collisions(); len(c) > 0 {
				fmt.Fprintf(out, "collisions: %v\n", c)
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "suru v"+Version)
		},
	}
}
