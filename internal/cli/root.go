// Package cli wires configuration, storage and the screen behind the suru
// command.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idilsaglam/suru/internal/entries"
	"github.com/idilsaglam/suru/internal/paths"
	"github.com/idilsaglam/suru/internal/ui"
)

// Version is set at build time with -ldflags.
var Version = "0.1.0"

// Exit codes: 0 ok, 1 error, 2 usage.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usageErrorf(format string, a ...any) error {
	return usageError{msg: fmt.Sprintf(format, a...)}
}

type rootFlags struct {
	configDir string
	dataDir   string
	backend   string
	theme     string
	debug     bool
}

// app carries per-invocation state from PersistentPreRunE to the
// subcommands.
type app struct {
	flags   rootFlags
	cfg     *viper.Viper
	dataDir string
	ctrl    *entries.Controller
	close   func() error
}

// Run executes the command line and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(context.Background())
	if err == nil {
		return exitOK
	}
	ui.Fail(stderr, err.Error())
	var ue usageError
	if errors.As(err, &ue) || strings.HasPrefix(err.Error(), "unknown command") {
		fmt.Fprintln(stderr, ui.Current().Muted.Render("Run `suru --help` for usage."))
		return exitUsage
	}
	return exitError
}

// NewRootCmd builds the suru command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "suru",
		Short: "A one-screen list of notes",
		Long: `suru keeps a single list of short notes. Run it without arguments
to open the screen: type, press enter, and the entry is saved.`,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.close != nil {
				return a.close()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runScreen(cmd)
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{msg: err.Error()}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: platform data dir)")
	pf.StringVar(&a.flags.backend, "backend", "", "storage backend: json, sqlite or memory")
	pf.StringVar(&a.flags.theme, "theme", "", "color theme: classic, neon or mono")
	pf.BoolVar(&a.flags.debug, "debug", false, "write a debug log to the data directory")

	root.AddCommand(newUICmd(a))
	root.AddCommand(newAddCmd(a))
	root.AddCommand(newListCmd(a))
	root.AddCommand(newStatusCmd(a))
	root.AddCommand(newVersionCmd())
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	cfg, err := loadConfig(configDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.flags.backend != "" {
		cfg.Set(cfgKeyBackend, a.flags.backend)
	}
	if a.flags.theme != "" {
		cfg.Set(cfgKeyTheme, a.flags.theme)
	}
	a.cfg = cfg
	ui.SetTheme(cfg.GetString(cfgKeyTheme))

	a.dataDir, err = paths.ResolveDataDir(a.flags.dataDir, cfg.GetString(cfgKeyDataDir))
	if err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}

	kv, closeFn, err := openStore(cfg.GetString(cfgKeyBackend), a.dataDir)
	if err != nil {
		return err
	}
	a.close = closeFn
	a.ctrl = entries.New(kv)
	return nil
}

func (a *app) debugLogPath() string {
	if !a.flags.debug {
		return ""
	}
	return filepath.Join(a.dataDir, "suru-debug.log")
}
