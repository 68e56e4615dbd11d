// Package cli implements the songbird command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/songbird/internal/export"
	"github.com/mesh-intelligence/songbird/internal/logger"
	"github.com/mesh-intelligence/songbird/internal/paths"
	"github.com/mesh-intelligence/songbird/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dbPath    string
	jsonMode  bool
	logMode   string
}

// app is the state shared by the commands of one root command.
type app struct {
	flags     rootFlags
	configDir string
	v         *viper.Viper
	log       *logger.Logger
}

// NewRootCmd creates the top-level "songbird" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{log: logger.Nop()}

	root := &cobra.Command{
		Use:   "songbird",
		Short: "Read tracks and playlists from a Songbird library",
		Long: "songbird reads a Songbird media player library database read-only\n" +
			"and lists its tracks and playlists or exports the playlists as M3U files.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.log.Sync()
		},
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: $XDG_CONFIG_HOME/songbird)")
	root.PersistentFlags().StringVar(&a.flags.dbPath, "db", "", "library database (default: discovered Songbird profile)")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().StringVar(&a.flags.logMode, "log-mode", "", "log mode: dev or prod")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newConfigCmd(a))
	root.AddCommand(newTracksCmd(a))
	root.AddCommand(newPlaylistsCmd(a))
	root.AddCommand(newExportCmd(a))

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

// setup resolves the config directory, loads the configuration and builds
// the logger. The version command needs none of it.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return userError(fmt.Errorf("resolve config dir: %w", err))
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return userError(err)
	}

	mode := v.GetString(cfgKeyLogMode)
	if a.flags.logMode != "" {
		mode = a.flags.logMode
	}
	log, err := logger.New(mode, v.GetString(cfgKeyLogLevel))
	if err != nil {
		return userError(err)
	}

	a.configDir = configDir
	a.v = v
	a.log = log
	return nil
}

// exitErr carries the process exit code for an error.
type exitErr struct {
	code int
	err  error
}

func (e *exitErr) Error() string { return e.err.Error() }
func (e *exitErr) Unwrap() error { return e.err }

func userError(err error) error {
	return &exitErr{code: exitUserError, err: err}
}

func sysError(err error) error {
	return &exitErr{code: exitSysError, err: err}
}

// classify tags err with its exit code. Problems the user can fix by
// changing flags, config or paths are user errors; failures reading the
// library are system errors.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var ee *exitErr
	switch {
	case errors.As(err, &ee):
		return err
	case errors.Is(err, paths.ErrDBNotFound),
		errors.Is(err, types.ErrDBPathEmpty),
		errors.Is(err, types.ErrInvalidTimeout),
		errors.Is(err, export.ErrNoDir),
		errors.Is(err, fs.ErrNotExist):
		return userError(err)
	default:
		return sysError(err)
	}
}

// exitCode returns the exit code for an error returned by the root command.
// Untagged errors come from cobra (unknown command, bad flag) and count as
// user errors.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitErr
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}
