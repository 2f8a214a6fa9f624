// Package cli implements the plantcare command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/plantcare/internal/paths"
	"github.com/mesh-intelligence/plantcare/pkg/sqlite"
	"github.com/mesh-intelligence/plantcare/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// app carries the flag values, loaded settings and the open store for one
// command invocation.
type app struct {
	configDirFlag string
	dataDirFlag   string
	jsonOut       bool
	quiet         bool

	configDir string
	dataDir   string
	settings  settings
	logger    *log.Logger
	store     sqlite.Backend
	now       func() time.Time
}

// NewRootCmd creates the top-level "plantcare" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{now: time.Now}

	root := &cobra.Command{
		Use:   "plantcare",
		Short: "Keep track of your houseplants",
		Long: "plantcare records plants, waterings, photo moments, goals and notes\n" +
			"in a local SQLite database and tells you what needs watering.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown()
		},
	}

	root.PersistentFlags().StringVar(&a.configDirFlag, "config-dir", "", "configuration directory (env "+paths.EnvConfigDir+")")
	root.PersistentFlags().StringVar(&a.dataDirFlag, "data-dir", "", "data directory (env "+paths.EnvDataDir+")")
	root.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "output as JSON")
	root.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "suppress store logging")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(a),
		newPlantCmd(a),
		newWaterCmd(a),
		newHistoryCmd(a),
		newMomentCmd(a),
		newGoalCmd(a),
		newNoteCmd(a),
		newDueCmd(a),
		newTimelineCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newSyncCmd(a),
	)
	return root
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	c, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := NewRootCmd()
	if err := root.ExecuteContext(c); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
		return exitCode(err)
	}
	return exitSuccess
}

// storeless names commands that run without config or a database: the
// version and help commands and the shell completion commands cobra adds.
var storeless = map[string]bool{
	"version":                       true,
	"help":                          true,
	"completion":                    true,
	cobra.ShellCompRequestCmd:       true,
	cobra.ShellCompNoDescRequestCmd: true,
}

// needsStore reports whether cmd or any of its parents is storeless.
func needsStore(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if storeless[c.Name()] {
			return false
		}
	}
	return true
}

// setup resolves directories, loads config.yaml and opens the store, unless
// the command needs none of it.
func (a *app) setup(cmd *cobra.Command) error {
	if !needsStore(cmd) {
		return nil
	}

	configDir, err := paths.ResolveConfigDir(a.configDirFlag)
	if err != nil {
		return sysError(fmt.Errorf("resolving config dir: %w", err))
	}
	s, err := loadSettings(configDir)
	if err != nil {
		return sysError(err)
	}
	dataDir, err := paths.ResolveDataDir(a.dataDirFlag, s.DataDir)
	if err != nil {
		return sysError(fmt.Errorf("resolving data dir: %w", err))
	}
	a.configDir, a.dataDir, a.settings = configDir, dataDir, s

	var out io.Writer = cmd.ErrOrStderr()
	if a.quiet || s.Quiet {
		out = io.Discard
	}
	a.logger = log.New(out, "[sqlite] ", log.LstdFlags)

	a.store = sqlite.NewBackend(types.Config{
		Backend: s.Backend,
		DataDir: dataDir,
		DBName:  s.DBName,
	}, sqlite.WithLogger(a.logger), sqlite.WithClock(a.now))

	if err := a.store.Initialize(ctx(cmd)); err != nil {
		return sysError(err)
	}
	return nil
}

func (a *app) teardown() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

// ctx returns the command's context, or a background context when the
// command runs outside Execute.
func ctx(cmd *cobra.Command) context.Context {
	if c := cmd.Context(); c != nil {
		return c
	}
	return context.Background()
}

// cliError attaches an exit code to an error.
type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string { return e.err.Error() }
func (e *cliError) Unwrap() error { return e.err }

func userError(err error) error { return &cliError{code: exitUserError, err: err} }
func sysError(err error) error  { return &cliError{code: exitSysError, err: err} }

// exitCode maps an error to the process exit code. Storage failures are
// system errors; anything unclassified, such as a bad flag, is a user error.
func exitCode(err error) int {
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	switch {
	case errors.Is(err, types.ErrStorageUnavailable),
		errors.Is(err, types.ErrWriteFailed),
		errors.Is(err, types.ErrReadDegraded):
		return exitSysError
	}
	return exitUserError
}
