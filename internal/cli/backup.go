package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/plantcare/internal/paths"
	"github.com/mesh-intelligence/plantcare/internal/remote"
)

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export [dir]",
		Short: "Write every table to JSONL files",
		Long:  "Export writes one JSONL file per table to dir (default <data-dir>/backup).",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := paths.BackupDir(a.dataDir)
			if len(args) == 1 {
				dir = args[0]
			}
			if err := a.store.Export(ctx(cmd), dir); err != nil {
				return sysError(err)
			}
			if a.jsonOut {
				return a.printJSON(cmd, map[string]string{"exported": dir})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", dir)
			return nil
		},
	}
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <dir>",
		Short: "Load JSONL files written by export",
		Long: "Import loads a directory written by export. Records replace existing\n" +
			"records with the same id; malformed lines are skipped.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := a.store.Import(ctx(cmd), args[0])
			if err != nil {
				return sysError(err)
			}
			if a.jsonOut {
				return a.printJSON(cmd, map[string]int{"imported": n})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d record(s)\n", n)
			return nil
		},
	}
}

// syncer returns the configured sync target: a snapshot directory when
// sync_dir is set, otherwise the no-op target.
func (a *app) syncer() remote.Syncer {
	if a.settings.SyncDir == "" {
		return remote.Noop{Logger: a.logger}
	}
	return remote.NewDir(a.store, a.settings.SyncDir, a.logger)
}

func newSyncCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Push to or restore from the sync target",
		Long:  "Sync uses the directory named by sync_dir in config.yaml. Without it,\nsync does nothing.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "upload",
		Short: "Push the local database to the sync target",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.syncer().Upload(ctx(cmd)); err != nil {
				return sysError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Upload complete")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "download",
		Short: "Restore the local database from the sync target",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.syncer().Download(ctx(cmd)); err != nil {
				return sysError(err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Download complete")
			return nil
		},
	})

	var interval time.Duration
	auto := &cobra.Command{
		Use:   "auto",
		Short: "Upload periodically until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("interval") {
				interval = a.settings.AutoSyncInterval
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Uploading every %s; press Ctrl-C to stop\n", interval)
			err := remote.AutoSync(ctx(cmd), a.syncer(), interval, a.logger)
			switch {
			case errors.Is(err, context.Canceled):
				return nil
			case err != nil:
				return userError(err)
			}
			return nil
		},
	}
	auto.Flags().DurationVar(&interval, "interval", defaultAutoSyncInterval, "time between uploads (default auto_sync_interval from config)")
	cmd.AddCommand(auto)

	return cmd
}
