package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the config file and the plant database",
		Long: "Init writes a default config.yaml if there is none and creates the\n" +
			"database schema. Running it again is harmless.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.jsonOut {
				return a.printJSON(cmd, map[string]string{
					"config_dir": a.configDir,
					"data_dir":   a.dataDir,
					"database":   a.store.Config().DatabasePath(),
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "plantcare initialized")
			fmt.Fprintln(out, "  config:  ", a.configDir)
			fmt.Fprintln(out, "  database:", a.store.Config().DatabasePath())
			return nil
		},
	}
}
