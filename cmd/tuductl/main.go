// tuductl is the operational companion to the API server: schema
// migration and user administration straight against the database.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dev-kunalpandey/tudu/api/config"
	"github.com/dev-kunalpandey/tudu/api/db"
	"github.com/dev-kunalpandey/tudu/api/logging"
)

func main() {
	root := &cobra.Command{
		Use:          "tuductl",
		Short:        "Admin tooling for the todo API",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.InitConfig(); err != nil {
				return fmt.Errorf("init config: %w", err)
			}
			logging.InitLogger(config.GetString("log.dir"))
			if err := db.InitDB(); err != nil {
				return fmt.Errorf("init database: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			db.CloseDB()
			_ = logging.Sync()
		},
	}

	root.AddCommand(
		newMigrateCmd(),
		newCreateAdminCmd(),
		newResetPasswordCmd(),
		newListUsersCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
