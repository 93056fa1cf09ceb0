package cmd

import (
	"recipe-manager/core/database"
	"recipe-manager/feature/recipes/models"

	"github.com/spf13/cobra"
)

// schemaCmd represents the schema command
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Manage the database schema",
}

// migrateCmd represents the schema migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create missing tables and columns",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		if err := database.Migrate(rt.db, models.All()...); err != nil {
			return err
		}
		rt.logger.Info("Database schema migrated")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(schemaCmd)
	schemaCmd.AddCommand(migrateCmd)
}
