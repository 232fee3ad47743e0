package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"mafia_web/internal/storage"
	"mafia_web/pkg/config"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [up|down|status|version|redo|reset]",
	Short: "Run database migrations",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		return storage.RunMigrations(cmd.Context(), cfg.DB.URL(), args[0], args[1:]...)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
