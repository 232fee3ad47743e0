package cmd

import (
	"github.com/spf13/cobra"

	"mafia_web/internal/repository"
	"mafia_web/internal/service"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the default game roles and rool sets",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer logger.Sync()
		defer db.Close()

		roolSets := service.NewRoolSetService(repository.NewRepositories(db), service.PhaseLimits{
			MinDayMinutes:   cfg.RoolSet.MinDayDurationMinutes,
			MinNightMinutes: cfg.RoolSet.MinNightDurationMinutes,
		}, logger)
		if err := roolSets.Seed(cmd.Context()); err != nil {
			return err
		}
		logger.Info("seed completed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
