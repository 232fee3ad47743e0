package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mafia_web/internal/storage"
	"mafia_web/internal/utils"
	"mafia_web/pkg/config"
)

var rootCmd = &cobra.Command{
	Use:   "mafia_web",
	Short: "mafia_web is the room and membership backend of the mafia game.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd)
	},
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap 載入設定、建立 logger 並連線資料庫
func bootstrap() (*config.Config, *zap.Logger, *storage.Database, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := utils.InitLogger(cfg.Log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}

	db, err := storage.NewPostgresDB(cfg.DB, logger)
	if err != nil {
		logger.Sync()
		return nil, nil, nil, err
	}
	return cfg, logger, db, nil
}
