package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"mafia_web/internal/api"
	"mafia_web/internal/repository"
	"mafia_web/internal/service"
	"mafia_web/internal/utils"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServer(cmd *cobra.Command) error {
	cfg, logger, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer db.Close()

	if cfg.DB.AutoMigrate {
		if err := db.AutoMigrate(); err != nil {
			return err
		}
		logger.Info("database schema migrated")
	}

	gin.SetMode(cfg.Server.Mode)

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, service.Options{
		Hasher: utils.NewBcryptHasher(cfg.Auth.BcryptCost),
		Tokens: utils.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL),
		RoomLimits: service.RoomLimits{
			Min:     cfg.Room.MinPlayerLimit,
			Default: cfg.Room.DefaultPlayerLimit,
			Max:     cfg.Room.MaxPlayerLimit,
		},
		PhaseLimits: service.PhaseLimits{
			MinDayMinutes:   cfg.RoolSet.MinDayDurationMinutes,
			MinNightMinutes: cfg.RoolSet.MinNightDurationMinutes,
		},
		Logger: logger,
	})

	router := api.NewRouter(services, api.RouterOptions{
		CORSOrigins: cfg.Server.CORSOrigins,
		Health:      db,
		Logger:      logger,
	})

	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
