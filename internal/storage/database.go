package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"mafia_web/internal/models"
	"mafia_web/pkg/config"
)

// Database 包裝 gorm 連線
type Database struct {
	*gorm.DB
}

// Wrap 以既有的 gorm 連線建立 Database，測試時傳入 sqlite 連線
func Wrap(db *gorm.DB) *Database {
	return &Database{DB: db}
}

// NewPostgresDB 建立 PostgreSQL 連線
func NewPostgresDB(cfg config.DBConfig, log *zap.Logger) (*Database, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		// 將唯一鍵衝突轉為 gorm.ErrDuplicatedKey
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info("database connected",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("name", cfg.Name),
	)
	return &Database{DB: db}, nil
}

func (db *Database) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping 確認資料庫可連線，供健康檢查使用
func (db *Database) Ping(ctx context.Context) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// AutoMigrate 依模型自動遷移資料庫結構
func (db *Database) AutoMigrate() error {
	return db.DB.AutoMigrate(models.All()...)
}
