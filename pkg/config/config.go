package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	JWT     JWTConfig
	Auth    AuthConfig
	Room    RoomConfig
	RoolSet RoolSetConfig `mapstructure:"rool_set"`
	Log     LogConfig
}

type ServerConfig struct {
	Address     string
	Mode        string
	CORSOrigins []string `mapstructure:"cors_origins"`
}

type DBConfig struct {
	Host        string
	User        string
	Password    string
	Name        string
	Port        int
	SSLMode     string `mapstructure:"sslmode"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

// DSN 回傳 gorm postgres driver 使用的連線字串
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=UTC",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
}

// URL 回傳 goose/pgx 使用的連線 URL
func (c DBConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

type JWTConfig struct {
	Secret         string
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
}

type AuthConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

// RoomConfig 房間人數上下限
type RoomConfig struct {
	MinPlayerLimit     int `mapstructure:"min_player_limit"`
	DefaultPlayerLimit int `mapstructure:"default_player_limit"`
	MaxPlayerLimit     int `mapstructure:"max_player_limit"`
}

type RoolSetConfig struct {
	MinDayDurationMinutes   int `mapstructure:"min_day_duration_minutes"`
	MinNightDurationMinutes int `mapstructure:"min_night_duration_minutes"`
}

type LogConfig struct {
	Level       string
	Development bool
}

var ErrMissingJWTSecret = errors.New("jwt.secret is required")

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.user", "mafia_user")
	v.SetDefault("db.password", "mafia_password")
	v.SetDefault("db.name", "mafia_db")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.auto_migrate", false)

	v.SetDefault("jwt.access_token_ttl", 120*time.Minute)
	v.SetDefault("auth.bcrypt_cost", 10)

	v.SetDefault("room.min_player_limit", 4)
	v.SetDefault("room.default_player_limit", 10)
	v.SetDefault("room.max_player_limit", 20)

	v.SetDefault("rool_set.min_day_duration_minutes", 2)
	v.SetDefault("rool_set.min_night_duration_minutes", 1)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

// Load 讀取設定檔與環境變數
//
// 設定檔 config.yaml 會在 ./pkg/config 與目前目錄中尋找，找不到時使用預設值。
// 環境變數以 MAFIA_ 為前綴覆寫設定，例如 MAFIA_DB_HOST、MAFIA_JWT_SECRET。
func Load() (*Config, error) {
	// .env 檔案是可選的
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./pkg/config")
	v.AddConfigPath(".")

	v.SetEnvPrefix("MAFIA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	// AutomaticEnv 只對已知的 key 生效
	v.SetDefault("jwt.secret", "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate 檢查設定值是否合理
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return ErrMissingJWTSecret
	}
	if c.Room.MinPlayerLimit <= 0 || c.Room.MaxPlayerLimit < c.Room.MinPlayerLimit {
		return fmt.Errorf("invalid player limits: min=%d max=%d", c.Room.MinPlayerLimit, c.Room.MaxPlayerLimit)
	}
	if c.Room.DefaultPlayerLimit < c.Room.MinPlayerLimit || c.Room.DefaultPlayerLimit > c.Room.MaxPlayerLimit {
		return fmt.Errorf("default player limit %d out of range [%d, %d]",
			c.Room.DefaultPlayerLimit, c.Room.MinPlayerLimit, c.Room.MaxPlayerLimit)
	}
	return nil
}
