package config

import (
	"testing"
	"time"
)

func TestLoadReadsFileAndEnv(t *testing.T) {
	t.Setenv("MAFIA_DB_HOST", "db.internal")
	t.Setenv("MAFIA_JWT_SECRET", "from-env")
	t.Setenv("MAFIA_ROOM_MAX_PLAYER_LIMIT", "16")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.DB.Host != "db.internal" {
		t.Errorf("expected env override for db.host, got %q", cfg.DB.Host)
	}
	if cfg.JWT.Secret != "from-env" {
		t.Errorf("expected env override for jwt.secret, got %q", cfg.JWT.Secret)
	}
	if cfg.Room.MaxPlayerLimit != 16 {
		t.Errorf("expected max player limit 16, got %d", cfg.Room.MaxPlayerLimit)
	}
	if cfg.JWT.AccessTokenTTL != 120*time.Minute {
		t.Errorf("expected 120m token ttl, got %v", cfg.JWT.AccessTokenTTL)
	}
	if cfg.Room.MinPlayerLimit != 4 || cfg.Room.DefaultPlayerLimit != 10 {
		t.Errorf("unexpected room limits: %+v", cfg.Room)
	}
	if cfg.RoolSet.MinDayDurationMinutes != 2 || cfg.RoolSet.MinNightDurationMinutes != 1 {
		t.Errorf("unexpected rool set limits: %+v", cfg.RoolSet)
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		JWT:  JWTConfig{Secret: "s"},
		Room: RoomConfig{MinPlayerLimit: 4, DefaultPlayerLimit: 10, MaxPlayerLimit: 20},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	noSecret := valid
	noSecret.JWT.Secret = ""
	if err := noSecret.Validate(); err != ErrMissingJWTSecret {
		t.Fatalf("expected ErrMissingJWTSecret, got %v", err)
	}

	badDefault := valid
	badDefault.Room.DefaultPlayerLimit = 30
	if err := badDefault.Validate(); err == nil {
		t.Fatalf("expected error for default above max")
	}
}

func TestDSN(t *testing.T) {
	c := DBConfig{Host: "h", User: "u", Password: "p", Name: "n", Port: 5432, SSLMode: "disable"}
	if got, want := c.URL(), "postgres://u:p@h:5432/n?sslmode=disable"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
