package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"mafia_web/internal/models"
)

func TestSeedIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// newTestEnv 已執行過一次
	if err := env.roolSets.Seed(ctx); err != nil {
		t.Fatalf("second seed: %v", err)
	}

	var roles, sets, links int64
	env.db.Model(&models.GameRole{}).Count(&roles)
	env.db.Model(&models.RoolSet{}).Count(&sets)
	env.db.Model(&models.RoolSetRole{}).Count(&links)
	if roles != 5 || sets != 2 || links != 8 {
		t.Fatalf("expected 5 roles, 2 sets, 8 links, got %d, %d, %d", roles, sets, links)
	}
}

func TestRoolSetCatalogue(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	sets, err := env.roolSets.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(sets) != 2 || sets[0].Name != "classic" || sets[1].Name != "simple" {
		t.Fatalf("unexpected rool sets: %+v", sets)
	}

	classic, err := env.roolSets.Get(ctx, sets[0].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(classic.GameRoles) != 5 || classic.MafiaPercent != 25 || !classic.AllowSheriff {
		t.Fatalf("unexpected classic rool set: %+v", classic)
	}

	mafia := 0
	for _, r := range classic.GameRoles {
		if r.IsMafia {
			mafia++
		}
	}
	if mafia != 2 {
		t.Fatalf("expected mafia and don to be mafia roles, got %d", mafia)
	}

	_, err = env.roolSets.Get(ctx, 9999)
	assertKind(t, err, KindNotFound)
}

func TestSeedRejectsSetsBelowPhaseLimits(t *testing.T) {
	env := newTestEnv(t)
	strict := NewRoolSetService(env.repos, PhaseLimits{MinDayMinutes: 30, MinNightMinutes: 1}, zap.NewNop())

	if err := strict.Seed(context.Background()); err == nil {
		t.Fatalf("expected seed to fail with stricter day limit")
	}
}
