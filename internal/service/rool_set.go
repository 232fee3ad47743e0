package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"mafia_web/internal/models"
	"mafia_web/internal/repository"
)

type GameRoleView struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	IsMafia   bool   `json:"is_mafia"`
	IsSpecial bool   `json:"is_special"`
}

type RoolSetView struct {
	ID                   uint           `json:"id"`
	Name                 string         `json:"name"`
	MafiaPercent         int            `json:"mafia_percent"`
	AllowSheriff         bool           `json:"allow_sheriff"`
	DayDurationMinutes   int            `json:"day_duration_minutes"`
	NightDurationMinutes int            `json:"night_duration_minutes"`
	GameRoles            []GameRoleView `json:"game_roles"`
}

func newRoolSetView(set *models.RoolSet, roles []models.GameRole) RoolSetView {
	views := make([]GameRoleView, 0, len(roles))
	for _, r := range roles {
		views = append(views, GameRoleView{ID: r.ID, Name: r.Name, IsMafia: r.IsMafia, IsSpecial: r.IsSpecial})
	}
	return RoolSetView{
		ID:                   set.ID,
		Name:                 set.Name,
		MafiaPercent:         set.MafiaPercent,
		AllowSheriff:         set.AllowSheriff,
		DayDurationMinutes:   set.DayDurationMinutes,
		NightDurationMinutes: set.NightDurationMinutes,
		GameRoles:            views,
	}
}

// PhaseLimits 白天與夜晚階段的最短分鐘數
type PhaseLimits struct {
	MinDayMinutes   int
	MinNightMinutes int
}

func DefaultPhaseLimits() PhaseLimits {
	return PhaseLimits{
		MinDayMinutes:   models.MinDayDurationMinutes,
		MinNightMinutes: models.MinNightDurationMinutes,
	}
}

// RoolSetService 規則組目錄
type RoolSetService struct {
	repos  *repository.Repositories
	limits PhaseLimits
	log    *zap.Logger
}

func NewRoolSetService(repos *repository.Repositories, limits PhaseLimits, log *zap.Logger) *RoolSetService {
	return &RoolSetService{repos: repos, limits: limits, log: log}
}

func (s *RoolSetService) List(ctx context.Context) ([]RoolSetView, error) {
	sets, err := s.repos.RoolSet.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rool sets: %w", err)
	}

	ids := make([]uint, 0, len(sets))
	for _, set := range sets {
		ids = append(ids, set.ID)
	}
	roles, err := s.repos.RoolSet.GameRoles(ctx, ids...)
	if err != nil {
		return nil, fmt.Errorf("load game roles: %w", err)
	}

	views := make([]RoolSetView, 0, len(sets))
	for i := range sets {
		views = append(views, newRoolSetView(&sets[i], roles[sets[i].ID]))
	}
	return views, nil
}

func (s *RoolSetService) Get(ctx context.Context, id uint) (*RoolSetView, error) {
	set, err := s.repos.RoolSet.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFoundError("rool set not found")
	}
	if err != nil {
		return nil, fmt.Errorf("find rool set: %w", err)
	}

	roles, err := s.repos.RoolSet.GameRoles(ctx, set.ID)
	if err != nil {
		return nil, fmt.Errorf("load game roles: %w", err)
	}
	view := newRoolSetView(set, roles[set.ID])
	return &view, nil
}

type seedRoolSet struct {
	set   models.RoolSet
	roles []string
}

var (
	seedGameRoles = []models.GameRole{
		{Name: "civilian"},
		{Name: "mafia", IsMafia: true},
		{Name: "don", IsMafia: true, IsSpecial: true},
		{Name: "sheriff", IsSpecial: true},
		{Name: "doctor", IsSpecial: true},
	}

	seedRoolSets = []seedRoolSet{
		{
			set: models.RoolSet{
				Name: "classic", MafiaPercent: 25, AllowSheriff: true,
				DayDurationMinutes: 10, NightDurationMinutes: 5,
			},
			roles: []string{"civilian", "mafia", "don", "sheriff", "doctor"},
		},
		{
			set: models.RoolSet{
				Name: "simple", MafiaPercent: 25, AllowSheriff: true,
				DayDurationMinutes: 5, NightDurationMinutes: 2,
			},
			roles: []string{"civilian", "mafia", "sheriff"},
		},
	}
)

// Seed 寫入預設角色與規則組，重複執行不會產生重複資料
func (s *RoolSetService) Seed(ctx context.Context) error {
	for _, entry := range seedRoolSets {
		if entry.set.DayDurationMinutes < s.limits.MinDayMinutes || entry.set.NightDurationMinutes < s.limits.MinNightMinutes {
			return fmt.Errorf("rool set %q violates phase duration limits", entry.set.Name)
		}
	}

	return s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		roleIDs := make(map[string]uint, len(seedGameRoles))
		for _, r := range seedGameRoles {
			role := r
			if err := tx.RoolSet.EnsureGameRole(ctx, &role); err != nil {
				return fmt.Errorf("seed game role %s: %w", role.Name, err)
			}
			roleIDs[role.Name] = role.ID
		}

		for _, entry := range seedRoolSets {
			set := entry.set
			if err := tx.RoolSet.EnsureRoolSet(ctx, &set); err != nil {
				return fmt.Errorf("seed rool set %s: %w", set.Name, err)
			}

			ids := make([]uint, 0, len(entry.roles))
			for _, name := range entry.roles {
				ids = append(ids, roleIDs[name])
			}
			if err := tx.RoolSet.AttachRoles(ctx, set.ID, ids...); err != nil {
				return fmt.Errorf("attach roles to %s: %w", set.Name, err)
			}
			s.log.Info("rool set seeded", zap.String("name", set.Name), zap.Int("roles", len(ids)))
		}
		return nil
	})
}
