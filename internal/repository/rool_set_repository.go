package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mafia_web/internal/models"
)

type RoolSetRepository interface {
	FindByID(ctx context.Context, id uint) (*models.RoolSet, error)
	List(ctx context.Context) ([]models.RoolSet, error)
	// GameRoles 回傳各規則組的角色，key 為 rool_set_id
	GameRoles(ctx context.Context, roolSetIDs ...uint) (map[uint][]models.GameRole, error)

	EnsureGameRole(ctx context.Context, role *models.GameRole) error
	EnsureRoolSet(ctx context.Context, set *models.RoolSet) error
	AttachRoles(ctx context.Context, roolSetID uint, gameRoleIDs ...uint) error
}

type roolSetRepository struct {
	db *gorm.DB
}

func NewRoolSetRepository(db *gorm.DB) RoolSetRepository {
	return &roolSetRepository{db: db}
}

func (r *roolSetRepository) FindByID(ctx context.Context, id uint) (*models.RoolSet, error) {
	return findOne[models.RoolSet](ctx, r.db, "id = ?", id)
}

func (r *roolSetRepository) List(ctx context.Context) ([]models.RoolSet, error) {
	var sets []models.RoolSet
	err := r.db.WithContext(ctx).Order("id ASC").Find(&sets).Error
	return sets, err
}

func (r *roolSetRepository) GameRoles(ctx context.Context, roolSetIDs ...uint) (map[uint][]models.GameRole, error) {
	result := make(map[uint][]models.GameRole, len(roolSetIDs))
	if len(roolSetIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		RoolSetID uint
		ID        uint
		Name      string
		IsMafia   bool
		IsSpecial bool
	}
	err := r.db.WithContext(ctx).Table("rool_sets_roles").
		Select("rool_sets_roles.rool_set_id AS rool_set_id, game_roles.id AS id, game_roles.name AS name, " +
			"game_roles.is_mafia AS is_mafia, game_roles.is_special AS is_special").
		Joins("JOIN game_roles ON game_roles.id = rool_sets_roles.game_role_id").
		Where("rool_sets_roles.rool_set_id IN ?", roolSetIDs).
		Order("game_roles.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.RoolSetID] = append(result[row.RoolSetID], models.GameRole{
			ID:        row.ID,
			Name:      row.Name,
			IsMafia:   row.IsMafia,
			IsSpecial: row.IsSpecial,
		})
	}
	return result, nil
}

// EnsureGameRole 依名稱取得角色，不存在時建立
func (r *roolSetRepository) EnsureGameRole(ctx context.Context, role *models.GameRole) error {
	return r.db.WithContext(ctx).
		Where(models.GameRole{Name: role.Name}).
		Attrs(models.GameRole{IsMafia: role.IsMafia, IsSpecial: role.IsSpecial}).
		FirstOrCreate(role).Error
}

// EnsureRoolSet 依名稱取得規則組，不存在時建立
func (r *roolSetRepository) EnsureRoolSet(ctx context.Context, set *models.RoolSet) error {
	return r.db.WithContext(ctx).
		Where(models.RoolSet{Name: set.Name}).
		Attrs(models.RoolSet{
			MafiaPercent:         set.MafiaPercent,
			AllowSheriff:         set.AllowSheriff,
			DayDurationMinutes:   set.DayDurationMinutes,
			NightDurationMinutes: set.NightDurationMinutes,
		}).
		FirstOrCreate(set).Error
}

// AttachRoles 將角色加入規則組，已存在的配對會被忽略
func (r *roolSetRepository) AttachRoles(ctx context.Context, roolSetID uint, gameRoleIDs ...uint) error {
	if len(gameRoleIDs) == 0 {
		return nil
	}
	links := make([]models.RoolSetRole, 0, len(gameRoleIDs))
	for _, id := range gameRoleIDs {
		links = append(links, models.RoolSetRole{RoolSetID: roolSetID, GameRoleID: id})
	}
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&links).Error
}
