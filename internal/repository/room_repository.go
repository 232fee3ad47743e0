package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mafia_web/internal/models"
)

type RoomRepository interface {
	Create(ctx context.Context, room *models.Room) error
	FindByJoinCode(ctx context.Context, code uuid.UUID) (*models.Room, error)
	// FindByJoinCodeForUpdate 以 SELECT ... FOR UPDATE 鎖定房間，須在交易中呼叫
	FindByJoinCodeForUpdate(ctx context.Context, code uuid.UUID) (*models.Room, error)
	FindByJoinCodeWithRoolSet(ctx context.Context, code uuid.UUID) (*models.Room, error)
	ListPublic(ctx context.Context, limit, offset int) ([]models.Room, error)
}

type roomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) RoomRepository {
	return &roomRepository{db: db}
}

func (r *roomRepository) Create(ctx context.Context, room *models.Room) error {
	return create(ctx, r.db, room)
}

func (r *roomRepository) FindByJoinCode(ctx context.Context, code uuid.UUID) (*models.Room, error) {
	return findOne[models.Room](ctx, r.db, "join_code = ?", code)
}

func (r *roomRepository) FindByJoinCodeForUpdate(ctx context.Context, code uuid.UUID) (*models.Room, error) {
	var room models.Room
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("join_code = ?", code).
		First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepository) FindByJoinCodeWithRoolSet(ctx context.Context, code uuid.UUID) (*models.Room, error) {
	var room models.Room
	err := r.db.WithContext(ctx).
		Preload("RoolSet").
		Where("join_code = ?", code).
		First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// ListPublic 依建立時間由新到舊列出公開房間
func (r *roomRepository) ListPublic(ctx context.Context, limit, offset int) ([]models.Room, error) {
	var rooms []models.Room
	err := r.db.WithContext(ctx).
		Where("type = ?", models.RoomTypePublic).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).Offset(offset).
		Find(&rooms).Error
	return rooms, err
}
