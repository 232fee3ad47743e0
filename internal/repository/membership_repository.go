package repository

import (
	"context"

	"gorm.io/gorm"

	"mafia_web/internal/models"
)

// Member 房間成員的查詢結果
type Member struct {
	UserID    uint
	Username  string
	IsCreator bool
}

type MembershipRepository interface {
	Create(ctx context.Context, membership *models.UserRoom) error
	Exists(ctx context.Context, userID, roomID uint) (bool, error)
	CountByRoom(ctx context.Context, roomID uint) (int64, error)
	CountByRooms(ctx context.Context, roomIDs []uint) (map[uint]int64, error)
	ListMembers(ctx context.Context, roomID uint) ([]Member, error)
}

type membershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

func (r *membershipRepository) Create(ctx context.Context, membership *models.UserRoom) error {
	return create(ctx, r.db, membership)
}

func (r *membershipRepository) Exists(ctx context.Context, userID, roomID uint) (bool, error) {
	return exists[models.UserRoom](ctx, r.db, "user_id = ? AND room_id = ?", userID, roomID)
}

func (r *membershipRepository) CountByRoom(ctx context.Context, roomID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserRoom{}).Where("room_id = ?", roomID).Count(&count).Error
	return count, err
}

func (r *membershipRepository) CountByRooms(ctx context.Context, roomIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(roomIDs))
	if len(roomIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		RoomID      uint
		MemberCount int64
	}
	err := r.db.WithContext(ctx).Model(&models.UserRoom{}).
		Select("room_id, COUNT(*) AS member_count").
		Where("room_id IN ?", roomIDs).
		Group("room_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.RoomID] = row.MemberCount
	}
	return counts, nil
}

// ListMembers 透過 users_rooms 與 users 的 join 查詢房間成員，依加入順序排列
func (r *membershipRepository) ListMembers(ctx context.Context, roomID uint) ([]Member, error) {
	var members []Member
	err := r.db.WithContext(ctx).Table("users_rooms").
		Select("users.id AS user_id, users.username AS username, users_rooms.is_creator AS is_creator").
		Joins("JOIN users ON users.id = users_rooms.user_id").
		Where("users_rooms.room_id = ?", roomID).
		Order("users_rooms.id ASC").
		Scan(&members).Error
	return members, err
}
