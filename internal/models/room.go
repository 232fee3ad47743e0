package models

import (
	"time"

	"github.com/google/uuid"
)

// 房間人數的預設限制，可由設定檔覆寫
const (
	MinPlayerLimit     = 4
	DefaultPlayerLimit = 10
	MaxPlayerLimit     = 20
)

// RoomType 定義房間可見性
type RoomType string

const (
	RoomTypePublic  RoomType = "public"
	RoomTypePrivate RoomType = "private"
)

// Valid 回報是否為已知的房間類型
func (t RoomType) Valid() bool {
	return t == RoomTypePublic || t == RoomTypePrivate
}

// RoomStatus 由成員數量推導，不寫入資料庫
type RoomStatus string

const (
	RoomStatusOpen RoomStatus = "open"
	RoomStatusFull RoomStatus = "full"
)

// StatusFor 依成員數與人數上限計算房間狀態
func StatusFor(playerCount int64, playerLimit int) RoomStatus {
	if playerCount < int64(playerLimit) {
		return RoomStatusOpen
	}
	return RoomStatusFull
}

// Room 表示一個遊戲房間
type Room struct {
	ID          uint      `gorm:"primaryKey"`
	CreatorID   uint      `gorm:"not null;index"`
	Creator     User      `gorm:"constraint:OnDelete:CASCADE"`
	Type        RoomType  `gorm:"size:16;not null;default:public"`
	RoolSetID   uint      `gorm:"not null;index"`
	RoolSet     RoolSet   `gorm:"constraint:OnDelete:CASCADE"`
	JoinCode    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	Password    *string   `gorm:"size:256"` // bcrypt 雜湊，公開房間為 NULL
	PlayerLimit int       `gorm:"type:smallint;not null;default:10;check:chk_rooms_player_limit,player_limit >= 4"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UserRoom 用戶與房間之間的成員關係
type UserRoom struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_users_rooms_user_room"`
	User      User `gorm:"constraint:OnDelete:CASCADE"`
	RoomID    uint `gorm:"not null;uniqueIndex:idx_users_rooms_user_room;index"`
	Room      Room `gorm:"constraint:OnDelete:CASCADE"`
	IsCreator bool `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (UserRoom) TableName() string {
	return "users_rooms"
}
