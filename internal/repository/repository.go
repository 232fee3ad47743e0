package repository

import (
	"context"

	"gorm.io/gorm"

	"mafia_web/internal/storage"
)

// Repositories 集中所有資料存取物件，並提供交易範圍
type Repositories struct {
	db *gorm.DB

	User       UserRepository
	Profile    ProfileRepository
	Room       RoomRepository
	Membership MembershipRepository
	RoolSet    RoolSetRepository
}

func NewRepositories(db *storage.Database) *Repositories {
	return newRepositories(db.DB)
}

func newRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:         db,
		User:       NewUserRepository(db),
		Profile:    NewProfileRepository(db),
		Room:       NewRoomRepository(db),
		Membership: NewMembershipRepository(db),
		RoolSet:    NewRoolSetRepository(db),
	}
}

// Transaction 在同一個資料庫交易中執行 fn
//
// fn 收到的 Repositories 綁定於該交易；fn 回傳錯誤時整個交易回滾。
func (r *Repositories) Transaction(ctx context.Context, fn func(tx *Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newRepositories(tx))
	})
}
