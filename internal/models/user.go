package models

import "time"

// User 表示系統中的用戶
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:120;uniqueIndex;not null" json:"username"`
	Email     string    `gorm:"size:256;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"size:256;not null" json:"-"` // bcrypt 雜湊，json 序列化時會被忽略
	Role      UserRole  `gorm:"size:16;not null;default:user" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserRole 定義用戶角色的類型
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// Profile 用戶的個人資料，每個用戶最多一筆
type Profile struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	UserID      uint    `gorm:"uniqueIndex;not null" json:"user_id"`
	User        User    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Description *string `gorm:"type:text" json:"description"`
}
