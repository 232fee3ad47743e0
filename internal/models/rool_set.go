package models

// 遊戲階段的最短時間（分鐘）
const (
	MinDayDurationMinutes   = 2
	MinNightDurationMinutes = 1
)

// RoolSet 可重複使用的遊戲規則組合
type RoolSet struct {
	ID                   uint   `gorm:"primaryKey"`
	Name                 string `gorm:"size:128;uniqueIndex;not null"`
	MafiaPercent         int    `gorm:"not null;default:25"`
	AllowSheriff         bool   `gorm:"not null;default:true"`
	DayDurationMinutes   int    `gorm:"not null;default:10;check:chk_rool_sets_day_duration,day_duration_minutes >= 2"`
	NightDurationMinutes int    `gorm:"not null;default:5;check:chk_rool_sets_night_duration,night_duration_minutes >= 1"`
}

// GameRole 遊戲中的角色，例如 mafia、sheriff
type GameRole struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:64;uniqueIndex;not null"`
	IsMafia   bool   `gorm:"not null;default:false"`
	IsSpecial bool   `gorm:"not null;default:false"`
}

// RoolSetRole 規則組與角色的多對多關聯
type RoolSetRole struct {
	ID         uint     `gorm:"primaryKey"`
	RoolSetID  uint     `gorm:"not null;uniqueIndex:idx_rool_sets_roles_pair"`
	RoolSet    RoolSet  `gorm:"constraint:OnDelete:CASCADE"`
	GameRoleID uint     `gorm:"not null;uniqueIndex:idx_rool_sets_roles_pair"`
	GameRole   GameRole `gorm:"constraint:OnDelete:CASCADE"`
}

func (RoolSetRole) TableName() string {
	return "rool_sets_roles"
}

// All 列出所有需要遷移的模型，依外鍵相依順序排列
func All() []interface{} {
	return []interface{}{
		&User{},
		&Profile{},
		&RoolSet{},
		&GameRole{},
		&RoolSetRole{},
		&Room{},
		&UserRoom{},
	}
}
