package model

import "time"

// 评分边界，所有评分更新后都必须落在区间内
const (
	RatingFloor   = 800
	RatingCeiling = 2200
	DefaultRating = 1200
)

// UserStats 用户评分状态，每个用户一条，首次使用时按默认值创建。
// Version用于乐观锁：多端同时提交时后写方会因版本不匹配而重试。
// swagger:model UserStats
type UserStats struct {
	BaseModel
	UserID         uint         `gorm:"uniqueIndex;type:bigint unsigned;not null" json:"userId"`
	Rating         int          `gorm:"not null;default:1200" json:"rating"`
	SkillRatings   SkillRatings `gorm:"type:json" json:"skillRatings"`
	StreakDays     int          `gorm:"not null;default:0" json:"streakDays"`
	TotalQuestions int          `gorm:"not null;default:0" json:"totalQuestions"`
	LastPracticeAt *time.Time   `json:"lastPracticeAt,omitempty"`
	Version        int          `gorm:"not null;default:0" json:"-"`
}

func (UserStats) TableName() string {
	return "user_stats"
}

// NewUserStats 统一的默认评分初始化入口，避免默认值散落在各调用点
func NewUserStats(userID uint) *UserStats {
	return &UserStats{
		UserID:       userID,
		Rating:       DefaultRating,
		SkillRatings: DefaultSkillRatings(),
	}
}
