package repository

import (
	"errors"
	"time"

	"pm_prep_backend/internal/model"
	"pm_prep_backend/internal/util"

	"gorm.io/gorm"
)

type UserStatsRepository struct {
	DB *gorm.DB
}

func NewUserStatsRepository(db *gorm.DB) *UserStatsRepository {
	return &UserStatsRepository{DB: db}
}

// GetOrCreate 读取用户评分状态，不存在则按默认值创建。
// 这是唯一的初始化入口，默认值只出现在 model.NewUserStats 里。
func (r *UserStatsRepository) GetOrCreate(userID uint) (*model.UserStats, error) {
	var stats model.UserStats
	err := r.DB.Where("user_id = ?", userID).First(&stats).Error
	if err == nil {
		return &stats, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fresh := model.NewUserStats(userID)
	if err := r.DB.Create(fresh).Error; err != nil {
		// 并发首次使用：另一请求已插入
		var again model.UserStats
		if err2 := r.DB.Where("user_id = ?", userID).First(&again).Error; err2 == nil {
			return &again, nil
		}
		return nil, err
	}
	return fresh, nil
}

// UpdateRated 在事务内带版本检查地写回评分状态。
// 版本不匹配说明并发提交已先行更新，返回 ErrRatingConflict 由上层重试。
func (r *UserStatsRepository) UpdateRated(tx *gorm.DB, stats *model.UserStats, now time.Time) error {
	if tx == nil {
		tx = r.DB
	}

	result := tx.Model(&model.UserStats{}).
		Where("user_id = ? AND version = ?", stats.UserID, stats.Version).
		Updates(map[string]interface{}{
			"rating":           stats.Rating,
			"skill_ratings":    stats.SkillRatings,
			"streak_days":      stats.StreakDays,
			"total_questions":  stats.TotalQuestions,
			"last_practice_at": now,
			"version":          stats.Version + 1,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return util.ErrRatingConflict
	}
	return nil
}

// AllRatings 全体用户当前评分，百分位排名用
func (r *UserStatsRepository) AllRatings() ([]int, error) {
	var ratings []int
	err := r.DB.Model(&model.UserStats{}).Pluck("rating", &ratings).Error
	return ratings, err
}
