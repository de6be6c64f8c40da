package service

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"pm_prep_backend/internal/model"
	"pm_prep_backend/internal/repository"
	"pm_prep_backend/internal/util"
	"pm_prep_backend/pkg/logger"
	"pm_prep_backend/pkg/monitoring"
)

// 并发提交触发版本冲突时的重试上限
const maxRatingRetries = 3

// AttemptService 负责落库一次作答：写记录、更新评分和连胜，
// 全部在同一个事务里完成。
type AttemptService struct {
	db       *gorm.DB
	attempts *repository.AttemptRepository
	stats    *repository.UserStatsRepository
}

func NewAttemptService(db *gorm.DB, attempts *repository.AttemptRepository, stats *repository.UserStatsRepository) *AttemptService {
	return &AttemptService{db: db, attempts: attempts, stats: stats}
}

// nextStreak 按自然日计算连续练习天数。同一天重复练不加，
// 隔一天续上，断档超过一天重置为1。
func nextStreak(lastPractice *time.Time, current int, now time.Time) int {
	if lastPractice == nil {
		return 1
	}

	today := now.Truncate(24 * time.Hour)
	last := lastPractice.Truncate(24 * time.Hour)
	gap := int(today.Sub(last).Hours() / 24)

	switch {
	case gap <= 0:
		if current < 1 {
			return 1
		}
		return current
	case gap == 1:
		return current + 1
	default:
		return 1
	}
}

// RecordAttempt 记录一次已评估的作答并更新用户评分。
// 评分冲突时重新读取状态重算，最多重试三次。
func (s *AttemptService) RecordAttempt(userID uint, question *model.Question, answer string, eval *EvaluationResult) (*model.Attempt, *model.UserStats, error) {
	now := time.Now()

	for i := 0; i < maxRatingRetries; i++ {
		stats, err := s.stats.GetOrCreate(userID)
		if err != nil {
			return nil, nil, err
		}

		newRating, delta := CalculateRatingChange(stats.Rating, question.EloDifficulty, eval.Score, DefaultKFactor)

		attempt := &model.Attempt{
			UserID:           userID,
			QuestionID:       question.ID,
			QuestionText:     question.Text,
			Category:         question.Category,
			DifficultyLabel:  question.DifficultyLabel,
			AnswerText:       answer,
			Score:            eval.Score,
			Strengths:        eval.Strengths,
			Weaknesses:       eval.Weaknesses,
			DetailedFeedback: eval.DetailedFeedback,
			CategoryScores:   eval.CategoryScores,
			SkillScores:      eval.SkillScores,
			RatingBefore:     stats.Rating,
			RatingAfter:      newRating,
			RatingChange:     delta,
		}

		stats.Rating = newRating
		ApplySkillRatingChanges(&stats.SkillRatings, eval.SkillScores, question.EloDifficulty)
		stats.StreakDays = nextStreak(stats.LastPracticeAt, stats.StreakDays, now)
		stats.TotalQuestions++

		err = s.db.Transaction(func(tx *gorm.DB) error {
			if err := s.attempts.Create(tx, attempt); err != nil {
				return err
			}
			return s.stats.UpdateRated(tx, stats, now)
		})

		if err == nil {
			stats.Version++
			practiceAt := now
			stats.LastPracticeAt = &practiceAt
			monitoring.ObserveRatingChange(delta)
			return attempt, stats, nil
		}

		if errors.Is(err, util.ErrRatingConflict) {
			logger.Log.Warn("Rating version conflict, retrying",
				zap.Uint("user_id", userID), zap.Int("attempt", i+1))
			continue
		}
		return nil, nil, err
	}

	return nil, nil, util.ErrRatingConflict
}

// History 按时间倒序分页返回作答记录
func (s *AttemptService) History(userID uint, limit, offset int) ([]model.Attempt, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.attempts.FindByUser(userID, limit, offset)
}

func (s *AttemptService) GetByID(id, userID uint) (*model.Attempt, error) {
	attempt, err := s.attempts.FindByIDAndUser(id, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrAttemptNotFound
	}
	return attempt, err
}

// EnsureStats 取用户评分状态，不存在则按默认1200初始化
func (s *AttemptService) EnsureStats(userID uint) (*model.UserStats, error) {
	return s.stats.GetOrCreate(userID)
}
