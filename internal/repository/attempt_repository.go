package repository

import (
	"pm_prep_backend/internal/model"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

// Create 在给定事务内插入作答记录
func (r *AttemptRepository) Create(tx *gorm.DB, attempt *model.Attempt) error {
	if tx == nil {
		tx = r.DB
	}
	return tx.Create(attempt).Error
}

// FindAllByUser 按时间倒序取用户全部作答历史，分析聚合用
func (r *AttemptRepository) FindAllByUser(userID uint) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.DB.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) FindByUser(userID uint, limit, offset int) ([]model.Attempt, int64, error) {
	var attempts []model.Attempt
	var total int64

	query := r.DB.Model(&model.Attempt{}).Where("user_id = ?", userID)
	query.Count(&total)

	err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&attempts).Error
	return attempts, total, err
}

func (r *AttemptRepository) FindByIDAndUser(id, userID uint) (*model.Attempt, error) {
	var attempt model.Attempt
	err := r.DB.Where("id = ? AND user_id = ?", id, userID).First(&attempt).Error
	return &attempt, err
}

// FindRecentScores 最近n次作答的分数，新在前，采样器的表现调整用
func (r *AttemptRepository) FindRecentScores(userID uint, n int) ([]float64, error) {
	var scores []float64
	err := r.DB.Model(&model.Attempt{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(n).
		Pluck("score", &scores).Error
	return scores, err
}

// QuestionOutcome 题目的历史作答汇总，难度校准用
type QuestionOutcome struct {
	QuestionID      uint
	AttemptCount    int64
	AvgScore        float64
	AvgRatingBefore float64
}

func (r *AttemptRepository) GetQuestionOutcomes(minAttempts int) ([]QuestionOutcome, error) {
	var outcomes []QuestionOutcome
	err := r.DB.Model(&model.Attempt{}).
		Select("question_id, COUNT(*) AS attempt_count, AVG(score) AS avg_score, AVG(rating_before) AS avg_rating_before").
		Group("question_id").
		Having("COUNT(*) >= ?", minAttempts).
		Scan(&outcomes).Error
	return outcomes, err
}
