package repository

import (
	"pm_prep_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) FindByID(id uint) (*model.Question, error) {
	var q model.Question
	err := r.DB.Where("enabled = ?", true).First(&q, id).Error
	return &q, err
}

// FindByDifficultyRange 取elo难度落在[min,max]内的启用题目
func (r *QuestionRepository) FindByDifficultyRange(min, max, limit int) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.
		Where("enabled = ? AND elo_difficulty BETWEEN ? AND ?", true, min, max).
		Limit(limit).
		Find(&questions).Error
	return questions, err
}

// FindAny 不限难度取题，作为采样器的最终回退
func (r *QuestionRepository) FindAny(limit int) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.
		Where("enabled = ?", true).
		Limit(limit).
		Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Question{}).Where("enabled = ?", true).Count(&count).Error
	return count, err
}

func (r *QuestionRepository) Create(q *model.Question) error {
	return r.DB.Create(q).Error
}

func (r *QuestionRepository) UpdateEloDifficulty(id uint, difficulty int) error {
	return r.DB.Model(&model.Question{}).
		Where("id = ?", id).
		Update("elo_difficulty", difficulty).
		Error
}
