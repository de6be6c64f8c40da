package service

import (
	"math"

	"go.uber.org/zap"

	"pm_prep_backend/internal/model"
	"pm_prep_backend/internal/repository"
	"pm_prep_backend/pkg/logger"
)

// 难度校准参数。校准要慢于用户评分的变化，所以K取很小的值，
// 且只动有足够样本的题。
const (
	calibrationKFactor  = 8.0
	minCalibrationCount = 10
)

// CalibrationService 定期用实际作答结果微调题目的elo难度：
// 在某题上普遍拿高分说明题目标得太难，反之太简单。
type CalibrationService struct {
	attempts  *repository.AttemptRepository
	questions *repository.QuestionRepository
}

func NewCalibrationService(attempts *repository.AttemptRepository, questions *repository.QuestionRepository) *CalibrationService {
	return &CalibrationService{attempts: attempts, questions: questions}
}

// calibratedDifficulty 把题目当作跟作答者对弈的选手做一次elo更新。
// actual取用户视角的平均得分率，题目的得分率是它的补。
func calibratedDifficulty(current int, avgRating, avgScore float64) int {
	expected := 1.0 / (1.0 + math.Pow(10, (avgRating-float64(current))/400.0))
	questionActual := 1.0 - avgScore/10.0
	next := current + int(math.Round(calibrationKFactor*(questionActual-expected)*10))

	if next < model.RatingFloor {
		return model.RatingFloor
	}
	if next > model.RatingCeiling {
		return model.RatingCeiling
	}
	return next
}

// RecalibrateAll 全量校准一轮，返回实际调整的题目数
func (s *CalibrationService) RecalibrateAll() (int, error) {
	outcomes, err := s.attempts.GetQuestionOutcomes(minCalibrationCount)
	if err != nil {
		return 0, err
	}

	adjusted := 0
	for _, o := range outcomes {
		q, err := s.questions.FindByID(o.QuestionID)
		if err != nil {
			continue
		}

		next := calibratedDifficulty(q.EloDifficulty, o.AvgRatingBefore, o.AvgScore)
		if next == q.EloDifficulty {
			continue
		}

		if err := s.questions.UpdateEloDifficulty(q.ID, next); err != nil {
			logger.Log.Error("Failed to update question difficulty",
				zap.Uint("question_id", q.ID), zap.Error(err))
			continue
		}

		logger.Log.Info("Recalibrated question difficulty",
			zap.Uint("question_id", q.ID),
			zap.Int("old", q.EloDifficulty),
			zap.Int("new", next),
			zap.Float64("avg_score", o.AvgScore),
			zap.Int64("attempts", o.AttemptCount))
		adjusted++
	}
	return adjusted, nil
}
