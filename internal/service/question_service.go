package service

import (
	"errors"
	"math/rand"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"pm_prep_backend/internal/model"
	"pm_prep_backend/internal/util"
	"pm_prep_backend/pkg/logger"
)

// 自适应选题参数。窗口以用户当前评分为中心，按近期表现和
// 用户偏好平移，取不到题时逐级放宽。近期作答不足3次不做
// 表现调整，避免单次高分/低分把窗口拉偏。
const (
	baseWindow          = 150
	perfAdjustment      = 100
	prefAdjustment      = 150
	fallbackWindow      = 300
	recentScoreCount    = 5
	minScoresForTrend   = 3
	coastingThreshold   = 7.5
	strugglingThreshold = 4.5
	candidatePoolSize   = 50
)

// questionPool 采样器需要的题库能力
type questionPool interface {
	FindByID(id uint) (*model.Question, error)
	FindByDifficultyRange(min, max, limit int) ([]model.Question, error)
	FindAny(limit int) ([]model.Question, error)
}

type recentScoreSource interface {
	FindRecentScores(userID uint, n int) ([]float64, error)
}

type QuestionService struct {
	pool    questionPool
	scores  recentScoreSource
	randInt func(n int) int
}

func NewQuestionService(pool questionPool, scores recentScoreSource) *QuestionService {
	return &QuestionService{pool: pool, scores: scores, randInt: rand.Intn}
}

// DifficultyPreference 用户手选的难度倾向，空值表示跟随评分
type DifficultyPreference string

const (
	PreferEasier DifficultyPreference = "easier"
	PreferHarder DifficultyPreference = "harder"
)

// targetWindow 计算选题难度区间，两端都夹在评分上下限内。
// recentAvg<0表示近期作答不足，不做表现调整。
func targetWindow(rating int, recentAvg float64, pref DifficultyPreference) (min, max int) {
	adjust := 0

	// 近期状态好就往上够一够，状态差就降降难度
	if recentAvg >= 0 {
		if recentAvg > coastingThreshold {
			adjust += perfAdjustment
		} else if recentAvg < strugglingThreshold {
			adjust -= perfAdjustment
		}
	}

	switch pref {
	case PreferEasier:
		adjust -= prefAdjustment
	case PreferHarder:
		adjust += prefAdjustment
	}

	return clampRating(rating - baseWindow + adjust), clampRating(rating + baseWindow + adjust)
}

// NextQuestion 为用户挑一道难度匹配的题。窗口内没题则放宽到
// ±300，再没有就全库随机，题库为空时返回ErrNoQuestionsAvailable。
func (s *QuestionService) NextQuestion(userID uint, rating int, pref DifficultyPreference) (*model.Question, error) {
	recentAvg := -1.0
	if scores, err := s.scores.FindRecentScores(userID, recentScoreCount); err != nil {
		logger.Log.Warn("Failed to load recent scores, ignoring performance adjustment",
			zap.Uint("user_id", userID), zap.Error(err))
	} else if len(scores) >= minScoresForTrend {
		sum := 0.0
		for _, sc := range scores {
			sum += sc
		}
		recentAvg = sum / float64(len(scores))
	}

	min, max := targetWindow(rating, recentAvg, pref)

	candidates, err := s.pool.FindByDifficultyRange(min, max, candidatePoolSize)
	if err != nil {
		return nil, err
	}

	if len(candidates) == 0 {
		candidates, err = s.pool.FindByDifficultyRange(rating-fallbackWindow, rating+fallbackWindow, candidatePoolSize)
		if err != nil {
			return nil, err
		}
	}

	if len(candidates) == 0 {
		candidates, err = s.pool.FindAny(candidatePoolSize)
		if err != nil {
			return nil, err
		}
	}

	if len(candidates) == 0 {
		return nil, util.ErrNoQuestionsAvailable
	}

	q := candidates[s.randInt(len(candidates))]
	return &q, nil
}

func (s *QuestionService) GetByID(id uint) (*model.Question, error) {
	q, err := s.pool.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuestionNotFound
	}
	return q, err
}
