package service

import (
	"math"

	"pm_prep_backend/internal/model"
)

// K因子策略：低分的惩罚乘数大于高分的奖励乘数，
// 评分跌得比涨得快，抑制高分运气带来的通胀
const (
	DefaultKFactor = 40.0
	// 技能评分单点样本更少，用更小的K降低波动
	SkillKFactor = 20.0

	poorScoreThreshold      = 4.0
	excellentScoreThreshold = 9.0
	poorKMultiplier         = 1.5
	excellentKMultiplier    = 1.25
)

// CalculateRatingChange Elo式评分更新：把0-10的评估分视为对阵题目难度的
// 胜率观测。返回新评分和本次变化量；只截断最终评分，不截断返回的delta，
// 保证未触界时 newRating == current + delta 恒成立。
func CalculateRatingChange(current, questionDifficulty int, score float64, kBase float64) (newRating, delta int) {
	expected := 1.0 / (1.0 + math.Pow(10, float64(questionDifficulty-current)/400.0))
	actual := score / 10.0

	k := adjustedKFactor(score, kBase)
	delta = int(math.Round(k * (actual - expected)))

	newRating = clampRating(current + delta)
	return newRating, delta
}

func adjustedKFactor(score, kBase float64) float64 {
	switch {
	case score < poorScoreThreshold:
		return kBase * poorKMultiplier
	case score >= excellentScoreThreshold:
		return kBase * excellentKMultiplier
	}
	return kBase
}

func clampRating(rating int) int {
	if rating < model.RatingFloor {
		return model.RatingFloor
	}
	if rating > model.RatingCeiling {
		return model.RatingCeiling
	}
	return rating
}

// ApplySkillRatingChanges 按评估器给出的技能子分数逐项更新技能评分。
// 子分数为0表示本次未评该项，跳过。
func ApplySkillRatingChanges(ratings *model.SkillRatings, scores *model.SkillScores, questionDifficulty int) {
	if scores == nil {
		return
	}
	for _, sk := range model.AllSkills {
		s := scores.Get(sk)
		if s <= 0 {
			continue
		}
		next, _ := CalculateRatingChange(ratings.Get(sk), questionDifficulty, s, SkillKFactor)
		ratings.Set(sk, next)
	}
}
