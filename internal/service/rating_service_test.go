package service

import (
	"testing"

	"pm_prep_backend/internal/model"
)

func TestCalculateRatingChange(t *testing.T) {
	tests := []struct {
		name       string
		rating     int
		difficulty int
		score      float64
		wantRating int
		wantDelta  int
	}{
		// 同分对局，期望胜率0.5
		{"even match neutral score", 1200, 1200, 5, 1200, 0},
		{"even match perfect score", 1200, 1200, 10, 1225, 25},
		{"even match poor score", 1200, 1200, 2, 1182, -18},
		// 挑战高难度题，得分一般也能涨分
		{"underdog decent score", 1200, 1600, 6, 1220, 20},
		// 做简单题砸了，惩罚加重
		{"favorite fails easy question", 1600, 1200, 3, 1563, -37},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotRating, gotDelta := CalculateRatingChange(tt.rating, tt.difficulty, tt.score, DefaultKFactor)
			if gotRating != tt.wantRating || gotDelta != tt.wantDelta {
				t.Errorf("CalculateRatingChange(%d, %d, %.1f) = (%d, %d), want (%d, %d)",
					tt.rating, tt.difficulty, tt.score, gotRating, gotDelta, tt.wantRating, tt.wantDelta)
			}
		})
	}
}

func TestCalculateRatingChangeClampsToFloor(t *testing.T) {
	// 截断作用于最终评分，delta保留未截断的变化量
	gotRating, gotDelta := CalculateRatingChange(810, 800, 0, DefaultKFactor)
	if gotRating != model.RatingFloor {
		t.Errorf("rating = %d, want clamped to %d", gotRating, model.RatingFloor)
	}
	if gotDelta != -31 {
		t.Errorf("delta = %d, want -31", gotDelta)
	}
}

func TestCalculateRatingChangeClampsToCeiling(t *testing.T) {
	gotRating, _ := CalculateRatingChange(model.RatingCeiling-3, model.RatingCeiling, 10, DefaultKFactor)
	if gotRating != model.RatingCeiling {
		t.Errorf("rating = %d, want clamped to %d", gotRating, model.RatingCeiling)
	}
}

func TestCalculateRatingChangeMonotonicInScore(t *testing.T) {
	prev := -1000
	for score := 0.0; score <= 10; score++ {
		_, delta := CalculateRatingChange(1400, 1400, score, DefaultKFactor)
		if delta < prev {
			t.Fatalf("delta decreased at score %.0f: %d < %d", score, delta, prev)
		}
		prev = delta
	}
}

func TestAdjustedKFactor(t *testing.T) {
	tests := []struct {
		score float64
		want  float64
	}{
		{2, 60}, // 低分惩罚 x1.5
		{3.9, 60},
		{4, 40},
		{7, 40},
		{8.9, 40},
		{9, 50}, // 高分奖励 x1.25
		{10, 50},
	}
	for _, tt := range tests {
		if got := adjustedKFactor(tt.score, DefaultKFactor); got != tt.want {
			t.Errorf("adjustedKFactor(%.1f, 40) = %.1f, want %.1f", tt.score, got, tt.want)
		}
	}
}

func TestApplySkillRatingChanges(t *testing.T) {
	ratings := model.DefaultSkillRatings()
	scores := &model.SkillScores{
		ProblemFraming:    9,
		MetricsDefinition: 2,
		// 其余技能为0，表示本题没有覆盖，不应被动到
	}

	ApplySkillRatingChanges(&ratings, scores, 1200)

	if ratings.ProblemFraming <= 1200 {
		t.Errorf("ProblemFraming = %d, want > 1200 after high score", ratings.ProblemFraming)
	}
	if ratings.MetricsDefinition >= 1200 {
		t.Errorf("MetricsDefinition = %d, want < 1200 after low score", ratings.MetricsDefinition)
	}
	if ratings.Communication != 1200 {
		t.Errorf("Communication = %d, want untouched 1200", ratings.Communication)
	}
}

func TestApplySkillRatingChangesNilScores(t *testing.T) {
	ratings := model.DefaultSkillRatings()
	ApplySkillRatingChanges(&ratings, nil, 1400)
	if ratings != model.DefaultSkillRatings() {
		t.Error("ratings changed despite nil skill scores")
	}
}
