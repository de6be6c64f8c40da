package service

import (
	"testing"
	"time"

	"pm_prep_backend/internal/model"
)

func day(offset int) time.Time {
	return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func TestComputeStreak(t *testing.T) {
	now := day(0)
	tests := []struct {
		name  string
		times []time.Time
		want  int
	}{
		{"no history", nil, 0},
		{"single practice today", []time.Time{day(0)}, 1},
		{"three consecutive days", []time.Time{day(0), day(-1), day(-2)}, 3},
		{"gap breaks streak", []time.Time{day(0), day(-3)}, 1},
		{"last practice yesterday still counts", []time.Time{day(-1), day(-2)}, 2},
		{"stale streak resets to zero", []time.Time{day(-2), day(-3)}, 0},
		{"same day twice counts once", []time.Time{day(0), day(0), day(-1)}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeStreak(tt.times, now); got != tt.want {
				t.Errorf("ComputeStreak = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNextStreak(t *testing.T) {
	now := day(0)
	yesterday := day(-1)
	threeDaysAgo := day(-3)

	tests := []struct {
		name    string
		last    *time.Time
		current int
		want    int
	}{
		{"first ever practice", nil, 0, 1},
		{"second practice same day", &now, 3, 3},
		{"continued from yesterday", &yesterday, 3, 4},
		{"broken streak restarts", &threeDaysAgo, 9, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nextStreak(tt.last, tt.current, now); got != tt.want {
				t.Errorf("nextStreak = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPercentileRank(t *testing.T) {
	tests := []struct {
		name    string
		ratings []int
		rating  int
		want    int
	}{
		{"middle of the pack", []int{1000, 1100, 1200, 1300, 1400}, 1200, 40},
		{"top player is top 0%", []int{1000, 1100, 1200, 1300, 1400}, 1400, 0},
		{"bottom player", []int{1000, 1100, 1200, 1300, 1400}, 1000, 80},
		{"only user", []int{1200}, 1200, 0},
		{"empty distribution", nil, 1200, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := percentileRank(tt.ratings, tt.rating); got != tt.want {
				t.Errorf("percentileRank = %d, want top %d%%", got, tt.want)
			}
		})
	}
}

func attemptWith(cat model.Category, catScore float64, score float64, createdAt time.Time) model.Attempt {
	a := model.Attempt{
		QuestionText: "q",
		Category:     cat,
		Score:        score,
		AnswerText:   "answer",
		Weaknesses:   model.StringList{"no metrics"},
	}
	a.CategoryScores.Set(cat, catScore)
	a.CreatedAt = createdAt
	return a
}

func TestAnalyzeGrowthAreasSeverityAndOrder(t *testing.T) {
	var attempts []model.Attempt
	// metrics惨不忍睹，design一般，strategy是强项
	for i := 0; i < 4; i++ {
		attempts = append(attempts, attemptWith(model.CategoryMetrics, 3, 3, day(-i)))
		attempts = append(attempts, attemptWith(model.CategoryDesign, 6, 6, day(-i)))
		attempts = append(attempts, attemptWith(model.CategoryStrategy, 9, 9, day(-i)))
	}

	areas := analyzeGrowthAreas(attempts)
	if len(areas) != 2 {
		t.Fatalf("got %d areas, want 2 (strength filtered out)", len(areas))
	}

	if areas[0].Category != model.CategoryMetrics || areas[0].Severity != model.SeverityCritical {
		t.Errorf("areas[0] = %s/%s, want metrics/critical", areas[0].Category, areas[0].Severity)
	}
	if areas[0].Frequency != 70 {
		t.Errorf("metrics frequency = %d, want 70", areas[0].Frequency)
	}
	if areas[1].Category != model.CategoryDesign || areas[1].Severity != model.SeverityImproving {
		t.Errorf("areas[1] = %s/%s, want design/improving", areas[1].Category, areas[1].Severity)
	}
	if len(areas[0].Recommendations) == 0 {
		t.Error("critical area has no recommendations")
	}
	// 4次低分作答全部入选，不足上限时有多少带多少
	if len(areas[0].Examples) != 4 {
		t.Errorf("got %d examples, want 4", len(areas[0].Examples))
	}
}

func TestAnalyzeGrowthAreasCriticalFirstOnFrequencyTie(t *testing.T) {
	// design均分4.96和strategy均分5.0的失分频度都取整到50，
	// 但critical必须排在improving前面
	attempts := []model.Attempt{
		attemptWith(model.CategoryStrategy, 5.0, 5, day(0)),
		attemptWith(model.CategoryDesign, 4.96, 5, day(0)),
	}

	areas := analyzeGrowthAreas(attempts)
	if len(areas) != 2 {
		t.Fatalf("got %d areas, want 2", len(areas))
	}
	if areas[0].Frequency != areas[1].Frequency {
		t.Fatalf("frequencies differ (%d vs %d), tie case broken", areas[0].Frequency, areas[1].Frequency)
	}
	if areas[0].Category != model.CategoryDesign || areas[0].Severity != model.SeverityCritical {
		t.Errorf("areas[0] = %s/%s, want design/critical ahead of the improving area",
			areas[0].Category, areas[0].Severity)
	}
}

func TestGrowthExamplesCapAndKeywordMatch(t *testing.T) {
	weaknesses := model.StringList{"weak structure overall", "no specific metric was defined"}
	var attempts []model.Attempt
	for i := 0; i < 6; i++ {
		a := attemptWith(model.CategoryMetrics, float64(i)+1, float64(i)+1, day(-i))
		a.Weaknesses = weaknesses
		attempts = append(attempts, a)
	}

	examples := growthExamples(attempts, model.CategoryMetrics)
	if len(examples) != maxGrowthExamples {
		t.Fatalf("got %d examples, want %d", len(examples), maxGrowthExamples)
	}
	// 最差的排最前
	if examples[0].Score != 1 || examples[4].Score != 5 {
		t.Errorf("examples not sorted worst-first: scores %v..%v", examples[0].Score, examples[4].Score)
	}
	for i, ex := range examples {
		if ex.WhatWasMissing != "no specific metric was defined" {
			t.Errorf("example %d annotated %q, want the metrics-matched weakness", i, ex.WhatWasMissing)
		}
	}
}

func TestRelevantWeaknessFallbacks(t *testing.T) {
	// 关键词匹配不到时取第一条弱点
	a := attemptWith(model.CategoryDesign, 4, 4, day(0))
	a.Weaknesses = model.StringList{"weak structure overall", "too verbose"}
	if got := relevantWeakness(a, model.CategoryDesign); got != "weak structure overall" {
		t.Errorf("relevantWeakness = %q, want first weakness", got)
	}

	// 连弱点都没有时退回整体反馈
	a.Weaknesses = nil
	a.DetailedFeedback = "overall feedback"
	if got := relevantWeakness(a, model.CategoryDesign); got != "overall feedback" {
		t.Errorf("relevantWeakness = %q, want detailed feedback fallback", got)
	}
}

func TestAnalyzeGrowthAreasIdempotent(t *testing.T) {
	attempts := []model.Attempt{
		attemptWith(model.CategoryMetrics, 4, 4, day(0)),
		attemptWith(model.CategoryMetrics, 5, 5, day(-1)),
	}

	first := analyzeGrowthAreas(attempts)
	second := analyzeGrowthAreas(attempts)
	if len(first) != len(second) {
		t.Fatalf("area count differs between runs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Category != second[i].Category || first[i].Frequency != second[i].Frequency {
			t.Errorf("area %d differs between runs", i)
		}
	}
}

func TestScoreTrend(t *testing.T) {
	// 按时间倒序：最近5次明显高于整体
	recovering := []float64{8, 8, 8, 8, 8, 3, 3, 3, 3, 3}
	if got := scoreTrend(recovering, mean(recovering)); got != model.TrendUp {
		t.Errorf("trend = %s, want up", got)
	}

	declining := []float64{3, 3, 3, 3, 3, 8, 8, 8, 8, 8}
	if got := scoreTrend(declining, mean(declining)); got != model.TrendDown {
		t.Errorf("trend = %s, want down", got)
	}

	flat := []float64{6, 6, 6, 6}
	if got := scoreTrend(flat, mean(flat)); got != model.TrendStable {
		t.Errorf("trend = %s, want stable", got)
	}
}

func TestFrequencyScore(t *testing.T) {
	tests := []struct {
		avg  float64
		want int
	}{
		{3, 70},
		{6.5, 35},
		{10, 0},
		{0, 100},
		{-1, 100}, // 越界夹到0-100
	}
	for _, tt := range tests {
		if got := frequencyScore(tt.avg); got != tt.want {
			t.Errorf("frequencyScore(%.1f) = %d, want %d", tt.avg, got, tt.want)
		}
	}
}

func TestCategoryBreakdown(t *testing.T) {
	attempts := []model.Attempt{
		attemptWith(model.CategoryMetrics, 6, 6, day(0)),
		attemptWith(model.CategoryMetrics, 8, 8, day(-1)),
		attemptWith(model.CategoryDesign, 5, 5, day(0)),
	}

	out := categoryBreakdown(attempts)
	if got := out.Get(model.CategoryMetrics); got != 70 {
		t.Errorf("metrics = %.1f, want 70", got)
	}
	if got := out.Get(model.CategoryDesign); got != 50 {
		t.Errorf("design = %.1f, want 50", got)
	}
	// 没有样本的维度保持0，不编造分数
	if got := out.Get(model.CategoryStrategy); got != 0 {
		t.Errorf("strategy = %.1f, want 0", got)
	}
}

func TestWeeklyChange(t *testing.T) {
	attempts := []model.Attempt{
		attemptWith(model.CategoryMetrics, 8, 8, day(-1)),
		attemptWith(model.CategoryMetrics, 8, 8, day(-2)),
		attemptWith(model.CategoryMetrics, 4, 4, day(-20)),
		attemptWith(model.CategoryMetrics, 4, 4, day(-21)),
	}

	// (8-4)/4 = +100%
	if got := weeklyChange(attempts, day(0)); got != 100 {
		t.Errorf("weeklyChange = %.1f, want 100", got)
	}

	onlyRecent := attempts[:2]
	if got := weeklyChange(onlyRecent, day(0)); got != 0 {
		t.Errorf("weeklyChange with no baseline = %.1f, want 0", got)
	}
}
