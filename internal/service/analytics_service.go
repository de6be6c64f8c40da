package service

import (
	"context"
	"encoding/json"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"pm_prep_backend/internal/model"
	"pm_prep_backend/internal/repository"
	"pm_prep_backend/pkg/logger"
)

const (
	criticalThreshold  = 5.0
	improvingThreshold = 7.0
	trendSampleSize    = 5
	trendEpsilon       = 0.5
	maxGrowthExamples  = 5

	ratingsCacheKey = "percentile:ratings"
	ratingsCacheTTL = 5 * time.Minute
)

// AnalyticsService 把作答历史聚合成总览、弱项报告和百分位排名。
// 所有统计都是现算的派生值，不单独落库。
type AnalyticsService struct {
	attempts attemptHistorySource
	stats    *repository.UserStatsRepository
	redis    *redis.Client
}

type attemptHistorySource interface {
	FindAllByUser(userID uint) ([]model.Attempt, error)
}

func NewAnalyticsService(attempts attemptHistorySource, stats *repository.UserStatsRepository, rdb *redis.Client) *AnalyticsService {
	return &AnalyticsService{attempts: attempts, stats: stats, redis: rdb}
}

// ComputeStreak 从作答日期算连续练习天数。最近一次练习早于昨天
// 即视为断档，返回0。
func ComputeStreak(practiceTimes []time.Time, now time.Time) int {
	if len(practiceTimes) == 0 {
		return 0
	}

	seen := make(map[string]bool, len(practiceTimes))
	days := make([]time.Time, 0, len(practiceTimes))
	for _, t := range practiceTimes {
		day := t.Truncate(24 * time.Hour)
		key := day.Format("2006-01-02")
		if !seen[key] {
			seen[key] = true
			days = append(days, day)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	today := now.Truncate(24 * time.Hour)
	if gap := int(today.Sub(days[0]).Hours() / 24); gap > 1 {
		return 0
	}

	streak := 1
	for i := 1; i < len(days); i++ {
		if int(days[i-1].Sub(days[i]).Hours()/24) == 1 {
			streak++
		} else {
			break
		}
	}
	return streak
}

// GetOverview 练习总览。连胜从历史现算，避免展示过期的连胜数。
func (s *AnalyticsService) GetOverview(userID uint) (*model.StatsOverview, error) {
	attempts, err := s.attempts.FindAllByUser(userID)
	if err != nil {
		return nil, err
	}
	stats, err := s.stats.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}

	overview := &model.StatsOverview{
		TotalAnswered: len(attempts),
		Rating:        stats.Rating,
		RatingBand:    model.RatingBand(stats.Rating),
		SkillRatings:  stats.SkillRatings,
	}

	if len(attempts) == 0 {
		return overview, nil
	}

	times := make([]time.Time, len(attempts))
	sum := 0.0
	for i, a := range attempts {
		times[i] = a.CreatedAt
		sum += a.Score
		switch a.DifficultyLabel {
		case model.DifficultyEasy:
			overview.EasyCount++
		case model.DifficultyMedium:
			overview.MediumCount++
		case model.DifficultyHard:
			overview.HardCount++
		}
	}
	overview.AverageScore = math.Round(sum/float64(len(attempts))*10) / 10
	overview.StreakDays = ComputeStreak(times, time.Now())
	overview.ThisWeekChange = weeklyChange(attempts, time.Now())
	overview.CategoryAverages = categoryBreakdown(attempts)
	return overview, nil
}

// categoryBreakdown 各维度均分换算到0-100
func categoryBreakdown(attempts []model.Attempt) model.CategoryScores {
	var out model.CategoryScores
	for _, cat := range model.AllCategories {
		sum, n := 0.0, 0
		for _, a := range attempts {
			if v := a.CategoryScores.Get(cat); v > 0 {
				sum += v
				n++
			}
		}
		if n > 0 {
			out.Set(cat, math.Round(sum/float64(n)*10))
		}
	}
	return out
}

// weeklyChange 近7天均分相对更早均分的百分比变化
func weeklyChange(attempts []model.Attempt, now time.Time) float64 {
	cutoff := now.AddDate(0, 0, -7)
	recentSum, recentN := 0.0, 0
	olderSum, olderN := 0.0, 0
	for _, a := range attempts {
		if a.CreatedAt.After(cutoff) {
			recentSum += a.Score
			recentN++
		} else {
			olderSum += a.Score
			olderN++
		}
	}
	if recentN == 0 || olderN == 0 {
		return 0
	}
	olderAvg := olderSum / float64(olderN)
	if olderAvg == 0 {
		return 0
	}
	recentAvg := recentSum / float64(recentN)
	return math.Round((recentAvg-olderAvg)/olderAvg*1000) / 10
}

// GetGrowthAreas 弱项报告，按失分频度降序
func (s *AnalyticsService) GetGrowthAreas(userID uint) ([]model.GrowthArea, error) {
	attempts, err := s.attempts.FindAllByUser(userID)
	if err != nil {
		return nil, err
	}
	return analyzeGrowthAreas(attempts), nil
}

func analyzeGrowthAreas(attempts []model.Attempt) []model.GrowthArea {
	areas := make([]model.GrowthArea, 0, len(model.AllCategories))

	for _, cat := range model.AllCategories {
		var scores []float64
		for _, a := range attempts {
			if v := a.CategoryScores.Get(cat); v > 0 {
				scores = append(scores, v)
			}
		}
		if len(scores) == 0 {
			continue
		}

		avg := mean(scores)
		severity := model.SeverityStrength
		switch {
		case avg < criticalThreshold:
			severity = model.SeverityCritical
		case avg < improvingThreshold:
			severity = model.SeverityImproving
		}
		if severity == model.SeverityStrength {
			continue
		}

		area := model.GrowthArea{
			Category:        cat,
			Area:            cat.DisplayName(),
			Frequency:       frequencyScore(avg),
			Severity:        severity,
			RecentTrend:     scoreTrend(scores, avg),
			Recommendations: categoryRecommendations[cat],
			Examples:        growthExamples(attempts, cat),
		}
		areas = append(areas, area)
	}

	// critical在前，同档内按失分频度降序
	sort.SliceStable(areas, func(i, j int) bool {
		iCrit := areas[i].Severity == model.SeverityCritical
		jCrit := areas[j].Severity == model.SeverityCritical
		if iCrit != jCrit {
			return iCrit
		}
		return areas[i].Frequency > areas[j].Frequency
	})
	return areas
}

func mean(scores []float64) float64 {
	sum := 0.0
	for _, v := range scores {
		sum += v
	}
	return sum / float64(len(scores))
}

// frequencyScore 均分越低失分越频繁，换算到0-100
func frequencyScore(avg float64) int {
	f := int(math.Round((10 - avg) * 10))
	if f < 0 {
		return 0
	}
	if f > 100 {
		return 100
	}
	return f
}

// scoreTrend 最近几次相对整体均分的走向。scores按时间倒序排列。
func scoreTrend(scores []float64, overallAvg float64) model.Trend {
	n := trendSampleSize
	if len(scores) < n {
		n = len(scores)
	}
	recentAvg := mean(scores[:n])
	switch {
	case recentAvg > overallAvg+trendEpsilon:
		return model.TrendUp
	case recentAvg < overallAvg-trendEpsilon:
		return model.TrendDown
	}
	return model.TrendStable
}

// growthExamples 该维度下失分最重的几次作答，最差的排在前面
func growthExamples(attempts []model.Attempt, cat model.Category) []model.GrowthExample {
	type scored struct {
		attempt model.Attempt
		score   float64
	}
	var candidates []scored
	for _, a := range attempts {
		if v := a.CategoryScores.Get(cat); v > 0 && v < improvingThreshold {
			candidates = append(candidates, scored{a, v})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score < candidates[j].score
	})

	examples := make([]model.GrowthExample, 0, maxGrowthExamples)
	for _, c := range candidates {
		if len(examples) == maxGrowthExamples {
			break
		}
		examples = append(examples, model.GrowthExample{
			AttemptID:      c.attempt.ID,
			QuestionText:   c.attempt.QuestionText,
			WhatYouSaid:    truncate(c.attempt.AnswerText, 200),
			WhatWasMissing: relevantWeakness(c.attempt, cat),
			Score:          c.score,
		})
	}
	return examples
}

// 各维度的提示词，挑弱点文案时优先选和该维度相关的那条
var categoryWeaknessKeywords = map[model.Category][]string{
	model.CategoryStrategy:       {"strateg", "market", "competit", "vision"},
	model.CategoryMetrics:        {"metric", "measure", "kpi", "quantif"},
	model.CategoryPrioritization: {"priorit", "trade-off", "rice", "impact"},
	model.CategoryDesign:         {"user", "design", "ux", "experience"},
}

// relevantWeakness 先按维度关键词匹配弱点，匹配不到退回第一条，
// 连弱点都没记录时用整体反馈兜底
func relevantWeakness(a model.Attempt, cat model.Category) string {
	for _, w := range a.Weaknesses {
		lower := strings.ToLower(w)
		for _, kw := range categoryWeaknessKeywords[cat] {
			if strings.Contains(lower, kw) {
				return w
			}
		}
	}
	if len(a.Weaknesses) > 0 {
		return a.Weaknesses[0]
	}
	return a.DetailedFeedback
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return strings.TrimSpace(s[:max]) + "…"
}

var categoryRecommendations = map[model.Category][]string{
	model.CategoryStrategy: {
		"Start answers with the business goal before diving into solutions",
		"Name at least one competitor move your plan defends against",
		"Tie every initiative to a measurable company-level outcome",
	},
	model.CategoryMetrics: {
		"Define one north-star metric and two guardrail metrics per answer",
		"Quantify expected impact - even a rough estimate beats none",
		"Distinguish leading indicators from lagging ones explicitly",
	},
	model.CategoryPrioritization: {
		"State what you are explicitly NOT doing and why",
		"Compare options on effort vs impact before choosing",
		"Call out the riskiest assumption and how you'd de-risk it first",
	},
	model.CategoryDesign: {
		"Walk through the user journey step by step before proposing UI",
		"Identify the underserved user segment the design targets",
		"Describe the failure states, not just the happy path",
	},
}

// percentileRank 用户处于前百分之几，0表示无人评分更高。
// 调用方先GetOrCreate过自己的档案，评分列表不会为空。
func percentileRank(ratings []int, rating int) int {
	if len(ratings) == 0 {
		return 0
	}
	above := 0
	for _, r := range ratings {
		if r > rating {
			above++
		}
	}
	return int(math.Ceil(float64(above) / float64(len(ratings)) * 100))
}

// GetPercentile 全体评分分布里的排名。评分列表走Redis短缓存，
// 避免每次请求都全表扫。
func (s *AnalyticsService) GetPercentile(ctx context.Context, userID uint) (*model.PercentileRank, error) {
	stats, err := s.stats.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}

	ratings, err := s.loadRatings(ctx)
	if err != nil {
		return nil, err
	}

	return &model.PercentileRank{
		Percentile: percentileRank(ratings, stats.Rating),
		TotalUsers: len(ratings),
	}, nil
}

func (s *AnalyticsService) loadRatings(ctx context.Context) ([]int, error) {
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, ratingsCacheKey).Bytes(); err == nil {
			var ratings []int
			if json.Unmarshal(cached, &ratings) == nil {
				return ratings, nil
			}
		}
	}

	ratings, err := s.stats.AllRatings()
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if data, err := json.Marshal(ratings); err == nil {
			if err := s.redis.Set(ctx, ratingsCacheKey, data, ratingsCacheTTL).Err(); err != nil {
				logger.Log.Warn("Failed to cache ratings list", zap.Error(err))
			}
		}
	}
	return ratings, nil
}

// RefreshRatingsCache 后台定时预热评分列表缓存
func (s *AnalyticsService) RefreshRatingsCache(ctx context.Context) error {
	if s.redis == nil {
		return nil
	}
	ratings, err := s.stats.AllRatings()
	if err != nil {
		return err
	}
	data, err := json.Marshal(ratings)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, ratingsCacheKey, data, ratingsCacheTTL).Err()
}

// GetRatingHistory 评分曲线，按时间升序
func (s *AnalyticsService) GetRatingHistory(userID uint) ([]model.RatingHistoryPoint, error) {
	attempts, err := s.attempts.FindAllByUser(userID)
	if err != nil {
		return nil, err
	}

	points := make([]model.RatingHistoryPoint, 0, len(attempts))
	for i := len(attempts) - 1; i >= 0; i-- {
		a := attempts[i]
		points = append(points, model.RatingHistoryPoint{
			Date:   a.CreatedAt.Format("2006-01-02"),
			Rating: a.RatingAfter,
			Change: a.RatingChange,
		})
	}
	return points, nil
}
