package model

// 派生视图，不落库，由 AnalyticsService 按需从作答历史重算

type Severity string

const (
	SeverityCritical  Severity = "critical"
	SeverityImproving Severity = "improving"
	SeverityStrength  Severity = "strength"
)

type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// swagger:model StatsOverview
type StatsOverview struct {
	TotalAnswered    int            `json:"totalAnswered"`
	AverageScore     float64        `json:"averageScore"`
	StreakDays       int            `json:"streakDays"`
	ThisWeekChange   float64        `json:"thisWeekChange"` // 本周均分相对之前的百分比变化
	CategoryAverages CategoryScores `json:"categoryScores"` // 0-100
	EasyCount        int            `json:"easyCount"`
	MediumCount      int            `json:"mediumCount"`
	HardCount        int            `json:"hardCount"`
	Rating           int            `json:"rating"`
	RatingBand       string         `json:"ratingBand"`
	SkillRatings     SkillRatings   `json:"skillRatings"`
}

// GrowthExample 某弱项分类下的一次具体失分作答
type GrowthExample struct {
	AttemptID      uint    `json:"attemptId"`
	QuestionText   string  `json:"questionText"`
	WhatYouSaid    string  `json:"whatYouSaid"`
	WhatWasMissing string  `json:"whatWasMissing"`
	Score          float64 `json:"score"`
}

// GrowthArea 弱项分类报告，strength级别的分类不出现在报告里
// swagger:model GrowthArea
type GrowthArea struct {
	Category        Category        `json:"category"`
	Area            string          `json:"area"`
	Frequency       int             `json:"frequency"` // 0-100，均分越低越高
	Severity        Severity        `json:"severity"`
	RecentTrend     Trend           `json:"recentTrend"`
	Recommendations []string        `json:"recommendations"`
	Examples        []GrowthExample `json:"examples"`
}

// swagger:model PercentileRank
type PercentileRank struct {
	Percentile int `json:"percentile"` // "top X%"
	TotalUsers int `json:"totalUsers"`
}

// RatingHistoryPoint 评分曲线上的一个点，来自历史作答的快照
type RatingHistoryPoint struct {
	Date   string `json:"date"`
	Rating int    `json:"rating"`
	Change int    `json:"change"`
}

// RatingBand 评分段位名称
func RatingBand(rating int) string {
	switch {
	case rating < 1000:
		return "Entry Level PM"
	case rating < 1200:
		return "Associate PM"
	case rating < 1400:
		return "PM"
	case rating < 1600:
		return "Senior PM"
	case rating < 1800:
		return "Staff PM"
	case rating < 2000:
		return "Principal PM"
	}
	return "Legendary PM"
}
