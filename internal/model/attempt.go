package model

// Attempt 一次作答记录，插入后不再修改。申诉(pushback)产生的调整分
// 只作展示，不回写这里的score和评分字段。
// swagger:model Attempt
type Attempt struct {
	BaseModel
	UserID     uint `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	QuestionID uint `gorm:"index;type:bigint unsigned;not null" json:"questionId"`

	// 题目快照，题库后续调整不影响历史展示
	QuestionText    string          `gorm:"type:text" json:"questionText"`
	Category        Category        `gorm:"size:32;index" json:"category"`
	DifficultyLabel DifficultyLabel `gorm:"size:16" json:"difficulty"`

	AnswerText       string          `gorm:"type:text;not null" json:"answerText"`
	Score            float64         `gorm:"not null" json:"score"`
	Strengths        StringList      `gorm:"type:json" json:"strengths"`
	Weaknesses       StringList      `gorm:"type:json" json:"weaknesses"`
	DetailedFeedback string          `gorm:"type:text" json:"detailedFeedback"`
	CategoryScores   CategoryScores  `gorm:"type:json" json:"categoryScores"`
	SkillScores      *SkillScores    `gorm:"type:json" json:"skillScores,omitempty"`

	RatingBefore int `gorm:"not null" json:"ratingBefore"`
	RatingAfter  int `gorm:"not null" json:"ratingAfter"`
	RatingChange int `gorm:"not null" json:"ratingChange"`
}

func (Attempt) TableName() string {
	return "user_sessions"
}
