package model

// DifficultyLabel 题目的描述性难度，仅用于展示与筛选统计；
// 匹配和评分实际依据 EloDifficulty
type DifficultyLabel string

const (
	DifficultyEasy   DifficultyLabel = "easy"
	DifficultyMedium DifficultyLabel = "medium"
	DifficultyHard   DifficultyLabel = "hard"
)

// swagger:model Question
type Question struct {
	BaseModel
	Text            string          `gorm:"type:text;not null" json:"text"`
	Category        Category        `gorm:"size:32;index;not null" json:"category"`
	DifficultyLabel DifficultyLabel `gorm:"size:16;not null" json:"difficulty"`
	EloDifficulty   int             `gorm:"index;not null;default:1400" json:"eloDifficulty"`
	Skills          SkillList       `gorm:"type:json" json:"skills"`
	Hint            string          `gorm:"type:text" json:"hint"`
	Enabled         bool            `gorm:"default:true" json:"-"`
}

func (Question) TableName() string {
	return "questions"
}
