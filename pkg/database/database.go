package database

import (
	"fmt"
	"log"

	"pm_prep_backend/internal/config"
	"pm_prep_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB 建立MySQL连接。migrate为真时执行AutoMigrate并在空库时
// 植入默认题库；生产环境默认跳过迁移，由 -migrate 标志显式触发。
func InitDB(cfg *config.DatabaseConfig, migrate bool) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if migrate {
		err = db.AutoMigrate(
			&model.User{},
			&model.Question{},
			&model.Attempt{},
			&model.UserStats{},
		)

		if err != nil {
			return nil, err
		}

		log.Println("Database migration completed")

		// 默认题库（空库时插入，elo_difficulty 按难度分布覆盖各个评分段）
		var count int64
		db.Model(&model.Question{}).Count(&count)
		if count == 0 {
			for _, q := range defaultQuestions() {
				db.Create(&q)
			}
			log.Printf("Seeded %d default questions", len(defaultQuestions()))
		}
	}

	return db, nil
}

func defaultQuestions() []model.Question {
	return []model.Question{
		{
			Text:            "Define the north star metric for a meditation app. Explain why you chose it and how it connects to business success.",
			Category:        model.CategoryMetrics,
			DifficultyLabel: model.DifficultyEasy,
			EloDifficulty:   1000,
			Skills:          model.SkillList{model.SkillMetricsDefinition, model.SkillStrategicThinking},
			Hint:            "A good north star metric should reflect user value, be measurable, and correlate with revenue growth.",
			Enabled:         true,
		},
		{
			Text:            "Design a notification system for a project management tool. What types of notifications would you include and how would you prevent notification fatigue?",
			Category:        model.CategoryDesign,
			DifficultyLabel: model.DifficultyEasy,
			EloDifficulty:   1050,
			Skills:          model.SkillList{model.SkillUserEmpathy, model.SkillSystemsThinking},
			Hint:            "Think about urgency levels, user preferences, and smart defaults. Consider batching and timing.",
			Enabled:         true,
		},
		{
			Text:            "Your app's onboarding completion rate is 40%. What would you look at first, and what single change would you test?",
			Category:        model.CategoryMetrics,
			DifficultyLabel: model.DifficultyEasy,
			EloDifficulty:   1120,
			Skills:          model.SkillList{model.SkillProblemFraming, model.SkillExperimentation},
			Hint:            "Funnel the onboarding into steps and find the biggest drop-off before proposing a fix.",
			Enabled:         true,
		},
		{
			Text:            "Your CEO wants to launch 5 new features this quarter, but you have resources for only 2. Walk me through your prioritization framework.",
			Category:        model.CategoryPrioritization,
			DifficultyLabel: model.DifficultyMedium,
			EloDifficulty:   1300,
			Skills:          model.SkillList{model.SkillPrioritization, model.SkillStakeholderMgmt, model.SkillCommunication},
			Hint:            "Think about frameworks like RICE, ICE, or impact vs effort matrices. Consider stakeholder alignment too.",
			Enabled:         true,
		},
		{
			Text:            "How would you design an onboarding experience for a new B2B SaaS product targeting enterprise customers?",
			Category:        model.CategoryDesign,
			DifficultyLabel: model.DifficultyMedium,
			EloDifficulty:   1350,
			Skills:          model.SkillList{model.SkillUserEmpathy, model.SkillStakeholderMgmt},
			Hint:            "Consider the different stakeholders in B2B: admins, end users, IT. Think about progressive disclosure.",
			Enabled:         true,
		},
		{
			Text:            "You have three feature requests: one from sales (urgent), one from your biggest customer, and one that improves technical debt. How do you decide?",
			Category:        model.CategoryPrioritization,
			DifficultyLabel: model.DifficultyMedium,
			EloDifficulty:   1400,
			Skills:          model.SkillList{model.SkillPrioritization, model.SkillTradeoffAnalysis, model.SkillTechnicalJudgment},
			Hint:            "Consider short-term vs long-term impact, the cost of delay, and how to communicate trade-offs to stakeholders.",
			Enabled:         true,
		},
		{
			Text:            "A competitor just shipped a free tier of your core paid feature. What do you do in the next 90 days?",
			Category:        model.CategoryStrategy,
			DifficultyLabel: model.DifficultyMedium,
			EloDifficulty:   1450,
			Skills:          model.SkillList{model.SkillMarketSense, model.SkillStrategicThinking, model.SkillRiskAssessment},
			Hint:            "Resist the reflex to match pricing. Think about differentiation, segments that still pay, and what data you need.",
			Enabled:         true,
		},
		{
			Text:            "You're the PM for a ride-sharing app. Monthly active users have dropped 15% over the last quarter. How would you diagnose the root cause and what metrics would you track?",
			Category:        model.CategoryMetrics,
			DifficultyLabel: model.DifficultyHard,
			EloDifficulty:   1550,
			Skills:          model.SkillList{model.SkillProblemFraming, model.SkillMetricsDefinition, model.SkillSystemsThinking},
			Hint:            "Consider breaking down the user journey into stages and looking at drop-off points. Think about cohort analysis and segmentation.",
			Enabled:         true,
		},
		{
			Text:            "Your company is considering entering the food delivery market. How would you assess whether this is a good strategic move?",
			Category:        model.CategoryStrategy,
			DifficultyLabel: model.DifficultyHard,
			EloDifficulty:   1620,
			Skills:          model.SkillList{model.SkillStrategicThinking, model.SkillMarketSense, model.SkillRiskAssessment},
			Hint:            "Think about market size, competition, unit economics, and how it fits with your company's core competencies.",
			Enabled:         true,
		},
		{
			Text:            "Your product has achieved product-market fit in one market. How would you approach expanding to a new geography?",
			Category:        model.CategoryStrategy,
			DifficultyLabel: model.DifficultyHard,
			EloDifficulty:   1700,
			Skills:          model.SkillList{model.SkillStrategicThinking, model.SkillAmbiguityNav, model.SkillMarketSense},
			Hint:            "Consider localization, regulatory requirements, competitive landscape, and go-to-market strategy.",
			Enabled:         true,
		},
		{
			Text:            "Design the two-sided review system for a marketplace where both sides can retaliate. How do you keep reviews honest?",
			Category:        model.CategoryDesign,
			DifficultyLabel: model.DifficultyHard,
			EloDifficulty:   1780,
			Skills:          model.SkillList{model.SkillSystemsThinking, model.SkillTradeoffAnalysis, model.SkillExperimentation},
			Hint:            "Look at simultaneous reveal, time windows, and what incentive each side has to inflate or withhold ratings.",
			Enabled:         true,
		},
		{
			Text:            "You must cut your platform's infra cost by 30% without hurting the top-line metric. Walk through how you'd find and sequence the cuts.",
			Category:        model.CategoryPrioritization,
			DifficultyLabel: model.DifficultyHard,
			EloDifficulty:   1850,
			Skills:          model.SkillList{model.SkillTechnicalJudgment, model.SkillTradeoffAnalysis, model.SkillPrioritization},
			Hint:            "Start from a cost breakdown, map each line to user-facing value, and define the guardrail metrics before cutting.",
			Enabled:         true,
		},
	}
}
