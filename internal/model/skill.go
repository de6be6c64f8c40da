package model

import (
	"database/sql/driver"
	"encoding/json"
)

// Skill 评估框架中的14项PM技能，闭合枚举
type Skill string

const (
	SkillProblemFraming     Skill = "problem_framing"
	SkillUserEmpathy        Skill = "user_empathy"
	SkillMetricsDefinition  Skill = "metrics_definition"
	SkillTradeoffAnalysis   Skill = "tradeoff_analysis"
	SkillPrioritization     Skill = "prioritization"
	SkillStrategicThinking  Skill = "strategic_thinking"
	SkillStakeholderMgmt    Skill = "stakeholder_mgmt"
	SkillCommunication      Skill = "communication"
	SkillTechnicalJudgment  Skill = "technical_judgment"
	SkillAmbiguityNav       Skill = "ambiguity_navigation"
	SkillSystemsThinking    Skill = "systems_thinking"
	SkillMarketSense        Skill = "market_sense"
	SkillExperimentation    Skill = "experimentation"
	SkillRiskAssessment     Skill = "risk_assessment"
)

var AllSkills = [14]Skill{
	SkillProblemFraming,
	SkillUserEmpathy,
	SkillMetricsDefinition,
	SkillTradeoffAnalysis,
	SkillPrioritization,
	SkillStrategicThinking,
	SkillStakeholderMgmt,
	SkillCommunication,
	SkillTechnicalJudgment,
	SkillAmbiguityNav,
	SkillSystemsThinking,
	SkillMarketSense,
	SkillExperimentation,
	SkillRiskAssessment,
}

func (s Skill) Valid() bool {
	for _, sk := range AllSkills {
		if s == sk {
			return true
		}
	}
	return false
}

// SkillScores 单次作答的14项技能子分数（1-10），0表示评估器未给出该项
// swagger:model SkillScores
type SkillScores struct {
	ProblemFraming     float64 `json:"problem_framing"`
	UserEmpathy        float64 `json:"user_empathy"`
	MetricsDefinition  float64 `json:"metrics_definition"`
	TradeoffAnalysis   float64 `json:"tradeoff_analysis"`
	Prioritization     float64 `json:"prioritization"`
	StrategicThinking  float64 `json:"strategic_thinking"`
	StakeholderMgmt    float64 `json:"stakeholder_mgmt"`
	Communication      float64 `json:"communication"`
	TechnicalJudgment  float64 `json:"technical_judgment"`
	AmbiguityNav       float64 `json:"ambiguity_navigation"`
	SystemsThinking    float64 `json:"systems_thinking"`
	MarketSense        float64 `json:"market_sense"`
	Experimentation    float64 `json:"experimentation"`
	RiskAssessment     float64 `json:"risk_assessment"`
}

func (s SkillScores) Get(sk Skill) float64 {
	switch sk {
	case SkillProblemFraming:
		return s.ProblemFraming
	case SkillUserEmpathy:
		return s.UserEmpathy
	case SkillMetricsDefinition:
		return s.MetricsDefinition
	case SkillTradeoffAnalysis:
		return s.TradeoffAnalysis
	case SkillPrioritization:
		return s.Prioritization
	case SkillStrategicThinking:
		return s.StrategicThinking
	case SkillStakeholderMgmt:
		return s.StakeholderMgmt
	case SkillCommunication:
		return s.Communication
	case SkillTechnicalJudgment:
		return s.TechnicalJudgment
	case SkillAmbiguityNav:
		return s.AmbiguityNav
	case SkillSystemsThinking:
		return s.SystemsThinking
	case SkillMarketSense:
		return s.MarketSense
	case SkillExperimentation:
		return s.Experimentation
	case SkillRiskAssessment:
		return s.RiskAssessment
	}
	return 0
}

func (s SkillScores) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *SkillScores) Scan(value interface{}) error {
	bytes, err := toBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, s)
}

// SkillRatings 用户的14项技能Elo评分，随每次作答独立更新
// swagger:model SkillRatings
type SkillRatings struct {
	ProblemFraming     int `json:"problem_framing"`
	UserEmpathy        int `json:"user_empathy"`
	MetricsDefinition  int `json:"metrics_definition"`
	TradeoffAnalysis   int `json:"tradeoff_analysis"`
	Prioritization     int `json:"prioritization"`
	StrategicThinking  int `json:"strategic_thinking"`
	StakeholderMgmt    int `json:"stakeholder_mgmt"`
	Communication      int `json:"communication"`
	TechnicalJudgment  int `json:"technical_judgment"`
	AmbiguityNav       int `json:"ambiguity_navigation"`
	SystemsThinking    int `json:"systems_thinking"`
	MarketSense        int `json:"market_sense"`
	Experimentation    int `json:"experimentation"`
	RiskAssessment     int `json:"risk_assessment"`
}

// DefaultSkillRatings 新用户的技能评分，全部从1200起步
func DefaultSkillRatings() SkillRatings {
	return SkillRatings{
		ProblemFraming:    DefaultRating,
		UserEmpathy:       DefaultRating,
		MetricsDefinition: DefaultRating,
		TradeoffAnalysis:  DefaultRating,
		Prioritization:    DefaultRating,
		StrategicThinking: DefaultRating,
		StakeholderMgmt:   DefaultRating,
		Communication:     DefaultRating,
		TechnicalJudgment: DefaultRating,
		AmbiguityNav:      DefaultRating,
		SystemsThinking:   DefaultRating,
		MarketSense:       DefaultRating,
		Experimentation:   DefaultRating,
		RiskAssessment:    DefaultRating,
	}
}

func (r SkillRatings) Get(sk Skill) int {
	switch sk {
	case SkillProblemFraming:
		return r.ProblemFraming
	case SkillUserEmpathy:
		return r.UserEmpathy
	case SkillMetricsDefinition:
		return r.MetricsDefinition
	case SkillTradeoffAnalysis:
		return r.TradeoffAnalysis
	case SkillPrioritization:
		return r.Prioritization
	case SkillStrategicThinking:
		return r.StrategicThinking
	case SkillStakeholderMgmt:
		return r.StakeholderMgmt
	case SkillCommunication:
		return r.Communication
	case SkillTechnicalJudgment:
		return r.TechnicalJudgment
	case SkillAmbiguityNav:
		return r.AmbiguityNav
	case SkillSystemsThinking:
		return r.SystemsThinking
	case SkillMarketSense:
		return r.MarketSense
	case SkillExperimentation:
		return r.Experimentation
	case SkillRiskAssessment:
		return r.RiskAssessment
	}
	return 0
}

func (r *SkillRatings) Set(sk Skill, v int) {
	switch sk {
	case SkillProblemFraming:
		r.ProblemFraming = v
	case SkillUserEmpathy:
		r.UserEmpathy = v
	case SkillMetricsDefinition:
		r.MetricsDefinition = v
	case SkillTradeoffAnalysis:
		r.TradeoffAnalysis = v
	case SkillPrioritization:
		r.Prioritization = v
	case SkillStrategicThinking:
		r.StrategicThinking = v
	case SkillStakeholderMgmt:
		r.StakeholderMgmt = v
	case SkillCommunication:
		r.Communication = v
	case SkillTechnicalJudgment:
		r.TechnicalJudgment = v
	case SkillAmbiguityNav:
		r.AmbiguityNav = v
	case SkillSystemsThinking:
		r.SystemsThinking = v
	case SkillMarketSense:
		r.MarketSense = v
	case SkillExperimentation:
		r.Experimentation = v
	case SkillRiskAssessment:
		r.RiskAssessment = v
	}
}

func (r SkillRatings) Value() (driver.Value, error) {
	return json.Marshal(r)
}

func (r *SkillRatings) Scan(value interface{}) error {
	bytes, err := toBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, r)
}

// StringList JSON数组列（strengths/weaknesses等）
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	bytes, err := toBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, l)
}

// SkillList 题目关联的技能标签列
type SkillList []Skill

func (l SkillList) Value() (driver.Value, error) {
	if l == nil {
		l = SkillList{}
	}
	return json.Marshal(l)
}

func (l *SkillList) Scan(value interface{}) error {
	bytes, err := toBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, l)
}
