package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Category 面试题的固定分类，整个系统只认这四类
type Category string

const (
	CategoryStrategy       Category = "strategy"
	CategoryMetrics        Category = "metrics"
	CategoryPrioritization Category = "prioritization"
	CategoryDesign         Category = "design"
)

// AllCategories 固定顺序的全部分类，遍历统计时使用
var AllCategories = [4]Category{
	CategoryStrategy,
	CategoryMetrics,
	CategoryPrioritization,
	CategoryDesign,
}

func (c Category) Valid() bool {
	for _, v := range AllCategories {
		if c == v {
			return true
		}
	}
	return false
}

// DisplayName 前端展示用的分类名称
func (c Category) DisplayName() string {
	switch c {
	case CategoryStrategy:
		return "Product Strategy"
	case CategoryMetrics:
		return "Metrics & Analytics"
	case CategoryPrioritization:
		return "Prioritization"
	case CategoryDesign:
		return "Product Design"
	}
	return string(c)
}

// CategoryScores 四个分类维度的子分数（0-10），以固定字段代替松散的map，
// 避免分类名拼写错误静默丢数据
// swagger:model CategoryScores
type CategoryScores struct {
	Strategy       float64 `json:"strategy"`
	Metrics        float64 `json:"metrics"`
	Prioritization float64 `json:"prioritization"`
	Design         float64 `json:"design"`
}

func (s CategoryScores) Get(c Category) float64 {
	switch c {
	case CategoryStrategy:
		return s.Strategy
	case CategoryMetrics:
		return s.Metrics
	case CategoryPrioritization:
		return s.Prioritization
	case CategoryDesign:
		return s.Design
	}
	return 0
}

func (s *CategoryScores) Set(c Category, v float64) {
	switch c {
	case CategoryStrategy:
		s.Strategy = v
	case CategoryMetrics:
		s.Metrics = v
	case CategoryPrioritization:
		s.Prioritization = v
	case CategoryDesign:
		s.Design = v
	}
}

func (s CategoryScores) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *CategoryScores) Scan(value interface{}) error {
	bytes, err := toBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, s)
}

func toBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	case nil:
		return []byte("null"), nil
	}
	return nil, fmt.Errorf("unsupported column type %T", value)
}
