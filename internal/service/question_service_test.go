package service

import (
	"errors"
	"testing"

	"gorm.io/gorm"

	"pm_prep_backend/internal/model"
	"pm_prep_backend/internal/util"
)

type fakePool struct {
	questions []model.Question
}

func (f *fakePool) FindByID(id uint) (*model.Question, error) {
	for _, q := range f.questions {
		if q.ID == id {
			return &q, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePool) FindByDifficultyRange(min, max, limit int) ([]model.Question, error) {
	var out []model.Question
	for _, q := range f.questions {
		if q.EloDifficulty >= min && q.EloDifficulty <= max {
			out = append(out, q)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakePool) FindAny(limit int) ([]model.Question, error) {
	if len(f.questions) > limit {
		return f.questions[:limit], nil
	}
	return f.questions, nil
}

type fakeScores struct {
	scores []float64
	err    error
}

func (f *fakeScores) FindRecentScores(uint, int) ([]float64, error) {
	return f.scores, f.err
}

func poolQuestion(id uint, difficulty int) model.Question {
	q := model.Question{Text: "q", Category: model.CategoryStrategy, EloDifficulty: difficulty}
	q.ID = id
	return q
}

func TestTargetWindow(t *testing.T) {
	tests := []struct {
		name      string
		rating    int
		recentAvg float64
		pref      DifficultyPreference
		wantMin   int
		wantMax   int
	}{
		{"no history", 1200, -1, "", 1050, 1350},
		{"hot streak shifts up", 1200, 8.4, "", 1150, 1450},
		{"just above coasting bar", 1200, 7.8, "", 1150, 1450},
		{"slump shifts down", 1200, 3.2, "", 950, 1250},
		{"just above struggling bar stays put", 1200, 4.7, "", 1050, 1350},
		{"average performance no shift", 1200, 6.5, "", 1050, 1350},
		{"prefer easier", 1400, -1, PreferEasier, 1100, 1400},
		{"prefer harder", 1400, -1, PreferHarder, 1400, 1700},
		{"slump plus prefer easier stack", 1400, 2, PreferEasier, 1000, 1300},
		{"window floor clamped", 850, -1, PreferEasier, 800, 850},
		{"window ceiling clamped", 2150, -1, PreferHarder, 2150, 2200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			min, max := targetWindow(tt.rating, tt.recentAvg, tt.pref)
			if min != tt.wantMin || max != tt.wantMax {
				t.Errorf("targetWindow(%d, %.1f, %q) = [%d, %d], want [%d, %d]",
					tt.rating, tt.recentAvg, tt.pref, min, max, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestNextQuestionPicksFromWindow(t *testing.T) {
	pool := &fakePool{questions: []model.Question{
		poolQuestion(1, 900),
		poolQuestion(2, 1250),
		poolQuestion(3, 1900),
	}}
	svc := NewQuestionService(pool, &fakeScores{})
	svc.randInt = func(n int) int { return 0 }

	q, err := svc.NextQuestion(1, 1200, "")
	if err != nil {
		t.Fatalf("NextQuestion: %v", err)
	}
	if q.ID != 2 {
		t.Errorf("picked question %d (difficulty %d), want 2 from [1050, 1350]", q.ID, q.EloDifficulty)
	}
}

func TestNextQuestionSparseHistoryStaysNeutral(t *testing.T) {
	// 只有一次9分的作答不构成趋势，窗口不应上移
	pool := &fakePool{questions: []model.Question{
		poolQuestion(1, 1075),
		poolQuestion(2, 1400),
	}}
	svc := NewQuestionService(pool, &fakeScores{scores: []float64{9.0}})
	svc.randInt = func(n int) int { return 0 }

	q, err := svc.NextQuestion(1, 1200, "")
	if err != nil {
		t.Fatalf("NextQuestion: %v", err)
	}
	if q.ID != 1 {
		t.Errorf("picked question %d (difficulty %d), want 1 from the unshifted [1050, 1350]", q.ID, q.EloDifficulty)
	}
}

func TestNextQuestionSustainedHighScoresShiftUp(t *testing.T) {
	// 连续三次高分后窗口上移到[1150, 1450]
	pool := &fakePool{questions: []model.Question{
		poolQuestion(1, 1075),
		poolQuestion(2, 1400),
	}}
	svc := NewQuestionService(pool, &fakeScores{scores: []float64{8.0, 7.5, 8.5}})
	svc.randInt = func(n int) int { return 0 }

	q, err := svc.NextQuestion(1, 1200, "")
	if err != nil {
		t.Fatalf("NextQuestion: %v", err)
	}
	if q.ID != 2 {
		t.Errorf("picked question %d (difficulty %d), want 2 from the shifted [1150, 1450]", q.ID, q.EloDifficulty)
	}
}

func TestNextQuestionFallsBackToWiderBand(t *testing.T) {
	// 1250在±150窗口外，但在±300回退带内
	pool := &fakePool{questions: []model.Question{poolQuestion(1, 1250)}}
	svc := NewQuestionService(pool, &fakeScores{})
	svc.randInt = func(n int) int { return 0 }

	q, err := svc.NextQuestion(1, 1500, "")
	if err != nil {
		t.Fatalf("NextQuestion: %v", err)
	}
	if q.ID != 1 {
		t.Errorf("picked question %d, want fallback-band question 1", q.ID)
	}
}

func TestNextQuestionFallsBackToAny(t *testing.T) {
	pool := &fakePool{questions: []model.Question{poolQuestion(1, 2100)}}
	svc := NewQuestionService(pool, &fakeScores{})
	svc.randInt = func(n int) int { return 0 }

	q, err := svc.NextQuestion(1, 900, "")
	if err != nil {
		t.Fatalf("NextQuestion: %v", err)
	}
	if q.ID != 1 {
		t.Errorf("picked question %d, want 1", q.ID)
	}
}

func TestNextQuestionEmptyPool(t *testing.T) {
	svc := NewQuestionService(&fakePool{}, &fakeScores{})

	_, err := svc.NextQuestion(1, 1200, "")
	if !errors.Is(err, util.ErrNoQuestionsAvailable) {
		t.Errorf("err = %v, want ErrNoQuestionsAvailable", err)
	}
}

func TestNextQuestionIgnoresScoreLoadFailure(t *testing.T) {
	// 近期成绩读不到只放弃表现调整，不影响取题
	pool := &fakePool{questions: []model.Question{poolQuestion(1, 1200)}}
	svc := NewQuestionService(pool, &fakeScores{err: errors.New("db down")})
	svc.randInt = func(n int) int { return 0 }

	q, err := svc.NextQuestion(1, 1200, "")
	if err != nil {
		t.Fatalf("NextQuestion: %v", err)
	}
	if q.ID != 1 {
		t.Errorf("picked question %d, want 1", q.ID)
	}
}

func TestNextQuestionUniformish(t *testing.T) {
	pool := &fakePool{questions: []model.Question{
		poolQuestion(1, 1150),
		poolQuestion(2, 1200),
		poolQuestion(3, 1250),
	}}
	svc := NewQuestionService(pool, &fakeScores{})

	seen := map[uint]int{}
	for i := 0; i < 300; i++ {
		q, err := svc.NextQuestion(1, 1200, "")
		if err != nil {
			t.Fatalf("NextQuestion: %v", err)
		}
		seen[q.ID]++
	}
	for id := uint(1); id <= 3; id++ {
		if seen[id] == 0 {
			t.Errorf("question %d never sampled in 300 draws", id)
		}
	}
}
