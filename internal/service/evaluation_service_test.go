package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pm_prep_backend/internal/config"
	"pm_prep_backend/internal/model"
	"pm_prep_backend/internal/util"
)

// fakeEvaluator 返回固定文本的chat/completions端点
func fakeEvaluator(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func evalServiceFor(srv *httptest.Server) *EvaluationService {
	ai := NewAIService(config.AIConfig{BaseURL: srv.URL, APIKey: "test", Model: "test-model"})
	return NewEvaluationService(ai)
}

func testQuestion() *model.Question {
	q := &model.Question{
		Text:            "How would you improve search?",
		Category:        model.CategoryStrategy,
		DifficultyLabel: model.DifficultyMedium,
		EloDifficulty:   1400,
	}
	q.ID = 1
	return q
}

func TestValidateSubmission(t *testing.T) {
	longAnswer := strings.Repeat("a", MaxAnswerLength+1)
	longQuestion := strings.Repeat("q", MaxQuestionLength+1)

	tests := []struct {
		name     string
		question string
		answer   string
		wantErr  error
	}{
		{"valid", "question", "a perfectly reasonable answer", nil},
		{"answer too short", "question", "short", util.ErrAnswerTooShort},
		{"answer too long", "question", longAnswer, util.ErrAnswerTooLong},
		{"question too long", longQuestion, "a perfectly reasonable answer", util.ErrQuestionTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSubmission(tt.question, tt.answer)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEvaluateAnswer(t *testing.T) {
	// 模型输出常有markdown围栏和闲话，解析要能扒出中间的JSON
	content := "Here is my evaluation:\n```json\n" + `{
		"score": 7.5,
		"strengths": ["clear structure"],
		"weaknesses": ["no metrics"],
		"detailedFeedback": "Solid answer.",
		"categoryScores": {"strategy": 8, "metrics": 5, "prioritization": 7, "design": 7},
		"skillScores": {"problem_framing": 8, "metrics_definition": 4}
	}` + "\n```\nGood luck!"

	srv := fakeEvaluator(t, content)
	defer srv.Close()

	result, err := evalServiceFor(srv).EvaluateAnswer(context.Background(), testQuestion(), "a long enough answer about search improvements")
	if err != nil {
		t.Fatalf("EvaluateAnswer: %v", err)
	}

	if result.Score != 7.5 {
		t.Errorf("score = %.1f, want 7.5", result.Score)
	}
	if result.CategoryScores.Strategy != 8 {
		t.Errorf("strategy score = %.1f, want 8", result.CategoryScores.Strategy)
	}
	if result.SkillScores == nil || result.SkillScores.ProblemFraming != 8 {
		t.Error("skill scores not parsed")
	}
	if result.SkillScores.Communication != 0 {
		t.Errorf("communication = %.1f, want 0 (not assessed)", result.SkillScores.Communication)
	}
}

func TestEvaluateAnswerRejectsInvalidScore(t *testing.T) {
	srv := fakeEvaluator(t, `{"score": 42, "strengths": [], "weaknesses": [], "detailedFeedback": ""}`)
	defer srv.Close()

	_, err := evalServiceFor(srv).EvaluateAnswer(context.Background(), testQuestion(), "a long enough answer about search improvements")
	if err == nil {
		t.Fatal("expected error for out-of-range score")
	}
}

func TestEvaluateAnswerRejectsGarbage(t *testing.T) {
	srv := fakeEvaluator(t, "I refuse to answer in JSON today.")
	defer srv.Close()

	_, err := evalServiceFor(srv).EvaluateAnswer(context.Background(), testQuestion(), "a long enough answer about search improvements")
	if err == nil {
		t.Fatal("expected error for non-JSON response")
	}
}

func TestEvaluateAnswerSkipsEvaluatorOnShortAnswer(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	_, err := evalServiceFor(srv).EvaluateAnswer(context.Background(), testQuestion(), "hi")
	if !errors.Is(err, util.ErrAnswerTooShort) {
		t.Fatalf("err = %v, want ErrAnswerTooShort", err)
	}
	if called {
		t.Error("evaluator was called despite failed validation")
	}
}

func TestEvaluatePushback(t *testing.T) {
	srv := fakeEvaluator(t, `{
		"verdict": "PARTIALLY_ADJUSTED",
		"newScore": 7,
		"reasoning": "You did name a metric I overlooked.",
		"counterpoints": ["The metric lacked a target"],
		"finalThoughts": "Quantify your metrics next time."
	}`)
	defer srv.Close()

	attempt := &model.Attempt{QuestionText: "q", AnswerText: "a", Score: 6}
	result, err := evalServiceFor(srv).EvaluatePushback(context.Background(), attempt, "I did mention retention as a metric")
	if err != nil {
		t.Fatalf("EvaluatePushback: %v", err)
	}
	if result.Verdict != VerdictPartiallyAdjusted || result.NewScore != 7 {
		t.Errorf("got %s/%.1f, want PARTIALLY_ADJUSTED/7", result.Verdict, result.NewScore)
	}
}

func TestEvaluatePushbackRejectsUnknownVerdict(t *testing.T) {
	srv := fakeEvaluator(t, `{"verdict": "MAYBE", "newScore": 5}`)
	defer srv.Close()

	attempt := &model.Attempt{QuestionText: "q", AnswerText: "a", Score: 6}
	if _, err := evalServiceFor(srv).EvaluatePushback(context.Background(), attempt, "please reconsider"); err == nil {
		t.Fatal("expected error for unknown verdict")
	}
}

func TestGenerateExampleAnswerDefaultsCompany(t *testing.T) {
	srv := fakeEvaluator(t, "I would start by segmenting the search queries...")
	defer srv.Close()

	answer, err := evalServiceFor(srv).GenerateExampleAnswer(context.Background(), testQuestion(), "unknown-co")
	if err != nil {
		t.Fatalf("GenerateExampleAnswer: %v", err)
	}
	if answer == "" {
		t.Error("empty example answer")
	}
}

func TestParseModelJSON(t *testing.T) {
	var out struct {
		Score float64 `json:"score"`
	}
	if err := parseModelJSON("prefix {\"score\": 5} suffix", &out); err != nil {
		t.Fatalf("parseModelJSON: %v", err)
	}
	if out.Score != 5 {
		t.Errorf("score = %.1f, want 5", out.Score)
	}

	if err := parseModelJSON("no braces here", &out); err == nil {
		t.Error("expected error when no JSON object present")
	}
}
