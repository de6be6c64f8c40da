package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"pm_prep_backend/internal/model"
	"pm_prep_backend/internal/util"
	"pm_prep_backend/pkg/monitoring"
)

// 提交校验边界，超出范围不调用评估器
const (
	MinAnswerLength   = 10
	MaxAnswerLength   = 5000
	MaxQuestionLength = 2000
)

// EvaluationService 把作答交给大模型评分并解析成结构化结果。
// 评估失败时上层不得落库、不得改评分。
type EvaluationService struct {
	ai *AIService
}

func NewEvaluationService(ai *AIService) *EvaluationService {
	return &EvaluationService{ai: ai}
}

// EvaluationResult 评估器的结构化输出
type EvaluationResult struct {
	Score            float64              `json:"score"`
	Strengths        model.StringList     `json:"strengths"`
	Weaknesses       model.StringList     `json:"weaknesses"`
	DetailedFeedback string               `json:"detailedFeedback"`
	CategoryScores   model.CategoryScores `json:"categoryScores"`
	SkillScores      *model.SkillScores   `json:"skillScores,omitempty"`
}

type PushbackVerdict string

const (
	VerdictUpheld            PushbackVerdict = "UPHELD"
	VerdictPartiallyAdjusted PushbackVerdict = "PARTIALLY_ADJUSTED"
	VerdictFullyAdjusted     PushbackVerdict = "FULLY_ADJUSTED"
)

// PushbackResult 申诉复议结果。仅用于展示：原始作答记录和评分不回写。
type PushbackResult struct {
	Verdict       PushbackVerdict `json:"verdict"`
	NewScore      float64         `json:"newScore"`
	Reasoning     string          `json:"reasoning"`
	Counterpoints []string        `json:"counterpoints"`
	FinalThoughts string          `json:"finalThoughts"`
}

// ValidateSubmission 前置校验，错误信息指明具体超限项
func ValidateSubmission(questionText, answer string) error {
	if len(questionText) > MaxQuestionLength {
		return util.ErrQuestionTooLong
	}
	if len(answer) < MinAnswerLength {
		return util.ErrAnswerTooShort
	}
	if len(answer) > MaxAnswerLength {
		return util.ErrAnswerTooLong
	}
	return nil
}

// EvaluateAnswer 调用评估器给作答打分
func (s *EvaluationService) EvaluateAnswer(ctx context.Context, question *model.Question, answer string) (*EvaluationResult, error) {
	if err := ValidateSubmission(question.Text, answer); err != nil {
		return nil, err
	}

	start := time.Now()
	text, err := s.ai.Chat(ctx, "", evaluationPrompt(question, answer), 0.7)
	monitoring.ObserveEvaluation("evaluate", start, err)
	if err != nil {
		return nil, err
	}

	var result EvaluationResult
	if err := parseModelJSON(text, &result); err != nil {
		return nil, err
	}

	if result.Score <= 0 || result.Score > 10 {
		return nil, fmt.Errorf("evaluator returned invalid score %.2f", result.Score)
	}

	return &result, nil
}

// EvaluatePushback 用户对评分提出异议时的同行复议
func (s *EvaluationService) EvaluatePushback(ctx context.Context, attempt *model.Attempt, pushbackText string) (*PushbackResult, error) {
	start := time.Now()
	text, err := s.ai.Chat(ctx, "", pushbackPrompt(attempt, pushbackText), 0.7)
	monitoring.ObserveEvaluation("pushback", start, err)
	if err != nil {
		return nil, err
	}

	var result PushbackResult
	if err := parseModelJSON(text, &result); err != nil {
		return nil, err
	}

	switch result.Verdict {
	case VerdictUpheld, VerdictPartiallyAdjusted, VerdictFullyAdjusted:
	default:
		return nil, fmt.Errorf("evaluator returned unknown verdict %q", result.Verdict)
	}

	return &result, nil
}

// GenerateExampleAnswer 以某公司资深PM的口吻生成范例回答
func (s *EvaluationService) GenerateExampleAnswer(ctx context.Context, question *model.Question, company string) (string, error) {
	ctxProfile := companyContext(company)

	start := time.Now()
	text, err := s.ai.Chat(ctx, "", examplePrompt(question, ctxProfile), 0.8)
	monitoring.ObserveEvaluation("example", start, err)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// parseModelJSON 从模型输出中截取首个JSON对象。模型常会在JSON外
// 包一段markdown围栏或说明文字，直接Unmarshal会失败。
func parseModelJSON(text string, out interface{}) error {
	begin := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if begin < 0 || end <= begin {
		return fmt.Errorf("no JSON object in evaluator response")
	}
	if err := json.Unmarshal([]byte(text[begin:end+1]), out); err != nil {
		return fmt.Errorf("malformed evaluator response: %w", err)
	}
	return nil
}

func evaluationPrompt(question *model.Question, answer string) string {
	var b strings.Builder
	b.WriteString("You are a senior product management interviewer at Google with 10+ years of experience evaluating PM candidates.\n\n")
	fmt.Fprintf(&b, "QUESTION: %s\nCATEGORY: %s\nDIFFICULTY: %s\n\nCANDIDATE'S ANSWER:\n%s\n\n", question.Text, question.Category, question.DifficultyLabel, answer)
	b.WriteString(`EVALUATION FRAMEWORK - 14 PM SKILLS:

**CORE THINKING:**
1. Problem Framing 2. User Empathy 3. Metrics Definition 4. Trade-off Analysis 5. Prioritization 6. Strategic Thinking

**EXECUTION:**
7. Stakeholder Management 8. Communication 9. Technical Judgment

**ADVANCED:**
10. Ambiguity Navigation 11. Systems Thinking 12. Market Sense 13. Experimentation 14. Risk Assessment

SCORE CALIBRATION:
**9-10:** Exceptional - Non-obvious insight, specific metrics, creative alternatives
**7-8:** Strong - Clear structure, trade-offs, specific metrics
**5-6:** Adequate - Basic structure, generic or missing metrics
**3-4:** Weak - Minimal structure, no metrics, no PM thinking
**1-2:** Very Weak - Test answers, doesn't address question, under 30 words

CRITICAL RULES:
- "This is a test" = 1/10
- Under 30 words = MAX 3/10
- No specific metrics = MAX 5/10
- No trade-offs = MAX 6/10

OUTPUT (JSON only, no markdown):
{
  "score": <0-10>,
  "strengths": ["<specific>", "<specific>", "<specific>"],
  "weaknesses": ["<specific>", "<specific>", "<specific>"],
  "detailedFeedback": "<2-3 sentences>",
  "categoryScores": {"strategy": <1-10>, "metrics": <1-10>, "prioritization": <1-10>, "design": <1-10>},
  "skillScores": {"problem_framing": <1-10>, "user_empathy": <1-10>, "metrics_definition": <1-10>, "tradeoff_analysis": <1-10>, "prioritization": <1-10>, "strategic_thinking": <1-10>, "stakeholder_mgmt": <1-10>, "communication": <1-10>, "technical_judgment": <1-10>, "ambiguity_navigation": <1-10>, "systems_thinking": <1-10>, "market_sense": <1-10>, "experimentation": <1-10>, "risk_assessment": <1-10>}
}`)
	return b.String()
}

func pushbackPrompt(attempt *model.Attempt, pushbackText string) string {
	feedback, _ := json.Marshal(map[string]interface{}{
		"strengths":        attempt.Strengths,
		"weaknesses":       attempt.Weaknesses,
		"detailedFeedback": attempt.DetailedFeedback,
	})

	var b strings.Builder
	b.WriteString("You are a Senior PM evaluating another PM's pushback on their score.\n\n")
	fmt.Fprintf(&b, "ORIGINAL QUESTION: %s\nTHEIR ANSWER: %s\nORIGINAL SCORE: %.1f/10\nORIGINAL FEEDBACK: %s\n\nTHEIR PUSHBACK:\n%s\n\n", attempt.QuestionText, attempt.AnswerText, attempt.Score, feedback, pushbackText)
	b.WriteString(`Your job: Evaluate their pushback like a peer PM would in a healthy debate.

CRITICAL RULES:
1. DO NOT automatically agree. Be skeptical but fair.
2. If they make valid points you missed, acknowledge it and adjust score.
3. If they're wrong, explain WHY with specific examples from their answer.
4. If they're partially right, give partial credit.
5. Challenge weak arguments. Don't let them off easy.
6. Maintain professional tone - this is peer debate, not adversarial.

RESPONSE FORMAT (Return ONLY valid JSON, no markdown):
{
  "verdict": "UPHELD" | "PARTIALLY_ADJUSTED" | "FULLY_ADJUSTED",
  "newScore": <number 0-10>,
  "reasoning": "<2-3 sentences explaining your decision>",
  "counterpoints": ["<Specific point they made and your response>"],
  "finalThoughts": "<1 sentence - what they should focus on next>"
}

Be specific. Be fair. Be rigorous.`)
	return b.String()
}

type companyProfile struct {
	Name        string
	Philosophy  string
	Prioritizes []string
}

var companyProfiles = map[string]companyProfile{
	"google": {
		Name:       "Google",
		Philosophy: `Data-driven decisions, user research, experimentation at scale. "Focus on the user and all else will follow." OKRs and 10x thinking.`,
		Prioritizes: []string{
			"A/B test everything with statistical rigor",
			"User research to validate assumptions",
			"Metrics-driven decision making",
			"Think 10x improvements, not 10%",
		},
	},
	"apple": {
		Name:       "Apple",
		Philosophy: `Quality bar above all. Vertical integration. "It just works." Design as competitive advantage. Willing to delay for perfection.`,
		Prioritizes: []string{
			"User experience perfection over shipping fast",
			"Cohesive ecosystem thinking",
			"Control the entire stack (hardware + software)",
			`"A thousand no's for every yes"`,
		},
	},
	"amazon": {
		Name:       "Amazon",
		Philosophy: "Customer obsession. Work backwards from customer needs. 16 Leadership Principles. Bias for action. Frugality.",
		Prioritizes: []string{
			"Customer obsession beats competitor obsession",
			"Work backwards from customer (PR/FAQ process)",
			"Bias for action and ownership",
			"Frugality and operational excellence",
		},
	},
	"meta": {
		Name:       "Meta",
		Philosophy: `Ship to learn. Engagement loops. Network effects. "Move fast" culture. Growth as a discipline.`,
		Prioritizes: []string{
			"Engagement time and DAU metrics",
			"Ship imperfect and iterate quickly",
			"Growth loops and virality",
			"Network effects and social graphs",
		},
	},
	"stripe": {
		Name:       "Stripe",
		Philosophy: "Increase GDP of the internet. Developer experience IS the product. API design matters. Infrastructure reliability is non-negotiable.",
		Prioritizes: []string{
			"Developer experience and API design",
			"Infrastructure reliability (downtime = merchants lose money)",
			"Documentation quality",
			"Build the financial infrastructure for the internet",
		},
	},
	"discord": {
		Name:       "Discord",
		Philosophy: "Communities own their spaces. Server admins are power users. Authentic connections. Gaming roots (low-latency, reliable voice).",
		Prioritizes: []string{
			"Server owner control and customization",
			"Community authenticity over growth hacks",
			"Performance (especially voice quality)",
			"Respect free users (Nitro is cosmetic)",
		},
	},
}

func companyContext(company string) companyProfile {
	if p, ok := companyProfiles[strings.ToLower(company)]; ok {
		return p
	}
	return companyProfiles["google"]
}

func examplePrompt(question *model.Question, p companyProfile) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a Senior PM at %s with 10+ years of experience.\n\n", p.Name)
	fmt.Fprintf(&b, "COMPANY PHILOSOPHY:\n%s\n\nWHAT %s PRIORITIZES:\n", p.Philosophy, strings.ToUpper(p.Name))
	for _, item := range p.Prioritizes {
		fmt.Fprintf(&b, "- %s\n", item)
	}
	fmt.Fprintf(&b, "\nQuestion: %s\nCategory: %s\nDifficulty: %s\n\n", question.Text, question.Category, question.DifficultyLabel)
	fmt.Fprintf(&b, `CRITICAL: Excellent PM thinking is universal - metrics, trade-offs, user focus, business impact. Your answer should reflect %s's *approach* to solving problems, but the fundamentals of good product thinking don't change. Don't "play a character" - demonstrate real PM judgment through %s's lens.

REQUIREMENTS:
1. Lead with judgment - Clear decision/POV immediately
2. Reflect %s's priorities naturally (don't force it)
3. Be concise - 150-250 words MAX
4. Sound human and confident
5. Show creativity and insight
6. Specific metrics with rationale
7. NO framework name-dropping

Answer as a %s PM would think through this problem:`, p.Name, p.Name, p.Name, p.Name)
	return b.String()
}
