package controller

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"pm_prep_backend/internal/service"
	"pm_prep_backend/internal/util"
)

type QuestionController struct {
	QuestionService   *service.QuestionService
	EvaluationService *service.EvaluationService
	AttemptService    *service.AttemptService
}

func NewQuestionController(questionService *service.QuestionService, evaluationService *service.EvaluationService, attemptService *service.AttemptService) *QuestionController {
	return &QuestionController{
		QuestionService:   questionService,
		EvaluationService: evaluationService,
		AttemptService:    attemptService,
	}
}

// NextQuestion godoc
// @Summary 取下一道练习题
// @Description 按当前评分自适应选题，preference可选easier/harder调整倾向，缺省跟随评分
// @Tags 题目
// @Produce  json
// @Security BearerAuth
// @Param   preference query string false "难度倾向" Enums(easier, matched, harder)
// @Success 200 {object} util.Response{data=model.Question} "题目"
// @Failure 404 {object} util.Response "题库为空"
// @Router /api/questions/next [get]
func (c *QuestionController) NextQuestion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	stats, err := c.AttemptService.EnsureStats(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	pref := service.DifficultyPreference(ctx.Query("preference"))
	question, err := c.QuestionService.NextQuestion(claims.UserID, stats.Rating, pref)
	if err != nil {
		if errors.Is(err, util.ErrNoQuestionsAvailable) {
			util.Error(ctx, 404, "题库暂无可用题目")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, question)
}

// ExampleRequest 范例回答请求
// swagger:model ExampleRequest
type ExampleRequest struct {
	Company string `json:"company"`
}

// GetExampleAnswer godoc
// @Summary 生成范例回答
// @Description 以指定公司资深PM的视角生成该题的范例回答
// @Tags 题目
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "题目ID"
// @Param   body body ExampleRequest false "公司（默认google）"
// @Success 200 {object} util.Response{data=object} "范例回答"
// @Failure 404 {object} util.Response "题目不存在"
// @Failure 502 {object} util.Response "生成服务不可用"
// @Router /api/questions/{id}/example [post]
func (c *QuestionController) GetExampleAnswer(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "无效的题目ID")
		return
	}

	var req ExampleRequest
	_ = ctx.ShouldBindJSON(&req)
	if req.Company == "" {
		req.Company = ctx.Query("company")
	}
	if req.Company == "" {
		req.Company = "google"
	}

	question, err := c.QuestionService.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	answer, err := c.EvaluationService.GenerateExampleAnswer(ctx.Request.Context(), question, req.Company)
	if err != nil {
		util.BadGateway(ctx, "范例生成暂不可用，请稍后重试")
		return
	}

	util.Success(ctx, gin.H{"company": req.Company, "exampleAnswer": answer})
}
