package controller

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pm_prep_backend/internal/model"
	"pm_prep_backend/internal/service"
	"pm_prep_backend/internal/util"
	"pm_prep_backend/pkg/logger"
)

type AttemptController struct {
	QuestionService   *service.QuestionService
	EvaluationService *service.EvaluationService
	AttemptService    *service.AttemptService
	DraftService      *service.DraftService
}

func NewAttemptController(questionService *service.QuestionService, evaluationService *service.EvaluationService, attemptService *service.AttemptService, draftService *service.DraftService) *AttemptController {
	return &AttemptController{
		QuestionService:   questionService,
		EvaluationService: evaluationService,
		AttemptService:    attemptService,
		DraftService:      draftService,
	}
}

// SubmitRequest 提交作答
// swagger:model SubmitRequest
type SubmitRequest struct {
	QuestionID uint   `json:"questionId" binding:"required"`
	AnswerText string `json:"answerText" binding:"required"`
}

// Submit godoc
// @Summary 提交作答
// @Description 评估作答并更新评分。评估失败时不产生任何记录；
// @Description 评估成功但落库失败时返回评估结果并标记saved=false。
// @Tags 作答
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body SubmitRequest true "作答内容"
// @Success 200 {object} util.Response{data=object} "评估结果与评分变化"
// @Failure 400 {object} util.Response "作答长度不合规"
// @Failure 404 {object} util.Response "题目不存在"
// @Failure 502 {object} util.Response "评估服务不可用"
// @Router /api/attempts [post]
func (c *AttemptController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.QuestionService.GetByID(req.QuestionID)
	if err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	eval, err := c.EvaluationService.EvaluateAnswer(ctx.Request.Context(), question, req.AnswerText)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrAnswerTooShort):
			util.BadRequest(ctx, "作答太短，至少10个字符")
		case errors.Is(err, util.ErrAnswerTooLong):
			util.BadRequest(ctx, "作答超出5000字符上限")
		case errors.Is(err, util.ErrQuestionTooLong):
			util.BadRequest(ctx, "题目超长，无法评估")
		default:
			// 评估失败什么都不落库，用户可以原样重试
			util.BadGateway(ctx, "评估服务暂不可用，请稍后重试")
		}
		return
	}

	attempt, stats, err := c.AttemptService.RecordAttempt(claims.UserID, question, req.AnswerText, eval)
	if err != nil {
		// 评估已经花掉了，结果照常返回，只是没存下来
		logger.Log.Error("Failed to record attempt",
			zap.Uint("user_id", claims.UserID), zap.Error(err))
		util.Success(ctx, gin.H{
			"saved":      false,
			"evaluation": eval,
		})
		return
	}

	if err := c.DraftService.Clear(ctx.Request.Context(), claims.UserID); err != nil {
		logger.Log.Warn("Failed to clear draft after submit",
			zap.Uint("user_id", claims.UserID), zap.Error(err))
	}

	util.Success(ctx, gin.H{
		"saved":   true,
		"attempt": attempt,
		"stats": gin.H{
			"rating":       stats.Rating,
			"ratingBand":   model.RatingBand(stats.Rating),
			"ratingChange": attempt.RatingChange,
			"streakDays":   stats.StreakDays,
		},
	})
}

// List godoc
// @Summary 作答历史
// @Tags 作答
// @Produce  json
// @Security BearerAuth
// @Param   limit query int false "每页条数，默认20"
// @Param   offset query int false "偏移量"
// @Success 200 {object} util.Response{data=object} "历史记录"
// @Router /api/attempts [get]
func (c *AttemptController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(ctx.DefaultQuery("offset", "0"))

	attempts, total, err := c.AttemptService.History(claims.UserID, limit, offset)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"attempts": attempts, "total": total})
}

// Get godoc
// @Summary 单条作答详情
// @Tags 作答
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "作答ID"
// @Success 200 {object} util.Response{data=model.Attempt} "作答详情"
// @Failure 404 {object} util.Response "记录不存在"
// @Router /api/attempts/{id} [get]
func (c *AttemptController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "无效的作答ID")
		return
	}

	attempt, err := c.AttemptService.GetByID(uint(id), claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrAttemptNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, attempt)
}

// PushbackRequest 对评分的申诉
// swagger:model PushbackRequest
type PushbackRequest struct {
	Argument string `json:"argument" binding:"required,min=10"`
}

// Pushback godoc
// @Summary 申诉评分
// @Description 对某次作答的评分提出异议，由评估器复议。复议结果
// @Description 只作展示，原始记录和评分不变。
// @Tags 作答
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "作答ID"
// @Param   body body PushbackRequest true "申诉理由"
// @Success 200 {object} util.Response{data=service.PushbackResult} "复议结果"
// @Failure 404 {object} util.Response "记录不存在"
// @Failure 502 {object} util.Response "评估服务不可用"
// @Router /api/attempts/{id}/pushback [post]
func (c *AttemptController) Pushback(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "无效的作答ID")
		return
	}

	var req PushbackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attempt, err := c.AttemptService.GetByID(uint(id), claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrAttemptNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	result, err := c.EvaluationService.EvaluatePushback(ctx.Request.Context(), attempt, req.Argument)
	if err != nil {
		util.BadGateway(ctx, "复议服务暂不可用，请稍后重试")
		return
	}

	util.Success(ctx, result)
}
